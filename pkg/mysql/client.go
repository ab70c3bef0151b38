package mysql

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/JoeShih716/go-bank-ledger/pkg/gormlog"
)

// Client 封裝 GORM DB 實例
type Client struct {
	db *gorm.DB
}

// NewClient 建立並回傳一個新的 MySQL 客戶端實例 (GORM)
//
// 參數:
//
//	cfg: Config - MySQL 連線配置 (未設定的欄位使用預設值)
//
// 回傳值:
//
//	*Client: 封裝後的 MySQL 客戶端
//	error: 若連線失敗則回傳錯誤
func NewClient(cfg Config) (*Client, error) {
	cfg.SetDefaults()
	gormConfig := &gorm.Config{
		// 轉帳與建帳的寫入都由 Ledger 自行包交易
		SkipDefaultTransaction: true,
		// 唯一鍵衝突轉成 gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         gormlog.New(cfg.LogLevel),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < cfg.MaxRetries; i++ {
		db, err = gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
		if err == nil {
			// Try pinging to ensure connection is actually alive
			rawDB, pingErr := db.DB()
			if pingErr == nil {
				if err = rawDB.Ping(); err == nil {
					break // Connection successful
				}
			} else {
				err = pingErr
			}
		}

		if i < cfg.MaxRetries-1 {
			slog.Warn("failed to connect to mysql, retrying",
				slog.Int("attempt", i+1),
				slog.Int("max_retries", cfg.MaxRetries),
				slog.Duration("retry_in", cfg.RetryInterval),
				slog.String("error", err.Error()))
			time.Sleep(cfg.RetryInterval)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql after %d attempts: %w", cfg.MaxRetries, err)
	}

	// 取得底層 sql.DB 物件以設定連線池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.db: %w", err)
	}

	// 這些設定對於防止資料庫連線耗盡至關重要
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Client{db: db}, nil
}

// DB 回傳底層的 *gorm.DB 實例，供 adapter 使用
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Close 關閉資料庫連線
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
