// Package sqlite 提供單機版的 GORM SQLite 連線 (開發、測試與小型部署)
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/JoeShih716/go-bank-ledger/pkg/gormlog"
)

// Config SQLite 設定
type Config struct {
	Path     string `yaml:"path"`      // 資料庫檔案路徑
	LogLevel string `yaml:"log_level"` // Log 等級: "silent", "error", "warn", "info"
}

// Client 封裝 GORM DB 實例
type Client struct {
	db *gorm.DB
}

// NewClient 開啟 (或建立) SQLite 資料庫
//
// SQLite 同一時間只允許一個寫入者，連線池限制為 1 條連線，
// 交易內的查詢必須使用交易本身的 *gorm.DB。
func NewClient(cfg Config) (*Client, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: empty path")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}

	dsn := cfg.Path + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlog.New(cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &Client{db: db}, nil
}

// DB 回傳底層的 *gorm.DB 實例
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
