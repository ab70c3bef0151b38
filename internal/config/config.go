// Package config 載入服務設定：YAML 檔、.env 與 LEDGER_* 環境變數
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
	"github.com/JoeShih716/go-bank-ledger/pkg/sqlite"
)

// 儲存後端
const (
	DriverMemory = "memory"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// EnvPrefix 環境變數前綴
const EnvPrefix = "LEDGER_"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	MySQL     mysql.Config    `yaml:"mysql"`
	SQLite    sqlite.Config   `yaml:"sqlite"`
	WAL       WALConfig       `yaml:"wal"`
	Transfer  TransferConfig  `yaml:"transfer"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Discord   DiscordConfig   `yaml:"discord"`
	Log       logger.Config   `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // memory | mysql | sqlite
	// 建立帳戶時檢查客戶是否存在
	CheckCustomers bool `yaml:"check_customers"`
	// 啟動時載入的客戶，memory 後端的客戶目錄只有這些；mysql / sqlite 會 upsert 進 customers 表
	Customers []CustomerSeed `yaml:"customers"`
}

type CustomerSeed struct {
	ID    int64  `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

// WALConfig 記憶體後端與補償 journal 的檔案位置
type WALConfig struct {
	Dir    string `yaml:"dir"`
	NodeID int64  `yaml:"node_id"` // snowflake 節點編號 (0-1023)
}

type TransferConfig struct {
	// 扣款之後完成入帳或沖回的時間上限
	CommitTimeout time.Duration `yaml:"commit_timeout"`
}

type ReconcileConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// DiscordConfig Token 為空時不啟用 Discord 通知
type DiscordConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
}

// Enabled 是否啟用 Discord 通知
func (c DiscordConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

// Load 讀取設定檔 (path 為空時只用預設值與環境變數)，
// 之後載入 .env (若存在) 並套用 LEDGER_* 環境變數與預設值
func Load(path string, envFiles ...string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv 不覆寫已存在的環境變數
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"SERVER_ADDR":        &c.Server.Addr,
		"STORAGE_DRIVER":     &c.Storage.Driver,
		"MYSQL_HOST":         &c.MySQL.Host,
		"MYSQL_USER":         &c.MySQL.User,
		"MYSQL_PASSWORD":     &c.MySQL.Password,
		"MYSQL_DB_NAME":      &c.MySQL.DBName,
		"SQLITE_PATH":        &c.SQLite.Path,
		"WAL_DIR":            &c.WAL.Dir,
		"DISCORD_TOKEN":      &c.Discord.Token,
		"DISCORD_CHANNEL_ID": &c.Discord.ChannelID,
		"LOG_LEVEL":          &c.Log.Level,
		"LOG_FORMAT":         &c.Log.Format,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "MYSQL_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMYSQL_PORT: %w", EnvPrefix, err)
		}
		c.MySQL.Port = port
	}
	return nil
}

// setDefaults 補全設定檔沒寫的欄位
func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":50051"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverMemory
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "data/ledger.db"
	}
	if c.WAL.Dir == "" {
		c.WAL.Dir = "data"
	}
	if c.WAL.NodeID == 0 {
		c.WAL.NodeID = 1
	}
	if c.Transfer.CommitTimeout == 0 {
		c.Transfer.CommitTimeout = 5 * time.Second
	}
	if c.Reconcile.Interval == 0 {
		c.Reconcile.Interval = 5 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.MySQL.SetDefaults()
}

// Validate 檢查設定值
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.WAL.NodeID < 0 || c.WAL.NodeID > 1023 {
		return fmt.Errorf("wal.node_id %d out of range [0, 1023]", c.WAL.NodeID)
	}
	if c.Storage.Driver == DriverMemory && c.Storage.CheckCustomers && len(c.Storage.Customers) == 0 {
		return errors.New("storage.check_customers with the memory driver requires storage.customers")
	}
	seen := make(map[int64]bool, len(c.Storage.Customers))
	for _, cu := range c.Storage.Customers {
		if seen[cu.ID] {
			return fmt.Errorf("storage.customers: duplicate id %d", cu.ID)
		}
		seen[cu.ID] = true
	}
	if c.Storage.Driver == DriverMySQL && (c.MySQL.Host == "" || c.MySQL.DBName == "") {
		return errors.New("mysql.host and mysql.db_name are required for the mysql driver")
	}
	return nil
}
