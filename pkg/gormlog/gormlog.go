// Package gormlog 把 GORM 的 logger 接到 slog
package gormlog

import (
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

// SlowThreshold 超過此時間的 SQL 以 warn 記錄
const SlowThreshold = 200 * time.Millisecond

// New 根據配置建立 GORM Logger，輸出到 slog.Default()
//
// 參數:
//
//	level: string - "silent", "error", "warn", "info"，其餘視為 "error"
func New(level string) logger.Interface {
	w := slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo)
	return logger.New(w, logger.Config{
		SlowThreshold:             SlowThreshold,
		LogLevel:                  ParseLevel(level),
		IgnoreRecordNotFoundError: true, // 查無帳戶 / 紀錄是正常流程
		Colorful:                  false,
	})
}

// ParseLevel 轉換設定檔中的 log 等級
func ParseLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Error // 預設只記錄錯誤
	}
}
