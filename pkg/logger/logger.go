// Package logger 建立全域的 slog.Logger
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config Log 設定
type Config struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" 或 "text"
}

// New 依設定建立 logger
func New(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}

// Setup 建立輸出到 stdout 的 logger 並設為 slog.Default()
func Setup(cfg Config) *slog.Logger {
	l := New(os.Stdout, cfg)
	slog.SetDefault(l)
	return l
}

// ParseLevel 無法辨識時回傳 info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
