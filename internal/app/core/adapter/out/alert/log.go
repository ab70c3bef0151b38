// Package alert 通知維運有需要補償的轉帳
package alert

import (
	"context"
	"log/slog"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

// LogSink 以 error 等級寫入 slog，搭配外部 log 告警使用
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(l *slog.Logger) *LogSink {
	if l == nil {
		l = slog.Default()
	}
	return &LogSink{logger: l}
}

func (s *LogSink) Alert(ctx context.Context, item usecase.ReconcileItem) error {
	s.logger.LogAttrs(ctx, slog.LevelError, "ledger reconciliation required",
		slog.String("item_id", item.ID.String()),
		slog.String("kind", item.Kind.String()),
		slog.Int64("source", item.Entry.SourceAccountID),
		slog.Int64("target", item.Entry.TargetAccountID),
		slog.String("amount", item.Entry.Amount.String()),
		slog.String("ref_id", item.Entry.RefID.String()),
		slog.Time("at", item.Entry.CreatedAt),
		slog.String("cause", item.Cause),
	)
	return nil
}

var _ usecase.AlertSink = (*LogSink)(nil)
