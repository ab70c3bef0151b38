package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// ReconcileKind 待補償項目類型
type ReconcileKind uint8

const (
	// ReconcileMissingEntry 金額已移轉但轉帳紀錄未寫入
	ReconcileMissingEntry ReconcileKind = 1
	// ReconcileReverseDebit 已扣款但入帳失敗且沖回失敗
	ReconcileReverseDebit ReconcileKind = 2
)

func (k ReconcileKind) String() string {
	switch k {
	case ReconcileMissingEntry:
		return "missing_entry"
	case ReconcileReverseDebit:
		return "reverse_debit"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// ReconcileItem 一筆待補償項目
type ReconcileItem struct {
	ID       uuid.UUID                 `json:"id"`
	Kind     ReconcileKind             `json:"kind"`
	Entry    domain.TransactionHistory `json:"entry"`
	Cause    string                    `json:"cause,omitempty"`
	Attempts int                       `json:"attempts"`
	QueuedAt time.Time                 `json:"queued_at"`
	// 已補償但 resolved 尚未寫入 journal
	applied bool
}

// ReconcileQueue TransferEngine 使用的補償佇列
type ReconcileQueue interface {
	Enqueue(ctx context.Context, item ReconcileItem) error
	// PendingEntry 依 RefID 查詢尚未補寫的轉帳紀錄 (ReconcileMissingEntry)
	PendingEntry(refID uuid.UUID) (domain.TransactionHistory, bool)
}

// Journal 待補償項目的持久化 (pkg/wal 實作)
type Journal interface {
	Write(v any) error
	ReadAll(callback func(jsonRaw []byte) error) error
}

// AlertSink 有新的待補償項目時通知維運
type AlertSink interface {
	Alert(ctx context.Context, item ReconcileItem) error
}

const (
	journalOpQueued   = "queued"
	journalOpResolved = "resolved"
)

type journalRecord struct {
	Op   string        `json:"op"`
	Item ReconcileItem `json:"item"`
}

// Reconciler 背景補償 Degraded / 未沖回的轉帳
//
// 單一 goroutine 處理所有項目與通知 (run loop)，Enqueue 只負責寫 journal 與喚醒。
// 沖回扣款時若 AccountStore 實作 OnceAdjuster，以項目 ID 去重。
type Reconciler struct {
	accounts AccountStore
	entries  LedgerEntryStore
	journal  Journal
	alerts   []AlertSink
	logger   *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	pending map[uuid.UUID]*ReconcileItem
	// 尚未送出的通知，由 run loop 送出
	alertQ []ReconcileItem
	// 同一時間只允許一個 Sweep
	sweepMu sync.Mutex
	// 喚醒 run loop，容量 1
	wake chan struct{}
	// run loop 結束時關閉
	done chan struct{}
}

// ReconcilerOption 定義了 Reconciler 的配置選項函數
type ReconcilerOption func(*Reconciler)

// WithJournal 設定持久化 journal，nil 表示只保存在記憶體
func WithJournal(j Journal) ReconcilerOption {
	return func(r *Reconciler) {
		r.journal = j
	}
}

// WithAlertSink 新增通知管道
func WithAlertSink(sink AlertSink) ReconcilerOption {
	return func(r *Reconciler) {
		r.alerts = append(r.alerts, sink)
	}
}

// WithReconcileInterval 設定重試間隔
func WithReconcileInterval(d time.Duration) ReconcilerOption {
	return func(r *Reconciler) {
		r.interval = d
	}
}

// WithReconcilerLogger 設定 logger
func WithReconcilerLogger(l *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		r.logger = l
	}
}

// NewReconciler 建立 Reconciler，需再呼叫 Recover 與 Start
func NewReconciler(accounts AccountStore, entries LedgerEntryStore, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		accounts: accounts,
		entries:  entries,
		logger:   slog.Default(),
		interval: 5 * time.Second,
		pending:  make(map[uuid.UUID]*ReconcileItem),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recover 從 journal 恢復尚未完成的項目 (queued - resolved)
func (r *Reconciler) Recover() error {
	if r.journal == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.journal.ReadAll(func(jsonRaw []byte) error {
		var rec journalRecord
		if err := json.Unmarshal(jsonRaw, &rec); err != nil {
			return err
		}
		switch rec.Op {
		case journalOpQueued:
			item := rec.Item
			r.pending[item.ID] = &item
		case journalOpResolved:
			delete(r.pending, rec.Item.ID)
		}
		return nil
	})
}

// Enqueue 加入一筆待補償項目，寫入 journal 失敗也不會丟棄 (仍保留在記憶體並記錄錯誤)
func (r *Reconciler) Enqueue(ctx context.Context, item ReconcileItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.QueuedAt.IsZero() {
		item.QueuedAt = time.Now()
	}

	var journalErr error
	if r.journal != nil {
		if err := r.journal.Write(journalRecord{Op: journalOpQueued, Item: item}); err != nil {
			journalErr = fmt.Errorf("%w: %w", domain.ErrWALWriteFailed, err)
			r.logger.Error("reconcile journal write failed", itemAttrs(item, slog.String("error", err.Error()))...)
		}
	}

	r.mu.Lock()
	r.pending[item.ID] = &item
	if len(r.alerts) > 0 {
		r.alertQ = append(r.alertQ, item)
	}
	r.mu.Unlock()

	r.logger.Warn("reconcile item queued", itemAttrs(item)...)
	select {
	case r.wake <- struct{}{}:
	default:
	}
	return journalErr
}

// PendingEntry 實作 ReconcileQueue
func (r *Reconciler) PendingEntry(refID uuid.UUID) (domain.TransactionHistory, bool) {
	if refID == uuid.Nil {
		return domain.TransactionHistory{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.pending {
		if item.Kind == ReconcileMissingEntry && item.Entry.RefID == refID {
			return item.Entry, true
		}
	}
	return domain.TransactionHistory{}, false
}

// Pending 回傳目前尚未完成的項目，依 QueuedAt 排序
func (r *Reconciler) Pending() []ReconcileItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ReconcileItem, 0, len(r.pending))
	for _, item := range r.pending {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QueuedAt.Before(out[j].QueuedAt)
	})
	return out
}

// Start 啟動背景處理 (非同步)
func (r *Reconciler) Start(ctx context.Context) {
	go r.run(ctx)
}

// Wait 等待 Start 啟動的 run loop 結束 (ctx 取消後會先做最後一次處理)
func (r *Reconciler) Wait() {
	<-r.done
}

func (r *Reconciler) run(ctx context.Context) {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			// 收到關閉信號，最後再處理一次
			r.drain()
			return
		case <-r.wake:
			r.flushAlerts(ctx)
			r.Sweep(ctx)
		case <-ticker.C:
			r.flushAlerts(ctx)
			r.Sweep(ctx)
		}
	}
}

func (r *Reconciler) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()
	r.flushAlerts(ctx)
	if left := r.Sweep(ctx); left > 0 {
		r.logger.Warn("reconciler stopped with pending items", slog.Int("pending", left))
	}
}

// flushAlerts 把佇列中的項目送到所有 AlertSink
func (r *Reconciler) flushAlerts(ctx context.Context) {
	r.mu.Lock()
	queued := r.alertQ
	r.alertQ = nil
	r.mu.Unlock()
	for _, item := range queued {
		for _, sink := range r.alerts {
			if err := sink.Alert(ctx, item); err != nil {
				r.logger.Error("reconcile alert failed", slog.String("item_id", item.ID.String()), slog.String("error", err.Error()))
			}
		}
	}
}

// Sweep 重試所有待補償項目一次
//
// 回傳:
//
//	int: 仍未完成的項目數
func (r *Reconciler) Sweep(ctx context.Context) int {
	r.sweepMu.Lock()
	defer r.sweepMu.Unlock()
	for _, item := range r.Pending() {
		if ctx.Err() != nil {
			break
		}
		if !item.applied {
			if err := r.resolve(ctx, item); err != nil {
				r.mu.Lock()
				if p, ok := r.pending[item.ID]; ok {
					p.Attempts++
				}
				r.mu.Unlock()
				r.logger.Warn("reconcile attempt failed", itemAttrs(item, slog.String("error", err.Error()))...)
				continue
			}
			r.mu.Lock()
			if p, ok := r.pending[item.ID]; ok {
				p.applied = true
			}
			r.mu.Unlock()
		}
		r.markResolved(item)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

func (r *Reconciler) resolve(ctx context.Context, item ReconcileItem) error {
	switch item.Kind {
	case ReconcileMissingEntry:
		if item.Entry.RefID != uuid.Nil {
			_, err := r.entries.FindByRef(ctx, item.Entry.RefID)
			if err == nil {
				return nil
			}
			if !errors.Is(err, domain.ErrEntryNotFound) {
				return err
			}
		}
		_, err := r.entries.Append(ctx, item.Entry)
		return err
	case ReconcileReverseDebit:
		if once, ok := r.accounts.(OnceAdjuster); ok {
			applied, err := once.AdjustOnce(ctx, item.ID, item.Entry.SourceAccountID, item.Entry.Amount)
			if err == nil && !applied {
				r.logger.Info("reversal already applied", itemAttrs(item)...)
			}
			return err
		}
		_, err := r.accounts.AtomicAdjust(ctx, item.Entry.SourceAccountID, item.Entry.Amount)
		return err
	default:
		return fmt.Errorf("unknown reconcile kind %d", item.Kind)
	}
}

// markResolved journal 寫入成功後才移除項目，失敗時保留 (applied)，下次 Sweep 只重寫 journal
func (r *Reconciler) markResolved(item ReconcileItem) {
	if r.journal != nil {
		if err := r.journal.Write(journalRecord{Op: journalOpResolved, Item: item}); err != nil {
			r.logger.Error("reconcile journal write failed", itemAttrs(item, slog.String("error", err.Error()))...)
			return
		}
	}
	r.mu.Lock()
	delete(r.pending, item.ID)
	r.mu.Unlock()
	r.logger.Info("reconcile item resolved", itemAttrs(item)...)
}

func itemAttrs(item ReconcileItem, extra ...any) []any {
	attrs := []any{
		slog.String("item_id", item.ID.String()),
		slog.String("kind", item.Kind.String()),
		slog.Int64("source", item.Entry.SourceAccountID),
		slog.Int64("target", item.Entry.TargetAccountID),
		slog.String("amount", item.Entry.Amount.String()),
		slog.String("ref_id", item.Entry.RefID.String()),
		slog.Time("at", item.Entry.CreatedAt),
		slog.Int("attempts", item.Attempts),
	}
	return append(attrs, extra...)
}
