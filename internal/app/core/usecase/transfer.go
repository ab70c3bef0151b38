package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// TransferEngine 負責單筆轉帳：檢查、扣款、入帳、寫入轉帳紀錄
//
// 若 AccountStore 實作 Transactor，三個步驟在同一個儲存交易內完成；
// 否則依序執行，入帳失敗時沖回扣款，寫紀錄失敗時回傳 Degraded 並交給 Reconciler。
type TransferEngine struct {
	accounts  AccountStore
	entries   LedgerEntryStore
	clock     Clock
	locks     *accountLocks
	reconcile ReconcileQueue
	logger    *slog.Logger
	// 扣款之後的步驟不受呼叫端 ctx 取消影響，但最多執行這麼久
	commitTimeout time.Duration
}

// EngineOption 定義了 TransferEngine 的配置選項函數
type EngineOption func(*TransferEngine)

// WithClock 設定時間來源
func WithClock(c Clock) EngineOption {
	return func(e *TransferEngine) {
		e.clock = c
	}
}

// WithReconcileQueue 設定 Degraded / 未沖回項目的處理佇列
func WithReconcileQueue(q ReconcileQueue) EngineOption {
	return func(e *TransferEngine) {
		e.reconcile = q
	}
}

// WithLogger 設定 logger
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *TransferEngine) {
		e.logger = l
	}
}

// WithCommitTimeout 設定扣款後完成或沖回的時間上限
func WithCommitTimeout(d time.Duration) EngineOption {
	return func(e *TransferEngine) {
		e.commitTimeout = d
	}
}

// NewTransferEngine 建立 TransferEngine
func NewTransferEngine(accounts AccountStore, entries LedgerEntryStore, opts ...EngineOption) *TransferEngine {
	e := &TransferEngine{
		accounts:      accounts,
		entries:       entries,
		clock:         SystemClock{},
		locks:         newAccountLocks(),
		logger:        slog.Default(),
		commitTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Transfer 執行一筆轉帳
//
// 參數:
//
//	ctx: 上下文，取得帳戶鎖與扣款前的步驟受其限制
//	req: 轉帳請求
//
// 回傳:
//
//	domain.Receipt: Result 為 ResultOK 或 ResultDegraded
//	error: *domain.TransferError，業務拒絕 (domain.IsRejection) 或系統錯誤 (ResultFatal)
func (e *TransferEngine) Transfer(ctx context.Context, req domain.TransferRequest) (domain.Receipt, error) {
	if err := req.Validate(); err != nil {
		return domain.Receipt{}, e.fail(req, err)
	}

	unlock, err := e.locks.lockPair(ctx, req.SourceAccountID, req.TargetAccountID)
	if err != nil {
		return domain.Receipt{}, e.fail(req, storageErr(err))
	}
	defer unlock()

	if tx, ok := e.accounts.(Transactor); ok {
		return e.commitInTx(ctx, tx, req)
	}
	return e.commitCompensating(ctx, req)
}

// commitInTx 扣款、入帳、寫紀錄在同一個儲存交易內，任何錯誤都整筆 rollback
func (e *TransferEngine) commitInTx(ctx context.Context, tx Transactor, req domain.TransferRequest) (domain.Receipt, error) {
	var receipt domain.Receipt
	err := tx.RunInTx(ctx, func(s TxStores) error {
		if locker, ok := s.Accounts.(RowLocker); ok {
			ids := domain.LockOrder(req.SourceAccountID, req.TargetAccountID)
			if err := locker.LockAccounts(ctx, ids[:]); err != nil {
				return storageErr(err)
			}
		}
		if prior, ok, err := e.replay(ctx, s.Entries, req); err != nil || ok {
			receipt = prior
			return err
		}
		if err := e.precheck(ctx, s.Accounts, req); err != nil {
			return err
		}
		if _, err := s.Accounts.AtomicAdjust(ctx, req.SourceAccountID, -req.Amount); err != nil {
			return adjustErr(err)
		}
		if _, err := s.Accounts.AtomicAdjust(ctx, req.TargetAccountID, req.Amount); err != nil {
			return adjustErr(err)
		}
		entry, err := s.Entries.Append(ctx, e.newEntry(req))
		if err != nil {
			return storageErr(err)
		}
		receipt = domain.Receipt{Result: domain.ResultOK, Entry: entry}
		return nil
	})
	if err != nil {
		if !domain.IsRejection(err) && !errors.Is(err, domain.ErrStorageUnavailable) {
			err = storageErr(err)
		}
		return domain.Receipt{}, e.fail(req, err)
	}
	e.logCommitted(receipt)
	return receipt, nil
}

// commitCompensating 儲存層沒有跨 store 交易時使用
func (e *TransferEngine) commitCompensating(ctx context.Context, req domain.TransferRequest) (domain.Receipt, error) {
	// Degraded 的轉帳紀錄還在補償佇列中，先查佇列再查 store
	// (Reconciler 先寫入紀錄才移除項目，順序相反會兩邊都查不到)
	if prior, ok := e.pendingReplay(req); ok {
		return prior, nil
	}
	if prior, ok, err := e.replay(ctx, e.entries, req); err != nil || ok {
		if err != nil {
			return domain.Receipt{}, e.fail(req, err)
		}
		return prior, nil
	}
	if err := e.precheck(ctx, e.accounts, req); err != nil {
		return domain.Receipt{}, e.fail(req, err)
	}

	// 1. 扣款，失敗時沒有任何副作用
	if _, err := e.accounts.AtomicAdjust(ctx, req.SourceAccountID, -req.Amount); err != nil {
		return domain.Receipt{}, e.fail(req, adjustErr(err))
	}

	// 扣款之後一定要完成或沖回，不能被呼叫端的 ctx 取消打斷
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.commitTimeout)
	defer cancel()
	entry := e.newEntry(req)

	// 2. 入帳，失敗時沖回扣款
	if _, err := e.accounts.AtomicAdjust(commitCtx, req.TargetAccountID, req.Amount); err != nil {
		cause := adjustErr(err)
		if _, rerr := e.accounts.AtomicAdjust(commitCtx, req.SourceAccountID, req.Amount); rerr != nil {
			e.logger.Error("debit reversal failed",
				slog.Int64("source", req.SourceAccountID),
				slog.Int64("target", req.TargetAccountID),
				slog.String("amount", req.Amount.String()),
				slog.String("credit_error", err.Error()),
				slog.String("error", rerr.Error()))
			e.enqueue(commitCtx, ReconcileItem{Kind: ReconcileReverseDebit, Entry: entry, Cause: rerr.Error()})
			return domain.Receipt{}, e.fail(req, fmt.Errorf("%w: credit failed (%v), reversal queued: %w",
				domain.ErrStorageUnavailable, err, rerr))
		}
		return domain.Receipt{}, e.fail(req, cause)
	}

	// 3. 寫入轉帳紀錄，失敗時金額已移轉，回傳 Degraded 而不是 rollback
	stored, err := e.entries.Append(commitCtx, entry)
	if err != nil {
		e.logger.Warn("transfer degraded: ledger entry not written",
			slog.Int64("source", entry.SourceAccountID),
			slog.Int64("target", entry.TargetAccountID),
			slog.String("amount", entry.Amount.String()),
			slog.String("ref_id", entry.RefID.String()),
			slog.Time("at", entry.CreatedAt),
			slog.String("error", err.Error()))
		e.enqueue(commitCtx, ReconcileItem{Kind: ReconcileMissingEntry, Entry: entry, Cause: err.Error()})
		return domain.Receipt{Result: domain.ResultDegraded, Entry: entry}, nil
	}

	receipt := domain.Receipt{Result: domain.ResultOK, Entry: stored}
	e.logCommitted(receipt)
	return receipt, nil
}

// replay 冪等檢查：RefID 已存在時回傳原始紀錄
func (e *TransferEngine) replay(ctx context.Context, entries LedgerEntryStore, req domain.TransferRequest) (domain.Receipt, bool, error) {
	if req.RefID == uuid.Nil {
		return domain.Receipt{}, false, nil
	}
	prior, err := entries.FindByRef(ctx, req.RefID)
	if err == nil {
		e.logger.Info("transfer already processed", slog.String("ref_id", req.RefID.String()))
		return domain.Receipt{Result: domain.ResultOK, Entry: prior, Replayed: true}, true, nil
	}
	if errors.Is(err, domain.ErrEntryNotFound) {
		return domain.Receipt{}, false, nil
	}
	return domain.Receipt{}, false, storageErr(err)
}

// pendingReplay RefID 對應的轉帳已移轉金額但紀錄尚未補寫，回傳 Degraded
func (e *TransferEngine) pendingReplay(req domain.TransferRequest) (domain.Receipt, bool) {
	if req.RefID == uuid.Nil || e.reconcile == nil {
		return domain.Receipt{}, false
	}
	entry, ok := e.reconcile.PendingEntry(req.RefID)
	if !ok {
		return domain.Receipt{}, false
	}
	e.logger.Info("transfer already processed, ledger entry pending reconciliation", slog.String("ref_id", req.RefID.String()))
	return domain.Receipt{Result: domain.ResultDegraded, Entry: entry, Replayed: true}, true
}

// precheck 兩個帳戶都存在、來源餘額足夠且目標不會超過上限 (提交時 AtomicAdjust 會再檢查一次)
func (e *TransferEngine) precheck(ctx context.Context, accounts AccountStore, req domain.TransferRequest) error {
	source, err := accounts.Get(ctx, req.SourceAccountID)
	if err != nil {
		return lookupErr(err)
	}
	target, err := accounts.Get(ctx, req.TargetAccountID)
	if err != nil {
		return lookupErr(err)
	}
	if source.Balance < req.Amount {
		return domain.ErrInsufficientFunds
	}
	if _, err := target.Adjusted(req.Amount); err != nil {
		return err
	}
	return nil
}

// newEntry 未帶 RefID 的請求也分配一個，讓 Reconciler 補寫時可以去重
func (e *TransferEngine) newEntry(req domain.TransferRequest) domain.TransactionHistory {
	entry := req.Entry(e.clock.Now())
	if entry.RefID == uuid.Nil {
		entry.RefID = uuid.New()
	}
	return entry
}

func (e *TransferEngine) enqueue(ctx context.Context, item ReconcileItem) {
	if e.reconcile == nil {
		e.logger.Error("no reconcile queue configured, item requires manual reconciliation", itemAttrs(item)...)
		return
	}
	if err := e.reconcile.Enqueue(ctx, item); err != nil {
		e.logger.Error("reconcile enqueue failed", itemAttrs(item, slog.String("error", err.Error()))...)
	}
}

func (e *TransferEngine) fail(req domain.TransferRequest, err error) error {
	attrs := []any{
		slog.Int64("source", req.SourceAccountID),
		slog.Int64("target", req.TargetAccountID),
		slog.String("amount", req.Amount.String()),
		slog.String("result", domain.ResultOf(err).String()),
	}
	if domain.IsRejection(err) {
		e.logger.Info("transfer rejected", attrs...)
	} else {
		e.logger.Error("transfer failed", append(attrs, slog.String("error", err.Error()))...)
	}
	return &domain.TransferError{Request: req, Err: err}
}

func (e *TransferEngine) logCommitted(r domain.Receipt) {
	e.logger.Debug("transfer committed",
		slog.String("entry_id", r.Entry.ID.String()),
		slog.Int64("source", r.Entry.SourceAccountID),
		slog.Int64("target", r.Entry.TargetAccountID),
		slog.String("amount", r.Entry.Amount.String()))
}

// lookupErr 帳戶查詢錯誤：不存在為 ErrInvalidAccounts，其餘為系統錯誤
func lookupErr(err error) error {
	if errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidAccounts, err)
	}
	return storageErr(err)
}

// adjustErr AtomicAdjust 錯誤：餘額不足與溢位保留，不存在為 ErrInvalidAccounts，其餘為系統錯誤
func adjustErr(err error) error {
	if errors.Is(err, domain.ErrInsufficientFunds) || errors.Is(err, domain.ErrBalanceOverflow) {
		return err
	}
	return lookupErr(err)
}

func storageErr(err error) error {
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
}
