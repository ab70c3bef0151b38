package usecase

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// AccountStore 帳戶儲存介面
type AccountStore interface {
	// Get 依 ID 取得帳戶，不存在時回傳 domain.ErrAccountNotFound
	Get(ctx context.Context, id int64) (domain.Account, error)
	// Create 建立帳戶並分配 ID，(CustomerID, AccountNumber) 重複時回傳 domain.ErrAccountAlreadyExists
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	// ExistsByNumber 客戶下是否已有該帳號
	ExistsByNumber(ctx context.Context, customerID int64, accountNumber string) (bool, error)
	// AtomicAdjust 對單一帳戶做原子的 read-modify-write
	// 結果為負數時回傳 domain.ErrInsufficientFunds 且不做任何變更
	AtomicAdjust(ctx context.Context, id int64, delta domain.Amount) (domain.Amount, error)
}

// LedgerEntryStore 轉帳紀錄儲存介面 (append-only)
type LedgerEntryStore interface {
	// Append 寫入一筆紀錄，由儲存層分配 ID / Sequence，並確保 CreatedAt 單調遞增
	Append(ctx context.Context, entry domain.TransactionHistory) (domain.TransactionHistory, error)
	// ListForAccount 依時間遞增列出帳戶相關的紀錄
	// 回傳的序列是 lazy 的，每次 range 都會重新讀取
	ListForAccount(ctx context.Context, accountID int64) iter.Seq2[domain.TransactionHistory, error]
	// FindByRef 依冪等鍵查詢紀錄，不存在時回傳 domain.ErrEntryNotFound
	FindByRef(ctx context.Context, refID uuid.UUID) (domain.TransactionHistory, error)
}

// OnceAdjuster 以 key 去重的 AtomicAdjust
// 去重紀錄與餘額調整在同一個原子操作內，同一個 key 只會套用一次
type OnceAdjuster interface {
	// AdjustOnce applied 為 false 表示 key 已經套用過，餘額不變
	AdjustOnce(ctx context.Context, key uuid.UUID, id int64, delta domain.Amount) (applied bool, err error)
}

// TxStores 同一個儲存交易內可用的 store
type TxStores struct {
	Accounts AccountStore
	Entries  LedgerEntryStore
}

// Transactor 由支援跨 store 交易的儲存層實作 (例如關聯式資料庫)
// fn 回傳錯誤時整個交易 rollback
type Transactor interface {
	RunInTx(ctx context.Context, fn func(tx TxStores) error) error
}

// RowLocker 在交易內依給定順序鎖定帳戶 (SELECT ... FOR UPDATE)
type RowLocker interface {
	LockAccounts(ctx context.Context, ids []int64) error
}

// CustomerDirectory 外部客戶目錄，只需要存在性檢查
type CustomerDirectory interface {
	CustomerExists(ctx context.Context, customerID int64) (bool, error)
}

// Clock 時間來源
type Clock interface {
	Now() time.Time
}

// SystemClock 使用系統時間
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// ClockFunc 將函式轉為 Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}
