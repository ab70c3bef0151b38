package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionHistory 轉帳紀錄 (Ledger Entry)，只新增不修改
type TransactionHistory struct {
	// ID: 由 LedgerEntryStore 分配
	ID uuid.UUID
	// RefID: 呼叫端提供的冪等鍵，uuid.Nil 表示不做冪等檢查
	RefID uuid.UUID
	// Sequence: 儲存層分配的全局順序號
	Sequence uint64
	// SourceAccountID, TargetAccountID: 帳戶 ID
	SourceAccountID int64
	TargetAccountID int64
	// Amount: 轉帳金額 (> 0)
	Amount Amount
	// CreatedAt: 交易時間，同一個 store 內單調遞增
	CreatedAt time.Time
}

// Involves 帳戶是否為這筆紀錄的來源或目標
func (t *TransactionHistory) Involves(accountID int64) bool {
	return t.SourceAccountID == accountID || t.TargetAccountID == accountID
}

// StatementLine 對帳單的一行：轉帳紀錄加上雙方帳號
// 帳號在讀取時查詢，紀錄本身只保存帳戶 ID
type StatementLine struct {
	TransactionHistory
	SourceAccountNumber string
	TargetAccountNumber string
}

// TransferRequest 轉帳請求
type TransferRequest struct {
	RefID           uuid.UUID
	SourceAccountID int64
	TargetAccountID int64
	Amount          Amount
}

// Validate 依序檢查金額與來源/目標帳戶，第一個失敗的條件勝出
func (r *TransferRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if r.SourceAccountID == r.TargetAccountID {
		return ErrSameAccount
	}
	return nil
}

// Entry 依請求建立一筆尚未寫入的轉帳紀錄
func (r *TransferRequest) Entry(at time.Time) TransactionHistory {
	return TransactionHistory{
		RefID:           r.RefID,
		SourceAccountID: r.SourceAccountID,
		TargetAccountID: r.TargetAccountID,
		Amount:          r.Amount,
		CreatedAt:       at,
	}
}

// LockOrder 回傳需要鎖定的帳號 ID，並確保順序以避免死鎖
func LockOrder(a, b int64) [2]int64 {
	if a < b {
		return [2]int64{a, b}
	}
	return [2]int64{b, a}
}
