package rdb

import (
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// sqlCustomer 對應資料庫的 customers 表 (由外部客戶系統維護，這裡只讀)
type sqlCustomer struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:128"`
	Email     string `gorm:"size:128"`
	Phone     string `gorm:"size:32"`
	CreatedAt int64  `gorm:"autoCreateTime:milli"`
}

func (*sqlCustomer) TableName() string {
	return "customers"
}

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	CustomerID    int64  `gorm:"not null;uniqueIndex:idx_customer_account_number"`
	AccountNumber string `gorm:"size:64;not null;uniqueIndex:idx_customer_account_number"`
	Balance       int64  `gorm:"not null;default:0"`
	CreatedAt     int64  `gorm:"autoCreateTime:milli"` // 自動寫入時間
	UpdatedAt     int64  `gorm:"autoUpdateTime:milli"` // 自動更新時間
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

func (a *sqlAccount) toDomain() domain.Account {
	return domain.Account{
		ID:            a.ID,
		CustomerID:    a.CustomerID,
		AccountNumber: a.AccountNumber,
		Balance:       domain.Amount(a.Balance),
		CreatedAt:     time.UnixMilli(a.CreatedAt),
	}
}

// sqlAdjustment 對應 account_adjustments 表，AdjustOnce 的去重紀錄
type sqlAdjustment struct {
	AdjustKey []byte `gorm:"column:adjust_key;primaryKey;type:binary(16)"`
	AccountID int64  `gorm:"not null;index"`
	Delta     int64  `gorm:"not null"`
	CreatedAt int64  `gorm:"autoCreateTime:milli"`
}

func (*sqlAdjustment) TableName() string {
	return "account_adjustments"
}

// sqlTransactionHistory 對應資料庫的 transaction_histories 表
// ID 自增，作為 domain.TransactionHistory.Sequence
type sqlTransactionHistory struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	EntryID         []byte `gorm:"column:entry_id;type:binary(16);uniqueIndex"`
	RefID           []byte `gorm:"column:ref_id;type:binary(16);uniqueIndex"` // 冪等鍵
	SourceAccountID int64  `gorm:"not null;index"`
	TargetAccountID int64  `gorm:"not null;index"`
	Amount          int64  `gorm:"not null"`
	CreatedAtNs     int64  `gorm:"column:created_at_ns;not null;index"`
}

func (*sqlTransactionHistory) TableName() string {
	return "transaction_histories"
}

func newSQLTransactionHistory(e domain.TransactionHistory) sqlTransactionHistory {
	row := sqlTransactionHistory{
		EntryID:         e.ID[:],
		SourceAccountID: e.SourceAccountID,
		TargetAccountID: e.TargetAccountID,
		Amount:          int64(e.Amount),
		CreatedAtNs:     e.CreatedAt.UnixNano(),
	}
	// 沒有冪等鍵時存 NULL，唯一索引允許多個 NULL
	if e.RefID != uuid.Nil {
		row.RefID = e.RefID[:]
	}
	return row
}

func (t *sqlTransactionHistory) toDomain() (domain.TransactionHistory, error) {
	id, err := uuid.FromBytes(t.EntryID)
	if err != nil {
		return domain.TransactionHistory{}, err
	}
	var ref uuid.UUID
	if len(t.RefID) > 0 {
		if ref, err = uuid.FromBytes(t.RefID); err != nil {
			return domain.TransactionHistory{}, err
		}
	}
	return domain.TransactionHistory{
		ID:              id,
		RefID:           ref,
		Sequence:        uint64(t.ID),
		SourceAccountID: t.SourceAccountID,
		TargetAccountID: t.TargetAccountID,
		Amount:          domain.Amount(t.Amount),
		CreatedAt:       time.Unix(0, t.CreatedAtNs),
	}, nil
}
