package rdb

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

const defaultPageSize = 256

// monotonic 讓同一個 process 寫入的 created_at_ns 嚴格遞增
type monotonic struct {
	mu   sync.Mutex
	last int64
}

func (m *monotonic) next(t time.Time) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns := t.UnixNano()
	if ns <= m.last {
		ns = m.last + 1
	}
	m.last = ns
	return ns
}

func (m *monotonic) observe(ns int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ns > m.last {
		m.last = ns
	}
}

// Ledger 以 GORM 實作帳戶與轉帳紀錄儲存 (MySQL / SQLite)
//
// 實作 usecase.Transactor，TransferEngine 會把扣款、入帳、寫紀錄放在同一個資料庫交易內。
// RunInTx 內拿到的是綁定交易連線的副本。
type Ledger struct {
	db       *gorm.DB
	inTx     bool
	clock    *monotonic
	pageSize int
}

// NewLedger 建立 Ledger
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{
		db:       db,
		clock:    &monotonic{},
		pageSize: defaultPageSize,
	}
}

// withDB 回傳綁定交易的副本，共用時間戳守衛
func (l *Ledger) withDB(tx *gorm.DB) *Ledger {
	return &Ledger{
		db:       tx,
		inTx:     true,
		clock:    l.clock,
		pageSize: l.pageSize,
	}
}

// AutoMigrate 建立資料表，並載入最後一筆紀錄的時間戳
func (l *Ledger) AutoMigrate(ctx context.Context) error {
	db := l.db.WithContext(ctx)
	if err := db.AutoMigrate(&sqlCustomer{}, &sqlAccount{}, &sqlTransactionHistory{}, &sqlAdjustment{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	var last int64
	if err := db.Model(&sqlTransactionHistory{}).Select("COALESCE(MAX(created_at_ns), 0)").Scan(&last).Error; err != nil {
		return fmt.Errorf("load last entry timestamp: %w", err)
	}
	l.clock.observe(last)
	return nil
}

// RunInTx 在同一個資料庫交易內執行 fn，fn 回傳錯誤時 rollback
func (l *Ledger) RunInTx(ctx context.Context, fn func(tx usecase.TxStores) error) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s := l.withDB(tx)
		return fn(usecase.TxStores{Accounts: s, Entries: s})
	})
}

// LockAccounts 依 id 遞增順序鎖定帳戶 (SELECT ... FOR UPDATE)
// SQLite 的寫入本身是序列化的，不支援也不需要列鎖
func (l *Ledger) LockAccounts(ctx context.Context, ids []int64) error {
	if l.db.Dialector.Name() == "sqlite" {
		return nil
	}
	var rows []sqlAccount
	return l.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&rows).Error
}

func (l *Ledger) Get(ctx context.Context, id int64) (domain.Account, error) {
	var row sqlAccount
	err := l.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	return row.toDomain(), nil
}

func (l *Ledger) ExistsByNumber(ctx context.Context, customerID int64, accountNumber string) (bool, error) {
	var n int64
	err := l.db.WithContext(ctx).Model(&sqlAccount{}).
		Where("customer_id = ? AND account_number = ?", customerID, accountNumber).
		Count(&n).Error
	return n > 0, err
}

func (l *Ledger) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	row := sqlAccount{
		CustomerID:    account.CustomerID,
		AccountNumber: account.AccountNumber,
		Balance:       int64(account.Balance),
	}
	if !account.CreatedAt.IsZero() {
		row.CreatedAt = account.CreatedAt.UnixMilli()
	}
	err := l.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Account{}, domain.ErrAccountAlreadyExists
		}
		// 未開啟 TranslateError 的連線無法辨識唯一鍵衝突，再查一次
		if !l.inTx {
			if exists, qerr := l.ExistsByNumber(ctx, account.CustomerID, account.AccountNumber); qerr == nil && exists {
				return domain.Account{}, domain.ErrAccountAlreadyExists
			}
		}
		return domain.Account{}, err
	}
	return row.toDomain(), nil
}

// AtomicAdjust 以條件式 UPDATE 調整餘額，balance + delta < 0 時不更新
func (l *Ledger) AtomicAdjust(ctx context.Context, id int64, delta domain.Amount) (domain.Amount, error) {
	if !l.inTx {
		var balance domain.Amount
		err := l.RunInTx(ctx, func(tx usecase.TxStores) error {
			var err error
			balance, err = tx.Accounts.AtomicAdjust(ctx, id, delta)
			return err
		})
		return balance, err
	}

	if delta != 0 {
		// 0 <= balance + delta <= MaxBalance，改寫成不會溢位的比較
		upper := domain.MaxBalance
		if delta > 0 {
			upper -= delta
		}
		res := l.db.WithContext(ctx).Model(&sqlAccount{}).
			Where("id = ? AND balance >= ? AND balance <= ?", id, -int64(delta), int64(upper)).
			Update("balance", gorm.Expr("balance + ?", int64(delta)))
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 0 {
			// 分辨帳戶不存在、餘額不足與超過上限
			account, err := l.Get(ctx, id)
			if err != nil {
				return 0, err
			}
			if _, err := account.Adjusted(delta); err != nil {
				return 0, err
			}
			return 0, domain.ErrInsufficientFunds
		}
	}
	account, err := l.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// AdjustOnce 在同一個交易內寫入去重紀錄 (account_adjustments) 並調整餘額
func (l *Ledger) AdjustOnce(ctx context.Context, key uuid.UUID, id int64, delta domain.Amount) (bool, error) {
	if !l.inTx {
		var applied bool
		err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			applied, err = l.withDB(tx).AdjustOnce(ctx, key, id, delta)
			return err
		})
		return applied, err
	}

	res := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sqlAdjustment{AdjustKey: key[:], AccountID: id, Delta: int64(delta)})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if _, err := l.AtomicAdjust(ctx, id, delta); err != nil {
		return false, err
	}
	return true, nil
}

// Append 寫入一筆轉帳紀錄，自增主鍵作為 Sequence
func (l *Ledger) Append(ctx context.Context, entry domain.TransactionHistory) (domain.TransactionHistory, error) {
	entry.ID = uuid.New()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = time.Unix(0, l.clock.next(entry.CreatedAt))

	row := newSQLTransactionHistory(entry)
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.TransactionHistory{}, fmt.Errorf("append ledger entry: %w", err)
	}
	entry.Sequence = uint64(row.ID)
	return entry, nil
}

// ListForAccount 以 (created_at_ns, id) 分頁讀取，每次 range 從頭開始
func (l *Ledger) ListForAccount(ctx context.Context, accountID int64) iter.Seq2[domain.TransactionHistory, error] {
	return func(yield func(domain.TransactionHistory, error) bool) {
		var lastNs, lastID int64
		first := true
		for {
			q := l.db.WithContext(ctx).
				Where("(source_account_id = ? OR target_account_id = ?)", accountID, accountID)
			if !first {
				q = q.Where("(created_at_ns > ? OR (created_at_ns = ? AND id > ?))", lastNs, lastNs, lastID)
			}
			var rows []sqlTransactionHistory
			if err := q.Order("created_at_ns, id").Limit(l.pageSize).Find(&rows).Error; err != nil {
				yield(domain.TransactionHistory{}, err)
				return
			}
			for i := range rows {
				entry, err := rows[i].toDomain()
				if !yield(entry, err) || err != nil {
					return
				}
			}
			if len(rows) < l.pageSize {
				return
			}
			first = false
			lastNs, lastID = rows[len(rows)-1].CreatedAtNs, rows[len(rows)-1].ID
		}
	}
}

func (l *Ledger) FindByRef(ctx context.Context, refID uuid.UUID) (domain.TransactionHistory, error) {
	if refID == uuid.Nil {
		return domain.TransactionHistory{}, domain.ErrEntryNotFound
	}
	var row sqlTransactionHistory
	err := l.db.WithContext(ctx).Where("ref_id = ?", refID[:]).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.TransactionHistory{}, domain.ErrEntryNotFound
	}
	if err != nil {
		return domain.TransactionHistory{}, err
	}
	return row.toDomain()
}

// CustomerExists 實作 usecase.CustomerDirectory
func (l *Ledger) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	var n int64
	err := l.db.WithContext(ctx).Model(&sqlCustomer{}).Where("id = ?", customerID).Count(&n).Error
	return n > 0, err
}

// RegisterCustomer 新增或更新客戶資料
func (l *Ledger) RegisterCustomer(ctx context.Context, c domain.Customer) error {
	row := sqlCustomer{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone}
	return l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone"}),
		}).
		Create(&row).Error
}

var (
	_ usecase.AccountStore      = (*Ledger)(nil)
	_ usecase.LedgerEntryStore  = (*Ledger)(nil)
	_ usecase.Transactor        = (*Ledger)(nil)
	_ usecase.RowLocker         = (*Ledger)(nil)
	_ usecase.CustomerDirectory = (*Ledger)(nil)
	_ usecase.OnceAdjuster      = (*Ledger)(nil)
)
