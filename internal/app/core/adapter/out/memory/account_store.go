package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/wal"
)

const (
	accountOpCreate = "create"
	accountOpAdjust = "adjust"
)

// accountEvent 寫入 WAL 的帳戶事件
type accountEvent struct {
	Op      string          `json:"op"`
	Account *domain.Account `json:"account,omitempty"`
	ID      int64           `json:"id,omitempty"`
	Delta   domain.Amount   `json:"delta,omitempty"`
	// Key AdjustOnce 的去重鍵
	Key string `json:"key,omitempty"`
}

// accountSlot 每個帳戶一把鎖，不同帳戶的調整可以並行
type accountSlot struct {
	mu      sync.Mutex
	account domain.Account
}

type numberKey struct {
	customerID int64
	number     string
}

// AccountStore 是記憶體版的帳戶儲存
//
// 結構:
//
//	accounts: 帳戶 ID 對應的 slot，map 只在新增帳戶時寫鎖
//	numbers: (客戶, 帳號) 唯一索引
//	node: snowflake 節點，分配帳戶 ID
//	wal: Write-Ahead Log 實例，nil 表示不持久化
//	applied: AdjustOnce 已套用的 key
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[int64]*accountSlot
	numbers  map[numberKey]int64
	node     *snowflake.Node
	wal      *wal.WAL
	now      func() time.Time

	appliedMu sync.Mutex
	applied   map[uuid.UUID]struct{}
}

// NewAccountStore 建立記憶體帳戶儲存，並從 WAL 恢復狀態
//
// 參數:
//
//	node: snowflake 節點
//	w: Write-Ahead Log 實例 (可為 nil)
//
// 回傳:
//
//	*AccountStore: AccountStore 實例
//	error: 初始化錯誤 (如 WAL 恢復失敗)
func NewAccountStore(node *snowflake.Node, w *wal.WAL) (*AccountStore, error) {
	s := &AccountStore{
		accounts: make(map[int64]*accountSlot),
		numbers:  make(map[numberKey]int64),
		applied:  make(map[uuid.UUID]struct{}),
		node:     node,
		wal:      w,
		now:      time.Now,
	}
	if err := s.recoverFromWAL(); err != nil {
		return nil, err
	}
	return s, nil
}

// recoverFromWAL 從 WAL 檔案恢復帳戶狀態
// 只有 NewAccountStore 呼叫，無需 Lock (單執行緒)
func (s *AccountStore) recoverFromWAL() error {
	if s.wal == nil {
		return nil
	}
	return s.wal.ReadAll(func(jsonRaw []byte) error {
		var ev accountEvent
		if err := json.Unmarshal(jsonRaw, &ev); err != nil {
			return err
		}
		switch ev.Op {
		case accountOpCreate:
			if ev.Account == nil {
				return fmt.Errorf("wal: create event without account")
			}
			s.insert(*ev.Account)
		case accountOpAdjust:
			slot, ok := s.accounts[ev.ID]
			if !ok {
				return fmt.Errorf("wal: adjust for unknown account %d", ev.ID)
			}
			slot.account.Balance += ev.Delta
			if ev.Key != "" {
				key, err := uuid.Parse(ev.Key)
				if err != nil {
					return fmt.Errorf("wal: adjust key: %w", err)
				}
				s.applied[key] = struct{}{}
			}
		}
		return nil
	})
}

func (s *AccountStore) insert(a domain.Account) {
	s.accounts[a.ID] = &accountSlot{account: a}
	s.numbers[numberKey{a.CustomerID, a.AccountNumber}] = a.ID
}

func (s *AccountStore) slot(id int64) (*accountSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.accounts[id]
	return slot, ok
}

// Get 取得帳戶快照
func (s *AccountStore) Get(ctx context.Context, id int64) (domain.Account, error) {
	slot, ok := s.slot(id)
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.account, nil
}

// ExistsByNumber 客戶下是否已有該帳號
func (s *AccountStore) ExistsByNumber(ctx context.Context, customerID int64, accountNumber string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.numbers[numberKey{customerID, accountNumber}]
	return ok, nil
}

// Create 建立帳戶並分配 snowflake ID
func (s *AccountStore) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.numbers[numberKey{account.CustomerID, account.AccountNumber}]; ok {
		return domain.Account{}, domain.ErrAccountAlreadyExists
	}
	account.ID = s.node.Generate().Int64()
	account.CreatedAt = s.now()

	if s.wal != nil {
		if err := s.wal.Write(accountEvent{Op: accountOpCreate, Account: &account}); err != nil {
			return domain.Account{}, fmt.Errorf("%w: %w", domain.ErrWALWriteFailed, err)
		}
	}
	s.insert(account)
	return account, nil
}

// AtomicAdjust 在帳戶鎖內檢查並套用 delta
//
// 參數:
//
//	ctx: 上下文
//	id: 帳戶 ID
//	delta: 正數入帳，負數扣款
//
// 回傳:
//
//	domain.Amount: 新餘額
//	error: ErrAccountNotFound / ErrInsufficientFunds / ErrWALWriteFailed
func (s *AccountStore) AtomicAdjust(ctx context.Context, id int64, delta domain.Amount) (domain.Amount, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	slot, ok := s.slot(id)
	if !ok {
		return 0, domain.ErrAccountNotFound
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	next, err := slot.account.Adjusted(delta)
	if err != nil {
		return slot.account.Balance, err
	}

	// 1. 寫入 WAL (Critical Path)
	if s.wal != nil {
		if err := s.wal.Write(accountEvent{Op: accountOpAdjust, ID: id, Delta: delta}); err != nil {
			return slot.account.Balance, fmt.Errorf("%w: %w", domain.ErrWALWriteFailed, err)
		}
	}
	// 2. 更新記憶體
	slot.account.Balance = next
	return next, nil
}

// AdjustOnce 同 AtomicAdjust，但同一個 key 只套用一次
// key 與 delta 寫在同一筆 WAL 事件，重啟後仍然去重
func (s *AccountStore) AdjustOnce(ctx context.Context, key uuid.UUID, id int64, delta domain.Amount) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	slot, ok := s.slot(id)
	if !ok {
		return false, domain.ErrAccountNotFound
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	s.appliedMu.Lock()
	_, done := s.applied[key]
	s.appliedMu.Unlock()
	if done {
		return false, nil
	}
	next, err := slot.account.Adjusted(delta)
	if err != nil {
		return false, err
	}
	if s.wal != nil {
		if err := s.wal.Write(accountEvent{Op: accountOpAdjust, ID: id, Delta: delta, Key: key.String()}); err != nil {
			return false, fmt.Errorf("%w: %w", domain.ErrWALWriteFailed, err)
		}
	}
	slot.account.Balance = next
	s.appliedMu.Lock()
	s.applied[key] = struct{}{}
	s.appliedMu.Unlock()
	return true, nil
}

// All 回傳所有帳戶快照，依 ID 排序
func (s *AccountStore) All(ctx context.Context) []domain.Account {
	s.mu.RLock()
	slots := make([]*accountSlot, 0, len(s.accounts))
	for _, slot := range s.accounts {
		slots = append(slots, slot)
	}
	s.mu.RUnlock()

	out := make([]domain.Account, 0, len(slots))
	for _, slot := range slots {
		slot.mu.Lock()
		out = append(out, slot.account)
		slot.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var (
	_ usecase.AccountStore = (*AccountStore)(nil)
	_ usecase.OnceAdjuster = (*AccountStore)(nil)
)
