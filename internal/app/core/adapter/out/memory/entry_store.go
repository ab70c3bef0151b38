package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/wal"
)

// EntryStore 是記憶體版的轉帳紀錄儲存 (append-only)
type EntryStore struct {
	mu      sync.RWMutex
	entries []domain.TransactionHistory
	// 帳戶 ID -> entries 索引 (遞增)
	byAccount map[int64][]int
	byRef     map[uuid.UUID]int
	last      time.Time
	wal       *wal.WAL
}

// NewEntryStore 建立記憶體轉帳紀錄儲存，並從 WAL 恢復
func NewEntryStore(w *wal.WAL) (*EntryStore, error) {
	s := &EntryStore{
		byAccount: make(map[int64][]int),
		byRef:     make(map[uuid.UUID]int),
		wal:       w,
	}
	if w == nil {
		return s, nil
	}
	err := w.ReadAll(func(jsonRaw []byte) error {
		var entry domain.TransactionHistory
		if err := json.Unmarshal(jsonRaw, &entry); err != nil {
			return err
		}
		s.insert(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *EntryStore) insert(entry domain.TransactionHistory) {
	idx := len(s.entries)
	s.entries = append(s.entries, entry)
	s.byAccount[entry.SourceAccountID] = append(s.byAccount[entry.SourceAccountID], idx)
	s.byAccount[entry.TargetAccountID] = append(s.byAccount[entry.TargetAccountID], idx)
	if entry.RefID != uuid.Nil {
		if _, ok := s.byRef[entry.RefID]; !ok {
			s.byRef[entry.RefID] = idx
		}
	}
	s.last = entry.CreatedAt
}

// Append 分配 ID / Sequence 並寫入
func (s *EntryStore) Append(ctx context.Context, entry domain.TransactionHistory) (domain.TransactionHistory, error) {
	if err := ctx.Err(); err != nil {
		return domain.TransactionHistory{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = uuid.New()
	entry.Sequence = uint64(len(s.entries)) + 1
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	// 時間戳在 store 內單調遞增
	if !entry.CreatedAt.After(s.last) {
		entry.CreatedAt = s.last.Add(time.Nanosecond)
	}

	if s.wal != nil {
		if err := s.wal.Write(entry); err != nil {
			return domain.TransactionHistory{}, fmt.Errorf("%w: %w", domain.ErrWALWriteFailed, err)
		}
	}
	s.insert(entry)
	return entry, nil
}

// ListForAccount 依時間遞增列出帳戶相關紀錄
// 每次 range 取一次當下的快照，之後的 Append 不影響正在進行的迭代
func (s *EntryStore) ListForAccount(ctx context.Context, accountID int64) iter.Seq2[domain.TransactionHistory, error] {
	return func(yield func(domain.TransactionHistory, error) bool) {
		s.mu.RLock()
		idx := s.byAccount[accountID]
		snapshot := make([]domain.TransactionHistory, len(idx))
		for i, j := range idx {
			snapshot[i] = s.entries[j]
		}
		s.mu.RUnlock()

		for _, entry := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(domain.TransactionHistory{}, err)
				return
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// FindByRef 依冪等鍵查詢
func (s *EntryStore) FindByRef(ctx context.Context, refID uuid.UUID) (domain.TransactionHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byRef[refID]
	if !ok {
		return domain.TransactionHistory{}, domain.ErrEntryNotFound
	}
	return s.entries[idx], nil
}

// Len 目前紀錄筆數
func (s *EntryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ usecase.LedgerEntryStore = (*EntryStore)(nil)
