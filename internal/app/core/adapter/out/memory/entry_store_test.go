package memory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/pkg/wal"
)

func collect(t *testing.T, s *EntryStore, accountID int64) []domain.TransactionHistory {
	t.Helper()
	var out []domain.TransactionHistory
	for entry, err := range s.ListForAccount(context.Background(), accountID) {
		if err != nil {
			t.Fatalf("ListForAccount err=%v", err)
		}
		out = append(out, entry)
	}
	return out
}

func TestEntryStoreAppendAndList(t *testing.T) {
	ctx := context.Background()
	s, err := NewEntryStore(nil)
	if err != nil {
		t.Fatal(err)
	}

	// 同一個時間戳寫入三次，store 需保證單調遞增
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e1, _ := s.Append(ctx, domain.TransactionHistory{SourceAccountID: 1, TargetAccountID: 2, Amount: 10, CreatedAt: at})
	e2, _ := s.Append(ctx, domain.TransactionHistory{SourceAccountID: 2, TargetAccountID: 3, Amount: 20, CreatedAt: at})
	e3, _ := s.Append(ctx, domain.TransactionHistory{SourceAccountID: 3, TargetAccountID: 1, Amount: 30, CreatedAt: at})

	if e1.ID == uuid.Nil || e1.Sequence != 1 || e3.Sequence != 3 {
		t.Fatalf("id/sequence not assigned: %+v %+v", e1, e3)
	}
	if !e2.CreatedAt.After(e1.CreatedAt) || !e3.CreatedAt.After(e2.CreatedAt) {
		t.Fatalf("timestamps not monotonic: %v %v %v", e1.CreatedAt, e2.CreatedAt, e3.CreatedAt)
	}

	got := collect(t, s, 1)
	if len(got) != 2 || got[0].ID != e1.ID || got[1].ID != e3.ID {
		t.Fatalf("history of 1 unexpected: %+v", got)
	}
	if got := collect(t, s, 99); len(got) != 0 {
		t.Fatalf("unknown account history len=%d", len(got))
	}
}

// TestEntryStoreListIsRestartable 同一個序列 range 兩次會重新讀取
func TestEntryStoreListIsRestartable(t *testing.T) {
	ctx := context.Background()
	s, _ := NewEntryStore(nil)
	_, _ = s.Append(ctx, domain.TransactionHistory{SourceAccountID: 1, TargetAccountID: 2, Amount: 10})

	seq := s.ListForAccount(ctx, 1)
	count := func() int {
		n := 0
		for _, err := range seq {
			if err != nil {
				t.Fatal(err)
			}
			n++
		}
		return n
	}
	if n := count(); n != 1 {
		t.Fatalf("first range n=%d", n)
	}
	_, _ = s.Append(ctx, domain.TransactionHistory{SourceAccountID: 2, TargetAccountID: 1, Amount: 5})
	if n := count(); n != 2 {
		t.Fatalf("second range n=%d want 2", n)
	}

	// 提前 break 不會 panic
	for range seq {
		break
	}
}

func TestEntryStoreFindByRefAndRecover(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "entries.wal")
	w, err := wal.NewWAL(path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewEntryStore(w)
	if err != nil {
		t.Fatal(err)
	}
	ref := uuid.New()
	stored, _ := s.Append(ctx, domain.TransactionHistory{RefID: ref, SourceAccountID: 1, TargetAccountID: 2, Amount: 10})
	_ = w.Close()

	if _, err := s.FindByRef(ctx, uuid.New()); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("want ErrEntryNotFound, got %v", err)
	}

	w2, err := wal.NewWAL(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w2.Close()
	restored, err := NewEntryStore(w2)
	if err != nil {
		t.Fatal(err)
	}
	got, err := restored.FindByRef(ctx, ref)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != stored.ID || got.Amount != 10 || !got.CreatedAt.Equal(stored.CreatedAt) {
		t.Fatalf("restored=%+v stored=%+v", got, stored)
	}
	if restored.Len() != 1 {
		t.Fatalf("Len=%d want 1", restored.Len())
	}
}
