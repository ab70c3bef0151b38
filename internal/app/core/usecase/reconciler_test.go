package usecase_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/wal"
)

type recordingSink struct {
	mu    sync.Mutex
	items []usecase.ReconcileItem
}

func (s *recordingSink) Alert(_ context.Context, item usecase.ReconcileItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return nil
}

func missingEntry(src, dst int64, amount domain.Amount) usecase.ReconcileItem {
	return usecase.ReconcileItem{
		Kind: usecase.ReconcileMissingEntry,
		Entry: domain.TransactionHistory{
			RefID:           uuid.New(),
			SourceAccountID: src,
			TargetAccountID: dst,
			Amount:          amount,
			CreatedAt:       time.Now(),
		},
	}
}

func TestReconcilerJournalRecover(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStores(t)
	path := filepath.Join(t.TempDir(), "reconcile.wal")

	w, err := wal.NewWAL(path)
	if err != nil {
		t.Fatal(err)
	}
	entries := &flakyEntries{LedgerEntryStore: st.entries, fails: 1}
	r := usecase.NewReconciler(st.accounts, entries, usecase.WithJournal(w))
	if err := r.Enqueue(ctx, missingEntry(1, 2, 5)); err != nil {
		t.Fatal(err)
	}
	if err := r.Enqueue(ctx, missingEntry(3, 4, 7)); err != nil {
		t.Fatal(err)
	}
	// 第一筆失敗，第二筆成功
	if left := r.Sweep(ctx); left != 1 {
		t.Fatalf("left=%d want 1", left)
	}
	_ = w.Close()

	w2, err := wal.NewWAL(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w2.Close()
	restored := usecase.NewReconciler(st.accounts, st.entries, usecase.WithJournal(w2))
	if err := restored.Recover(); err != nil {
		t.Fatal(err)
	}
	pending := restored.Pending()
	if len(pending) != 1 {
		t.Fatalf("pending=%d want 1", len(pending))
	}
	if left := restored.Sweep(ctx); left != 0 {
		t.Fatalf("left=%d want 0", left)
	}
	if st.entries.Len() != 2 {
		t.Fatalf("entries=%d want 2", st.entries.Len())
	}
}

func TestReconcilerStartDrainsQueue(t *testing.T) {
	st := newMemoryStores(t)
	sink := &recordingSink{}
	r := usecase.NewReconciler(st.accounts, st.entries,
		usecase.WithAlertSink(sink),
		usecase.WithReconcileInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	item := missingEntry(1, 2, 9)
	if err := r.Enqueue(ctx, item); err != nil {
		t.Fatal(err)
	}

	// Enqueue 會喚醒 run loop，不需要等 interval
	deadline := time.Now().Add(5 * time.Second)
	for len(r.Pending()) > 0 {
		if time.Now().After(deadline) {
			t.Fatal("item was not resolved")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, err := st.entries.FindByRef(context.Background(), item.Entry.RefID); err != nil {
		t.Fatalf("entry not written: %v", err)
	}
	sink.mu.Lock()
	if len(sink.items) != 1 || sink.items[0].Entry.RefID != item.Entry.RefID {
		t.Errorf("alerts=%+v", sink.items)
	}
	sink.mu.Unlock()

	// 取消後 run loop 會結束
	cancel()
	r.Wait()
}

type brokenJournal struct{}

func (brokenJournal) Write(any) error {
	return errors.New("read-only file system")
}

func (brokenJournal) ReadAll(func([]byte) error) error {
	return nil
}

func TestReconcilerKeepsItemWhenJournalFails(t *testing.T) {
	st := newMemoryStores(t)
	r := usecase.NewReconciler(st.accounts, st.entries, usecase.WithJournal(brokenJournal{}))
	err := r.Enqueue(context.Background(), missingEntry(1, 2, 1))
	if !errors.Is(err, domain.ErrWALWriteFailed) {
		t.Fatalf("want ErrWALWriteFailed, got %v", err)
	}
	if len(r.Pending()) != 1 {
		t.Fatal("item must stay pending in memory")
	}
}

// failResolvedJournal queued 正常寫入，resolved 寫入失敗
type failResolvedJournal struct {
	*wal.WAL
}

func (j failResolvedJournal) Write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if bytes.Contains(b, []byte(`"op":"resolved"`)) {
		return errors.New("disk full")
	}
	return j.WAL.Write(v)
}

func TestReconcilerReversalAppliedOnceAcrossRestart(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStores(t)
	a := mustCreate(t, st.accounts, "A", 75)
	path := filepath.Join(t.TempDir(), "reconcile.wal")

	w, err := wal.NewWAL(path)
	if err != nil {
		t.Fatal(err)
	}
	r := usecase.NewReconciler(st.accounts, st.entries, usecase.WithJournal(failResolvedJournal{w}))
	item := usecase.ReconcileItem{
		Kind: usecase.ReconcileReverseDebit,
		Entry: domain.TransactionHistory{
			RefID:           uuid.New(),
			SourceAccountID: a.ID,
			TargetAccountID: 999,
			Amount:          25,
		},
	}
	if err := r.Enqueue(ctx, item); err != nil {
		t.Fatal(err)
	}

	// 沖回成功但 resolved 寫不進 journal，項目保留且不會再沖回一次
	for i := 0; i < 2; i++ {
		if left := r.Sweep(ctx); left != 1 {
			t.Fatalf("sweep %d: left=%d want 1", i, left)
		}
		if got := balanceOf(t, st.accounts, a.ID); got != 100 {
			t.Fatalf("sweep %d: balance=%d want 100", i, got)
		}
	}
	_ = w.Close()

	// 重啟後 journal 仍有 queued，帳戶 store 以項目 ID 去重
	w2, err := wal.NewWAL(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w2.Close()
	restored := usecase.NewReconciler(st.accounts, st.entries, usecase.WithJournal(w2))
	if err := restored.Recover(); err != nil {
		t.Fatal(err)
	}
	if len(restored.Pending()) != 1 {
		t.Fatalf("pending=%d want 1", len(restored.Pending()))
	}
	if left := restored.Sweep(ctx); left != 0 {
		t.Fatalf("left=%d want 0", left)
	}
	if got := balanceOf(t, st.accounts, a.ID); got != 100 {
		t.Fatalf("balance=%d want 100", got)
	}
}

// blockingSink 直到 release 關閉前都不回傳
type blockingSink struct {
	release chan struct{}
	got     chan usecase.ReconcileItem
}

func (s *blockingSink) Alert(ctx context.Context, item usecase.ReconcileItem) error {
	select {
	case <-s.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	s.got <- item
	return nil
}

func TestReconcilerAlertsDoNotBlockEnqueue(t *testing.T) {
	st := newMemoryStores(t)
	sink := &blockingSink{release: make(chan struct{}), got: make(chan usecase.ReconcileItem, 1)}
	r := usecase.NewReconciler(st.accounts, st.entries,
		usecase.WithAlertSink(sink),
		usecase.WithReconcileInterval(time.Hour))

	item := missingEntry(1, 2, 3)
	done := make(chan error, 1)
	go func() { done <- r.Enqueue(context.Background(), item) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on the alert sink")
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	close(sink.release)
	select {
	case got := <-sink.got:
		if got.Entry.RefID != item.Entry.RefID {
			t.Fatalf("alerted %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("alert was never sent")
	}
	cancel()
	r.Wait()
}
