package usecase_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

type memoryStores struct {
	accounts *memory.AccountStore
	entries  *memory.EntryStore
}

func newMemoryStores(t *testing.T) memoryStores {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}
	accounts, err := memory.NewAccountStore(node, nil)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := memory.NewEntryStore(nil)
	if err != nil {
		t.Fatal(err)
	}
	return memoryStores{accounts: accounts, entries: entries}
}

func mustCreate(t *testing.T, s usecase.AccountStore, number string, balance domain.Amount) domain.Account {
	t.Helper()
	a, err := s.Create(context.Background(), domain.NewAccount(1, number, balance))
	if err != nil {
		t.Fatalf("create %s: %v", number, err)
	}
	return a
}

func balanceOf(t *testing.T, s usecase.AccountStore, id int64) domain.Amount {
	t.Helper()
	a, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return a.Balance
}

func historyOf(t *testing.T, s usecase.LedgerEntryStore, id int64) []domain.TransactionHistory {
	t.Helper()
	var out []domain.TransactionHistory
	for e, err := range s.ListForAccount(context.Background(), id) {
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, e)
	}
	return out
}

func transfer(src, dst int64, amount domain.Amount) domain.TransferRequest {
	return domain.TransferRequest{SourceAccountID: src, TargetAccountID: dst, Amount: amount}
}

func TestTransferCommits(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStores(t)
	engine := usecase.NewTransferEngine(st.accounts, st.entries)
	s := mustCreate(t, st.accounts, "S", 100)
	d := mustCreate(t, st.accounts, "T", 50)

	receipt, err := engine.Transfer(ctx, transfer(s.ID, d.ID, 30))
	if err != nil {
		t.Fatal(err)
	}
	if receipt.Result != domain.ResultOK || receipt.Replayed {
		t.Fatalf("receipt=%+v", receipt)
	}
	if got := balanceOf(t, st.accounts, s.ID); got != 70 {
		t.Fatalf("S balance=%d want 70", got)
	}
	if got := balanceOf(t, st.accounts, d.ID); got != 80 {
		t.Fatalf("T balance=%d want 80", got)
	}
	h := historyOf(t, st.entries, s.ID)
	if len(h) != 1 || h[0].SourceAccountID != s.ID || h[0].TargetAccountID != d.ID || h[0].Amount != 30 {
		t.Fatalf("history=%+v", h)
	}
	if h[0].ID != receipt.Entry.ID {
		t.Fatal("receipt entry differs from stored entry")
	}
}

func TestTransferRejections(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStores(t)
	engine := usecase.NewTransferEngine(st.accounts, st.entries)
	s := mustCreate(t, st.accounts, "S", 20)
	d := mustCreate(t, st.accounts, "T", 0)

	tests := []struct {
		name string
		req  domain.TransferRequest
		want domain.Result
	}{
		{"insufficient funds", transfer(s.ID, d.ID, 30), domain.ResultInsufficientFunds},
		{"same account", transfer(s.ID, s.ID, 10), domain.ResultSameAccount},
		{"zero amount", transfer(s.ID, d.ID, 0), domain.ResultInvalidAmount},
		{"negative amount", transfer(s.ID, d.ID, -5), domain.ResultInvalidAmount},
		// 金額檢查優先於帳戶檢查
		{"invalid amount wins over same account", transfer(s.ID, s.ID, 0), domain.ResultInvalidAmount},
		{"unknown source", transfer(777, d.ID, 1), domain.ResultInvalidAccounts},
		{"unknown target", transfer(s.ID, 777, 1), domain.ResultInvalidAccounts},
		{"unknown account wins over funds", transfer(s.ID, 777, 1000), domain.ResultInvalidAccounts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Transfer(ctx, tt.req)
			if got := domain.ResultOf(err); got != tt.want {
				t.Fatalf("result=%v want %v (err=%v)", got, tt.want, err)
			}
			var terr *domain.TransferError
			if !errors.As(err, &terr) || terr.Request != tt.req {
				t.Fatalf("want *TransferError carrying the request, got %T", err)
			}
		})
	}

	if got := balanceOf(t, st.accounts, s.ID); got != 20 {
		t.Fatalf("S balance=%d want 20", got)
	}
	if got := balanceOf(t, st.accounts, d.ID); got != 0 {
		t.Fatalf("T balance=%d want 0", got)
	}
	if st.entries.Len() != 0 {
		t.Fatalf("entries=%d want 0", st.entries.Len())
	}
}

func TestTransferTargetOverflowIsRejected(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStores(t)
	engine := usecase.NewTransferEngine(st.accounts, st.entries)
	a := mustCreate(t, st.accounts, "A", domain.MaxBalance)
	b := mustCreate(t, st.accounts, "B", domain.MaxBalance)

	_, err := engine.Transfer(ctx, transfer(a.ID, b.ID, domain.MaxBalance))
	if domain.ResultOf(err) != domain.ResultInvalidAmount || !errors.Is(err, domain.ErrBalanceOverflow) {
		t.Fatalf("want InvalidAmount wrapping ErrBalanceOverflow, got %v", err)
	}
	if balanceOf(t, st.accounts, a.ID) != domain.MaxBalance || balanceOf(t, st.accounts, b.ID) != domain.MaxBalance {
		t.Fatal("balances changed on rejected transfer")
	}
	if st.entries.Len() != 0 {
		t.Fatalf("entries=%d want 0", st.entries.Len())
	}
}

func TestTransferIdempotentRef(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStores(t)
	engine := usecase.NewTransferEngine(st.accounts, st.entries)
	s := mustCreate(t, st.accounts, "S", 100)
	d := mustCreate(t, st.accounts, "T", 0)

	req := transfer(s.ID, d.ID, 10)
	req.RefID = uuid.New()
	first, err := engine.Transfer(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.Transfer(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Replayed || second.Entry.ID != first.Entry.ID {
		t.Fatalf("second=%+v", second)
	}
	if got := balanceOf(t, st.accounts, s.ID); got != 90 {
		t.Fatalf("S balance=%d want 90", got)
	}
	if st.entries.Len() != 1 {
		t.Fatalf("entries=%d want 1", st.entries.Len())
	}
}

func TestTransferClockStampsEntry(t *testing.T) {
	st := newMemoryStores(t)
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	engine := usecase.NewTransferEngine(st.accounts, st.entries,
		usecase.WithClock(usecase.ClockFunc(func() time.Time { return at })))
	s := mustCreate(t, st.accounts, "S", 10)
	d := mustCreate(t, st.accounts, "T", 0)

	receipt, err := engine.Transfer(context.Background(), transfer(s.ID, d.ID, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !receipt.Entry.CreatedAt.Equal(at) {
		t.Fatalf("CreatedAt=%v want %v", receipt.Entry.CreatedAt, at)
	}
	if receipt.Entry.RefID == uuid.Nil {
		t.Fatal("engine should assign a ref id")
	}
}

// TestTransferConcurrentConservation 多個 goroutine 隨機互轉，總額不變、餘額不為負、每筆成功都有紀錄
func TestTransferConcurrentConservation(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStores(t)
	engine := usecase.NewTransferEngine(st.accounts, st.entries)

	const nAccounts = 5
	ids := make([]int64, nAccounts)
	for i := range ids {
		ids[i] = mustCreate(t, st.accounts, string(rune('A'+i)), 1000).ID
	}

	const workers, perWorker = 16, 200
	var wg sync.WaitGroup
	var mu sync.Mutex
	committed := 0
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(seed uint64) {
			defer wg.Done()
			r := rand.New(rand.NewPCG(seed, 7))
			for i := 0; i < perWorker; i++ {
				src, dst := ids[r.IntN(nAccounts)], ids[r.IntN(nAccounts)]
				_, err := engine.Transfer(ctx, transfer(src, dst, domain.Amount(1+r.IntN(300))))
				if err == nil {
					mu.Lock()
					committed++
					mu.Unlock()
					continue
				}
				if !domain.IsRejection(err) {
					t.Errorf("unexpected failure: %v", err)
				}
			}
		}(uint64(w))
	}
	wg.Wait()

	var total domain.Amount
	for _, id := range ids {
		b := balanceOf(t, st.accounts, id)
		if b < 0 {
			t.Fatalf("account %d negative balance %d", id, b)
		}
		total += b
	}
	if total != nAccounts*1000 {
		t.Fatalf("total=%d want %d", total, nAccounts*1000)
	}
	if st.entries.Len() != committed {
		t.Fatalf("entries=%d committed=%d", st.entries.Len(), committed)
	}
}

// TestTransferOppositeDirections A->B 與 B->A 同時大量進行，不死鎖且總額不變
func TestTransferOppositeDirections(t *testing.T) {
	st := newMemoryStores(t)
	engine := usecase.NewTransferEngine(st.accounts, st.entries)
	a := mustCreate(t, st.accounts, "A", 500)
	b := mustCreate(t, st.accounts, "B", 500)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 500; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = engine.Transfer(ctx, transfer(a.ID, b.ID, 3))
		}()
		go func() {
			defer wg.Done()
			_, _ = engine.Transfer(ctx, transfer(b.ID, a.ID, 2))
		}()
	}
	wg.Wait()
	if ctx.Err() != nil {
		t.Fatal("transfers did not finish before the deadline")
	}
	if sum := balanceOf(t, st.accounts, a.ID) + balanceOf(t, st.accounts, b.ID); sum != 1000 {
		t.Fatalf("sum=%d want 1000", sum)
	}
}

func TestTransferCanceledContext(t *testing.T) {
	st := newMemoryStores(t)
	engine := usecase.NewTransferEngine(st.accounts, st.entries)
	a := mustCreate(t, st.accounts, "A", 10)
	b := mustCreate(t, st.accounts, "B", 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.Transfer(ctx, transfer(a.ID, b.ID, 5))
	if domain.ResultOf(err) != domain.ResultFatal || !errors.Is(err, context.Canceled) {
		t.Fatalf("want Fatal wrapping context.Canceled, got %v", err)
	}
	if balanceOf(t, st.accounts, a.ID) != 10 {
		t.Fatal("balance changed on canceled transfer")
	}
}

// flakyAccounts 讓入帳 (delta > 0) 與沖回失敗，用來走補償路徑
type flakyAccounts struct {
	usecase.AccountStore
	mu           sync.Mutex
	failCreditTo int64
	failReversal bool
	source       int64
}

func (f *flakyAccounts) AtomicAdjust(ctx context.Context, id int64, delta domain.Amount) (domain.Amount, error) {
	f.mu.Lock()
	failCredit := id == f.failCreditTo && delta > 0
	failReversal := f.failReversal && id == f.source && delta > 0
	f.mu.Unlock()
	if failCredit || failReversal {
		return 0, errors.New("connection reset")
	}
	return f.AccountStore.AtomicAdjust(ctx, id, delta)
}

func (f *flakyAccounts) heal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCreditTo, f.failReversal = 0, false
}

func TestTransferCreditFailureReversesDebit(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStores(t)
	a := mustCreate(t, st.accounts, "A", 100)
	b := mustCreate(t, st.accounts, "B", 0)
	flaky := &flakyAccounts{AccountStore: st.accounts, failCreditTo: b.ID}
	engine := usecase.NewTransferEngine(flaky, st.entries)

	_, err := engine.Transfer(ctx, transfer(a.ID, b.ID, 40))
	if domain.ResultOf(err) != domain.ResultFatal {
		t.Fatalf("want Fatal, got %v", err)
	}
	if balanceOf(t, st.accounts, a.ID) != 100 || balanceOf(t, st.accounts, b.ID) != 0 {
		t.Fatal("debit was not reversed")
	}
	if st.entries.Len() != 0 {
		t.Fatal("no entry expected for a failed transfer")
	}
}

func TestTransferFailedReversalIsQueued(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStores(t)
	a := mustCreate(t, st.accounts, "A", 100)
	b := mustCreate(t, st.accounts, "B", 0)
	flaky := &flakyAccounts{AccountStore: st.accounts, failCreditTo: b.ID, failReversal: true, source: a.ID}
	reconciler := usecase.NewReconciler(flaky, st.entries)
	engine := usecase.NewTransferEngine(flaky, st.entries, usecase.WithReconcileQueue(reconciler))

	_, err := engine.Transfer(ctx, transfer(a.ID, b.ID, 40))
	if domain.ResultOf(err) != domain.ResultFatal || !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("want Fatal, got %v", err)
	}
	pending := reconciler.Pending()
	if len(pending) != 1 || pending[0].Kind != usecase.ReconcileReverseDebit || pending[0].Entry.Amount != 40 {
		t.Fatalf("pending=%+v", pending)
	}
	if balanceOf(t, st.accounts, a.ID) != 60 {
		t.Fatal("debit should still be outstanding")
	}

	flaky.heal()
	if left := reconciler.Sweep(ctx); left != 0 {
		t.Fatalf("left=%d want 0", left)
	}
	if balanceOf(t, st.accounts, a.ID) != 100 || balanceOf(t, st.accounts, b.ID) != 0 {
		t.Fatal("reconciler did not reverse the debit")
	}
}

// flakyEntries Append 失敗指定次數
type flakyEntries struct {
	usecase.LedgerEntryStore
	mu    sync.Mutex
	fails int
}

func (f *flakyEntries) Append(ctx context.Context, e domain.TransactionHistory) (domain.TransactionHistory, error) {
	f.mu.Lock()
	fail := f.fails > 0
	if fail {
		f.fails--
	}
	f.mu.Unlock()
	if fail {
		return domain.TransactionHistory{}, errors.New("disk full")
	}
	return f.LedgerEntryStore.Append(ctx, e)
}

func TestTransferAppendFailureIsDegraded(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStores(t)
	a := mustCreate(t, st.accounts, "A", 100)
	b := mustCreate(t, st.accounts, "B", 0)
	entries := &flakyEntries{LedgerEntryStore: st.entries, fails: 2}
	reconciler := usecase.NewReconciler(st.accounts, entries)
	engine := usecase.NewTransferEngine(st.accounts, entries, usecase.WithReconcileQueue(reconciler))

	receipt, err := engine.Transfer(ctx, transfer(a.ID, b.ID, 25))
	if err != nil {
		t.Fatalf("degraded transfers are not errors: %v", err)
	}
	if receipt.Result != domain.ResultDegraded || !receipt.Result.Committed() {
		t.Fatalf("result=%v want DEGRADED", receipt.Result)
	}
	// 金額已移轉，不 rollback
	if balanceOf(t, st.accounts, a.ID) != 75 || balanceOf(t, st.accounts, b.ID) != 25 {
		t.Fatal("funds should have moved")
	}
	if len(reconciler.Pending()) != 1 {
		t.Fatalf("pending=%d want 1", len(reconciler.Pending()))
	}

	// 第一次 sweep 仍然失敗，第二次補寫成功
	if left := reconciler.Sweep(ctx); left != 1 {
		t.Fatalf("left=%d want 1", left)
	}
	if p := reconciler.Pending(); p[0].Attempts != 1 {
		t.Fatalf("attempts=%d want 1", p[0].Attempts)
	}
	if left := reconciler.Sweep(ctx); left != 0 {
		t.Fatalf("left=%d want 0", left)
	}
	h := historyOf(t, st.entries, a.ID)
	if len(h) != 1 || h[0].RefID != receipt.Entry.RefID || h[0].Amount != 25 {
		t.Fatalf("history=%+v", h)
	}
	// 已補寫的項目再處理一次也不會重複
	_ = reconciler.Enqueue(ctx, usecase.ReconcileItem{Kind: usecase.ReconcileMissingEntry, Entry: receipt.Entry})
	reconciler.Sweep(ctx)
	if st.entries.Len() != 1 {
		t.Fatalf("entries=%d want 1", st.entries.Len())
	}
}

func TestTransferRetryAfterDegradedIsReplayed(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStores(t)
	a := mustCreate(t, st.accounts, "A", 100)
	b := mustCreate(t, st.accounts, "B", 0)
	entries := &flakyEntries{LedgerEntryStore: st.entries, fails: 1}
	reconciler := usecase.NewReconciler(st.accounts, entries)
	engine := usecase.NewTransferEngine(st.accounts, entries, usecase.WithReconcileQueue(reconciler))

	req := transfer(a.ID, b.ID, 25)
	req.RefID = uuid.New()
	first, err := engine.Transfer(ctx, req)
	if err != nil || first.Result != domain.ResultDegraded {
		t.Fatalf("first=%+v err=%v want DEGRADED", first, err)
	}

	// 紀錄還沒補寫前重送，不能再扣一次
	retry, err := engine.Transfer(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if retry.Result != domain.ResultDegraded || !retry.Replayed || retry.Entry.RefID != req.RefID {
		t.Fatalf("retry=%+v want replayed DEGRADED", retry)
	}
	if balanceOf(t, st.accounts, a.ID) != 75 || balanceOf(t, st.accounts, b.ID) != 25 {
		t.Fatalf("balances a=%d b=%d want 75/25", balanceOf(t, st.accounts, a.ID), balanceOf(t, st.accounts, b.ID))
	}

	if left := reconciler.Sweep(ctx); left != 0 {
		t.Fatalf("left=%d want 0", left)
	}
	again, err := engine.Transfer(ctx, req)
	if err != nil || again.Result != domain.ResultOK || !again.Replayed {
		t.Fatalf("after reconcile=%+v err=%v", again, err)
	}
	if balanceOf(t, st.accounts, a.ID) != 75 || st.entries.Len() != 1 {
		t.Fatalf("a=%d entries=%d want 75/1", balanceOf(t, st.accounts, a.ID), st.entries.Len())
	}
}
