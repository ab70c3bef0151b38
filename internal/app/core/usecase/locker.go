package usecase

import (
	"context"
	"sync"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// accountLocks 以帳戶 ID 為鍵的互斥鎖
//
// 每個帳戶一把鎖 (容量 1 的 channel，才能配合 ctx 取消)，
// 沒有人持有或等待時就從 map 移除，map 本身只在取得/釋放 entry 時短暫上鎖。
type accountLocks struct {
	mu    sync.Mutex
	locks map[int64]*accountLock
}

type accountLock struct {
	ch   chan struct{}
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[int64]*accountLock)}
}

func (l *accountLocks) ref(id int64) *accountLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &accountLock{ch: make(chan struct{}, 1)}
		l.locks[id] = lk
	}
	lk.refs++
	return lk
}

func (l *accountLocks) unref(id int64, lk *accountLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, id)
	}
}

func (l *accountLocks) lock(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lk := l.ref(id)
	select {
	case lk.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.unref(id, lk)
		return ctx.Err()
	}
}

func (l *accountLocks) unlock(id int64) {
	l.mu.Lock()
	lk := l.locks[id]
	l.mu.Unlock()
	<-lk.ch
	l.unref(id, lk)
}

// lockPair 依 domain.LockOrder 的順序鎖定兩個帳戶
//
// 回傳:
//
//	func(): 釋放兩把鎖
//	error: ctx 取消或逾時
func (l *accountLocks) lockPair(ctx context.Context, a, b int64) (func(), error) {
	ids := domain.LockOrder(a, b)
	if err := l.lock(ctx, ids[0]); err != nil {
		return nil, err
	}
	if err := l.lock(ctx, ids[1]); err != nil {
		l.unlock(ids[0])
		return nil, err
	}
	return func() {
		l.unlock(ids[1])
		l.unlock(ids[0])
	}, nil
}
