package store

import (
	"context"
	"sync"
)

// OwnerLocks 为每个用户维护一把可被 ctx 取消的锁，无人持有或等待时回收。
type OwnerLocks struct {
	mu    sync.Mutex
	locks map[uint]*ownerLock
}

type ownerLock struct {
	slot    chan struct{}
	waiters int
}

// NewOwnerLocks 构造 OwnerLocks
func NewOwnerLocks() *OwnerLocks {
	return &OwnerLocks{locks: make(map[uint]*ownerLock)}
}

// Lock 获取 ownerID 的锁并返回释放函数；ctx 结束时放弃等待并返回 ctx.Err()。
func (l *OwnerLocks) Lock(ctx context.Context, ownerID uint) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[ownerID]
	if !ok {
		entry = &ownerLock{slot: make(chan struct{}, 1)}
		l.locks[ownerID] = entry
	}
	entry.waiters++
	l.mu.Unlock()

	select {
	case entry.slot <- struct{}{}:
	case <-ctx.Done():
		l.release(ownerID, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.slot
			l.release(ownerID, entry)
		})
	}, nil
}

func (l *OwnerLocks) release(ownerID uint, entry *ownerLock) {
	l.mu.Lock()
	entry.waiters--
	if entry.waiters == 0 {
		delete(l.locks, ownerID)
	}
	l.mu.Unlock()
}

func (l *OwnerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
