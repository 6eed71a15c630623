package lock

import (
	"context"
	"sync"
)

// LocalLocker is an in-process mutex per key that honours context
// cancellation while waiting.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: map[string]chan struct{}{}}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (Lease, error) {
	slot := l.slot(key)
	select {
	case slot <- struct{}{}:
		return &localLease{slot: slot}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) Shared() bool { return false }

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[key] = s
	}
	return s
}

type localLease struct {
	once sync.Once
	slot chan struct{}
}

func (l *localLease) Release(context.Context) error {
	l.once.Do(func() { <-l.slot })
	return nil
}
