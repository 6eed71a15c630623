// Package lock serializes operations on one entity graph, either inside a
// process or across processes sharing a Redis instance.
package lock

import (
	"context"

	"github.com/rendiciones/rendiciones/pkg/serrors"
)

var (
	ErrNotAcquired = serrors.NewError("LOCK_NOT_ACQUIRED", "lock: not acquired before deadline", "Errors.LockNotAcquired")
	ErrLost        = serrors.NewError("LOCK_LOST", "lock: lease expired or taken over", "Errors.LockLost")
)

// Lease is a held lock. Release is safe to call once.
type Lease interface {
	Release(ctx context.Context) error
}

type Locker interface {
	Acquire(ctx context.Context, key string) (Lease, error)
	// Shared reports whether other processes may write the store while the
	// lock is not held, in which case state must be reloaded after Acquire.
	Shared() bool
}
