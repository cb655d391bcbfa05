// Package lock provides per-order mutual exclusion for callback processing.
// Locks are fail-fast: a caller finding an order locked aborts immediately
// instead of waiting, so duplicate gateway deliveries are rejected rather
// than queued behind the in-flight one.
package lock

import (
	"context"
	"sync"
)

// Locker serializes callback processing per order. TryLock is an atomic
// test-and-set; there is no blocking acquire by design.
type Locker interface {
	// TryLock attempts to acquire the order's lock, returning false without
	// waiting when it is already held.
	TryLock(ctx context.Context, orderID string) (bool, error)
	// Unlock releases the order's lock. Releasing a lock that is not held
	// is a no-op.
	Unlock(ctx context.Context, orderID string) error
	// IsLocked reports whether the order's lock is currently held.
	IsLocked(ctx context.Context, orderID string) (bool, error)
}

// MemoryLocker keeps lock state in a mutex-guarded set. Suitable for a
// single-process deployment; multi-replica deployments should use the Redis
// backend so the lock stays visible across workers.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryLocker constructs an in-memory locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

// TryLock implements Locker.
func (l *MemoryLocker) TryLock(_ context.Context, orderID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[orderID]; ok {
		return false, nil
	}
	l.held[orderID] = struct{}{}
	return true, nil
}

// Unlock implements Locker.
func (l *MemoryLocker) Unlock(_ context.Context, orderID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, orderID)
	return nil
}

// IsLocked implements Locker.
func (l *MemoryLocker) IsLocked(_ context.Context, orderID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.held[orderID]
	return ok, nil
}
