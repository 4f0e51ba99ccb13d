package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrLockHeld is returned when another writer holds the user's lock
var ErrLockHeld = errors.New("scheduling lock held by another writer")

// Locker serializes commits of scheduling results per user. The returned
// unlock func is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, userID string) (unlock func(), err error)
}

// MemLocker is an in-process Locker for single-binary use
type MemLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewMemLocker() *MemLocker {
	return &MemLocker{held: make(map[string]bool)}
}

func (m *MemLocker) Lock(ctx context.Context, userID string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[userID] {
		return nil, ErrLockHeld
	}
	m.held[userID] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, userID)
			m.mu.Unlock()
		})
	}, nil
}
