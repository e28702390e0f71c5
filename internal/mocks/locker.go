package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/service/userlock"
)

// MockLocker implements userlock.Locker. Without LockFn it delegates to an
// in-process KeyedMutex so serialization still holds in tests.
type MockLocker struct {
	LockFn func(ctx context.Context, userID uuid.UUID) (func(), error)

	once  sync.Once
	inner *userlock.KeyedMutex

	// Calls tracks Lock and unlock invocations per user
	Calls struct {
		mu       sync.Mutex
		Locked   []uuid.UUID
		Unlocked int
	}
}

var _ userlock.Locker = (*MockLocker)(nil)

// Lock implements userlock.Locker.
func (m *MockLocker) Lock(ctx context.Context, userID uuid.UUID) (func(), error) {
	m.Calls.mu.Lock()
	m.Calls.Locked = append(m.Calls.Locked, userID)
	m.Calls.mu.Unlock()

	var (
		unlock func()
		err    error
	)
	if m.LockFn != nil {
		unlock, err = m.LockFn(ctx, userID)
	} else {
		m.once.Do(func() { m.inner = userlock.NewKeyedMutex() })
		unlock, err = m.inner.Lock(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	return func() {
		m.Calls.mu.Lock()
		m.Calls.Unlocked++
		m.Calls.mu.Unlock()
		if unlock != nil {
			unlock()
		}
	}, nil
}

// Balanced reports whether every successful Lock was paired with an unlock.
func (m *MockLocker) Balanced() bool {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	return len(m.Calls.Locked) == m.Calls.Unlocked
}
