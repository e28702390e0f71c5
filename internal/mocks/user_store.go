package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/store"
)

// MockUserStore implements store.UserStore on a MemoryDB.
// Any non-nil function field replaces the default behavior.
type MockUserStore struct {
	db *MemoryDB

	CreateFn         func(ctx context.Context, user *domain.User) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateGlobalXPFn func(ctx context.Context, id uuid.UUID, xp, level int, at time.Time) error

	// Calls tracks UpdateGlobalXP invocations
	Calls struct {
		mu             sync.Mutex
		UpdateGlobalXP int
	}
}

// NewMockUserStore creates a MockUserStore backed by db.
func NewMockUserStore(db *MemoryDB) *MockUserStore {
	return &MockUserStore{db: db}
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements store.UserStore.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if err := user.Validate(); err != nil {
		return err
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, exists := m.db.users[user.ID]; exists {
		return store.ErrDuplicate
	}
	m.db.users[user.ID] = copyUser(user)
	return nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return copyUser(u), nil
}

// UpdateGlobalXP implements store.UserStore.
func (m *MockUserStore) UpdateGlobalXP(ctx context.Context, id uuid.UUID, xp, level int, at time.Time) error {
	m.Calls.mu.Lock()
	m.Calls.UpdateGlobalXP++
	m.Calls.mu.Unlock()

	if m.UpdateGlobalXPFn != nil {
		return m.UpdateGlobalXPFn(ctx, id, xp, level, at)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.GlobalXP = xp
	u.GlobalLevel = level
	u.UpdatedAt = at
	return nil
}

// UpdateGlobalXPCount returns the number of UpdateGlobalXP calls.
func (m *MockUserStore) UpdateGlobalXPCount() int {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	return m.Calls.UpdateGlobalXP
}

// WithTx returns the same mock; the MemoryDB has no transactions of its own.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
