package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-planner/internal/store"
)

// MockTransactor implements store.Transactor. By default it runs fn against
// Stores and, when DB is set, restores the MemoryDB snapshot taken on entry
// if fn fails. The restore covers the whole MemoryDB.
type MockTransactor struct {
	Stores store.Stores
	DB     *MemoryDB

	WithinTxFn func(ctx context.Context, fn store.StoresFn) error

	// Calls tracks WithinTx invocations and their outcome
	Calls struct {
		mu         sync.Mutex
		Count      int
		RolledBack int
	}
}

// NewMockTransactor creates a MockTransactor over the default stores of db.
func NewMockTransactor(db *MemoryDB) *MockTransactor {
	return &MockTransactor{Stores: db.StoreSet(), DB: db}
}

var _ store.Transactor = (*MockTransactor)(nil)

// WithinTx implements store.Transactor.
func (m *MockTransactor) WithinTx(ctx context.Context, fn store.StoresFn) error {
	m.Calls.mu.Lock()
	m.Calls.Count++
	m.Calls.mu.Unlock()

	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}

	var snap snapshot
	if m.DB != nil {
		snap = m.DB.snapshot()
	}

	if err := fn(ctx, m.Stores); err != nil {
		if m.DB != nil {
			m.DB.restore(snap)
		}
		m.Calls.mu.Lock()
		m.Calls.RolledBack++
		m.Calls.mu.Unlock()
		return err
	}
	return nil
}

// Count returns the number of WithinTx calls.
func (m *MockTransactor) Count() int {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	return m.Calls.Count
}

// RolledBack returns the number of units of work that returned an error.
func (m *MockTransactor) RolledBack() int {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	return m.Calls.RolledBack
}
