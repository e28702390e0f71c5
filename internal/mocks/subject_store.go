package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/store"
)

// MockSubjectStore implements store.SubjectStore on a MemoryDB.
// Any non-nil function field replaces the default behavior.
type MockSubjectStore struct {
	db *MemoryDB

	CreateFn     func(ctx context.Context, subject *domain.Subject) error
	AllForUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Subject, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Subject, error)
	UpdateXPFn   func(ctx context.Context, id uuid.UUID, xp, level int, at time.Time) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error

	// Calls tracks UpdateXP invocations
	Calls struct {
		mu       sync.Mutex
		UpdateXP []uuid.UUID
	}
}

// NewMockSubjectStore creates a MockSubjectStore backed by db.
func NewMockSubjectStore(db *MemoryDB) *MockSubjectStore {
	return &MockSubjectStore{db: db}
}

var _ store.SubjectStore = (*MockSubjectStore)(nil)

// Create implements store.SubjectStore.
func (m *MockSubjectStore) Create(ctx context.Context, subject *domain.Subject) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, subject)
	}

	if err := subject.Validate(); err != nil {
		return err
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, exists := m.db.subjects[subject.ID]; exists {
		return store.ErrDuplicate
	}
	m.db.subjects[subject.ID] = copySubject(subject)
	return nil
}

// AllForUser implements store.SubjectStore.
func (m *MockSubjectStore) AllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Subject, error) {
	if m.AllForUserFn != nil {
		return m.AllForUserFn(ctx, userID)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	subjects := make([]*domain.Subject, 0)
	for _, s := range m.db.subjects {
		if s.UserID == userID {
			subjects = append(subjects, copySubject(s))
		}
	}
	sort.SliceStable(subjects, func(i, j int) bool {
		return subjects[i].CreatedAt.Before(subjects[j].CreatedAt)
	})
	return subjects, nil
}

// GetByID implements store.SubjectStore.
func (m *MockSubjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subject, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.subjects[id]
	if !ok {
		return nil, store.ErrSubjectNotFound
	}
	return copySubject(s), nil
}

// UpdateXP implements store.SubjectStore.
func (m *MockSubjectStore) UpdateXP(ctx context.Context, id uuid.UUID, xp, level int, at time.Time) error {
	m.Calls.mu.Lock()
	m.Calls.UpdateXP = append(m.Calls.UpdateXP, id)
	m.Calls.mu.Unlock()

	if m.UpdateXPFn != nil {
		return m.UpdateXPFn(ctx, id, xp, level, at)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.subjects[id]
	if !ok {
		return store.ErrSubjectNotFound
	}
	s.XP = xp
	s.Level = level
	s.UpdatedAt = at
	return nil
}

// Delete implements store.SubjectStore. Blocks of the subject are removed
// with it, mirroring ON DELETE CASCADE.
func (m *MockSubjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.subjects[id]; !ok {
		return store.ErrSubjectNotFound
	}
	delete(m.db.subjects, id)
	for blockID, b := range m.db.blocks {
		if b.SubjectID == id {
			delete(m.db.blocks, blockID)
		}
	}
	return nil
}

// UpdateXPCount returns the number of UpdateXP calls.
func (m *MockSubjectStore) UpdateXPCount() int {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	return len(m.Calls.UpdateXP)
}

// WithTx returns the same mock; the MemoryDB has no transactions of its own.
func (m *MockSubjectStore) WithTx(tx *sql.Tx) store.SubjectStore {
	return m
}
