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

// MockBlockStore implements store.BlockStore on a MemoryDB.
// Any non-nil function field replaces the default behavior.
type MockBlockStore struct {
	db *MemoryDB

	InsertBlocksFn         func(ctx context.Context, blocks []*domain.StudyBlock) error
	DeletePendingForUserFn func(ctx context.Context, userID uuid.UUID) (int64, error)
	GetByIDFn              func(ctx context.Context, id uuid.UUID) (*domain.StudyBlock, error)
	GetForSubjectFn        func(ctx context.Context, subjectID uuid.UUID) ([]*domain.StudyBlock, error)
	ListForUserFn          func(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.StudyBlock, error)
	SetCompletionFn        func(ctx context.Context, id uuid.UUID, completed bool, completedAt *time.Time) error

	// Calls tracks mutating invocations
	Calls struct {
		mu            sync.Mutex
		InsertBlocks  int
		DeletePending int
		SetCompletion []uuid.UUID
	}
}

// NewMockBlockStore creates a MockBlockStore backed by db.
func NewMockBlockStore(db *MemoryDB) *MockBlockStore {
	return &MockBlockStore{db: db}
}

var _ store.BlockStore = (*MockBlockStore)(nil)

// InsertBlocks implements store.BlockStore.
func (m *MockBlockStore) InsertBlocks(ctx context.Context, blocks []*domain.StudyBlock) error {
	m.Calls.mu.Lock()
	m.Calls.InsertBlocks++
	m.Calls.mu.Unlock()

	if m.InsertBlocksFn != nil {
		return m.InsertBlocksFn(ctx, blocks)
	}

	for _, b := range blocks {
		if err := b.Validate(); err != nil {
			return err
		}
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, b := range blocks {
		if _, exists := m.db.blocks[b.ID]; exists {
			return store.ErrDuplicate
		}
	}
	for _, b := range blocks {
		m.db.blocks[b.ID] = copyBlock(b)
	}
	return nil
}

// DeletePendingForUser implements store.BlockStore.
func (m *MockBlockStore) DeletePendingForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.Calls.mu.Lock()
	m.Calls.DeletePending++
	m.Calls.mu.Unlock()

	if m.DeletePendingForUserFn != nil {
		return m.DeletePendingForUserFn(ctx, userID)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var deleted int64
	for id, b := range m.db.blocks {
		if b.UserID == userID && !b.Completed {
			delete(m.db.blocks, id)
			deleted++
		}
	}
	return deleted, nil
}

// GetByID implements store.BlockStore.
func (m *MockBlockStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyBlock, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	b, ok := m.db.blocks[id]
	if !ok {
		return nil, store.ErrBlockNotFound
	}
	return copyBlock(b), nil
}

// GetForSubject implements store.BlockStore.
func (m *MockBlockStore) GetForSubject(ctx context.Context, subjectID uuid.UUID) ([]*domain.StudyBlock, error) {
	if m.GetForSubjectFn != nil {
		return m.GetForSubjectFn(ctx, subjectID)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	blocks := make([]*domain.StudyBlock, 0)
	for _, b := range m.db.blocks {
		if b.SubjectID == subjectID {
			blocks = append(blocks, copyBlock(b))
		}
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].BlockNumber < blocks[j].BlockNumber
	})
	return blocks, nil
}

// ListForUser implements store.BlockStore.
func (m *MockBlockStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.StudyBlock, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID, from, to)
	}

	m.db.mu.Lock()
	all := m.db.blocksForUserLocked(userID)
	m.db.mu.Unlock()

	blocks := make([]*domain.StudyBlock, 0, len(all))
	for _, b := range all {
		if !from.IsZero() && b.ScheduledDate.Before(from) {
			continue
		}
		if !to.IsZero() && !b.ScheduledDate.Before(to) {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// SetCompletion implements store.BlockStore.
func (m *MockBlockStore) SetCompletion(
	ctx context.Context,
	id uuid.UUID,
	completed bool,
	completedAt *time.Time,
) error {
	m.Calls.mu.Lock()
	m.Calls.SetCompletion = append(m.Calls.SetCompletion, id)
	m.Calls.mu.Unlock()

	if m.SetCompletionFn != nil {
		return m.SetCompletionFn(ctx, id, completed, completedAt)
	}

	if completed != (completedAt != nil) {
		return store.ErrInvalidEntity
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	b, ok := m.db.blocks[id]
	if !ok {
		return store.ErrBlockNotFound
	}
	b.Completed = completed
	b.CompletedAt = nil
	if completedAt != nil {
		t := *completedAt
		b.CompletedAt = &t
	}
	return nil
}

// SetCompletionCount returns the number of SetCompletion calls.
func (m *MockBlockStore) SetCompletionCount() int {
	m.Calls.mu.Lock()
	defer m.Calls.mu.Unlock()
	return len(m.Calls.SetCompletion)
}

// WithTx returns the same mock; the MemoryDB has no transactions of its own.
func (m *MockBlockStore) WithTx(tx *sql.Tx) store.BlockStore {
	return m
}
