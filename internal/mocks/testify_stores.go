package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockUserStore is a mock of store.UserStore interface for use with testify/mock
type TestifyMockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*TestifyMockUserStore)(nil)

// Create is a mock implementation of store.UserStore.Create
func (m *TestifyMockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *TestifyMockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateGlobalXP is a mock implementation of store.UserStore.UpdateGlobalXP
func (m *TestifyMockUserStore) UpdateGlobalXP(
	ctx context.Context,
	id uuid.UUID,
	xp, level int,
	at time.Time,
) error {
	args := m.Called(ctx, id, xp, level, at)
	return args.Error(0)
}

// WithTx is a mock implementation of store.UserStore.WithTx
func (m *TestifyMockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// TestifyMockSubjectStore is a mock of store.SubjectStore interface for use with testify/mock
type TestifyMockSubjectStore struct {
	mock.Mock
}

var _ store.SubjectStore = (*TestifyMockSubjectStore)(nil)

// Create is a mock implementation of store.SubjectStore.Create
func (m *TestifyMockSubjectStore) Create(ctx context.Context, subject *domain.Subject) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}

// AllForUser is a mock implementation of store.SubjectStore.AllForUser
func (m *TestifyMockSubjectStore) AllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Subject, error) {
	args := m.Called(ctx, userID)
	if subjects, ok := args.Get(0).([]*domain.Subject); ok {
		return subjects, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByID is a mock implementation of store.SubjectStore.GetByID
func (m *TestifyMockSubjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subject, error) {
	args := m.Called(ctx, id)
	if subject, ok := args.Get(0).(*domain.Subject); ok {
		return subject, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateXP is a mock implementation of store.SubjectStore.UpdateXP
func (m *TestifyMockSubjectStore) UpdateXP(ctx context.Context, id uuid.UUID, xp, level int, at time.Time) error {
	args := m.Called(ctx, id, xp, level, at)
	return args.Error(0)
}

// Delete is a mock implementation of store.SubjectStore.Delete
func (m *TestifyMockSubjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WithTx is a mock implementation of store.SubjectStore.WithTx
func (m *TestifyMockSubjectStore) WithTx(tx *sql.Tx) store.SubjectStore {
	return m
}
