package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
)

// UserStore defines the interface for persisting a user's aggregate economy.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// UpdateGlobalXP overwrites the user's global XP and level.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateGlobalXP(ctx context.Context, id uuid.UUID, xp, level int, at time.Time) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
