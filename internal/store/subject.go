package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
)

// SubjectStore defines the interface for subject data persistence.
type SubjectStore interface {
	// Create saves a new subject.
	// Returns validation errors from the domain Subject if data is invalid.
	Create(ctx context.Context, subject *domain.Subject) error

	// AllForUser returns every subject owned by the user, oldest first.
	// A user without subjects yields an empty slice, not an error.
	AllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Subject, error)

	// GetByID retrieves a subject by its unique ID.
	// Returns ErrSubjectNotFound if the subject does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Subject, error)

	// UpdateXP overwrites the subject's XP and level.
	// Returns ErrSubjectNotFound if the subject does not exist.
	UpdateXP(ctx context.Context, id uuid.UUID, xp, level int, at time.Time) error

	// Delete removes a subject. Its study blocks are removed by the
	// database through ON DELETE CASCADE.
	// Returns ErrSubjectNotFound if the subject does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new SubjectStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SubjectStore
}
