package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
)

// BlockStore defines the interface for study block persistence.
type BlockStore interface {
	// InsertBlocks saves a batch of blocks.
	// IMPORTANT: run inside a transaction (WithTx) so a failed batch leaves
	// no partial schedule behind.
	InsertBlocks(ctx context.Context, blocks []*domain.StudyBlock) error

	// DeletePendingForUser removes every uncompleted block of the user and
	// returns how many rows were deleted. Completed blocks are kept.
	DeletePendingForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// GetByID retrieves a block by its unique ID.
	// Returns ErrBlockNotFound if the block does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyBlock, error)

	// GetForSubject returns all blocks of a subject ordered by block number.
	GetForSubject(ctx context.Context, subjectID uuid.UUID) ([]*domain.StudyBlock, error)

	// ListForUser returns the user's blocks scheduled in [from, to), ordered
	// by date. A zero from or to leaves that side of the range open.
	ListForUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.StudyBlock, error)

	// SetCompletion sets the completion flag and timestamp of a block.
	// completedAt must be nil when completed is false.
	// Returns ErrBlockNotFound if the block does not exist.
	SetCompletion(ctx context.Context, id uuid.UUID, completed bool, completedAt *time.Time) error

	// WithTx returns a new BlockStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) BlockStore
}
