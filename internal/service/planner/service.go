// Package planner orchestrates schedule generation and the ad hoc block
// operations around it. Regeneration holds the user's lock so it never races
// a completion recorded by the ledger.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
)

// Schedule is the outcome of a regeneration.
type Schedule struct {
	UserID uuid.UUID            `json:"user_id"`
	Blocks []*domain.StudyBlock `json:"blocks"`

	// Deleted is the number of pending blocks the new schedule replaced.
	Deleted int64 `json:"deleted"`
}

// Service manages a user's study schedule.
type Service interface {
	// Regenerate replaces the user's pending blocks with a freshly allocated
	// schedule. Completed blocks are kept. A user without subjects gets an
	// empty schedule and their stored blocks are left untouched.
	//
	// Returns an error wrapping domain.ErrInvalidPreferences for invalid
	// preferences and store.ErrUserNotFound for an unknown user.
	Regenerate(ctx context.Context, userID uuid.UUID, prefs domain.SchedulePreferences) (*Schedule, error)

	// AddCustomBlock schedules an ad hoc block for one of the user's subjects
	// on the given date.
	//
	// Returns service.ErrNotOwned if the subject belongs to another user and an error
	// wrapping domain.ErrValidation for a non-positive duration.
	AddCustomBlock(
		ctx context.Context,
		userID, subjectID uuid.UUID,
		durationMinutes int,
		date time.Time,
	) (*domain.StudyBlock, error)

	// ListBlocks returns the user's blocks scheduled in [from, to). A zero
	// bound leaves that side open.
	ListBlocks(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.StudyBlock, error)
}

// ServiceError wraps errors from the planner with the failing operation.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "regenerate", "add_custom_block")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewRegenerateError returns a new ServiceError for the regenerate operation.
func NewRegenerateError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "regenerate", Message: message, Err: err}
}

// NewAddCustomBlockError returns a new ServiceError for the add_custom_block operation.
func NewAddCustomBlockError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "add_custom_block", Message: message, Err: err}
}

// NewListBlocksError returns a new ServiceError for the list_blocks operation.
func NewListBlocksError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "list_blocks", Message: message, Err: err}
}
