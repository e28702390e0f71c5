// Package ledger credits and debits XP when study blocks change completion
// state. Every operation runs under the owning user's lock so the global XP
// aggregate is never computed from a stale set of subjects.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Result describes the outcome of a completion transition.
type Result struct {
	BlockID uuid.UUID `json:"block_id"`

	// XPDelta is the XP actually applied to the subject: positive when a
	// block is completed, negative when a completion is undone, 0 for no-ops
	// and degraded transitions.
	XPDelta int `json:"xp_delta"`

	SubjectXP    int  `json:"subject_xp"`
	SubjectLevel int  `json:"subject_level"`
	GlobalXP     int  `json:"global_xp"`
	GlobalLevel  int  `json:"global_level"`
	LeveledUp    bool `json:"leveled_up"`

	// Degraded is set when the block, its subject or its user could not be
	// loaded and only the completion flag was touched.
	Degraded bool `json:"degraded"`
}

// Service records block completions and keeps subject and global XP in step.
type Service interface {
	// MarkComplete transitions a pending block to completed and credits its XP
	// to the subject and the user's global total. Completing an already
	// completed block is a no-op returning a zero delta.
	//
	// A block, subject or user that cannot be loaded is not an error: the
	// completion flag is updated where possible and a Degraded result is
	// returned. Store failures are returned as *ServiceError.
	MarkComplete(ctx context.Context, blockID uuid.UUID) (*Result, error)

	// MarkIncomplete reverses MarkComplete: it subtracts the block's XP
	// (recomputed from the current schedule) and clears the completion flag.
	// Calling it on a pending block is a no-op returning a zero delta.
	MarkIncomplete(ctx context.Context, blockID uuid.UUID) (*Result, error)
}

// ServiceError wraps errors from the ledger with the failing operation.
type ServiceError struct {
	// Operation is the operation that failed ("mark_complete", "mark_incomplete")
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

func newServiceError(op transition, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: op.operation(),
		Message:   message,
		Err:       err,
	}
}
