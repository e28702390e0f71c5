// Package profile manages users and their subjects, and reports XP progress
// on the leveling curves.
package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
)

// LevelProgress is a position on a leveling curve.
type LevelProgress struct {
	XP              int     `json:"xp"`
	Level           int     `json:"level"`
	NextLevelXP     int     `json:"next_level_xp"`
	ProgressToLevel float64 `json:"progress"`
}

// SubjectProgress is a subject together with its curve position.
type SubjectProgress struct {
	*domain.Subject
	Progress LevelProgress `json:"progress"`
}

// Profile is a user's aggregate economy and per-subject progress.
type Profile struct {
	User     *domain.User      `json:"user"`
	Global   LevelProgress     `json:"global"`
	Subjects []SubjectProgress `json:"subjects"`
}

// Service manages users and subjects.
type Service interface {
	// CreateUser registers a user with default daily capacity and block length.
	CreateUser(ctx context.Context, blocksPerDay, defaultBlockMinutes int) (*domain.User, error)

	// GetProfile returns the user with global and per-subject progress.
	// Returns store.ErrUserNotFound for an unknown user.
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// CreateSubject adds a subject to the user's catalogue.
	CreateSubject(
		ctx context.Context,
		userID uuid.UUID,
		name, icon string,
		confidence, preferredMinutes int,
	) (*domain.Subject, error)

	// DeleteSubject removes a subject and its blocks, then re-derives the
	// user's global XP from the remaining subjects.
	// Returns ErrNotOwned if the subject belongs to another user.
	DeleteSubject(ctx context.Context, userID, subjectID uuid.UUID) error
}

// ServiceError wraps errors from the profile service with the failing operation.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_subject")
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
