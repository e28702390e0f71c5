// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Every entity-specific validation error below wraps it.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPreferences is returned when schedule preferences are out of bounds.
	ErrInvalidPreferences = fmt.Errorf("%w: invalid schedule preferences", ErrValidation)

	// ErrInvalidGrouping is returned when a subject grouping policy is unknown.
	ErrInvalidGrouping = fmt.Errorf("%w: invalid subject grouping", ErrValidation)

	// ErrInvalidConfidence is returned when a confidence rating is outside [1,10].
	ErrInvalidConfidence = fmt.Errorf("%w: confidence must be between 1 and 10", ErrValidation)

	// ErrBlankName is returned when a subject name is empty or whitespace.
	ErrBlankName = fmt.Errorf("%w: name cannot be blank", ErrValidation)

	// ErrNegativeXP is returned when an XP total is below zero.
	ErrNegativeXP = fmt.Errorf("%w: xp cannot be negative", ErrValidation)

	// ErrInvalidLevel is returned when a level is below 1.
	ErrInvalidLevel = fmt.Errorf("%w: level must be at least 1", ErrValidation)

	// ErrInvalidDuration is returned when a block duration is not positive.
	ErrInvalidDuration = fmt.Errorf("%w: duration must be positive", ErrValidation)

	// ErrInvalidBlockNumber is returned when a block sequence number is not positive.
	ErrInvalidBlockNumber = fmt.Errorf("%w: block number must be positive", ErrValidation)

	// ErrEmptyID is returned when a required identifier is the nil UUID.
	ErrEmptyID = fmt.Errorf("%w: id cannot be empty", ErrValidation)

	// ErrEmptyUserID is returned when an entity is missing its owning user.
	ErrEmptyUserID = fmt.Errorf("%w: user id cannot be empty", ErrValidation)

	// ErrEmptySubjectID is returned when a block is missing its subject reference.
	ErrEmptySubjectID = fmt.Errorf("%w: subject id cannot be empty", ErrValidation)
)
