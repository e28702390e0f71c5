package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Confidence bounds for a subject's self-reported mastery.
const (
	MinConfidence = 1
	MaxConfidence = 10
)

// Subject is a topic a user studies. Its XP and Level are only ever changed by
// the completion ledger; the level always reflects the XP on the subject curve.
type Subject struct {
	ID                    uuid.UUID `json:"id"`
	UserID                uuid.UUID `json:"user_id"`
	Name                  string    `json:"name"`
	Icon                  string    `json:"icon,omitempty"`
	Confidence            int       `json:"confidence"`
	XP                    int       `json:"xp"`
	Level                 int       `json:"level"`
	PreferredBlockMinutes int       `json:"preferred_block_minutes"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewSubject creates a new Subject at level 1 with no XP.
// Returns an error if validation fails.
func NewSubject(userID uuid.UUID, name, icon string, confidence, preferredMinutes int) (*Subject, error) {
	now := time.Now().UTC()
	subject := &Subject{
		ID:                    uuid.New(),
		UserID:                userID,
		Name:                  strings.TrimSpace(name),
		Icon:                  icon,
		Confidence:            confidence,
		XP:                    0,
		Level:                 1,
		PreferredBlockMinutes: preferredMinutes,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := subject.Validate(); err != nil {
		return nil, err
	}

	return subject, nil
}

// Validate checks if the Subject has valid data.
func (s *Subject) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptyID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptyUserID
	}

	if strings.TrimSpace(s.Name) == "" {
		return ErrBlankName
	}

	if s.Confidence < MinConfidence || s.Confidence > MaxConfidence {
		return ErrInvalidConfidence
	}

	if s.XP < 0 {
		return ErrNegativeXP
	}

	if s.Level < 1 {
		return ErrInvalidLevel
	}

	if s.PreferredBlockMinutes < 0 {
		return ErrInvalidDuration
	}

	return nil
}
