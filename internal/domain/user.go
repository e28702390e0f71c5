package domain

import (
	"time"

	"github.com/google/uuid"
)

// User holds a learner's aggregate economy. GlobalXP is always the sum of the
// XP of all of the user's subjects, and GlobalLevel is derived from it on the
// global curve.
type User struct {
	ID                    uuid.UUID `json:"id"`
	GlobalXP              int       `json:"global_xp"`
	GlobalLevel           int       `json:"global_level"`
	PreferredBlocksPerDay int       `json:"preferred_blocks_per_day"`
	DefaultBlockMinutes   int       `json:"default_block_minutes"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewUser creates a new User at global level 1 with no XP.
// Returns an error if validation fails.
func NewUser(blocksPerDay, defaultBlockMinutes int) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:                    uuid.New(),
		GlobalXP:              0,
		GlobalLevel:           1,
		PreferredBlocksPerDay: blocksPerDay,
		DefaultBlockMinutes:   defaultBlockMinutes,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.GlobalXP < 0 {
		return ErrNegativeXP
	}

	if u.GlobalLevel < 1 {
		return ErrInvalidLevel
	}

	if u.PreferredBlocksPerDay < MinBlocksPerWeekday || u.PreferredBlocksPerDay > MaxBlocksPerWeekday {
		return ErrInvalidPreferences
	}

	if u.DefaultBlockMinutes < MinBlockMinutes || u.DefaultBlockMinutes > MaxBlockMinutes {
		return ErrInvalidPreferences
	}

	return nil
}
