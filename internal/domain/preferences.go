package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Schedule preference bounds.
const (
	MinHorizonDays      = 7
	MaxHorizonDays      = 90
	MinBlocksPerWeekday = 1
	MaxBlocksPerWeekday = 8
	MinBlocksPerWeekend = 0
	MaxBlocksPerWeekend = 6
	MinBlockMinutes     = 15
	MaxBlockMinutes     = 180
)

// GroupingPolicy controls how blocks of the same subject are spread across the
// horizon. The allocator implements the balanced behaviour by shuffling.
type GroupingPolicy string

// Supported grouping policies.
const (
	GroupingMostGrouped  GroupingPolicy = "most_grouped"
	GroupingBalanced     GroupingPolicy = "balanced"
	GroupingLeastGrouped GroupingPolicy = "least_grouped"
)

// ParseGroupingPolicy converts a string into a GroupingPolicy.
// An empty string selects the balanced policy.
func ParseGroupingPolicy(s string) (GroupingPolicy, error) {
	switch GroupingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", GroupingBalanced:
		return GroupingBalanced, nil
	case GroupingMostGrouped:
		return GroupingMostGrouped, nil
	case GroupingLeastGrouped:
		return GroupingLeastGrouped, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGrouping, s)
	}
}

// SchedulePreferences are the user's inputs to schedule generation.
type SchedulePreferences struct {
	HorizonDays          int            `json:"horizon_days" validate:"min=7,max=90"`
	BlocksPerWeekday     int            `json:"blocks_per_weekday" validate:"min=1,max=8"`
	BlocksPerWeekend     int            `json:"blocks_per_weekend" validate:"min=0,max=6"`
	BlockDurationMinutes int            `json:"block_duration_minutes" validate:"min=15,max=180"`
	Grouping             GroupingPolicy `json:"subject_grouping" validate:"oneof=most_grouped balanced least_grouped"`
}

var preferencesValidator = validator.New()

// NewSchedulePreferences creates validated SchedulePreferences.
// Out-of-range values are rejected, never clamped.
func NewSchedulePreferences(
	horizonDays, blocksPerWeekday, blocksPerWeekend, blockDurationMinutes int,
	grouping GroupingPolicy,
) (SchedulePreferences, error) {
	prefs := SchedulePreferences{
		HorizonDays:          horizonDays,
		BlocksPerWeekday:     blocksPerWeekday,
		BlocksPerWeekend:     blocksPerWeekend,
		BlockDurationMinutes: blockDurationMinutes,
		Grouping:             grouping,
	}

	if err := prefs.Validate(); err != nil {
		return SchedulePreferences{}, err
	}

	return prefs, nil
}

// Validate checks every preference against its declared bounds.
func (p SchedulePreferences) Validate() error {
	if err := preferencesValidator.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed on %s", ErrInvalidPreferences, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	return nil
}

// BlocksPerDay returns the uniform daily capacity used for generation.
func (p SchedulePreferences) BlocksPerDay() int {
	return p.BlocksPerWeekday
}
