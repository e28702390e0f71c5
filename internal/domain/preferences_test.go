package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchedulePreferences(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		horizon  int
		weekday  int
		weekend  int
		duration int
		grouping GroupingPolicy
		wantErr  bool
	}{
		{"valid", 14, 3, 2, 45, GroupingBalanced, false},
		{"all lower bounds", 7, 1, 0, 15, GroupingMostGrouped, false},
		{"all upper bounds", 90, 8, 6, 180, GroupingLeastGrouped, false},
		{"horizon too short", 6, 3, 2, 45, GroupingBalanced, true},
		{"horizon too long", 91, 3, 2, 45, GroupingBalanced, true},
		{"no weekday blocks", 14, 0, 2, 45, GroupingBalanced, true},
		{"too many weekday blocks", 14, 9, 2, 45, GroupingBalanced, true},
		{"negative weekend blocks", 14, 3, -1, 45, GroupingBalanced, true},
		{"too many weekend blocks", 14, 3, 7, 45, GroupingBalanced, true},
		{"duration too short", 14, 3, 2, 14, GroupingBalanced, true},
		{"duration too long", 14, 3, 2, 181, GroupingBalanced, true},
		{"unknown grouping", 14, 3, 2, 45, GroupingPolicy("chaotic"), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prefs, err := NewSchedulePreferences(tc.horizon, tc.weekday, tc.weekend, tc.duration, tc.grouping)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPreferences))
				assert.True(t, errors.Is(err, ErrValidation))
				assert.Equal(t, SchedulePreferences{}, prefs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.horizon, prefs.HorizonDays)
			assert.Equal(t, tc.weekday, prefs.BlocksPerDay())
		})
	}
}

func TestParseGroupingPolicy(t *testing.T) {
	t.Parallel()

	policy, err := ParseGroupingPolicy("")
	require.NoError(t, err)
	assert.Equal(t, GroupingBalanced, policy)

	policy, err = ParseGroupingPolicy(" Most_Grouped ")
	require.NoError(t, err)
	assert.Equal(t, GroupingMostGrouped, policy)

	policy, err = ParseGroupingPolicy("least_grouped")
	require.NoError(t, err)
	assert.Equal(t, GroupingLeastGrouped, policy)

	_, err = ParseGroupingPolicy("random")
	assert.ErrorIs(t, err, ErrInvalidGrouping)
}
