package leveling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBlockXP(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		duration        int
		subjectMinutes  int
		subjectCount    int
		scheduleMinutes int
		expected        int
	}{
		{"single block single subject", 60, 60, 1, 60, 100},
		{"two equal subjects", 60, 120, 2, 240, 100},
		{"short block in long subject", 30, 300, 2, 600, 50},
		{"rounding", 45, 90, 3, 200, 56},
		{"zero subject minutes", 60, 0, 1, 60, 0},
		{"zero subject count", 60, 60, 0, 60, 0},
		{"zero schedule minutes", 60, 60, 1, 0, 0},
		{"negative duration", -30, 60, 1, 60, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := BlockXP(tc.duration, tc.subjectMinutes, tc.subjectCount, tc.scheduleMinutes)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCustomBlockXP(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 50, CustomBlockXP(30))
	assert.Equal(t, 100, CustomBlockXP(60))
	assert.Equal(t, 75, CustomBlockXP(45))
	assert.Equal(t, 0, CustomBlockXP(0))
}

func TestScheduleTotalsAndXPForBlock(t *testing.T) {
	t.Parallel()

	algebra := uuid.New()
	art := uuid.New()
	current := uuid.New()
	blocks := []*domain.StudyBlock{
		{ScheduleID: current, SubjectID: algebra, DurationMinutes: 60},
		{ScheduleID: current, SubjectID: algebra, DurationMinutes: 60},
		{ScheduleID: current, SubjectID: art, DurationMinutes: 60},
		{SubjectID: art, DurationMinutes: 30, IsCustom: true},
		nil,
	}

	totals := ScheduleTotals(blocks, current, algebra)
	assert.Equal(t, Totals{SubjectMinutes: 120, SubjectCount: 2, ScheduleMinutes: 180}, totals)

	// 180 minutes -> 300 XP pool, 150 per subject, algebra split over 120 minutes.
	assert.Equal(t, 75, XPForBlock(blocks[0], blocks))
	assert.Equal(t, 150, XPForBlock(blocks[2], blocks))
	assert.Equal(t, 50, XPForBlock(blocks[3], blocks))
	assert.Equal(t, 0, XPForBlock(nil, blocks))

	// Every subject earns the same total over the full schedule.
	assert.Equal(t, XPForBlock(blocks[0], blocks)+XPForBlock(blocks[1], blocks), XPForBlock(blocks[2], blocks))
}

func TestXPForBlock_IgnoresEarlierSchedules(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	old, current := uuid.New(), uuid.New()

	blocks := make([]*domain.StudyBlock, 0, 8)
	for i := 0; i < 6; i++ {
		blocks = append(blocks, &domain.StudyBlock{
			ScheduleID: old, SubjectID: b, DurationMinutes: 60, Completed: true,
		})
	}
	target := &domain.StudyBlock{ScheduleID: current, SubjectID: b, DurationMinutes: 60}
	blocks = append(blocks,
		&domain.StudyBlock{ScheduleID: current, SubjectID: a, DurationMinutes: 60},
		target,
	)

	assert.Equal(t, Totals{SubjectMinutes: 60, SubjectCount: 2, ScheduleMinutes: 120},
		ScheduleTotals(blocks, current, b))
	// 120 minutes -> 200 XP pool, 100 per subject, one 60 minute block each.
	assert.Equal(t, 100, XPForBlock(target, blocks))
	assert.Equal(t, 100, XPForBlock(blocks[0], blocks[:6]))
}
