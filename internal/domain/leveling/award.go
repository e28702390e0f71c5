package leveling

import (
	"math"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
)

// XPPerHour is the amount of XP issued for every hour of scheduled study.
const XPPerHour = 100

// BlockXP returns the XP awarded for one scheduled block.
//
// A full schedule is worth (totalScheduleMinutes/60)*XPPerHour. That pool is
// split equally between the subjects in the schedule, and each subject's share
// is split between its blocks by duration. Any non-positive denominator yields 0.
func BlockXP(durationMinutes, subjectTotalMinutes, subjectCount, totalScheduleMinutes int) int {
	if durationMinutes <= 0 || subjectTotalMinutes <= 0 || subjectCount <= 0 || totalScheduleMinutes <= 0 {
		return 0
	}

	pool := float64(totalScheduleMinutes) / 60 * XPPerHour
	perSubject := pool / float64(subjectCount)

	return int(math.Round(float64(durationMinutes) * perSubject / float64(subjectTotalMinutes)))
}

// CustomBlockXP returns the flat-rate XP for an ad hoc block.
func CustomBlockXP(durationMinutes int) int {
	if durationMinutes <= 0 {
		return 0
	}
	return int(math.Round(float64(durationMinutes) / 60 * XPPerHour))
}

// Totals is the schedule context BlockXP needs for one subject.
type Totals struct {
	SubjectMinutes  int
	SubjectCount    int
	ScheduleMinutes int
}

// ScheduleTotals derives the XP context for subjectID from the blocks of one
// generated schedule. Blocks from other schedules and custom blocks are
// ignored.
func ScheduleTotals(blocks []*domain.StudyBlock, scheduleID, subjectID uuid.UUID) Totals {
	var totals Totals
	subjects := make(map[uuid.UUID]struct{})

	for _, b := range blocks {
		if b == nil || b.IsCustom || b.ScheduleID != scheduleID {
			continue
		}
		totals.ScheduleMinutes += b.DurationMinutes
		subjects[b.SubjectID] = struct{}{}
		if b.SubjectID == subjectID {
			totals.SubjectMinutes += b.DurationMinutes
		}
	}
	totals.SubjectCount = len(subjects)

	return totals
}

// XPForBlock computes the award for block. blocks may hold the user's whole
// history; only the schedule block belongs to is counted.
func XPForBlock(block *domain.StudyBlock, blocks []*domain.StudyBlock) int {
	if block == nil {
		return 0
	}
	if block.IsCustom {
		return CustomBlockXP(block.DurationMinutes)
	}

	t := ScheduleTotals(blocks, block.ScheduleID, block.SubjectID)
	return BlockXP(block.DurationMinutes, t.SubjectMinutes, t.SubjectCount, t.ScheduleMinutes)
}
