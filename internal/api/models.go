package api

import (
	"time"

	"github.com/phrazzld/scry-planner/internal/api/shared"
	"github.com/phrazzld/scry-planner/internal/domain"
)

// RegenerateScheduleRequest represents the request body for regenerating a
// user's schedule. Omitted fields fall back to the configured defaults.
type RegenerateScheduleRequest struct {
	HorizonDays          *int   `json:"horizon_days"           validate:"omitempty,min=7,max=90"`
	BlocksPerWeekday     *int   `json:"blocks_per_weekday"     validate:"omitempty,min=1,max=8"`
	BlocksPerWeekend     *int   `json:"blocks_per_weekend"     validate:"omitempty,min=0,max=6"`
	BlockDurationMinutes *int   `json:"block_duration_minutes" validate:"omitempty,min=15,max=180"`
	SubjectGrouping      string `json:"subject_grouping"       validate:"omitempty,oneof=most_grouped balanced least_grouped"`
}

// preferences overlays the request on defaults and validates the result.
func (req RegenerateScheduleRequest) preferences(defaults domain.SchedulePreferences) (domain.SchedulePreferences, error) {
	prefs := defaults
	if req.HorizonDays != nil {
		prefs.HorizonDays = *req.HorizonDays
	}
	if req.BlocksPerWeekday != nil {
		prefs.BlocksPerWeekday = *req.BlocksPerWeekday
	}
	if req.BlocksPerWeekend != nil {
		prefs.BlocksPerWeekend = *req.BlocksPerWeekend
	}
	if req.BlockDurationMinutes != nil {
		prefs.BlockDurationMinutes = *req.BlockDurationMinutes
	}
	if req.SubjectGrouping != "" {
		grouping, err := domain.ParseGroupingPolicy(req.SubjectGrouping)
		if err != nil {
			return domain.SchedulePreferences{}, err
		}
		prefs.Grouping = grouping
	}

	return domain.NewSchedulePreferences(
		prefs.HorizonDays,
		prefs.BlocksPerWeekday,
		prefs.BlocksPerWeekend,
		prefs.BlockDurationMinutes,
		prefs.Grouping,
	)
}

// CustomBlockRequest represents the request body for adding a custom block.
// An empty date schedules the block for today.
type CustomBlockRequest struct {
	SubjectID       string `json:"subject_id"       validate:"required,uuid"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1,max=480"`
	Date            string `json:"date"`
}

// CreateUserRequest represents the request body for registering a user.
type CreateUserRequest struct {
	BlocksPerDay        int `json:"blocks_per_day"        validate:"required,min=1,max=8"`
	DefaultBlockMinutes int `json:"default_block_minutes" validate:"required,min=15,max=180"`
}

// CreateSubjectRequest represents the request body for adding a subject.
type CreateSubjectRequest struct {
	Name                  string `json:"name"                    validate:"required,max=100"`
	Icon                  string `json:"icon"                    validate:"max=32"`
	Confidence            int    `json:"confidence"              validate:"required,min=1,max=10"`
	PreferredBlockMinutes int    `json:"preferred_block_minutes" validate:"min=0,max=180"`
}

// BlockResponse represents the response data for a study block
type BlockResponse struct {
	ID              string     `json:"id"`
	SubjectID       string     `json:"subject_id"`
	SubjectName     string     `json:"subject_name"`
	SubjectIcon     string     `json:"subject_icon,omitempty"`
	BlockNumber     int        `json:"block_number"`
	TotalBlocks     int        `json:"total_blocks"`
	DurationMinutes int        `json:"duration_minutes"`
	Date            string     `json:"date"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	IsCustom        bool       `json:"is_custom"`
}

// ScheduleResponse represents the response data for a regenerated schedule
type ScheduleResponse struct {
	UserID  string          `json:"user_id"`
	Deleted int64           `json:"deleted"`
	Blocks  []BlockResponse `json:"blocks"`
}

func blockToResponse(b *domain.StudyBlock) BlockResponse {
	return BlockResponse{
		ID:              b.ID.String(),
		SubjectID:       b.SubjectID.String(),
		SubjectName:     b.SubjectName,
		SubjectIcon:     b.SubjectIcon,
		BlockNumber:     b.BlockNumber,
		TotalBlocks:     b.TotalBlocks,
		DurationMinutes: b.DurationMinutes,
		Date:            b.ScheduledDate.Format(shared.DateLayout),
		Completed:       b.Completed,
		CompletedAt:     b.CompletedAt,
		IsCustom:        b.IsCustom,
	}
}

func blocksToResponse(blocks []*domain.StudyBlock) []BlockResponse {
	out := make([]BlockResponse, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, blockToResponse(b))
	}
	return out
}
