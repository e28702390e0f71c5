package domain

import (
	"time"

	"github.com/google/uuid"
)

// StudyBlock is one scheduled study session for a subject on a given date.
// Subject name and icon are copied at generation time so a schedule renders
// without joining back to subjects. Blocks produced by one generation share a
// ScheduleID; custom blocks have none.
type StudyBlock struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	ScheduleID      uuid.UUID  `json:"schedule_id"`
	SubjectID       uuid.UUID  `json:"subject_id"`
	SubjectName     string     `json:"subject_name"`
	SubjectIcon     string     `json:"subject_icon,omitempty"`
	BlockNumber     int        `json:"block_number"`
	TotalBlocks     int        `json:"total_blocks"`
	DurationMinutes int        `json:"duration_minutes"`
	ScheduledDate   time.Time  `json:"scheduled_date"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	IsCustom        bool       `json:"is_custom"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewCustomBlock creates an ad hoc block for a subject outside the generated
// schedule. Custom blocks earn flat-rate XP and survive schedule regeneration
// only once completed, like any other block.
func NewCustomBlock(subject *Subject, durationMinutes int, date time.Time) (*StudyBlock, error) {
	if subject == nil {
		return nil, ErrEmptySubjectID
	}

	block := &StudyBlock{
		ID:              uuid.New(),
		UserID:          subject.UserID,
		SubjectID:       subject.ID,
		SubjectName:     subject.Name,
		SubjectIcon:     subject.Icon,
		BlockNumber:     1,
		TotalBlocks:     1,
		DurationMinutes: durationMinutes,
		ScheduledDate:   date,
		IsCustom:        true,
		CreatedAt:       time.Now().UTC(),
	}

	if err := block.Validate(); err != nil {
		return nil, err
	}

	return block, nil
}

// Validate checks if the StudyBlock has valid data.
func (b *StudyBlock) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyID
	}

	if b.UserID == uuid.Nil {
		return ErrEmptyUserID
	}

	if b.SubjectID == uuid.Nil {
		return ErrEmptySubjectID
	}

	if b.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}

	if b.BlockNumber <= 0 {
		return ErrInvalidBlockNumber
	}

	return nil
}

// IsPending reports whether the block has not been completed yet.
func (b *StudyBlock) IsPending() bool {
	return !b.Completed
}
