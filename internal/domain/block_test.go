package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomBlock(t *testing.T) {
	t.Parallel()

	subject, err := NewSubject(uuid.New(), "History", "scroll", 6, 30)
	require.NoError(t, err)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	block, err := NewCustomBlock(subject, 30, date)
	require.NoError(t, err)

	assert.True(t, block.IsCustom)
	assert.True(t, block.IsPending())
	assert.Equal(t, subject.ID, block.SubjectID)
	assert.Equal(t, subject.UserID, block.UserID)
	assert.Equal(t, subject.Name, block.SubjectName)
	assert.Equal(t, "scroll", block.SubjectIcon)
	assert.Equal(t, 1, block.BlockNumber)
	assert.Equal(t, date, block.ScheduledDate)
	assert.Nil(t, block.CompletedAt)
}

func TestNewCustomBlock_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewCustomBlock(nil, 30, time.Now())
	assert.ErrorIs(t, err, ErrEmptySubjectID)

	subject, err := NewSubject(uuid.New(), "History", "", 6, 30)
	require.NoError(t, err)

	_, err = NewCustomBlock(subject, 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidDuration)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStudyBlockValidate(t *testing.T) {
	t.Parallel()

	block := StudyBlock{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		SubjectID:       uuid.New(),
		BlockNumber:     2,
		DurationMinutes: 45,
	}
	assert.NoError(t, block.Validate())

	noNumber := block
	noNumber.BlockNumber = 0
	assert.ErrorIs(t, noNumber.Validate(), ErrInvalidBlockNumber)

	noSubject := block
	noSubject.SubjectID = uuid.Nil
	assert.ErrorIs(t, noSubject.Validate(), ErrEmptySubjectID)

	noUser := block
	noUser.UserID = uuid.Nil
	assert.ErrorIs(t, noUser.Validate(), ErrEmptyUserID)
}
