package planner

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/domain/schedule"
	"github.com/phrazzld/scry-planner/internal/events"
	"github.com/phrazzld/scry-planner/internal/mocks"
	"github.com/phrazzld/scry-planner/internal/platform/logger"
	"github.com/phrazzld/scry-planner/internal/service"
	"github.com/phrazzld/scry-planner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 5, 11, 9, 15, 0, 0, time.UTC)

type fixture struct {
	db      *mocks.MemoryDB
	tx      *mocks.MockTransactor
	locker  *mocks.MockLocker
	emitter *mocks.MockEventEmitter
	svc     Service
	user    *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{db: mocks.NewMemoryDB()}
	user, err := domain.NewUser(3, 45)
	require.NoError(t, err)
	f.user = user
	f.db.PutUser(user)

	f.tx = mocks.NewMockTransactor(f.db)
	f.locker = &mocks.MockLocker{}
	f.emitter = &mocks.MockEventEmitter{}

	allocator := schedule.NewAllocator(
		schedule.WithRand(rand.New(rand.NewSource(7))),
		schedule.WithClock(func() time.Time { return today }),
	)
	log, _ := logger.GetTestLogger(t)
	f.svc = NewService(f.db.StoreSet(), f.tx, allocator, f.locker, f.emitter, log)
	return f
}

func (f *fixture) addSubject(t *testing.T, name string, confidence int) *domain.Subject {
	t.Helper()
	s, err := domain.NewSubject(f.user.ID, name, "", confidence, 45)
	require.NoError(t, err)
	f.db.PutSubject(s)
	return s
}

func mustPrefs(t *testing.T, horizon, weekday int) domain.SchedulePreferences {
	t.Helper()
	prefs, err := domain.NewSchedulePreferences(horizon, weekday, 2, 45, domain.GroupingBalanced)
	require.NoError(t, err)
	return prefs
}

func TestRegenerate_ReplacesPendingBlocks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.addSubject(t, "Algebra", 1)
	f.addSubject(t, "Biology", 10)

	first, err := f.svc.Regenerate(ctx, f.user.ID, mustPrefs(t, 7, 3))
	require.NoError(t, err)
	require.Len(t, first.Blocks, 21)
	assert.Equal(t, int64(0), first.Deleted)

	// Complete one block directly; it must survive the next regeneration.
	kept := first.Blocks[0]
	at := today
	kept.Completed = true
	kept.CompletedAt = &at
	f.db.PutBlocks(kept)

	second, err := f.svc.Regenerate(ctx, f.user.ID, mustPrefs(t, 7, 3))
	require.NoError(t, err)
	require.Len(t, second.Blocks, 21)
	assert.Equal(t, int64(20), second.Deleted)

	stored := f.db.BlocksForUser(f.user.ID)
	assert.Len(t, stored, 22)
	assert.NotNil(t, f.db.Block(kept.ID))
	assert.Equal(t, first.Blocks[0].ScheduleID, f.db.Block(kept.ID).ScheduleID)
	assert.NotEqual(t, kept.ScheduleID, second.Blocks[0].ScheduleID)

	perDay := make(map[time.Time]int)
	for _, b := range second.Blocks {
		perDay[b.ScheduledDate]++
	}
	assert.Len(t, perDay, 7)
	for day, n := range perDay {
		assert.Equal(t, 3, n, "blocks on %s", day)
	}

	replaced := f.emitter.EventsOfType(events.TypeScheduleReplaced)
	require.Len(t, replaced, 2)
	var payload events.SchedulePayload
	require.NoError(t, replaced[1].UnmarshalPayload(&payload))
	assert.Equal(t, int64(20), payload.Deleted)
	assert.Equal(t, 21, payload.Inserted)
	assert.True(t, payload.FirstDate.Before(payload.HorizonEnd))
	assert.True(t, f.locker.Balanced())
}

func TestRegenerate_NoSubjectsKeepsBlocks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	orphan := &domain.StudyBlock{
		ID:              uuid.New(),
		UserID:          f.user.ID,
		SubjectID:       uuid.New(),
		SubjectName:     "Archived",
		BlockNumber:     1,
		TotalBlocks:     1,
		DurationMinutes: 30,
		ScheduledDate:   today,
	}
	f.db.PutBlocks(orphan)

	res, err := f.svc.Regenerate(ctx, f.user.ID, mustPrefs(t, 14, 2))
	require.NoError(t, err)

	assert.Empty(t, res.Blocks)
	assert.NotNil(t, res.Blocks)
	assert.NotNil(t, f.db.Block(orphan.ID))
	blocks := f.tx.Stores.Blocks.(*mocks.MockBlockStore)
	assert.Equal(t, 0, blocks.Calls.DeletePending)
	assert.Empty(t, f.emitter.Events())
}

func TestRegenerate_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("invalid preferences", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Regenerate(ctx, f.user.ID, domain.SchedulePreferences{HorizonDays: 3})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidPreferences)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, 0, f.tx.Count())
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Regenerate(ctx, uuid.New(), mustPrefs(t, 7, 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("insert failure keeps previous schedule", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.addSubject(t, "Algebra", 4)

		_, err := f.svc.Regenerate(ctx, f.user.ID, mustPrefs(t, 7, 2))
		require.NoError(t, err)
		before := f.db.BlocksForUser(f.user.ID)

		boom := errors.New("disk full")
		blocks := f.tx.Stores.Blocks.(*mocks.MockBlockStore)
		blocks.InsertBlocksFn = func(context.Context, []*domain.StudyBlock) error { return boom }

		_, err = f.svc.Regenerate(ctx, f.user.ID, mustPrefs(t, 7, 2))
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)

		var svcErr *ServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, "regenerate", svcErr.Operation)

		after := f.db.BlocksForUser(f.user.ID)
		assert.Equal(t, len(before), len(after))
		assert.True(t, f.locker.Balanced())
	})
}

func TestAddCustomBlock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores a dated custom block", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		subject := f.addSubject(t, "Chemistry", 5)

		block, err := f.svc.AddCustomBlock(ctx, f.user.ID, subject.ID, 30, today)
		require.NoError(t, err)

		assert.True(t, block.IsCustom)
		assert.Equal(t, subject.Name, block.SubjectName)
		assert.Equal(t, time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC), block.ScheduledDate)
		assert.NotNil(t, f.db.Block(block.ID))
	})

	t.Run("rejects another user's subject", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		foreign, err := domain.NewSubject(uuid.New(), "Latin", "", 5, 45)
		require.NoError(t, err)
		f.db.PutSubject(foreign)

		_, err = f.svc.AddCustomBlock(ctx, f.user.ID, foreign.ID, 30, today)
		assert.ErrorIs(t, err, service.ErrNotOwned)
	})

	t.Run("rejects unknown subject", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.AddCustomBlock(ctx, f.user.ID, uuid.New(), 30, today)
		assert.ErrorIs(t, err, store.ErrSubjectNotFound)
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		subject := f.addSubject(t, "Chemistry", 5)

		_, err := f.svc.AddCustomBlock(ctx, f.user.ID, subject.ID, 0, today)
		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
		assert.Empty(t, f.db.BlocksForUser(f.user.ID))
	})
}

func TestListBlocks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.addSubject(t, "Algebra", 3)

	_, err := f.svc.Regenerate(ctx, f.user.ID, mustPrefs(t, 7, 2))
	require.NoError(t, err)

	start := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	blocks, err := f.svc.ListBlocks(ctx, f.user.ID, start, start.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, blocks, 4)

	all, err := f.svc.ListBlocks(ctx, f.user.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 14)
}

func TestListBlocks_StoreError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	stores := f.db.StoreSet()
	failing := stores.Blocks.(*mocks.MockBlockStore)
	failing.ListForUserFn = func(context.Context, uuid.UUID, time.Time, time.Time) ([]*domain.StudyBlock, error) {
		return nil, store.ErrInternal
	}

	svc := NewService(stores, f.tx, schedule.NewAllocator(), f.locker, nil, nil)
	_, err := svc.ListBlocks(context.Background(), f.user.ID, time.Time{}, time.Time{})
	require.Error(t, err)
	assert.True(t, store.IsInternalError(err))
}
