package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/domain/schedule"
	"github.com/phrazzld/scry-planner/internal/events"
	"github.com/phrazzld/scry-planner/internal/platform/logger"
	"github.com/phrazzld/scry-planner/internal/service"
	"github.com/phrazzld/scry-planner/internal/service/userlock"
	"github.com/phrazzld/scry-planner/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	stores    store.Stores
	tx        store.Transactor
	allocator *schedule.Allocator
	locker    userlock.Locker
	emitter   events.EventEmitter
	loc       *time.Location
	logger    *slog.Logger
}

// Option configures the planner service.
type Option func(*serviceImpl)

// WithLocation sets the time zone used to normalize custom block dates.
// It should match the allocator's location.
func WithLocation(loc *time.Location) Option {
	return func(s *serviceImpl) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService creates a planner Service. stores serves reads outside a
// transaction; writes go through tx.
func NewService(
	stores store.Stores,
	tx store.Transactor,
	allocator *schedule.Allocator,
	locker userlock.Locker,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if stores.Subjects == nil || stores.Blocks == nil || stores.Users == nil {
		panic("stores cannot be nil")
	}
	if tx == nil {
		panic("tx cannot be nil")
	}
	if allocator == nil {
		panic("allocator cannot be nil")
	}
	if locker == nil {
		panic("locker cannot be nil")
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		stores:    stores,
		tx:        tx,
		allocator: allocator,
		locker:    locker,
		emitter:   emitter,
		loc:       time.UTC,
		logger:    logger.With(slog.String("component", "planner_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Regenerate implements Service.Regenerate.
func (s *serviceImpl) Regenerate(
	ctx context.Context,
	userID uuid.UUID,
	prefs domain.SchedulePreferences,
) (*Schedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	if err := prefs.Validate(); err != nil {
		log.Debug("rejected schedule preferences", slog.String("error", err.Error()))
		return nil, NewRegenerateError("invalid preferences", err)
	}

	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		log.Error("failed to acquire user lock", slog.String("error", err.Error()))
		return nil, NewRegenerateError("failed to acquire user lock", err)
	}
	defer unlock()

	result := &Schedule{UserID: userID, Blocks: []*domain.StudyBlock{}}
	err = s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		if _, err := st.Users.GetByID(ctx, userID); err != nil {
			return err
		}

		subjects, err := st.Subjects.AllForUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load subjects: %w", err)
		}
		if len(subjects) == 0 {
			log.Debug("user has no subjects, keeping stored blocks")
			return nil
		}

		blocks := s.allocator.Generate(
			subjects,
			userID,
			prefs.HorizonDays,
			prefs.BlocksPerDay(),
			prefs.BlockDurationMinutes,
		)

		deleted, err := st.Blocks.DeletePendingForUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to delete pending blocks: %w", err)
		}
		if err := st.Blocks.InsertBlocks(ctx, blocks); err != nil {
			return fmt.Errorf("failed to insert blocks: %w", err)
		}

		result.Blocks = blocks
		result.Deleted = deleted
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("schedule requested for unknown user")
		} else {
			log.Error("failed to regenerate schedule", slog.String("error", err.Error()))
		}
		return nil, NewRegenerateError("failed to regenerate schedule", err)
	}

	if len(result.Blocks) > 0 {
		s.emitReplaced(ctx, result, log)
	}

	log.Info("schedule regenerated",
		slog.Int("blocks", len(result.Blocks)),
		slog.Int64("deleted", result.Deleted),
		slog.Int("horizon_days", prefs.HorizonDays),
		slog.String("grouping", string(prefs.Grouping)))

	return result, nil
}

// AddCustomBlock implements Service.AddCustomBlock.
func (s *serviceImpl) AddCustomBlock(
	ctx context.Context,
	userID, subjectID uuid.UUID,
	durationMinutes int,
	date time.Time,
) (*domain.StudyBlock, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("subject_id", subjectID.String()),
	)

	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		log.Error("failed to acquire user lock", slog.String("error", err.Error()))
		return nil, NewAddCustomBlockError("failed to acquire user lock", err)
	}
	defer unlock()

	var block *domain.StudyBlock
	err = s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		subject, err := st.Subjects.GetByID(ctx, subjectID)
		if err != nil {
			return err
		}
		if subject.UserID != userID {
			log.Warn("custom block requested for another user's subject",
				slog.String("owner_id", subject.UserID.String()))
			return service.ErrNotOwned
		}

		block, err = domain.NewCustomBlock(subject, durationMinutes, s.day(date))
		if err != nil {
			return err
		}
		return st.Blocks.InsertBlocks(ctx, []*domain.StudyBlock{block})
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, service.ErrNotOwned) || store.IsNotFoundError(err) {
			log.Debug("custom block rejected", slog.String("error", err.Error()))
		} else {
			log.Error("failed to add custom block", slog.String("error", err.Error()))
		}
		return nil, NewAddCustomBlockError("failed to add custom block", err)
	}

	log.Debug("custom block added",
		slog.String("block_id", block.ID.String()),
		slog.Int("duration_minutes", block.DurationMinutes))
	return block, nil
}

// ListBlocks implements Service.ListBlocks.
func (s *serviceImpl) ListBlocks(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.StudyBlock, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	blocks, err := s.stores.Blocks.ListForUser(ctx, userID, from, to)
	if err != nil {
		log.Error("failed to list blocks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewListBlocksError("failed to list blocks", err)
	}
	return blocks, nil
}

func (s *serviceImpl) emitReplaced(ctx context.Context, result *Schedule, log *slog.Logger) {
	payload := events.SchedulePayload{
		UserID:     result.UserID,
		Deleted:    result.Deleted,
		Inserted:   len(result.Blocks),
		FirstDate:  result.Blocks[0].ScheduledDate,
		HorizonEnd: result.Blocks[len(result.Blocks)-1].ScheduledDate,
	}

	event, err := events.NewEvent(events.TypeScheduleReplaced, payload)
	if err != nil {
		log.Error("failed to build schedule event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to emit schedule event",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
	}
}

// day truncates t to midnight in the planner's location.
func (s *serviceImpl) day(t time.Time) time.Time {
	y, m, d := t.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}
