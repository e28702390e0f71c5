package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/domain/leveling"
	"github.com/phrazzld/scry-planner/internal/events"
	"github.com/phrazzld/scry-planner/internal/platform/logger"
	"github.com/phrazzld/scry-planner/internal/service/userlock"
	"github.com/phrazzld/scry-planner/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type transition bool

const (
	toCompleted transition = true
	toPending   transition = false
)

func (t transition) operation() string {
	if t == toCompleted {
		return "mark_complete"
	}
	return "mark_incomplete"
}

func (t transition) eventType() string {
	if t == toCompleted {
		return events.TypeBlockCompleted
	}
	return events.TypeBlockUncompleted
}

// outcome is what a locked transition produced. payload is nil unless XP
// bookkeeping actually ran.
type outcome struct {
	result  *Result
	payload *events.CompletionPayload
}

type serviceImpl struct {
	blocks  store.BlockStore
	tx      store.Transactor
	locker  userlock.Locker
	emitter events.EventEmitter
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures the ledger service.
type Option func(*serviceImpl)

// WithClock sets the clock used for completion and update timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a ledger Service.
//
// blocks is used outside any transaction to find the block's owner before
// the user lock is taken; all reads that feed the XP computation are
// repeated inside the transaction. A nil emitter discards events.
func NewService(
	blocks store.BlockStore,
	tx store.Transactor,
	locker userlock.Locker,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if blocks == nil {
		panic("blocks cannot be nil")
	}
	if tx == nil {
		panic("tx cannot be nil")
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
		blocks:  blocks,
		tx:      tx,
		locker:  locker,
		emitter: emitter,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "ledger_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarkComplete implements Service.MarkComplete.
func (s *serviceImpl) MarkComplete(ctx context.Context, blockID uuid.UUID) (*Result, error) {
	return s.apply(ctx, blockID, toCompleted)
}

// MarkIncomplete implements Service.MarkIncomplete.
func (s *serviceImpl) MarkIncomplete(ctx context.Context, blockID uuid.UUID) (*Result, error) {
	return s.apply(ctx, blockID, toPending)
}

func (s *serviceImpl) apply(ctx context.Context, blockID uuid.UUID, t transition) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("operation", t.operation()),
		slog.String("block_id", blockID.String()),
	)

	block, err := s.blocks.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, store.ErrBlockNotFound) {
			log.Warn("block not found, nothing to update")
			return &Result{BlockID: blockID, Degraded: true}, nil
		}
		log.Error("failed to load block", slog.String("error", err.Error()))
		return nil, newServiceError(t, "failed to load block", err)
	}

	log = log.With(slog.String("user_id", block.UserID.String()))

	unlock, err := s.locker.Lock(ctx, block.UserID)
	if err != nil {
		log.Error("failed to acquire user lock", slog.String("error", err.Error()))
		return nil, newServiceError(t, "failed to acquire user lock", err)
	}
	defer unlock()

	var out outcome
	err = s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		var err error
		out, err = s.applyLocked(ctx, st, blockID, t, log)
		return err
	})
	if err != nil {
		log.Error("failed to record completion", slog.String("error", err.Error()))
		return nil, newServiceError(t, "failed to record completion", err)
	}

	if out.payload != nil {
		s.emit(ctx, t, out.payload, log)
		log.Debug("completion recorded",
			slog.Int("xp_delta", out.result.XPDelta),
			slog.Int("subject_xp", out.result.SubjectXP),
			slog.Int("global_xp", out.result.GlobalXP))
	}

	return out.result, nil
}

// applyLocked runs the transition inside a transaction while the user lock
// is held. The block is re-read because it may have been replaced by a
// schedule regeneration before the lock was acquired.
func (s *serviceImpl) applyLocked(
	ctx context.Context,
	st store.Stores,
	blockID uuid.UUID,
	t transition,
	log *slog.Logger,
) (outcome, error) {
	block, err := st.Blocks.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, store.ErrBlockNotFound) {
			log.Warn("block removed before completion could be recorded")
			return outcome{result: &Result{BlockID: blockID, Degraded: true}}, nil
		}
		return outcome{}, fmt.Errorf("failed to load block: %w", err)
	}

	if block.Completed == bool(t) {
		log.Debug("block already in requested state")
		res := &Result{BlockID: blockID}
		if err := s.fillCurrent(ctx, st, block, res); err != nil {
			return outcome{}, err
		}
		return outcome{result: res}, nil
	}

	var completedAt *time.Time
	if t == toCompleted {
		at := s.now().UTC()
		completedAt = &at
	}

	subject, err := st.Subjects.GetByID(ctx, block.SubjectID)
	if err != nil {
		if errors.Is(err, store.ErrSubjectNotFound) {
			return s.flagOnly(ctx, st, block, t, completedAt, "subject", log)
		}
		return outcome{}, fmt.Errorf("failed to load subject: %w", err)
	}

	user, err := st.Users.GetByID(ctx, block.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return s.flagOnly(ctx, st, block, t, completedAt, "user", log)
		}
		return outcome{}, fmt.Errorf("failed to load user: %w", err)
	}

	// Completed blocks of earlier schedules are still listed; XPForBlock
	// counts only the block's own schedule.
	scheduled, err := st.Blocks.ListForUser(ctx, block.UserID, time.Time{}, time.Time{})
	if err != nil {
		return outcome{}, fmt.Errorf("failed to load schedule: %w", err)
	}

	award := leveling.XPForBlock(block, scheduled)
	subjectXP := subject.XP + award
	if t == toPending {
		subjectXP = subject.XP - award
	}
	if subjectXP < 0 {
		subjectXP = 0
	}
	subjectLevel := leveling.SubjectCurve.LevelForXP(subjectXP)

	subjects, err := st.Subjects.AllForUser(ctx, block.UserID)
	if err != nil {
		return outcome{}, fmt.Errorf("failed to load subjects: %w", err)
	}
	globalXP := sumXP(subjects, subject.ID, subjectXP)
	globalLevel := leveling.GlobalCurve.LevelForXP(globalXP)

	// Credit XP before flipping the flag.
	at := s.now().UTC()
	if err := st.Subjects.UpdateXP(ctx, subject.ID, subjectXP, subjectLevel, at); err != nil {
		return outcome{}, fmt.Errorf("failed to update subject xp: %w", err)
	}
	if err := st.Users.UpdateGlobalXP(ctx, user.ID, globalXP, globalLevel, at); err != nil {
		return outcome{}, fmt.Errorf("failed to update global xp: %w", err)
	}
	if err := st.Blocks.SetCompletion(ctx, block.ID, bool(t), completedAt); err != nil {
		return outcome{}, fmt.Errorf("failed to set completion: %w", err)
	}

	res := &Result{
		BlockID:      block.ID,
		XPDelta:      subjectXP - subject.XP,
		SubjectXP:    subjectXP,
		SubjectLevel: subjectLevel,
		GlobalXP:     globalXP,
		GlobalLevel:  globalLevel,
		LeveledUp:    subjectLevel > subject.Level || globalLevel > user.GlobalLevel,
	}

	return outcome{
		result: res,
		payload: &events.CompletionPayload{
			UserID:      block.UserID,
			SubjectID:   subject.ID,
			BlockID:     block.ID,
			XPDelta:     res.XPDelta,
			SubjectXP:   subjectXP,
			GlobalXP:    globalXP,
			GlobalLevel: globalLevel,
			LeveledUp:   res.LeveledUp,
		},
	}, nil
}

// flagOnly is the degraded path: the block's subject or user is gone, so no
// XP moves and only the completion flag is written.
func (s *serviceImpl) flagOnly(
	ctx context.Context,
	st store.Stores,
	block *domain.StudyBlock,
	t transition,
	completedAt *time.Time,
	missing string,
	log *slog.Logger,
) (outcome, error) {
	log.Warn("referenced entity missing, updating completion flag only",
		slog.String("missing", missing),
		slog.String("subject_id", block.SubjectID.String()))

	if err := st.Blocks.SetCompletion(ctx, block.ID, bool(t), completedAt); err != nil {
		return outcome{}, fmt.Errorf("failed to set completion: %w", err)
	}
	return outcome{result: &Result{BlockID: block.ID, Degraded: true}}, nil
}

// fillCurrent reports the stored totals for a no-op transition. Missing
// entities leave their fields zero.
func (s *serviceImpl) fillCurrent(ctx context.Context, st store.Stores, block *domain.StudyBlock, res *Result) error {
	subject, err := st.Subjects.GetByID(ctx, block.SubjectID)
	switch {
	case err == nil:
		res.SubjectXP = subject.XP
		res.SubjectLevel = subject.Level
	case !errors.Is(err, store.ErrSubjectNotFound):
		return fmt.Errorf("failed to load subject: %w", err)
	}

	user, err := st.Users.GetByID(ctx, block.UserID)
	switch {
	case err == nil:
		res.GlobalXP = user.GlobalXP
		res.GlobalLevel = user.GlobalLevel
	case !errors.Is(err, store.ErrUserNotFound):
		return fmt.Errorf("failed to load user: %w", err)
	}
	return nil
}

func (s *serviceImpl) emit(ctx context.Context, t transition, payload *events.CompletionPayload, log *slog.Logger) {
	event, err := events.NewEvent(t.eventType(), payload)
	if err != nil {
		log.Error("failed to build completion event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to emit completion event",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
	}
}

// sumXP re-aggregates global XP from every subject, substituting the new XP
// of the subject being updated.
func sumXP(subjects []*domain.Subject, updatedID uuid.UUID, updatedXP int) int {
	total := 0
	seen := false
	for _, sub := range subjects {
		if sub == nil {
			continue
		}
		if sub.ID == updatedID {
			total += updatedXP
			seen = true
			continue
		}
		total += sub.XP
	}
	if !seen {
		total += updatedXP
	}
	return total
}
