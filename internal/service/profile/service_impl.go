package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/domain/leveling"
	"github.com/phrazzld/scry-planner/internal/platform/logger"
	"github.com/phrazzld/scry-planner/internal/service"
	"github.com/phrazzld/scry-planner/internal/service/userlock"
	"github.com/phrazzld/scry-planner/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	stores store.Stores
	tx     store.Transactor
	locker userlock.Locker
	logger *slog.Logger
}

// NewService creates a profile Service.
func NewService(stores store.Stores, tx store.Transactor, locker userlock.Locker, logger *slog.Logger) Service {
	if stores.Subjects == nil || stores.Users == nil {
		panic("stores cannot be nil")
	}
	if tx == nil {
		panic("tx cannot be nil")
	}
	if locker == nil {
		panic("locker cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		stores: stores,
		tx:     tx,
		locker: locker,
		logger: logger.With(slog.String("component", "profile_service")),
	}
}

// CreateUser implements Service.CreateUser.
func (s *serviceImpl) CreateUser(ctx context.Context, blocksPerDay, defaultBlockMinutes int) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(blocksPerDay, defaultBlockMinutes)
	if err != nil {
		log.Debug("invalid user", slog.String("error", err.Error()))
		return nil, &ServiceError{Operation: "create_user", Message: "invalid user", Err: err}
	}

	if err := s.stores.Users.Create(ctx, user); err != nil {
		log.Error("failed to create user", slog.String("error", err.Error()))
		return nil, &ServiceError{Operation: "create_user", Message: "failed to save user", Err: err}
	}

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return user, nil
}

// GetProfile implements Service.GetProfile.
func (s *serviceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	user, err := s.stores.Users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to load user", slog.String("error", err.Error()))
		}
		return nil, &ServiceError{Operation: "get_profile", Message: "failed to load user", Err: err}
	}

	subjects, err := s.stores.Subjects.AllForUser(ctx, userID)
	if err != nil {
		log.Error("failed to load subjects", slog.String("error", err.Error()))
		return nil, &ServiceError{Operation: "get_profile", Message: "failed to load subjects", Err: err}
	}

	profile := &Profile{
		User:     user,
		Global:   progressOn(leveling.GlobalCurve, user.GlobalXP),
		Subjects: make([]SubjectProgress, 0, len(subjects)),
	}
	for _, sub := range subjects {
		profile.Subjects = append(profile.Subjects, SubjectProgress{
			Subject:  sub,
			Progress: progressOn(leveling.SubjectCurve, sub.XP),
		})
	}
	return profile, nil
}

// CreateSubject implements Service.CreateSubject.
func (s *serviceImpl) CreateSubject(
	ctx context.Context,
	userID uuid.UUID,
	name, icon string,
	confidence, preferredMinutes int,
) (*domain.Subject, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	subject, err := domain.NewSubject(userID, name, icon, confidence, preferredMinutes)
	if err != nil {
		log.Debug("invalid subject", slog.String("error", err.Error()))
		return nil, &ServiceError{Operation: "create_subject", Message: "invalid subject", Err: err}
	}

	if _, err := s.stores.Users.GetByID(ctx, userID); err != nil {
		return nil, &ServiceError{Operation: "create_subject", Message: "failed to load user", Err: err}
	}

	if err := s.stores.Subjects.Create(ctx, subject); err != nil {
		log.Error("failed to create subject", slog.String("error", err.Error()))
		return nil, &ServiceError{Operation: "create_subject", Message: "failed to save subject", Err: err}
	}

	log.Debug("subject created",
		slog.String("subject_id", subject.ID.String()),
		slog.Int("confidence", subject.Confidence))
	return subject, nil
}

// DeleteSubject implements Service.DeleteSubject.
func (s *serviceImpl) DeleteSubject(ctx context.Context, userID, subjectID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("subject_id", subjectID.String()),
	)

	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		log.Error("failed to acquire user lock", slog.String("error", err.Error()))
		return &ServiceError{Operation: "delete_subject", Message: "failed to acquire user lock", Err: err}
	}
	defer unlock()

	err = s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		subject, err := st.Subjects.GetByID(ctx, subjectID)
		if err != nil {
			return err
		}
		if subject.UserID != userID {
			return service.ErrNotOwned
		}

		if err := st.Subjects.Delete(ctx, subjectID); err != nil {
			return fmt.Errorf("failed to delete subject: %w", err)
		}

		remaining, err := st.Subjects.AllForUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load subjects: %w", err)
		}
		globalXP := 0
		for _, sub := range remaining {
			globalXP += sub.XP
		}

		return st.Users.UpdateGlobalXP(ctx, userID, globalXP, leveling.GlobalCurve.LevelForXP(globalXP), time.Now().UTC())
	})
	if err != nil {
		if errors.Is(err, service.ErrNotOwned) || store.IsNotFoundError(err) {
			log.Debug("subject delete rejected", slog.String("error", err.Error()))
		} else {
			log.Error("failed to delete subject", slog.String("error", err.Error()))
		}
		return &ServiceError{Operation: "delete_subject", Message: "failed to delete subject", Err: err}
	}

	log.Info("subject deleted")
	return nil
}

func progressOn(c leveling.Curve, xp int) LevelProgress {
	level := c.LevelForXP(xp)
	return LevelProgress{
		XP:              xp,
		Level:           level,
		NextLevelXP:     c.XPForLevel(level + 1),
		ProgressToLevel: c.Progress(xp, level),
	}
}
