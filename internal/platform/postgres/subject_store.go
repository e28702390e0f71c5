package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/platform/logger"
	"github.com/phrazzld/scry-planner/internal/store"
)

const subjectColumns = `id, user_id, name, icon, confidence, xp, level,
	preferred_block_minutes, created_at, updated_at`

// PostgresSubjectStore implements the store.SubjectStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSubjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSubjectStore creates a new PostgreSQL implementation of the SubjectStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSubjectStore(db store.DBTX, logger *slog.Logger) *PostgresSubjectStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSubjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "subject_store")),
	}
}

// Ensure PostgresSubjectStore implements store.SubjectStore interface
var _ store.SubjectStore = (*PostgresSubjectStore)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubject(row rowScanner) (*domain.Subject, error) {
	var s domain.Subject
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.Icon,
		&s.Confidence,
		&s.XP,
		&s.Level,
		&s.PreferredBlockMinutes,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create implements store.SubjectStore.Create
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresSubjectStore) Create(ctx context.Context, subject *domain.Subject) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := subject.Validate(); err != nil {
		log.Warn("subject validation failed during create",
			slog.String("error", err.Error()),
			slog.String("subject_id", subject.ID.String()))
		return err
	}

	query := `
		INSERT INTO subjects (` + subjectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		subject.ID,
		subject.UserID,
		subject.Name,
		subject.Icon,
		subject.Confidence,
		subject.XP,
		subject.Level,
		subject.PreferredBlockMinutes,
		subject.CreatedAt,
		subject.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during subject creation",
				slog.String("subject_id", subject.ID.String()),
				slog.String("user_id", subject.UserID.String()))
		} else {
			log.Error("failed to create subject",
				slog.String("error", err.Error()),
				slog.String("subject_id", subject.ID.String()))
		}
		return store.NewStoreError("subject", "create", "insert failed", MapError(err))
	}

	log.Debug("subject created",
		slog.String("subject_id", subject.ID.String()),
		slog.String("user_id", subject.UserID.String()))
	return nil
}

// AllForUser implements store.SubjectStore.AllForUser
func (s *PostgresSubjectStore) AllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Subject, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + subjectColumns + `
		FROM subjects
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query subjects",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("subject", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	subjects := make([]*domain.Subject, 0)
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, store.NewStoreError("subject", "list", "scan failed", err)
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("subject", "list", "row iteration failed", err)
	}

	log.Debug("subjects retrieved",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(subjects)))
	return subjects, nil
}

// GetByID implements store.SubjectStore.GetByID
func (s *PostgresSubjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subject, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE id = $1`
	subject, err := scanSubject(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("subject not found", slog.String("subject_id", id.String()))
			return nil, store.ErrSubjectNotFound
		}
		log.Error("failed to get subject by ID",
			slog.String("error", err.Error()),
			slog.String("subject_id", id.String()))
		return nil, store.NewStoreError("subject", "get", "query failed", MapError(err))
	}

	return subject, nil
}

// UpdateXP implements store.SubjectStore.UpdateXP
func (s *PostgresSubjectStore) UpdateXP(
	ctx context.Context,
	id uuid.UUID,
	xp, level int,
	at time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if xp < 0 {
		return domain.ErrNegativeXP
	}
	if level < 1 {
		return domain.ErrInvalidLevel
	}

	query := `
		UPDATE subjects
		SET xp = $1, level = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, xp, level, at.UTC(), id)
	if err != nil {
		log.Error("failed to update subject XP",
			slog.String("error", err.Error()),
			slog.String("subject_id", id.String()))
		return store.NewStoreError("subject", "update_xp", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrSubjectNotFound); err != nil {
		return err
	}

	log.Debug("subject XP updated",
		slog.String("subject_id", id.String()),
		slog.Int("xp", xp),
		slog.Int("level", level))
	return nil
}

// Delete implements store.SubjectStore.Delete
func (s *PostgresSubjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete subject",
			slog.String("error", err.Error()),
			slog.String("subject_id", id.String()))
		return store.NewStoreError("subject", "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrSubjectNotFound); err != nil {
		return err
	}

	log.Info("subject deleted", slog.String("subject_id", id.String()))
	return nil
}

// WithTx implements store.SubjectStore.WithTx
func (s *PostgresSubjectStore) WithTx(tx *sql.Tx) store.SubjectStore {
	return &PostgresSubjectStore{
		db:     tx,
		logger: s.logger,
	}
}
