package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/platform/logger"
	"github.com/phrazzld/scry-planner/internal/store"
)

const blockColumns = `id, user_id, subject_id, subject_name, subject_icon, block_number,
	total_blocks, duration_minutes, scheduled_date, completed, completed_at, is_custom, created_at,
	schedule_id`

// PostgresBlockStore implements the store.BlockStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBlockStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBlockStore creates a new PostgreSQL implementation of the BlockStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresBlockStore(db store.DBTX, logger *slog.Logger) *PostgresBlockStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBlockStore{
		db:     db,
		logger: logger.With(slog.String("component", "block_store")),
	}
}

// Ensure PostgresBlockStore implements store.BlockStore interface
var _ store.BlockStore = (*PostgresBlockStore)(nil)

func scanBlock(row rowScanner) (*domain.StudyBlock, error) {
	var b domain.StudyBlock
	var completedAt sql.NullTime
	var scheduleID uuid.NullUUID
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.SubjectID,
		&b.SubjectName,
		&b.SubjectIcon,
		&b.BlockNumber,
		&b.TotalBlocks,
		&b.DurationMinutes,
		&b.ScheduledDate,
		&b.Completed,
		&completedAt,
		&b.IsCustom,
		&b.CreatedAt,
		&scheduleID,
	)
	if err != nil {
		return nil, err
	}
	if scheduleID.Valid {
		b.ScheduleID = scheduleID.UUID
	}
	if completedAt.Valid {
		t := completedAt.Time
		b.CompletedAt = &t
	}
	return &b, nil
}

func (s *PostgresBlockStore) queryBlocks(
	ctx context.Context,
	operation, query string,
	args ...any,
) ([]*domain.StudyBlock, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("study_block", operation, "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	blocks := make([]*domain.StudyBlock, 0)
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, store.NewStoreError("study_block", operation, "scan failed", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("study_block", operation, "row iteration failed", err)
	}
	return blocks, nil
}

// InsertBlocks implements store.BlockStore.InsertBlocks
// Every block is validated before anything is written.
func (s *PostgresBlockStore) InsertBlocks(ctx context.Context, blocks []*domain.StudyBlock) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(blocks) == 0 {
		return nil
	}

	for _, b := range blocks {
		if err := b.Validate(); err != nil {
			log.Warn("study block validation failed during insert",
				slog.String("error", err.Error()),
				slog.String("block_id", b.ID.String()))
			return err
		}
	}

	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO study_blocks (`+blockColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`)
	if err != nil {
		log.Error("failed to prepare block insert", slog.String("error", err.Error()))
		return store.NewStoreError("study_block", "insert", "prepare failed", MapError(err))
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range blocks {
		_, err := stmt.ExecContext(ctx,
			b.ID,
			b.UserID,
			b.SubjectID,
			b.SubjectName,
			b.SubjectIcon,
			b.BlockNumber,
			b.TotalBlocks,
			b.DurationMinutes,
			b.ScheduledDate,
			b.Completed,
			b.CompletedAt,
			b.IsCustom,
			b.CreatedAt,
			uuid.NullUUID{UUID: b.ScheduleID, Valid: b.ScheduleID != uuid.Nil},
		)
		if err != nil {
			log.Error("failed to insert study block",
				slog.String("error", err.Error()),
				slog.String("block_id", b.ID.String()),
				slog.String("subject_id", b.SubjectID.String()))
			return store.NewStoreError("study_block", "insert", "insert failed", MapError(err))
		}
	}

	log.Debug("study blocks inserted", slog.Int("count", len(blocks)))
	return nil
}

// DeletePendingForUser implements store.BlockStore.DeletePendingForUser
func (s *PostgresBlockStore) DeletePendingForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM study_blocks WHERE user_id = $1 AND completed = FALSE`, userID)
	if err != nil {
		log.Error("failed to delete pending blocks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, store.NewStoreError("study_block", "delete_pending", "delete failed", MapError(err))
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Debug("pending blocks deleted",
		slog.String("user_id", userID.String()),
		slog.Int64("count", deleted))
	return deleted, nil
}

// GetByID implements store.BlockStore.GetByID
func (s *PostgresBlockStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyBlock, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + blockColumns + ` FROM study_blocks WHERE id = $1`
	b, err := scanBlock(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("study block not found", slog.String("block_id", id.String()))
			return nil, store.ErrBlockNotFound
		}
		log.Error("failed to get study block",
			slog.String("error", err.Error()),
			slog.String("block_id", id.String()))
		return nil, store.NewStoreError("study_block", "get", "query failed", MapError(err))
	}
	return b, nil
}

// GetForSubject implements store.BlockStore.GetForSubject
func (s *PostgresBlockStore) GetForSubject(ctx context.Context, subjectID uuid.UUID) ([]*domain.StudyBlock, error) {
	query := `
		SELECT ` + blockColumns + `
		FROM study_blocks
		WHERE subject_id = $1
		ORDER BY block_number ASC, scheduled_date ASC
	`
	blocks, err := s.queryBlocks(ctx, "list_for_subject", query, subjectID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list blocks for subject",
			slog.String("error", err.Error()),
			slog.String("subject_id", subjectID.String()))
		return nil, err
	}
	return blocks, nil
}

// ListForUser implements store.BlockStore.ListForUser
func (s *PostgresBlockStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.StudyBlock, error) {
	var (
		where = []string{"user_id = $1"}
		args  = []any{userID}
	)
	if !from.IsZero() {
		args = append(args, from)
		where = append(where, fmt.Sprintf("scheduled_date >= $%d", len(args)))
	}
	if !to.IsZero() {
		args = append(args, to)
		where = append(where, fmt.Sprintf("scheduled_date < $%d", len(args)))
	}

	query := `
		SELECT ` + blockColumns + `
		FROM study_blocks
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY scheduled_date ASC, created_at ASC, id ASC
	`
	blocks, err := s.queryBlocks(ctx, "list_for_user", query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list blocks for user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	return blocks, nil
}

// SetCompletion implements store.BlockStore.SetCompletion
func (s *PostgresBlockStore) SetCompletion(
	ctx context.Context,
	id uuid.UUID,
	completed bool,
	completedAt *time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if completed != (completedAt != nil) {
		return fmt.Errorf("%w: completed_at must be set exactly when completed", store.ErrInvalidEntity)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE study_blocks SET completed = $1, completed_at = $2 WHERE id = $3`,
		completed, completedAt, id)
	if err != nil {
		log.Error("failed to set block completion",
			slog.String("error", err.Error()),
			slog.String("block_id", id.String()))
		return store.NewStoreError("study_block", "set_completion", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrBlockNotFound); err != nil {
		return err
	}

	log.Debug("block completion updated",
		slog.String("block_id", id.String()),
		slog.Bool("completed", completed))
	return nil
}

// WithTx implements store.BlockStore.WithTx
func (s *PostgresBlockStore) WithTx(tx *sql.Tx) store.BlockStore {
	return &PostgresBlockStore{
		db:     tx,
		logger: s.logger,
	}
}
