package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{
	"id", "global_xp", "global_level", "preferred_blocks_per_day",
	"default_block_minutes", "created_at", "updated_at",
}

func TestNewPostgresUserStore(t *testing.T) {
	assert.Panics(t, func() { NewPostgresUserStore(nil, nil) })

	s := NewPostgresUserStore(&sql.DB{}, nil)
	assert.NotNil(t, s.logger)

	tx := &sql.Tx{}
	txStore, ok := s.WithTx(tx).(*PostgresUserStore)
	require.True(t, ok)
	assert.Equal(t, tx, txStore.db)
}

func TestPostgresUserStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewPostgresUserStore(db, nil)
	user, err := domain.NewUser(3, 45)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, 0, 1, 3, 45, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), user))
	assert.NoError(t, mock.ExpectationsWereMet())

	invalid := *user
	invalid.PreferredBlocksPerDay = 0
	assert.ErrorIs(t, s.Create(context.Background(), &invalid), domain.ErrInvalidPreferences)
}

func TestPostgresUserStore_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewPostgresUserStore(db, nil)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(id.String(), 640, 2, 4, 30, now, now))

	user, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, 640, user.GlobalXP)
	assert.Equal(t, 2, user.GlobalLevel)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)
	_, err = s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	dbErr := errors.New("connection reset")
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(id).
		WillReturnError(dbErr)
	_, err = s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, dbErr)
	var storeErr *store.StoreError
	assert.ErrorAs(t, err, &storeErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_UpdateGlobalXP(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewPostgresUserStore(db, nil)
	id := uuid.New()
	at := time.Now()

	mock.ExpectExec("UPDATE users SET global_xp").
		WithArgs(500, 2, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.UpdateGlobalXP(context.Background(), id, 500, 2, at))

	mock.ExpectExec("UPDATE users SET global_xp").
		WithArgs(500, 2, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.UpdateGlobalXP(context.Background(), id, 500, 2, at), store.ErrUserNotFound)

	assert.ErrorIs(t, s.UpdateGlobalXP(context.Background(), id, -1, 1, at), domain.ErrNegativeXP)
	assert.ErrorIs(t, s.UpdateGlobalXP(context.Background(), id, 0, 0, at), domain.ErrInvalidLevel)

	assert.NoError(t, mock.ExpectationsWereMet())
}
