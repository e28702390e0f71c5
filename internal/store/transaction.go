package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-planner/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction.
// It receives the context and a transaction, and returns an error if the operation fails.
// The transaction is committed if the function returns nil, or rolled back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
// The function handles rollbacks in case of panic and logs appropriate information.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx).With(slog.String("component", "store"))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Set up defer to handle panics and roll back the transaction if needed
	defer func() {
		if p := recover(); p != nil {
			// Attempt to roll back the transaction in case of panic
			txErr := tx.Rollback()
			if txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			// Re-panic to maintain the behavior
			// ALLOW-PANIC: Propagating caught panic from transaction
			panic(p)
		}
	}()

	err = fn(ctx, tx)
	if err != nil {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	err = tx.Commit()
	if err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Debug("transaction committed successfully")
	return nil
}

// Stores groups the stores a unit of work needs. Inside WithinTx every
// member is bound to the same transaction.
type Stores struct {
	Subjects SubjectStore
	Blocks   BlockStore
	Users    UserStore
}

// StoresFn is a unit of work executed by a Transactor.
type StoresFn func(ctx context.Context, s Stores) error

// Transactor runs a unit of work atomically.
type Transactor interface {
	WithinTx(ctx context.Context, fn StoresFn) error
}

// SQLTransactor implements Transactor on a *sql.DB using RunInTransaction.
type SQLTransactor struct {
	db     *sql.DB
	stores Stores
}

// NewSQLTransactor creates a Transactor that binds stores to each transaction.
func NewSQLTransactor(db *sql.DB, stores Stores) *SQLTransactor {
	if db == nil {
		panic("db cannot be nil")
	}
	return &SQLTransactor{db: db, stores: stores}
}

// WithinTx begins a transaction, hands fn transaction-bound stores and
// commits if fn returns nil.
func (t *SQLTransactor) WithinTx(ctx context.Context, fn StoresFn) error {
	return RunInTransaction(ctx, t.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, Stores{
			Subjects: t.stores.Subjects.WithTx(tx),
			Blocks:   t.stores.Blocks.WithTx(tx),
			Users:    t.stores.Users.WithTx(tx),
		})
	})
}
