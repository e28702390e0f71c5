package postgres

import (
	"database/sql"
	"log/slog"

	"github.com/phrazzld/scry-planner/internal/store"
)

// NewStores builds the PostgreSQL stores on db.
func NewStores(db *sql.DB, logger *slog.Logger) store.Stores {
	return store.Stores{
		Subjects: NewPostgresSubjectStore(db, logger),
		Blocks:   NewPostgresBlockStore(db, logger),
		Users:    NewPostgresUserStore(db, logger),
	}
}

// NewTransactor returns a store.Transactor over the PostgreSQL stores.
func NewTransactor(db *sql.DB, logger *slog.Logger) *store.SQLTransactor {
	return store.NewSQLTransactor(db, NewStores(db, logger))
}
