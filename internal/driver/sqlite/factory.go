package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the "sqlite3" driver name with database/sql.
	_ "github.com/mattn/go-sqlite3"

	"github.com/aqasim81/database-migration-engine/internal/driver"
)

// Factory implements driver.Factory over a *sql.DB opened with the sqlite3
// driver. Unlike driver/postgres, there is no separate pool type: sql.DB
// already pools connections.
type Factory struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database file at path and
// returns a Factory over it.
func Open(path string) (*Factory, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// SQLite serializes writers at the file level; a single connection
	// avoids "database is locked" errors under concurrent Exec.
	db.SetMaxOpenConns(1)

	return &Factory{db: db}, nil
}

// NewFactory wraps an already-open *sql.DB as a Factory, primarily for
// tests that want an in-memory database (":memory:").
func NewFactory(db *sql.DB) *Factory {
	return &Factory{db: db}
}

// Close closes the underlying database handle.
func (f *Factory) Close() error {
	return f.db.Close()
}

// Create returns a short-lived, non-transactional Provider backed directly
// by the database handle.
func (f *Factory) Create(_ context.Context) (driver.Provider, error) {
	return NewProvider(f.db), nil
}

// UsingProvider runs worker against a Provider backed by the database
// handle. There is nothing to release afterward.
func (f *Factory) UsingProvider(_ context.Context, worker driver.Worker) error {
	return worker(NewProvider(f.db))
}

// UsingProviderWithTransaction opens a transaction, runs worker, and
// commits iff worker returns nil (otherwise it rolls back).
func (f *Factory) UsingProviderWithTransaction(ctx context.Context, worker driver.Worker) error {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer tx.Rollback() //nolint:errcheck // rollback on a committed tx returns sql.ErrTxDone

	if err := worker(NewProvider(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
