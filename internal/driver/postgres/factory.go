package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aqasim81/database-migration-engine/internal/driver"
)

// Factory implements driver.Factory over a pgx connection pool, bracketing
// each transactional call with begin/commit/rollback and applying a
// per-transaction lock timeout and statement timeout before handing the
// provider to the caller's worker.
type Factory struct {
	pool             *pgxpool.Pool
	lockTimeout      time.Duration
	statementTimeout time.Duration
}

// Option configures a Factory.
type Option func(*Factory)

// WithLockTimeout sets lock_timeout on every transaction the Factory opens.
func WithLockTimeout(d time.Duration) Option {
	return func(f *Factory) { f.lockTimeout = d }
}

// WithStatementTimeout sets statement_timeout on every transaction the
// Factory opens.
func WithStatementTimeout(d time.Duration) Option {
	return func(f *Factory) { f.statementTimeout = d }
}

// NewFactory builds a Factory over an already-connected pool.
func NewFactory(pool *pgxpool.Pool, opts ...Option) *Factory {
	f := &Factory{pool: pool}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create returns a short-lived, non-transactional Provider backed directly
// by the pool.
func (f *Factory) Create(_ context.Context) (driver.Provider, error) {
	return NewProvider(f.pool), nil
}

// UsingProvider runs worker against a pool-backed Provider. The pool manages
// connection lifetime itself, so there is nothing to release afterward.
func (f *Factory) UsingProvider(_ context.Context, worker driver.Worker) error {
	return worker(NewProvider(f.pool))
}

// UsingProviderWithTransaction opens a transaction, applies the configured
// lock/statement timeouts, runs worker, and commits iff worker returns nil
// (otherwise it rolls back). The transaction is always closed before
// returning.
func (f *Factory) UsingProviderWithTransaction(ctx context.Context, worker driver.Worker) error {
	tx, err := f.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // rollback on a committed tx returns ErrTxClosed

	if f.lockTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET lock_timeout = '%dms'", f.lockTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("setting lock_timeout: %w", err)
		}
	}

	if f.statementTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET statement_timeout = '%dms'", f.statementTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("setting statement_timeout: %w", err)
		}
	}

	if err := worker(NewProvider(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
