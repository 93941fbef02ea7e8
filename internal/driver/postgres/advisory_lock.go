package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aqasim81/database-migration-engine/internal/driver"
)

// DefaultLockID is the advisory lock identifier used when a dialect doesn't
// configure its own.
const DefaultLockID int64 = 123456789

// AdvisoryLock implements driver.Locker using PostgreSQL session-level
// advisory locks, serializing concurrent `migrate install`/`migrate
// rollback` invocations racing against the same database.
type AdvisoryLock struct {
	pool *pgxpool.Pool
	id   int64
}

// NewAdvisoryLock builds an AdvisoryLock over pool. An id of 0 selects
// DefaultLockID.
func NewAdvisoryLock(pool *pgxpool.Pool, id int64) *AdvisoryLock {
	if id == 0 {
		id = DefaultLockID
	}

	return &AdvisoryLock{pool: pool, id: id}
}

// TryLock attempts to acquire the session-level advisory lock, failing
// immediately with ErrLockNotAcquired if another process already holds it.
func (l *AdvisoryLock) TryLock(ctx context.Context) (driver.Unlocker, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection for advisory lock: %w", err)
	}

	var acquired bool

	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", l.id).Scan(&acquired); err != nil {
		conn.Release()

		return nil, fmt.Errorf("executing pg_try_advisory_lock: %w", err)
	}

	if !acquired {
		conn.Release()

		return nil, ErrLockNotAcquired
	}

	return &lockHandle{conn: conn, id: l.id}, nil
}

type lockHandle struct {
	conn *pgxpool.Conn
	id   int64
}

// Unlock releases the advisory lock and returns the connection to the pool.
// Safe to call multiple times; subsequent calls are no-ops.
func (h *lockHandle) Unlock(ctx context.Context) error {
	if h == nil || h.conn == nil {
		return nil
	}

	_, err := h.conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", h.id)
	h.conn.Release()
	h.conn = nil

	if err != nil {
		return fmt.Errorf("releasing advisory lock: %w", err)
	}

	return nil
}
