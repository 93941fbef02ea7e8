package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aqasim81/database-migration-engine/internal/driver"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting Provider
// wrap whichever one the Factory hands it without caring which.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Provider is the driver.Provider implementation handed to the manager
// package. It also exposes QueryRow/Query beyond the narrow driver.Provider
// contract; the dialect/postgres hooks type-assert to this concrete type to
// reach them, since reading back version-table state is dialect-specific
// and outside the engine's own narrow statement-execution contract.
type Provider struct {
	q querier
}

// NewProvider wraps a querier (a pool or an open transaction) as a Provider.
func NewProvider(q querier) Provider { return Provider{q: q} }

// Statement implements driver.Provider.
func (p Provider) Statement(sql string) driver.Statement {
	return statement{q: p.q, sql: sql}
}

// QueryRow runs a single-row query, for dialect hooks that need to read
// version-table state.
func (p Provider) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.q.QueryRow(ctx, sql, args...)
}

// Query runs a multi-row query, for dialect hooks inspecting table structure.
func (p Provider) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.q.Query(ctx, sql, args...)
}

type statement struct {
	q   querier
	sql string
}

func (s statement) Execute(ctx context.Context, args ...any) error {
	if _, err := s.q.Exec(ctx, s.sql, args...); err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}

	return nil
}
