// Package sqlite implements driver.Factory over database/sql with the
// mattn/go-sqlite3 driver, mirroring the pgx-backed driver/postgres
// package's shape. It exists so the core manager/sources algorithm can be
// exercised against a real embedded SQL engine without a Docker daemon.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aqasim81/database-migration-engine/internal/driver"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Provider is the driver.Provider implementation handed to the manager
// package. Like driver/postgres.Provider, it exposes QueryRow/Query beyond
// the narrow driver.Provider contract for the dialect/sqlite hooks to reach
// via type-assertion.
type Provider struct {
	q querier
}

// NewProvider wraps a querier (a *sql.DB or an open *sql.Tx) as a Provider.
func NewProvider(q querier) Provider { return Provider{q: q} }

// Statement implements driver.Provider.
func (p Provider) Statement(query string) driver.Statement {
	return statement{q: p.q, sql: query}
}

// QueryRow runs a single-row query.
func (p Provider) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return p.q.QueryRowContext(ctx, query, args...)
}

// Query runs a multi-row query.
func (p Provider) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return p.q.QueryContext(ctx, query, args...)
}

type statement struct {
	q   querier
	sql string
}

func (s statement) Execute(ctx context.Context, args ...any) error {
	if _, err := s.q.ExecContext(ctx, s.sql, args...); err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}

	return nil
}
