// Package postgres supplies the PostgreSQL dialect hooks manager.Manager
// needs to create/verify the version table and read/write version log rows,
// using information_schema introspection and an upsert against the
// version/run_id/log_text column set.
package postgres

import (
	"context"
	"fmt"

	"github.com/aqasim81/database-migration-engine/internal/driver"
	pgdriver "github.com/aqasim81/database-migration-engine/internal/driver/postgres"
	"github.com/aqasim81/database-migration-engine/internal/manager"
	"github.com/aqasim81/database-migration-engine/internal/sources"
)

// requiredColumns is the version table's minimum column set.
var requiredColumns = []string{"version", "run_id", "log_text", "applied_at"}

// Postgres implements manager.DialectHooks over driver/postgres, embedding
// *manager.Manager so Install/Rollback are called directly on the dialect
// value. Postgres constructs its own Manager, passing itself as the
// DialectHooks implementation — the same self-referential composition
// seeruk-go-migrate's per-dialect Driver structs use to supply dialect SQL
// over a shared calling convention.
type Postgres struct {
	*manager.Manager
}

// New builds a Postgres dialect manager over factory, driving the given
// Sources tree.
func New(src sources.Sources, factory *pgdriver.Factory, logger manager.Logger, opts ...manager.Option) *Postgres {
	d := &Postgres{}
	d.Manager = manager.New(src, factory, d, logger, opts...)

	return d
}

func (d *Postgres) tableName() string {
	return d.Manager.VersionTableName()
}

func asProvider(p driver.Provider) (pgdriver.Provider, error) {
	pp, ok := p.(pgdriver.Provider)
	if !ok {
		return pgdriver.Provider{}, fmt.Errorf("postgres dialect: unexpected provider type %T", p)
	}

	return pp, nil
}

// GetCurrentVersion implements manager.DialectHooks.
func (d *Postgres) GetCurrentVersion(ctx context.Context, p driver.Provider) (string, bool, error) {
	exist, err := d.IsVersionTableExist(ctx, p)
	if err != nil {
		return "", false, err
	}

	if !exist {
		return "", false, nil
	}

	pp, err := asProvider(p)
	if err != nil {
		return "", false, err
	}

	var version *string

	query := fmt.Sprintf(`SELECT MAX(version) FROM %s`, d.tableName())
	if err := pp.QueryRow(ctx, query).Scan(&version); err != nil {
		return "", false, fmt.Errorf("reading current version: %w", err)
	}

	if version == nil {
		return "", false, nil
	}

	return *version, true, nil
}

// IsVersionTableExist implements manager.DialectHooks.
func (d *Postgres) IsVersionTableExist(ctx context.Context, p driver.Provider) (bool, error) {
	pp, err := asProvider(p)
	if err != nil {
		return false, err
	}

	var exists bool

	err = pp.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
		d.tableName(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking version table existence: %w", err)
	}

	return exists, nil
}

// CreateVersionTable implements manager.DialectHooks.
func (d *Postgres) CreateVersionTable(ctx context.Context, p driver.Provider) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version    TEXT PRIMARY KEY,
		run_id     TEXT NOT NULL,
		log_text   TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, d.tableName())

	if err := p.Statement(ddl).Execute(ctx); err != nil {
		return fmt.Errorf("creating version table: %w", err)
	}

	return nil
}

// VerifyVersionTableStructure implements manager.DialectHooks. It is only
// invoked when IsVersionTableExist returned true.
func (d *Postgres) VerifyVersionTableStructure(ctx context.Context, p driver.Provider) error {
	pp, err := asProvider(p)
	if err != nil {
		return err
	}

	rows, err := pp.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_name = $1`,
		d.tableName(),
	)
	if err != nil {
		return fmt.Errorf("reading version table columns: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool, len(requiredColumns))

	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return fmt.Errorf("scanning version table column: %w", err)
		}

		present[col] = true
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating version table columns: %w", err)
	}

	for _, col := range requiredColumns {
		if !present[col] {
			return fmt.Errorf("version table %s missing column %q", d.tableName(), col)
		}
	}

	return nil
}

// IsVersionLogExist implements manager.DialectHooks.
func (d *Postgres) IsVersionLogExist(ctx context.Context, p driver.Provider, version string) (bool, error) {
	pp, err := asProvider(p)
	if err != nil {
		return false, err
	}

	var exists bool

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE version = $1)`, d.tableName())
	if err := pp.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking version log %s: %w", version, err)
	}

	return exists, nil
}

// InsertVersionLog implements manager.DialectHooks.
func (d *Postgres) InsertVersionLog(ctx context.Context, p driver.Provider, version, runID, logText string) error {
	query := fmt.Sprintf(`INSERT INTO %s (version, run_id, log_text) VALUES ($1, $2, $3)
		ON CONFLICT (version) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			log_text = EXCLUDED.log_text,
			applied_at = NOW()`, d.tableName())

	if err := p.Statement(query).Execute(ctx, version, runID, logText); err != nil {
		return fmt.Errorf("inserting version log %s: %w", version, err)
	}

	return nil
}

// RemoveVersionLog implements manager.DialectHooks.
func (d *Postgres) RemoveVersionLog(ctx context.Context, p driver.Provider, version string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE version = $1`, d.tableName())

	if err := p.Statement(query).Execute(ctx, version); err != nil {
		return fmt.Errorf("removing version log %s: %w", version, err)
	}

	return nil
}
