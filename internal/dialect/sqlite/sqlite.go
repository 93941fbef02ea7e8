// Package sqlite supplies the SQLite dialect hooks manager.Manager needs,
// grounded on ljpx-sqlx's mattn/go-sqlite3-backed connection handling. It
// lets the sources/manager core's tests exercise a real embedded SQL engine
// without a Docker daemon; the PostgreSQL path is reserved for the
// testcontainers-gated integration suite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aqasim81/database-migration-engine/internal/driver"
	sqlitedriver "github.com/aqasim81/database-migration-engine/internal/driver/sqlite"
	"github.com/aqasim81/database-migration-engine/internal/manager"
	"github.com/aqasim81/database-migration-engine/internal/sources"
)

// requiredColumns is the version table's minimum column set.
var requiredColumns = []string{"version", "run_id", "log_text", "applied_at"}

// SQLite implements manager.DialectHooks over driver/sqlite, embedding
// *manager.Manager in the same self-referential pattern as dialect/postgres.
type SQLite struct {
	*manager.Manager
}

// New builds a SQLite dialect manager over factory, driving the given
// Sources tree.
func New(src sources.Sources, factory *sqlitedriver.Factory, logger manager.Logger, opts ...manager.Option) *SQLite {
	d := &SQLite{}
	d.Manager = manager.New(src, factory, d, logger, opts...)

	return d
}

func (d *SQLite) tableName() string {
	return d.Manager.VersionTableName()
}

func asProvider(p driver.Provider) (sqlitedriver.Provider, error) {
	pp, ok := p.(sqlitedriver.Provider)
	if !ok {
		return sqlitedriver.Provider{}, fmt.Errorf("sqlite dialect: unexpected provider type %T", p)
	}

	return pp, nil
}

// GetCurrentVersion implements manager.DialectHooks.
func (d *SQLite) GetCurrentVersion(ctx context.Context, p driver.Provider) (string, bool, error) {
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

	var version sql.NullString

	query := fmt.Sprintf(`SELECT MAX(version) FROM %s`, d.tableName())
	if err := pp.QueryRow(ctx, query).Scan(&version); err != nil {
		return "", false, fmt.Errorf("reading current version: %w", err)
	}

	if !version.Valid {
		return "", false, nil
	}

	return version.String, true, nil
}

// IsVersionTableExist implements manager.DialectHooks.
func (d *SQLite) IsVersionTableExist(ctx context.Context, p driver.Provider) (bool, error) {
	pp, err := asProvider(p)
	if err != nil {
		return false, err
	}

	var exists bool

	err = pp.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`,
		d.tableName(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking version table existence: %w", err)
	}

	return exists, nil
}

// CreateVersionTable implements manager.DialectHooks.
func (d *SQLite) CreateVersionTable(ctx context.Context, p driver.Provider) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version    TEXT PRIMARY KEY,
		run_id     TEXT NOT NULL,
		log_text   TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, d.tableName())

	if err := p.Statement(ddl).Execute(ctx); err != nil {
		return fmt.Errorf("creating version table: %w", err)
	}

	return nil
}

// VerifyVersionTableStructure implements manager.DialectHooks. It is only
// invoked when IsVersionTableExist returned true.
func (d *SQLite) VerifyVersionTableStructure(ctx context.Context, p driver.Provider) error {
	pp, err := asProvider(p)
	if err != nil {
		return err
	}

	rows, err := pp.Query(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, d.tableName()))
	if err != nil {
		return fmt.Errorf("reading version table columns: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool, len(requiredColumns))

	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return fmt.Errorf("scanning version table column: %w", err)
		}

		present[name] = true
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
func (d *SQLite) IsVersionLogExist(ctx context.Context, p driver.Provider, version string) (bool, error) {
	pp, err := asProvider(p)
	if err != nil {
		return false, err
	}

	var exists bool

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE version = ?)`, d.tableName())
	if err := pp.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking version log %s: %w", version, err)
	}

	return exists, nil
}

// InsertVersionLog implements manager.DialectHooks.
func (d *SQLite) InsertVersionLog(ctx context.Context, p driver.Provider, version, runID, logText string) error {
	query := fmt.Sprintf(`INSERT INTO %s (version, run_id, log_text) VALUES (?, ?, ?)
		ON CONFLICT(version) DO UPDATE SET
			run_id = excluded.run_id,
			log_text = excluded.log_text,
			applied_at = CURRENT_TIMESTAMP`, d.tableName())

	if err := p.Statement(query).Execute(ctx, version, runID, logText); err != nil {
		return fmt.Errorf("inserting version log %s: %w", version, err)
	}

	return nil
}

// RemoveVersionLog implements manager.DialectHooks.
func (d *SQLite) RemoveVersionLog(ctx context.Context, p driver.Provider, version string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE version = ?`, d.tableName())

	if err := p.Statement(query).Execute(ctx, version); err != nil {
		return fmt.Errorf("removing version log %s: %w", version, err)
	}

	return nil
}
