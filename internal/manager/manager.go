// Package manager implements the version-planning and transactional driving
// algorithm shared by every dialect: it computes the ordered set of versions
// to install or roll back, opens a dedicated transactional connection per
// version, dispatches each script by kind, and records the outcome in a
// version table via seven dialect-specific hooks.
package manager

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aqasim81/database-migration-engine/internal/driver"
	"github.com/aqasim81/database-migration-engine/internal/sources"
)

// DefaultVersionTableName is used when WithVersionTableName is not supplied.
const DefaultVersionTableName = "__migration"

// DialectHooks is the set of dialect-specific operations a concrete manager
// must supply. A dialect package embeds *Manager and passes itself as this
// interface so Install/Rollback can call back into dialect SQL without the
// manager package knowing any dialect's wire format.
type DialectHooks interface {
	// GetCurrentVersion returns the highest installed version and true, or
	// ("", false, nil) if the version table is absent or empty.
	GetCurrentVersion(ctx context.Context, p driver.Provider) (string, bool, error)

	// IsVersionTableExist reports whether the version table has been created.
	IsVersionTableExist(ctx context.Context, p driver.Provider) (bool, error)

	// CreateVersionTable creates the version table.
	CreateVersionTable(ctx context.Context, p driver.Provider) error

	// VerifyVersionTableStructure is called only when IsVersionTableExist
	// returned true, giving the dialect a chance to validate or migrate an
	// existing table's shape.
	VerifyVersionTableStructure(ctx context.Context, p driver.Provider) error

	// IsVersionLogExist reports whether a log row for version exists.
	IsVersionLogExist(ctx context.Context, p driver.Provider, version string) (bool, error)

	// InsertVersionLog writes a completed install's log row.
	InsertVersionLog(ctx context.Context, p driver.Provider, version, runID, logText string) error

	// RemoveVersionLog deletes version's log row on a successful rollback.
	RemoveVersionLog(ctx context.Context, p driver.Provider, version string) error
}

// PlanChecker inspects one SQL-kind script before any transaction for the
// current Install plan opens. It is supplied by the caller (typically
// backed by internal/analyzer) rather than imported directly, so the
// manager package never depends on the analyzer package. A non-empty
// message indicates a High/Critical finding; err is reserved for checker
// failures unrelated to the script's content (e.g. a parse error).
type PlanChecker func(script sources.Script) (message string, err error)

// Manager drives version planning and transactional execution over an
// injected Sources tree, driver.Factory, and DialectHooks implementation.
type Manager struct {
	sources sources.Sources
	factory driver.Factory
	hooks   DialectHooks
	logger  Logger

	versionTableName string
	steps            *StepRegistry
	checker          PlanChecker
	force            bool
	locker           driver.Locker
	runIDFunc        func() string
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithVersionTableName overrides DefaultVersionTableName.
func WithVersionTableName(name string) Option {
	return func(m *Manager) { m.versionTableName = name }
}

// WithStepHandlers registers StepHandlers keyed by sources.Kind, used to
// dispatch JavaScript-kind scripts. A kind with no registered handler fails
// fast with ErrNoStepHandler when a script of that kind is encountered.
func WithStepHandlers(handlers map[sources.Kind]StepHandler) Option {
	return func(m *Manager) { m.steps = NewStepRegistry(handlers) }
}

// WithPlanChecker wires a dangerous-statement gate run over the filtered
// install plan before any transaction opens.
func WithPlanChecker(checker PlanChecker) Option {
	return func(m *Manager) { m.checker = checker }
}

// WithForce disables the PlanChecker's abort behavior: findings are logged
// as warnings instead of failing Install.
func WithForce(force bool) Option {
	return func(m *Manager) { m.force = force }
}

// WithLocker serializes concurrent Install/Rollback invocations against the
// same database via an advisory lock, held for the whole call.
func WithLocker(locker driver.Locker) Option {
	return func(m *Manager) { m.locker = locker }
}

// WithRunIDFunc overrides the default google/uuid-backed run ID generator,
// primarily so tests can supply deterministic IDs.
func WithRunIDFunc(fn func() string) Option {
	return func(m *Manager) { m.runIDFunc = fn }
}

// New builds a Manager over src, driven through factory, with hooks
// supplying the dialect-specific operations.
func New(src sources.Sources, factory driver.Factory, hooks DialectHooks, logger Logger, opts ...Option) *Manager {
	m := &Manager{
		sources:          src,
		factory:          factory,
		hooks:            hooks,
		logger:           logger,
		versionTableName: DefaultVersionTableName,
		runIDFunc:        func() string { return uuid.NewString() },
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// VersionTableName returns the configured version table name.
func (m *Manager) VersionTableName() string {
	return m.versionTableName
}

// Sources returns the Manager's injected Sources tree.
func (m *Manager) Sources() sources.Sources {
	return m.sources
}

// CurrentVersion reports the highest installed version via a short-lived,
// non-transactional connection, or ("", false, nil) if none is installed.
func (m *Manager) CurrentVersion(ctx context.Context) (string, bool, error) {
	var (
		version string
		found   bool
	)

	err := m.factory.UsingProvider(ctx, func(p driver.Provider) error {
		v, ok, err := m.hooks.GetCurrentVersion(ctx, p)
		version, found = v, ok

		return err
	})
	if err != nil {
		return "", false, err
	}

	return version, found, nil
}

// checkCancelled is called when Install or Rollback starts and before each
// version's transaction and each script. Other blocking calls (transaction
// begin and commit, dialect hooks, statements, step handlers) receive ctx
// directly; a cancellation they observe is returned as their own error, not
// wrapped in ErrCancelled.
func checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	return nil
}

// withLock runs fn holding the configured advisory lock for its whole
// duration, or runs it unguarded if no Locker was configured.
func (m *Manager) withLock(ctx context.Context, fn func() error) error {
	if m.locker == nil {
		return fn()
	}

	unlock, err := m.locker.TryLock(ctx)
	if err != nil {
		return fmt.Errorf("acquiring migration lock: %w", err)
	}

	defer func() { _ = unlock.Unlock(ctx) }()

	return fn()
}

// runScript dispatches a single script by kind, shared by Install and
// Rollback.
func (m *Manager) runScript(ctx context.Context, p driver.Provider, log *captureLogger, version string, script sources.Script) error {
	switch script.Kind {
	case sources.SQL:
		log.Info("Execute SQL script: " + script.Name)
		log.Trace("\n" + script.Content)

		if err := p.Statement(script.Content).Execute(ctx); err != nil {
			return fmt.Errorf("executing script %s:%s: %w", version, script.Name, err)
		}

		return nil
	case sources.JavaScript:
		handler, ok := m.steps.Lookup(sources.JavaScript)
		if !ok {
			return fmt.Errorf("script %s:%s: %w", version, script.Name, ErrNoStepHandler)
		}

		log.Info("Execute script: " + script.Name)

		if err := handler.Run(ctx, p, log); err != nil {
			return fmt.Errorf("executing script %s:%s: %w", version, script.Name, err)
		}

		return nil
	default:
		log.Warn(fmt.Sprintf("Skip script '%s:%s' due unknown kind of script", version, script.Name))

		return nil
	}
}
