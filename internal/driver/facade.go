// Package driver defines the narrow database contract the manager package
// consumes. Concrete implementations live in driver/postgres and
// driver/sqlite; driver itself has no third-party dependency.
package driver

import "context"

// Statement is a single prepared SQL text bound to a Provider.
type Statement interface {
	// Execute runs the statement with the given positional parameters,
	// returning once the database has acknowledged completion.
	Execute(ctx context.Context, args ...any) error
}

// Provider is a live connection (or transaction) capable of producing
// Statements. It is the only surface the manager touches.
type Provider interface {
	Statement(sql string) Statement
}

// Worker is the unit of work run under a scoped Provider acquisition.
type Worker func(Provider) error

// Factory creates Providers and brackets their lifetime.
type Factory interface {
	// Create returns a short-lived, non-transactional Provider. The caller
	// is responsible for any cleanup the concrete implementation documents.
	Create(ctx context.Context) (Provider, error)

	// UsingProvider acquires a Provider, runs worker, and guarantees the
	// Provider is released on every exit path (success, error, or
	// cancellation).
	UsingProvider(ctx context.Context, worker Worker) error

	// UsingProviderWithTransaction is as UsingProvider but additionally opens
	// a transaction before worker runs: it commits iff worker returns nil,
	// otherwise it rolls back, in both cases before the Provider is released.
	UsingProviderWithTransaction(ctx context.Context, worker Worker) error
}

// Locker guards a critical section shared by concurrent processes (e.g.
// several `migrate install` invocations racing against the same database).
// It is an optional capability a Factory's backing store may supply; the
// manager package only depends on this interface, never on a concrete lock
// implementation.
type Locker interface {
	// TryLock acquires the lock or fails immediately (it never blocks
	// waiting for a contended lock). The returned Unlocker releases it.
	TryLock(ctx context.Context) (Unlocker, error)
}

// Unlocker releases a lock acquired through a Locker.
type Unlocker interface {
	Unlock(ctx context.Context) error
}
