package manager

import (
	"context"

	"github.com/aqasim81/database-migration-engine/internal/driver"
	"github.com/aqasim81/database-migration-engine/internal/sources"
)

// StepHandler runs one JavaScript-kind script's body against a live
// Provider. Implementations are precompiled Go, registered ahead of time —
// this replaces an embedded interpreter with the sandboxing an interpreter
// would otherwise need to provide: a handler can only reach what Run passes
// it.
type StepHandler interface {
	Run(ctx context.Context, sql driver.Provider, log Logger) error
}

// StepRegistry maps a sources.Kind to the StepHandler that executes scripts
// of that kind.
type StepRegistry struct {
	handlers map[sources.Kind]StepHandler
}

// NewStepRegistry builds a StepRegistry from an explicit kind->handler map.
func NewStepRegistry(handlers map[sources.Kind]StepHandler) *StepRegistry {
	r := &StepRegistry{handlers: make(map[sources.Kind]StepHandler, len(handlers))}
	for k, h := range handlers {
		r.handlers[k] = h
	}

	return r
}

// Lookup returns the handler registered for kind, if any.
func (r *StepRegistry) Lookup(kind sources.Kind) (StepHandler, bool) {
	if r == nil {
		return nil, false
	}

	h, ok := r.handlers[kind]

	return h, ok
}
