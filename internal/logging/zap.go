// Package logging adapts go.uber.org/zap to the manager.Logger contract.
package logging

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aqasim81/database-migration-engine/internal/manager"
)

// zapLogger adapts a *zap.SugaredLogger to manager.Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZap wraps an existing *zap.SugaredLogger as a manager.Logger.
func NewZap(sugar *zap.SugaredLogger) manager.Logger {
	return &zapLogger{sugar: sugar}
}

// NewProduction builds a production zap.Logger and wraps it as a
// manager.Logger.
func NewProduction() (manager.Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("building zap logger: %w", err)
	}

	return NewZap(l.Sugar()), nil
}

func (l *zapLogger) Trace(args ...any) { l.sugar.Debug(args...) }
func (l *zapLogger) Info(args ...any)  { l.sugar.Info(args...) }
func (l *zapLogger) Warn(args ...any)  { l.sugar.Warn(args...) }
