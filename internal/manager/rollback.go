package manager

import (
	"context"
	"fmt"

	"github.com/aqasim81/database-migration-engine/internal/driver"
)

// RollbackPlan computes the ordered set of versions Rollback would run for
// target, without executing anything. A nil target means "roll back
// everything installed".
func (m *Manager) RollbackPlan(ctx context.Context, target *string) ([]string, error) {
	current, hasCurrent, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading current version: %w", err)
	}

	t, hasTarget := "", false
	if target != nil {
		t, hasTarget = *target, true
	}

	return rollbackPlan(m.sources.VersionNames(), current, hasCurrent, t, hasTarget), nil
}

// Rollback brings the database backward to target (or removes everything
// installed if target is nil), executing each selected version's rollback
// scripts inside its own transaction, in descending version order. A
// version whose log row is absent is skipped with a warning rather than
// failing the call.
func (m *Manager) Rollback(ctx context.Context, target *string) error {
	if err := checkCancelled(ctx); err != nil {
		return err
	}

	return m.withLock(ctx, func() error { return m.rollback(ctx, target) })
}

func (m *Manager) rollback(ctx context.Context, target *string) error {
	plan, err := m.RollbackPlan(ctx, target)
	if err != nil {
		return err
	}

	for _, v := range plan {
		if err := checkCancelled(ctx); err != nil {
			return err
		}

		if err := m.rollbackVersion(ctx, v); err != nil {
			return fmt.Errorf("rolling back version %s: %w", v, err)
		}
	}

	return nil
}

func (m *Manager) rollbackVersion(ctx context.Context, version string) error {
	bundle, err := m.sources.GetVersionBundle(version)
	if err != nil {
		return err
	}

	runID := m.runIDFunc()
	clog := newCaptureLogger(m.logger, version)
	clog.Info(fmt.Sprintf("Starting rollback of version %s (run %s)", version, runID))

	names := bundle.RollbackScriptNames()
	reverseStrings(names)

	return m.factory.UsingProviderWithTransaction(ctx, func(p driver.Provider) error {
		exist, err := m.hooks.IsVersionLogExist(ctx, p, version)
		if err != nil {
			return err
		}

		if !exist {
			clog.Warn(fmt.Sprintf("Skip rollback for version '%s' due this does not present inside database.", version))

			return nil
		}

		for _, name := range names {
			if err := checkCancelled(ctx); err != nil {
				return err
			}

			script := bundle.RollbackScripts[name]
			if err := m.runScript(ctx, p, clog, version, script); err != nil {
				return err
			}
		}

		return m.hooks.RemoveVersionLog(ctx, p, version)
	})
}
