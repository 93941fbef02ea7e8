package manager

import (
	"context"
	"fmt"

	"github.com/aqasim81/database-migration-engine/internal/driver"
	"github.com/aqasim81/database-migration-engine/internal/sources"
)

// InstallPlan computes the ordered set of versions Install would run for
// target, without executing anything. A nil target means "install
// everything pending".
func (m *Manager) InstallPlan(ctx context.Context, target *string) ([]string, error) {
	current, hasCurrent, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading current version: %w", err)
	}

	t, hasTarget := "", false
	if target != nil {
		t, hasTarget = *target, true
	}

	return installPlan(m.sources.VersionNames(), current, hasCurrent, t, hasTarget), nil
}

// Install brings the database forward to target (or to the latest available
// version if target is nil), executing each pending version's install
// scripts inside its own transaction, in ascending version order.
func (m *Manager) Install(ctx context.Context, target *string) error {
	if err := checkCancelled(ctx); err != nil {
		return err
	}

	return m.withLock(ctx, func() error { return m.install(ctx, target) })
}

func (m *Manager) install(ctx context.Context, target *string) error {
	plan, err := m.InstallPlan(ctx, target)
	if err != nil {
		return err
	}

	if err := m.checkPlan(plan); err != nil {
		return err
	}

	if err := m.ensureVersionTable(ctx); err != nil {
		return fmt.Errorf("preparing version table: %w", err)
	}

	for _, v := range plan {
		if err := checkCancelled(ctx); err != nil {
			return err
		}

		if err := m.installVersion(ctx, v); err != nil {
			return fmt.Errorf("installing version %s: %w", v, err)
		}
	}

	return nil
}

func (m *Manager) installVersion(ctx context.Context, version string) error {
	bundle, err := m.sources.GetVersionBundle(version)
	if err != nil {
		return err
	}

	runID := m.runIDFunc()
	clog := newCaptureLogger(m.logger, version)
	clog.Info(fmt.Sprintf("Starting install of version %s (run %s)", version, runID))

	return m.factory.UsingProviderWithTransaction(ctx, func(p driver.Provider) error {
		for _, name := range bundle.InstallScriptNames() {
			if err := checkCancelled(ctx); err != nil {
				return err
			}

			script := bundle.InstallScripts[name]
			if err := m.runScript(ctx, p, clog, version, script); err != nil {
				return err
			}
		}

		return m.hooks.InsertVersionLog(ctx, p, version, runID, clog.Flush())
	})
}

// ensureVersionTable creates the version table if absent, or verifies an
// existing one's structure, via a short-lived non-transactional connection.
func (m *Manager) ensureVersionTable(ctx context.Context) error {
	return m.factory.UsingProvider(ctx, func(p driver.Provider) error {
		exist, err := m.hooks.IsVersionTableExist(ctx, p)
		if err != nil {
			return err
		}

		if !exist {
			return m.hooks.CreateVersionTable(ctx, p)
		}

		return m.hooks.VerifyVersionTableStructure(ctx, p)
	})
}

// checkPlan runs the configured PlanChecker over every SQL-kind install
// script in plan before any transaction opens, aborting on the first
// High/Critical finding unless WithForce was set.
func (m *Manager) checkPlan(plan []string) error {
	if m.checker == nil {
		return nil
	}

	for _, v := range plan {
		bundle, err := m.sources.GetVersionBundle(v)
		if err != nil {
			return err
		}

		for _, name := range bundle.InstallScriptNames() {
			script := bundle.InstallScripts[name]
			if script.Kind != sources.SQL {
				continue
			}

			message, err := m.checker(script)
			if err != nil {
				return fmt.Errorf("checking plan for %s:%s: %w", v, name, err)
			}

			if message == "" {
				continue
			}

			if !m.force {
				return fmt.Errorf("%s:%s: %s: %w", v, name, message, ErrDangerousPlan)
			}

			m.logger.Warn(fmt.Sprintf("%s:%s: %s (continuing, force enabled)", v, name, message))
		}
	}

	return nil
}
