package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aqasim81/database-migration-engine/internal/sources"
)

var rollbackCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "rollback",
	Short: "Roll back installed migration versions",
	Long: `Roll back the database down to the target version (or remove every
installed version when --target is omitted), running each installed
version's rollback scripts in reverse order under a dedicated transaction.`,
	RunE: runRollback,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rollbackCmd.Flags().String("target", "", "roll back down to, but not including, this version")
	rootCmd.AddCommand(rollbackCmd)
}

func runRollback(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	ctx := cmdContext(cmd)

	src, err := sources.LoadFromFilesystem(ctx, cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}

	pool, err := connectPool(ctx, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer pool.Close()

	m, err := buildPostgresManager(src, pool, cfg, false)
	if err != nil {
		return fmt.Errorf("building manager: %w", err)
	}

	target, err := targetFlag(cmd)
	if err != nil {
		return err
	}

	if err := m.Rollback(ctx, target); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}

	version, found, err := m.CurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading current version: %w", err)
	}

	if !found {
		fmt.Fprintln(cmd.OutOrStdout(), "Rollback complete: no versions remain installed.")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Rollback complete: now at version %s.\n", version)
	}

	return nil
}
