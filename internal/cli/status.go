package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pgdialect "github.com/aqasim81/database-migration-engine/internal/dialect/postgres"
	pgdriver "github.com/aqasim81/database-migration-engine/internal/driver/postgres"
	"github.com/aqasim81/database-migration-engine/internal/sources"
)

var statusCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "status",
	Short: "Show migration status",
	Long: `Display the current installed version and the versions still
pending installation.`,
	RunE: runStatus,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	statusCmd.Flags().String("format", "text", "output format (text, json)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
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

	factory := pgdriver.NewFactory(pool)

	d := pgdialect.New(src, factory, noopLogger{})

	version, found, err := d.CurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading current version: %w", err)
	}

	pending, err := d.InstallPlan(ctx, nil)
	if err != nil {
		return fmt.Errorf("computing pending versions: %w", err)
	}

	out := cmd.OutOrStdout()

	if !found {
		fmt.Fprintln(out, "Current version: (none installed)")
	} else {
		fmt.Fprintf(out, "Current version: %s\n", version)
	}

	if len(pending) == 0 {
		fmt.Fprintln(out, "Pending versions: none")
	} else {
		fmt.Fprintf(out, "Pending versions (%d):\n", len(pending))

		for _, v := range pending {
			fmt.Fprintf(out, "  %s\n", v)
		}
	}

	return nil
}

// noopLogger discards all output; used by read-only commands (status, plan)
// that have no install/rollback narration to report.
type noopLogger struct{}

func (noopLogger) Trace(...any) {}
func (noopLogger) Info(...any)  {}
func (noopLogger) Warn(...any)  {}
