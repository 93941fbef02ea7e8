package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pgdialect "github.com/aqasim81/database-migration-engine/internal/dialect/postgres"
	pgdriver "github.com/aqasim81/database-migration-engine/internal/driver/postgres"
	"github.com/aqasim81/database-migration-engine/internal/sources"
)

var planCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "plan",
	Short: "Show the install or rollback plan without executing it",
	Long: `Display the ordered set of versions an install or rollback call
would act on, given --target, without running any script.`,
	RunE: runPlan,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	planCmd.Flags().String("target", "", "plan toward this version")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
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

	target, err := targetFlag(cmd)
	if err != nil {
		return err
	}

	installs, err := d.InstallPlan(ctx, target)
	if err != nil {
		return fmt.Errorf("computing install plan: %w", err)
	}

	rollbacks, err := d.RollbackPlan(ctx, target)
	if err != nil {
		return fmt.Errorf("computing rollback plan: %w", err)
	}

	printPlan(cmd, installs, rollbacks)

	return nil
}

func printPlan(cmd *cobra.Command, installs, rollbacks []string) {
	out := cmd.OutOrStdout()

	if len(installs) == 0 && len(rollbacks) == 0 {
		fmt.Fprintln(out, "Nothing to do.")
		return
	}

	if len(installs) > 0 {
		fmt.Fprintf(out, "Install plan (%d version(s)):\n", len(installs))

		for _, v := range installs {
			fmt.Fprintf(out, "  + %s\n", v)
		}
	}

	if len(rollbacks) > 0 {
		fmt.Fprintf(out, "Rollback plan (%d version(s)):\n", len(rollbacks))

		for _, v := range rollbacks {
			fmt.Fprintf(out, "  - %s\n", v)
		}
	}
}
