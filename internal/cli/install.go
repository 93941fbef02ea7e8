package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/aqasim81/database-migration-engine/internal/analyzer"
	"github.com/aqasim81/database-migration-engine/internal/analyzer/rules"
	"github.com/aqasim81/database-migration-engine/internal/config"
	pgdialect "github.com/aqasim81/database-migration-engine/internal/dialect/postgres"
	pgdriver "github.com/aqasim81/database-migration-engine/internal/driver/postgres"
	"github.com/aqasim81/database-migration-engine/internal/logging"
	"github.com/aqasim81/database-migration-engine/internal/manager"
	"github.com/aqasim81/database-migration-engine/internal/sources"
)

// errDatabaseURLRequired is returned when no database URL is configured.
var errDatabaseURLRequired = errors.New( //nolint:gochecknoglobals // sentinel error
	"database URL is required (set --database-url, MIGRATE_DATABASE_URL, or database_url in config)",
)

var installCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "install",
	Short: "Install pending migration versions",
	Long: `Install advances the database to the target version (or the latest
available version when --target is omitted), running every install script
in each pending version under a dedicated transaction.`,
	RunE: runInstall,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	installCmd.Flags().String("target", "", "install up to and including this version")
	installCmd.Flags().Bool("force", false, "proceed even when the plan checker reports findings")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, _ []string) error {
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

	force, _ := cmd.Flags().GetBool("force")

	m, err := buildPostgresManager(src, pool, cfg, force)
	if err != nil {
		return fmt.Errorf("building manager: %w", err)
	}

	target, err := targetFlag(cmd)
	if err != nil {
		return err
	}

	if err := m.Install(ctx, target); err != nil {
		return fmt.Errorf("install: %w", err)
	}

	version, found, err := m.CurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading current version: %w", err)
	}

	if !found {
		fmt.Fprintln(cmd.OutOrStdout(), "Install complete: no versions installed.")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Install complete: now at version %s.\n", version)
	}

	return nil
}

// cmdContext returns cmd's context, or context.Background if it has none set.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// targetFlag reads the --target flag, returning nil when it was left unset
// (meaning "latest available version").
func targetFlag(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("target") {
		return nil, nil //nolint:nilnil // nil target means "latest"
	}

	v, err := cmd.Flags().GetString("target")
	if err != nil {
		return nil, fmt.Errorf("reading --target flag: %w", err)
	}

	return &v, nil
}

// connectPool opens a pgxpool against cfg.DatabaseURL, echoing a redacted
// connection string to out.
func connectPool(ctx context.Context, cfg *config.Config, out io.Writer) (*pgxpool.Pool, error) {
	fmt.Fprintf(out, "Connecting to %s\n", config.RedactURL(cfg.DatabaseURL))

	pool, err := pgdriver.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return pool, nil
}

// buildPostgresManager wires a pgdialect.Postgres over pool: structured
// logging, an analyzer-backed plan checker gated by force, and an advisory
// lock serializing concurrent Install/Rollback calls against the database.
func buildPostgresManager(src sources.Sources, pool *pgxpool.Pool, cfg *config.Config, force bool) (*pgdialect.Postgres, error) {
	logger, err := logging.NewProduction()
	if err != nil {
		return nil, err
	}

	factory := pgdriver.NewFactory(pool,
		pgdriver.WithLockTimeout(cfg.LockTimeout),
		pgdriver.WithStatementTimeout(cfg.StatementTimeout),
	)

	checker := analyzerPlanChecker(cfg.TargetPGVersion)

	return pgdialect.New(src, factory, logger,
		manager.WithPlanChecker(checker),
		manager.WithForce(force),
		manager.WithLocker(pgdriver.NewAdvisoryLock(pool, 0)),
	), nil
}

// analyzerPlanChecker adapts internal/analyzer into a manager.PlanChecker,
// reporting the first High/Critical finding's message.
func analyzerPlanChecker(pgVersion int) manager.PlanChecker {
	a := analyzer.New(
		analyzer.WithRegistry(rules.NewDefaultRegistry()),
		analyzer.WithPGVersion(pgVersion),
	)

	return func(script sources.Script) (string, error) {
		result, err := a.AnalyzeScript(script)
		if err != nil {
			return "", fmt.Errorf("analyzing script %s: %w", script.Name, err)
		}

		if !result.HasHighOrCritical() {
			return "", nil
		}

		for _, f := range result.Findings {
			if f.Severity >= analyzer.High {
				return fmt.Sprintf("%s: %s (%s)", script.Name, f.Message, f.Rule), nil
			}
		}

		return "", nil
	}
}
