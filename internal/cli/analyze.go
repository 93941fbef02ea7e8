package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aqasim81/database-migration-engine/internal/analyzer"
	"github.com/aqasim81/database-migration-engine/internal/analyzer/rules"
	"github.com/aqasim81/database-migration-engine/internal/sources"
)

var analyzeCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "analyze [sources-dir]",
	Short: "Analyze install scripts for dangerous operations",
	Long: `Analyze every SQL-kind install script for dangerous DDL operations
that could cause table locks, downtime, or data loss. Reports findings with
severity levels and suggests safe alternatives.`,
	RunE: runAnalyze,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	analyzeCmd.Flags().String("format", "text", "output format (text, json, github-actions)")
	analyzeCmd.Flags().Bool("fail-on-high", false, "exit with non-zero code if high/critical findings exist")
	rootCmd.AddCommand(analyzeCmd)
}

// errHighSeverityFindings is returned when --fail-on-high is set and high/critical findings exist.
var errHighSeverityFindings = errors.New("high or critical severity findings detected")

// labeledResult pairs an AnalysisResult with the "version/script" label used
// to identify it in output, since sources.Script carries no version name of
// its own.
type labeledResult struct {
	label  string
	result analyzer.AnalysisResult
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	dir := AppConfig.MigrationsDir
	if len(args) > 0 {
		dir = args[0]
	}

	ctx := cmdContext(cmd)

	src, err := sources.LoadFromFilesystem(ctx, dir)
	if err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}

	if src.Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No migration files found.")
		return nil
	}

	a := analyzer.New(
		analyzer.WithRegistry(rules.NewDefaultRegistry()),
		analyzer.WithPGVersion(AppConfig.TargetPGVersion),
	)

	results, err := analyzeInstallScripts(a, src)
	if err != nil {
		return fmt.Errorf("analyzing scripts: %w", err)
	}

	hasHighOrCritical := printAnalysisResults(cmd, results)

	failOnHigh, _ := cmd.Flags().GetBool("fail-on-high")
	if failOnHigh && hasHighOrCritical {
		return errHighSeverityFindings
	}

	return nil
}

// analyzeInstallScripts runs a over every install script across every
// version, in version then script-name order.
func analyzeInstallScripts(a *analyzer.Analyzer, src sources.Sources) ([]labeledResult, error) {
	var out []labeledResult

	for _, versionName := range src.VersionNames() {
		bundle, err := src.GetVersionBundle(versionName)
		if err != nil {
			return nil, err
		}

		for _, name := range bundle.InstallScriptNames() {
			script := bundle.InstallScripts[name]

			result, err := a.AnalyzeScript(script)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", versionName, name, err)
			}

			out = append(out, labeledResult{label: versionName + "/" + name, result: *result})
		}
	}

	return out, nil
}

func printAnalysisResults(cmd *cobra.Command, results []labeledResult) bool {
	out := cmd.OutOrStdout()
	totalFindings := 0
	hasHighOrCritical := false

	for _, lr := range results {
		r := lr.result
		if len(r.Findings) == 0 {
			continue
		}

		fmt.Fprintf(out, "\n=== %s ===\n", lr.label)

		for _, f := range r.Findings {
			fmt.Fprintf(out, "  [%s] %s\n", f.Severity, f.Message)
			fmt.Fprintf(out, "    Table: %s\n", f.Table)
			fmt.Fprintf(out, "    Rule:  %s\n", f.Rule)

			if f.Statement != "" {
				fmt.Fprintf(out, "    SQL:   %s\n", f.Statement)
			}

			fmt.Fprintf(out, "    Fix:   %s\n\n", f.Suggestion)
		}

		totalFindings += len(r.Findings)

		if r.HasHighOrCritical() {
			hasHighOrCritical = true
		}
	}

	if totalFindings == 0 {
		fmt.Fprintln(out, "No dangerous operations detected.")
	} else {
		fmt.Fprintf(out, "Found %d finding(s) across %d script(s).\n", totalFindings, countScriptsWithFindings(results))
	}

	return hasHighOrCritical
}

func countScriptsWithFindings(results []labeledResult) int {
	count := 0

	for _, lr := range results {
		if len(lr.result.Findings) > 0 {
			count++
		}
	}

	return count
}
