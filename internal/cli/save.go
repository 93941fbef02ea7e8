package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aqasim81/database-migration-engine/internal/sources"
)

var errMalformedVar = fmt.Errorf("--var must be in key=value form")

var saveCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "save <src-uri> <dest-dir>",
	Short: "Materialize a source tree to a local directory",
	Long: `Load a Sources tree from src-uri, optionally expanding every script
as a Go text/template against --var substitutions, and write the result to
dest-dir as a plain version/install|rollback/script-name tree.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // src-uri and dest-dir
	RunE: runSave,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	saveCmd.Flags().StringArray("var", nil, "template variable in key=value form, may be repeated")
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	srcURI, destDir := args[0], args[1]

	ctx := cmdContext(cmd)

	src, err := sources.Load(ctx, srcURI)
	if err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}

	rawVars, _ := cmd.Flags().GetStringArray("var")

	vars, err := parseVars(rawVars)
	if err != nil {
		return err
	}

	if len(vars) > 0 {
		src = src.Map(sources.TemplateMapper(vars))
	}

	if err := src.SaveToFilesystem(ctx, destDir); err != nil {
		return fmt.Errorf("saving sources to %s: %w", destDir, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d version(s) to %s.\n", src.Len(), destDir)

	return nil
}

// parseVars splits each "key=value" entry into the map TemplateMapper expects.
func parseVars(raw []string) (map[string]string, error) {
	vars := make(map[string]string, len(raw))

	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("%q: %w", kv, errMalformedVar)
		}

		vars[k] = v
	}

	return vars, nil
}
