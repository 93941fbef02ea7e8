package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// SaveToFilesystem writes every version's scripts to destDir, recreating the
// install/<name>.sql and rollback/<name>.sql layout Load expects. destDir
// must already exist and be writable; the engine only creates the
// per-version and per-direction subdirectories beneath it.
func (s Sources) SaveToFilesystem(ctx context.Context, destDir string) error {
	info, err := os.Stat(destDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("destinationDirectory %q does not exist: %w", destDir, ErrInvalidArgument)
		}

		return fmt.Errorf("stat destination directory %q: %w", destDir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("destinationDirectory %q is not a directory: %w", destDir, ErrInvalidArgument)
	}

	for _, versionName := range s.VersionNames() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("saving sources: %w", err)
		}

		bundle := s.versions[versionName]

		if err := saveDirection(ctx, destDir, versionName, "install", bundle.InstallScripts); err != nil {
			return err
		}

		if err := saveDirection(ctx, destDir, versionName, "rollback", bundle.RollbackScripts); err != nil {
			return err
		}
	}

	return nil
}

func saveDirection(ctx context.Context, destDir, versionName, subdir string, scripts map[string]Script) error {
	dir := filepath.Join(destDir, versionName, subdir)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("saving %s scripts: %w", subdir, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}

	names := make([]string, 0, len(scripts))
	for n := range scripts {
		names = append(names, n)
	}

	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("saving %s scripts: %w", subdir, err)
		}

		path := filepath.Join(dir, name)

		if err := os.WriteFile(path, []byte(scripts[name].Content), 0o644); err != nil { //nolint:gosec // migration scripts are not secrets
			return fmt.Errorf("writing script %q: %w", path, err)
		}
	}

	return nil
}
