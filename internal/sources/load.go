package sources

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Load dispatches on uri's scheme and builds a Sources tree. Only the file
// scheme is implemented; the http+tar+gz/https+tar+gz schemes are recognized
// but deferred, and anything else is rejected outright.
func Load(ctx context.Context, rawURI string) (Sources, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return Sources{}, fmt.Errorf("parsing source uri %q: %w", rawURI, err)
	}

	switch u.Scheme {
	case "file", "":
		return loadFromFilesystem(ctx, u.Path)
	case "http+tar+gz", "https+tar+gz":
		return Sources{}, fmt.Errorf("scheme %q: %w", u.Scheme, ErrNotImplemented)
	default:
		return Sources{}, fmt.Errorf("scheme %q: %w", u.Scheme, ErrNotSupportedURLSchema)
	}
}

// LoadFromFilesystem loads a Sources tree rooted at dir, without going
// through URI parsing. Exported so callers who already have a directory path
// (e.g. the CLI's --migrations-dir flag) can skip building a file: URI.
func LoadFromFilesystem(ctx context.Context, dir string) (Sources, error) {
	return loadFromFilesystem(ctx, dir)
}

func loadFromFilesystem(ctx context.Context, rootDir string) (Sources, error) {
	if _, err := os.Stat(rootDir); err != nil {
		if os.IsNotExist(err) {
			return Sources{}, fmt.Errorf("migration directory %q is not exist: %w", rootDir, ErrWrongMigrationData)
		}

		return Sources{}, fmt.Errorf("stat migration directory %q: %w", rootDir, err)
	}

	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return Sources{}, fmt.Errorf("reading migration directory %q: %w", rootDir, err)
	}

	versions := make(map[string]VersionBundle)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return Sources{}, fmt.Errorf("loading sources: %w", err)
		}

		if !entry.IsDir() {
			continue
		}

		versionName := entry.Name()
		versionDir := filepath.Join(rootDir, versionName)

		install, err := loadDirectionScripts(ctx, versionDir, "install")
		if err != nil {
			return Sources{}, err
		}

		rollback, err := loadDirectionScripts(ctx, versionDir, "rollback")
		if err != nil {
			return Sources{}, err
		}

		versions[versionName] = newVersionBundle(versionName, install, rollback)
	}

	return New(versions), nil
}

// loadDirectionScripts reads all regular files under versionDir/subdir. A
// missing subdir yields an empty set rather than an error.
func loadDirectionScripts(ctx context.Context, versionDir, subdir string) (map[string]Script, error) {
	dir := filepath.Join(versionDir, subdir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Script{}, nil
		}

		return nil, fmt.Errorf("reading %s directory %q: %w", subdir, dir, err)
	}

	scripts := make(map[string]Script, len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("loading %s scripts: %w", subdir, err)
		}

		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading script %q: %w", path, err)
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}

		scripts[entry.Name()] = Script{
			Name:    entry.Name(),
			Kind:    kindForExtension(entry.Name()),
			File:    absPath,
			Content: string(content),
		}
	}

	return scripts, nil
}
