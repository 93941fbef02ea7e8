package sources

import "path/filepath"

// Kind classifies a Script by its filename extension, which in turn
// determines how the manager executes it.
type Kind int

const (
	// Unknown is any extension the engine does not recognize. Scripts of
	// this kind are skipped with a warning rather than executed.
	Unknown Kind = iota
	// SQL scripts are submitted to the driver as a single statement.
	SQL
	// JavaScript scripts are dispatched to a registered step handler.
	JavaScript
)

// String returns the uppercase label used in warning/info log lines.
func (k Kind) String() string {
	switch k {
	case SQL:
		return "SQL"
	case JavaScript:
		return "JAVASCRIPT"
	default:
		return "UNKNOWN"
	}
}

// kindForExtension derives a Kind from a filename, matching case-sensitively
// against the literal extension sets the spec mandates. Anything else is Unknown.
func kindForExtension(name string) Kind {
	switch filepath.Ext(name) {
	case ".sql":
		return SQL
	case ".js":
		return JavaScript
	default:
		return Unknown
	}
}

// Script is one migration file: its name within a direction directory, its
// kind, its absolute origin path, and its textual content. Script is
// immutable — transforms (Sources.Map) return new Script values rather than
// mutating existing ones.
type Script struct {
	Name    string
	Kind    Kind
	File    string
	Content string
}

// withContent returns a copy of s with Content replaced. Name, Kind, and File
// are preserved, matching the invariant that transforms alter content only.
func (s Script) withContent(content string) Script {
	s.Content = content
	return s
}
