package analyzer

import (
	"fmt"

	"github.com/aqasim81/database-migration-engine/internal/parser"
	"github.com/aqasim81/database-migration-engine/internal/sources"
)

// Option configures the Analyzer.
type Option func(*Analyzer)

// Analyzer runs registered rules against parsed SQL-kind scripts.
type Analyzer struct {
	registry  *Registry
	parseFn   func(string) (*parser.ParseResult, error)
	pgVersion int
}

// New creates a new Analyzer with the given options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		registry:  NewRegistry(),
		parseFn:   parser.Parse,
		pgVersion: 14, //nolint:mnd // default PostgreSQL version
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// WithRegistry sets a custom rule registry.
func WithRegistry(r *Registry) Option {
	return func(a *Analyzer) { a.registry = r }
}

// WithPGVersion sets the target PostgreSQL version.
func WithPGVersion(v int) Option {
	return func(a *Analyzer) { a.pgVersion = v }
}

// WithParser overrides the SQL parser function (useful for testing).
func WithParser(fn func(string) (*parser.ParseResult, error)) Option {
	return func(a *Analyzer) { a.parseFn = fn }
}

// AnalyzeScript parses and analyzes a single SQL-kind script, returning all
// findings. Non-SQL scripts (JavaScript, Unknown) yield an empty,
// Safe-severity result rather than an error — static analysis only applies
// to SQL text.
func (a *Analyzer) AnalyzeScript(s sources.Script) (*AnalysisResult, error) {
	if s.Kind != sources.SQL {
		return &AnalysisResult{Script: s, MaxSeverity: Safe}, nil
	}

	parsed, err := a.parseFn(s.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing script %s: %w", s.Name, err)
	}

	var findings []Finding

	maxSeverity := Safe

	for i, stmt := range parsed.Stmts {
		ctx := &RuleContext{
			Script:          s,
			TargetPGVersion: a.pgVersion,
			StmtIndex:       i,
			SQL:             s.Content,
		}

		stmtSQL := ExtractStmtSQL(parsed.Stmts, i, s.Content)

		for _, rule := range a.registry.Rules() {
			fs := rule.Check(stmt, ctx)
			for j := range fs {
				if fs[j].Statement == "" {
					fs[j].Statement = TruncateSQL(stmtSQL, 200) //nolint:mnd // display truncation width
				}

				if fs[j].Severity > maxSeverity {
					maxSeverity = fs[j].Severity
				}
			}

			findings = append(findings, fs...)
		}
	}

	return &AnalysisResult{
		Script:      s,
		Findings:    findings,
		MaxSeverity: maxSeverity,
	}, nil
}

// AnalyzeScripts analyzes multiple scripts and returns a result for each.
func (a *Analyzer) AnalyzeScripts(scripts []sources.Script) ([]AnalysisResult, error) {
	results := make([]AnalysisResult, 0, len(scripts))

	for _, s := range scripts {
		r, err := a.AnalyzeScript(s)
		if err != nil {
			return nil, err
		}

		results = append(results, *r)
	}

	return results, nil
}
