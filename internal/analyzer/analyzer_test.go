package analyzer_test

import (
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/database-migration-engine/internal/analyzer"
	"github.com/aqasim81/database-migration-engine/internal/parser"
	"github.com/aqasim81/database-migration-engine/internal/sources"
)

// stubRule is a test rule that always returns a finding.
type stubRule struct{}

func (r *stubRule) ID() string { return "test-stub" }

func (r *stubRule) Check(_ *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	return []analyzer.Finding{{
		Rule:      r.ID(),
		Severity:  analyzer.High,
		Message:   "stub finding",
		StmtIndex: ctx.StmtIndex,
	}}
}

func sqlScript(name, content string) sources.Script {
	return sources.Script{Name: name, Kind: sources.SQL, Content: content}
}

func TestAnalyzeScript_safeScript_noFindings(t *testing.T) {
	t.Parallel()

	s := sqlScript("01-create_users.sql", "CREATE TABLE users (id BIGSERIAL PRIMARY KEY);")

	a := analyzer.New() // no rules registered

	result, err := a.AnalyzeScript(s)
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
	assert.Equal(t, analyzer.Safe, result.MaxSeverity)
}

func TestAnalyzeScript_withStubRule_returnsFindings(t *testing.T) {
	t.Parallel()

	s := sqlScript("01-create_users.sql", "CREATE TABLE users (id BIGSERIAL PRIMARY KEY);")

	registry := analyzer.NewRegistry()
	registry.Register(&stubRule{})

	a := analyzer.New(analyzer.WithRegistry(registry))

	result, err := a.AnalyzeScript(s)
	require.NoError(t, err)
	assert.Len(t, result.Findings, 1)
	assert.Equal(t, analyzer.High, result.MaxSeverity)
	assert.Equal(t, "test-stub", result.Findings[0].Rule)
}

func TestAnalyzeScript_invalidSQL_returnsError(t *testing.T) {
	t.Parallel()

	s := sqlScript("01-bad.sql", "NOT VALID SQL AT ALL;;;")

	a := analyzer.New()

	_, err := a.AnalyzeScript(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing script 01-bad.sql")
}

func TestAnalyzeScript_emptyScript_noFindings(t *testing.T) {
	t.Parallel()

	s := sqlScript("01-empty.sql", "")

	a := analyzer.New()

	result, err := a.AnalyzeScript(s)
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
	assert.Equal(t, analyzer.Safe, result.MaxSeverity)
}

func TestAnalyzeScript_nonSQLKind_skippedWithoutParsing(t *testing.T) {
	t.Parallel()

	s := sources.Script{Name: "01-seed.js", Kind: sources.JavaScript, Content: "not SQL at all"}

	a := analyzer.New()

	result, err := a.AnalyzeScript(s)
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
	assert.Equal(t, analyzer.Safe, result.MaxSeverity)
}

func TestAnalyzeScripts_multipleScripts_correctResultCount(t *testing.T) {
	t.Parallel()

	scripts := []sources.Script{
		sqlScript("01-first.sql", "CREATE TABLE a (id INT);"),
		sqlScript("02-second.sql", "CREATE TABLE b (id INT);"),
	}

	a := analyzer.New()

	results, err := a.AnalyzeScripts(scripts)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestAnalyzeScripts_errorInOne_returnsWrappedError(t *testing.T) {
	t.Parallel()

	scripts := []sources.Script{
		sqlScript("01-good.sql", "CREATE TABLE a (id INT);"),
		sqlScript("02-bad.sql", "INVALID SQL;;;"),
	}

	a := analyzer.New()

	_, err := a.AnalyzeScripts(scripts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing script 02-bad.sql")
}

func TestAnalyzeScript_multiStatement_runsRulesOnEach(t *testing.T) {
	t.Parallel()

	s := sqlScript("01-multi.sql", "CREATE TABLE a (id INT); CREATE TABLE b (id INT);")

	registry := analyzer.NewRegistry()
	registry.Register(&stubRule{})

	a := analyzer.New(analyzer.WithRegistry(registry))

	result, err := a.AnalyzeScript(s)
	require.NoError(t, err)
	assert.Len(t, result.Findings, 2)
	assert.Equal(t, 0, result.Findings[0].StmtIndex)
	assert.Equal(t, 1, result.Findings[1].StmtIndex)
}

func TestAnalyzeScript_populatesStatementField(t *testing.T) {
	t.Parallel()

	s := sqlScript("01-users.sql", "CREATE TABLE users (id BIGSERIAL PRIMARY KEY);")

	registry := analyzer.NewRegistry()
	registry.Register(&stubRule{})

	a := analyzer.New(analyzer.WithRegistry(registry))

	result, err := a.AnalyzeScript(s)
	require.NoError(t, err)
	require.Len(t, result.Findings, 1)
	assert.NotEmpty(t, result.Findings[0].Statement)
	assert.Contains(t, result.Findings[0].Statement, "CREATE TABLE users")
}

func TestWithPGVersion_setsVersion(t *testing.T) {
	t.Parallel()

	s := sqlScript("01-a.sql", "CREATE TABLE a (id INT);")

	// Use a rule that captures the PG version from context
	capturedVersion := 0
	capturingRule := &versionCapturingRule{captured: &capturedVersion}

	registry := analyzer.NewRegistry()
	registry.Register(capturingRule)

	a := analyzer.New(
		analyzer.WithRegistry(registry),
		analyzer.WithPGVersion(10), //nolint:mnd // test value
	)

	_, err := a.AnalyzeScript(s)
	require.NoError(t, err)
	assert.Equal(t, 10, capturedVersion)
}

func TestWithParser_overridesParser(t *testing.T) {
	t.Parallel()

	customParseCalled := false
	customParse := func(sql string) (*parser.ParseResult, error) {
		customParseCalled = true
		return parser.Parse(sql)
	}

	s := sqlScript("01-a.sql", "CREATE TABLE a (id INT);")

	a := analyzer.New(analyzer.WithParser(customParse))

	_, err := a.AnalyzeScript(s)
	require.NoError(t, err)
	assert.True(t, customParseCalled)
}

// versionCapturingRule captures the PG version from context for testing.
type versionCapturingRule struct {
	captured *int
}

func (r *versionCapturingRule) ID() string { return "version-capture" }

func (r *versionCapturingRule) Check(_ *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	*r.captured = ctx.TargetPGVersion
	return nil
}
