package sources_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/database-migration-engine/internal/sources"
)

func loadSample(t *testing.T) sources.Sources {
	t.Helper()

	root := buildSampleTree(t)

	s, err := sources.LoadFromFilesystem(context.Background(), root)
	require.NoError(t, err)

	return s
}

func TestMap_preservesStructureAndOrdering(t *testing.T) {
	t.Parallel()

	s := loadSample(t)

	visited := map[string]int{}

	transformed := s.Map(func(content string, opts sources.MapOptions) string {
		key := opts.VersionName + "/" + opts.Direction.String() + "/" + opts.ItemName
		visited[key]++

		return opts.VersionName + ":" + opts.ItemName
	})

	assert.Equal(t, s.VersionNames(), transformed.VersionNames())

	for _, vname := range s.VersionNames() {
		orig, err := s.GetVersionBundle(vname)
		require.NoError(t, err)

		mapped, err := transformed.GetVersionBundle(vname)
		require.NoError(t, err)

		assert.Equal(t, orig.InstallScriptNames(), mapped.InstallScriptNames())
		assert.Equal(t, orig.RollbackScriptNames(), mapped.RollbackScriptNames())

		for _, name := range orig.InstallScriptNames() {
			origScript, _ := orig.GetInstallScript(name)
			mappedScript, _ := mapped.GetInstallScript(name)

			assert.Equal(t, origScript.Name, mappedScript.Name)
			assert.Equal(t, origScript.Kind, mappedScript.Kind)
			assert.Equal(t, origScript.File, mappedScript.File)
			assert.Equal(t, vname+":"+name, mappedScript.Content)
		}
	}

	// every script visited exactly once
	for key, count := range visited {
		assert.Equalf(t, 1, count, "script %s visited %d times", key, count)
	}
}

func TestTemplateMapper_expandsVars(t *testing.T) {
	t.Parallel()

	s := sources.New(map[string]sources.VersionBundle{})
	_ = s // template mapper is exercised directly below

	mapper := sources.TemplateMapper(map[string]string{"Schema": "tenant_a"})

	out := mapper("CREATE SCHEMA {{.Vars.Schema}};", sources.MapOptions{
		VersionName: "v0001",
		Direction:   sources.Install,
		ItemName:    "01-init.sql",
	})

	assert.Equal(t, "CREATE SCHEMA tenant_a;", out)
}

func TestTemplateMapper_invalidTemplatePassesThrough(t *testing.T) {
	t.Parallel()

	mapper := sources.TemplateMapper(nil)

	out := mapper("{{ .Unterminated", sources.MapOptions{VersionName: "v0001", ItemName: "x.sql"})
	assert.Equal(t, "{{ .Unterminated", out)
}
