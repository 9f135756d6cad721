package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acherm/PL-ultimate/internal/cmd/application"
	"github.com/acherm/PL-ultimate/internal/persistence"
	"github.com/acherm/PL-ultimate/internal/pipeline"
	"github.com/acherm/PL-ultimate/internal/report"
	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

func setup(t *testing.T) pipeline.Config {
	t.Helper()
	cfg := pipeline.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cat := catalogs.New([]*catalogs.Language{
		{ID: "c", Name: "C", Sources: []sources.ID{sources.LinguistID, sources.PLDBID}, Extensions: []string{".c", ".h"}, AliasCount: 1},
		{ID: "cpp", Name: "C++", Sources: []sources.ID{sources.LinguistID}, Extensions: []string{".cpp", ".h"}, AliasCount: 1},
		{ID: "algol", Name: "ALGOL", Sources: []sources.ID{sources.WikipediaID}, AliasCount: 1},
	}, []catalogs.AliasRecord{
		{Alias: "C", LanguageID: "c", Source: catalogs.SelfAlias},
		{Alias: "C++", LanguageID: "cpp", Source: catalogs.SelfAlias},
		{Alias: "ALGOL", LanguageID: "algol", Source: catalogs.SelfAlias},
	})
	require.NoError(t, pipeline.Save(t.Context(), cfg, cat))
	return cfg
}

func run(t *testing.T, app application.Application, args ...string) []byte {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.Bytes()
}

func TestQACommand(t *testing.T) {
	cfg := setup(t)
	app := &application.Mock{PipelineFunc: func() pipeline.Config { return cfg }}

	var qa report.QA
	require.NoError(t, json.Unmarshal(run(t, app, "qa"), &qa))
	assert.Equal(t, 3, qa.Languages)
	assert.Equal(t, 3, qa.Aliases)
	assert.Equal(t, 2, qa.WithExtensions)
	assert.Len(t, qa.RawInputs, len(report.RawInputs))

	var stats report.QA
	require.NoError(t, json.Unmarshal(run(t, app, "qa", "--stats-only"), &stats))
	assert.Nil(t, stats.Flags)
	assert.NotEmpty(t, stats.SourceCoverage)
}

func TestExtensionsCommand(t *testing.T) {
	cfg := setup(t)
	app := &application.Mock{PipelineFunc: func() pipeline.Config { return cfg }}

	var inv []report.ExtensionCount
	require.NoError(t, json.Unmarshal(run(t, app, "extensions"), &inv))
	require.Len(t, inv, 3)
	assert.Equal(t, ".h", inv[0].Extension)
	assert.Equal(t, 2, inv[0].Total)

	header, rows, err := persistence.ReadRows(cfg.Derived("extensions_inventory.csv"))
	require.NoError(t, err)
	assert.Equal(t, report.InventoryHeader(), header)
	assert.Len(t, rows, 3)
}

func TestExtensionsCommandMarkdown(t *testing.T) {
	cfg := setup(t)
	app := &application.Mock{
		PipelineFunc:     func() pipeline.Config { return cfg },
		OutputFormatFunc: func() string { return "markdown" },
	}
	out := string(run(t, app, "extensions", "--top", "1", "--csv", ""))
	assert.Contains(t, out, "# Extension inventory")
	assert.Contains(t, out, "Top 1 extensions by coverage")
	assert.NotContains(t, out, ".cpp")
	assert.NoFileExists(t, cfg.Derived("extensions_inventory.csv"))
}

func TestReportMissingCatalog(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cmd := NewCommand(&application.Mock{PipelineFunc: func() pipeline.Config { return cfg }})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"qa"})
	assert.Error(t, cmd.Execute())
}
