package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acherm/PL-ultimate/internal/persistence"
	"github.com/acherm/PL-ultimate/internal/sources/linguist"
	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/aliases"
	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/linker"
	"github.com/acherm/PL-ultimate/pkg/logging"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

type fakeSource struct {
	id      sources.ID
	records []sources.Record
	err     error
}

func (f *fakeSource) ID() sources.ID { return f.id }

func (f *fakeSource) Fetch(context.Context) ([]sources.Record, error) {
	return f.records, f.err
}

func registry(srcs ...sources.Source) *sources.Sources {
	reg := sources.NewSources()
	for _, s := range srcs {
		reg.Set(s)
	}
	return reg
}

func TestBuilderBuild(t *testing.T) {
	logs := logging.CaptureLoggingForTest(t)
	b := &Builder{
		Sources: registry(
			&fakeSource{id: sources.LinguistID, records: []sources.Record{
				{Name: "Vim Script", Source: sources.LinguistID, Extensions: []string{".vim"}, Aliases: []string{"viml"}},
				{Name: "JavaScript", Source: sources.LinguistID, Extensions: []string{".js"}},
			}},
			&fakeSource{id: sources.PLDBID, records: []sources.Record{
				{Name: "vim script", Source: sources.PLDBID, Extensions: []string{".vba"}},
				{Name: "Javascripts", Source: sources.PLDBID},
			}},
			&fakeSource{id: sources.WikipediaID, err: errors.NewNotFoundError("raw payload", "wikipedia_lang_titles.json")},
		),
		Registry: sources.LinguistID,
	}

	cat, res, err := b.Build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cat)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, map[sources.ID]int{sources.LinguistID: 2, sources.PLDBID: 2}, res.Records)
	assert.Equal(t, []sources.ID{sources.WikipediaID}, res.Failed)
	assert.Equal(t, 2, res.Languages)
	assert.Equal(t, 1, res.Remapped)

	vim, ok := cat.Get("vim-script")
	require.True(t, ok)
	assert.Equal(t, "Vim Script", vim.Name)
	assert.Equal(t, []sources.ID{sources.LinguistID, sources.PLDBID}, vim.Sources)
	assert.Equal(t, []string{".vba", ".vim"}, vim.Extensions)
	assert.Equal(t, "Vim Script", vim.LinguistKey)

	js, ok := cat.Get("javascript")
	require.True(t, ok)
	assert.Equal(t, []sources.ID{sources.LinguistID, sources.PLDBID}, js.Sources)
	_, ok = cat.Get("javascripts")
	assert.False(t, ok)

	logs.AssertContains(t, "Source failed")
	logs.AssertContains(t, `"source":"wikipedia"`)
	logs.AssertContains(t, res.RunID)
}

func TestBuilderNoSources(t *testing.T) {
	failure := errors.NewNotFoundError("pldb directory", "/nowhere")
	tests := []struct {
		name    string
		sources *sources.Sources
		wantErr error
	}{
		{"empty registry", registry(), errors.ErrNoSources},
		{"all failed", registry(&fakeSource{id: sources.PLDBID, err: failure}), errors.ErrNotFound},
		{"no records", registry(&fakeSource{id: sources.LinguistID}), errors.ErrNoSources},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := (&Builder{Sources: tt.sources}).Build(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrNoSources)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuilderFetchOnly(t *testing.T) {
	b := &Builder{
		Sources: registry(&fakeSource{id: sources.LinguistID, records: []sources.Record{
			{Name: "C", Source: sources.LinguistID},
		}}),
		FetchOnly: true,
	}
	cat, res, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cat)
	assert.Equal(t, 1, res.Records[sources.LinguistID])
	assert.Zero(t, res.Languages)
}

const linguistRegistry = `
Vim Script:
  type: programming
  aliases:
  - vim
  extensions:
  - ".vim"
C:
  type: programming
  extensions:
  - ".c"
  - ".h"
`

func TestBuildOffline(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Offline = true

	require.NoError(t, os.MkdirAll(cfg.RawDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.RawDir(), linguist.RawFile), []byte(linguistRegistry), 0o644))

	res, err := Build(context.Background(), cfg, transport.New())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Records[sources.LinguistID])
	assert.Equal(t, []sources.ID{sources.WikipediaID}, res.Failed)

	cat, err := persistence.ReadCatalog(cfg.MasterPath())
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	records, err := persistence.ReadAliases(cfg.AliasesPath())
	require.NoError(t, err)
	assert.Contains(t, records, catalogs.AliasRecord{Alias: "vim", LanguageID: "vim-script", Source: "linguist"})
}

func TestConfigPaths(t *testing.T) {
	cfg := Config{DataDir: "data"}
	assert.Equal(t, filepath.Join("data", "raw"), cfg.RawDir())
	assert.Equal(t, filepath.Join("data", "derived", "languages_master.csv"), cfg.MasterPath())
	assert.Equal(t, filepath.Join("data", "derived", "languages_master_with_pygments.csv"), cfg.LinkedPath(sources.PygmentsID))
	assert.Equal(t, filepath.Join("data", "derived", "rosettacode_missing_from_master.csv"), cfg.MissingPath(sources.RosettaCodeID))
}

func TestConfigSources(t *testing.T) {
	cfg := Config{IncludeLinguist: true, IncludeEsolang: true, PLDBDir: "/pldb"}
	reg := cfg.Sources(transport.New(), transport.NewCache(t.TempDir(), true))
	var ids []sources.ID
	for _, s := range reg.List() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []sources.ID{sources.LinguistID, sources.EsolangID, sources.PLDBID}, ids)

	cfg.FetchOnly = true
	assert.Equal(t, 2, cfg.Sources(transport.New(), transport.NewCache(t.TempDir(), true)).Len())
}

type fakeTaxonomy struct {
	id      sources.ID
	entries []linker.Entry
}

func (f *fakeTaxonomy) ID() sources.ID { return f.id }

func (f *fakeTaxonomy) Entries(context.Context) ([]linker.Entry, error) {
	return f.entries, nil
}

func TestLink(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "master.csv")
	require.NoError(t, persistence.WriteCatalog(in, catalogs.New([]*catalogs.Language{
		{ID: "vim-script", Name: "Vim Script", Sources: []sources.ID{sources.LinguistID}, Extensions: []string{".vba", ".vim"}},
		{ID: "c", Name: "C", Sources: []sources.ID{sources.LinguistID}, Extensions: []string{".c", ".h"}},
	}, nil)))

	tax := &fakeTaxonomy{id: sources.PygmentsID, entries: []linker.Entry{
		{
			Name:      "C",
			Aliases:   []string{"c"},
			Filenames: []string{"*.c", "*.h"},
			Reference: "pygments.lexers.c_cpp.CLexer",
			Fields:    []catalogs.Field{{Name: "module", Value: "pygments.lexers.c_cpp"}, {Name: "class", Value: "CLexer"}},
		},
		{
			Name:      "VimL",
			Aliases:   []string{"viml"},
			Filenames: []string{"*.vim"},
			Reference: "pygments.lexers.textedit.VimLexer",
			Fields:    []catalogs.Field{{Name: "module", Value: "pygments.lexers.textedit"}, {Name: "class", Value: "VimLexer"}},
		},
		{Name: "Brainfuck", Reference: "pygments.lexers.esoteric.BrainfuckLexer"},
	}}

	req := LinkRequest{
		In:      in,
		Out:     filepath.Join(dir, "out.csv"),
		Missing: filepath.Join(dir, "missing.csv"),
	}
	res, err := Link(context.Background(), tax, req)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Missing)
	assert.Equal(t, 1, res.Matched[catalogs.TierName])
	assert.Equal(t, 1, res.Matched[catalogs.TierAlias])

	linked, err := persistence.ReadCatalog(req.Out)
	require.NoError(t, err)
	assert.Equal(t, []sources.ID{sources.PygmentsID}, linked.Linked())

	c, _ := linked.Get("c")
	v, _ := linked.Value(c, "pygments_class")
	assert.Equal(t, "CLexer", v)

	vim, _ := linked.Get("vim-script")
	require.True(t, vim.In(sources.PygmentsID))
	assert.Equal(t, "VimL", vim.Link(sources.PygmentsID).Name)

	header, rows, err := persistence.ReadRows(req.Missing)
	require.NoError(t, err)
	assert.Equal(t, persistence.MissingHeader, header)
	assert.Equal(t, [][]string{{"Brainfuck", "pygments.lexers.esoteric.BrainfuckLexer"}}, rows)

	again, err := Link(context.Background(), tax, LinkRequest{In: req.Out, Out: filepath.Join(dir, "again.csv")})
	require.NoError(t, err)
	assert.Equal(t, res.Matched, again.Matched)
}

func TestNewLinker(t *testing.T) {
	schema := append(catalogs.BaseColumns(), "in_hyperpolyglot", "hyperpolyglot_name")

	hp := NewLinker(sources.HyperpolyglotID, schema, "", aliases.Table{})
	assert.Equal(t, []string{catalogs.ColName}, hp.NameColumns)
	assert.NotEmpty(t, hp.NoiseWords)
	assert.False(t, hp.UseFilenames)

	pg := NewLinker(sources.PygmentsID, schema, "", aliases.Table{})
	assert.Equal(t, []string{"hyperpolyglot_name", catalogs.ColName}, pg.NameColumns)
	assert.True(t, pg.UseFilenames)
	assert.Contains(t, pg.EvidenceColumns, catalogs.ColExtensions)
	assert.NotContains(t, pg.EvidenceColumns, catalogs.ColHasExtensions)

	rc := NewLinker(sources.RosettaCodeID, schema, "notes", aliases.Table{})
	assert.Equal(t, []string{"notes"}, rc.NameColumns)
}

func TestTaxonomy(t *testing.T) {
	cache := transport.NewCache(t.TempDir(), true)
	for _, src := range sources.Linked() {
		tax, err := Taxonomy(src, transport.New(), cache)
		require.NoError(t, err)
		assert.Equal(t, src, tax.ID())
	}
	_, err := Taxonomy(sources.LinguistID, transport.New(), cache)
	assert.True(t, errors.IsValidationError(err))
}
