package pldb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

const goFile = `name: Go
appeared: 2009
homepage: https://go.dev
paradigms:
  - concurrent
  - imperative
typing: static
aka: golang, Go language | json
clocExtensions: go
file extensions: .go *.GO, tmpl
hello world:
  package main
influenced by: C; Oberon
unrelated line
  indented but orphaned
`

func TestParseBlocks(t *testing.T) {
	props := ParseBlocks(goFile)

	assert.Equal(t, []string{"Go"}, props["name"])
	assert.Equal(t, []string{"concurrent", "imperative"}, props["paradigms"])
	assert.Equal(t, []string{"package main"}, props["hello world"])
	assert.Equal(t, []string{"go"}, props["clocextensions"])
	assert.Equal(t, []string{"C; Oberon"}, props["influenced by"])
	assert.NotContains(t, props, "unrelated line")
	assert.True(t, props.Has("typing"))
	assert.False(t, props.Has("designed by"))
}

func TestParseBlocksEmptyHead(t *testing.T) {
	props := ParseBlocks("aliases:\nnext: 1\n")
	assert.True(t, props.Has("aliases"))
	assert.Empty(t, props["aliases"])
	assert.Equal(t, "1", props.First("next"))
}

func TestParseFileAccepted(t *testing.T) {
	rec, verdict := ParseFile(goFile, "concepts/go.scroll")
	require.Equal(t, Accepted, verdict)

	assert.Equal(t, "Go", rec.Name)
	assert.Equal(t, sources.PLDBID, rec.Source)
	assert.Equal(t, "2009", rec.FirstAppeared)
	assert.Equal(t, "https://go.dev", rec.Homepage)
	assert.Equal(t, "concurrent; imperative", rec.Paradigms)
	assert.Equal(t, "static", rec.Typing)
	assert.Equal(t, "C; Oberon", rec.InfluencedBy)
	assert.True(t, rec.HelloWorld)
	assert.Equal(t, []string{".go", ".tmpl"}, rec.Extensions)
	assert.Equal(t, []string{"Go language", "golang"}, rec.Aliases)
	assert.Equal(t, EvidenceURL, rec.EvidenceURL)
}

func TestParseFileVerdicts(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		rel      string
		want     Verdict
		wantName string
	}{
		{"concept without properties", "", "concepts/zig.scroll", Accepted, "zig"},
		{"nested concept", "title: Odin", "site/concepts/odin.pldb", Accepted, "Odin"},
		{"hint outside concepts", "typing: dynamic", "misc/lua.pldb", Accepted, "lua"},
		{"no evidence outside concepts", "name: Thing", "misc/thing.pldb", RejectedNoEvidence, ""},
		{"bad path beats concepts", "name: Go", "concepts/data/go.pldb", RejectedPath, ""},
		{"bad path segment", "typing: x", "measures/go.pldb", RejectedPath, ""},
		{"bad path is case insensitive", "typing: x", "Authors/bob.scroll", RejectedPath, ""},
		{"bad name", "name: Readme notes", "concepts/readme2.scroll", RejectedName, ""},
		{"bad name from stem", "", "concepts/json.scroll", RejectedName, ""},
		{"name token needs boundary", "name: Builder", "concepts/builder.scroll", Accepted, "Builder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, verdict := ParseFile(tt.text, tt.rel)
			assert.Equal(t, tt.want, verdict)
			assert.Equal(t, tt.wantName, rec.Name)
		})
	}
}

func TestFetchScansDirectory(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("concepts/go.scroll", goFile)
	write("concepts/rust.PLDB", "name: Rust\nextensions: rs\n")
	write("concepts/notes.txt", "name: ignored")
	write("books/sicp.scroll", "name: SICP\nparadigm: functional")
	write("misc/widget.pldb", "name: Widget")

	src := New(root)
	assert.Equal(t, sources.PLDBID, src.ID())

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)

	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}
	assert.ElementsMatch(t, []string{"Go", "Rust"}, names)
	assert.Equal(t, Stats{Files: 4, Accepted: 2, RejectedPath: 1, NoEvidence: 1}, src.Stats())
	assert.Equal(t, 2, src.Stats().Rejected())
}

func TestFetchMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent")).Fetch(context.Background())
	assert.True(t, errors.IsNotFound(err))
}
