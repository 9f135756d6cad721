package pygments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

const mappingPy = `# Automatically generated by scripts/gen_mapfiles.py.
# DO NOT EDIT BY HAND; run ` + "`tox -e mapfiles`" + ` instead.

LEXERS = {
    'ABAPLexer': ('pygments.lexers.business', 'ABAP', ('abap',), ('*.abap', '*.ABAP'), ('text/x-abap',)),
    'CSharpLexer': ('pygments.lexers.dotnet', 'C#', ('csharp', 'c#', 'cs'), ('*.cs',), ('text/x-csharp',)),  # comment
    'VimLexer': ('pygments.lexers.textedit', 'VimL', ('vim',), ('*.vim', '.vimrc', '.exrc', '.gvimrc', '_vimrc', '_exrc', '_gvimrc', 'vimrc', 'gvimrc'), ('text/x-vim',)),
    'EscapeLexer': ("pygments.lexers.x", 'It\'s "quoted"', (), (r'*.\x',), ()),
    'ConcatLexer': ('pygments.lexers.y', 'Con' 'cat', [], [], []),
}
`

func TestParseMapping(t *testing.T) {
	lexers, err := ParseMapping([]byte(mappingPy))
	require.NoError(t, err)
	require.Len(t, lexers, 5)

	cs := lexers[1]
	assert.Equal(t, Lexer{
		Class:     "CSharpLexer",
		Module:    "pygments.lexers.dotnet",
		Name:      "C#",
		Aliases:   []string{"csharp", "c#", "cs"},
		Filenames: []string{"*.cs"},
		MimeTypes: []string{"text/x-csharp"},
	}, cs)

	assert.Len(t, lexers[2].Filenames, 9)
	assert.Equal(t, `It's "quoted"`, lexers[3].Name)
	assert.Equal(t, []string{`*.\x`}, lexers[3].Filenames)
	assert.Empty(t, lexers[3].Aliases)
	assert.Equal(t, "Concat", lexers[4].Name)
}

func TestParseMappingErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no assignment", "FOO = {}"},
		{"not a dict", "LEXERS = ('a',)"},
		{"unterminated", "LEXERS = {'A': ('m', 'N"},
		{"short tuple", "LEXERS = {'A': ('m', 'N')}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMapping([]byte(tt.src))
			var pe *errors.ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestEntries(t *testing.T) {
	lexers, err := ParseMapping([]byte(mappingPy))
	require.NoError(t, err)
	entries := Entries(lexers)

	vim := entries[2]
	assert.Equal(t, "VimL", vim.Name)
	assert.Equal(t, []string{"vim"}, vim.Aliases)
	assert.Equal(t, "pygments.lexers.textedit.VimLexer", vim.Reference)
	require.Len(t, vim.Fields, 5)
	assert.Equal(t, "pygments.lexers.textedit", vim.Fields[0].Value)
	assert.Equal(t, "VimLexer", vim.Fields[1].Value)
	assert.Equal(t, "vim", vim.Fields[2].Value)
	assert.Equal(t, "text/x-vim", vim.Fields[4].Value)
	assert.Equal(t, "csharp;c#;cs", entries[1].Fields[2].Value)
}

func TestTaxonomyFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(mappingPy))
	}))
	defer srv.Close()

	client := transport.New(transport.WithRetry(1, time.Millisecond))
	tax := New(client, transport.NewCache(t.TempDir(), false)).WithURL(srv.URL)
	assert.Equal(t, sources.PygmentsID, tax.ID())

	entries, err := tax.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}
