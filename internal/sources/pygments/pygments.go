// Package pygments reads the lexer registry from Pygments' _mapping.py.
// Lexer filename patterns feed the linker's filename tier.
package pygments

import (
	"context"
	"strings"

	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/linker"
	"github.com/acherm/PL-ultimate/pkg/logging"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Well-known locations.
const (
	MappingURL = "https://raw.githubusercontent.com/pygments/pygments/master/pygments/lexers/_mapping.py"
	RawFile    = "pygments_mapping.py"
)

const listSep = ";"

// Entries turns lexers into linker entries. The reference of an entry is
// its fully qualified lexer class.
func Entries(lexers []Lexer) []linker.Entry {
	entries := make([]linker.Entry, 0, len(lexers))
	for _, lx := range lexers {
		entries = append(entries, linker.Entry{
			Name:      lx.Name,
			Aliases:   lx.Aliases,
			Filenames: lx.Filenames,
			Reference: lx.Module + "." + lx.Class,
			Fields: []catalogs.Field{
				{Name: "module", Value: lx.Module},
				{Name: "class", Value: lx.Class},
				{Name: "aliases", Value: strings.Join(lx.Aliases, listSep)},
				{Name: "filenames", Value: strings.Join(lx.Filenames, listSep)},
				{Name: "mimetypes", Value: strings.Join(lx.MimeTypes, listSep)},
			},
		})
	}
	return entries
}

// Taxonomy fetches _mapping.py through the raw cache.
type Taxonomy struct {
	client *transport.Client
	cache  *transport.Cache
	url    string
}

// New creates a Pygments taxonomy.
func New(client *transport.Client, cache *transport.Cache) *Taxonomy {
	return &Taxonomy{client: client, cache: cache, url: MappingURL}
}

// WithURL overrides the mapping URL.
func (t *Taxonomy) WithURL(url string) *Taxonomy {
	t.url = url
	return t
}

// ID returns the taxonomy tag.
func (t *Taxonomy) ID() sources.ID { return sources.PygmentsID }

// Entries fetches and parses the lexer mapping.
func (t *Taxonomy) Entries(ctx context.Context) ([]linker.Entry, error) {
	src, err := t.cache.Fetch(ctx, RawFile, func(ctx context.Context) ([]byte, error) {
		return t.client.GetPlain(ctx, string(sources.PygmentsID), t.url)
	})
	if err != nil {
		return nil, err
	}
	lexers, err := ParseMapping(src)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().Int("lexers", len(lexers)).Msg("Parsed Pygments mapping")
	return Entries(lexers), nil
}
