// Package rosettacode lists the language categories of Rosetta Code with
// their intro text and task counts.
package rosettacode

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/acherm/PL-ultimate/internal/mediawiki"
	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/linker"
	"github.com/acherm/PL-ultimate/pkg/logging"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Well-known locations. The primary API is tried before the fallback.
const (
	PrimaryAPI   = "https://rosettacode.org/w/api.php"
	FallbackAPI  = "https://rosettacode.org/mw/api.php"
	WikiURL      = "https://rosettacode.org/wiki/"
	RootCategory = "Programming Languages"
	RawFile      = "rosettacode_languages.json"
	DumpFile     = "rosettacode_languages.csv"
)

// Language is one Rosetta Code language category.
type Language struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	Summary    string `json:"summary"`
	TasksCount int    `json:"tasks_count"`
}

// PageURL returns the wiki URL of a language page.
func PageURL(name string) string {
	return WikiURL + strings.ReplaceAll(name, " ", "_")
}

// DumpHeader is the column layout of the language dump.
var DumpHeader = []string{"rosettacode_name", "rosettacode_url", "rosettacode_summary", "rosettacode_tasks_count"}

// DumpRows renders languages in DumpHeader order.
func DumpRows(langs []Language) [][]string {
	rows := make([][]string, len(langs))
	for i, l := range langs {
		rows[i] = []string{l.Name, l.URL, l.Summary, strconv.Itoa(l.TasksCount)}
	}
	return rows
}

// Entries turns languages into linker entries referenced by URL.
func Entries(langs []Language) []linker.Entry {
	entries := make([]linker.Entry, 0, len(langs))
	for _, l := range langs {
		entries = append(entries, linker.Entry{
			Name:      l.Name,
			Reference: l.URL,
			Fields: []catalogs.Field{
				{Name: "url", Value: l.URL},
				{Name: "summary", Value: l.Summary},
				{Name: "tasks_count", Value: strconv.Itoa(l.TasksCount)},
			},
		})
	}
	return entries
}

// Taxonomy collects language categories through the raw cache.
type Taxonomy struct {
	cache *transport.Cache
	wiki  *mediawiki.Client
}

// New creates a Rosetta Code taxonomy.
func New(client *transport.Client, cache *transport.Cache, opts ...mediawiki.Option) *Taxonomy {
	return NewWithEndpoints(client, cache, []string{PrimaryAPI, FallbackAPI}, opts...)
}

// NewWithEndpoints creates a taxonomy that queries the given API endpoints.
func NewWithEndpoints(client *transport.Client, cache *transport.Cache, endpoints []string, opts ...mediawiki.Option) *Taxonomy {
	return &Taxonomy{
		cache: cache,
		wiki:  mediawiki.New(client, string(sources.RosettaCodeID), endpoints, opts...),
	}
}

// ID returns the taxonomy tag.
func (t *Taxonomy) ID() sources.ID { return sources.RosettaCodeID }

// Languages returns every language category sorted by name.
func (t *Taxonomy) Languages(ctx context.Context) ([]Language, error) {
	data, err := t.cache.Fetch(ctx, RawFile, func(ctx context.Context) ([]byte, error) {
		langs, err := t.collect(ctx)
		if err != nil {
			return nil, err
		}
		return json.MarshalIndent(langs, "", "  ")
	})
	if err != nil {
		return nil, err
	}
	var langs []Language
	if err := json.Unmarshal(data, &langs); err != nil {
		return nil, errors.WrapParse("json", RawFile, err)
	}
	return langs, nil
}

// Entries returns the language categories as linker entries.
func (t *Taxonomy) Entries(ctx context.Context) ([]linker.Entry, error) {
	langs, err := t.Languages(ctx)
	if err != nil {
		return nil, err
	}
	return Entries(langs), nil
}

func (t *Taxonomy) collect(ctx context.Context) ([]Language, error) {
	logger := logging.FromContext(ctx)

	categories, err := t.wiki.CategoryMembers(ctx, RootCategory, mediawiki.MemberQuery{
		Namespace: mediawiki.Namespace(mediawiki.NamespaceCategory),
		Type:      "subcat",
	})
	if err != nil {
		return nil, err
	}
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = mediawiki.StripCategory(c)
	}
	logger.Info().Int("categories", len(categories)).Msg("Listed Rosetta Code languages")

	extracts, err := t.wiki.Extracts(ctx, names)
	if err != nil {
		return nil, err
	}
	sizes, err := t.wiki.CategorySizes(ctx, categories)
	if err != nil {
		return nil, err
	}

	langs := make([]Language, len(names))
	for i, name := range names {
		langs[i] = Language{
			Name:       name,
			URL:        PageURL(name),
			Summary:    extracts[name],
			TasksCount: sizes[categories[i]],
		}
	}
	slices.SortStableFunc(langs, func(a, b Language) int { return cmp.Compare(a.Name, b.Name) })
	return langs, nil
}
