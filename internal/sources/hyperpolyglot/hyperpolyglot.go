// Package hyperpolyglot reads the language list and info map from the
// hyperpolyglot crate's generated Rust sources.
package hyperpolyglot

import (
	"context"
	"regexp"
	"strconv"

	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/linker"
	"github.com/acherm/PL-ultimate/pkg/logging"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Well-known locations. GitHub raw is tried before docs.rs.
const (
	LanguagesURL      = "https://raw.githubusercontent.com/monkslc/hyperpolyglot/master/src/codegen/languages.rs"
	InfoMapURL        = "https://raw.githubusercontent.com/monkslc/hyperpolyglot/master/src/codegen/language-info-map.rs"
	DocsLanguagesURL  = "https://docs.rs/crate/hyperpolyglot/latest/source/src/codegen/languages.rs?plain=1"
	DocsInfoMapURL    = "https://docs.rs/crate/hyperpolyglot/latest/source/src/codegen/language-info-map.rs?plain=1"
	Reference         = "https://github.com/monkslc/hyperpolyglot"
	LanguagesRawFile  = "hyperpolyglot_languages.rs"
	InfoMapRawFile    = "hyperpolyglot_language_info_map.rs"
	DefaultNameColumn = "hyperpolyglot_name"
)

// NoiseWords are dropped from catalog names for an extra variant lookup.
var NoiseWords = []string{"language", "programming", "file", "script"}

var (
	languagesBlock = regexp.MustCompile(`static\s+LANGUAGES\s*:[\s\S]*?=\s*&\s*\[([\s\S]*?)\]\s*;`)
	quoted         = regexp.MustCompile(`"((?:\\.|[^"\\])*)"`)
	infoEntry      = regexp.MustCompile(`(?s)\("([^"]+)",\s*Language\s*\{\s*name:\s*"([^"]+)",\s*` +
		`language_type:\s*LanguageType::(\w+),\s*` +
		`color:\s*(Some\("?#?[0-9A-Fa-f]+"?\)|None),\s*` +
		`group:\s*(Some\(".*?"\)|None)\s*\}\s*\)`)
	someValue = regexp.MustCompile(`"(.*?)"`)
)

// Info is what the info map says about one language.
type Info struct {
	Type  string
	Group string
	Color string
}

// ParseLanguages returns the names in the LANGUAGES array, in order.
func ParseLanguages(src []byte) ([]string, error) {
	m := languagesBlock.FindSubmatch(src)
	if m == nil {
		return nil, errors.NewParseError("rust", LanguagesRawFile, "could not locate LANGUAGES array", nil)
	}
	var names []string
	for _, q := range quoted.FindAllSubmatch(m[1], -1) {
		name, err := strconv.Unquote(`"` + string(q[1]) + `"`)
		if err != nil {
			name = string(q[1])
		}
		names = append(names, name)
	}
	return names, nil
}

// ParseInfoMap returns the info entries keyed by display name.
func ParseInfoMap(src []byte) map[string]Info {
	out := make(map[string]Info)
	for _, m := range infoEntry.FindAllSubmatch(src, -1) {
		out[string(m[2])] = Info{
			Type:  string(m[3]),
			Color: some(m[4]),
			Group: some(m[5]),
		}
	}
	return out
}

func some(raw []byte) string {
	if m := someValue.FindSubmatch(raw); m != nil {
		return string(m[1])
	}
	return ""
}

// Build turns a language list and info map into linker entries.
func Build(names []string, info map[string]Info) []linker.Entry {
	entries := make([]linker.Entry, 0, len(names))
	for _, name := range names {
		in := info[name]
		entries = append(entries, linker.Entry{
			Name:      name,
			Reference: Reference,
			Fields: []catalogs.Field{
				{Name: "type", Value: in.Type},
				{Name: "group", Value: in.Group},
				{Name: "color", Value: in.Color},
			},
		})
	}
	return entries
}

// Taxonomy fetches both Rust sources through the raw cache.
type Taxonomy struct {
	client    *transport.Client
	cache     *transport.Cache
	languages []string
	infoMap   []string
}

// New creates a Hyperpolyglot taxonomy.
func New(client *transport.Client, cache *transport.Cache) *Taxonomy {
	return &Taxonomy{
		client:    client,
		cache:     cache,
		languages: []string{LanguagesURL, DocsLanguagesURL},
		infoMap:   []string{InfoMapURL, DocsInfoMapURL},
	}
}

// WithURLs overrides the candidate URLs of both files.
func (t *Taxonomy) WithURLs(languages, infoMap []string) *Taxonomy {
	t.languages = languages
	t.infoMap = infoMap
	return t
}

// ID returns the taxonomy tag.
func (t *Taxonomy) ID() sources.ID { return sources.HyperpolyglotID }

// Entries fetches and parses the language list and info map.
func (t *Taxonomy) Entries(ctx context.Context) ([]linker.Entry, error) {
	langSrc, err := t.fetch(ctx, LanguagesRawFile, t.languages)
	if err != nil {
		return nil, err
	}
	infoSrc, err := t.fetch(ctx, InfoMapRawFile, t.infoMap)
	if err != nil {
		return nil, err
	}

	names, err := ParseLanguages(langSrc)
	if err != nil {
		return nil, err
	}
	info := ParseInfoMap(infoSrc)
	logging.FromContext(ctx).Info().
		Int("languages", len(names)).
		Int("info", len(info)).
		Msg("Parsed Hyperpolyglot sources")
	return Build(names, info), nil
}

func (t *Taxonomy) fetch(ctx context.Context, name string, urls []string) ([]byte, error) {
	return t.cache.Fetch(ctx, name, func(ctx context.Context) ([]byte, error) {
		body, _, err := transport.FirstOf(ctx, urls, func(ctx context.Context, url string) ([]byte, error) {
			return t.client.GetPlain(ctx, string(sources.HyperpolyglotID), url)
		})
		return body, err
	})
}
