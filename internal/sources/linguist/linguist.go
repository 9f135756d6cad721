// Package linguist reads GitHub Linguist's languages.yml registry. Besides
// feeding the aggregator, its records drive the extension enrichment pass.
package linguist

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/logging"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Well-known locations.
const (
	RawURL      = "https://raw.githubusercontent.com/github-linguist/linguist/master/lib/linguist/languages.yml"
	EvidenceURL = "https://github.com/github-linguist/linguist/blob/main/lib/linguist/languages.yml"
	RawFile     = "linguist_languages.yml"
)

// Language is one entry of languages.yml.
type Language struct {
	Type       string   `yaml:"type"`
	Group      string   `yaml:"group"`
	Color      string   `yaml:"color"`
	Extensions []string `yaml:"extensions"`
	Filenames  []string `yaml:"filenames"`
	Aliases    []string `yaml:"aliases"`
}

// Parse decodes languages.yml into records in name order.
func Parse(data []byte) ([]sources.Record, error) {
	var registry map[string]Language
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, errors.WrapParse("yaml", RawFile, err)
	}

	records := make([]sources.Record, 0, len(registry))
	for _, name := range slices.Sorted(maps.Keys(registry)) {
		if strings.TrimSpace(name) == "" {
			continue
		}
		lang := registry[name]
		records = append(records, sources.Record{
			Name:        name,
			Source:      sources.LinguistID,
			Aliases:     lang.Aliases,
			Extensions:  lang.Extensions,
			Types:       lang.Type,
			LinguistKey: name,
			EvidenceURL: EvidenceURL,
		})
	}
	return records, nil
}

// Source fetches languages.yml through the raw cache.
type Source struct {
	client *transport.Client
	cache  *transport.Cache
	url    string
}

// New creates a Linguist source.
func New(client *transport.Client, cache *transport.Cache) *Source {
	return &Source{client: client, cache: cache, url: RawURL}
}

// WithURL overrides the registry URL.
func (s *Source) WithURL(url string) *Source {
	s.url = url
	return s
}

// ID returns the source tag.
func (s *Source) ID() sources.ID { return sources.LinguistID }

// Fetch downloads (or reads the cached) registry and parses it.
func (s *Source) Fetch(ctx context.Context) ([]sources.Record, error) {
	data, err := s.cache.Fetch(ctx, RawFile, func(ctx context.Context) ([]byte, error) {
		return s.client.GetPlain(ctx, string(sources.LinguistID), s.url)
	})
	if err != nil {
		return nil, err
	}
	records, err := Parse(data)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().Int("records", len(records)).Msg("Parsed Linguist registry")
	return records, nil
}
