// Package esolang lists the members of the Esolang wiki's language category.
// The source is opt-in; every record it yields is typed "esolang".
package esolang

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/acherm/PL-ultimate/internal/mediawiki"
	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/logging"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Well-known locations.
const (
	APIURL      = "https://esolangs.org/w/api.php"
	EvidenceURL = "https://esolangs.org/wiki/Esolang%3ACopyrights"
	RawFile     = "esolang_language_titles.json"
	Category    = "Languages"
	Type        = "esolang"
)

// Source fetches category titles through the raw cache.
type Source struct {
	client *transport.Client
	cache  *transport.Cache
	wiki   *mediawiki.Client
}

// New creates an Esolang source.
func New(client *transport.Client, cache *transport.Cache, opts ...mediawiki.Option) *Source {
	return &Source{
		client: client,
		cache:  cache,
		wiki:   mediawiki.New(client, string(sources.EsolangID), []string{APIURL}, opts...),
	}
}

// WithEndpoint overrides the API URL.
func (s *Source) WithEndpoint(apiURL string, opts ...mediawiki.Option) *Source {
	s.wiki = mediawiki.New(s.client, string(sources.EsolangID), []string{apiURL}, opts...)
	return s
}

// ID returns the source tag.
func (s *Source) ID() sources.ID { return sources.EsolangID }

// Fetch returns one record per distinct category member.
func (s *Source) Fetch(ctx context.Context) ([]sources.Record, error) {
	data, err := s.cache.Fetch(ctx, RawFile, func(ctx context.Context) ([]byte, error) {
		members, err := s.wiki.CategoryMembers(ctx, Category, mediawiki.MemberQuery{})
		if err != nil {
			return nil, err
		}
		titles := make([]string, 0, len(members))
		for _, m := range members {
			if m = strings.TrimSpace(m); m != "" {
				titles = append(titles, m)
			}
		}
		slices.Sort(titles)
		return json.MarshalIndent(slices.Compact(titles), "", "  ")
	})
	if err != nil {
		return nil, err
	}

	var titles []string
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, errors.WrapParse("json", RawFile, err)
	}
	records := make([]sources.Record, 0, len(titles))
	for _, t := range titles {
		records = append(records, sources.Record{
			Name:        t,
			Source:      sources.EsolangID,
			Types:       Type,
			EvidenceURL: EvidenceURL,
		})
	}
	logging.FromContext(ctx).Info().Int("records", len(records)).Msg("Collected Esolang titles")
	return records, nil
}
