// Package wikipedia collects language titles from Wikipedia's list of
// programming languages, falling back to the category API when scraping
// yields nothing.
package wikipedia

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/acherm/PL-ultimate/internal/mediawiki"
	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/constants"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/logging"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Well-known locations.
const (
	ListURL     = "https://en.wikipedia.org/wiki/List_of_programming_languages"
	APIURL      = "https://en.wikipedia.org/w/api.php"
	EvidenceURL = ListURL
	RawFile     = "wikipedia_lang_titles.json"
	Category    = "Programming languages"
)

var noise = regexp.MustCompile(`(?i)(list of|edits made from this ip address|disambiguation|help:|user:|talk:|wikipedia:)`)

// Titles extracts link titles from a list page: anchors carrying a title
// attribute inside list items or tables, minus navigation noise.
func Titles(page []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, errors.WrapParse("html", ListURL, err)
	}

	var titles []string
	var walk func(n *html.Node, inList bool)
	walk = func(n *html.Node, inList bool) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Li, atom.Table:
				inList = true
			case atom.A:
				if t := attr(n, "title"); inList && t != "" && !noise.MatchString(t) {
					titles = append(titles, t)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inList)
		}
	}
	walk(doc, false)
	return titles, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// Source scrapes the list page and its A-Z subpages.
type Source struct {
	client  *transport.Client
	cache   *transport.Cache
	wiki    *mediawiki.Client
	listURL string
	delay   time.Duration
}

// New creates a Wikipedia source.
func New(client *transport.Client, cache *transport.Cache) *Source {
	return &Source{
		client:  client,
		cache:   cache,
		wiki:    mediawiki.New(client, string(sources.WikipediaID), []string{APIURL}),
		listURL: ListURL,
		delay:   constants.PageDelay,
	}
}

// WithEndpoints overrides the list page and API URLs.
func (s *Source) WithEndpoints(listURL, apiURL string, delay time.Duration) *Source {
	s.listURL = listURL
	s.wiki = mediawiki.New(s.client, string(sources.WikipediaID), []string{apiURL}, mediawiki.WithDelay(delay))
	s.delay = delay
	return s
}

// ID returns the source tag.
func (s *Source) ID() sources.ID { return sources.WikipediaID }

// Fetch returns one record per distinct title.
func (s *Source) Fetch(ctx context.Context) ([]sources.Record, error) {
	data, err := s.cache.Fetch(ctx, RawFile, func(ctx context.Context) ([]byte, error) {
		titles, err := s.collect(ctx)
		if err != nil {
			return nil, err
		}
		return json.MarshalIndent(titles, "", "  ")
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
			Source:      sources.WikipediaID,
			EvidenceURL: EvidenceURL,
		})
	}
	logging.FromContext(ctx).Info().Int("records", len(records)).Msg("Collected Wikipedia titles")
	return records, nil
}

func (s *Source) collect(ctx context.Context) ([]string, error) {
	logger := logging.FromContext(ctx)
	seen := make(map[string]struct{})

	pages := []string{s.listURL}
	for c := 'A'; c <= 'Z'; c++ {
		pages = append(pages, s.listURL+":_"+string(c))
	}
	for i, url := range pages {
		if err := s.scrape(ctx, url, seen); err != nil {
			logger.Warn().Str("url", url).Err(err).Msg("Scrape failed")
			if i == 0 {
				break
			}
		}
		if i < len(pages)-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.delay):
			}
		}
	}

	if len(seen) == 0 {
		logger.Info().Str("category", Category).Msg("Scrape empty, using category listing")
		members, err := s.wiki.CategoryMembers(ctx, Category, mediawiki.MemberQuery{Type: "page"})
		if err != nil {
			return nil, err
		}
		for _, t := range members {
			if t = strings.TrimSpace(t); t != "" && !noise.MatchString(t) {
				seen[t] = struct{}{}
			}
		}
	}

	titles := make([]string, 0, len(seen))
	for t := range seen {
		titles = append(titles, t)
	}
	slices.Sort(titles)
	return titles, nil
}

func (s *Source) scrape(ctx context.Context, url string, seen map[string]struct{}) error {
	page, err := s.client.Get(ctx, string(sources.WikipediaID), url)
	if err != nil {
		return err
	}
	titles, err := Titles(page)
	if err != nil {
		return err
	}
	for _, t := range titles {
		seen[t] = struct{}{}
	}
	return nil
}
