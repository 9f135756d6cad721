// Package mediawiki is a minimal client for the MediaWiki action API:
// category listings, intro extracts and category sizes.
package mediawiki

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/constants"
	"github.com/acherm/PL-ultimate/pkg/errors"
)

// Namespace numbers used by category queries.
const (
	NamespaceMain     = 0
	NamespaceCategory = 14
)

// Client queries one wiki through an ordered list of API endpoints; each
// request falls back to the next endpoint when one fails.
type Client struct {
	http      *transport.Client
	source    string
	endpoints []string
	delay     time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithDelay sets the pause between paginated requests.
func WithDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

// New creates a client for the given API endpoints.
func New(hc *transport.Client, source string, endpoints []string, opts ...Option) *Client {
	c := &Client{
		http:      hc,
		source:    source,
		endpoints: endpoints,
		delay:     constants.PageDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MemberQuery narrows a category listing.
type MemberQuery struct {
	// Namespace restricts members to one namespace; nil means any.
	Namespace *int
	// Type is "page", "subcat" or "file"; empty means any.
	Type string
}

type page struct {
	Title        string `json:"title"`
	Extract      string `json:"extract"`
	Missing      bool   `json:"missing"`
	CategoryInfo *struct {
		Size  int `json:"size"`
		Pages int `json:"pages"`
	} `json:"categoryinfo"`
}

type response struct {
	Continue map[string]string `json:"continue"`
	Query    struct {
		CategoryMembers []page `json:"categorymembers"`
		Pages           []page `json:"pages"`
	} `json:"query"`
}

// CategoryMembers returns the titles of every member of category, following
// continuation until the listing is exhausted.
func (c *Client) CategoryMembers(ctx context.Context, category string, q MemberQuery) ([]string, error) {
	params := url.Values{}
	params.Set("list", "categorymembers")
	params.Set("cmtitle", "Category:"+StripCategory(category))
	params.Set("cmlimit", strconv.Itoa(constants.WikiPageLimit))
	if q.Namespace != nil {
		params.Set("cmnamespace", strconv.Itoa(*q.Namespace))
	}
	if q.Type != "" {
		params.Set("cmtype", q.Type)
	}

	var titles []string
	for {
		resp, err := c.query(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, m := range resp.Query.CategoryMembers {
			titles = append(titles, m.Title)
		}
		if len(resp.Continue) == 0 {
			return titles, nil
		}
		for k, v := range resp.Continue {
			params.Set(k, v)
		}
		if err := c.pause(ctx); err != nil {
			return nil, err
		}
	}
}

// Extracts returns the plain-text intro of each title that has one.
func (c *Client) Extracts(ctx context.Context, titles []string) (map[string]string, error) {
	out := make(map[string]string, len(titles))
	err := c.batches(ctx, titles, func(params url.Values) {
		params.Set("prop", "extracts")
		params.Set("exintro", "1")
		params.Set("explaintext", "1")
		params.Set("exlimit", "max")
	}, func(p page) {
		if text := strings.TrimSpace(p.Extract); text != "" {
			out[p.Title] = text
		}
	})
	return out, err
}

// CategorySizes returns the number of pages in each category title.
func (c *Client) CategorySizes(ctx context.Context, titles []string) (map[string]int, error) {
	out := make(map[string]int, len(titles))
	err := c.batches(ctx, titles, func(params url.Values) {
		params.Set("prop", "categoryinfo")
	}, func(p page) {
		if p.CategoryInfo != nil {
			out[p.Title] = p.CategoryInfo.Pages
		}
	})
	return out, err
}

func (c *Client) batches(ctx context.Context, titles []string, setup func(url.Values), visit func(page)) error {
	for start := 0; start < len(titles); start += constants.WikiBatchSize {
		end := min(start+constants.WikiBatchSize, len(titles))
		params := url.Values{}
		setup(params)
		params.Set("titles", strings.Join(titles[start:end], "|"))

		resp, err := c.query(ctx, params)
		if err != nil {
			return err
		}
		for _, p := range resp.Query.Pages {
			if !p.Missing {
				visit(p)
			}
		}
		if end < len(titles) {
			if err := c.pause(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Client) query(ctx context.Context, params url.Values) (*response, error) {
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	resp, _, err := transport.FirstOf(ctx, c.endpoints, func(ctx context.Context, endpoint string) (*response, error) {
		var r response
		if err := c.http.GetJSON(ctx, c.source, endpoint+"?"+params.Encode(), &r); err != nil {
			return nil, err
		}
		return &r, nil
	})
	if err != nil {
		return nil, errors.WrapFetch(c.source, strings.Join(c.endpoints, ", "), err)
	}
	return resp, nil
}

func (c *Client) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.delay):
		return nil
	}
}

// StripCategory drops a leading "Category:" prefix from a title.
func StripCategory(title string) string {
	title = strings.TrimSpace(title)
	if rest, ok := strings.CutPrefix(title, "Category:"); ok {
		return strings.TrimSpace(rest)
	}
	return title
}

// Namespace returns a pointer to ns for MemberQuery.
func Namespace(ns int) *int { return &ns }
