package mediawiki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/errors"
)

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func newWiki(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/mw/api.php", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "query", q.Get("action"))
		assert.Equal(t, "2", q.Get("formatversion"))

		switch {
		case q.Get("list") == "categorymembers":
			assert.Equal(t, "Category:Programming Languages", q.Get("cmtitle"))
			assert.Equal(t, "14", q.Get("cmnamespace"))
			assert.Equal(t, "subcat", q.Get("cmtype"))
			if q.Get("cmcontinue") == "" {
				writeJSON(t, w, map[string]any{
					"continue": map[string]string{"cmcontinue": "page|2", "continue": "-||"},
					"query": map[string]any{"categorymembers": []map[string]any{
						{"title": "Category:Ada"}, {"title": "Category:Go"},
					}},
				})
				return
			}
			writeJSON(t, w, map[string]any{
				"query": map[string]any{"categorymembers": []map[string]any{{"title": "Category:Zig"}}},
			})
		case q.Get("prop") == "extracts":
			var pages []map[string]any
			for _, title := range strings.Split(q.Get("titles"), "|") {
				pages = append(pages, map[string]any{"title": title, "extract": " About " + title + " "})
			}
			pages = append(pages, map[string]any{"title": "Nowhere", "missing": true})
			writeJSON(t, w, map[string]any{"query": map[string]any{"pages": pages}})
		case q.Get("prop") == "categoryinfo":
			writeJSON(t, w, map[string]any{"query": map[string]any{"pages": []map[string]any{
				{"title": "Category:Go", "categoryinfo": map[string]int{"size": 1200, "pages": 1180}},
				{"title": "Category:Ada"},
			}}})
		default:
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
	})
	return httptest.NewServer(mux)
}

func client(srv *httptest.Server) *Client {
	hc := transport.New(transport.WithRetry(1, time.Millisecond))
	return New(hc, "rosettacode", []string{srv.URL + "/w/api.php", srv.URL + "/mw/api.php"}, WithDelay(0))
}

func TestCategoryMembersFollowsContinuation(t *testing.T) {
	srv := newWiki(t)
	defer srv.Close()

	titles, err := client(srv).CategoryMembers(context.Background(), "Programming Languages", MemberQuery{
		Namespace: Namespace(NamespaceCategory),
		Type:      "subcat",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Category:Ada", "Category:Go", "Category:Zig"}, titles)
}

func TestExtractsBatches(t *testing.T) {
	srv := newWiki(t)
	defer srv.Close()

	titles := make([]string, 120)
	for i := range titles {
		titles[i] = "Lang " + string(rune('A'+i%26)) + string(rune('a'+i/26))
	}
	got, err := client(srv).Extracts(context.Background(), titles)
	require.NoError(t, err)
	assert.Len(t, got, 120)
	assert.Equal(t, "About Lang Aa", got["Lang Aa"])
	assert.NotContains(t, got, "Nowhere")
}

func TestCategorySizes(t *testing.T) {
	srv := newWiki(t)
	defer srv.Close()

	got, err := client(srv).CategorySizes(context.Background(), []string{"Category:Go", "Category:Ada"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Category:Go": 1180}, got)
}

func TestAllEndpointsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := client(srv).CategoryMembers(context.Background(), "Languages", MemberQuery{})
	assert.True(t, errors.IsFetchFailed(err))
}

func TestStripCategory(t *testing.T) {
	assert.Equal(t, "Go", StripCategory("Category:Go"))
	assert.Equal(t, "Go", StripCategory(" Go "))
	assert.Equal(t, "C: The Language", StripCategory("C: The Language"))
}
