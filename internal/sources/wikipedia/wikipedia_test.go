package wikipedia

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

const listPage = `<!DOCTYPE html>
<html><body>
<p><a href="/wiki/Intro" title="Outside any list">intro</a></p>
<ul>
  <li><a href="/wiki/Ada" title="Ada (programming language)">Ada</a></li>
  <li><a href="/wiki/ALGOL" title="ALGOL">ALGOL</a></li>
  <li><a href="/wiki/List_of_x" title="List of BASIC dialects">more</a></li>
  <li><a href="/wiki/Help:Contents" title="Help:Contents">help</a></li>
  <li><a href="#cite">no title</a></li>
</ul>
<table><tr><td><a href="/wiki/APL" title="APL (programming language)">APL</a></td></tr></table>
</body></html>`

func TestTitles(t *testing.T) {
	titles, err := Titles([]byte(listPage))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Ada (programming language)",
		"ALGOL",
		"APL (programming language)",
	}, titles)
}

func TestFetchScrapesListPages(t *testing.T) {
	var apiCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, ":_B"):
			_, _ = w.Write([]byte(`<ul><li><a title="BCPL">BCPL</a></li><li><a title="ALGOL">ALGOL</a></li></ul>`))
		case strings.HasSuffix(r.URL.Path, ":_C"):
			http.Error(w, "gone", http.StatusNotFound)
		case strings.Contains(r.URL.Path, ":_"):
			_, _ = w.Write([]byte(`<ul></ul>`))
		default:
			_, _ = w.Write([]byte(listPage))
		}
	})
	mux.HandleFunc("/api.php", func(w http.ResponseWriter, _ *http.Request) {
		apiCalls++
		_, _ = w.Write([]byte(`{"query":{"categorymembers":[]}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	client := transport.New(transport.WithRetry(1, time.Millisecond))
	src := New(client, transport.NewCache(dir, false)).
		WithEndpoints(srv.URL+"/wiki/List", srv.URL+"/api.php", 0)
	assert.Equal(t, sources.WikipediaID, src.ID())

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)

	var names []string
	for _, r := range records {
		names = append(names, r.Name)
		assert.Equal(t, sources.WikipediaID, r.Source)
		assert.Equal(t, EvidenceURL, r.EvidenceURL)
	}
	assert.Equal(t, []string{"ALGOL", "APL (programming language)", "Ada (programming language)", "BCPL"}, names)
	assert.Zero(t, apiCalls)

	raw, err := os.ReadFile(filepath.Join(dir, RawFile))
	require.NoError(t, err)
	var cached []string
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.Equal(t, names, cached)
}

func TestFetchFallsBackToCategory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	})
	mux.HandleFunc("/api.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Category:Programming languages", r.URL.Query().Get("cmtitle"))
		assert.Equal(t, "page", r.URL.Query().Get("cmtype"))
		_, _ = w.Write([]byte(`{"query":{"categorymembers":[{"title":"Zig"},{"title":"List of Zig tools"},{"title":"COBOL"}]}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := transport.New(transport.WithRetry(1, time.Millisecond))
	src := New(client, transport.NewCache(t.TempDir(), false)).
		WithEndpoints(srv.URL+"/wiki/List", srv.URL+"/api.php", 0)

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "COBOL", records[0].Name)
	assert.Equal(t, "Zig", records[1].Name)
}

func TestFetchOfflineWithoutCache(t *testing.T) {
	client := transport.New(transport.WithRetry(1, time.Millisecond))
	_, err := New(client, transport.NewCache(t.TempDir(), true)).Fetch(context.Background())
	assert.Error(t, err)
}
