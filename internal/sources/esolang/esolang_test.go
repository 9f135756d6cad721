package esolang

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acherm/PL-ultimate/internal/mediawiki"
	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

func TestFetchFollowsContinuation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Category:Languages", q.Get("cmtitle"))
		if q.Get("cmcontinue") == "" {
			_, _ = w.Write([]byte(`{"continue":{"cmcontinue":"page|2","continue":"-||"},"query":{"categorymembers":[{"title":"Brainfuck"},{"title":"Befunge"}]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"query":{"categorymembers":[{"title":"Malbolge"},{"title":"Befunge"},{"title":" "}]}}`))
	}))
	defer srv.Close()

	client := transport.New(transport.WithRetry(1, time.Millisecond))
	src := New(client, transport.NewCache(t.TempDir(), false)).
		WithEndpoint(srv.URL, mediawiki.WithDelay(0))
	assert.Equal(t, sources.EsolangID, src.ID())

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Befunge", records[0].Name)
	assert.Equal(t, "Brainfuck", records[1].Name)
	assert.Equal(t, "Malbolge", records[2].Name)
	for _, r := range records {
		assert.Equal(t, Type, r.Types)
		assert.Equal(t, sources.EsolangID, r.Source)
		assert.Equal(t, EvidenceURL, r.EvidenceURL)
	}
}

func TestFetchReportsAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := transport.New(transport.WithRetry(2, time.Millisecond))
	_, err := New(client, transport.NewCache(t.TempDir(), false)).
		WithEndpoint(srv.URL, mediawiki.WithDelay(0)).
		Fetch(context.Background())
	assert.Error(t, err)
}
