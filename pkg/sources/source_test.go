package sources_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acherm/PL-ultimate/pkg/sources"
)

type stubSource struct {
	id sources.ID
}

func (s stubSource) ID() sources.ID { return s.id }

func (s stubSource) Fetch(context.Context) ([]sources.Record, error) { return nil, nil }

func TestIDs(t *testing.T) {
	for _, id := range sources.Known() {
		assert.True(t, id.IsValid(), id)
		assert.False(t, id.IsLinked(), id)
	}
	for _, id := range sources.Linked() {
		assert.False(t, id.IsValid(), id)
		assert.True(t, id.IsLinked(), id)
	}
	assert.False(t, sources.ID("bogus").IsValid())
}

func TestSourcesListOrder(t *testing.T) {
	reg := sources.NewSources()
	reg.Set(stubSource{id: sources.PLDBID})
	reg.Set(stubSource{id: "zz-custom"})
	reg.Set(stubSource{id: sources.LinguistID})
	reg.Set(stubSource{id: sources.WikipediaID})

	var got []sources.ID
	for _, src := range reg.List() {
		got = append(got, src.ID())
	}
	assert.Equal(t, []sources.ID{sources.LinguistID, sources.WikipediaID, sources.PLDBID, "zz-custom"}, got)

	reg.Delete(sources.PLDBID)
	_, ok := reg.Get(sources.PLDBID)
	assert.False(t, ok)
	assert.Equal(t, 3, reg.Len())
}
