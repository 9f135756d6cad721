// Package sources defines the contract between raw-source adapters and the
// reconciler. Every base source yields a flat list of Records; the reconciler
// never looks at a source's native format.
//
// Example usage:
//
//	reg := sources.NewSources()
//	reg.Set(linguist.New(client, cacheDir))
//	for _, src := range reg.List() {
//	    records, err := src.Fetch(ctx)
//	    ...
//	}
package sources

import (
	"context"
	"slices"
	"sync"
)

// ID represents the identifier of a data source.
type ID string

// String returns the string representation of a source name.
func (id ID) String() string {
	return string(id)
}

// Base sources feed the aggregator. Linked sources are joined afterwards by
// the taxonomy linker and never contribute records.
const (
	PLDBID      ID = "pldb"
	LinguistID  ID = "linguist"
	WikipediaID ID = "wikipedia"
	EsolangID   ID = "esolang"

	HyperpolyglotID ID = "hyperpolyglot"
	PygmentsID      ID = "pygments"
	RosettaCodeID   ID = "rosettacode"
)

// Known returns the base source tags in default priority order.
func Known() []ID {
	return []ID{
		LinguistID,
		WikipediaID,
		EsolangID,
		PLDBID,
	}
}

// Linked returns the foreign taxonomies handled by the linker.
func Linked() []ID {
	return []ID{
		HyperpolyglotID,
		PygmentsID,
		RosettaCodeID,
	}
}

// IsValid returns true if the ID is a base source tag.
func (id ID) IsValid() bool {
	return slices.Contains(Known(), id)
}

// IsLinked returns true if the ID names a foreign taxonomy.
func (id ID) IsLinked() bool {
	return slices.Contains(Linked(), id)
}

// Record is what one source says about one language name.
type Record struct {
	Name          string
	Source        ID
	Aliases       []string
	Extensions    []string
	Types         string
	FirstAppeared string
	Homepage      string
	Paradigms     string
	Typing        string
	DesignedBy    string
	InfluencedBy  string
	HelloWorld    bool
	LinguistKey   string
	Notes         string
	EvidenceURL   string
}

// Source is a base data source.
type Source interface {
	// ID returns the tag stamped on every record
	ID() ID

	// Fetch returns every record the source holds. Rejected raw entries
	// are not errors.
	Fetch(ctx context.Context) ([]Record, error)
}

// Sources is a thread-safe registry of base sources.
type Sources struct {
	mu      sync.RWMutex
	sources map[ID]Source
}

// NewSources creates an empty registry.
func NewSources() *Sources {
	return &Sources{
		sources: make(map[ID]Source),
	}
}

// Get returns a source by ID.
func (s *Sources) Get(id ID) (Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, found := s.sources[id]
	return src, found
}

// Set registers src under its own ID.
func (s *Sources) Set(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[src.ID()] = src
}

// Delete removes a source by ID.
func (s *Sources) Delete(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sources, id)
}

// Len returns the number of sources.
func (s *Sources) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sources)
}

// List returns the registered sources in Known() order, followed by any
// unknown IDs sorted by name.
func (s *Sources) List() []Source {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Source, 0, len(s.sources))
	seen := make(map[ID]bool, len(s.sources))
	for _, id := range Known() {
		if src, ok := s.sources[id]; ok {
			out = append(out, src)
			seen[id] = true
		}
	}
	var rest []ID
	for id := range s.sources {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)
	for _, id := range rest {
		out = append(out, s.sources[id])
	}
	return out
}
