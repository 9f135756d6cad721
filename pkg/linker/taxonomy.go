package linker

import (
	"context"

	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Taxonomy is a foreign language taxonomy that can be linked.
type Taxonomy interface {
	// ID names the taxonomy and its column namespace
	ID() sources.ID

	// Entries returns every entry of the taxonomy in its native order
	Entries(ctx context.Context) ([]Entry, error)
}
