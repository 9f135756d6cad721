// Package reconciler merges per-source records into the language catalog.
// Aggregate groups records by identifier, EnrichExtensions joins the
// registry's extension lists onto exact name matches, and Collapse folds
// near-duplicate identifiers together.
package reconciler

import (
	"context"
	"slices"
	"strings"

	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/logging"
	"github.com/acherm/PL-ultimate/pkg/normalize"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Aggregate groups records by normalize.Identifier of their name and
// merges each group into one language. Records with a blank name are
// dropped. The result carries one alias record per record alias plus a
// self record for every canonical name.
func Aggregate(ctx context.Context, records []sources.Record, opts ...Option) (*catalogs.Catalog, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]*catalogs.Language)
	var ids []string
	var aliases []catalogs.AliasRecord
	dropped := 0

	for _, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			dropped++
			continue
		}
		if !rec.Source.IsValid() {
			return nil, errors.NewValidationError("source", rec.Source, "unknown source tag on record "+rec.Name)
		}
		id := normalize.Identifier(rec.Name)
		if _, seen := groups[id]; !seen {
			ids = append(ids, id)
		}
		groups[id] = append(groups[id], fromRecord(id, rec))
		for _, a := range rec.Aliases {
			if a = strings.TrimSpace(a); a != "" {
				aliases = append(aliases, catalogs.AliasRecord{Alias: a, LanguageID: id, Source: string(rec.Source)})
			}
		}
	}

	langs := make([]*catalogs.Language, 0, len(ids))
	for _, id := range ids {
		group := groups[id]
		langs = append(langs, merge(id, group, o.byAuthority(group)))
	}
	for _, l := range langs {
		aliases = append(aliases, catalogs.AliasRecord{Alias: l.Name, LanguageID: l.ID, Source: catalogs.SelfAlias})
	}

	cat := catalogs.New(langs, aliases)
	cat.RecountAliases()

	logging.FromContext(ctx).Debug().
		Int("records", len(records)).
		Int("dropped", dropped).
		Int("languages", cat.Len()).
		Int("aliases", len(cat.Aliases())).
		Msg("Aggregated records")

	return cat, nil
}

// byAuthority orders single-source group members by the source priority of
// each field. Members from equally ranked sources keep input order.
func (o *options) byAuthority(group []*catalogs.Language) orderFunc {
	cache := make(map[string][]*catalogs.Language)
	return func(field string) []*catalogs.Language {
		if ordered, ok := cache[field]; ok {
			return ordered
		}
		ordered := slices.Clone(group)
		slices.SortStableFunc(ordered, func(a, b *catalogs.Language) int {
			return o.authority.Rank(field, a.Sources[0]) - o.authority.Rank(field, b.Sources[0])
		})
		cache[field] = ordered
		return ordered
	}
}

func fromRecord(id string, rec sources.Record) *catalogs.Language {
	l := &catalogs.Language{
		ID:            id,
		Name:          strings.TrimSpace(rec.Name),
		Sources:       []sources.ID{rec.Source},
		Extensions:    normalize.Extensions(rec.Extensions...),
		Types:         rec.Types,
		FirstAppeared: rec.FirstAppeared,
		Homepage:      rec.Homepage,
		Paradigms:     rec.Paradigms,
		Typing:        rec.Typing,
		DesignedBy:    rec.DesignedBy,
		InfluencedBy:  rec.InfluencedBy,
		HelloWorld:    rec.HelloWorld,
		LinguistKey:   rec.LinguistKey,
		Notes:         rec.Notes,
	}
	if rec.EvidenceURL != "" {
		l.EvidenceURLs = []string{rec.EvidenceURL}
	}
	return l
}

// EnrichExtensions joins registry records onto the catalog by exact
// canonical name, then by exact identifier. Each hit gets the registry's
// extensions unioned in, its linguist key set and the registry's source
// flag added. The input catalog is not modified.
func EnrichExtensions(ctx context.Context, cat *catalogs.Catalog, registry []sources.Record) *catalogs.Catalog {
	byName := make(map[string]sources.Record, len(registry))
	byID := make(map[string]sources.Record, len(registry))
	for _, rec := range registry {
		name := strings.TrimSpace(rec.Name)
		if name == "" || !rec.Source.IsValid() {
			continue
		}
		if _, dup := byName[name]; !dup {
			byName[name] = rec
		}
		id := normalize.Identifier(name)
		if _, dup := byID[id]; !dup {
			byID[id] = rec
		}
	}

	out := cat.Clone()
	hits := 0
	for _, l := range out.Languages() {
		rec, ok := byName[l.Name]
		if !ok {
			rec, ok = byID[l.ID]
		}
		if !ok {
			continue
		}
		l.Extensions = normalize.Extensions(append(slices.Clone(l.Extensions), rec.Extensions...)...)
		l.LinguistKey = rec.LinguistKey
		if l.LinguistKey == "" {
			l.LinguistKey = strings.TrimSpace(rec.Name)
		}
		l.AddSource(rec.Source)
		hits++
	}

	logging.FromContext(ctx).Debug().
		Int("registry", len(registry)).
		Int("enriched", hits).
		Msg("Enriched extensions")

	return out
}
