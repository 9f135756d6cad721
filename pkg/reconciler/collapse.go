package reconciler

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/logging"
)

// Collapse folds identifiers that are near-duplicates of each other.
//
// Identifiers are bucketed by first character and compared pairwise within
// a bucket. For a pair at or above the threshold the identity backed by more
// sources survives, ties going to the lexicographically earlier identifier.
// A later pair overwrites an earlier decision for the same identifier, and
// remapping is single-hop: an identifier remapped onto one that is itself
// remapped lands on the intermediate identifier. WithFixedPoint repeats the
// pass until nothing changes.
//
// The returned map holds only identifiers that changed, each pointing at the
// identifier it ended up under.
func Collapse(ctx context.Context, cat *catalogs.Catalog, opts ...Option) (*catalogs.Catalog, map[string]string, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, nil, err
	}

	logger := logging.FromContext(ctx)
	remap := make(map[string]string)
	current := cat
	for pass := 1; ; pass++ {
		next, changed, err := collapseOnce(ctx, current, o)
		if err != nil {
			return nil, nil, err
		}
		for from, to := range remap {
			if nt, ok := changed[to]; ok {
				remap[from] = nt
			}
		}
		for from, to := range changed {
			remap[from] = to
		}

		logger.Debug().
			Int("pass", pass).
			Int("remapped", len(changed)).
			Int("languages", next.Len()).
			Msg("Collapse pass complete")

		current = next
		if !o.fixedPoint || len(changed) == 0 {
			break
		}
	}
	return current, remap, nil
}

type decision struct {
	drop, keep string
}

func collapseOnce(ctx context.Context, cat *catalogs.Catalog, o *options) (*catalogs.Catalog, map[string]string, error) {
	buckets := make(map[rune][]string)
	counts := make(map[string]int, cat.Len())
	for _, l := range cat.Languages() {
		first := []rune(l.ID)[0]
		buckets[first] = append(buckets[first], l.ID)
		counts[l.ID] = l.SourceCount()
	}
	keys := make([]rune, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	results := make([][]decision, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	if o.workers > 0 {
		g.SetLimit(o.workers)
	}
	for i, k := range keys {
		ids := buckets[k]
		g.Go(func() error {
			d, err := compareBucket(gctx, ids, counts, o.threshold)
			results[i] = d
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	idMap := make(map[string]string)
	for _, ds := range results {
		for _, d := range ds {
			idMap[d.drop] = d.keep
		}
	}
	if len(idMap) == 0 {
		return cat.Clone(), map[string]string{}, nil
	}
	return regroup(cat, idMap), idMap, nil
}

// compareBucket returns the collapse decisions for one bucket in pair order.
func compareBucket(ctx context.Context, ids []string, counts map[string]int, threshold float64) ([]decision, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)

	var out []decision
	for i, a := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, b := range sorted[i+1:] {
			if Similarity(a, b) < threshold {
				continue
			}
			keep, drop := a, b
			if counts[b] > counts[a] {
				keep, drop = b, a
			}
			out = append(out, decision{drop: drop, keep: keep})
		}
	}
	return out, nil
}

// regroup moves every language to its remapped identifier and merges the
// resulting groups, surviving row first.
func regroup(cat *catalogs.Catalog, idMap map[string]string) *catalogs.Catalog {
	target := func(id string) string {
		if to, ok := idMap[id]; ok {
			return to
		}
		return id
	}

	groups := make(map[string][]*catalogs.Language)
	var order []string
	for _, l := range cat.Languages() {
		id := target(l.ID)
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], l)
	}

	langs := make([]*catalogs.Language, 0, len(order))
	for _, id := range order {
		group := groups[id]
		slices.SortStableFunc(group, func(a, b *catalogs.Language) int {
			switch {
			case a.ID == id && b.ID != id:
				return -1
			case b.ID == id && a.ID != id:
				return 1
			}
			return 0
		})
		langs = append(langs, merge(id, group, fixedOrder(group)))
	}

	aliases := make([]catalogs.AliasRecord, 0, len(cat.Aliases()))
	for _, a := range cat.Aliases() {
		a.LanguageID = target(a.LanguageID)
		aliases = append(aliases, a)
	}

	out := catalogs.New(langs, aliases)
	for _, src := range cat.Linked() {
		out.MarkLinked(src)
	}
	out.RecountAliases()
	return out
}
