// Package linker attaches a foreign language taxonomy to the catalog.
//
// Linking never creates identities. Each catalog language is resolved
// against an Index of the taxonomy's entries through a fixed ladder of
// tiers (exact name, alias table, spelling variant, filename evidence) and
// a match writes the taxonomy's namespaced field group onto the language.
//
// Example usage:
//
//	idx := linker.NewIndex(entries)
//	l := &linker.Linker{
//	    Source:  sources.PygmentsID,
//	    Aliases: aliases.Pygments(),
//	}
//	linked, report, err := l.Link(ctx, cat, idx)
package linker

import (
	"context"
	"slices"
	"strings"

	"github.com/acherm/PL-ultimate/pkg/aliases"
	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/logging"
	"github.com/acherm/PL-ultimate/pkg/normalize"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Linker links one foreign taxonomy.
type Linker struct {
	// Source names the taxonomy and its column namespace.
	Source sources.ID
	// Aliases translates catalog names into the taxonomy's vocabulary.
	Aliases aliases.Table
	// NameColumns are tried in order; the first non-empty value is the
	// name matched. Defaults to the canonical name column.
	NameColumns []string
	// EvidenceColumns feed the filename tier.
	EvidenceColumns []string
	// UseFilenames enables the filename tier.
	UseFilenames bool
	// NoiseWords are dropped from names for an extra variant lookup.
	NoiseWords []string
}

type match struct {
	entry int
	tier  catalogs.Tier
}

// Link resolves every catalog language against idx and returns a new
// catalog carrying the source's field group on matched languages, plus a
// report of entries nothing matched. Each entry links to at most one
// language: a stronger tier beats a weaker one and catalog order breaks
// ties. Any field group the input already holds for the source is
// replaced, so linking twice gives the same result.
func (k *Linker) Link(ctx context.Context, cat *catalogs.Catalog, idx *Index) (*catalogs.Catalog, *Report, error) {
	if err := k.validate(idx); err != nil {
		return nil, nil, err
	}

	out := cat.Clone()
	langs := out.Languages()
	for _, l := range langs {
		l.ClearLink(k.Source)
	}

	cands := make([]match, len(langs))
	claims := make(map[int]int)
	for i, l := range langs {
		m, ok := k.resolve(out, l, idx)
		if !ok {
			continue
		}
		cands[i] = m
		if j, taken := claims[m.entry]; taken && cands[j].tier.Rank() <= m.tier.Rank() {
			continue
		}
		claims[m.entry] = i
	}

	report := newReport(k.Source, idx.Len())
	matchedKeys := make(map[string]bool, len(claims))
	for e, entry := range idx.Entries() {
		i, ok := claims[e]
		if !ok {
			continue
		}
		tier := cands[i].tier
		langs[i].SetLink(k.Source, &catalogs.Link{
			Name:   entry.Name,
			Tier:   tier,
			Fields: slices.Clone(entry.Fields),
		})
		report.Matched[tier]++
		matchedKeys[normalize.Key(entry.Name)] = true
	}
	// An entry is missing only when no matched entry shares its key.
	for e, entry := range idx.Entries() {
		if _, ok := claims[e]; ok || matchedKeys[normalize.Key(entry.Name)] {
			continue
		}
		report.Missing = append(report.Missing, Missing{ForeignName: entry.Name, Reference: entry.Reference})
	}
	out.MarkLinked(k.Source)

	logging.FromContext(ctx).Info().
		Str("source", string(k.Source)).
		Int("entries", report.Total).
		Int("matched", report.MatchedCount()).
		Int("missing", len(report.Missing)).
		Msg("Linked taxonomy")

	return out, report, nil
}

func (k *Linker) validate(idx *Index) error {
	if k.Source == "" {
		return errors.NewValidationError("source", k.Source, "cannot be empty")
	}
	if k.Source.IsValid() {
		return errors.NewValidationError("source", k.Source, "base sources cannot be linked")
	}
	if idx == nil {
		return errors.NewValidationError("index", nil, "cannot be nil")
	}
	return nil
}

func (k *Linker) resolve(cat *catalogs.Catalog, l *catalogs.Language, idx *Index) (match, bool) {
	if key := normalize.Key(k.name(cat, l)); key != "" {
		if e, ok := idx.Lookup(key); ok {
			return match{e, catalogs.TierName}, true
		}
		if target, ok := k.Aliases.Lookup(key); ok {
			if e, ok := idx.Lookup(normalize.Key(target)); ok {
				return match{e, catalogs.TierAlias}, true
			}
		}
		if e, ok := idx.LookupVariant(key); ok {
			return match{e, catalogs.TierVariant}, true
		}
		if stripped := k.stripNoise(key); stripped != "" && stripped != key {
			if e, ok := idx.LookupVariant(stripped); ok {
				return match{e, catalogs.TierVariant}, true
			}
		}
	}

	if !k.UseFilenames {
		return match{}, false
	}
	values := make([]string, 0, len(k.EvidenceColumns))
	for _, col := range k.EvidenceColumns {
		v, _ := cat.Value(l, col)
		values = append(values, v)
	}
	best, bestLen := -1, 0
	for _, tok := range evidenceTokens(values...) {
		if e, ok := idx.LookupToken(tok); ok && len(tok) > bestLen {
			best, bestLen = e, len(tok)
		}
	}
	if best < 0 {
		return match{}, false
	}
	return match{best, catalogs.TierFilename}, true
}

func (k *Linker) name(cat *catalogs.Catalog, l *catalogs.Language) string {
	cols := k.NameColumns
	if len(cols) == 0 {
		cols = []string{catalogs.ColName}
	}
	for _, col := range cols {
		if v, _ := cat.Value(l, col); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (k *Linker) stripNoise(key string) string {
	if len(k.NoiseWords) == 0 {
		return ""
	}
	words := strings.Fields(strings.ReplaceAll(key, "-", " "))
	kept := words[:0]
	for _, w := range words {
		if !slices.Contains(k.NoiseWords, w) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// NameColumns returns the columns a linker should read names from:
// override alone when set, otherwise prefer before the canonical name when
// the schema carries it.
func NameColumns(schema []string, prefer, override string) []string {
	if override != "" {
		return []string{override}
	}
	if prefer != "" && slices.Contains(schema, prefer) {
		return []string{prefer, catalogs.ColName}
	}
	return []string{catalogs.ColName}
}
