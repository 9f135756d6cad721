// Package catalogs holds the language catalog data model: identities, their
// alias records and the linked field groups added by the taxonomy linker.
//
// A Catalog is built once per pipeline stage and treated as read-only by the
// next stage, which clones what it changes.
package catalogs

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/normalize"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// SelfAlias tags the alias record every identity holds for its own name.
const SelfAlias = "self"

// AliasRecord says that Alias refers to LanguageID, according to Source.
type AliasRecord struct {
	Alias      string `json:"alias" yaml:"alias"`
	LanguageID string `json:"lang_id" yaml:"lang_id"`
	Source     string `json:"source" yaml:"source"`
}

// Catalog is an ordered set of languages plus their alias records.
type Catalog struct {
	languages []*Language
	index     map[string]int
	aliases   []AliasRecord
	linked    []sources.ID
}

// New builds a catalog. Languages are sorted by ID and alias records are
// deduplicated on exact equality, keeping first occurrences.
func New(languages []*Language, aliases []AliasRecord) *Catalog {
	langs := slices.Clone(languages)
	slices.SortStableFunc(langs, func(a, b *Language) int {
		return cmp.Compare(a.ID, b.ID)
	})
	c := &Catalog{
		languages: langs,
		index:     make(map[string]int, len(langs)),
		aliases:   DedupAliases(aliases),
	}
	for i, l := range langs {
		if _, dup := c.index[l.ID]; !dup {
			c.index[l.ID] = i
		}
	}
	return c
}

// Languages returns the languages in ID order. Callers must not mutate them.
func (c *Catalog) Languages() []*Language {
	return c.languages
}

// Len returns the number of languages.
func (c *Catalog) Len() int {
	return len(c.languages)
}

// Get returns the language with the given ID.
func (c *Catalog) Get(id string) (*Language, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.languages[i], true
}

// Aliases returns the alias records.
func (c *Catalog) Aliases() []AliasRecord {
	return c.aliases
}

// Linked returns the linked sources whose columns this catalog carries, in
// sources.Linked() order followed by any others sorted by name.
func (c *Catalog) Linked() []sources.ID {
	return c.linked
}

// MarkLinked records that src has been linked, even if nothing matched.
func (c *Catalog) MarkLinked(src sources.ID) {
	if slices.Contains(c.linked, src) {
		return
	}
	c.linked = append(c.linked, src)
	known := sources.Linked()
	slices.SortStableFunc(c.linked, func(a, b sources.ID) int {
		ra, rb := slices.Index(known, a), slices.Index(known, b)
		if ra < 0 {
			ra = len(known)
		}
		if rb < 0 {
			rb = len(known)
		}
		if ra != rb {
			return cmp.Compare(ra, rb)
		}
		return cmp.Compare(a, b)
	})
}

// Clone returns a deep copy.
func (c *Catalog) Clone() *Catalog {
	langs := make([]*Language, len(c.languages))
	for i, l := range c.languages {
		langs[i] = l.Clone()
	}
	out := New(langs, c.aliases)
	out.linked = slices.Clone(c.linked)
	return out
}

// WithAliases returns a copy of c whose alias records are records. Alias
// counts are left as they are.
func (c *Catalog) WithAliases(records []AliasRecord) *Catalog {
	out := c.Clone()
	out.aliases = DedupAliases(records)
	return out
}

// RecountAliases sets every AliasCount to the number of distinct alias
// strings recorded for that language.
func (c *Catalog) RecountAliases() {
	counts := CountAliases(c.aliases)
	for _, l := range c.languages {
		l.AliasCount = counts[l.ID]
	}
}

// Validate checks the catalog invariants.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.languages))
	for _, l := range c.languages {
		if l.ID == "" {
			return errors.NewValidationError("lang_id", l.Name, "empty identifier")
		}
		if seen[l.ID] {
			return errors.NewValidationError("lang_id", l.ID, "duplicate identifier")
		}
		seen[l.ID] = true
		for _, ext := range l.Extensions {
			if !normalize.ValidExtension.MatchString(ext) {
				return errors.NewValidationError("extensions", ext, fmt.Sprintf("invalid extension on %s", l.ID))
			}
		}
		for _, src := range l.Sources {
			if !src.IsValid() {
				return errors.NewValidationError("source_flags", src, fmt.Sprintf("unknown source on %s", l.ID))
			}
		}
	}
	return nil
}

// CountAliases returns the number of distinct alias strings per language.
func CountAliases(records []AliasRecord) map[string]int {
	distinct := make(map[string]map[string]struct{})
	for _, r := range records {
		if r.Alias == "" || r.LanguageID == "" {
			continue
		}
		set, ok := distinct[r.LanguageID]
		if !ok {
			set = make(map[string]struct{})
			distinct[r.LanguageID] = set
		}
		set[r.Alias] = struct{}{}
	}
	counts := make(map[string]int, len(distinct))
	for id, set := range distinct {
		counts[id] = len(set)
	}
	return counts
}

// DedupAliases drops exact duplicate records, keeping first occurrences.
func DedupAliases(records []AliasRecord) []AliasRecord {
	seen := make(map[AliasRecord]struct{}, len(records))
	out := make([]AliasRecord, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
