package linker

import (
	"strings"

	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/normalize"
)

// Entry is one language as a foreign taxonomy describes it.
type Entry struct {
	// Name is the taxonomy's display name.
	Name    string
	Aliases []string
	// Filenames holds filename patterns, either "*.ext" globs or bare names.
	Filenames []string
	// Reference identifies the entry in missing reports (module, URL, ...).
	Reference string
	// Fields are written under the source namespace on a match.
	Fields []catalogs.Field
}

// Index is a lookup structure over a foreign taxonomy. It is immutable
// once built.
type Index struct {
	entries   []Entry
	byKey     map[string]int
	byVariant map[string]int
	byToken   map[string]int
}

// NewIndex indexes entries. Display names are indexed before aliases, and
// within each pass the first entry wins a clashing key. Filename patterns
// become ".ext" tokens for globs, and the raw name plus a "_"/"."-stripped
// variant for bare filenames.
func NewIndex(entries []Entry) *Index {
	idx := &Index{
		entries:   entries,
		byKey:     make(map[string]int),
		byVariant: make(map[string]int),
		byToken:   make(map[string]int),
	}
	for i, e := range entries {
		idx.addKey(normalize.Key(e.Name), i)
	}
	for i, e := range entries {
		for _, a := range e.Aliases {
			idx.addKey(normalize.Key(a), i)
		}
	}
	for i, e := range entries {
		for _, f := range e.Filenames {
			for _, tok := range FilenameTokens(f) {
				if _, ok := idx.byToken[tok]; !ok {
					idx.byToken[tok] = i
				}
			}
		}
	}
	return idx
}

func (x *Index) addKey(key string, i int) {
	if key == "" {
		return
	}
	if _, ok := x.byKey[key]; !ok {
		x.byKey[key] = i
	}
	if v := collapse(key); v != "" {
		if _, ok := x.byVariant[v]; !ok {
			x.byVariant[v] = i
		}
	}
}

// Len returns the number of entries.
func (x *Index) Len() int { return len(x.entries) }

// Entries returns the entries in index order.
func (x *Index) Entries() []Entry { return x.entries }

// Lookup returns the entry position for a normalized key.
func (x *Index) Lookup(key string) (int, bool) {
	i, ok := x.byKey[key]
	return i, ok
}

// LookupVariant returns the entry position for a key with spaces and
// hyphens removed.
func (x *Index) LookupVariant(key string) (int, bool) {
	i, ok := x.byVariant[collapse(key)]
	return i, ok
}

// LookupToken returns the first entry declaring a filename token.
func (x *Index) LookupToken(tok string) (int, bool) {
	i, ok := x.byToken[tok]
	return i, ok
}

// FilenameTokens turns one filename pattern into lookup tokens.
func FilenameTokens(pattern string) []string {
	p := strings.ToLower(strings.TrimSpace(pattern))
	if p == "" {
		return nil
	}
	if ext, ok := strings.CutPrefix(p, "*."); ok {
		if ext == "" {
			return nil
		}
		return []string{"." + ext}
	}
	raw := strings.TrimLeft(p, "./")
	if raw == "" {
		return nil
	}
	toks := []string{raw}
	if stripped := strings.TrimLeft(raw, "_."); stripped != "" && stripped != raw {
		toks = append(toks, stripped)
	}
	return toks
}

var separators = strings.NewReplacer(" ", "", "-", "")

func collapse(key string) string {
	return separators.Replace(key)
}
