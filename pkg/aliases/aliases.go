// Package aliases holds immutable spelling-variant tables. A table maps a
// normalized key (abbreviation, symbol variant, common misspelling) to the
// name a particular foreign taxonomy uses for the same language. Each
// linker owns its own table because every taxonomy has its own vocabulary.
package aliases

import (
	"maps"
	"os"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/normalize"
)

// Table is an immutable alias mapping. The zero value is an empty table.
type Table struct {
	entries map[string]string
}

// New builds a table from raw variant → target pairs. Variants are
// normalized with normalize.Key; when two variants normalize to the same
// key the lexically first raw variant wins.
func New(pairs map[string]string) Table {
	entries := make(map[string]string, len(pairs))
	for _, raw := range slices.Sorted(maps.Keys(pairs)) {
		key := normalize.Key(raw)
		if key == "" {
			continue
		}
		if _, exists := entries[key]; !exists {
			entries[key] = pairs[raw]
		}
	}
	return Table{entries: entries}
}

// Lookup returns the target for an already normalized key.
func (t Table) Lookup(key string) (string, bool) {
	target, ok := t.entries[key]
	return target, ok
}

// Translate normalizes text and looks it up.
func (t Table) Translate(text string) (string, bool) {
	return t.Lookup(normalize.Key(text))
}

// Len returns the number of distinct keys.
func (t Table) Len() int {
	return len(t.entries)
}

// Keys returns the normalized keys in sorted order.
func (t Table) Keys() []string {
	return slices.Sorted(maps.Keys(t.entries))
}

// Load reads a YAML mapping of variant to target from path.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, errors.WrapIO("read", path, err)
	}
	var pairs map[string]string
	if err := yaml.Unmarshal(data, &pairs); err != nil {
		return Table{}, errors.WrapParse("yaml", path, err)
	}
	return New(pairs), nil
}

// File is the on-disk form of a set of override tables, keyed by source.
type File map[string]map[string]string

// LoadFile reads a YAML document holding one table per source name.
func LoadFile(path string) (map[string]Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	out := make(map[string]Table, len(f))
	for name, pairs := range f {
		out[name] = New(pairs)
	}
	return out, nil
}
