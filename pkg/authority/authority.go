// Package authority decides which source wins a field when several sources
// describe the same language. Priority is an explicit ordered list of
// sources per field, with a catalog-wide default.
package authority

import (
	"path/filepath"
	"slices"

	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Field overrides the source order for fields matching Path.
type Field struct {
	Path  string       `json:"path" yaml:"path"`   // e.g. "homepage", "hello_*"
	Order []sources.ID `json:"order" yaml:"order"` // most authoritative first
}

// Authority resolves the source order for a field.
type Authority struct {
	defaults []sources.ID
	fields   []Field
}

// Option configures an Authority.
type Option func(*Authority)

// WithDefault replaces the catalog-wide order.
func WithDefault(order ...sources.ID) Option {
	return func(a *Authority) {
		a.defaults = slices.Clone(order)
	}
}

// WithField overrides the order for fields matching path.
func WithField(path string, order ...sources.ID) Option {
	return func(a *Authority) {
		a.fields = append(a.fields, Field{Path: path, Order: slices.Clone(order)})
	}
}

// New creates an Authority using sources.Known() as the default order.
func New(opts ...Option) *Authority {
	a := &Authority{defaults: sources.Known()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FromMap builds an Authority from a config mapping of field pattern to
// source names. The "default" key replaces the catalog-wide order.
func FromMap(m map[string][]string) *Authority {
	var opts []Option
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		ids := make([]sources.ID, 0, len(m[k]))
		for _, s := range m[k] {
			ids = append(ids, sources.ID(s))
		}
		if k == "default" {
			opts = append(opts, WithDefault(ids...))
			continue
		}
		opts = append(opts, WithField(k, ids...))
	}
	return New(opts...)
}

// Order returns the source order that applies to field.
func (a *Authority) Order(field string) []sources.ID {
	if f := ByField(field, a.fields); f != nil {
		return f.Order
	}
	return a.defaults
}

// Rank returns the position of src in the order for field. Sources not
// listed rank after every listed source.
func (a *Authority) Rank(field string, src sources.ID) int {
	order := a.Order(field)
	if i := slices.Index(order, src); i >= 0 {
		return i
	}
	return len(order)
}

// ByField returns the most specific override matching fieldPath. Exact
// matches beat patterns; longer patterns beat shorter ones; ties keep the
// earlier entry.
func ByField(fieldPath string, fields []Field) *Field {
	var best *Field
	bestLen := -1
	for i, f := range fields {
		if f.Path == fieldPath {
			return &fields[i]
		}
		if MatchesPattern(fieldPath, f.Path) && len(f.Path) > bestLen {
			best = &fields[i]
			bestLen = len(f.Path)
		}
	}
	return best
}

// MatchesPattern checks if a field path matches a pattern (supports * wildcards)
func MatchesPattern(fieldPath, pattern string) bool {
	if fieldPath == pattern {
		return true
	}

	if len(pattern) > 0 && pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		return len(fieldPath) >= len(prefix) && fieldPath[:len(prefix)] == prefix
	}

	matched, err := filepath.Match(pattern, fieldPath)
	if err != nil {
		return false
	}
	return matched
}
