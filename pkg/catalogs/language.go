package catalogs

import (
	"slices"

	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Language is one deduplicated identity in the catalog.
type Language struct {
	ID      string       `json:"id" yaml:"id"`
	Name    string       `json:"name" yaml:"name"`
	Sources []sources.ID `json:"sources" yaml:"sources"` // sorted, unique

	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"` // sorted, unique, valid tokens

	Types         string `json:"types,omitempty" yaml:"types,omitempty"`
	FirstAppeared string `json:"first_appeared,omitempty" yaml:"first_appeared,omitempty"`
	Homepage      string `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Paradigms     string `json:"paradigms,omitempty" yaml:"paradigms,omitempty"`
	Typing        string `json:"typing,omitempty" yaml:"typing,omitempty"`
	DesignedBy    string `json:"designed_by,omitempty" yaml:"designed_by,omitempty"`
	InfluencedBy  string `json:"influenced_by,omitempty" yaml:"influenced_by,omitempty"`
	HelloWorld    bool   `json:"hello_world,omitempty" yaml:"hello_world,omitempty"`
	LinguistKey   string `json:"linguist_key,omitempty" yaml:"linguist_key,omitempty"`
	Notes         string `json:"notes,omitempty" yaml:"notes,omitempty"`

	EvidenceURLs []string `json:"evidence_urls,omitempty" yaml:"evidence_urls,omitempty"` // sorted, unique

	AliasCount int `json:"alias_count" yaml:"alias_count"`

	// Links holds the field groups written by the taxonomy linker, one per
	// linked source.
	Links map[sources.ID]*Link `json:"links,omitempty" yaml:"links,omitempty"`
}

// In reports whether src contributed to or is linked with this language.
func (l *Language) In(src sources.ID) bool {
	if slices.Contains(l.Sources, src) {
		return true
	}
	_, ok := l.Links[src]
	return ok
}

// AddSource records src, keeping Sources sorted and unique.
func (l *Language) AddSource(src sources.ID) {
	i, found := slices.BinarySearch(l.Sources, src)
	if !found {
		l.Sources = slices.Insert(l.Sources, i, src)
	}
}

// HasExtensions reports whether any extension is known.
func (l *Language) HasExtensions() bool { return len(l.Extensions) > 0 }

// HasParadigm reports whether a paradigm is known.
func (l *Language) HasParadigm() bool { return l.Paradigms != "" }

// HasTyping reports whether a typing discipline is known.
func (l *Language) HasTyping() bool { return l.Typing != "" }

// HasHelloWorld reports whether a hello-world example was seen.
func (l *Language) HasHelloWorld() bool { return l.HelloWorld }

// SourceCount returns the number of distinct base sources.
func (l *Language) SourceCount() int { return len(l.Sources) }

// Link returns the field group for src, or nil.
func (l *Language) Link(src sources.ID) *Link {
	return l.Links[src]
}

// SetLink replaces the field group for src.
func (l *Language) SetLink(src sources.ID, link *Link) {
	if l.Links == nil {
		l.Links = make(map[sources.ID]*Link)
	}
	l.Links[src] = link
}

// ClearLink removes the field group for src.
func (l *Language) ClearLink(src sources.ID) {
	delete(l.Links, src)
	if len(l.Links) == 0 {
		l.Links = nil
	}
}

// Clone returns a deep copy.
func (l *Language) Clone() *Language {
	if l == nil {
		return nil
	}
	c := *l
	c.Sources = slices.Clone(l.Sources)
	c.Extensions = slices.Clone(l.Extensions)
	c.EvidenceURLs = slices.Clone(l.EvidenceURLs)
	if l.Links != nil {
		c.Links = make(map[sources.ID]*Link, len(l.Links))
		for src, link := range l.Links {
			c.Links[src] = link.Clone()
		}
	}
	return &c
}

// Tier records how a foreign entry was matched.
type Tier string

// Match tiers, strongest first.
const (
	TierName     Tier = "name"
	TierAlias    Tier = "alias"
	TierVariant  Tier = "variant"
	TierFilename Tier = "filename"
)

// Tiers returns every tier in rank order.
func Tiers() []Tier {
	return []Tier{TierName, TierAlias, TierVariant, TierFilename}
}

// Rank returns the position of t in Tiers(); unknown tiers rank last.
func (t Tier) Rank() int {
	if i := slices.Index(Tiers(), t); i >= 0 {
		return i
	}
	return len(Tiers())
}

// Field is one foreign attribute. Name is unprefixed ("module", "class").
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Link is the namespaced field group a linker writes for its source.
type Link struct {
	Name   string  `json:"name" yaml:"name"`
	Tier   Tier    `json:"tier,omitempty" yaml:"tier,omitempty"`
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Get returns the value of the named field.
func (k *Link) Get(name string) string {
	for _, f := range k.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Clone returns a deep copy.
func (k *Link) Clone() *Link {
	if k == nil {
		return nil
	}
	c := *k
	c.Fields = slices.Clone(k.Fields)
	return &c
}

// linkFields fixes the column layout of the known linked sources.
var linkFields = map[sources.ID][]string{
	sources.HyperpolyglotID: {"type", "group", "color"},
	sources.PygmentsID:      {"module", "class", "aliases", "filenames", "mimetypes"},
	sources.RosettaCodeID:   {"url", "summary", "tasks_count"},
}

// LinkFields returns the fixed field names for a known linked source.
func LinkFields(src sources.ID) ([]string, bool) {
	f, ok := linkFields[src]
	return slices.Clone(f), ok
}
