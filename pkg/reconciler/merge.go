package reconciler

import (
	"slices"

	"github.com/acherm/PL-ultimate/pkg/catalogs"
)

// firstNonEmpty lists the fields merged by taking the first non-empty
// value in priority order, with accessors into a Language.
var firstNonEmpty = []struct {
	field string
	get   func(*catalogs.Language) *string
}{
	{catalogs.ColName, func(l *catalogs.Language) *string { return &l.Name }},
	{catalogs.ColTypes, func(l *catalogs.Language) *string { return &l.Types }},
	{catalogs.ColFirstAppeared, func(l *catalogs.Language) *string { return &l.FirstAppeared }},
	{catalogs.ColHomepage, func(l *catalogs.Language) *string { return &l.Homepage }},
	{catalogs.ColParadigms, func(l *catalogs.Language) *string { return &l.Paradigms }},
	{catalogs.ColTyping, func(l *catalogs.Language) *string { return &l.Typing }},
	{catalogs.ColDesignedBy, func(l *catalogs.Language) *string { return &l.DesignedBy }},
	{catalogs.ColInfluencedBy, func(l *catalogs.Language) *string { return &l.InfluencedBy }},
	{catalogs.ColLinguistKey, func(l *catalogs.Language) *string { return &l.LinguistKey }},
	{catalogs.ColNotes, func(l *catalogs.Language) *string { return &l.Notes }},
}

// orderFunc returns the group members in the order they are consulted
// for field.
type orderFunc func(field string) []*catalogs.Language

// merge folds a group of partial languages into one identity with the
// given ID. The group must be non-empty. Link groups are carried from the
// first member holding each.
func merge(id string, group []*catalogs.Language, order orderFunc) *catalogs.Language {
	out := &catalogs.Language{ID: id}

	for _, f := range firstNonEmpty {
		for _, l := range order(f.field) {
			if v := *f.get(l); v != "" {
				*f.get(out) = v
				break
			}
		}
	}
	for _, l := range order(catalogs.ColHelloWorld) {
		if l.HelloWorld {
			out.HelloWorld = true
			break
		}
	}

	var exts, urls []string
	for _, l := range group {
		for _, src := range l.Sources {
			out.AddSource(src)
		}
		exts = append(exts, l.Extensions...)
		urls = append(urls, l.EvidenceURLs...)
		for src, link := range l.Links {
			if out.Link(src) == nil {
				out.SetLink(src, link.Clone())
			}
		}
	}
	out.Extensions = unionSorted(exts)
	out.EvidenceURLs = unionSorted(urls)
	return out
}

// fixedOrder consults members in group order for every field.
func fixedOrder(group []*catalogs.Language) orderFunc {
	return func(string) []*catalogs.Language { return group }
}

func unionSorted(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return slices.Compact(out)
}
