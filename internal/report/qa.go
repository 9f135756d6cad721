// Package report summarizes a built catalog: a QA overview of source
// coverage and field health, and an inventory of file extensions.
package report

import (
	"os"
	"slices"
	"strings"

	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// RawInputs are the cached payloads whose sizes the QA report checks.
var RawInputs = []string{
	"linguist_languages.yml",
	"wikipedia_lang_titles.json",
	"esolang_language_titles.json",
}

const (
	peekSize      = 5
	noExtPeekSize = 10
)

// Count is a labelled tally.
type Count struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// RawInput is the size of one cached payload.
type RawInput struct {
	Name  string `json:"name" yaml:"name"`
	Bytes int64  `json:"bytes" yaml:"bytes"`
}

// Sample is one language shown as an example.
type Sample struct {
	ID         string `json:"lang_id" yaml:"lang_id"`
	Name       string `json:"canonical_name" yaml:"canonical_name"`
	Sources    string `json:"source_flags" yaml:"source_flags"`
	Extensions string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// Peek lists the first languages carrying one source.
type Peek struct {
	Source  sources.ID `json:"source" yaml:"source"`
	Total   int        `json:"total" yaml:"total"`
	Samples []Sample   `json:"samples" yaml:"samples"`
}

// QA is the catalog health overview.
type QA struct {
	Languages          int        `json:"languages" yaml:"languages"`
	Aliases            int        `json:"aliases" yaml:"aliases"`
	SourceCoverage     []Count    `json:"source_coverage" yaml:"source_coverage"`
	Flags              []Count    `json:"flags,omitempty" yaml:"flags,omitempty"`
	WithExtensions     int        `json:"with_extensions" yaml:"with_extensions"`
	PLDBWithExtensions int        `json:"pldb_with_extensions" yaml:"pldb_with_extensions"`
	SignalRich         int        `json:"signal_rich" yaml:"signal_rich"`
	RawInputs          []RawInput `json:"raw_inputs,omitempty" yaml:"raw_inputs,omitempty"`
	Peeks              []Peek     `json:"peeks,omitempty" yaml:"peeks,omitempty"`
	NoExtension        []Sample   `json:"no_extension,omitempty" yaml:"no_extension,omitempty"`
}

// QAOptions tunes BuildQA.
type QAOptions struct {
	// StatsOnly keeps only counts and source coverage.
	StatsOnly bool
	// RawPath resolves a raw payload name to a path. Nil skips raw sizes.
	RawPath func(name string) string
}

// BuildQA computes the overview for cat.
func BuildQA(cat *catalogs.Catalog, opts QAOptions) QA {
	qa := QA{
		Languages: cat.Len(),
		Aliases:   len(cat.Aliases()),
	}

	coverage := make(map[sources.ID]int)
	for _, l := range cat.Languages() {
		for _, src := range l.Sources {
			coverage[src]++
		}
	}
	ids := make([]sources.ID, 0, len(coverage))
	for id := range coverage {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		qa.SourceCoverage = append(qa.SourceCoverage, Count{Label: string(id), Count: coverage[id]})
	}
	if opts.StatsOnly {
		return qa
	}

	flagCols := make([]string, 0, len(sources.Known())+4)
	for _, src := range sources.Known() {
		flagCols = append(flagCols, catalogs.InColumn(src))
	}
	flagCols = append(flagCols,
		catalogs.ColHasExtensions, catalogs.ColHasParadigm, catalogs.ColHasTyping, catalogs.ColHasHelloWorld)
	for _, col := range flagCols {
		n := 0
		for _, l := range cat.Languages() {
			if v, _ := cat.Value(l, col); v == "true" {
				n++
			}
		}
		qa.Flags = append(qa.Flags, Count{Label: col, Count: n})
	}

	for _, l := range cat.Languages() {
		if l.HasExtensions() {
			qa.WithExtensions++
			if l.In(sources.PLDBID) {
				qa.PLDBWithExtensions++
			}
		}
		if (l.HasExtensions() || l.HasParadigm()) && (l.In(sources.LinguistID) || l.In(sources.WikipediaID)) {
			qa.SignalRich++
		}
	}

	if opts.RawPath != nil {
		for _, name := range RawInputs {
			var size int64
			if info, err := os.Stat(opts.RawPath(name)); err == nil {
				size = info.Size()
			}
			qa.RawInputs = append(qa.RawInputs, RawInput{Name: name, Bytes: size})
		}
	}

	for _, src := range sources.Known() {
		peek := Peek{Source: src}
		for _, l := range cat.Languages() {
			if !l.In(src) {
				continue
			}
			peek.Total++
			if len(peek.Samples) < peekSize {
				peek.Samples = append(peek.Samples, sample(l))
			}
		}
		qa.Peeks = append(qa.Peeks, peek)
	}

	for _, l := range cat.Languages() {
		if len(qa.NoExtension) == noExtPeekSize {
			break
		}
		if !l.HasExtensions() && (l.In(sources.PLDBID) || l.In(sources.WikipediaID)) {
			qa.NoExtension = append(qa.NoExtension, sample(l))
		}
	}
	return qa
}

func sample(l *catalogs.Language) Sample {
	flags := make([]string, len(l.Sources))
	for i, s := range l.Sources {
		flags[i] = string(s)
	}
	return Sample{
		ID:         l.ID,
		Name:       l.Name,
		Sources:    strings.Join(flags, ";"),
		Extensions: strings.Join(l.Extensions, " "),
	}
}
