package report

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Document returns the tabular view of the overview.
func (qa QA) Document() Document {
	doc := Document{
		Title: "Catalog QA",
		Summary: []string{
			fmt.Sprintf("Languages: %s", humanize.Comma(int64(qa.Languages))),
			fmt.Sprintf("Alias records: %s", humanize.Comma(int64(qa.Aliases))),
		},
	}
	if qa.Flags != nil {
		doc.Summary = append(doc.Summary,
			fmt.Sprintf("Rows with extensions: %s / %s", humanize.Comma(int64(qa.WithExtensions)), humanize.Comma(int64(qa.Languages))),
			fmt.Sprintf("PLDB rows with extensions: %s", humanize.Comma(int64(qa.PLDBWithExtensions))),
			fmt.Sprintf("Signal-rich candidates: %s", humanize.Comma(int64(qa.SignalRich))),
		)
	}

	doc.Sections = append(doc.Sections, countSection("Source coverage", "source", qa.SourceCoverage))
	if qa.Flags != nil {
		doc.Sections = append(doc.Sections, countSection("Boolean columns", "column", qa.Flags))
	}

	if qa.RawInputs != nil {
		s := Section{Title: "Raw inputs", Headers: []string{"payload", "size", "status"}}
		for _, r := range qa.RawInputs {
			status := "ok"
			if r.Bytes == 0 {
				status = "EMPTY"
			}
			s.Rows = append(s.Rows, []string{r.Name, humanize.Bytes(uint64(r.Bytes)), status})
		}
		doc.Sections = append(doc.Sections, s)
	}

	for _, p := range qa.Peeks {
		title := fmt.Sprintf("Peek: %s (%s rows)", p.Source, humanize.Comma(int64(p.Total)))
		doc.Sections = append(doc.Sections, sampleSection(title, p.Samples))
	}
	if qa.Flags != nil {
		doc.Sections = append(doc.Sections, sampleSection("No-extension examples (pldb|wikipedia)", qa.NoExtension))
	}
	return doc
}

func countSection(title, key string, counts []Count) Section {
	s := Section{Title: title, Headers: []string{key, "count"}}
	for _, c := range counts {
		s.Rows = append(s.Rows, []string{c.Label, humanize.Comma(int64(c.Count))})
	}
	return s
}

func sampleSection(title string, samples []Sample) Section {
	s := Section{Title: title, Headers: []string{"canonical_name", "lang_id", "source_flags", "extensions"}}
	for _, x := range samples {
		s.Rows = append(s.Rows, []string{x.Name, x.ID, x.Sources, x.Extensions})
	}
	return s
}

// InventoryDocument returns the tabular view of the first limit rows of
// the inventory; limit <= 0 keeps every row.
func InventoryDocument(inv []ExtensionCount, withExtensions, languages int, limit int) Document {
	rows := InventoryRows(inv)
	title := "Extensions by coverage"
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
		title = fmt.Sprintf("Top %d extensions by coverage", limit)
	}
	return Document{
		Title: "Extension inventory",
		Summary: []string{
			fmt.Sprintf("Unique extensions: %s", humanize.Comma(int64(len(inv)))),
			fmt.Sprintf("Rows with extensions: %s / %s", humanize.Comma(int64(withExtensions)), humanize.Comma(int64(languages))),
		},
		Sections: []Section{{Title: title, Headers: InventoryHeader(), Rows: rows}},
	}
}
