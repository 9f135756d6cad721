package linker

import (
	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Missing is a foreign entry no catalog language matched.
type Missing struct {
	ForeignName string `json:"foreign_name" yaml:"foreign_name"`
	Reference   string `json:"reference" yaml:"reference"`
}

// Report summarizes one link run.
type Report struct {
	Source  sources.ID            `json:"source" yaml:"source"`
	Total   int                   `json:"total" yaml:"total"`
	Matched map[catalogs.Tier]int `json:"matched" yaml:"matched"`
	Missing []Missing             `json:"missing" yaml:"missing"`
}

func newReport(src sources.ID, total int) *Report {
	return &Report{
		Source:  src,
		Total:   total,
		Matched: make(map[catalogs.Tier]int),
	}
}

// MatchedCount returns the number of entries matched across all tiers.
func (r *Report) MatchedCount() int {
	n := 0
	for _, c := range r.Matched {
		n += c
	}
	return n
}

// Rows returns the missing entries as (foreign_name, reference) rows.
func (r *Report) Rows() [][]string {
	rows := make([][]string, len(r.Missing))
	for i, m := range r.Missing {
		rows[i] = []string{m.ForeignName, m.Reference}
	}
	return rows
}
