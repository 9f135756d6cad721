package report

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/normalize"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// ExtensionCount is one row of the extension inventory.
type ExtensionCount struct {
	Extension string             `json:"extension" yaml:"extension"`
	Total     int                `json:"count_total" yaml:"count_total"`
	BySource  map[sources.ID]int `json:"by_source" yaml:"by_source"`
	Sample    string             `json:"sample_lang" yaml:"sample_lang"`
}

// Inventory counts, per extension, the languages claiming it overall and
// per base source. The sample is the first such language in catalog order.
// Rows are sorted by descending total, then extension.
func Inventory(cat *catalogs.Catalog) []ExtensionCount {
	byExt := make(map[string]*ExtensionCount)
	for _, l := range cat.Languages() {
		for _, raw := range l.Extensions {
			ext := normalize.Extension(raw)
			if ext == "" {
				continue
			}
			row, ok := byExt[ext]
			if !ok {
				row = &ExtensionCount{Extension: ext, BySource: make(map[sources.ID]int), Sample: l.Name}
				byExt[ext] = row
			}
			row.Total++
			for _, src := range l.Sources {
				row.BySource[src]++
			}
		}
	}

	out := make([]ExtensionCount, 0, len(byExt))
	for _, row := range byExt {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b ExtensionCount) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Extension, b.Extension)
	})
	return out
}

// InventoryHeader is the column layout of extensions_inventory.csv.
func InventoryHeader() []string {
	header := []string{"extension", "count_total"}
	for _, src := range sources.Known() {
		header = append(header, "count_"+string(src))
	}
	return append(header, "sample_lang")
}

// InventoryRows renders rows in InventoryHeader order.
func InventoryRows(inv []ExtensionCount) [][]string {
	rows := make([][]string, len(inv))
	for i, e := range inv {
		row := []string{e.Extension, strconv.Itoa(e.Total)}
		for _, src := range sources.Known() {
			row = append(row, strconv.Itoa(e.BySource[src]))
		}
		rows[i] = append(row, e.Sample)
	}
	return rows
}
