package linker

import (
	"regexp"
	"strings"

	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/constants"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

var evidenceColumn = regexp.MustCompile(`(?i)extension|filename`)

// EvidenceColumns returns the schema columns that carry filename evidence:
// names matching "extension" or "filename", without derived has_* flags and
// without the exclude source's own namespace.
func EvidenceColumns(schema []string, exclude sources.ID) []string {
	var cols []string
	for _, col := range schema {
		if !evidenceColumn.MatchString(col) || strings.HasPrefix(col, "has_") {
			continue
		}
		if exclude != "" && (col == catalogs.InColumn(exclude) || strings.HasPrefix(col, string(exclude)+"_")) {
			continue
		}
		cols = append(cols, col)
	}
	return cols
}

var tokenSep = regexp.MustCompile(`[\s,;|]+`)

// evidenceTokens splits column values into lowercase tokens, dropping
// tokens shorter than the minimum evidence length and repeats.
func evidenceTokens(values ...string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		for _, tok := range tokenSep.Split(strings.ToLower(v), -1) {
			tok = strings.TrimSpace(tok)
			if tok, _ = strings.CutPrefix(tok, "*"); len([]rune(tok)) < constants.MinEvidenceTokenLength {
				continue
			}
			if !seen[tok] {
				seen[tok] = true
				out = append(out, tok)
			}
		}
	}
	return out
}
