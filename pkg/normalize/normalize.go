// Package normalize turns free-text language names into comparison keys and
// catalog identifiers.
//
//	normalize.Key("C#")           // "c sharp"
//	normalize.Identifier("C#")    // "c-sharp"
//	normalize.Identifier("c-sharp") // "c-sharp"
//	normalize.Identifier("C++")   // "c-plus-plus"
//	normalize.Identifier("!!!")   // "id-" + 8 hex chars
package normalize

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/acherm/PL-ultimate/pkg/constants"
)

var (
	typographic = strings.NewReplacer(
		"‒", "-", // figure dash
		"–", "-", // en dash
		"—", "-", // em dash
		"―", "-", // horizontal bar
		"−", "-", // minus sign
		"‘", "'",
		"’", "'",
		"‚", "'",
		"′", "'",
		"“", `"`,
		"”", `"`,
		"„", `"`,
		"″", `"`,
		"♯", "#", // music sharp sign
	)

	plusRun   = regexp.MustCompile(`\+{2,}`)
	separator = regexp.MustCompile(`[\s-]+`)
	extDrop   = regexp.MustCompile(`[^.\w+-]`)

	// ValidExtension matches a well-formed, lowercase extension token.
	ValidExtension = regexp.MustCompile(`^\.[a-z0-9_+-]+$`)
)

// Key returns the comparison key for text. Equal keys mean equal names.
func Key(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}
	s = typographic.Replace(s)
	s = fold(s)
	s = collapse(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "#", " sharp ")
	s = plusRun.ReplaceAllString(s, " plus plus ")
	s = strings.Map(keep, s)
	s = collapse(s)
	return strings.Trim(s, " -")
}

// Identifier returns the catalog identifier for text: its key with
// separator runs turned into single hyphens. Text whose key is empty gets
// a hash-derived identifier, so the result is never empty.
func Identifier(text string) string {
	if id := separator.ReplaceAllString(Key(text), "-"); id != "" {
		return id
	}
	sum := sha1.Sum([]byte(text))
	return constants.HashPrefix + hex.EncodeToString(sum[:])[:constants.HashWidth]
}

// Extension turns a raw extension spelling ("*.PY", "py", ".py") into a
// ".py" token. It returns "" when no valid token remains.
func Extension(tok string) string {
	t := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tok), "*", ""))
	if t == "" {
		return ""
	}
	if !strings.HasPrefix(t, ".") {
		t = "." + t
	}
	t = extDrop.ReplaceAllString(t, "")
	if !ValidExtension.MatchString(t) {
		return ""
	}
	return t
}

// Extensions splits each entry on whitespace, normalizes every token and
// returns the sorted, deduplicated set.
func Extensions(entries ...string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, entry := range entries {
		for _, tok := range strings.Fields(entry) {
			ext := Extension(tok)
			if ext == "" {
				continue
			}
			if _, dup := seen[ext]; dup {
				continue
			}
			seen[ext] = struct{}{}
			out = append(out, ext)
		}
	}
	slices.Sort(out)
	return out
}

// Token cleans a display name without changing its case or symbols.
func Token(text string) string {
	return collapse(typographic.Replace(strings.TrimSpace(text)))
}

// fold decomposes text and drops combining marks so "Aldés" and "Aldes"
// converge.
func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func keep(r rune) rune {
	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r):
		return r
	case r == '+', r == '#', r == '.', r == '-', r == ' ':
		return r
	case unicode.IsSpace(r):
		return ' '
	}
	return -1
}
