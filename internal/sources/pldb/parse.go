package pldb

import (
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/acherm/PL-ultimate/pkg/normalize"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// EvidenceURL is attached to every PLDB record.
const EvidenceURL = "https://github.com/breck7/pldb"

var (
	kvHead   = regexp.MustCompile(`^\s*([A-Za-z0-9_][\w\s/-]*?)\s*:\s*(.*?)\s*$`)
	listItem = regexp.MustCompile(`^\s*-\s*(.*?)\s*$`)

	badPath = regexp.MustCompile(`(?i)/(authors|author|build|books?|measures?|metrics?|scripts?|readme|data|csv|tsv|json|assets?)/`)
	badName = regexp.MustCompile(`(?i)^(authors?|build|books?|measures?|metrics?|readme|csv|tsv|json)\b`)

	extSplit   = regexp.MustCompile(`[\s,;/]+`)
	aliasSplit = regexp.MustCompile(`[|,;/]`)
)

// languageHints are property keys that mark a file as describing a
// language even outside concepts/.
var languageHints = []string{
	"paradigm", "paradigms", "typing", "type system",
	"influenced by", "influenced", "influenced-by",
	"designed by", "designed",
	"filename extension", "file extension", "file extensions", "extensions",
	"hello world", "hello-world", "hello_world", "hello",
	"clocextensions",
}

var (
	extensionKeys = []string{
		"clocextensions", "cloc extensions", "cloc-ext", "cloc_ext",
		"filename extension", "file extension", "file extensions", "extensions",
	}
	aliasKeys     = []string{"alias", "aliases", "aka", "also known as", "short name", "short names"}
	appearedKeys  = []string{"appeared", "first appeared", "first-appeared"}
	homepageKeys  = []string{"homepage", "home page", "url", "urls"}
	helloKeys     = []string{"hello world", "hello-world", "hello_world", "hello"}
	nameKeys      = []string{"name", "title"}
	paradigmKeys  = []string{"paradigm", "paradigms"}
	typingKeys    = []string{"typing", "type system"}
	designerKeys  = []string{"designed by", "designed"}
	influenceKeys = []string{"influenced by", "influenced", "influenced-by"}
)

// Properties maps a lowercased key to its values in file order.
type Properties map[string][]string

// Has reports whether any of keys is present, even without values.
func (p Properties) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := p[k]; ok {
			return true
		}
	}
	return false
}

// First returns the first value of the first key that has one.
func (p Properties) First(keys ...string) string {
	for _, k := range keys {
		if vs := p[k]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
	}
	return ""
}

// All returns the values of every key, in key order.
func (p Properties) All(keys ...string) []string {
	var out []string
	for _, k := range keys {
		out = append(out, p[k]...)
	}
	return out
}

// ParseBlocks reads "key: value" lines. A key with an empty head value
// collects "- item" lines and indented continuation lines that follow it;
// any other unindented line ends the block.
func ParseBlocks(text string) Properties {
	props := make(Properties)
	current := ""
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if m := kvHead.FindStringSubmatch(line); m != nil {
			current = strings.ToLower(strings.TrimSpace(m[1]))
			if _, ok := props[current]; !ok {
				props[current] = nil
			}
			if v := strings.TrimSpace(m[2]); v != "" {
				props[current] = append(props[current], v)
			}
			continue
		}
		if current == "" {
			continue
		}
		if m := listItem.FindStringSubmatch(line); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				props[current] = append(props[current], v)
			}
			continue
		}
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			if v := strings.TrimSpace(line); v != "" {
				props[current] = append(props[current], v)
			}
			continue
		}
		current = ""
	}
	return props
}

// Verdict says why a file was or was not taken as a language.
type Verdict int

// Verdicts.
const (
	Accepted Verdict = iota
	RejectedPath
	RejectedNoEvidence
	RejectedName
)

// ParseFile turns one PLDB file into a record. rel is the file path
// relative to the PLDB root, with forward slashes. Files under concepts/
// are languages; elsewhere a language-indicating property is required.
// Utility paths and names are rejected regardless.
func ParseFile(text, rel string) (sources.Record, Verdict) {
	rel = path.Clean("/" + rel)
	if badPath.MatchString(rel + "/") {
		return sources.Record{}, RejectedPath
	}

	props := ParseBlocks(text)
	if !strings.Contains(rel, "/concepts/") && !props.Has(languageHints...) {
		return sources.Record{}, RejectedNoEvidence
	}

	name := props.First(nameKeys...)
	if name == "" {
		base := path.Base(rel)
		name = strings.TrimSpace(strings.TrimSuffix(base, path.Ext(base)))
	}
	if name == "" || badName.MatchString(name) {
		return sources.Record{}, RejectedName
	}

	return sources.Record{
		Name:          name,
		Source:        sources.PLDBID,
		Aliases:       aliases(props),
		Extensions:    extensions(props),
		FirstAppeared: props.First(appearedKeys...),
		Homepage:      props.First(homepageKeys...),
		Paradigms:     strings.Join(props.All(paradigmKeys...), "; "),
		Typing:        strings.Join(props.All(typingKeys...), "; "),
		DesignedBy:    strings.Join(props.All(designerKeys...), "; "),
		InfluencedBy:  strings.Join(props.All(influenceKeys...), "; "),
		HelloWorld:    len(props.All(helloKeys...)) > 0,
		EvidenceURL:   EvidenceURL,
	}, Accepted
}

func extensions(props Properties) []string {
	var toks []string
	for _, v := range props.All(extensionKeys...) {
		toks = append(toks, extSplit.Split(v, -1)...)
	}
	return normalize.Extensions(toks...)
}

func aliases(props Properties) []string {
	var out []string
	for _, v := range props.All(aliasKeys...) {
		parts := []string{v}
		if strings.ContainsAny(v, ",|;") {
			parts = aliasSplit.Split(v, -1)
		}
		for _, a := range parts {
			if a = strings.TrimSpace(a); a != "" && !badName.MatchString(a) {
				out = append(out, a)
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
