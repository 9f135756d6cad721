package catalogs

import (
	"slices"
	"strconv"
	"strings"

	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Catalog-owned column names.
const (
	ColID            = "lang_id"
	ColName          = "canonical_name"
	ColSources       = "source_flags"
	ColTypes         = "types"
	ColExtensions    = "extensions"
	ColFirstAppeared = "first_appeared"
	ColHomepage      = "homepage"
	ColParadigms     = "paradigms"
	ColTyping        = "typing"
	ColDesignedBy    = "designed_by"
	ColInfluencedBy  = "influenced_by"
	ColHelloWorld    = "hello_world"
	ColLinguistKey   = "linguist_key"
	ColEvidenceURLs  = "evidence_urls"
	ColNotes         = "notes"
	ColAliasCount    = "alias_count"
)

// Derived column names. They are written but never read back.
const (
	ColHasExtensions = "has_extensions"
	ColHasParadigm   = "has_paradigm"
	ColHasTyping     = "has_typing"
	ColHasHelloWorld = "has_hello_world"
	ColSourceCount   = "source_count"
)

const listSep = ";"

var ownedColumns = []string{
	ColID, ColName, ColSources, ColTypes, ColExtensions, ColFirstAppeared,
	ColHomepage, ColParadigms, ColTyping, ColDesignedBy, ColInfluencedBy,
	ColHelloWorld, ColLinguistKey, ColEvidenceURLs, ColNotes,
}

// InColumn returns the membership column for src.
func InColumn(src sources.ID) string {
	return "in_" + string(src)
}

// LinkColumn returns the namespaced column for a linked field.
func LinkColumn(src sources.ID, field string) string {
	return string(src) + "_" + field
}

// BaseColumns returns the columns every catalog has.
func BaseColumns() []string {
	cols := slices.Clone(ownedColumns)
	for _, src := range sources.Known() {
		cols = append(cols, InColumn(src))
	}
	return append(cols,
		ColHasExtensions, ColHasParadigm, ColHasTyping, ColHasHelloWorld,
		ColSourceCount, ColAliasCount,
	)
}

// Columns returns the flat schema: the base columns followed by one group
// per linked source. It depends only on which sources are linked.
func (c *Catalog) Columns() []string {
	cols := BaseColumns()
	for _, src := range c.linked {
		cols = append(cols, InColumn(src), LinkColumn(src, "name"), LinkColumn(src, "tier"))
		for _, f := range c.LinkFieldNames(src) {
			cols = append(cols, LinkColumn(src, f))
		}
	}
	return cols
}

// LinkFieldNames returns the field layout for src: the fixed layout for
// known sources, otherwise the union of field names in catalog order.
func (c *Catalog) LinkFieldNames(src sources.ID) []string {
	if fields, ok := LinkFields(src); ok {
		return fields
	}
	var names []string
	for _, l := range c.languages {
		if link := l.Link(src); link != nil {
			for _, f := range link.Fields {
				if !slices.Contains(names, f.Name) {
					names = append(names, f.Name)
				}
			}
		}
	}
	return names
}

// Row renders l in Columns() order.
func (c *Catalog) Row(l *Language) []string {
	cols := c.Columns()
	row := make([]string, len(cols))
	for i, col := range cols {
		row[i], _ = c.Value(l, col)
	}
	return row
}

// Value returns the string form of one column for l.
func (c *Catalog) Value(l *Language, col string) (string, bool) {
	switch col {
	case ColID:
		return l.ID, true
	case ColName:
		return l.Name, true
	case ColSources:
		return joinIDs(l.Sources), true
	case ColTypes:
		return l.Types, true
	case ColExtensions:
		return strings.Join(l.Extensions, " "), true
	case ColFirstAppeared:
		return l.FirstAppeared, true
	case ColHomepage:
		return l.Homepage, true
	case ColParadigms:
		return l.Paradigms, true
	case ColTyping:
		return l.Typing, true
	case ColDesignedBy:
		return l.DesignedBy, true
	case ColInfluencedBy:
		return l.InfluencedBy, true
	case ColHelloWorld:
		return strconv.FormatBool(l.HelloWorld), true
	case ColLinguistKey:
		return l.LinguistKey, true
	case ColEvidenceURLs:
		return strings.Join(l.EvidenceURLs, listSep), true
	case ColNotes:
		return l.Notes, true
	case ColHasExtensions:
		return strconv.FormatBool(l.HasExtensions()), true
	case ColHasParadigm:
		return strconv.FormatBool(l.HasParadigm()), true
	case ColHasTyping:
		return strconv.FormatBool(l.HasTyping()), true
	case ColHasHelloWorld:
		return strconv.FormatBool(l.HasHelloWorld()), true
	case ColSourceCount:
		return strconv.Itoa(l.SourceCount()), true
	case ColAliasCount:
		return strconv.Itoa(l.AliasCount), true
	}

	for _, src := range sources.Known() {
		if col == InColumn(src) {
			return strconv.FormatBool(l.In(src)), true
		}
	}
	for _, src := range c.linked {
		if col == InColumn(src) {
			return strconv.FormatBool(l.Link(src) != nil), true
		}
		prefix := string(src) + "_"
		if !strings.HasPrefix(col, prefix) {
			continue
		}
		link := l.Link(src)
		if link == nil {
			return "", true
		}
		switch field := strings.TrimPrefix(col, prefix); field {
		case "name":
			return link.Name, true
		case "tier":
			return string(link.Tier), true
		default:
			return link.Get(field), true
		}
	}
	return "", false
}

// ParseHeader returns the linked sources a header carries, in column order.
func ParseHeader(header []string) []sources.ID {
	var linked []sources.ID
	for _, col := range header {
		name, ok := strings.CutPrefix(col, "in_")
		if !ok {
			continue
		}
		src := sources.ID(name)
		if src.IsValid() || slices.Contains(linked, src) {
			continue
		}
		linked = append(linked, src)
	}
	return linked
}

// ParseRow rebuilds a language from one row. Derived and unknown columns
// are ignored.
func ParseRow(header, row []string) (*Language, error) {
	if len(row) != len(header) {
		return nil, errors.NewValidationError("row", len(row), "column count does not match header")
	}
	linked := ParseHeader(header)
	l := &Language{}
	values := make(map[string]string, len(header))
	for i, col := range header {
		values[col] = row[i]
	}

	for i, col := range header {
		v := row[i]
		switch col {
		case ColID:
			l.ID = v
		case ColName:
			l.Name = v
		case ColSources:
			for _, s := range splitList(v, listSep) {
				src := sources.ID(s)
				if !src.IsValid() {
					return nil, errors.NewValidationError(ColSources, s, "unknown source tag "+s+" in row "+values[ColID])
				}
				l.AddSource(src)
			}
		case ColTypes:
			l.Types = v
		case ColExtensions:
			l.Extensions = splitList(v, " ")
			slices.Sort(l.Extensions)
			l.Extensions = slices.Compact(l.Extensions)
		case ColFirstAppeared:
			l.FirstAppeared = v
		case ColHomepage:
			l.Homepage = v
		case ColParadigms:
			l.Paradigms = v
		case ColTyping:
			l.Typing = v
		case ColDesignedBy:
			l.DesignedBy = v
		case ColInfluencedBy:
			l.InfluencedBy = v
		case ColHelloWorld:
			l.HelloWorld = parseBool(v)
		case ColLinguistKey:
			l.LinguistKey = v
		case ColEvidenceURLs:
			l.EvidenceURLs = splitList(v, listSep)
		case ColNotes:
			l.Notes = v
		case ColAliasCount:
			if v != "" {
				n, err := strconv.Atoi(v)
				if err != nil {
					return nil, errors.NewValidationError(ColAliasCount, v, "not an integer")
				}
				l.AliasCount = n
			}
		}
	}

	for _, src := range linked {
		if !parseBool(values[InColumn(src)]) {
			continue
		}
		link := &Link{
			Name: values[LinkColumn(src, "name")],
			Tier: Tier(values[LinkColumn(src, "tier")]),
		}
		prefix := string(src) + "_"
		for _, col := range header {
			field, ok := strings.CutPrefix(col, prefix)
			if !ok || field == "name" || field == "tier" {
				continue
			}
			link.Fields = append(link.Fields, Field{Name: field, Value: values[col]})
		}
		l.SetLink(src, link)
	}
	return l, nil
}

func joinIDs(ids []sources.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, listSep)
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
