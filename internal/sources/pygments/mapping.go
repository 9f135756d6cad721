package pygments

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/acherm/PL-ultimate/pkg/errors"
)

var lexersAssign = regexp.MustCompile(`(?m)^LEXERS\s*=\s*`)

// Lexer is one LEXERS entry of _mapping.py.
type Lexer struct {
	Class     string
	Module    string
	Name      string
	Aliases   []string
	Filenames []string
	MimeTypes []string
}

// ParseMapping reads the LEXERS dict literal, keeping file order.
func ParseMapping(src []byte) ([]Lexer, error) {
	loc := lexersAssign.FindIndex(src)
	if loc == nil {
		return nil, errors.NewParseError("python", RawFile, "could not find LEXERS assignment", nil)
	}
	p := &literal{src: string(src), pos: loc[1]}
	v, err := p.value()
	if err != nil {
		return nil, errors.NewParseError("python", RawFile, "invalid LEXERS literal", err)
	}
	if v.kind != kindDict {
		return nil, errors.NewParseError("python", RawFile, "LEXERS is not a dict", nil)
	}

	lexers := make([]Lexer, 0, len(v.items)/2)
	for i := 0; i+1 < len(v.items); i += 2 {
		key, tup := v.items[i], v.items[i+1]
		if key.kind != kindString || tup.kind != kindSeq || len(tup.items) < 5 {
			return nil, errors.NewParseError("python", RawFile, fmt.Sprintf("malformed entry %d", i/2), nil)
		}
		lexers = append(lexers, Lexer{
			Class:     key.str,
			Module:    tup.items[0].str,
			Name:      tup.items[1].str,
			Aliases:   tup.items[2].texts(),
			Filenames: tup.items[3].texts(),
			MimeTypes: tup.items[4].texts(),
		})
	}
	return lexers, nil
}

type kind int

const (
	kindString kind = iota
	kindSeq
	kindDict
	kindOther
)

type node struct {
	kind  kind
	str   string
	items []node
}

func (n node) texts() []string {
	out := make([]string, 0, len(n.items))
	for _, it := range n.items {
		if it.kind == kindString {
			out = append(out, it.str)
		}
	}
	return out
}

// literal parses the subset of Python literal syntax _mapping.py uses:
// strings, tuples, lists, dicts and bare names.
type literal struct {
	src string
	pos int
}

func (p *literal) skip() {
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '#':
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *literal) peek() byte {
	p.skip()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *literal) value() (node, error) {
	switch c := p.peek(); {
	case c == 0:
		return node{}, fmt.Errorf("unexpected end of input")
	case c == '(' || c == '[':
		closer := map[byte]byte{'(': ')', '[': ']'}[c]
		p.pos++
		items, err := p.list(closer, false)
		return node{kind: kindSeq, items: items}, err
	case c == '{':
		p.pos++
		items, err := p.list('}', true)
		return node{kind: kindDict, items: items}, err
	case c == '\'' || c == '"' || ((c == 'r' || c == 'u' || c == 'b') && p.quoteAt(p.pos+1)):
		return p.concat()
	default:
		start := p.pos
		for p.pos < len(p.src) && (isIdent(p.src[p.pos]) || p.src[p.pos] == '.') {
			p.pos++
		}
		if start == p.pos {
			return node{}, fmt.Errorf("unexpected %q at offset %d", c, p.pos)
		}
		return node{kind: kindOther, str: p.src[start:p.pos]}, nil
	}
}

// list reads comma-separated values up to closer. Dict entries are
// flattened into key, value pairs.
func (p *literal) list(closer byte, dict bool) ([]node, error) {
	var items []node
	for {
		if p.peek() == closer {
			p.pos++
			return items, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		if dict {
			if p.peek() != ':' {
				return nil, fmt.Errorf("expected ':' at offset %d", p.pos)
			}
			p.pos++
			if v, err = p.value(); err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		switch p.peek() {
		case ',':
			p.pos++
		case closer:
		default:
			return nil, fmt.Errorf("expected ',' or %q at offset %d", closer, p.pos)
		}
	}
}

// concat reads one or more adjacent string literals and concatenates them.
func (p *literal) concat() (node, error) {
	var b strings.Builder
	for {
		c := p.peek()
		raw := false
		if c == 'r' || c == 'u' || c == 'b' {
			if !p.quoteAt(p.pos + 1) {
				break
			}
			raw = c == 'r'
			p.pos++
			c = p.src[p.pos]
		}
		if c != '\'' && c != '"' {
			break
		}
		s, err := p.quoted(c, raw)
		if err != nil {
			return node{}, err
		}
		b.WriteString(s)
	}
	return node{kind: kindString, str: b.String()}, nil
}

func (p *literal) quoted(q byte, raw bool) (string, error) {
	start := p.pos
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == q:
			p.pos++
			return b.String(), nil
		case c == '\\' && p.pos+1 < len(p.src):
			next := p.src[p.pos+1]
			p.pos += 2
			switch {
			case raw:
				b.WriteByte('\\')
				b.WriteByte(next)
			case next == '\\' || next == '\'' || next == '"':
				b.WriteByte(next)
			case next == 'n':
				b.WriteByte('\n')
			case next == 't':
				b.WriteByte('\t')
			default:
				b.WriteByte('\\')
				b.WriteByte(next)
			}
		case c == '\n':
			return "", fmt.Errorf("unterminated string at offset %d", start)
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("unterminated string at offset %d", start)
}

func (p *literal) quoteAt(i int) bool {
	return i < len(p.src) && (p.src[i] == '\'' || p.src[i] == '"')
}

func isIdent(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
