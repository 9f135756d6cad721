package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	md "github.com/nao1215/markdown"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format is a report output format.
type Format string

const (
	// FormatTable renders terminal tables.
	FormatTable Format = "table"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
	// FormatMarkdown renders a Markdown document.
	FormatMarkdown Format = "markdown"
)

// DetectFormat returns explicit when set, otherwise a table on terminals
// and JSON for pipes and redirects.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// ParseFormat validates a format name. The empty string is detected.
func ParseFormat(s string) (Format, error) {
	switch f := DetectFormat(s); f {
	case FormatTable, FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, markdown", s)
	}
}

// Section is one titled table of a document.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Document is the tabular view of a report.
type Document struct {
	Title    string
	Summary  []string
	Sections []Section
}

// Render writes data in the given format. JSON and YAML encode data
// directly; tables and Markdown render doc.
func Render(w io.Writer, format Format, data any, doc Document) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		out, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case FormatMarkdown:
		return renderMarkdown(w, doc)
	default:
		return renderTables(w, doc)
	}
}

func renderTables(w io.Writer, doc Document) error {
	if doc.Title != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", doc.Title); err != nil {
			return err
		}
	}
	for _, line := range doc.Summary {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, s := range doc.Sections {
		if _, err := fmt.Fprintf(w, "\n%s\n", s.Title); err != nil {
			return err
		}
		if len(s.Rows) == 0 {
			if _, err := fmt.Fprintln(w, "(none)"); err != nil {
				return err
			}
			continue
		}
		table := tablewriter.NewTable(w)
		headers := make([]any, len(s.Headers))
		for i, h := range s.Headers {
			headers[i] = label(h)
		}
		table.Header(headers...)
		for _, row := range s.Rows {
			cells := make([]any, len(row))
			for i, c := range row {
				cells[i] = c
			}
			if err := table.Append(cells...); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}

func renderMarkdown(w io.Writer, doc Document) error {
	b := md.NewMarkdown(w)
	if doc.Title != "" {
		b.H1(doc.Title).LF()
	}
	if len(doc.Summary) > 0 {
		b.BulletList(doc.Summary...).LF()
	}
	for _, s := range doc.Sections {
		b.H2(s.Title).LF()
		if len(s.Rows) == 0 {
			b.PlainText("(none)").LF().LF()
			continue
		}
		headers := make([]string, len(s.Headers))
		for i, h := range s.Headers {
			headers[i] = label(h)
		}
		b.Table(md.TableSet{Header: headers, Rows: s.Rows}).LF()
	}
	return b.Build()
}

// label turns a column name like "count_total" into "Count Total".
func label(col string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(col, "_", " "))
}
