package pipeline

import (
	"context"
	"time"

	"github.com/acherm/PL-ultimate/internal/persistence"
	"github.com/acherm/PL-ultimate/internal/sources/hyperpolyglot"
	"github.com/acherm/PL-ultimate/internal/sources/pygments"
	"github.com/acherm/PL-ultimate/internal/sources/rosettacode"
	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/aliases"
	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/linker"
	"github.com/acherm/PL-ultimate/pkg/logging"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Taxonomy returns the fetcher for a linked source.
func Taxonomy(src sources.ID, client *transport.Client, cache *transport.Cache) (linker.Taxonomy, error) {
	switch src {
	case sources.HyperpolyglotID:
		return hyperpolyglot.New(client, cache), nil
	case sources.PygmentsID:
		return pygments.New(client, cache), nil
	case sources.RosettaCodeID:
		return rosettacode.New(client, cache), nil
	}
	return nil, errors.NewValidationError("source", src, "not a linked taxonomy")
}

// NewLinker configures the linker for src against a catalog schema. The
// name column is langCol when set; otherwise the Hyperpolyglot display name
// is preferred when an earlier link wrote it. Only Pygments uses filename
// evidence and only Hyperpolyglot strips noise words.
func NewLinker(src sources.ID, schema []string, langCol string, table aliases.Table) *linker.Linker {
	k := &linker.Linker{Source: src, Aliases: table}
	switch src {
	case sources.HyperpolyglotID:
		k.NameColumns = linker.NameColumns(schema, "", langCol)
		k.NoiseWords = hyperpolyglot.NoiseWords
	case sources.PygmentsID:
		k.NameColumns = linker.NameColumns(schema, hyperpolyglot.DefaultNameColumn, langCol)
		k.EvidenceColumns = linker.EvidenceColumns(schema, src)
		k.UseFilenames = true
	default:
		k.NameColumns = linker.NameColumns(schema, hyperpolyglot.DefaultNameColumn, langCol)
	}
	return k
}

// LinkRequest names the files of one link run.
type LinkRequest struct {
	In      string
	Out     string
	Missing string
	// Dump receives the Rosetta Code language listing; empty skips it.
	Dump string
	// LangColumn overrides the catalog column names are read from.
	LangColumn string
	// Aliases overrides the built-in alias tables, keyed by source name.
	Aliases map[string]aliases.Table
}

// LinkResult summarizes a link run.
type LinkResult struct {
	RunID   string                `json:"run_id" yaml:"run_id"`
	Source  sources.ID            `json:"source" yaml:"source"`
	Total   int                   `json:"total" yaml:"total"`
	Matched map[catalogs.Tier]int `json:"matched" yaml:"matched"`
	Missing int                   `json:"missing" yaml:"missing"`
	Out     string                `json:"out" yaml:"out"`
	Elapsed time.Duration         `json:"elapsed" yaml:"elapsed"`
}

// Link reads the catalog at req.In, links the taxonomy onto it and writes
// the augmented catalog and the missing report.
func Link(ctx context.Context, tax linker.Taxonomy, req LinkRequest) (*LinkResult, error) {
	if logging.RunID(ctx) == "" {
		ctx = logging.WithRunID(ctx, "")
	}
	src := tax.ID()
	ctx = logging.WithSource(logging.WithStage(ctx, "link"), src.String())
	start := time.Now()

	cat, err := persistence.ReadCatalog(req.In)
	if err != nil {
		return nil, err
	}
	entries, err := entries(ctx, tax, req.Dump)
	if err != nil {
		return nil, err
	}

	table, ok := req.Aliases[src.String()]
	if !ok {
		table, _ = aliases.Builtin(src.String())
	}
	k := NewLinker(src, cat.Columns(), req.LangColumn, table)
	linked, rep, err := k.Link(ctx, cat, linker.NewIndex(entries))
	if err != nil {
		return nil, err
	}

	if err := persistence.WriteCatalog(req.Out, linked); err != nil {
		return nil, err
	}
	if req.Missing != "" {
		if err := persistence.WriteRows(req.Missing, persistence.MissingHeader, rep.Rows()); err != nil {
			return nil, err
		}
	}

	res := &LinkResult{
		RunID:   logging.RunID(ctx),
		Source:  src,
		Total:   rep.Total,
		Matched: rep.Matched,
		Missing: len(rep.Missing),
		Out:     req.Out,
		Elapsed: time.Since(start),
	}
	logging.FromContext(ctx).Info().
		Str("out", req.Out).
		Str("missing_report", req.Missing).
		Dur("elapsed", res.Elapsed).
		Msg("Saved linked catalog")
	return res, nil
}

// entries fetches the taxonomy. Rosetta Code languages are fetched once and
// also dumped when a dump path is set.
func entries(ctx context.Context, tax linker.Taxonomy, dump string) ([]linker.Entry, error) {
	rc, ok := tax.(*rosettacode.Taxonomy)
	if !ok || dump == "" {
		return tax.Entries(ctx)
	}
	langs, err := rc.Languages(ctx)
	if err != nil {
		return nil, err
	}
	if err := persistence.WriteRows(dump, rosettacode.DumpHeader, rosettacode.DumpRows(langs)); err != nil {
		return nil, err
	}
	return rosettacode.Entries(langs), nil
}
