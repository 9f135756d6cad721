// Package link implements the link command: attach one foreign taxonomy
// to a saved catalog.
package link

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acherm/PL-ultimate/internal/cmd/application"
	"github.com/acherm/PL-ultimate/internal/pipeline"
	"github.com/acherm/PL-ultimate/internal/report"
	"github.com/acherm/PL-ultimate/internal/sources/rosettacode"
	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Flags holds the link-specific flags.
type Flags struct {
	In      string
	Out     string
	Missing string
	LangCol string
	Offline bool
}

// NewCommand creates the link command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}
	valid := make([]string, 0, len(sources.Linked()))
	for _, id := range sources.Linked() {
		valid = append(valid, id.String())
	}

	cmd := &cobra.Command{
		Use:       "link <hyperpolyglot|pygments|rosettacode>",
		GroupID:   "core",
		Short:     "Link a foreign taxonomy onto a catalog",
		ValidArgs: valid,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Long: `Link reads a catalog, fetches the named taxonomy and resolves every
catalog language against it by exact name, alias table, spelling variant
and (for Pygments) filename evidence. Matched languages gain the
taxonomy's namespaced columns; unmatched taxonomy entries are written to
a missing report.

Links are idempotent and can be chained: link hyperpolyglot first and
later links read its display names.`,
		Example: `  plultimate link hyperpolyglot
  plultimate link pygments --in data/derived/languages_master_with_hyperpolyglot.csv
  plultimate link rosettacode --langcol hyperpolyglot_name`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := sources.ID(args[0])
			cfg := app.Pipeline()
			if cmd.Flags().Changed("offline") {
				cfg.Offline = flags.Offline
			}
			format, err := report.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			overrides, err := app.Aliases()
			if err != nil {
				return err
			}
			tax, err := pipeline.Taxonomy(src, app.Client(), cfg.Cache())
			if err != nil {
				return err
			}

			req := Request(cfg, src, flags)
			req.Aliases = overrides
			res, err := pipeline.Link(cmd.Context(), tax, req)
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), format, res, Document(res, req))
		},
	}

	cmd.Flags().StringVar(&flags.In, "in", "", "catalog to link (default <data-dir>/derived/languages_master.csv)")
	cmd.Flags().StringVar(&flags.Out, "out", "", "augmented catalog (default <data-dir>/derived/languages_master_with_<source>.csv)")
	cmd.Flags().StringVar(&flags.Missing, "missing", "", "missing report (default <data-dir>/derived/<source>_missing_from_master.csv)")
	cmd.Flags().StringVar(&flags.LangCol, "langcol", "", "catalog column to read names from")
	cmd.Flags().BoolVar(&flags.Offline, "offline", false, "read the taxonomy from the raw cache only")

	return cmd
}

// Request fills the default paths for linking src.
func Request(cfg pipeline.Config, src sources.ID, flags *Flags) pipeline.LinkRequest {
	req := pipeline.LinkRequest{
		In:         flags.In,
		Out:        flags.Out,
		Missing:    flags.Missing,
		LangColumn: flags.LangCol,
	}
	if req.In == "" {
		req.In = cfg.MasterPath()
	}
	if req.Out == "" {
		req.Out = cfg.LinkedPath(src)
	}
	if req.Missing == "" {
		req.Missing = cfg.MissingPath(src)
	}
	if src == sources.RosettaCodeID {
		req.Dump = cfg.Derived(rosettacode.DumpFile)
	}
	return req
}

// Document renders a link result.
func Document(res *pipeline.LinkResult, req pipeline.LinkRequest) report.Document {
	matched := 0
	s := report.Section{Title: "Matches by tier", Headers: []string{"tier", "matched"}}
	for _, tier := range catalogs.Tiers() {
		matched += res.Matched[tier]
		s.Rows = append(s.Rows, []string{string(tier), fmt.Sprint(res.Matched[tier])})
	}
	return report.Document{
		Title: fmt.Sprintf("Link %s (%s)", res.Source, res.RunID),
		Summary: []string{
			fmt.Sprintf("Matched %d of %d entries", matched, res.Total),
			fmt.Sprintf("Missing: %d (%s)", res.Missing, req.Missing),
			"Catalog: " + res.Out,
		},
		Sections: []report.Section{s},
	}
}
