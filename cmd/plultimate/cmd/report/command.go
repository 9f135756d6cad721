// Package report implements the report commands over a saved catalog.
package report

import (
	"github.com/spf13/cobra"

	"github.com/acherm/PL-ultimate/internal/cmd/application"
	"github.com/acherm/PL-ultimate/internal/persistence"
	"github.com/acherm/PL-ultimate/internal/report"
	"github.com/acherm/PL-ultimate/pkg/constants"
)

// NewCommand creates the report command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		GroupID: "output",
		Short:   "Summarize a built catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newQACommand(app))
	cmd.AddCommand(newExtensionsCommand(app))
	return cmd
}

func newQACommand(app application.Application) *cobra.Command {
	var in string
	var statsOnly bool

	cmd := &cobra.Command{
		Use:   "qa",
		Short: "Source coverage and field health of a catalog",
		Args:  cobra.NoArgs,
		Example: `  plultimate report qa
  plultimate report qa --stats-only -o json
  plultimate report qa -o markdown > QA.md`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.Pipeline()
			if in == "" {
				in = cfg.MasterPath()
			}
			format, err := report.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			cat, err := persistence.ReadCatalogWithAliases(in, cfg.AliasesPath())
			if err != nil {
				return err
			}
			qa := report.BuildQA(cat, report.QAOptions{
				StatsOnly: statsOnly,
				RawPath:   cfg.Cache().Path,
			})
			return report.Render(cmd.OutOrStdout(), format, qa, qa.Document())
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "catalog to report on (default <data-dir>/derived/languages_master.csv)")
	cmd.Flags().BoolVar(&statsOnly, "stats-only", false, "only counts and source coverage")
	return cmd
}

func newExtensionsCommand(app application.Application) *cobra.Command {
	var in, out string
	var top int

	cmd := &cobra.Command{
		Use:   "extensions",
		Short: "Inventory of file extensions by source",
		Args:  cobra.NoArgs,
		Long: `Extensions counts, for every file extension, the languages claiming it
overall and per base source. The full inventory is written to
extensions_inventory.csv; the top entries are printed.`,
		Example: `  plultimate report extensions
  plultimate report extensions --top 50 -o markdown
  plultimate report extensions --csv ""     # print only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.Pipeline()
			if in == "" {
				in = cfg.MasterPath()
			}
			if !cmd.Flags().Changed("csv") {
				out = cfg.Derived(constants.ExtensionsFile)
			}
			format, err := report.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			cat, err := persistence.ReadCatalog(in)
			if err != nil {
				return err
			}

			inv := report.Inventory(cat)
			if out != "" {
				if err := persistence.WriteRows(out, report.InventoryHeader(), report.InventoryRows(inv)); err != nil {
					return err
				}
				app.Logger().Info().Str("path", out).Int("extensions", len(inv)).Msg("Wrote extension inventory")
			}

			withExt := 0
			for _, l := range cat.Languages() {
				if l.HasExtensions() {
					withExt++
				}
			}
			return report.Render(cmd.OutOrStdout(), format, inv, report.InventoryDocument(inv, withExt, cat.Len(), top))
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "catalog to report on (default <data-dir>/derived/languages_master.csv)")
	cmd.Flags().StringVar(&out, "csv", "", "inventory CSV path, empty to skip (default <data-dir>/derived/extensions_inventory.csv)")
	cmd.Flags().IntVar(&top, "top", 30, "extensions shown in table and markdown output, 0 for all")
	return cmd
}
