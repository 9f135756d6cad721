// Package export implements exporting a catalog to other storage formats.
package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acherm/PL-ultimate/internal/cmd/application"
	"github.com/acherm/PL-ultimate/internal/persistence"
)

// DefaultSQLiteFile is the database name under the derived directory.
const DefaultSQLiteFile = "languages.sqlite"

// NewCommand creates the export command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "output",
		Short:   "Export a catalog to another format",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newSQLiteCommand(app))
	return cmd
}

func newSQLiteCommand(app application.Application) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "sqlite",
		Short: "Write a catalog to a SQLite database",
		Long: `SQLite writes the catalog to a fresh database with one table each for
languages, aliases, extensions, linked taxonomies and their fields. An
existing database at the output path is replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.Pipeline()
			if in == "" {
				in = cfg.MasterPath()
			}
			if out == "" {
				out = cfg.Derived(DefaultSQLiteFile)
			}
			cat, err := persistence.ReadCatalogWithAliases(in, cfg.AliasesPath())
			if err != nil {
				return err
			}
			if err := persistence.ExportSQLite(cmd.Context(), out, cat); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "catalog to export (default <data-dir>/derived/languages_master.csv)")
	cmd.Flags().StringVar(&out, "out", "", "database path (default <data-dir>/derived/languages.sqlite)")
	return cmd
}
