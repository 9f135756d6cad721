package app

import (
	"github.com/spf13/cobra"

	"github.com/acherm/PL-ultimate/cmd/plultimate/cmd/build"
	"github.com/acherm/PL-ultimate/cmd/plultimate/cmd/export"
	"github.com/acherm/PL-ultimate/cmd/plultimate/cmd/link"
	"github.com/acherm/PL-ultimate/cmd/plultimate/cmd/report"
	"github.com/acherm/PL-ultimate/cmd/plultimate/cmd/version"
)

// registerCommands wires every subcommand to the app.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(build.NewCommand(a))
	rootCmd.AddCommand(link.NewCommand(a))
	rootCmd.AddCommand(report.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
}
