// Package version implements the version command.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acherm/PL-ultimate/internal/cmd/application"
)

// NewCommand creates the version command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "plultimate %s\n  commit:   %s\n  built:    %s\n  built by: %s\n",
				app.Version(), app.Commit(), app.Date(), app.BuiltBy())
			return err
		},
	}
}
