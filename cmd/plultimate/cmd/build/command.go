// Package build implements the build command: fetch the base sources and
// reconcile them into the master catalog.
package build

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acherm/PL-ultimate/internal/cmd/application"
	"github.com/acherm/PL-ultimate/internal/pipeline"
	"github.com/acherm/PL-ultimate/internal/report"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Flags holds the build-specific flags.
type Flags struct {
	PLDBDir          string
	Offline          bool
	FetchOnly        bool
	IncludeLinguist  bool
	IncludeWikipedia bool
	IncludeEsolang   bool
	Threshold        float64
	FixedPoint       bool
}

// NewCommand creates the build command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "build",
		GroupID: "core",
		Short:   "Fetch the base sources and build the master catalog",
		Args:    cobra.NoArgs,
		Long: `Build fetches every selected base source, groups their records by
normalized identifier, enriches extensions from the Linguist registry and
collapses near-duplicate identifiers.

It writes languages_master.csv and aliases.csv under <data-dir>/derived.
A source that fails is skipped; the build fails only when no source
produced a record.`,
		Example: `  plultimate build --pldb-dir ./pldb/concepts
  plultimate build --include-esolang
  plultimate build --offline              # reuse cached raw payloads
  plultimate build --fetch-only           # only refresh the raw cache`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := Apply(cmd, app.Pipeline(), flags)
			format, err := report.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}

			res, err := pipeline.Build(cmd.Context(), cfg, app.Client())
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), format, res, Document(cfg, res))
		},
	}

	flags = addFlags(cmd, app.Pipeline())

	return cmd
}

func addFlags(cmd *cobra.Command, defaults pipeline.Config) *Flags {
	flags := &Flags{}
	cmd.Flags().StringVar(&flags.PLDBDir, "pldb-dir", defaults.PLDBDir, "local PLDB clone to scan (skipped when empty)")
	cmd.Flags().BoolVar(&flags.Offline, "offline", defaults.Offline, "read raw payloads from the cache only")
	cmd.Flags().BoolVar(&flags.FetchOnly, "fetch-only", defaults.FetchOnly, "refresh the raw cache and stop")
	cmd.Flags().BoolVar(&flags.IncludeLinguist, "include-linguist", defaults.IncludeLinguist, "include the GitHub Linguist registry")
	cmd.Flags().BoolVar(&flags.IncludeWikipedia, "include-wikipedia", defaults.IncludeWikipedia, "include the Wikipedia language list")
	cmd.Flags().BoolVar(&flags.IncludeEsolang, "include-esolang", defaults.IncludeEsolang, "include the Esolang wiki")
	cmd.Flags().Float64Var(&flags.Threshold, "fuzzy-threshold", defaults.FuzzyThreshold, "similarity ratio at which identifiers collapse")
	cmd.Flags().BoolVar(&flags.FixedPoint, "fuzzy-fixed-point", defaults.FuzzyFixedPoint, "repeat collapse passes until nothing changes")

	return flags
}

// Apply overlays the flags the user set on cfg.
func Apply(cmd *cobra.Command, cfg pipeline.Config, flags *Flags) pipeline.Config {
	set := cmd.Flags().Changed
	if set("pldb-dir") {
		cfg.PLDBDir = flags.PLDBDir
	}
	if set("offline") {
		cfg.Offline = flags.Offline
	}
	if set("fetch-only") {
		cfg.FetchOnly = flags.FetchOnly
	}
	if set("include-linguist") {
		cfg.IncludeLinguist = flags.IncludeLinguist
	}
	if set("include-wikipedia") {
		cfg.IncludeWikipedia = flags.IncludeWikipedia
	}
	if set("include-esolang") {
		cfg.IncludeEsolang = flags.IncludeEsolang
	}
	if set("fuzzy-threshold") {
		cfg.FuzzyThreshold = flags.Threshold
	}
	if set("fuzzy-fixed-point") {
		cfg.FuzzyFixedPoint = flags.FixedPoint
	}
	return cfg
}

// Document renders a build result.
func Document(cfg pipeline.Config, res *pipeline.BuildResult) report.Document {
	doc := report.Document{Title: "Build " + res.RunID}
	if cfg.FetchOnly {
		doc.Summary = append(doc.Summary, "Fetch-only run; raw payloads cached in "+cfg.RawDir())
	} else {
		doc.Summary = append(doc.Summary,
			fmt.Sprintf("Languages: %d", res.Languages),
			fmt.Sprintf("Alias records: %d", res.Aliases),
			fmt.Sprintf("Remapped by fuzzy collapse: %d", res.Remapped),
			"Catalog: "+cfg.MasterPath(),
		)
	}
	if len(res.Failed) > 0 {
		failed := make([]string, len(res.Failed))
		for i, id := range res.Failed {
			failed[i] = id.String()
		}
		doc.Summary = append(doc.Summary, "Failed sources: "+strings.Join(failed, ", "))
	}

	s := report.Section{Title: "Records by source", Headers: []string{"source", "records"}}
	ids := make([]sources.ID, 0, len(res.Records))
	for id := range res.Records {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		s.Rows = append(s.Rows, []string{id.String(), fmt.Sprint(res.Records[id])})
	}
	doc.Sections = append(doc.Sections, s)
	return doc
}
