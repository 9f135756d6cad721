package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/acherm/PL-ultimate/internal/persistence"
	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/errors"
	"github.com/acherm/PL-ultimate/pkg/logging"
	"github.com/acherm/PL-ultimate/pkg/reconciler"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// BuildResult summarizes a build run.
type BuildResult struct {
	RunID     string             `json:"run_id" yaml:"run_id"`
	Records   map[sources.ID]int `json:"records" yaml:"records"`
	Failed    []sources.ID       `json:"failed,omitempty" yaml:"failed,omitempty"`
	Languages int                `json:"languages" yaml:"languages"`
	Aliases   int                `json:"aliases" yaml:"aliases"`
	Remapped  int                `json:"remapped" yaml:"remapped"`
	Elapsed   time.Duration      `json:"elapsed" yaml:"elapsed"`
}

// Builder fetches base sources and reconciles them into a catalog.
type Builder struct {
	// Sources are fetched in registry order.
	Sources *sources.Sources
	// Registry names the source whose records enrich extensions.
	Registry sources.ID
	// FetchOnly stops after fetching, leaving only the raw cache filled.
	FetchOnly bool
	// Options tune aggregation and collapse.
	Options []reconciler.Option
}

// Build fetches every source, then aggregates, enriches and collapses the
// records. A failing source is logged and skipped; the build fails only
// when no source produced a record. In fetch-only mode the returned catalog
// is nil.
func (b *Builder) Build(ctx context.Context) (*catalogs.Catalog, *BuildResult, error) {
	if logging.RunID(ctx) == "" {
		ctx = logging.WithRunID(ctx, "")
	}
	ctx = logging.WithStage(ctx, "build")
	logger := logging.FromContext(ctx)
	start := time.Now()

	res := &BuildResult{RunID: logging.RunID(ctx), Records: make(map[sources.ID]int)}
	var all, registry []sources.Record
	var firstErr error
	for _, src := range b.Sources.List() {
		records, err := src.Fetch(logging.WithSource(ctx, src.ID().String()))
		if err != nil {
			logger.Warn().Err(err).Str("source", src.ID().String()).Msg("Source failed, continuing without it")
			res.Failed = append(res.Failed, src.ID())
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		res.Records[src.ID()] = len(records)
		logger.Info().
			Str("source", src.ID().String()).
			Str("records", humanize.Comma(int64(len(records)))).
			Msg("Fetched source")
		all = append(all, records...)
		if src.ID() == b.Registry {
			registry = records
		}
	}

	if len(all) == 0 {
		if firstErr != nil {
			return nil, res, fmt.Errorf("%w: %w", errors.ErrNoSources, firstErr)
		}
		return nil, res, errors.ErrNoSources
	}
	if b.FetchOnly {
		res.Elapsed = time.Since(start)
		logger.Info().Int("sources", len(res.Records)).Msg("Fetch-only run complete")
		return nil, res, nil
	}

	cat, err := reconciler.Aggregate(ctx, all, b.Options...)
	if err != nil {
		return nil, res, err
	}
	if len(registry) > 0 {
		cat = reconciler.EnrichExtensions(ctx, cat, registry)
	}
	cat, remap, err := reconciler.Collapse(ctx, cat, b.Options...)
	if err != nil {
		return nil, res, err
	}

	res.Languages = cat.Len()
	res.Aliases = len(cat.Aliases())
	res.Remapped = len(remap)
	res.Elapsed = time.Since(start)

	logger.Info().
		Str("records", humanize.Comma(int64(len(all)))).
		Str("languages", humanize.Comma(int64(res.Languages))).
		Int("remapped", res.Remapped).
		Dur("elapsed", res.Elapsed).
		Msg("Built catalog")

	return cat, res, nil
}

// Options returns the reconciler options a configuration asks for.
func (c Config) Options() []reconciler.Option {
	var opts []reconciler.Option
	if c.FuzzyThreshold > 0 {
		opts = append(opts, reconciler.WithThreshold(c.FuzzyThreshold))
	}
	if c.FuzzyFixedPoint {
		opts = append(opts, reconciler.WithFixedPoint(true))
	}
	return opts
}

// Build runs a full build for cfg and saves the master catalog and alias
// table under the derived directory.
func Build(ctx context.Context, cfg Config, client *transport.Client) (*BuildResult, error) {
	b := &Builder{
		Sources:   cfg.Sources(client, cfg.Cache()),
		Registry:  sources.LinguistID,
		FetchOnly: cfg.FetchOnly,
		Options:   cfg.Options(),
	}
	cat, res, err := b.Build(ctx)
	if err != nil || cat == nil {
		return res, err
	}
	if err := Save(ctx, cfg, cat); err != nil {
		return res, err
	}
	return res, nil
}

// Save writes the master catalog and its alias table.
func Save(ctx context.Context, cfg Config, cat *catalogs.Catalog) error {
	if err := persistence.WriteCatalog(cfg.MasterPath(), cat); err != nil {
		return err
	}
	if err := persistence.WriteAliases(cfg.AliasesPath(), cat.Aliases()); err != nil {
		return err
	}
	logging.FromContext(ctx).Info().
		Str("catalog", cfg.MasterPath()).
		Str("aliases", cfg.AliasesPath()).
		Msg("Saved catalog")
	return nil
}
