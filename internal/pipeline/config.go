// Package pipeline orchestrates the catalog stages: fetching the base
// sources, aggregating and collapsing them into the master catalog, and
// linking foreign taxonomies onto a saved catalog.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/acherm/PL-ultimate/internal/sources/esolang"
	"github.com/acherm/PL-ultimate/internal/sources/linguist"
	"github.com/acherm/PL-ultimate/internal/sources/pldb"
	"github.com/acherm/PL-ultimate/internal/sources/wikipedia"
	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/constants"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

// Config selects sources and locations for a run.
type Config struct {
	DataDir string
	PLDBDir string

	Offline   bool
	FetchOnly bool

	IncludeLinguist  bool
	IncludeWikipedia bool
	IncludeEsolang   bool

	FuzzyThreshold  float64
	FuzzyFixedPoint bool
}

// DefaultConfig returns the default source selection under the default
// data directory.
func DefaultConfig() Config {
	return Config{
		DataDir:          constants.DefaultDataDir,
		IncludeLinguist:  true,
		IncludeWikipedia: true,
		FuzzyThreshold:   constants.FuzzyThreshold,
	}
}

// RawDir holds cached source payloads.
func (c Config) RawDir() string {
	return filepath.Join(c.DataDir, constants.RawDirName)
}

// DerivedDir holds generated catalogs and reports.
func (c Config) DerivedDir() string {
	return filepath.Join(c.DataDir, constants.DerivedDirName)
}

// Derived returns the path of a generated file.
func (c Config) Derived(name string) string {
	return filepath.Join(c.DerivedDir(), name)
}

// MasterPath is the base catalog written by Build.
func (c Config) MasterPath() string { return c.Derived(constants.MasterFile) }

// AliasesPath is the alias table written by Build.
func (c Config) AliasesPath() string { return c.Derived(constants.AliasesFile) }

// LinkedPath is the default output of linking src onto the master catalog.
func (c Config) LinkedPath(src sources.ID) string {
	return c.Derived(fmt.Sprintf("languages_master_with_%s.csv", src))
}

// MissingPath is the default missing report of linking src.
func (c Config) MissingPath(src sources.ID) string {
	return c.Derived(fmt.Sprintf("%s_missing_from_master.csv", src))
}

// Cache returns the raw payload cache for this configuration.
func (c Config) Cache() *transport.Cache {
	return transport.NewCache(c.RawDir(), c.Offline)
}

// Sources registers the base sources this configuration selects. PLDB is
// registered only when a directory is configured, and never in fetch-only
// mode since it is read from disk.
func (c Config) Sources(client *transport.Client, cache *transport.Cache) *sources.Sources {
	reg := sources.NewSources()
	if c.IncludeLinguist {
		reg.Set(linguist.New(client, cache))
	}
	if c.IncludeWikipedia {
		reg.Set(wikipedia.New(client, cache))
	}
	if c.IncludeEsolang {
		reg.Set(esolang.New(client, cache))
	}
	if c.PLDBDir != "" && !c.FetchOnly {
		reg.Set(pldb.New(c.PLDBDir, pldb.WithProgress(stderrIsTerminal())))
	}
	return reg
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
