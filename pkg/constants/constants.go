// Package constants provides shared constants used throughout the catalog
// pipeline. This includes timeouts, retry limits, file permissions, matching
// thresholds and the well-known file names of the derived data set.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for fetching a raw source
	DefaultHTTPTimeout = 60 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 30 * time.Minute

	// RetryBackoff is the base backoff duration for retries
	RetryBackoff = 300 * time.Millisecond

	// PageDelay is the pause between paginated wiki API requests
	PageDelay = 150 * time.Millisecond
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxRetries is the number of attempts made against a single endpoint
	MaxRetries = 3

	// WikiPageLimit is the page size requested from MediaWiki list queries
	WikiPageLimit = 500

	// WikiBatchSize is the number of titles sent in one MediaWiki prop query
	WikiBatchSize = 50
)

// Matching constants
const (
	// FuzzyThreshold is the similarity ratio at or above which two
	// identifiers are treated as the same identity.
	FuzzyThreshold = 0.94

	// HashWidth is the number of hex characters kept from the fallback
	// identifier hash. Collisions at this width are an accepted risk.
	HashWidth = 8

	// HashPrefix tags identifiers derived from a content hash.
	HashPrefix = "id-"

	// MinEvidenceTokenLength is the shortest filename/extension token the
	// linker accepts as secondary evidence.
	MinEvidenceTokenLength = 3
)

// Path constants
const (
	// DefaultDataDir is the default root for raw and derived data
	DefaultDataDir = "data"

	// RawDirName holds fetched source payloads
	RawDirName = "raw"

	// DerivedDirName holds generated catalogs and reports
	DerivedDirName = "derived"

	// MasterFile is the base catalog produced by the build stage
	MasterFile = "languages_master.csv"

	// AliasesFile holds the alias records of the base catalog
	AliasesFile = "aliases.csv"

	// ExtensionsFile is the extension inventory report
	ExtensionsFile = "extensions_inventory.csv"

	// DefaultConfigName is the config file name searched in $HOME and "."
	DefaultConfigName = ".plultimate"
)

// UserAgent is sent with every outgoing request.
const UserAgent = "PL-ultimate/1.0 (+https://example.org)"
