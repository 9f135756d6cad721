// Package application defines what plultimate commands need from the
// application: configuration, logging and the shared HTTP client.
//
// Commands accept Application rather than the concrete App so they can be
// tested with a Mock:
//
//	mock := &application.Mock{
//	    PipelineFunc: func() pipeline.Config { return cfg },
//	}
//	cmd := build.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/acherm/PL-ultimate/internal/pipeline"
	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/aliases"
)

// Application provides the dependencies commands need.
type Application interface {
	// Logger returns the configured logger.
	Logger() *zerolog.Logger

	// Pipeline returns the configured data locations and source selection.
	// Commands copy it and apply their own flags.
	Pipeline() pipeline.Config

	// Client returns the shared HTTP client, creating it lazily.
	Client() *transport.Client

	// Aliases returns alias table overrides keyed by linked source name.
	// It is empty when no aliases file is configured.
	Aliases() (map[string]aliases.Table, error)

	// OutputFormat returns the configured report format, empty to detect.
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
