// Package app provides the application context and dependency management
// for the plultimate CLI. It centralizes configuration, logging and the
// lazily built HTTP client shared by every command.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/acherm/PL-ultimate/internal/cmd/application"
	"github.com/acherm/PL-ultimate/internal/pipeline"
	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/aliases"
	"github.com/acherm/PL-ultimate/pkg/constants"
	"github.com/acherm/PL-ultimate/pkg/errors"
)

// App represents the plultimate application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Lazy-initialized dependencies
	mu      sync.Mutex
	client  *transport.Client
	aliases map[string]aliases.Table
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with the loaded configuration, which functional
// options may replace.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured report format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Pipeline returns the pipeline configuration.
func (a *App) Pipeline() pipeline.Config {
	return a.config.Pipeline()
}

// Client returns the HTTP client, creating it on first use.
func (a *App) Client() *transport.Client {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil {
		a.client = transport.New(
			transport.WithTimeout(a.config.HTTPTimeout),
			transport.WithUserAgent(a.config.UserAgent),
			transport.WithRetry(constants.MaxRetries, constants.RetryBackoff),
		)
	}
	return a.client
}

// Aliases returns the alias table overrides from the configured aliases
// file, loading it on first use.
func (a *App) Aliases() (map[string]aliases.Table, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.aliases != nil || a.config.AliasesFile == "" {
		return a.aliases, nil
	}
	tables, err := aliases.LoadFile(a.config.AliasesFile)
	if err != nil {
		return nil, errors.NewConfigError("aliases", "cannot load aliases file", err)
	}
	a.aliases = tables
	return tables, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom HTTP client (useful for testing).
func WithClient(client *transport.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}
