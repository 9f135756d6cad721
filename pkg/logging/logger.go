// Package logging provides structured logging for the catalog pipeline using
// zerolog. Console output is used when stderr is a terminal and JSON lines
// otherwise.
//
// Stages attach their logger to the context together with the run ID, the
// stage and the source being processed:
//
//	ctx = logging.WithRunID(ctx, "")
//	ctx = logging.WithSource(logging.WithStage(ctx, "build"), "linguist")
//	logging.FromContext(ctx).Info().Int("records", 712).Msg("Fetched source")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is used whenever a context carries no logger.
var defaultLogger = NewLoggerFromConfig(EnvConfig())

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
