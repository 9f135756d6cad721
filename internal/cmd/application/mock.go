package application

import (
	"github.com/rs/zerolog"

	"github.com/acherm/PL-ultimate/internal/pipeline"
	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/aliases"
)

// Mock provides a mock implementation of Application for testing.
// If a function field is nil, the method returns a default value.
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	PipelineFunc     func() pipeline.Config
	ClientFunc       func() *transport.Client
	AliasesFunc      func() (map[string]aliases.Table, error)
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

var _ Application = (*Mock)(nil)

// Logger returns the mock logger or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// Pipeline returns the mock configuration or pipeline.DefaultConfig.
func (m *Mock) Pipeline() pipeline.Config {
	if m.PipelineFunc != nil {
		return m.PipelineFunc()
	}
	return pipeline.DefaultConfig()
}

// Client returns the mock client or a default one.
func (m *Mock) Client() *transport.Client {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return transport.New()
}

// Aliases returns the mock overrides or none.
func (m *Mock) Aliases() (map[string]aliases.Table, error) {
	if m.AliasesFunc != nil {
		return m.AliasesFunc()
	}
	return nil, nil
}

// OutputFormat returns the mock format or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Version returns the mock version or "test".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "test"
}

// Commit returns the mock commit or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns the mock date or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns the mock builder or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}
