package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acherm/PL-ultimate/internal/transport"
	"github.com/acherm/PL-ultimate/pkg/constants"
)

func newTestApp(t *testing.T, config *Config) *App {
	t.Helper()
	isolate(t)
	logger := zerolog.Nop()
	a, err := New("1.0.0", "abc", "2026-01-01", "test", WithConfig(config), WithLogger(&logger))
	require.NoError(t, err)
	return a
}

func TestNew(t *testing.T) {
	a := newTestApp(t, &Config{DataDir: "data", Format: "yaml"})
	assert.Equal(t, "1.0.0", a.Version())
	assert.Equal(t, "abc", a.Commit())
	assert.Equal(t, "2026-01-01", a.Date())
	assert.Equal(t, "test", a.BuiltBy())
	assert.Equal(t, "yaml", a.OutputFormat())
	assert.Equal(t, "data", a.Pipeline().DataDir)
	assert.NotNil(t, a.Logger())
}

func TestApp_Client(t *testing.T) {
	a := newTestApp(t, &Config{HTTPTimeout: constants.DefaultHTTPTimeout, UserAgent: constants.UserAgent})
	c := a.Client()
	require.NotNil(t, c)
	assert.Same(t, c, a.Client())

	custom := transport.New()
	b := newTestApp(t, &Config{})
	require.NoError(t, WithClient(custom)(b))
	assert.Same(t, custom, b.Client())
}

func TestApp_Aliases(t *testing.T) {
	a := newTestApp(t, &Config{})
	tables, err := a.Aliases()
	require.NoError(t, err)
	assert.Nil(t, tables)

	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pygments:\n  vim script: VimL\n"), 0o644))
	a = newTestApp(t, &Config{AliasesFile: path})
	tables, err = a.Aliases()
	require.NoError(t, err)
	target, ok := tables["pygments"].Translate("Vim Script")
	assert.True(t, ok)
	assert.Equal(t, "VimL", target)

	a = newTestApp(t, &Config{AliasesFile: filepath.Join(t.TempDir(), "missing.yaml")})
	_, err = a.Aliases()
	assert.Error(t, err)
}
