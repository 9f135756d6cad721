package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acherm/PL-ultimate/pkg/logging"
)

func TestConfigFunctions(t *testing.T) {
	originalLogger := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(originalLogger)
		zerolog.SetGlobalLevel(originalLevel)
	})

	t.Run("DefaultConfig", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		require.NotNil(t, cfg)
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
		assert.False(t, cfg.AddCaller)
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "debug",
			Format: "json",
			Output: path,
		})
		logger.Info().Msg("test message")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "test message")
		assert.Contains(t, string(content), `"caller"`)
	})

	t.Run("SetDefault sets global logger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "global.log")
		logging.SetDefault(logging.NewLoggerFromConfig(&logging.Config{Level: "warn", Format: "json", Output: path}))

		logger := logging.FromContext(context.Background())
		logger.Info().Msg("info message")
		logger.Warn().Msg("warn message")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "info message")
		assert.Contains(t, string(content), "warn message")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARNING", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}

func TestEnvConfig(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantLevel  string
		wantFormat string
		wantOutput string
	}{
		{"defaults", nil, "info", "auto", "stderr"},
		{"log vars", map[string]string{"LOG_LEVEL": "warn", "LOG_FORMAT": "json", "LOG_OUTPUT": "stdout"}, "warn", "json", "stdout"},
		{"debug shortcut", map[string]string{"DEBUG": "1"}, "debug", "auto", "stderr"},
		{"level beats debug", map[string]string{"DEBUG": "1", "LOG_LEVEL": "error"}, "error", "auto", "stderr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT", "DEBUG"} {
				t.Setenv(k, tt.env[k])
			}
			cfg := logging.EnvConfig()
			assert.Equal(t, tt.wantLevel, cfg.Level)
			assert.Equal(t, tt.wantFormat, cfg.Format)
			assert.Equal(t, tt.wantOutput, cfg.Output)
		})
	}
}
