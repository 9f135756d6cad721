package build

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acherm/PL-ultimate/internal/cmd/application"
	"github.com/acherm/PL-ultimate/internal/pipeline"
	"github.com/acherm/PL-ultimate/internal/sources/linguist"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

const registry = `
Vim Script:
  type: programming
  extensions:
  - ".vim"
C:
  type: programming
  extensions:
  - ".c"
`

func TestBuildCommand(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.DataDir = t.TempDir()
	require.NoError(t, os.MkdirAll(cfg.RawDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.RawDir(), linguist.RawFile), []byte(registry), 0o644))

	app := &application.Mock{PipelineFunc: func() pipeline.Config { return cfg }}
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--offline", "--include-wikipedia=false"})
	require.NoError(t, cmd.Execute())

	var res pipeline.BuildResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, 2, res.Languages)
	assert.Equal(t, map[sources.ID]int{sources.LinguistID: 2}, res.Records)
	assert.Empty(t, res.Failed)
	assert.FileExists(t, cfg.MasterPath())
	assert.FileExists(t, cfg.AliasesPath())
}

func TestBuildCommandNoSources(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.DataDir = t.TempDir()

	cmd := NewCommand(&application.Mock{PipelineFunc: func() pipeline.Config { return cfg }})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--offline"})
	assert.Error(t, cmd.Execute())
}

func TestApply(t *testing.T) {
	base := pipeline.DefaultConfig()
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg pipeline.Config)
	}{
		{"defaults kept", nil, func(t *testing.T, cfg pipeline.Config) {
			assert.Equal(t, base, cfg)
		}},
		{"esolang and pldb", []string{"--include-esolang", "--pldb-dir", "/pldb"}, func(t *testing.T, cfg pipeline.Config) {
			assert.True(t, cfg.IncludeEsolang)
			assert.Equal(t, "/pldb", cfg.PLDBDir)
		}},
		{"collapse tuning", []string{"--fuzzy-threshold", "0.9", "--fuzzy-fixed-point"}, func(t *testing.T, cfg pipeline.Config) {
			assert.InDelta(t, 0.9, cfg.FuzzyThreshold, 1e-9)
			assert.True(t, cfg.FuzzyFixedPoint)
		}},
		{"fetch only", []string{"--fetch-only", "--include-linguist=false"}, func(t *testing.T, cfg pipeline.Config) {
			assert.True(t, cfg.FetchOnly)
			assert.False(t, cfg.IncludeLinguist)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "build"}
			flags := addFlags(cmd, base)
			require.NoError(t, cmd.ParseFlags(tt.args))
			tt.check(t, Apply(cmd, base, flags))
		})
	}
}
