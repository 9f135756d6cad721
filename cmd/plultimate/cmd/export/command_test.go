package export

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acherm/PL-ultimate/internal/cmd/application"
	"github.com/acherm/PL-ultimate/internal/pipeline"
	"github.com/acherm/PL-ultimate/pkg/catalogs"
	"github.com/acherm/PL-ultimate/pkg/sources"
)

func TestSQLiteCommand(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cat := catalogs.New([]*catalogs.Language{
		{ID: "c", Name: "C", Sources: []sources.ID{sources.LinguistID}, Extensions: []string{".c", ".h"}, AliasCount: 1},
	}, []catalogs.AliasRecord{{Alias: "C", LanguageID: "c", Source: catalogs.SelfAlias}})
	require.NoError(t, pipeline.Save(t.Context(), cfg, cat))

	cmd := NewCommand(&application.Mock{PipelineFunc: func() pipeline.Config { return cfg }})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"sqlite"})
	require.NoError(t, cmd.Execute())

	path := strings.TrimSpace(out.String())
	assert.Equal(t, filepath.Join(cfg.DerivedDir(), DefaultSQLiteFile), path)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM aliases").Scan(&n))
	assert.Equal(t, 1, n)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM extensions").Scan(&n))
	assert.Equal(t, 2, n)
}
