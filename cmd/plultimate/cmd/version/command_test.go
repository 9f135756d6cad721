package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acherm/PL-ultimate/internal/cmd/application"
)

func TestVersionCommand(t *testing.T) {
	cmd := NewCommand(&application.Mock{
		VersionFunc: func() string { return "1.2.3" },
		CommitFunc:  func() string { return "abc123" },
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "plultimate 1.2.3")
	assert.Contains(t, out.String(), "abc123")
}
