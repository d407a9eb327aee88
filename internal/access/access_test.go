package access

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIgnoreFile(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".coolignore"), []byte(content), 0o644))
}

func TestLoad_MissingFileIsPermissive(t *testing.T) {
	root := t.TempDir()
	g, err := Load(root)
	require.NoError(t, err)
	assert.True(t, g.ValidateAccess(filepath.Join(root, "anything.go")))
}

func TestValidateAccess_RejectsIgnoredPath(t *testing.T) {
	root := t.TempDir()
	writeIgnoreFile(t, root, "secrets/**\n")

	g, err := Load(root)
	require.NoError(t, err)

	assert.False(t, g.ValidateAccess(filepath.Join(root, "secrets/api.key")))
	assert.True(t, g.ValidateAccess(filepath.Join(root, "src/main.go")))
}

func TestValidateAccess_AllowsPathsOutsideRoot(t *testing.T) {
	root := t.TempDir()
	writeIgnoreFile(t, root, "secrets/**\n")

	g, err := Load(root)
	require.NoError(t, err)

	assert.True(t, g.ValidateAccess("/etc/passwd"))
}

func TestValidateCommand_FlagsOffendingArgument(t *testing.T) {
	root := t.TempDir()
	writeIgnoreFile(t, root, "secrets/**\n")

	g, err := Load(root)
	require.NoError(t, err)

	offending, blocked := g.ValidateCommand([]string{"cat", "secrets/api.key"})
	assert.True(t, blocked)
	assert.Equal(t, "secrets/api.key", offending)

	_, blocked = g.ValidateCommand([]string{"ls", "-la"})
	assert.False(t, blocked)
}
