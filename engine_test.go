package codeindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWorkspaceFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestWorkspaceID_IsPureFunctionOfPath(t *testing.T) {
	a, err := WorkspaceID("/tmp/workspace-a")
	require.NoError(t, err)
	b, err := WorkspaceID("/tmp/workspace-a")
	require.NoError(t, err)
	c, err := WorkspaceID("/tmp/workspace-b")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestEngine_IndexAndSearchEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "src/models/user.ts", `export class User {
	getName(): string {
		return "";
	}
}
`)

	storage := t.TempDir()
	e, err := Initialize(root, Options{HostStorageRoot: storage})
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.StartIndexing(context.Background()))

	stats, err := e.GetIndexStats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.FilesCount)
	assert.Greater(t, stats.SymbolsCount, int64(0))

	results, err := e.Search("user class", SearchOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestEngine_ClearIndexResetsCounts(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "src/a.go", "package a\n\nfunc F() {}\n")

	storage := t.TempDir()
	e, err := Initialize(root, Options{HostStorageRoot: storage})
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.StartIndexing(context.Background()))
	require.NoError(t, e.ClearIndex())

	stats, err := e.GetIndexStats()
	require.NoError(t, err)
	assert.Zero(t, stats.FilesCount)
	assert.Zero(t, stats.SymbolsCount)
}

func TestEngine_SearchEmptyQueryIsInvalidArgument(t *testing.T) {
	root := t.TempDir()
	storage := t.TempDir()
	e, err := Initialize(root, Options{HostStorageRoot: storage})
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Search("", SearchOptions{})
	var codeErr *Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, InvalidArgument, codeErr.Kind)
}

func TestEngine_IndexFileRejectedByCoolignore(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, ".coolignore", "secrets/**\n")
	writeWorkspaceFile(t, root, "secrets/api.key", "shh\n")

	storage := t.TempDir()
	e, err := Initialize(root, Options{HostStorageRoot: storage})
	require.NoError(t, err)
	defer e.Close()

	err = e.IndexFile(context.Background(), filepath.Join(root, "secrets/api.key"))
	var codeErr *Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, InvalidArgument, codeErr.Kind)
}
