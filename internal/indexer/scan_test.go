package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func TestScan_FindsFilesUnderIncludeDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.go", "package main\n")
	writeFile(t, root, "src/util/helper.py", "def f(): pass\n")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {}\n")

	entries, err := Scan(root, ScanOptions{}, nil)
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, filepath.Join(root, "src/main.go"))
	assert.Contains(t, paths, filepath.Join(root, "src/util/helper.py"))
	assert.NotContains(t, paths, filepath.Join(root, "node_modules/dep/index.js"))
}

func TestScan_FallsBackToRootWhenNoIncludeDirsExist(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")

	entries, err := Scan(root, ScanOptions{}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(root, "main.go"), entries[0].Path)
}

func TestScan_ExcludesTestDirsUnlessIncluded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.go", "package app\n")
	writeFile(t, root, "src/__tests__/app_test.go", "package app\n")

	entries, err := Scan(root, ScanOptions{}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = Scan(root, ScanOptions{IncludeTests: true}, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestScan_ExcludesBinaryExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.go", "package app\n")
	writeFile(t, root, "src/logo.png", "binarydata")

	entries, err := Scan(root, ScanOptions{}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(root, "src/app.go"), entries[0].Path)
}

func TestScan_PriorityDirGetsHigherPriority(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.go", "package app\n")
	writeFile(t, root, "other.go", "package other\n")

	entries, err := Scan(root, ScanOptions{IncludeDirs: []string{"src", "."}}, nil)
	require.NoError(t, err)

	byPath := map[string]int{}
	for _, e := range entries {
		byPath[e.Path] = e.Priority
	}
	assert.Equal(t, 50, byPath[filepath.Join(root, "src/app.go")])
}

func TestScan_YieldsEveryTenDirectories(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 25; i++ {
		writeFile(t, root, filepath.Join("src", "d"+string(rune('a'+i)), "f.go"), "package d\n")
	}

	yields := 0
	_, err := Scan(root, ScanOptions{}, func() { yields++ })
	require.NoError(t, err)
	assert.Greater(t, yields, 0)
}
