package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolcline/codeindex/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

const sampleGo = `package widget

// Widget represents a thing.
type Widget struct {
	Name string
}

// Describe returns a description.
func (w *Widget) Describe() string {
	return w.Name
}
`

func TestIngestFile_WritesSymbolsAndContent(t *testing.T) {
	s := newTestStore(t)
	root := t.TempDir()
	path := writeFile(t, root, "widget.go", sampleGo)

	require.NoError(t, IngestFile(context.Background(), s, path))

	f, err := s.FileByPath(path)
	require.NoError(t, err)
	require.NotNil(t, f)

	syms, err := s.SymbolsByFile(f.ID)
	require.NoError(t, err)
	var names []string
	for _, sym := range syms {
		names = append(names, sym.Name)
	}
	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "Describe")

	n, err := s.CountKeywords()
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestIngestFile_ReingestionReplacesSymbols(t *testing.T) {
	s := newTestStore(t)
	root := t.TempDir()
	path := writeFile(t, root, "widget.go", sampleGo)

	require.NoError(t, IngestFile(context.Background(), s, path))
	require.NoError(t, IngestFile(context.Background(), s, path))

	n, err := s.CountFiles()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestIndexer_StartIndexesWorkspaceAndSkipsUnchanged(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/widget.go", sampleGo)
	s := newTestStore(t)

	ix := New(s, root, ScanOptions{})
	require.NoError(t, ix.Start(context.Background()))

	n, err := s.CountFiles()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	progress := ix.Progress()
	assert.Equal(t, StatusCompleted, progress.Status)

	require.NoError(t, ix.Start(context.Background()))
	n2, err := s.CountFiles()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n2)
}

func TestIndexer_RemovedFileIsDeletedOnNextScan(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "src/widget.go", sampleGo)
	s := newTestStore(t)

	ix := New(s, root, ScanOptions{})
	require.NoError(t, ix.Start(context.Background()))

	require.NoError(t, os.Remove(path))
	require.NoError(t, ix.Start(context.Background()))

	n, err := s.CountFiles()
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestIndexer_Clear_ResetsStore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/widget.go", sampleGo)
	s := newTestStore(t)

	ix := New(s, root, ScanOptions{})
	require.NoError(t, ix.Start(context.Background()))
	require.NoError(t, ix.Clear())

	n, err := s.CountFiles()
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}
