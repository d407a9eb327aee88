package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "index.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestFile(t *testing.T, s *Store, path string) *File {
	t.Helper()
	f := &File{Path: path, Language: "go", LastModified: 1000, IndexedAt: 1000, ContentHash: 1000}
	id, err := s.InsertFile(f)
	require.NoError(t, err)
	f.ID = id
	return f
}

func TestOpen_CreatesSchemaAndMarker(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	for _, table := range []string{"files", "symbols", "symbol_contents", "keywords", "symbol_relations", "workspace_meta"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}

	assert.FileExists(t, markerPath(dbPath))
}

func TestOpen_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	s1, err := Open(dbPath)
	require.NoError(t, err)
	s1.Close()

	s2, err := Open(dbPath)
	require.NoError(t, err)
	defer s2.Close()
	assert.True(t, s2.CheckIntegrity())
}

func TestOpen_RecreatesWhenMarkerMissing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	s1, err := Open(dbPath)
	require.NoError(t, err)
	insertTestFile(t, s1, "a.go")
	s1.Close()

	require.NoError(t, os.Remove(markerPath(dbPath)))

	s2, err := Open(dbPath)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.CountFiles()
	require.NoError(t, err)
	assert.Zero(t, n, "stale DB should have been recreated empty")
}

func TestBeginCommitRollback(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Begin())
	assert.True(t, s.InTransaction())
	// Begin again is a no-op, not an error.
	require.NoError(t, s.Begin())

	insertTestFile(t, s, "a.go")
	require.NoError(t, s.Commit())
	assert.False(t, s.InTransaction())

	n, err := s.CountFiles()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRollback_DiscardsChanges(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Begin())
	insertTestFile(t, s, "a.go")
	require.NoError(t, s.Rollback())

	n, err := s.CountFiles()
	require.NoError(t, err)
	assert.Zero(t, n)

	// Rollback with no active transaction is a no-op.
	require.NoError(t, s.Rollback())
}

func TestGet_NotFoundReturnsNilNotError(t *testing.T) {
	s := newTestStore(t)
	f, err := s.FileByPath("missing.go")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestFileCascade_DeletingFileRemovesSymbolsKeywordsRelations(t *testing.T) {
	s := newTestStore(t)
	f := insertTestFile(t, s, "a.go")

	symID, err := s.InsertSymbol(&Symbol{FileID: f.ID, Name: "Foo", Type: TypeFunction, Line: 1, Column: 0})
	require.NoError(t, err)
	require.NoError(t, s.InsertSymbolContent(&SymbolContent{SymbolID: symID, Line: "func Foo() {}"}))
	require.NoError(t, s.InsertKeyword(&KeywordPosting{Keyword: "foo", SymbolID: symID, Relevance: 1.0}))

	otherID, err := s.InsertSymbol(&Symbol{FileID: f.ID, Name: "Bar", Type: TypeFunction, Line: 3, Column: 0})
	require.NoError(t, err)
	require.NoError(t, s.InsertRelation(&SymbolRelation{SourceID: symID, TargetID: otherID, RelationType: RelationCalls}))

	require.NoError(t, s.DeleteFile(f.ID))

	n, err := s.CountSymbols()
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.CountKeywords()
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.CountRelations()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestKeywordPosting_NoDuplicates(t *testing.T) {
	s := newTestStore(t)
	f := insertTestFile(t, s, "a.go")
	symID, err := s.InsertSymbol(&Symbol{FileID: f.ID, Name: "Foo", Type: TypeFunction, Line: 1, Column: 0})
	require.NoError(t, err)

	require.NoError(t, s.InsertKeyword(&KeywordPosting{Keyword: "foo", SymbolID: symID, Relevance: 0.5}))
	require.NoError(t, s.InsertKeyword(&KeywordPosting{Keyword: "foo", SymbolID: symID, Relevance: 0.9}))

	postings, err := s.KeywordsBySymbol(symID)
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, 0.9, postings[0].Relevance)
}

func TestClear_ResetsCountsAndTimestamp(t *testing.T) {
	s := newTestStore(t)
	f := insertTestFile(t, s, "a.go")
	_, err := s.InsertSymbol(&Symbol{FileID: f.ID, Name: "Foo", Type: TypeFunction, Line: 1, Column: 0})
	require.NoError(t, err)

	require.NoError(t, s.Clear())

	stats, err := s.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.FilesCount)
	assert.Zero(t, stats.SymbolsCount)
	assert.Zero(t, stats.KeywordsCount)

	resetAt, err := s.GetMetadata(MetaLastReset)
	require.NoError(t, err)
	assert.NotEmpty(t, resetAt)
}

func TestUpsertFile_UpdatesInPlace(t *testing.T) {
	s := newTestStore(t)
	f := insertTestFile(t, s, "a.go")

	updated := &File{Path: "a.go", Language: "go", LastModified: 2000, IndexedAt: 2000, ContentHash: 2000}
	id, err := s.UpsertFile(updated)
	require.NoError(t, err)
	assert.Equal(t, f.ID, id, "upsert should update the same row, not insert a new one")

	n, err := s.CountFiles()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.FileByPath("a.go")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), got.LastModified)
}
