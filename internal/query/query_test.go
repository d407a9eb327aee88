package query

import (
	"path/filepath"
	"testing"

	"github.com/coolcline/codeindex/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "index.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedSymbol(t *testing.T, s *store.Store, file *store.File, name, typ string, keywords ...string) *store.Symbol {
	t.Helper()
	sym := &store.Symbol{FileID: file.ID, Name: name, Type: typ, Line: 1, Column: 0}
	id, err := s.InsertSymbol(sym)
	require.NoError(t, err)
	sym.ID = id
	require.NoError(t, s.InsertSymbolContent(&store.SymbolContent{SymbolID: id, Line: name + " " + typ}))
	for _, kw := range keywords {
		require.NoError(t, s.InsertKeyword(&store.KeywordPosting{Keyword: kw, SymbolID: id, Relevance: 1.0}))
	}
	return sym
}

func seedFile(t *testing.T, s *store.Store, path, lang string) *store.File {
	t.Helper()
	f := &store.File{Path: path, Language: lang, LastModified: 1, IndexedAt: 1, ContentHash: 1}
	id, err := s.InsertFile(f)
	require.NoError(t, err)
	f.ID = id
	return f
}

func TestSearch_EmptyQueryIsInvalidArgument(t *testing.T) {
	s := newTestStore(t)
	_, err := Search(s, "   ", Options{})
	var invalid *InvalidArgument
	assert.ErrorAs(t, err, &invalid)
}

func TestSearch_FindsUserClass(t *testing.T) {
	s := newTestStore(t)
	f := seedFile(t, s, "src/models/user.ts", "typescript")
	seedSymbol(t, s, f, "User", store.TypeClass, "user", "class")

	results, err := Search(s, "user class", Options{})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "User", results[0].Symbol)
	assert.Equal(t, store.TypeClass, results[0].Type)
}

func TestSearch_AuthenticationLoginFindsClassAndMethod(t *testing.T) {
	s := newTestStore(t)
	f := seedFile(t, s, "src/services/auth-service.ts", "typescript")
	seedSymbol(t, s, f, "AuthenticationService", store.TypeClass, "authentication", "service")
	seedSymbol(t, s, f, "login", store.TypeMethod, "login")

	results, err := Search(s, "authentication login", Options{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(results), 2)
}

func TestSearch_QuotedExactSymbolRanksFirst(t *testing.T) {
	s := newTestStore(t)
	f := seedFile(t, s, "src/services/user-service.ts", "typescript")
	seedSymbol(t, s, f, "getUserData", store.TypeFunction, "get", "user", "data")
	seedSymbol(t, s, f, "getOtherData", store.TypeFunction, "get", "other", "data")

	results, err := Search(s, `"getUserData"`, Options{})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "getUserData", results[0].Symbol)
}

func TestSearch_ExcludesTestDirectoriesByDefault(t *testing.T) {
	s := newTestStore(t)
	f := seedFile(t, s, "src/tests/user.ts", "typescript")
	seedSymbol(t, s, f, "User", store.TypeClass, "user")

	results, err := Search(s, "user", Options{})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = Search(s, "user", Options{IncludeTests: true})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestSearch_MaxResultsTruncates(t *testing.T) {
	s := newTestStore(t)
	f := seedFile(t, s, "src/a.ts", "typescript")
	seedSymbol(t, s, f, "Foo", store.TypeClass, "foo")
	seedSymbol(t, s, f, "FooBar", store.TypeClass, "foo", "bar")

	results, err := Search(s, "foo", Options{MaxResults: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestFindImplementations_ReturnsImplementingSymbols(t *testing.T) {
	s := newTestStore(t)
	f := seedFile(t, s, "src/shape.go", "go")
	iface := seedSymbol(t, s, f, "Shape", store.TypeInterface)
	impl := seedSymbol(t, s, f, "Circle", store.TypeStruct)
	require.NoError(t, s.InsertRelation(&store.SymbolRelation{SourceID: impl.ID, TargetID: iface.ID, RelationType: store.RelationImplements}))

	results, err := FindImplementations(s, "Shape")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Circle", results[0].Symbol)
}
