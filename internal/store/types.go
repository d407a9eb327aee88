package store

// File is a row of the files table: one per indexed source file.
//
// ContentHash carries timestamp semantics, not a content digest: the
// indexer stores the file's mtime in it, and the indexer's diff compares
// it against freshly observed mtimes. The column name is kept as
// content_hash because that is the name spec invariants reference.
type File struct {
	ID           int64
	Path         string
	Language     string
	LastModified int64 // ms since epoch, observed filesystem mtime
	IndexedAt    int64 // ms since epoch
	ContentHash  int64 // freshness timestamp, ms since epoch (see doc above)
}

// Symbol is a row of the symbols table: a named code entity.
type Symbol struct {
	ID        int64
	FileID    int64
	Name      string
	Type      string
	Signature string
	Line      int // 1-based
	Column    int // 0-based
	ParentID  *int64
}

// SymbolContent is the 1:1 source-context row for a symbol.
type SymbolContent struct {
	SymbolID int64
	Line     string
}

// KeywordPosting is a many-to-many row mapping a normalized keyword to a
// symbol, carrying a relevance score in [0,1].
type KeywordPosting struct {
	Keyword   string
	SymbolID  int64
	Relevance float64
}

// SymbolRelation is an edge between two symbols: extends, implements,
// uses, defines, or calls.
type SymbolRelation struct {
	SourceID     int64
	TargetID     int64
	RelationType string
}

// Closed vocabulary for Symbol.Type (spec.md §3).
const (
	TypeFunction         = "function"
	TypeMethod           = "method"
	TypeClass            = "class"
	TypeInterface        = "interface"
	TypeStruct           = "struct"
	TypeEnum             = "enum"
	TypeVariable         = "variable"
	TypeConstant         = "constant"
	TypeProperty         = "property"
	TypeField            = "field"
	TypeNamespace        = "namespace"
	TypeModule           = "module"
	TypeType             = "type"
	TypeTrait            = "trait"
	TypeMacro            = "macro"
	TypeNestedMethod     = "nested.method"
	TypeNestedClass      = "nested.class"
	TypeNestedStruct     = "nested.struct"
	TypeNestedEnum       = "nested.enum"
	TypeNamespacedClass  = "namespaced.class"
	TypeNamespacedFunc   = "namespaced.function"
	TypeStructMethod     = "struct.method"
	TypeInterfaceMethod  = "interface.method"
	TypeEmbeddedField    = "embedded.field"
	TypeConstructor      = "constructor"
)

// ValidTypes is the closed set of symbol kinds. InsertSymbol does not
// check Type against it.
var ValidTypes = map[string]bool{
	TypeFunction: true, TypeMethod: true, TypeClass: true, TypeInterface: true,
	TypeStruct: true, TypeEnum: true, TypeVariable: true, TypeConstant: true,
	TypeProperty: true, TypeField: true, TypeNamespace: true, TypeModule: true,
	TypeType: true, TypeTrait: true, TypeMacro: true, TypeNestedMethod: true,
	TypeNestedClass: true, TypeNestedStruct: true, TypeNestedEnum: true,
	TypeNamespacedClass: true, TypeNamespacedFunc: true, TypeStructMethod: true,
	TypeInterfaceMethod: true, TypeEmbeddedField: true, TypeConstructor: true,
}

// Closed vocabulary for SymbolRelation.RelationType (spec.md §3).
const (
	RelationExtends    = "extends"
	RelationImplements = "implements"
	RelationUses       = "uses"
	RelationDefines    = "defines"
	RelationCalls      = "calls"
)

// ValidRelationTypes is the closed set of relation kinds. InsertRelation
// does not check RelationType against it.
var ValidRelationTypes = map[string]bool{
	RelationExtends: true, RelationImplements: true, RelationUses: true,
	RelationDefines: true, RelationCalls: true,
}
