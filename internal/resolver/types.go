// Package resolver is the reference resolver (spec.md §4.6): given a
// symbol position, it recovers a SymbolInfo probe and locates matching
// references across the origin file and, optionally, its direct
// imports.
package resolver

// SymbolInfo describes the symbol at a probed position, recovered by
// re-parsing the file (spec.md §4.6 step 1).
type SymbolInfo struct {
	Name          string
	Parent        string
	Namespace     string
	ParentContext string
	IsNested      bool
	Kind          string
}

// Location is one matched reference or definition site.
type Location struct {
	File   string
	Line   int
	Column int
}

// Options configures a FindReferences call.
type Options struct {
	IncludeImports bool
	IncludeSelf    bool
	MaxDepth       int
	MaxResults     int
}
