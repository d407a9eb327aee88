package codeindex

import (
	"context"
	"path/filepath"

	"github.com/coolcline/codeindex/internal/query"
	"github.com/coolcline/codeindex/internal/resolver"
)

// Search runs a free-form query against the index (spec.md §6, "search").
func (e *Engine) Search(q string, opts SearchOptions) ([]SearchResult, error) {
	results, err := query.Search(e.store, q, opts)
	if err != nil {
		if _, ok := err.(*query.InvalidArgument); ok {
			return nil, newError(InvalidArgument, "search", err)
		}
		return nil, newError(StoreFailure, "search", err)
	}
	return results, nil
}

// FindReferences resolves every reference to the symbol at (file, line,
// column), optionally following direct imports (spec.md §6,
// "find_references").
func (e *Engine) FindReferences(ctx context.Context, symbol, file string, line, column int, opts ResolveOptions) ([]Location, error) {
	abs := file
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(e.workspaceRoot, file)
	}
	locs, err := e.resolver.FindReferences(ctx, symbol, abs, line, column, resolver.Options(opts))
	if err != nil {
		return nil, newError(IoFailure, "find_references", err)
	}
	return locs, nil
}

// FindImplementations returns symbols that implement or extend the named
// interface/base type (spec.md §6, "find_implementations").
func (e *Engine) FindImplementations(interfaceName string) ([]SearchResult, error) {
	results, err := query.FindImplementations(e.store, interfaceName)
	if err != nil {
		return nil, newError(StoreFailure, "find_implementations", err)
	}
	return results, nil
}
