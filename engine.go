// Package codeindex is the public facade for a multi-language codebase
// indexing and semantic search engine (spec.md). One Engine wires
// together the symbol store, transaction coordinator, grammar parser
// layer, symbol extractor, incremental indexer, reference resolver, and
// query engine for a single workspace.
package codeindex

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/coolcline/codeindex/internal/access"
	"github.com/coolcline/codeindex/internal/coordinator"
	"github.com/coolcline/codeindex/internal/indexer"
	"github.com/coolcline/codeindex/internal/query"
	"github.com/coolcline/codeindex/internal/resolver"
	"github.com/coolcline/codeindex/internal/store"
)

// Re-exported types so callers never need to import internal packages
// directly.
type (
	SearchResult   = query.SearchResult
	SearchOptions  = query.Options
	SortBy         = query.SortBy
	Location       = resolver.Location
	ResolveOptions = resolver.Options
	Progress       = indexer.Progress
)

// IndexStats is the shape get_index_stats returns (spec.md §6), built
// from the store's row counts plus the indexer's current run status.
type IndexStats struct {
	FilesCount    int64
	SymbolsCount  int64
	KeywordsCount int64
	LastIndexed   int64
	Status        string
}

const (
	SortByRelevance = query.SortByRelevance
	SortByPath      = query.SortByPath
	SortByModified  = query.SortByModified
)

// Engine is the indexing and search engine for one workspace.
type Engine struct {
	workspaceRoot string
	workspaceID   string

	store    *store.Store
	indexer  *indexer.Indexer
	resolver *resolver.Resolver
	guard    *access.Guard
}

// Options configures Initialize.
type Options struct {
	// HostStorageRoot is where the per-workspace database lives (spec.md
	// §6: "<host-storage>/workspace_indexing/<workspace_id>.db"). Defaults
	// to the ".codeindex" subdirectory of the workspace root itself when
	// empty, so a bare Initialize(path) call has a sane default.
	HostStorageRoot string
	IncludeDirs     []string
	IncludeTests    bool
}

// Initialize opens (or creates) the store for workspacePath and wires a
// fresh Engine around it (spec.md §6, operation "initialize").
func Initialize(workspacePath string, opts Options) (*Engine, error) {
	if workspacePath == "" {
		return nil, newError(InvalidArgument, "initialize", fmt.Errorf("empty workspace path"))
	}

	id, err := WorkspaceID(workspacePath)
	if err != nil {
		return nil, newError(InvalidArgument, "initialize", err)
	}

	hostRoot := opts.HostStorageRoot
	if hostRoot == "" {
		hostRoot = filepath.Join(workspacePath, ".codeindex")
	}

	s, err := store.Open(storagePath(hostRoot, id))
	if err != nil {
		return nil, newError(StoreFailure, "initialize", err)
	}

	guard, err := access.Load(workspacePath)
	if err != nil {
		s.Close()
		return nil, newError(IoFailure, "initialize", err)
	}

	scanOpts := indexer.ScanOptions{IncludeDirs: opts.IncludeDirs, IncludeTests: opts.IncludeTests}
	return &Engine{
		workspaceRoot: workspacePath,
		workspaceID:   id,
		store:         s,
		indexer:       indexer.New(s, workspacePath, scanOpts),
		resolver:      resolver.New(),
		guard:         guard,
	}, nil
}

// Close releases the Engine's store and coordinator resources.
func (e *Engine) Close() error {
	coordinator.Shutdown(e.store)
	return e.store.Close()
}

// WorkspaceID returns the stable token this Engine was initialized with.
func (e *Engine) WorkspaceID() string { return e.workspaceID }

// Guard exposes the loaded .coolignore access-control collaborator.
func (e *Engine) Guard() *access.Guard { return e.guard }

// StartIndexing performs a full scan-diff-ingest cycle (spec.md §6,
// "start_indexing").
func (e *Engine) StartIndexing(ctx context.Context) error {
	if err := e.indexer.Start(ctx); err != nil {
		return newError(StoreFailure, "start_indexing", err)
	}
	return nil
}

// RefreshIndex cancels any in-flight run and restarts scan-diff-ingest
// (spec.md §6, "refresh_index").
func (e *Engine) RefreshIndex(ctx context.Context) error {
	if err := e.indexer.Refresh(ctx); err != nil {
		return newError(StoreFailure, "refresh_index", err)
	}
	return nil
}

// ClearIndex empties the store (spec.md §6, "clear_index").
func (e *Engine) ClearIndex() error {
	if err := e.indexer.Clear(); err != nil {
		return newError(StoreFailure, "clear_index", err)
	}
	return nil
}

// IndexFile ingests one path as a standalone transaction (spec.md §6,
// "index_file").
func (e *Engine) IndexFile(ctx context.Context, path string) error {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(e.workspaceRoot, path)
	}
	if !e.guard.ValidateAccess(abs) {
		return newError(InvalidArgument, "index_file", fmt.Errorf("path excluded by .coolignore: %s", path))
	}
	if err := e.indexer.IndexFile(ctx, abs); err != nil {
		return newError(IoFailure, "index_file", err)
	}
	return nil
}

// RemoveFileFromIndex removes one path from the index (spec.md §6,
// "remove_file_from_index"). A relative path is resolved against the
// workspace root, as IndexFile does.
func (e *Engine) RemoveFileFromIndex(path string) error {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(e.workspaceRoot, path)
	}
	if err := e.indexer.RemoveFile(abs); err != nil {
		return newError(StoreFailure, "remove_file_from_index", err)
	}
	return nil
}

// GetIndexStats reports aggregate counts (spec.md §6, "get_index_stats").
func (e *Engine) GetIndexStats() (IndexStats, error) {
	stats, err := e.store.GetStats()
	if err != nil {
		return IndexStats{}, newError(StoreFailure, "get_index_stats", err)
	}
	return IndexStats{
		FilesCount:    stats.FilesCount,
		SymbolsCount:  stats.SymbolsCount,
		KeywordsCount: stats.KeywordsCount,
		LastIndexed:   stats.LastIndexed,
		Status:        e.indexer.Progress().Status,
	}, nil
}

// GetProgress reports the current indexing run's status (spec.md §6,
// "get_progress").
func (e *Engine) GetProgress() Progress {
	return e.indexer.Progress()
}
