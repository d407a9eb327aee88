package indexer

import (
	"context"
	"fmt"

	"github.com/coolcline/codeindex/internal/store"
)

// Indexer is the incremental indexer (spec.md §4.5): it wraps a Store
// with workspace scanning, diffing, and scheduled ingestion.
type Indexer struct {
	store     *store.Store
	root      string
	opts      ScanOptions
	scheduler *Scheduler
}

// New builds an Indexer rooted at root.
func New(s *store.Store, root string, opts ScanOptions) *Indexer {
	return &Indexer{store: s, root: root, opts: opts, scheduler: NewScheduler(s)}
}

// Progress reports the current indexing run's status (spec.md §6
// get_progress).
func (ix *Indexer) Progress() Progress {
	return ix.scheduler.Progress()
}

// Start performs a full scan-diff-ingest cycle: the first run against an
// empty store indexes everything; subsequent runs only touch files whose
// mtime has advanced past the store's freshness timestamp (spec.md
// §4.5's diff algorithm).
func (ix *Indexer) Start(ctx context.Context) error {
	entries, err := Scan(ix.root, ix.opts, nil)
	if err != nil {
		return fmt.Errorf("indexer: scan: %w", err)
	}

	stored, err := ix.store.AllFiles()
	if err != nil {
		return fmt.Errorf("indexer: list stored files: %w", err)
	}

	d := Compute(entries, stored)

	if err := DeleteMissing(ix.store, d.ToDelete); err != nil {
		return fmt.Errorf("indexer: delete missing: %w", err)
	}

	return ix.scheduler.Run(ctx, d.ToUpdate)
}

// Refresh cancels any in-progress run and restarts scan-diff-ingest from
// scratch (spec.md §4.5: "refresh cancels the queue and restarts").
func (ix *Indexer) Refresh(ctx context.Context) error {
	ix.scheduler.Cancel()
	ix.scheduler = NewScheduler(ix.store)
	return ix.Start(ctx)
}

// Clear empties all tables and resets workspace metadata (spec.md
// §4.5: "clear empties all tables inside a transaction and resets
// last_reset in workspace metadata").
func (ix *Indexer) Clear() error {
	ix.scheduler.Cancel()
	return ix.store.Clear()
}

// IndexFile ingests a single path as a standalone transaction — the
// file-watcher-notification path (spec.md §6 index_file, §9's "shared
// resource policy").
func (ix *Indexer) IndexFile(ctx context.Context, path string) error {
	return IngestFile(ctx, ix.store, path)
}

// RemoveFile removes a single path from the index, as a standalone
// transaction (spec.md §6 remove_file_from_index).
func (ix *Indexer) RemoveFile(path string) error {
	return RemoveFile(ix.store, path)
}
