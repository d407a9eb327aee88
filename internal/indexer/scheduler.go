package indexer

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/coolcline/codeindex/internal/store"
)

const batchSize = 10

// Scheduler drains a priority-ordered ingestion queue in batches,
// running each batch's ingest bodies concurrently (the store serializes
// the actual writes via the transaction coordinator) and yielding
// between batches (spec.md §4.5's scheduler paragraph).
type Scheduler struct {
	store    *store.Store
	progress *progressTracker

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewScheduler builds a Scheduler bound to s.
func NewScheduler(s *store.Store) *Scheduler {
	return &Scheduler{store: s, progress: newProgressTracker()}
}

// Progress returns the current snapshot (spec.md §6 get_progress).
func (sch *Scheduler) Progress() Progress {
	return sch.progress.snapshot()
}

// Run sorts entries by descending priority and ingests them in batches
// of 10, with concurrent ingestion within a batch and a yield point
// between batches. A concurrent call to Cancel aborts the run; queued
// files past the cancellation point are left unindexed until the next
// refresh.
func (sch *Scheduler) Run(parent context.Context, entries []FileEntry) error {
	ctx, cancel := context.WithCancel(parent)
	sch.mu.Lock()
	sch.cancel = cancel
	sch.mu.Unlock()
	defer cancel()

	sorted := append([]FileEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority > sorted[j].Priority })

	sch.progress.setTotal(len(sorted))
	defer func() {
		if ctx.Err() == nil {
			sch.progress.setStatus(StatusCompleted)
		}
	}()

	for start := 0; start < len(sorted); start += batchSize {
		if ctx.Err() != nil {
			sch.progress.setStatus(StatusError)
			return ctx.Err()
		}

		end := start + batchSize
		if end > len(sorted) {
			end = len(sorted)
		}
		batch := sorted[start:end]

		var wg sync.WaitGroup
		for _, entry := range batch {
			wg.Add(1)
			go func(e FileEntry) {
				defer wg.Done()
				if err := IngestFile(ctx, sch.store, e.Path); err != nil {
					slog.Warn("indexer: ingest failed", "path", e.Path, "error", err)
				}
				sch.progress.incr()
			}(entry)
		}
		wg.Wait()
	}

	return nil
}

// Cancel aborts the in-progress Run, if any (spec.md §4.5: "refresh
// cancels the queue and restarts").
func (sch *Scheduler) Cancel() {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	if sch.cancel != nil {
		sch.cancel()
	}
}
