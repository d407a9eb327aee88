package indexer

import "sync"

// Status values for Progress.Status (spec.md §4.5).
const (
	StatusIdle      = "idle"
	StatusScanning  = "scanning"
	StatusIndexing  = "indexing"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Progress is the indexing-run snapshot spec.md §6's get_progress
// operation returns.
type Progress struct {
	Total     int
	Completed int
	Status    string
}

// progressTracker is a concurrency-safe Progress holder shared between
// the scheduler's worker goroutines and callers polling get_progress.
type progressTracker struct {
	mu sync.Mutex
	p  Progress
}

func newProgressTracker() *progressTracker {
	return &progressTracker{p: Progress{Status: StatusIdle}}
}

func (t *progressTracker) setTotal(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.Total = total
	t.p.Completed = 0
	t.p.Status = StatusIndexing
}

func (t *progressTracker) incr() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.Completed++
}

func (t *progressTracker) setStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.Status = status
}

func (t *progressTracker) snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.p
}
