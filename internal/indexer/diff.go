package indexer

import "github.com/coolcline/codeindex/internal/store"

// Diff is the result of comparing a scan against the store (spec.md
// §4.5's diff algorithm, steps 1-4).
type Diff struct {
	ToDelete []string    // store paths no longer present on disk
	ToUpdate []FileEntry // new or changed files needing ingestion
}

// Compute builds the diff: to_delete is every store path absent from
// the scan; to_update is every scanned file with no store row, or whose
// last_modified is newer than the store's content_hash (reused as a
// freshness timestamp, not a cryptographic digest — see
// store.File.ContentHash).
func Compute(scanned []FileEntry, storedFiles []store.File) Diff {
	byPath := make(map[string]store.File, len(storedFiles))
	for _, f := range storedFiles {
		byPath[f.Path] = f
	}

	seen := make(map[string]bool, len(scanned))
	var toUpdate []FileEntry
	for _, e := range scanned {
		seen[e.Path] = true
		existing, ok := byPath[e.Path]
		if !ok || e.LastModified > existing.ContentHash {
			toUpdate = append(toUpdate, e)
		}
	}

	var toDelete []string
	for _, f := range storedFiles {
		if !seen[f.Path] {
			toDelete = append(toDelete, f.Path)
		}
	}

	return Diff{ToDelete: toDelete, ToUpdate: toUpdate}
}
