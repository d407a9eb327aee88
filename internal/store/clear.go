package store

import (
	"database/sql"
	"time"
)

// MetaLastReset is the workspace_meta key holding the last Clear() timestamp.
const MetaLastReset = "last_reset"

// Clear empties every table and records the reset time in workspace_meta,
// all inside one transaction (spec.md §4.5, "clear"). Deleting files
// cascades to every dependent table.
func (s *Store) Clear() error {
	if err := s.Begin(); err != nil {
		return err
	}
	defer s.Rollback()

	for _, table := range []string{"symbol_relations", "keywords", "symbol_contents", "symbols", "files"} {
		if err := s.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	if err := s.SetMetadata(MetaLastReset, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return s.Commit()
}

// Stats is the shape get_index_stats returns (spec.md §6).
type Stats struct {
	FilesCount    int64
	SymbolsCount  int64
	KeywordsCount int64
	LastIndexed   int64
}

// GetStats aggregates row counts and the most recent indexed_at.
func (s *Store) GetStats() (Stats, error) {
	var stats Stats
	var err error
	if stats.FilesCount, err = s.CountFiles(); err != nil {
		return stats, err
	}
	if stats.SymbolsCount, err = s.CountSymbols(); err != nil {
		return stats, err
	}
	if stats.KeywordsCount, err = s.CountKeywords(); err != nil {
		return stats, err
	}
	_, _ = s.Get(func(r *sql.Row) error {
		return r.Scan(&stats.LastIndexed)
	}, "SELECT COALESCE(MAX(indexed_at), 0) FROM files")
	return stats, nil
}
