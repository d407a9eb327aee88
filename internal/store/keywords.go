package store

import "database/sql"

// InsertKeyword creates a keyword posting. The (keyword, symbol_id)
// primary key keeps one row per pair (spec.md §3 invariant: no duplicate
// posting); a repeated pair is an upsert (ON CONFLICT ... DO UPDATE) that
// keeps the single row and overwrites its relevance, so the call is
// idempotent under re-ingestion without needing a pre-check.
func (s *Store) InsertKeyword(k *KeywordPosting) error {
	return s.Exec(
		`INSERT INTO keywords (keyword, symbol_id, relevance) VALUES (?, ?, ?)
		 ON CONFLICT(keyword, symbol_id) DO UPDATE SET relevance = excluded.relevance`,
		k.Keyword, k.SymbolID, k.Relevance,
	)
}

// KeywordsBySymbol returns every posting for a given symbol.
func (s *Store) KeywordsBySymbol(symbolID int64) ([]KeywordPosting, error) {
	var postings []KeywordPosting
	err := s.All(func(r *sql.Rows) error {
		var k KeywordPosting
		if err := r.Scan(&k.Keyword, &k.SymbolID, &k.Relevance); err != nil {
			return err
		}
		postings = append(postings, k)
		return nil
	}, "SELECT keyword, symbol_id, relevance FROM keywords WHERE symbol_id = ?", symbolID)
	return postings, err
}

// SymbolsForKeyword returns (symbol_id, relevance) pairs for an exact
// keyword match — the primary join the query engine performs.
func (s *Store) SymbolsForKeyword(keyword string) ([]KeywordPosting, error) {
	var postings []KeywordPosting
	err := s.All(func(r *sql.Rows) error {
		var k KeywordPosting
		if err := r.Scan(&k.Keyword, &k.SymbolID, &k.Relevance); err != nil {
			return err
		}
		postings = append(postings, k)
		return nil
	}, "SELECT keyword, symbol_id, relevance FROM keywords WHERE keyword = ?", keyword)
	return postings, err
}

// CountKeywords returns the number of keyword postings in the store.
func (s *Store) CountKeywords() (int64, error) {
	var n int64
	_, err := s.Get(func(r *sql.Row) error { return r.Scan(&n) }, "SELECT COUNT(*) FROM keywords")
	return n, err
}
