package store

import "database/sql"

// InsertRelation creates a symbol_relations edge. Idempotent: the triple
// primary key means re-running extraction on an unmodified file is safe.
func (s *Store) InsertRelation(rel *SymbolRelation) error {
	return s.Exec(
		`INSERT OR IGNORE INTO symbol_relations (source_id, target_id, relation_type) VALUES (?, ?, ?)`,
		rel.SourceID, rel.TargetID, rel.RelationType,
	)
}

// RelationsFromSymbol returns every relation where the symbol is the source.
func (s *Store) RelationsFromSymbol(symbolID int64) ([]SymbolRelation, error) {
	var rels []SymbolRelation
	err := s.All(func(r *sql.Rows) error {
		var rel SymbolRelation
		if err := r.Scan(&rel.SourceID, &rel.TargetID, &rel.RelationType); err != nil {
			return err
		}
		rels = append(rels, rel)
		return nil
	}, "SELECT source_id, target_id, relation_type FROM symbol_relations WHERE source_id = ?", symbolID)
	return rels, err
}

// RelationsToSymbol returns every relation where the symbol is the target,
// optionally filtered by relation_type ("" means any type). Used by
// find_implementations ("implements" edges targeting an interface symbol).
func (s *Store) RelationsToSymbol(symbolID int64, relationType string) ([]SymbolRelation, error) {
	var rels []SymbolRelation
	query := "SELECT source_id, target_id, relation_type FROM symbol_relations WHERE target_id = ?"
	args := []any{symbolID}
	if relationType != "" {
		query += " AND relation_type = ?"
		args = append(args, relationType)
	}
	err := s.All(func(r *sql.Rows) error {
		var rel SymbolRelation
		if err := r.Scan(&rel.SourceID, &rel.TargetID, &rel.RelationType); err != nil {
			return err
		}
		rels = append(rels, rel)
		return nil
	}, query, args...)
	return rels, err
}

// CountRelations returns the number of symbol_relations rows.
func (s *Store) CountRelations() (int64, error) {
	var n int64
	_, err := s.Get(func(r *sql.Row) error { return r.Scan(&n) }, "SELECT COUNT(*) FROM symbol_relations")
	return n, err
}
