package store

import "database/sql"

// InsertSymbol creates a symbols row, returning its id. The caller is
// responsible for restricting Type to ValidTypes; the store does not
// reject unknown kinds itself so language adapters can be added without a
// schema migration, but extractors must only ever emit values from the
// closed vocabulary (spec.md §3).
func (s *Store) InsertSymbol(sym *Symbol) (int64, error) {
	res, err := s.Run(
		`INSERT INTO symbols (file_id, name, type, signature, line, column, parent_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sym.FileID, sym.Name, sym.Type, sym.Signature, sym.Line, sym.Column, sym.ParentID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastID, nil
}

// InsertSymbolContent creates the 1:1 context row for a symbol.
func (s *Store) InsertSymbolContent(c *SymbolContent) error {
	return s.Exec(
		`INSERT INTO symbol_contents (symbol_id, line) VALUES (?, ?)`,
		c.SymbolID, c.Line,
	)
}

func scanSymbol(r interface{ Scan(...any) error }) (Symbol, error) {
	var sym Symbol
	var signature sql.NullString
	var parentID sql.NullInt64
	err := r.Scan(&sym.ID, &sym.FileID, &sym.Name, &sym.Type, &signature, &sym.Line, &sym.Column, &parentID)
	if err != nil {
		return Symbol{}, err
	}
	sym.Signature = signature.String
	if parentID.Valid {
		sym.ParentID = &parentID.Int64
	}
	return sym, nil
}

const symbolCols = "id, file_id, name, type, signature, line, column, parent_id"

// SymbolByID looks up a symbol by id.
func (s *Store) SymbolByID(id int64) (*Symbol, error) {
	var sym Symbol
	found, err := s.Get(func(r *sql.Row) error {
		v, err := scanSymbol(r)
		sym = v
		return err
	}, "SELECT "+symbolCols+" FROM symbols WHERE id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &sym, nil
}

// SymbolsByFile returns every symbol defined in the given file.
func (s *Store) SymbolsByFile(fileID int64) ([]Symbol, error) {
	var syms []Symbol
	err := s.All(func(r *sql.Rows) error {
		v, err := scanSymbol(r)
		if err != nil {
			return err
		}
		syms = append(syms, v)
		return nil
	}, "SELECT "+symbolCols+" FROM symbols WHERE file_id = ?", fileID)
	return syms, err
}

// SymbolsByName returns all symbols with the given name, across every
// file. Used by the query engine for quoted exact-symbol lookups and by
// FindImplementations to locate the target type.
func (s *Store) SymbolsByName(name string) ([]Symbol, error) {
	var syms []Symbol
	err := s.All(func(r *sql.Rows) error {
		v, err := scanSymbol(r)
		if err != nil {
			return err
		}
		syms = append(syms, v)
		return nil
	}, "SELECT "+symbolCols+" FROM symbols WHERE name = ?", name)
	return syms, err
}

// SymbolContentByID returns the source-context line for a symbol.
func (s *Store) SymbolContentByID(symbolID int64) (string, error) {
	var line string
	found, err := s.Get(func(r *sql.Row) error {
		return r.Scan(&line)
	}, "SELECT line FROM symbol_contents WHERE symbol_id = ?", symbolID)
	if err != nil || !found {
		return "", err
	}
	return line, nil
}

// DeleteSymbolsByFile removes every symbol defined in a file. Cascades to
// symbol_contents, keywords, and symbol_relations via ON DELETE CASCADE.
// Per spec.md §3's lifecycle rules, this must run before reinsertion on
// update, and runs implicitly (FK cascade) on file delete.
func (s *Store) DeleteSymbolsByFile(fileID int64) error {
	return s.Exec("DELETE FROM symbols WHERE file_id = ?", fileID)
}

// CountSymbols returns the number of symbols in the store.
func (s *Store) CountSymbols() (int64, error) {
	var n int64
	_, err := s.Get(func(r *sql.Row) error { return r.Scan(&n) }, "SELECT COUNT(*) FROM symbols")
	return n, err
}
