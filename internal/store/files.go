package store

import "database/sql"

// InsertFile creates a files row, returning its id.
func (s *Store) InsertFile(f *File) (int64, error) {
	res, err := s.Run(
		`INSERT INTO files (path, language, last_modified, indexed_at, content_hash)
		 VALUES (?, ?, ?, ?, ?)`,
		f.Path, f.Language, f.LastModified, f.IndexedAt, f.ContentHash,
	)
	if err != nil {
		return 0, err
	}
	return res.LastID, nil
}

// UpsertFile updates an existing files row in place by path, or inserts a
// new one if absent. ContentHash is written as given; IngestFile passes
// the file's mtime, the same value as LastModified (see File.ContentHash).
func (s *Store) UpsertFile(f *File) (int64, error) {
	existing, err := s.FileByPath(f.Path)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return s.InsertFile(f)
	}
	err = s.Exec(
		`UPDATE files SET language = ?, last_modified = ?, indexed_at = ?, content_hash = ?
		 WHERE id = ?`,
		f.Language, f.LastModified, f.IndexedAt, f.ContentHash, existing.ID,
	)
	if err != nil {
		return 0, err
	}
	return existing.ID, nil
}

// FileByPath looks up a file by its POSIX path. Returns (nil, nil) if
// absent, per the best-effort read contract.
func (s *Store) FileByPath(path string) (*File, error) {
	var f File
	found, err := s.Get(func(r *sql.Row) error {
		return r.Scan(&f.ID, &f.Path, &f.Language, &f.LastModified, &f.IndexedAt, &f.ContentHash)
	}, "SELECT id, path, language, last_modified, indexed_at, content_hash FROM files WHERE path = ?", path)
	if err != nil || !found {
		return nil, err
	}
	return &f, nil
}

// FileByID looks up a file by id.
func (s *Store) FileByID(id int64) (*File, error) {
	var f File
	found, err := s.Get(func(r *sql.Row) error {
		return r.Scan(&f.ID, &f.Path, &f.Language, &f.LastModified, &f.IndexedAt, &f.ContentHash)
	}, "SELECT id, path, language, last_modified, indexed_at, content_hash FROM files WHERE id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &f, nil
}

// AllFiles returns (path, content_hash) for every indexed file — the
// shape the incremental indexer's diff algorithm needs (spec.md §4.5,
// step 2).
func (s *Store) AllFiles() ([]File, error) {
	var files []File
	err := s.All(func(r *sql.Rows) error {
		var f File
		if err := r.Scan(&f.ID, &f.Path, &f.Language, &f.LastModified, &f.IndexedAt, &f.ContentHash); err != nil {
			return err
		}
		files = append(files, f)
		return nil
	}, "SELECT id, path, language, last_modified, indexed_at, content_hash FROM files")
	return files, err
}

// FilesByLanguage returns all files with the given language.
func (s *Store) FilesByLanguage(language string) ([]File, error) {
	var files []File
	err := s.All(func(r *sql.Rows) error {
		var f File
		if err := r.Scan(&f.ID, &f.Path, &f.Language, &f.LastModified, &f.IndexedAt, &f.ContentHash); err != nil {
			return err
		}
		files = append(files, f)
		return nil
	}, "SELECT id, path, language, last_modified, indexed_at, content_hash FROM files WHERE language = ?", language)
	return files, err
}

// DeleteFile removes a files row. ON DELETE CASCADE (symbols) and the
// chained cascades (symbol_contents, keywords, symbol_relations) handle
// the rest, per spec.md §3's lifecycle rules.
func (s *Store) DeleteFile(id int64) error {
	return s.Exec("DELETE FROM files WHERE id = ?", id)
}

// DeleteFileByPath removes a files row by path.
func (s *Store) DeleteFileByPath(path string) error {
	return s.Exec("DELETE FROM files WHERE path = ?", path)
}

// CountFiles returns the number of indexed files.
func (s *Store) CountFiles() (int64, error) {
	var n int64
	_, err := s.Get(func(r *sql.Row) error { return r.Scan(&n) }, "SELECT COUNT(*) FROM files")
	return n, err
}
