package store

// schemaVersion is written to the sibling version marker file on first
// successful migration. Its presence means "schema >= v1" (spec.md §4.1).
const schemaVersion = "v1"

// schemaDDL creates the five extraction/keyword/relation tables plus
// workspace_meta, and every index spec.md §4.1 names. CREATE TABLE/INDEX
// IF NOT EXISTS makes migration idempotent.
const schemaDDL = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS files (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  path            TEXT NOT NULL UNIQUE,
  language        TEXT NOT NULL,
  last_modified   INTEGER NOT NULL,
  indexed_at      INTEGER NOT NULL,
  content_hash    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS symbols (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  file_id         INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  name            TEXT NOT NULL,
  type            TEXT NOT NULL,
  signature       TEXT,
  line            INTEGER NOT NULL,
  column          INTEGER NOT NULL,
  parent_id       INTEGER REFERENCES symbols(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS symbol_contents (
  symbol_id       INTEGER PRIMARY KEY REFERENCES symbols(id) ON DELETE CASCADE,
  line            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS keywords (
  keyword         TEXT NOT NULL,
  symbol_id       INTEGER NOT NULL REFERENCES symbols(id) ON DELETE CASCADE,
  relevance       REAL NOT NULL,
  PRIMARY KEY (keyword, symbol_id)
);

CREATE TABLE IF NOT EXISTS symbol_relations (
  source_id       INTEGER NOT NULL REFERENCES symbols(id) ON DELETE CASCADE,
  target_id       INTEGER NOT NULL REFERENCES symbols(id) ON DELETE CASCADE,
  relation_type   TEXT NOT NULL,
  PRIMARY KEY (source_id, target_id, relation_type)
);

CREATE TABLE IF NOT EXISTS workspace_meta (
  key             TEXT PRIMARY KEY,
  value           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_files_path ON files(path);
CREATE INDEX IF NOT EXISTS idx_files_content_hash ON files(content_hash);
CREATE INDEX IF NOT EXISTS idx_symbols_lookup ON symbols(file_id, name, type, parent_id);
CREATE INDEX IF NOT EXISTS idx_keywords_keyword ON keywords(keyword);
CREATE INDEX IF NOT EXISTS idx_keywords_symbol ON keywords(symbol_id);
CREATE INDEX IF NOT EXISTS idx_symbol_relations_source ON symbol_relations(source_id);
CREATE INDEX IF NOT EXISTS idx_symbol_relations_target ON symbol_relations(target_id);
CREATE INDEX IF NOT EXISTS idx_symbol_relations_type ON symbol_relations(relation_type);
`

// Migrate applies schemaDDL. Idempotent: safe to call on an already
// migrated database.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return &Error{Op: "migrate", Err: err}
	}
	return nil
}
