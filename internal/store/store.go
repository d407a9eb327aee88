// Package store is the embedded, single-writer transactional persistence
// layer for one workspace's symbol data (spec.md §4.1).
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Error wraps a store-level failure with the operation that produced it.
// Op identifies the failing call (e.g. "exec", "migrate"); Err is the
// underlying cause. StoreFailure-kind errors (spec.md §7) are always of
// this type.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Result mirrors the {last_id, changes} shape spec.md §4.1 describes for
// run(sql, params).
type Result struct {
	LastID  int64
	Changes int64
}

// Store is the SQLite-backed data access layer for one workspace.
type Store struct {
	db   *sql.DB
	path string

	mu     sync.Mutex
	tx     *sql.Tx
	inTxn  bool
}

// Open creates the storage directory if needed, opens the database with
// the WAL + foreign-key PRAGMA profile, probes integrity, and applies the
// schema. If the database file exists but fails PRAGMA integrity_check,
// it is deleted and recreated empty (spec.md §4.1, IntegrityFailure).
// Likewise, a database file with no sibling version marker is treated as
// stale and recreated (SchemaStale).
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &Error{Op: "open", Err: err}
	}

	if needsRecreate(path) {
		_ = os.Remove(path)
		_ = os.Remove(markerPath(path))
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &Error{Op: "open", Err: err}
	}

	s := &Store{db: db, path: path}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	if err := writeMarker(path); err != nil {
		db.Close()
		return nil, &Error{Op: "open", Err: err}
	}
	return s, nil
}

// needsRecreate reports whether the file at path exists but is either
// missing its version marker or fails an integrity probe.
func needsRecreate(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false // no existing file: nothing to recreate
	}
	if _, err := os.Stat(markerPath(path)); err != nil {
		return true // SchemaStale: DB exists, marker doesn't
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return true
	}
	defer db.Close()
	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil || result != "ok" {
		return true // IntegrityFailure
	}
	return false
}

func markerPath(dbPath string) string {
	return dbPath[:len(dbPath)-len(filepath.Ext(dbPath))] + ".v1"
}

func writeMarker(dbPath string) error {
	return os.WriteFile(markerPath(dbPath), []byte(schemaVersion+"\n"), 0o644)
}

// CheckIntegrity runs PRAGMA integrity_check against the open database.
func (s *Store) CheckIntegrity() bool {
	var result string
	if err := s.db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return false
	}
	return result == "ok"
}

// DB returns the underlying *sql.DB for raw query access.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the database file path Store was opened with.
func (s *Store) Path() string { return s.path }

// querier is satisfied by both *sql.DB and *sql.Tx so Exec/Get/All route
// through whichever is currently active.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func (s *Store) active() querier {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inTxn && s.tx != nil {
		return s.tx
	}
	return s.db
}

// Exec runs a statement with no result rows expected. Failures surface as
// a StoreFailure-kind *Error (spec.md §7).
func (s *Store) Exec(query string, args ...any) error {
	_, err := s.active().Exec(query, args...)
	if err != nil {
		return &Error{Op: "exec", Err: err}
	}
	return nil
}

// Run executes a mutating statement and returns {last_id, changes}.
func (s *Store) Run(query string, args ...any) (Result, error) {
	res, err := s.active().Exec(query, args...)
	if err != nil {
		return Result{}, &Error{Op: "run", Err: err}
	}
	lastID, _ := res.LastInsertId()
	changes, _ := res.RowsAffected()
	return Result{LastID: lastID, Changes: changes}, nil
}

// Get runs a single-row query. Per spec.md §4.1, read failures (including
// "no rows") are best-effort: Get returns (false, nil) rather than
// surfacing an error, so callers never have to special-case ErrNoRows.
func (s *Store) Get(scan func(*sql.Row) error, query string, args ...any) (bool, error) {
	row := s.active().QueryRow(query, args...)
	err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, nil // best-effort: any other scan failure also yields "not found"
	}
	return true, nil
}

// All runs a multi-row query and invokes scan for each row. Unlike Get,
// failures here surface as StoreFailure.
func (s *Store) All(scan func(*sql.Rows) error, query string, args ...any) error {
	rows, err := s.active().Query(query, args...)
	if err != nil {
		return &Error{Op: "all", Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return &Error{Op: "all", Err: err}
		}
	}
	if err := rows.Err(); err != nil {
		return &Error{Op: "all", Err: err}
	}
	return nil
}

// Begin starts a transaction (the driver's default deferred mode). Per
// spec.md §4.1, Begin is
// a no-op (returns nil) if a transaction is already active rather than
// erroring — the coordinator layer is what actually needs to detect
// re-entrancy, and it does so via InTransaction.
func (s *Store) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inTxn {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return &Error{Op: "begin", Err: err}
	}
	s.tx = tx
	s.inTxn = true
	return nil
}

// InTransaction reports whether a transaction is currently open. This is
// the probe the Transaction Coordinator uses (spec.md §4.2, step 1).
func (s *Store) InTransaction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTxn
}

// Commit commits the active transaction.
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inTxn || s.tx == nil {
		return &Error{Op: "commit", Err: ErrNoTransaction}
	}
	err := s.tx.Commit()
	s.tx = nil
	s.inTxn = false
	if err != nil {
		return &Error{Op: "commit", Err: err}
	}
	return nil
}

// Rollback rolls back the active transaction. Per spec.md §4.1, Rollback
// only acts inside a transaction; calling it with none active is a no-op.
func (s *Store) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inTxn || s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	s.inTxn = false
	if err != nil {
		return &Error{Op: "rollback", Err: err}
	}
	return nil
}

// Close closes the database connection. If a transaction remains active,
// it is rolled back first; the rollback error (if any) is discarded and
// never prevents the close that follows (spec.md §4.1).
func (s *Store) Close() error {
	if s.InTransaction() {
		_ = s.Rollback()
	}
	err := s.db.Close()
	if err != nil {
		// Force-close path: Close is best-effort on the error branch too —
		// there is nothing more useful to do with a second failure here.
		_ = s.db.Close()
		return &Error{Op: "close", Err: err}
	}
	return nil
}

// GetMetadata reads a workspace_meta value. Returns "" if absent.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	found, err := s.Get(func(r *sql.Row) error {
		return r.Scan(&value)
	}, "SELECT value FROM workspace_meta WHERE key = ?", key)
	if err != nil || !found {
		return "", nil
	}
	return value, nil
}

// SetMetadata upserts a workspace_meta value.
func (s *Store) SetMetadata(key, value string) error {
	return s.Exec(
		`INSERT INTO workspace_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
}
