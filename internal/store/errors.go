package store

import "errors"

// ErrNoRows reports that a best-effort read (Get) found nothing. Callers
// of Get never see this error — Get maps sql.ErrNoRows to (false, nil) —
// but All/Exec distinguish "no rows" from "the query itself failed"
// (StoreFailure, per spec.md §7) by never returning ErrNoRows at all.
var ErrNoRows = errors.New("store: no rows")

// ErrTransactionActive names the "transaction already open" state. Begin
// does not return it: a Begin while a transaction is open is a no-op, and
// the coordinator detects nesting through InTransaction instead.
var ErrTransactionActive = errors.New("store: transaction already active")

// ErrNoTransaction is returned (wrapped in *Error) by Commit when no
// transaction is open. Rollback with none open is a no-op.
var ErrNoTransaction = errors.New("store: no transaction active")
