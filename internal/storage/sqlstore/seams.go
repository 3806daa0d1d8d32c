package sqlstore

import (
	"context"
	"database/sql"
)

//
// =======================
//  Testability-first seams
// =======================
//
// Store talks to database/sql through these narrow interfaces so unit tests
// can inject light fakes. Production code wraps *sql.DB, *sql.Tx and
// *sql.Stmt in the real* adapters below.
//

// stmtCore is the minimal subset of *sql.Stmt we use.
type stmtCore interface {
	ExecContext(ctx context.Context, args ...any) (sql.Result, error)
	Close() error
}

// txCore is the subset of a transaction that BulkInsert uses.
type txCore interface {
	PrepareContext(ctx context.Context, query string) (stmtCore, error)
	Commit() error
	Rollback() error
}

// rowScanner is satisfied by *sql.Row.
type rowScanner interface {
	Scan(dest ...any) error
}

// dbCore is the subset of *sql.DB that Store uses.
type dbCore interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (txCore, error)
	QueryRowContext(ctx context.Context, query string, args ...any) rowScanner
	Close() error
}

//
// ============================
//  Real wrappers for production
// ============================
//

type realStmt struct{ s *sql.Stmt }

func (r realStmt) ExecContext(ctx context.Context, args ...any) (sql.Result, error) {
	return r.s.ExecContext(ctx, args...)
}
func (r realStmt) Close() error { return r.s.Close() }

type realTx struct{ tx *sql.Tx }

func (r realTx) PrepareContext(ctx context.Context, q string) (stmtCore, error) {
	st, err := r.tx.PrepareContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return realStmt{st}, nil
}
func (r realTx) Commit() error   { return r.tx.Commit() }
func (r realTx) Rollback() error { return r.tx.Rollback() }

type realDB struct{ db *sql.DB }

func (r realDB) ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return r.db.ExecContext(ctx, q, args...)
}
func (r realDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (txCore, error) {
	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return realTx{tx}, nil
}
func (r realDB) QueryRowContext(ctx context.Context, q string, args ...any) rowScanner {
	return r.db.QueryRowContext(ctx, q, args...)
}
func (r realDB) Close() error { return r.db.Close() }
