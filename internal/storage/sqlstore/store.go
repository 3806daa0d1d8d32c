// Package sqlstore is the shared database/sql implementation of
// storage.Backend. Dialect packages (sqlite, mysql, mssql, duckdb) supply DDL
// rendering, identifier quoting and the insert statement; Store runs them.
//
// Bulk inserts run inside one transaction per batch with a prepared statement
// executed once per row. Dialects whose statement buffers rows until a final
// argument-less Exec (SQL Server bulk copy) set Dialect.BulkFinalize.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"csvimport/internal/convert"
	"csvimport/internal/ddl"
	"csvimport/internal/schema"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dialect describes one SQL flavour.
type Dialect struct {
	// Name prefixes errors, e.g. "sqlite".
	Name string
	// CreateTableSQL renders an idempotent create statement.
	CreateTableSQL func(ddl.TableDef) (string, error)
	// QuoteIdent quotes one identifier segment.
	QuoteIdent func(string) string
	// InsertSQL renders the per-batch statement for an already quoted table
	// and raw column names.
	InsertSQL func(quotedTable string, columns []string) string
	// Encode adapts a typed value for the driver. Nil means EncodeValue.
	Encode func(any) any
	// BulkFinalize marks statements that need a final Exec without
	// arguments to flush buffered rows; its RowsAffected is the count.
	BulkFinalize bool
}

// Store is a storage.Backend over database/sql.
type Store struct {
	db  dbCore
	raw *sql.DB
	d   Dialect
}

// Open opens driver/dsn, pings it with a short timeout and returns a Store.
func Open(ctx context.Context, driver, dsn string, d Dialect) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%s: DSN must not be empty", d.Name)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", d.Name, err)
	}
	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", d.Name, err)
	}
	return New(db, d), nil
}

// Ping checks connectivity, failing fast on bad DSNs.
func Ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(pingCtx)
}

// New wraps an open *sql.DB.
func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: realDB{db}, raw: db, d: d}
}

// DB exposes the underlying pool for dialects that need driver-level access.
func (s *Store) DB() *sql.DB { return s.raw }

// QuoteTable quotes a possibly dotted table name.
func (s *Store) QuoteTable(name string) string {
	return ddl.QuoteFQN(name, s.d.QuoteIdent)
}

// EnsureTable executes the dialect's idempotent create statement.
func (s *Store) EnsureTable(ctx context.Context, def ddl.TableDef) error {
	stmt, err := s.d.CreateTableSQL(def)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("%s: create table %s: %w", s.d.Name, def.FQN, err)
	}
	return nil
}

// BulkInsert writes rows in a single transaction.
func (s *Store) BulkInsert(ctx context.Context, table string, columns []string, rows []convert.Row) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("%s: bulk insert: columns must not be empty", s.d.Name)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin tx: %w", s.d.Name, err)
	}
	rollback := func() { _ = tx.Rollback() }

	stmt, err := tx.PrepareContext(ctx, s.d.InsertSQL(s.QuoteTable(table), columns))
	if err != nil {
		rollback()
		return 0, fmt.Errorf("%s: prepare insert: %w", s.d.Name, err)
	}

	encode := s.d.Encode
	if encode == nil {
		encode = EncodeValue
	}

	var inserted int64
	args := make([]any, len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			_ = stmt.Close()
			rollback()
			return 0, fmt.Errorf("%s: row %d has %d values, want %d", s.d.Name, i, len(row), len(columns))
		}
		for j, v := range row {
			args[j] = encode(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = stmt.Close()
			rollback()
			return 0, fmt.Errorf("%s: insert row %d: %w", s.d.Name, i, err)
		}
		inserted++
	}

	if s.d.BulkFinalize {
		res, err := stmt.ExecContext(ctx)
		if err == nil {
			inserted, err = res.RowsAffected()
		}
		if err != nil {
			_ = stmt.Close()
			rollback()
			return 0, fmt.Errorf("%s: bulk finalize: %w", s.d.Name, err)
		}
	}

	if err := stmt.Close(); err != nil {
		rollback()
		return 0, fmt.Errorf("%s: close statement: %w", s.d.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", s.d.Name, err)
	}
	return inserted, nil
}

// CountRows runs SELECT COUNT(*) on table.
func (s *Store) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + s.QuoteTable(table)
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: count rows: %w", s.d.Name, err)
	}
	return n, nil
}

// Close closes the pool.
func (s *Store) Close() error { return s.db.Close() }

// EncodeValue maps the typed values produced by convert to plain driver
// values: decimals become fixed-scale strings, UUIDs their canonical text.
func EncodeValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.StringFixed(schema.DecimalScale)
	case uuid.UUID:
		return x.String()
	default:
		return v
	}
}

// PlaceholderInsert renders "INSERT INTO t (c1, c2) VALUES (p(1), p(2))"
// with quoted columns.
func PlaceholderInsert(quote func(string) string, placeholder func(int) string) func(string, []string) string {
	return func(table string, columns []string) string {
		cols := make([]string, len(columns))
		ph := make([]string, len(columns))
		for i, c := range columns {
			cols[i] = quote(c)
			ph[i] = placeholder(i + 1)
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(ph, ", "))
	}
}

// QuestionMark is the "?" placeholder style.
func QuestionMark(int) string { return "?" }
