// Package postgres registers the "postgres" storage kind. Batches are
// streamed with COPY FROM through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"csvimport/internal/convert"
	"csvimport/internal/ddl"
	"csvimport/internal/storage"
	pgddl "csvimport/internal/storage/postgres/ddl"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Kind is the storage kind this package registers.
const Kind = "postgres"

// pgPool is the subset of *pgxpool.Pool the backend uses. Tests inject fakes.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Backend is a Postgres storage.Backend.
type Backend struct {
	pool     pgPool
	unlogged bool
}

// Options tune table creation.
type Options struct {
	// Unlogged creates the destination as an UNLOGGED table.
	Unlogged bool
}

// newPool is a test hook.
var newPool = func(ctx context.Context, dsn string) (pgPool, error) {
	return pgxpool.New(ctx, dsn)
}

// Open connects a pool to dsn and verifies it with a round trip.
func Open(ctx context.Context, dsn string, opts Options) (*Backend, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := newPool(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if _, err := pool.Exec(ctx, "SELECT 1"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Backend{pool: pool, unlogged: opts.Unlogged}, nil
}

// EnsureTable runs CREATE TABLE IF NOT EXISTS.
func (b *Backend) EnsureTable(ctx context.Context, def ddl.TableDef) error {
	stmt, err := pgddl.BuildCreateTableSQL(def, b.unlogged)
	if err != nil {
		return err
	}
	if _, err := b.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("postgres: create table %s: %w", def.FQN, err)
	}
	return nil
}

// BulkInsert streams rows with COPY FROM.
func (b *Backend) BulkInsert(ctx context.Context, table string, columns []string, rows []convert.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	src := &rowSource{rows: rows, width: len(columns), idx: -1}
	n, err := b.pool.CopyFrom(ctx, identifier(table), columns, src)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return 0, fmt.Errorf("postgres: copy into %s: %s (%s): %w", table, pgErr.Detail, pgErr.SQLState(), err)
		}
		return 0, fmt.Errorf("postgres: copy into %s: %w", table, err)
	}
	return n, nil
}

// CountRows returns SELECT COUNT(*) for table.
func (b *Backend) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + identifier(table).Sanitize()
	if err := b.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count rows: %w", err)
	}
	return n, nil
}

// Close releases the pool.
func (b *Backend) Close() error {
	b.pool.Close()
	return nil
}

// identifier splits a dotted table name into a pgx.Identifier.
func identifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(strings.TrimSpace(table), "."))
}

// rowSource implements pgx.CopyFromSource over a batch, encoding values that
// pgx cannot take as-is.
type rowSource struct {
	rows    []convert.Row
	width   int
	idx     int
	current []any
	err     error
}

func (s *rowSource) Next() bool {
	s.idx++
	if s.idx >= len(s.rows) {
		return false
	}
	row := s.rows[s.idx]
	if len(row) != s.width {
		s.err = fmt.Errorf("postgres: row %d has %d values, want %d", s.idx, len(row), s.width)
		return false
	}
	if s.current == nil {
		s.current = make([]any, s.width)
	}
	for i, v := range row {
		s.current[i] = encode(v)
	}
	return true
}

func (s *rowSource) Values() ([]any, error) { return s.current, nil }
func (s *rowSource) Err() error             { return s.err }

// encode maps decimals onto pgtype.Numeric and UUIDs onto pgtype.UUID; other
// values are native to pgx.
func encode(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return pgtype.Numeric{Int: x.Coefficient(), Exp: x.Exponent(), Valid: true}
	case uuid.UUID:
		return pgtype.UUID{Bytes: x, Valid: true}
	default:
		return v
	}
}

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return Open(ctx, cfg.DSN, Options{Unlogged: cfg.Unlogged})
	})
}
