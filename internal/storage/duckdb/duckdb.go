// Package duckdb registers the "duckdb" storage kind. Table creation and
// counts go through database/sql; batches are written with the DuckDB
// appender on a raw driver connection. An empty DSN opens an in-memory
// database.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"csvimport/internal/convert"
	"csvimport/internal/schema"
	"csvimport/internal/storage"
	duckddl "csvimport/internal/storage/duckdb/ddl"
	"csvimport/internal/storage/sqlstore"

	"github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind is the storage kind this package registers.
const Kind = "duckdb"

// Dialect is the DuckDB flavour of sqlstore, used for DDL and counts.
var Dialect = sqlstore.Dialect{
	Name:           "duckdb",
	CreateTableSQL: duckddl.BuildCreateTableSQL,
	QuoteIdent:     duckddl.QuoteIdent,
	InsertSQL:      sqlstore.PlaceholderInsert(duckddl.QuoteIdent, sqlstore.QuestionMark),
}

// Backend overrides sqlstore's row-at-a-time insert with the appender.
type Backend struct {
	*sqlstore.Store
}

// Open opens (or creates) the database file at dsn.
func Open(ctx context.Context, dsn string) (*Backend, error) {
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("duckdb: open: %w", err)
	}
	if err := sqlstore.Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("duckdb: ping: %w", err)
	}
	return &Backend{Store: sqlstore.New(db, Dialect)}, nil
}

// BulkInsert appends rows through a dedicated connection. The appender is
// flushed before returning so errors surface per batch.
func (b *Backend) BulkInsert(ctx context.Context, table string, columns []string, rows []convert.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	schemaName, tableName := splitTable(table)

	conn, err := b.DB().Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("duckdb: acquire conn: %w", err)
	}
	defer conn.Close()

	var inserted int64
	err = conn.Raw(func(raw any) error {
		driverConn, ok := raw.(driver.Conn)
		if !ok {
			return fmt.Errorf("unexpected raw conn type %T", raw)
		}
		appender, err := duckdb.NewAppenderFromConn(driverConn, schemaName, tableName)
		if err != nil {
			return fmt.Errorf("create appender: %w", err)
		}
		defer func() { _ = appender.Close() }()

		args := make([]driver.Value, len(columns))
		for i, row := range rows {
			if len(row) != len(columns) {
				return fmt.Errorf("row %d has %d values, want %d", i, len(row), len(columns))
			}
			for j, v := range row {
				args[j] = encode(v)
			}
			if err := appender.AppendRow(args...); err != nil {
				return fmt.Errorf("append row %d: %w", i, err)
			}
		}
		if err := appender.Flush(); err != nil {
			return fmt.Errorf("flush appender: %w", err)
		}
		inserted = int64(len(rows))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("duckdb: bulk insert into %s: %w", table, err)
	}
	return inserted, nil
}

func splitTable(table string) (string, string) {
	if i := strings.LastIndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "", table
}

// encode maps decimals to duckdb.Decimal at the column scale and UUIDs to
// duckdb.UUID.
func encode(v any) driver.Value {
	switch x := v.(type) {
	case decimal.Decimal:
		return duckdb.Decimal{
			Width: schema.DecimalPrecision,
			Scale: schema.DecimalScale,
			Value: x.Round(schema.DecimalScale).Shift(schema.DecimalScale).BigInt(),
		}
	case uuid.UUID:
		return duckdb.UUID(x)
	default:
		return v
	}
}

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return Open(ctx, cfg.DSN)
	})
}
