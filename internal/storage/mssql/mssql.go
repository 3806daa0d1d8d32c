// Package mssql registers the "mssql" storage kind. Batches are written with
// the go-mssqldb bulk copy API (mssql.CopyIn), which buffers rows until a
// final Exec without arguments.
//
// When storage.Config.Database is set, the database is created on the
// server's master database first and the connection is pointed at it.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	"csvimport/internal/storage"
	msddl "csvimport/internal/storage/mssql/ddl"
	"csvimport/internal/storage/sqlstore"

	"github.com/google/uuid"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
	"github.com/shopspring/decimal"
)

// Kind is the storage kind this package registers.
const Kind = "mssql"

// Dialect is the SQL Server flavour of sqlstore.
var Dialect = sqlstore.Dialect{
	Name:           "mssql",
	CreateTableSQL: msddl.BuildCreateTableSQL,
	QuoteIdent:     msddl.QuoteIdent,
	InsertSQL: func(table string, columns []string) string {
		return mssql.CopyIn(table, mssql.BulkOptions{}, columns...)
	},
	Encode:       encode,
	BulkFinalize: true,
}

// openDB is a test hook; production opens a connector for cfg.
var openDB = func(cfg msdsn.Config) *sql.DB {
	return sql.OpenDB(mssql.NewConnectorConfig(cfg))
}

// Open validates dsn, optionally creates database, and returns a Backend.
func Open(ctx context.Context, dsn, database string) (*sqlstore.Store, error) {
	cfg, err := msdsn.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("mssql dsn: %w", err)
	}

	if database != "" {
		if err := createDatabase(ctx, cfg, database); err != nil {
			return nil, err
		}
		cfg.Database = database
	}

	db := openDB(cfg)
	if err := sqlstore.Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mssql: ping: %w", err)
	}
	return sqlstore.New(db, Dialect), nil
}

func createDatabase(ctx context.Context, cfg msdsn.Config, name string) error {
	stmt, err := msddl.BuildCreateDatabaseSQL(name)
	if err != nil {
		return err
	}
	cfg.Database = "master"
	db := openDB(cfg)
	defer db.Close()

	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("mssql: create database %s: %w", name, err)
	}
	return nil
}

// encode adapts typed values for bulk copy: decimals travel as fixed-scale
// strings and UUIDs as their canonical text, which the server converts.
func encode(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.StringFixed(6)
	case uuid.UUID:
		return x.String()
	default:
		return v
	}
}

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return Open(ctx, cfg.DSN, cfg.Database)
	})
}
