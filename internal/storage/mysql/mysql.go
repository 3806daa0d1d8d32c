// Package mysql registers the "mysql" storage kind using
// github.com/go-sql-driver/mysql. The DSN uses the driver's format, e.g.
// "user:pass@tcp(127.0.0.1:3306)/imports".
package mysql

import (
	"context"
	"fmt"

	"csvimport/internal/storage"
	myddl "csvimport/internal/storage/mysql/ddl"
	"csvimport/internal/storage/sqlstore"

	"github.com/go-sql-driver/mysql"
)

// Kind is the storage kind this package registers.
const Kind = "mysql"

// Dialect is the MySQL flavour of sqlstore.
var Dialect = sqlstore.Dialect{
	Name:           "mysql",
	CreateTableSQL: myddl.BuildCreateTableSQL,
	QuoteIdent:     myddl.QuoteIdent,
	InsertSQL:      sqlstore.PlaceholderInsert(myddl.QuoteIdent, sqlstore.QuestionMark),
}

// NormalizeDSN parses dsn and forces the options the importer relies on:
// DATETIME columns scan into time.Time.
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Open returns a Backend for dsn.
func Open(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	norm, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	return sqlstore.Open(ctx, "mysql", norm, Dialect)
}

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return Open(ctx, cfg.DSN)
	})
}
