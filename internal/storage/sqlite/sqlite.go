// Package sqlite registers the "sqlite" storage kind, backed by the pure-Go
// modernc.org/sqlite driver. The DSN is a file path or a file: URI, e.g.
// "import.db" or "file:import.db?_pragma=journal_mode(WAL)".
package sqlite

import (
	"context"

	"csvimport/internal/storage"
	sqliteddl "csvimport/internal/storage/sqlite/ddl"
	"csvimport/internal/storage/sqlstore"

	_ "modernc.org/sqlite"
)

// Kind is the storage kind this package registers.
const Kind = "sqlite"

// Dialect is the SQLite flavour of sqlstore.
var Dialect = sqlstore.Dialect{
	Name:           "sqlite",
	CreateTableSQL: sqliteddl.BuildCreateTableSQL,
	QuoteIdent:     sqliteddl.QuoteIdent,
	InsertSQL:      sqlstore.PlaceholderInsert(sqliteddl.QuoteIdent, sqlstore.QuestionMark),
}

// Open returns a Backend for dsn.
func Open(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	return sqlstore.Open(ctx, "sqlite", dsn, Dialect)
}

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return Open(ctx, cfg.DSN)
	})
}
