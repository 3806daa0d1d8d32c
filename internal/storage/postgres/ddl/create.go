// Package ddl renders Postgres DDL from the generic ddl.TableDef model.
package ddl

import (
	"fmt"
	"strings"

	gddl "csvimport/internal/ddl"
)

// Dialect is the Postgres rendering dialect.
var Dialect = gddl.Dialect{Name: "postgres ddl", QuoteIdent: QuoteIdent, MapType: MapType}

// MapType maps a logical column type to a Postgres column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer":
		return "INTEGER"
	case "bool", "boolean":
		return "BOOLEAN"
	case "timestamp", "datetime", "timestamptz":
		return "TIMESTAMPTZ"
	case "decimal", "numeric":
		return "NUMERIC(18,6)"
	case "uuid":
		return "UUID"
	default:
		return "TEXT"
	}
}

// BuildCreateTableSQL returns a Postgres CREATE TABLE IF NOT EXISTS statement.
// unlogged switches to CREATE UNLOGGED TABLE, trading crash safety for load
// speed.
func BuildCreateTableSQL(t gddl.TableDef, unlogged bool) (string, error) {
	cols, err := gddl.RenderColumns(t, Dialect)
	if err != nil {
		return "", err
	}
	kw := "CREATE TABLE"
	if unlogged {
		kw = "CREATE UNLOGGED TABLE"
	}
	return fmt.Sprintf("%s IF NOT EXISTS %s (\n  %s\n);",
		kw,
		gddl.QuoteFQN(t.FQN, QuoteIdent),
		strings.Join(cols, ",\n  "),
	), nil
}

// QuoteIdent double-quotes an identifier, doubling embedded quotes.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
