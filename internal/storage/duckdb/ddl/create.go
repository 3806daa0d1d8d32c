// Package ddl renders DuckDB DDL from the generic ddl.TableDef model.
package ddl

import (
	"fmt"
	"strings"

	gddl "csvimport/internal/ddl"
)

// Dialect is the DuckDB rendering dialect.
var Dialect = gddl.Dialect{Name: "duckdb ddl", QuoteIdent: QuoteIdent, MapType: MapType}

// MapType maps a logical column type to a DuckDB column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer":
		return "INTEGER"
	case "bool", "boolean":
		return "BOOLEAN"
	case "timestamp", "datetime":
		return "TIMESTAMP"
	case "decimal", "numeric":
		return "DECIMAL(18,6)"
	case "uuid":
		return "UUID"
	default:
		return "VARCHAR"
	}
}

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	cols, err := gddl.RenderColumns(t, Dialect)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		gddl.QuoteFQN(t.FQN, QuoteIdent),
		strings.Join(cols, ",\n  "),
	), nil
}

// QuoteIdent double-quotes an identifier.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
