// Package ddl renders MySQL DDL from the generic ddl.TableDef model.
package ddl

import (
	"fmt"
	"strings"

	gddl "csvimport/internal/ddl"
)

// Dialect is the MySQL rendering dialect.
var Dialect = gddl.Dialect{Name: "mysql ddl", QuoteIdent: QuoteIdent, MapType: MapType}

// MapType maps a logical column type to a MySQL column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer":
		return "INT"
	case "bool", "boolean":
		return "BOOLEAN"
	case "timestamp", "datetime":
		return "DATETIME(6)"
	case "decimal", "numeric":
		return "DECIMAL(18,6)"
	case "uuid":
		return "CHAR(36)"
	default:
		return "TEXT"
	}
}

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement with
// backtick-quoted identifiers.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	cols, err := gddl.RenderColumns(t, Dialect)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)",
		gddl.QuoteFQN(t.FQN, QuoteIdent),
		strings.Join(cols, ",\n  "),
	), nil
}

// QuoteIdent backtick-quotes an identifier, doubling embedded backticks.
func QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}
