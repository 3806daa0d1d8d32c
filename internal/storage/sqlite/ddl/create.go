package ddl

import (
	"fmt"
	"strings"

	gddl "csvimport/internal/ddl"
)

// Dialect is the SQLite rendering dialect.
var Dialect = gddl.Dialect{Name: "sqlite ddl", QuoteIdent: QuoteIdent, MapType: MapType}

// BuildCreateTableSQL returns:
//
//	CREATE TABLE IF NOT EXISTS "table" (
//	  "col1" TYPE,
//	  ...
//	);
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

// QuoteIdent double-quotes an identifier, doubling embedded quotes.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
