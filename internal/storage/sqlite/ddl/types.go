// Package ddl renders SQLite DDL from the generic ddl.TableDef model.
package ddl

import "strings"

// MapType maps a logical column type to a SQLite declared type. SQLite uses
// type affinity, so the declared names mostly document intent.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "integer", "int":
		return "INTEGER"
	case "decimal", "numeric":
		return "DECIMAL(18,6)"
	case "boolean", "bool":
		return "BOOLEAN"
	case "datetime", "timestamp":
		return "DATETIME"
	default:
		return "TEXT"
	}
}
