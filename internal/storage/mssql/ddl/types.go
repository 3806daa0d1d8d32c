// Package ddl renders SQL Server DDL from the generic ddl.TableDef model.
package ddl

import "strings"

// MapType maps a logical column type into a SQL Server column type.
//
// Unknown or empty kinds fall back to NVARCHAR(MAX).
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer":
		return "INT"
	case "bool", "boolean":
		return "BIT"
	case "timestamp", "datetime":
		return "DATETIME2"
	case "decimal", "numeric":
		return "DECIMAL(18,6)"
	case "uuid":
		return "UNIQUEIDENTIFIER"
	default:
		return "NVARCHAR(MAX)"
	}
}
