// Package all wires every built-in storage backend into the storage registry.
// Import it for side effects:
//
//	import _ "csvimport/internal/storage/all"
//
// after which storage.New accepts the kinds "duckdb", "memory", "mssql",
// "mysql", "postgres" and "sqlite".
package all

import (
	_ "csvimport/internal/storage/duckdb"
	_ "csvimport/internal/storage/memory"
	_ "csvimport/internal/storage/mssql"
	_ "csvimport/internal/storage/mysql"
	_ "csvimport/internal/storage/postgres"
	_ "csvimport/internal/storage/sqlite"
)
