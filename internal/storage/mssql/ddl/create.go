package ddl

import (
	"fmt"
	"strings"

	gddl "csvimport/internal/ddl"
)

// Dialect is the T-SQL rendering dialect.
var Dialect = gddl.Dialect{Name: "mssql ddl", QuoteIdent: QuoteIdent, MapType: MapType}

// BuildCreateTableSQL returns a T-SQL script that creates the table if it
// does not already exist:
//
//	IF OBJECT_ID(N'[dbo].[table]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [dbo].[table] (
//	    [col1] TYPE,
//	    ...
//	  );
//	END;
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	cols, err := gddl.RenderColumns(t, Dialect)
	if err != nil {
		return "", err
	}
	fqn := gddl.QuoteFQN(t.FQN, QuoteIdent)
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
		strings.ReplaceAll(fqn, "'", "''"),
		fqn,
		strings.Join(cols, ",\n    "),
	), nil
}

// BuildCreateDatabaseSQL returns a script creating database name when absent.
func BuildCreateDatabaseSQL(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("mssql ddl: database name must not be empty")
	}
	return fmt.Sprintf("IF DB_ID(N'%s') IS NULL CREATE DATABASE %s;",
		strings.ReplaceAll(name, "'", "''"), QuoteIdent(name)), nil
}

// QuoteIdent quotes a single identifier segment using bracket syntax,
// escaping any closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
