package ddl

import (
	"testing"

	gddl "csvimport/internal/ddl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	got, err := BuildCreateTableSQL(gddl.TableDef{
		FQN: "dbo.CSVImport",
		Columns: []gddl.ColumnDef{
			{Name: "when", Type: "datetime", Nullable: true},
			{Name: "ok", Type: "boolean", Nullable: true},
			{Name: "amount", Type: "decimal", Nullable: true},
			{Name: "qty", Type: "integer", Nullable: true},
			{Name: "ref", Type: "uuid", Nullable: true},
			{Name: "note", Type: "text", Nullable: true},
		},
	})
	require.NoError(t, err)

	want := "IF OBJECT_ID(N'[dbo].[CSVImport]', N'U') IS NULL\nBEGIN\n  CREATE TABLE [dbo].[CSVImport] (\n" +
		"    [when] DATETIME2,\n" +
		"    [ok] BIT,\n" +
		"    [amount] DECIMAL(18,6),\n" +
		"    [qty] INT,\n" +
		"    [ref] UNIQUEIDENTIFIER,\n" +
		"    [note] NVARCHAR(MAX)\n" +
		"  );\nEND;"
	assert.Equal(t, want, got)
}

func TestBuildCreateDatabaseSQL(t *testing.T) {
	t.Parallel()

	got, err := BuildCreateDatabaseSQL("Imports")
	require.NoError(t, err)
	assert.Equal(t, "IF DB_ID(N'Imports') IS NULL CREATE DATABASE [Imports];", got)

	_, err = BuildCreateDatabaseSQL(" ")
	assert.Error(t, err)
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "[weird]]id]", QuoteIdent("weird]id"))
}
