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
		FQN: "imports.CSVImport",
		Columns: []gddl.ColumnDef{
			{Name: "ref", Type: "uuid", Nullable: true},
			{Name: "at", Type: "datetime", Nullable: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS `imports`.`CSVImport` (\n  `ref` CHAR(36),\n  `at` DATETIME(6)\n)", got)
}

func TestMapType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "INT", MapType("integer"))
	assert.Equal(t, "DECIMAL(18,6)", MapType("decimal"))
	assert.Equal(t, "BOOLEAN", MapType("boolean"))
	assert.Equal(t, "TEXT", MapType("text"))
}
