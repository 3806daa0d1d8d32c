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
		FQN:     "CSVImport",
		Columns: []gddl.ColumnDef{{Name: "ref", Type: "uuid", Nullable: true}, {Name: "note", Type: "text", Nullable: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS \"CSVImport\" (\n  \"ref\" UUID,\n  \"note\" VARCHAR\n);", got)
}
