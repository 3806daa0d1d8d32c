package storage

import (
	"context"
	"errors"
	"testing"

	"csvimport/internal/convert"
	"csvimport/internal/ddl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDef = ddl.TableDef{
	FQN:     "CSVImport",
	Columns: []ddl.ColumnDef{{Name: "id", Type: "integer", Nullable: true}, {Name: "name", Type: "text", Nullable: true}},
}

func TestTable_EnsureIdempotent(t *testing.T) {
	t.Parallel()

	fb := &fakeBackend{}
	tbl := NewTable(fb, testDef, nil)

	assert.True(t, tbl.Ensure(context.Background()))
	assert.True(t, tbl.Ensure(context.Background()))
	assert.Len(t, fb.ensured, 2)
	assert.Equal(t, "CSVImport", tbl.Name())
}

func TestTable_EnsureFailure(t *testing.T) {
	t.Parallel()

	tbl := NewTable(&fakeBackend{ensureErr: errors.New("permission denied")}, testDef, nil)
	assert.False(t, tbl.Ensure(context.Background()))
}

func TestTable_Insert(t *testing.T) {
	t.Parallel()

	fb := &fakeBackend{}
	tbl := NewTable(fb, testDef, nil)

	n, ok := tbl.Insert(context.Background(), []convert.Row{{int32(1), "a"}, {nil, "b"}})
	require.True(t, ok)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, []string{"id", "name"}, fb.columns)

	n, ok = tbl.Insert(context.Background(), nil)
	assert.True(t, ok)
	assert.Zero(t, n)
	assert.Len(t, fb.inserted, 1, "empty batches never reach the backend")
}

func TestTable_InsertFailureCountsZero(t *testing.T) {
	t.Parallel()

	tbl := NewTable(&fakeBackend{insertErr: errors.New("deadlock")}, testDef, nil)
	n, ok := tbl.Insert(context.Background(), []convert.Row{{int32(1), "a"}})
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestTable_InsertRecoversPanic(t *testing.T) {
	t.Parallel()

	tbl := NewTable(&fakeBackend{panicMsg: "driver bug"}, testDef, nil)
	n, ok := tbl.Insert(context.Background(), []convert.Row{{int32(1), "a"}})
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestTable_Count(t *testing.T) {
	t.Parallel()

	tbl := NewTable(&fakeBackend{count: 9}, testDef, nil)
	n, err := tbl.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
}
