package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"csvimport/internal/convert"
	"csvimport/internal/schema"
	"csvimport/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) storage.Backend {
	t.Helper()
	b, err := storage.New(context.Background(), storage.Config{
		Kind: Kind,
		DSN:  filepath.Join(t.TempDir(), "import.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestSQLite_EnsureInsertCount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h, err := schema.ParseHeader("id(I),name,active(L),when(D),price(N),ref(U)", ',')
	require.NoError(t, err)
	def := h.Table("")

	b := openTemp(t)
	require.NoError(t, b.EnsureTable(ctx, def))
	require.NoError(t, b.EnsureTable(ctx, def), "second ensure is a no-op")

	rows := []convert.Row{
		{int32(1), "a", true, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), decimal.RequireFromString("1.25"), uuid.New()},
		{nil, "b", nil, nil, nil, nil},
	}
	n, err := b.BulkInsert(ctx, def.FQN, def.ColumnNames(), rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := b.CountRows(ctx, def.FQN)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSQLite_InsertIntoMissingTableFails(t *testing.T) {
	t.Parallel()

	b := openTemp(t)
	_, err := b.BulkInsert(context.Background(), "nope", []string{"a"}, []convert.Row{{"x"}})
	assert.Error(t, err)
}

func TestSQLite_Registered(t *testing.T) {
	t.Parallel()
	assert.Contains(t, storage.ListKinds(), Kind)
}
