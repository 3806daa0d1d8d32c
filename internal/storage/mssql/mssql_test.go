package mssql

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InvalidDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "sqlserver://host:notaport?database=x", "")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "mssql dsn:"))
}

func TestDialect_InsertUsesBulkCopy(t *testing.T) {
	t.Parallel()

	stmt := Dialect.InsertSQL("[dbo].[CSVImport]", []string{"id", "name"})
	assert.True(t, strings.HasPrefix(stmt, "INSERTBULK"), "got %q", stmt)
	assert.True(t, Dialect.BulkFinalize)
}

func TestEncode(t *testing.T) {
	t.Parallel()

	u := uuid.MustParse("6f1c1d2e-3b4a-4c5d-8e9f-0a1b2c3d4e5f")
	assert.Equal(t, "1.500000", encode(decimal.RequireFromString("1.5")))
	assert.Equal(t, u.String(), encode(u))
	assert.Equal(t, int32(3), encode(int32(3)))
	assert.Nil(t, encode(nil))
}
