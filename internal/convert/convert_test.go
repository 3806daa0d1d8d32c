package convert

import (
	"testing"
	"time"

	"csvimport/internal/schema"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHeader(t *testing.T, line string) schema.Header {
	t.Helper()
	h, err := schema.ParseHeader(line, ',')
	require.NoError(t, err)
	return h
}

func TestConvert_TypedRow(t *testing.T) {
	t.Parallel()

	h := mustHeader(t, "id(I),name,active(L),when(D),price(N),ref(U)")
	c := New(h, ',')

	row, res, ok := c.Convert("42,Ana Maria,Sim,2024-03-01 10:30:00,19.9900001,6f1c1d2e-3b4a-4c5d-8e9f-0a1b2c3d4e5f\r\n")
	require.True(t, ok)
	require.Len(t, row, 6)

	assert.Equal(t, int32(42), row[0])
	assert.Equal(t, "Ana Maria", row[1])
	assert.Equal(t, true, row[2])
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), row[3])
	assert.True(t, decimal.RequireFromString("19.99").Equal(row[4].(decimal.Decimal)))
	assert.Equal(t, uuid.MustParse("6f1c1d2e-3b4a-4c5d-8e9f-0a1b2c3d4e5f"), row[5])
	assert.Equal(t, 0, res.Nulled)
	assert.Equal(t, 6, res.Fields)
}

func TestConvert_FieldCountMismatch(t *testing.T) {
	t.Parallel()

	c := New(mustHeader(t, "a,b,c"), ',')

	for _, line := range []string{"1,2", "1,2,3,4", "", "only"} {
		row, res, ok := c.Convert(line)
		assert.False(t, ok, "line %q", line)
		assert.Nil(t, row)
		assert.NotEqual(t, 3, res.Fields)
	}
}

func TestConvert_UnparseableFieldsBecomeAbsent(t *testing.T) {
	t.Parallel()

	c := New(mustHeader(t, "id(I),active(L),when(D),price(N),ref(U),note"), ',')

	row, res, ok := c.Convert("x,maybe,yesterday,1.2.3,not-a-guid,")
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		assert.Nil(t, row[i], "column %d", i)
	}
	assert.Equal(t, "", row[5])
	assert.Equal(t, 5, res.Nulled)
}

func TestConvert_EmptyTypedFieldsAreAbsentButNotCounted(t *testing.T) {
	t.Parallel()

	c := New(mustHeader(t, "id(I),active(L)"), ',')
	row, res, ok := c.Convert(",")
	require.True(t, ok)
	assert.Equal(t, Row{nil, nil}, row)
	assert.Equal(t, 0, res.Nulled)
}

func TestConvert_OtherSeparator(t *testing.T) {
	t.Parallel()

	h, err := schema.ParseHeader("a(I);b", ';')
	require.NoError(t, err)
	c := New(h, ';')

	row, _, ok := c.Convert("7;x,y")
	require.True(t, ok)
	assert.Equal(t, Row{int32(7), "x,y"}, row)
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"SIM", "Yes", "OUI", "1", "True", " yes "} {
		v, ok := ParseBool(s)
		assert.True(t, ok, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"não", "NÃO", "NO", "Not", "Non", "0", "False", "não"} {
		v, ok := ParseBool(s)
		assert.True(t, ok, s)
		assert.False(t, v, s)
	}
	for _, s := range []string{"", "y", "2", "verdadeiro", "nao"} {
		_, ok := ParseBool(s)
		assert.False(t, ok, s)
	}
}

func TestParseInt(t *testing.T) {
	t.Parallel()

	v, ok := ParseInt(" -2147483648 ")
	require.True(t, ok)
	assert.Equal(t, int32(-2147483648), v)

	_, ok = ParseInt("2147483648")
	assert.False(t, ok)
	_, ok = ParseInt("1.0")
	assert.False(t, ok)
}

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	d, ok := ParseDecimal("-123.4567895")
	require.True(t, ok)
	assert.Equal(t, "-123.45679", d.String())

	d, ok = ParseDecimal("1e3")
	require.True(t, ok)
	assert.Equal(t, "1000", d.String())

	_, ok = ParseDecimal("999999999999.9999999")
	assert.False(t, ok, "rounds up past 12 integral digits")
	_, ok = ParseDecimal("1,5")
	assert.False(t, ok)

	d, ok = ParseDecimal("999999999999.999999")
	require.True(t, ok)
	assert.Equal(t, "999999999999.999999", d.String())
}

func TestParseDateTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-01T08:15", time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC)},
		{"2024-03-01 08:15:30.250", time.Date(2024, 3, 1, 8, 15, 30, 250_000_000, time.UTC)},
		{"2024/03/01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"3/1/2024", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"3/1/2024 1:02:03 PM", time.Date(2024, 3, 1, 13, 2, 3, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := ParseDateTime(tt.in)
		require.True(t, ok, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %v", tt.in, got)
	}

	got, ok := ParseDateTime("2024-03-01T08:15:00+02:00")
	require.True(t, ok)
	assert.True(t, time.Date(2024, 3, 1, 6, 15, 0, 0, time.UTC).Equal(got))

	for _, bad := range []string{"", "31/12/2024", "tomorrow", "2024-13-01"} {
		_, ok := ParseDateTime(bad)
		assert.False(t, ok, bad)
	}
}

func TestParseUUID(t *testing.T) {
	t.Parallel()

	want := uuid.MustParse("6f1c1d2e-3b4a-4c5d-8e9f-0a1b2c3d4e5f")
	for _, s := range []string{
		"6f1c1d2e-3b4a-4c5d-8e9f-0a1b2c3d4e5f",
		"6F1C1D2E3B4A4C5D8E9F0A1B2C3D4E5F",
		"{6f1c1d2e-3b4a-4c5d-8e9f-0a1b2c3d4e5f}",
		"urn:uuid:6f1c1d2e-3b4a-4c5d-8e9f-0a1b2c3d4e5f",
	} {
		got, ok := ParseUUID(s)
		require.True(t, ok, s)
		assert.Equal(t, want, got)
	}
	_, ok := ParseUUID("6f1c1d2e")
	assert.False(t, ok)
}
