// Package convert turns raw delimited lines into typed rows aligned with a
// schema.Header. Conversion never fails as a whole: a field that cannot be
// parsed as its column type becomes nil, and only a field-count mismatch
// rejects the line.
package convert

import (
	"strings"

	"csvimport/internal/schema"

	"golang.org/x/text/cases"
)

// Row holds one typed value per header column. A nil element is an absent
// value. Concrete element types by column type:
//
//	Text     string
//	Integer  int32
//	Decimal  decimal.Decimal (github.com/shopspring/decimal)
//	Boolean  bool
//	DateTime time.Time
//	UniqueID uuid.UUID (github.com/google/uuid)
type Row []any

// Converter converts lines for one header. It keeps a case folder that must
// not be shared, so each worker builds its own Converter.
type Converter struct {
	header schema.Header
	sep    byte
	fold   cases.Caser
}

// New returns a Converter for h splitting fields on sep.
func New(h schema.Header, sep byte) *Converter {
	return &Converter{header: h, sep: sep, fold: cases.Fold()}
}

// Result reports what happened to a single line.
type Result struct {
	// Fields is the number of fields found on the line.
	Fields int
	// Nulled counts non-empty fields that failed to parse as their type.
	Nulled int
}

// Convert splits line and converts each field. The second return value is
// false when the field count differs from the header length; no row is
// produced in that case. A trailing line terminator is ignored.
func (c *Converter) Convert(line string) (Row, Result, bool) {
	line = strings.TrimRight(line, "\r\n")
	want := c.header.Len()

	n := strings.Count(line, string(c.sep)) + 1
	if n != want {
		return nil, Result{Fields: n}, false
	}

	res := Result{Fields: n}
	row := make(Row, want)
	for i := 0; i < want; i++ {
		var field string
		if i == want-1 {
			field = line
		} else {
			j := strings.IndexByte(line, c.sep)
			field, line = line[:j], line[j+1:]
		}

		v := c.value(c.header.Columns[i].Type, field)
		if v == nil && c.header.Columns[i].Type != schema.Text && strings.TrimSpace(field) != "" {
			res.Nulled++
		}
		row[i] = v
	}
	return row, res, true
}

// value converts one field. It returns nil (untyped) for absent values so
// callers can compare against nil.
func (c *Converter) value(t schema.Type, field string) any {
	switch t {
	case schema.Text:
		return field
	case schema.Integer:
		if v, ok := ParseInt(field); ok {
			return v
		}
	case schema.Decimal:
		if v, ok := ParseDecimal(field); ok {
			return v
		}
	case schema.Boolean:
		if v, ok := c.parseBool(field); ok {
			return v
		}
	case schema.DateTime:
		if v, ok := ParseDateTime(field); ok {
			return v
		}
	case schema.UniqueID:
		if v, ok := ParseUUID(field); ok {
			return v
		}
	}
	return nil
}
