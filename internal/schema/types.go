// Package schema infers the column layout of an import from the file's
// header line. Each header token may carry a one-letter type hint in
// parentheses, e.g. "price(N)" or "born(D)".
package schema

// Type is the semantic type of a column. The set is closed; every consumer
// switches over all of its values.
type Type uint8

const (
	Text Type = iota
	Integer
	Decimal
	Boolean
	DateTime
	UniqueID
)

// Type hint codes recognised in header tokens. Matching is case-sensitive;
// "(C)" and every unknown code mean Text.
const (
	CodeText     byte = 'C'
	CodeDateTime byte = 'D'
	CodeBoolean  byte = 'L'
	CodeDecimal  byte = 'N'
	CodeInteger  byte = 'I'
	CodeUniqueID byte = 'U'
)

// Decimal columns are DECIMAL(DecimalPrecision, DecimalScale).
const (
	DecimalPrecision = 18
	DecimalScale     = 6
)

// TypeFromCode maps a header hint code to its Type.
func TypeFromCode(code byte) Type {
	switch code {
	case CodeDateTime:
		return DateTime
	case CodeBoolean:
		return Boolean
	case CodeDecimal:
		return Decimal
	case CodeInteger:
		return Integer
	case CodeUniqueID:
		return UniqueID
	default:
		return Text
	}
}

// String returns the logical type name used in table definitions. Storage
// backends map these names to SQL types.
func (t Type) String() string {
	switch t {
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	case Boolean:
		return "boolean"
	case DateTime:
		return "datetime"
	case UniqueID:
		return "uuid"
	default:
		return "text"
	}
}
