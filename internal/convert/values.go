package convert

import (
	"strconv"
	"strings"
	"time"

	"csvimport/internal/schema"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	trueWords  = []string{"sim", "yes", "oui", "1", "true"}
	falseWords = []string{"não", "no", "not", "non", "0", "false"}

	boolWords = foldWords()

	// decimalLimit is the smallest magnitude that no longer fits
	// DECIMAL(18,6): 10^(18-6).
	decimalLimit = decimal.New(1, schema.DecimalPrecision-schema.DecimalScale)
)

// dateLayouts are tried in order. Values without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04",
	"1/2/2006",
}

func foldWords() map[string]bool {
	f := cases.Fold()
	m := make(map[string]bool, len(trueWords)+len(falseWords))
	for _, w := range trueWords {
		m[f.String(norm.NFC.String(w))] = true
	}
	for _, w := range falseWords {
		m[f.String(norm.NFC.String(w))] = false
	}
	return m
}

func (c *Converter) parseBool(s string) (bool, bool) {
	key := c.fold.String(norm.NFC.String(strings.TrimSpace(s)))
	v, ok := boolWords[key]
	return v, ok
}

// ParseBool reports the boolean meaning of s using the recognised word sets
// (sim/yes/oui/1/true and não/no/not/non/0/false), ignoring case.
func ParseBool(s string) (bool, bool) {
	key := cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
	v, ok := boolWords[key]
	return v, ok
}

// ParseInt parses a base-10 signed 32-bit integer, allowing surrounding
// whitespace.
func ParseInt(s string) (int32, bool) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(i), true
}

// ParseDecimal parses a locale-neutral decimal and rounds it to the column
// scale. Values whose integral part exceeds the column precision are
// rejected.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, false
	}
	d = d.Round(schema.DecimalScale)
	if d.Abs().GreaterThanOrEqual(decimalLimit) {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseDateTime tries each supported layout in order.
func ParseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseUUID accepts the hyphenated, bare-hex, braced and urn:uuid: forms.
func ParseUUID(s string) (uuid.UUID, bool) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, false
	}
	return u, true
}
