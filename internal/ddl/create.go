// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render CREATE TABLE column lists from that model.
//
// Backend packages (internal/storage/<kind>/ddl) wrap RenderColumns with their
// own guard clause (IF NOT EXISTS, OBJECT_ID checks) and quoting rules.
package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a plain CREATE TABLE statement without
// quoting, guards, or dialect-specific clauses. It is the baseline used by
// the dry-run plan output.
//
// A column is rendered as:
//
//	<Name> <SQLType> [NOT NULL] [DEFAULT <Default>]
//
// where SQLType falls back to the upper-cased logical Type.
func BuildCreateTableSQL(t TableDef) (string, error) {
	d := Dialect{
		Name:       "ddl",
		QuoteIdent: func(s string) string { return s },
		MapType:    strings.ToUpper,
	}
	cols, err := RenderColumns(t, d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", strings.TrimSpace(t.FQN), strings.Join(cols, ",\n  ")), nil
}

// RenderColumns validates t and renders one definition per column plus an
// optional trailing PRIMARY KEY clause, using d for quoting and type mapping.
func RenderColumns(t TableDef, d Dialect) ([]string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return nil, fmt.Errorf("%s: table FQN must not be empty", d.Name)
	}
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("%s: at least one column is required", d.Name)
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("%s: column with empty name in table %s", d.Name, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" && strings.TrimSpace(c.Type) != "" {
			typ = d.MapType(c.Type)
		}
		if typ == "" {
			return nil, fmt.Errorf("%s: column %s missing type", d.Name, name)
		}

		var sb strings.Builder
		sb.WriteString(d.QuoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)

		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, d.QuoteIdent(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}
	return cols, nil
}

// QuoteFQN quotes every dot-separated segment of fqn with quote.
//
//	"dbo.Users" -> [dbo].[Users]   (bracket quoting)
//	"events"    -> "events"        (double-quote quoting)
func QuoteFQN(fqn string, quote func(string) string) string {
	parts := strings.Split(strings.TrimSpace(fqn), ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}
