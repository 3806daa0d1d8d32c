package schema

import "csvimport/internal/ddl"

// DefaultTable is the destination table name used when none is configured.
const DefaultTable = "CSVImport"

// Table describes the destination table for h: one nullable column per header
// column, in header order, typed by its logical name.
func (h Header) Table(name string) ddl.TableDef {
	if name == "" {
		name = DefaultTable
	}
	def := ddl.TableDef{FQN: name, Columns: make([]ddl.ColumnDef, len(h.Columns))}
	for i, c := range h.Columns {
		def.Columns[i] = ddl.ColumnDef{Name: c.Name, Type: c.Type.String(), Nullable: true}
	}
	return def
}
