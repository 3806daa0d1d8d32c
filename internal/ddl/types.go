package ddl

// ColumnDef describes a single column in a table definition. It stays
// database-agnostic: Type carries a logical type name ("integer", "decimal",
// "uuid", ...) that each backend maps to its own SQL type.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - Type: logical type name, resolved by a backend's MapType
//   - SQLType: explicit SQL type; when set it wins over Type
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g., 'anon', CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	Type       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name (FQN) and an ordered list of columns. The FQN
// may be dotted ("schema.table"); renderers quote each segment.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// ColumnNames returns the column names in table order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Dialect is what a backend contributes to rendering: identifier quoting and
// a logical-to-SQL type mapping.
type Dialect struct {
	// Name prefixes error messages, e.g. "sqlite ddl".
	Name string
	// QuoteIdent quotes a single identifier segment.
	QuoteIdent func(string) string
	// MapType maps ColumnDef.Type to a SQL type.
	MapType func(string) string
}
