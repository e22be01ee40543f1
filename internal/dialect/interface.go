package dialect

// Dialect abstracts database-specific metadata queries.
//
// Every query takes the resolved schema name as its single bind argument so
// the analyzer can run them the same way for every vendor.
type Dialect interface {
	// Metadata Queries (Schema Introspection)
	GetTablesQuery(schema string) string
	// GetColumnsQuery must yield, in order: table, column, data type, full
	// column type, length, nullable (YES/NO), default, extra.
	GetColumnsQuery(schema string) string
	// GetPrimaryKeysQuery yields (table, column) for every primary key column
	// in the schema.
	GetPrimaryKeysQuery(schema string) string

	// CurrentSchemaQuery returns a query for the connection's default schema,
	// or "" when GetSchemaName("") already knows it.
	CurrentSchemaQuery() string

	// Helpers
	NormalizeType(sqlType string) string
	GetSchemaName(input string) string
}
