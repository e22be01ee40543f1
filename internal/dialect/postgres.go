package dialect

import "strings"

type PostgresDialect struct{}

func (d *PostgresDialect) GetTablesQuery(schema string) string {
	// use $1 placeholder
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = $1 AND TABLE_TYPE = 'BASE TABLE'`
}

func (d *PostgresDialect) GetColumnsQuery(schema string) string {
	// udt_name carries the short spelling (int4, varchar) next to data_type.
	// Serial and identity columns both count as auto increment.
	return `SELECT
    c.table_name,
    c.column_name,
    c.data_type,
    c.udt_name,
    COALESCE(c.character_maximum_length, c.numeric_precision, c.datetime_precision),
    c.is_nullable,
    c.column_default,
    CASE
        WHEN c.is_identity = 'YES' THEN 'identity'
        WHEN c.column_default LIKE 'nextval(%' THEN 'nextval'
        ELSE ''
    END AS extra
FROM information_schema.columns c
JOIN information_schema.tables t
    ON t.table_schema = c.table_schema
    AND t.table_name = c.table_name
    AND t.table_type = 'BASE TABLE'
WHERE c.table_schema = $1
ORDER BY c.table_name, c.ordinal_position`
}

func (d *PostgresDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT kcu.table_name, kcu.column_name FROM information_schema.key_column_usage kcu JOIN information_schema.table_constraints tc ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema AND kcu.table_name = tc.table_name WHERE kcu.table_schema = $1 AND tc.constraint_type = 'PRIMARY KEY'`
}

func (d *PostgresDialect) CurrentSchemaQuery() string {
	return `SELECT current_schema()`
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "int4", "int2", "integer":
		return "int"
	case "int8":
		return "bigint"
	case "float4", "real":
		return "float"
	case "float8", "double precision":
		return "double"
	case "bpchar", "character":
		return "char"
	case "varchar", "character varying":
		return "varchar"
	default:
		return t
	}
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}
