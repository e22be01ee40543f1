package dialect

// SQLiteDialect reads metadata through the pragma table-valued functions so
// the whole database is described by one statement per concern.
type SQLiteDialect struct{}

func (d *SQLiteDialect) GetTablesQuery(schema string) string {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND ? IS NOT NULL ORDER BY name`
}

func (d *SQLiteDialect) GetColumnsQuery(schema string) string {
	// A lone INTEGER PRIMARY KEY is a rowid alias and therefore auto increments.
	return `
SELECT
    m.name,
    p.name,
    p.type,
    p.type,
    NULL,
    CASE WHEN p."notnull" = 0 THEN 'YES' ELSE 'NO' END,
    p.dflt_value,
    CASE
        WHEN p.pk = 1 AND upper(p.type) = 'INTEGER'
            AND (SELECT COUNT(*) FROM pragma_table_info(m.name) k WHERE k.pk > 0) = 1
        THEN 'auto_increment'
        ELSE ''
    END
FROM sqlite_master m
JOIN pragma_table_info(m.name) p
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND ? IS NOT NULL
ORDER BY m.name, p.cid`
}

func (d *SQLiteDialect) GetPrimaryKeysQuery(schema string) string {
	return `
SELECT m.name, p.name
FROM sqlite_master m
JOIN pragma_table_info(m.name) p
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND p.pk > 0 AND ? IS NOT NULL`
}

func (d *SQLiteDialect) CurrentSchemaQuery() string {
	return ""
}

func (d *SQLiteDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(BaseType(sqlType))
	switch t {
	case "integer":
		return "int"
	case "real":
		return "double"
	case "character", "nchar":
		return "char"
	case "nvarchar", "varying character":
		return "varchar"
	default:
		return t
	}
}

func (d *SQLiteDialect) GetSchemaName(input string) string {
	if input == "" {
		return "main"
	}
	return input
}
