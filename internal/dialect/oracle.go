package dialect

import "strings"

type OracleDialect struct{}

func (d *OracleDialect) GetTablesQuery(schema string) string {
	// ALL_TABLES also lists other owners' tables the login can see.
	return `SELECT TABLE_NAME FROM ALL_TABLES WHERE OWNER = :1`
}

func (d *OracleDialect) GetColumnsQuery(schema string) string {
	// DATA_DEFAULT is a LONG; it may only be selected, never filtered or sorted on.
	return `
SELECT
    t.TABLE_NAME,
    t.COLUMN_NAME,
    t.DATA_TYPE,
    t.DATA_TYPE || CASE WHEN t.DATA_LENGTH IS NOT NULL THEN '(' || t.DATA_LENGTH || ')' ELSE '' END,
    COALESCE(t.DATA_PRECISION, NULLIF(t.CHAR_LENGTH, 0), t.DATA_LENGTH),
    CASE WHEN t.NULLABLE = 'Y' THEN 'YES' ELSE 'NO' END,
    t.DATA_DEFAULT,
    CASE WHEN t.IDENTITY_COLUMN = 'YES' THEN 'identity' ELSE '' END
FROM ALL_TAB_COLUMNS t
JOIN ALL_TABLES a ON a.OWNER = t.OWNER AND a.TABLE_NAME = t.TABLE_NAME
WHERE t.OWNER = :1
ORDER BY t.TABLE_NAME, t.COLUMN_ID`
}

func (d *OracleDialect) GetPrimaryKeysQuery(schema string) string {
	return `
SELECT cc.TABLE_NAME, cc.COLUMN_NAME
FROM ALL_CONS_COLUMNS cc
JOIN ALL_CONSTRAINTS ac
    ON ac.OWNER = cc.OWNER
    AND ac.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
    AND ac.TABLE_NAME = cc.TABLE_NAME
WHERE ac.CONSTRAINT_TYPE = 'P' AND ac.OWNER = :1`
}

func (d *OracleDialect) CurrentSchemaQuery() string {
	return `SELECT USER FROM DUAL`
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := strings.ToLower(sqlType)
	switch {
	case strings.Contains(s, "char"), strings.Contains(s, "clob"):
		return "varchar"
	case s == "number", strings.Contains(s, "int"):
		return "int"
	case strings.Contains(s, "float"), s == "binary_double":
		return "double"
	case strings.HasPrefix(s, "timestamp"), s == "date":
		return "datetime"
	case s == "blob", s == "raw", s == "long raw":
		return "blob"
	default:
		return s
	}
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return strings.ToUpper(input)
}
