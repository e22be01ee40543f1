package schema

import (
	"context"
	"database/sql"
	"db-compare/internal/dialect"
	"fmt"
	"strings"
)

// AnalyzeSteps is the number of metadata round trips Analyze makes; OnStep
// fires once after each of them.
const AnalyzeSteps = 3

type AnalyzeOptions struct {
	// NormalizeTypes maps vendor type spellings onto a shared vocabulary
	// (int4 -> int, nvarchar -> varchar). Off by default: types are kept as
	// the database reports them.
	NormalizeTypes bool
	OnStep         func()
}

// ---------------------------------------------------------------------
// Schema Analysis Logic
// ---------------------------------------------------------------------

func Analyze(ctx context.Context, db *sql.DB, d dialect.Dialect, schemaName string, opts AnalyzeOptions) (*Schema, error) {
	// [Interface-First]: Delegate schema resolution to the dialect
	target := d.GetSchemaName(schemaName)
	step := func() {
		if opts.OnStep != nil {
			opts.OnStep()
		}
	}

	// Keyed by the exact catalog name: quoted identifiers may differ only by case.
	tableMap := make(map[string]*Table)
	var order []string

	// --- Step 1: Fetch Tables ---
	rows, err := db.QueryContext(ctx, d.GetTablesQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		if _, dup := tableMap[name]; dup {
			continue
		}
		tableMap[name] = &Table{Name: name}
		order = append(order, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	rows.Close()
	step()

	// --- Step 2: Fetch Primary Keys (once for the whole schema) ---
	primaryKeys, err := loadPrimaryKeys(ctx, db, d, target)
	if err != nil {
		return nil, err
	}
	step()

	// --- Step 3: Fetch Columns ---
	colRows, err := db.QueryContext(ctx, d.GetColumnsQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer colRows.Close()

	for colRows.Next() {
		var tName, cName, dType, cType, cLen, isNull, dflt, extra sql.NullString
		if err := colRows.Scan(&tName, &cName, &dType, &cType, &cLen, &isNull, &dflt, &extra); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", tName.String, err)
		}

		if !tName.Valid || !cName.Valid {
			continue // Skip invalid rows
		}

		t, ok := tableMap[tName.String]
		if !ok {
			// Columns of views and other non-table relations.
			continue
		}

		typeName := dialect.BaseType(dType.String)
		if opts.NormalizeTypes {
			typeName = d.NormalizeType(typeName)
		}

		col := Column{
			Name:          cName.String,
			Type:          typeName,
			Size:          parseSize(cLen, cType.String),
			Nullable:      strings.EqualFold(isNull.String, "YES"),
			PrimaryKey:    primaryKeys[tName.String][cName.String],
			AutoIncrement: isAutoIncrement(extra.String),
		}
		if dflt.Valid {
			v := strings.TrimRight(dflt.String, " \t\r\n")
			col.DefaultValue = &v
		}
		t.Columns = append(t.Columns, col)
	}
	if err := colRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	step()

	s := NewSchema(target)
	for _, key := range order {
		s.AddTable(*tableMap[key])
	}
	return s, nil
}

// loadPrimaryKeys returns table name -> set of primary key column names.
func loadPrimaryKeys(ctx context.Context, db *sql.DB, d dialect.Dialect, target string) (map[string]map[string]bool, error) {
	rows, err := db.QueryContext(ctx, d.GetPrimaryKeysQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query primary keys: %w", err)
	}
	defer rows.Close()

	pks := make(map[string]map[string]bool)
	for rows.Next() {
		var tName, cName sql.NullString
		if err := rows.Scan(&tName, &cName); err != nil {
			return nil, fmt.Errorf("failed to scan primary key: %w", err)
		}
		if !tName.Valid || !cName.Valid {
			continue
		}
		if pks[tName.String] == nil {
			pks[tName.String] = make(map[string]bool)
		}
		pks[tName.String][cName.String] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating primary keys: %w", err)
	}
	return pks, nil
}

// parseSize prefers the catalog's reported length and falls back to the
// declared type's first parameter.
func parseSize(reported sql.NullString, columnType string) int {
	if reported.Valid && reported.String != "" {
		var length int
		if _, err := fmt.Sscanf(reported.String, "%d", &length); err == nil {
			return length
		}
		var fLength float64
		if _, err := fmt.Sscanf(reported.String, "%f", &fLength); err == nil {
			return int(fLength)
		}
	}
	return dialect.ParseLength(columnType)
}

func isAutoIncrement(extra string) bool {
	e := strings.ToLower(extra)
	return strings.Contains(e, "auto_increment") ||
		strings.Contains(e, "identity") ||
		strings.Contains(e, "nextval")
}
