// Package diff computes structural differences between two schemas.
package diff

import "db-compare/internal/schema"

// Compare classifies every table and, for changed tables, every column of
// left against right. It performs no I/O and never fails; a nil schema is
// treated as empty.
func Compare(left, right *schema.Schema) *Result {
	leftTables := tablesOf(left)
	rightTables := tablesOf(right)

	result := &Result{
		Tables:  []TableDiff{},
		Columns: []ColumnDiff{},
	}

	// Check for tables in left, whether or not right has them
	for name, lt := range leftTables {
		rt, exists := rightTables[name]
		if !exists {
			result.Tables = append(result.Tables, TableDiff{Name: name, Code: OnlyLeft})
			continue
		}

		// Table exists in both, compare the column sets
		if lt.SameColumns(rt) {
			result.Tables = append(result.Tables, TableDiff{Name: name, Code: Same})
			continue
		}
		result.Tables = append(result.Tables, TableDiff{Name: name, Code: Changed})
		result.Columns = append(result.Columns, compareColumns(name, lt, rt)...)
	}

	// Check for tables in right but not in left
	for name := range rightTables {
		if _, exists := leftTables[name]; !exists {
			result.Tables = append(result.Tables, TableDiff{Name: name, Code: OnlyRight})
		}
	}

	return result
}

func compareColumns(tableName string, left, right schema.Table) []ColumnDiff {
	leftColumns := left.ColumnMap()
	rightColumns := right.ColumnMap()

	diffs := make([]ColumnDiff, 0, len(leftColumns))

	for colName, lc := range leftColumns {
		d := ColumnDiff{Table: tableName, Name: colName}
		rc, exists := rightColumns[colName]
		switch {
		case !exists:
			d.Code = OnlyLeft
		case lc.Equal(rc):
			d.Code = Same
		default:
			d.Code = Changed
		}
		diffs = append(diffs, d)
	}

	for colName := range rightColumns {
		if _, exists := leftColumns[colName]; !exists {
			diffs = append(diffs, ColumnDiff{Table: tableName, Name: colName, Code: OnlyRight})
		}
	}

	return diffs
}

func tablesOf(s *schema.Schema) map[string]schema.Table {
	if s == nil {
		return nil
	}
	return s.Tables
}
