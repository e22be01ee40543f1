package diff

import (
	"fmt"
	"sort"
)

// Code classifies a table or column. The integer values are part of the wire
// format and must not be renumbered.
type Code int

const (
	Same      Code = 1
	Changed   Code = 2
	OnlyLeft  Code = 3
	OnlyRight Code = 4
)

func (c Code) String() string {
	switch c {
	case Same:
		return "SAME"
	case Changed:
		return "CHANGED"
	case OnlyLeft:
		return "ONLY_LEFT"
	case OnlyRight:
		return "ONLY_RIGHT"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Swap exchanges the sides of a code; Same and Changed are side-neutral.
func (c Code) Swap() Code {
	switch c {
	case OnlyLeft:
		return OnlyRight
	case OnlyRight:
		return OnlyLeft
	default:
		return c
	}
}

type TableDiff struct {
	Name string `json:"name"`
	Code Code   `json:"diff"`
}

type ColumnDiff struct {
	Table string `json:"table"`
	Name  string `json:"name"`
	Code  Code   `json:"diff"`
}

// Result is the outcome of Compare. Records come in no particular order; use
// Sorted for presentation.
type Result struct {
	Tables  []TableDiff  `json:"tableDiffs"`
	Columns []ColumnDiff `json:"columnDiffs"`
}

// Summary counts records per code.
type Summary struct {
	Tables  map[Code]int
	Columns map[Code]int
}

// Table returns the diff record for the named table.
func (r *Result) Table(name string) (TableDiff, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableDiff{}, false
}

// ColumnsOf returns the column records belonging to table.
func (r *Result) ColumnsOf(table string) []ColumnDiff {
	var out []ColumnDiff
	for _, c := range r.Columns {
		if c.Table == table {
			out = append(out, c)
		}
	}
	return out
}

func (r *Result) Summary() Summary {
	s := Summary{Tables: make(map[Code]int), Columns: make(map[Code]int)}
	for _, t := range r.Tables {
		s.Tables[t.Code]++
	}
	for _, c := range r.Columns {
		s.Columns[c.Code]++
	}
	return s
}

// HasDifferences reports whether any table is not Same.
func (r *Result) HasDifferences() bool {
	for _, t := range r.Tables {
		if t.Code != Same {
			return true
		}
	}
	return false
}

// Sorted returns a copy ordered by table name, then column name.
func (r *Result) Sorted() *Result {
	out := &Result{
		Tables:  append([]TableDiff{}, r.Tables...),
		Columns: append([]ColumnDiff{}, r.Columns...),
	}
	sort.Slice(out.Tables, func(i, j int) bool {
		return out.Tables[i].Name < out.Tables[j].Name
	})
	sort.Slice(out.Columns, func(i, j int) bool {
		a, b := out.Columns[i], out.Columns[j]
		if a.Table != b.Table {
			return a.Table < b.Table
		}
		return a.Name < b.Name
	})
	return out
}
