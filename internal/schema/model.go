package schema

import "sort"

// Schema is one database snapshot: table name -> Table.
type Schema struct {
	Name   string           `json:"name" toml:"name"`
	Tables map[string]Table `json:"tables" toml:"tables"`
}

type Table struct {
	Name    string   `json:"name" toml:"name"`
	Columns []Column `json:"columns" toml:"columns"`
}

type Column struct {
	Name          string  `json:"name" toml:"name"`
	Type          string  `json:"type" toml:"type"`
	Size          int     `json:"size" toml:"size"`
	Nullable      bool    `json:"nullable" toml:"nullable"`
	DefaultValue  *string `json:"default_value,omitempty" toml:"default_value"`
	PrimaryKey    bool    `json:"primary_key" toml:"primary_key"`
	AutoIncrement bool    `json:"auto_increment" toml:"auto_increment"`
}

func NewSchema(name string) *Schema {
	return &Schema{Name: name, Tables: make(map[string]Table)}
}

// AddTable stores t under its name, replacing any previous table of that name.
func (s *Schema) AddTable(t Table) {
	if s.Tables == nil {
		s.Tables = make(map[string]Table)
	}
	s.Tables[t.Name] = t
}

// TableNames returns the table names in ascending order.
func (s *Schema) TableNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether all seven attributes match.
func (c Column) Equal(o Column) bool {
	return c.Name == o.Name &&
		c.Type == o.Type &&
		c.Size == o.Size &&
		c.Nullable == o.Nullable &&
		sameDefault(c.DefaultValue, o.DefaultValue) &&
		c.PrimaryKey == o.PrimaryKey &&
		c.AutoIncrement == o.AutoIncrement
}

func sameDefault(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Column returns the column with the given name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnMap indexes the columns by name. Later duplicates win.
func (t Table) ColumnMap() map[string]Column {
	m := make(map[string]Column, len(t.Columns))
	for _, c := range t.Columns {
		m[c.Name] = c
	}
	return m
}

// SameColumns reports whether both tables hold the same set of column values,
// ignoring the order the columns were reported in.
func (t Table) SameColumns(o Table) bool {
	if len(t.Columns) != len(o.Columns) {
		return false
	}
	other := o.ColumnMap()
	if len(other) != len(t.Columns) {
		return false
	}
	for _, c := range t.Columns {
		oc, ok := other[c.Name]
		if !ok || !c.Equal(oc) {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no memory with c.
func (c Column) Clone() Column {
	if c.DefaultValue != nil {
		v := *c.DefaultValue
		c.DefaultValue = &v
	}
	return c
}

func (t Table) Clone() Table {
	out := Table{Name: t.Name}
	if t.Columns != nil {
		out.Columns = make([]Column, len(t.Columns))
		for i, c := range t.Columns {
			out.Columns[i] = c.Clone()
		}
	}
	return out
}

func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := NewSchema(s.Name)
	for name, t := range s.Tables {
		out.Tables[name] = t.Clone()
	}
	return out
}
