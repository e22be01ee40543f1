package schema_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"db-compare/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleSchema() *schema.Schema {
	s := schema.NewSchema("shop")
	s.AddTable(schema.Table{Name: "users", Columns: []schema.Column{
		{Name: "id", Type: "int", Size: 11, PrimaryKey: true, AutoIncrement: true},
		{Name: "name", Type: "varchar", Size: 255, Nullable: true, DefaultValue: strPtr("anon")},
		{Name: "note", Type: "text", Nullable: true, DefaultValue: strPtr("")},
	}})
	s.AddTable(schema.Table{Name: "Orders", Columns: []schema.Column{
		{Name: "id", Type: "bigint", Size: 20, PrimaryKey: true},
	}})
	s.AddTable(schema.Table{Name: "empty"})
	return s
}

func TestColumn_Equal(t *testing.T) {
	base := schema.Column{Name: "c", Type: "int", Size: 11, DefaultValue: strPtr("0")}

	same := base.Clone()
	assert.True(t, base.Equal(same))

	noDefault := base
	noDefault.DefaultValue = nil
	assert.False(t, base.Equal(noDefault))
	assert.True(t, noDefault.Equal(noDefault))

	empty := base
	empty.DefaultValue = strPtr("")
	assert.False(t, noDefault.Equal(empty), "NULL default differs from empty string")
}

func TestTable_SameColumns(t *testing.T) {
	a := schema.Table{Name: "t", Columns: []schema.Column{{Name: "x"}, {Name: "y"}}}
	b := schema.Table{Name: "t", Columns: []schema.Column{{Name: "y"}, {Name: "x"}}}
	assert.True(t, a.SameColumns(b))

	dup := schema.Table{Name: "t", Columns: []schema.Column{{Name: "x"}, {Name: "x"}}}
	assert.False(t, a.SameColumns(dup))

	assert.True(t, schema.Table{}.SameColumns(schema.Table{Columns: []schema.Column{}}))
}

func TestSchema_Clone(t *testing.T) {
	s := sampleSchema()
	c := s.Clone()
	require.Equal(t, s, c)

	*c.Tables["users"].Columns[1].DefaultValue = "changed"
	c.Tables["users"].Columns[0].Size = 1

	assert.Equal(t, "anon", *s.Tables["users"].Columns[1].DefaultValue)
	assert.Equal(t, 11, s.Tables["users"].Columns[0].Size)

	var nilSchema *schema.Schema
	assert.Nil(t, nilSchema.Clone())
	assert.Nil(t, nilSchema.TableNames())
}

func TestFilter(t *testing.T) {
	s := sampleSchema()

	tests := []struct {
		name             string
		include, exclude []string
		want             []string
	}{
		{"no filters", nil, nil, []string{"Orders", "empty", "users"}},
		{"include case-insensitive", []string{"orders", " USERS "}, nil, []string{"Orders", "users"}},
		{"exclude", nil, []string{"empty"}, []string{"Orders", "users"}},
		{"include and exclude", []string{"users", "orders"}, []string{"Users"}, []string{"Orders"}},
		{"unknown include", []string{"missing"}, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schema.Filter(s, tt.include, tt.exclude)
			assert.Equal(t, tt.want, got.TableNames())
			assert.Equal(t, "shop", got.Name)
		})
	}

	assert.Len(t, s.Tables, 3, "Filter must not modify its input")
	assert.Nil(t, schema.Filter(nil, []string{"x"}, nil))
}

func TestSnapshot_RoundTrip(t *testing.T) {
	s := sampleSchema()
	taken := time.Date(2024, 5, 1, 10, 30, 15, 123456789, time.FixedZone("KST", 9*3600))
	path := filepath.Join(t.TempDir(), "shop.toml")

	require.NoError(t, schema.WriteSnapshot(path, s, schema.SnapshotMeta{Driver: "mysql", TakenAt: taken}))

	got, meta, err := schema.ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
	assert.Equal(t, "mysql", meta.Driver)
	assert.True(t, meta.TakenAt.Equal(taken.Truncate(time.Second)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Less(t, strings.Index(text, `name = "Orders"`), strings.Index(text, `name = "users"`), "tables are written sorted")
	assert.Contains(t, text, `default_value = ""`, "empty defaults survive")
}

func TestDecodeSnapshot_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown key": `
name = "x"
colour = "blue"
`,
		"nameless table": `
name = "x"
[[tables]]
`,
		"duplicate table": `
name = "x"
[[tables]]
name = "t"
[[tables]]
name = "t"
`,
		"duplicate column": `
name = "x"
[[tables]]
name = "t"
[[tables.columns]]
name = "c"
[[tables.columns]]
name = "c"
`,
		"not toml": `name = `,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := schema.DecodeSnapshot([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestEncodeSnapshot_NilSchema(t *testing.T) {
	_, err := schema.EncodeSnapshot(nil, schema.SnapshotMeta{})
	assert.Error(t, err)
}
