// Package schematest generates plausible random schemas for tests.
package schematest

import (
	"fmt"
	"strings"

	"db-compare/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
)

// columnKinds are name stems; Column derives a fitting type from the stem.
var columnKinds = []string{
	"id", "user_id", "email", "name", "phone", "address", "zipcode",
	"created_at", "birth_date", "is_active", "price", "rating", "description", "year",
}

// Generator is deterministic for a given seed.
type Generator struct {
	f *gofakeit.Faker
}

func New(seed int64) *Generator {
	return &Generator{f: gofakeit.New(seed)}
}

// Intn returns a number in [0, n).
func (g *Generator) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return g.f.Number(0, n-1)
}

// Column builds a column whose type follows its name: *_id is an int,
// created_at a datetime, email a varchar, and so on. Nullability, defaults and
// key flags are random.
func (g *Generator) Column(name string) schema.Column {
	c := schema.Column{
		Name:          name,
		Nullable:      g.f.Bool(),
		PrimaryKey:    g.f.Bool(),
		AutoIncrement: g.f.Bool(),
	}

	n := strings.ToLower(name)
	switch {
	case strings.HasSuffix(n, "id") || strings.Contains(n, "_id"):
		c.Type, c.Size = "int", 11
	case strings.Contains(n, "email"), strings.Contains(n, "name"), strings.Contains(n, "address"):
		c.Type, c.Size = "varchar", g.f.RandomInt([]int{50, 100, 255})
	case strings.Contains(n, "phone"):
		c.Type, c.Size = "varchar", 20
	case strings.Contains(n, "zip"):
		c.Type, c.Size = "char", 5
	case strings.HasSuffix(n, "_at") || strings.Contains(n, "_at_"):
		c.Type = "datetime"
	case strings.Contains(n, "date"):
		c.Type = "date"
	case strings.HasPrefix(n, "is_"):
		c.Type, c.Size = "tinyint", 1
	case strings.Contains(n, "price"), strings.Contains(n, "rating"):
		c.Type, c.Size = "decimal", g.f.Number(4, 12)
	case strings.Contains(n, "year"):
		c.Type, c.Size = "smallint", 4
	default:
		c.Type = g.f.RandomString([]string{"text", "varchar", "bigint"})
		if c.Type == "varchar" {
			c.Size = g.f.Number(1, 255)
		}
	}

	if g.f.Bool() {
		var v string
		switch c.Type {
		case "int", "tinyint", "smallint", "bigint":
			v = fmt.Sprint(g.f.Number(0, 100))
		case "decimal":
			v = fmt.Sprintf("%.2f", g.f.Price(0.99, 99.99))
		case "datetime":
			v = "CURRENT_TIMESTAMP"
		default:
			v = "'" + g.f.Word() + "'"
		}
		c.DefaultValue = &v
	}
	return c
}

// Table builds a table with up to maxColumns uniquely named columns.
func (g *Generator) Table(name string, maxColumns int) schema.Table {
	t := schema.Table{Name: name}
	n := g.f.Number(0, maxColumns)
	for j := 0; j < n; j++ {
		stem := g.f.RandomString(columnKinds)
		t.Columns = append(t.Columns, g.Column(fmt.Sprintf("%s_%d", stem, j)))
	}
	return t
}

// Schema builds up to maxTables tables.
func (g *Generator) Schema(name string, maxTables int) *schema.Schema {
	s := schema.NewSchema(name)
	n := g.f.Number(0, maxTables)
	for i := 0; i < n; i++ {
		s.AddTable(g.Table(fmt.Sprintf("t%d_%s", i, strings.ToLower(g.f.LetterN(3))), 6))
	}
	return s
}

// Mutate derives a related schema from s: some tables dropped, some with a
// flipped, added or removed column, possibly one new table. s is not modified.
func (g *Generator) Mutate(s *schema.Schema) *schema.Schema {
	out := s.Clone()
	for _, name := range out.TableNames() {
		t := out.Tables[name]
		switch g.f.Number(0, 4) {
		case 0:
			delete(out.Tables, name)
			continue
		case 1:
			if len(t.Columns) > 0 {
				i := g.Intn(len(t.Columns))
				t.Columns[i].Nullable = !t.Columns[i].Nullable
			}
		case 2:
			t.Columns = append(t.Columns, g.Column("extra_"+strings.ToLower(g.f.LetterN(4))))
		case 3:
			if len(t.Columns) > 0 {
				t.Columns = t.Columns[1:]
			}
		}
		out.Tables[name] = t
	}
	if g.f.Bool() {
		out.AddTable(schema.Table{Name: "new_" + strings.ToLower(g.f.LetterN(5)), Columns: []schema.Column{g.Column("id")}})
	}
	return out
}

// Shuffle reorders columns in place.
func (g *Generator) Shuffle(columns []schema.Column) {
	g.f.ShuffleAnySlice(columns)
}
