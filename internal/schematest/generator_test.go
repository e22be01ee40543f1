package schematest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Deterministic(t *testing.T) {
	assert.Equal(t, New(42).Schema("s", 8), New(42).Schema("s", 8))
}

func TestGenerator_ColumnTypeFollowsName(t *testing.T) {
	g := New(7)
	tests := map[string]string{
		"user_id_0":    "int",
		"created_at_1": "datetime",
		"birth_date_2": "date",
		"is_active_3":  "tinyint",
		"zipcode_4":    "char",
		"price_5":      "decimal",
	}
	for name, want := range tests {
		assert.Equal(t, want, g.Column(name).Type, name)
	}
}

func TestGenerator_UniqueColumnNames(t *testing.T) {
	g := New(1)
	for i := 0; i < 50; i++ {
		seen := make(map[string]bool)
		for _, c := range g.Table("t", 10).Columns {
			assert.False(t, seen[c.Name], c.Name)
			seen[c.Name] = true
		}
	}
}

func TestGenerator_MutateLeavesInputAlone(t *testing.T) {
	g := New(3)
	s := g.Schema("s", 8)
	before := s.Clone()
	g.Mutate(s)
	assert.Equal(t, before, s)
}
