package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"db-compare/internal/diff"
	"db-compare/internal/report"
	"db-compare/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *diff.Result {
	return &diff.Result{
		Tables: []diff.TableDiff{
			{Name: "users", Code: diff.Changed},
			{Name: "logs", Code: diff.OnlyRight},
			{Name: "audit", Code: diff.Same},
		},
		Columns: []diff.ColumnDiff{
			{Table: "users", Name: "name", Code: diff.OnlyLeft},
			{Table: "users", Name: "id", Code: diff.Same},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]report.Format{"": report.Text, "TEXT": report.Text, " json ": report.JSON} {
		got, err := report.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := report.ParseFormat("yaml")
	assert.Error(t, err)
}

func TestWriteResult_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteResult(&buf, report.Text, report.Sides{Left: "prod", Right: "staging"}, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "prod (-) vs staging (+)")
	assert.Contains(t, out, "only in staging")
	assert.Contains(t, out, "only in prod")
	assert.Contains(t, out, "Tables : 1 same, 1 changed, 0 only in prod, 1 only in staging")
	assert.Contains(t, out, "Columns: 1 same, 0 changed, 1 only in prod, 0 only in staging")
	assert.Contains(t, out, "schemas differ")

	// tables are listed alphabetically, columns under their table
	audit := strings.Index(out, "audit")
	logs := strings.Index(out, "logs")
	users := strings.Index(out, "users")
	id := strings.Index(out, "└ [✓] id")
	name := strings.Index(out, "└ [-] name")
	assert.True(t, audit < logs && logs < users && users < id && id < name, out)
}

func TestWriteResult_TextIdentical(t *testing.T) {
	var buf bytes.Buffer
	r := &diff.Result{Tables: []diff.TableDiff{{Name: "t", Code: diff.Same}}}
	require.NoError(t, report.WriteResult(&buf, report.Text, report.Sides{Left: "a", Right: "b"}, r))
	assert.Contains(t, buf.String(), "schemas are identical")

	buf.Reset()
	require.NoError(t, report.WriteResult(&buf, report.Text, report.Sides{Left: "a", Right: "b"}, nil))
	assert.Contains(t, buf.String(), "No tables on either side.")
}

func TestWriteResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteResult(&buf, report.JSON, report.Sides{Left: "prod", Right: "staging"}, sampleResult()))

	var doc struct {
		Left    string           `json:"left"`
		Right   string           `json:"right"`
		Tables  []map[string]any `json:"tableDiffs"`
		Columns []map[string]any `json:"columnDiffs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "prod", doc.Left)
	assert.Equal(t, "staging", doc.Right)
	require.Len(t, doc.Tables, 3)
	assert.Equal(t, map[string]any{"name": "audit", "diff": float64(1)}, doc.Tables[0])
	assert.Equal(t, map[string]any{"name": "logs", "diff": float64(4)}, doc.Tables[1])
	assert.Equal(t, map[string]any{"name": "users", "diff": float64(2)}, doc.Tables[2])
	assert.Equal(t, map[string]any{"table": "users", "name": "id", "diff": float64(1)}, doc.Columns[0])
}

func TestWriteResult_JSONEmptyArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteResult(&buf, report.JSON, report.Sides{}, &diff.Result{}))
	assert.Contains(t, buf.String(), `"tableDiffs": []`)
	assert.Contains(t, buf.String(), `"columnDiffs": []`)
}

func TestWriteSchema(t *testing.T) {
	def := "0"
	s := schema.NewSchema("shop")
	s.AddTable(schema.Table{Name: "orders", Columns: []schema.Column{
		{Name: "id", Type: "int", Size: 11, PrimaryKey: true, AutoIncrement: true},
		{Name: "total", Type: "decimal", Size: 10, Nullable: true, DefaultValue: &def},
	}})

	var buf bytes.Buffer
	require.NoError(t, report.WriteSchema(&buf, report.Text, s))
	out := buf.String()
	assert.Contains(t, out, "Schema shop (1 tables)")
	assert.Contains(t, out, "[01/01] orders (2 columns)")
	assert.Contains(t, out, "int(11) NOT NULL PK AUTO_INCREMENT")
	assert.Contains(t, out, "decimal(10) NULL DEFAULT 0")

	buf.Reset()
	require.NoError(t, report.WriteSchema(&buf, report.JSON, s))
	var back schema.Schema
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, s, &back)
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, report.WriteResult(&buf, report.Format("xml"), report.Sides{}, nil))
	assert.Error(t, report.WriteSchema(&buf, report.Format("xml"), nil))
	assert.Zero(t, buf.Len())
}
