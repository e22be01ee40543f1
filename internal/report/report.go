// Package report renders comparison results and schemas for people (text)
// and for tools (json).
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"db-compare/internal/diff"
	"db-compare/internal/schema"
)

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// ParseFormat accepts "text" or "json" in any case. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", Text:
		return Text, nil
	case JSON:
		return JSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// Sides names the two compared targets in headers and legends.
type Sides struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// comparison is the JSON document for a result. The diff arrays keep their
// wire names.
type comparison struct {
	Sides
	*diff.Result
}

// WriteResult renders r in the given format. Records are sorted by table and
// column name first.
func WriteResult(w io.Writer, f Format, sides Sides, r *diff.Result) error {
	if r == nil {
		r = &diff.Result{}
	}
	sorted := r.Sorted()

	var buf bytes.Buffer
	switch f {
	case JSON:
		if err := encodeJSON(&buf, comparison{Sides: sides, Result: sorted}); err != nil {
			return err
		}
	case Text, "":
		writeResultText(&buf, sides, sorted)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteSchema renders one introspected schema.
func WriteSchema(w io.Writer, f Format, s *schema.Schema) error {
	if s == nil {
		s = schema.NewSchema("")
	}

	var buf bytes.Buffer
	switch f {
	case JSON:
		if err := encodeJSON(&buf, s); err != nil {
			return err
		}
	case Text, "":
		writeSchemaText(&buf, s)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func encodeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func icon(c diff.Code) string {
	switch c {
	case diff.Same:
		return "✓"
	case diff.Changed:
		return "~"
	case diff.OnlyLeft:
		return "-"
	case diff.OnlyRight:
		return "+"
	default:
		return "?"
	}
}

func describe(c diff.Code, sides Sides) string {
	switch c {
	case diff.Same:
		return "same"
	case diff.Changed:
		return "changed"
	case diff.OnlyLeft:
		return "only in " + sides.Left
	case diff.OnlyRight:
		return "only in " + sides.Right
	default:
		return c.String()
	}
}

func writeResultText(buf *bytes.Buffer, sides Sides, r *diff.Result) {
	fmt.Fprintf(buf, "🔍 Schema Comparison: %s (-) vs %s (+)\n\n", sides.Left, sides.Right)

	if len(r.Tables) == 0 {
		buf.WriteString("No tables on either side.\n")
	}

	for _, t := range r.Tables {
		fmt.Fprintf(buf, "[%s] %-30s : %s\n", icon(t.Code), t.Name, describe(t.Code, sides))
		for _, c := range r.ColumnsOf(t.Name) {
			fmt.Fprintf(buf, "    └ [%s] %-24s : %s\n", icon(c.Code), c.Name, describe(c.Code, sides))
		}
	}

	sum := r.Summary()
	buf.WriteString("--------------------------------------------------\n")
	fmt.Fprintf(buf, "Tables : %s\n", summaryLine(sum.Tables, sides))
	fmt.Fprintf(buf, "Columns: %s\n", summaryLine(sum.Columns, sides))
	if r.HasDifferences() {
		buf.WriteString("Result : schemas differ\n")
	} else {
		buf.WriteString("Result : schemas are identical\n")
	}
}

func summaryLine(counts map[diff.Code]int, sides Sides) string {
	codes := []diff.Code{diff.Same, diff.Changed, diff.OnlyLeft, diff.OnlyRight}
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = fmt.Sprintf("%d %s", counts[c], describe(c, sides))
	}
	return strings.Join(parts, ", ")
}

func writeSchemaText(buf *bytes.Buffer, s *schema.Schema) {
	names := s.TableNames()
	fmt.Fprintf(buf, "📦 Schema %s (%d tables)\n", s.Name, len(names))

	for i, name := range names {
		t := s.Tables[name]
		fmt.Fprintf(buf, "\n[%02d/%02d] %s (%d columns)\n", i+1, len(names), t.Name, len(t.Columns))
		for _, c := range t.Columns {
			fmt.Fprintf(buf, "    %-24s %s\n", c.Name, columnAttributes(c))
		}
	}
}

func columnAttributes(c schema.Column) string {
	typ := c.Type
	if c.Size > 0 {
		typ = fmt.Sprintf("%s(%d)", c.Type, c.Size)
	}
	attrs := []string{typ}
	if c.Nullable {
		attrs = append(attrs, "NULL")
	} else {
		attrs = append(attrs, "NOT NULL")
	}
	if c.DefaultValue != nil {
		attrs = append(attrs, "DEFAULT "+*c.DefaultValue)
	}
	if c.PrimaryKey {
		attrs = append(attrs, "PK")
	}
	if c.AutoIncrement {
		attrs = append(attrs, "AUTO_INCREMENT")
	}
	return strings.Join(attrs, " ")
}
