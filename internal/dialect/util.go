package dialect

import (
	"fmt"
	"strings"
)

// DefaultNormalizeType is a default implementation for type normalization (lowercase).
func DefaultNormalizeType(sqlType string) string {
	return strings.ToLower(sqlType)
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

// BaseType strips type parameters: "VARCHAR(255)" -> "VARCHAR".
func BaseType(declared string) string {
	dt := strings.TrimSpace(declared)
	if idx := strings.IndexByte(dt, '('); idx >= 0 {
		dt = dt[:idx]
	}
	return strings.TrimSpace(dt)
}

// ParseLength reads the first type parameter: "NUMERIC(10,2)" -> 10.
// It returns 0 when the declared type carries no parameters.
func ParseLength(declared string) int {
	open := strings.IndexByte(declared, '(')
	end := strings.LastIndexByte(declared, ')')
	if open < 0 || end <= open {
		return 0
	}
	first := strings.TrimSpace(strings.Split(declared[open+1:end], ",")[0])
	var n int
	if _, err := fmt.Sscanf(first, "%d", &n); err != nil {
		return 0
	}
	return n
}
