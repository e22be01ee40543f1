package schema

import "strings"

// Filter returns a copy of s restricted to the tables named in include (all
// tables when include is empty) minus those named in exclude. Names match
// case-insensitively. s itself is left untouched.
func Filter(s *Schema, include, exclude []string) *Schema {
	if s == nil {
		return nil
	}
	if len(include) == 0 && len(exclude) == 0 {
		return s.Clone()
	}

	want := nameSet(include)
	skip := nameSet(exclude)

	out := NewSchema(s.Name)
	for name, t := range s.Tables {
		key := strings.ToLower(name)
		if len(want) > 0 && !want[key] {
			continue
		}
		if skip[key] {
			continue
		}
		out.Tables[name] = t.Clone()
	}
	return out
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			set[strings.ToLower(n)] = true
		}
	}
	return set
}
