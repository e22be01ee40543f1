package introspect

import "fmt"

// IntrospectionError reports a database that could not be reached or whose
// metadata could not be read.
type IntrospectionError struct {
	Target string
	Driver string
	Op     string
	Err    error
}

func (e *IntrospectionError) Error() string {
	return fmt.Sprintf("introspect %s (%s): %s: %v", e.Target, e.Driver, e.Op, e.Err)
}

func (e *IntrospectionError) Unwrap() error { return e.Err }

func failure(t Target, op string, err error) error {
	return &IntrospectionError{Target: t.String(), Driver: t.Driver, Op: op, Err: err}
}
