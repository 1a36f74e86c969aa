package history

import "fmt"

// ParseError reports a malformed viewing-history row. Any ParseError aborts
// normalization; no partial result is returned.
type ParseError struct {
	Row   int // 1-based data row, header excluded
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
