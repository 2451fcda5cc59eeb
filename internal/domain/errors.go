package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTaxCode marks an allowance code that cannot be parsed.
	ErrInvalidTaxCode = errors.New("invalid tax code")
	// ErrInvalidMonth marks a 0-based month outside 0-11.
	ErrInvalidMonth = errors.New("invalid month")
	// ErrInvalidRate marks a rate outside 0..1.
	ErrInvalidRate = errors.New("invalid rate")
)

// InputError reports a structurally invalid input row. The caller has to fix
// the row and retry; the engine does no partial recovery.
type InputError struct {
	Row   string
	Field string
	Value string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: field %s (%q): %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }
