package converter

import (
	"errors"
	"fmt"
)

// ErrMalformedRow indicates that an input row cannot be converted.
var ErrMalformedRow = errors.New("malformed row")

// MalformedRowError describes a row that aborts the whole run.
type MalformedRowError struct {
	Sheet  string
	Row    int // 1-based
	Column string
	Reason string
}

func (e *MalformedRowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s row %d: %s", e.Sheet, e.Row, e.Reason)
	}
	return fmt.Sprintf("%s row %d column %s: %s", e.Sheet, e.Row, e.Column, e.Reason)
}

func (e *MalformedRowError) Unwrap() error {
	return ErrMalformedRow
}
