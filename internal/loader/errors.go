package loader

import (
	"errors"
	"fmt"
	"strings"

	"findash/internal/core"
)

// ParseError reports a cell, column or file that could not be parsed. It
// aborts the whole load.
type ParseError struct {
	Row    int // 1-based data row, 0 when the error concerns the header or file
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Row > 0:
		return fmt.Sprintf("parse row %d column %q value %q: %v", e.Row, e.Column, e.Value, e.Err)
	case e.Column != "":
		return fmt.Sprintf("parse column %q: %v", e.Column, e.Err)
	default:
		return fmt.Sprintf("parse: %v", e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes every ParseError match core.ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == core.ErrParse
}

// MissingColumnsError lists required columns absent from an upload.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == core.ErrMissingColumn
}

// IsMissingColumns reports whether err carries a MissingColumnsError and
// returns it.
func IsMissingColumns(err error) (*MissingColumnsError, bool) {
	var mc *MissingColumnsError
	if errors.As(err, &mc) {
		return mc, true
	}
	return nil, false
}
