package parse

import (
	"errors"
	"fmt"
)

var ErrParse = errors.New("parse error")

// Error is a parse failure with a human readable message and, when
// derivable from the input, a 1-based line and column. Line 0 means the
// position is unknown.
type Error struct {
	Msg  string
	Line int
	Col  int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%v: %s (line %d, column %d)", ErrParse, e.Msg, e.Line, e.Col)
	}
	return fmt.Sprintf("%v: %s", ErrParse, e.Msg)
}

func (e *Error) Unwrap() error { return ErrParse }
