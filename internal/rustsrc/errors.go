package rustsrc

import (
	"errors"
	"fmt"
)

// ErrParse is returned for source text Tree-sitter cannot parse cleanly.
var ErrParse = errors.New("parse error")

// Error locates a syntax error. It matches ErrParse with errors.Is.
type Error struct {
	Line   int
	Column int
	Near   string
}

func (e *Error) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("parse error at %d:%d", e.Line, e.Column)
	}
	return fmt.Sprintf("parse error at %d:%d near %q", e.Line, e.Column, e.Near)
}

func (e *Error) Is(target error) bool {
	return target == ErrParse
}
