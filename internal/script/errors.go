package script

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKeyword is returned when a line starts with no known keyword
	ErrUnknownKeyword = errors.New("unknown keyword")

	// ErrMalformed is returned when a line has the wrong shape for its keyword
	ErrMalformed = errors.New("malformed command")

	// ErrInvalidField is returned when a field fails its type or value check
	ErrInvalidField = errors.New("invalid field")
)

// ParseError describes a script line that was replaced by the fallback command
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("%q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

func invalidField(field, value string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidField, field, value, err)
	}
	return fmt.Errorf("%w: %s %q", ErrInvalidField, field, value)
}
