package graph

import (
	"errors"
	"fmt"
)

var (
	ErrMissingDestination = errors.New("destination id is not specified")
	ErrInvalidProbability = errors.New("invalid arc probability")
	ErrInvalidIndex       = errors.New("adjacency index invariant violated")
)

// ParseError reports a malformed body line. Loading stops at the first one.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
