package document

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelectionSpec is returned when a selection is built from
	// empty keys or negative offsets.
	ErrInvalidSelectionSpec = errors.New("invalid selection spec")
	// ErrParse is the root of every persisted-state decoding failure.
	ErrParse = errors.New("parse error")
)

// SelectionError reports which field of a SelectionSpec was rejected.
type SelectionError struct {
	Field   string
	Message string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid selection: %s %s", e.Field, e.Message)
}

func (e *SelectionError) Unwrap() error { return ErrInvalidSelectionSpec }

// ParseError reports a malformed raw record.
type ParseError struct {
	Format string
	Path   string
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Msg)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Msg)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrParse
}
