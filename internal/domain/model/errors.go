package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds shared across layers. These allow errors.Is/As from callers.
var (
	ErrSourceNotFound  = errors.New("source not found")
	ErrParseFailure    = errors.New("parse failure")
	ErrMissingColumn   = errors.New("missing column")
	ErrEmptyResult     = errors.New("empty result")
	ErrInvalidArgument = errors.New("invalid argument")
)

// IsEmpty reports whether err is the EmptyResult marker. An empty result is a
// valid answer, not a failure.
func IsEmpty(err error) bool { return errors.Is(err, ErrEmptyResult) }

// ParseError describes a file- or row-level parse failure.
type ParseError struct {
	Path   string
	Row    int // 1-based data row; 0 for file-level failures
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("parse %s: row %d column %q: %v", e.Path, e.Row, e.Column, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("parse %s: row %d: %v", e.Path, e.Row, e.Err)
	default:
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches ErrParseFailure.
func (e *ParseError) Is(target error) bool { return target == ErrParseFailure }

// MissingColumnError reports a required column absent from a table.
type MissingColumnError struct {
	Column string
	Scope  Scope
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: column %q not present in %s", ErrMissingColumn, e.Column, e.Scope)
}

// Is matches ErrMissingColumn.
func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// InvalidArgument wraps ErrInvalidArgument with a message.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
