// Package stencil provides custom error types for better error handling and reporting.
package stencil

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDelimiter is reported when a line routed to expression
	// extraction lacks a genuine opening or closing double brace.
	ErrMissingDelimiter = errors.New("missing delimiter")

	// ErrOutOfRangeSlice is reported when the delimiter offsets would produce
	// a slice outside the line or with inverted bounds.
	ErrOutOfRangeSlice = errors.New("out of range slice")

	// ErrUnrecognizedLine is reported in strict mode for lines carrying
	// template markers of no known shape.
	ErrUnrecognizedLine = errors.New("unrecognized template line")
)

// ExpressionError represents a failure to split a line around its placeholder
type ExpressionError struct {
	Line     string
	Position int
	Cause    error
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("expression error at position %d in %q: %v", e.Position, e.Line, e.Cause)
}

func (e *ExpressionError) Unwrap() error {
	return e.Cause
}

// NewExpressionError creates a new expression error
func NewExpressionError(line string, position int, cause error) error {
	return &ExpressionError{
		Line:     line,
		Position: position,
		Cause:    cause,
	}
}

// LineError ties an error to a line of a template document
type LineError struct {
	Number int
	Text   string
	Cause  error
}

func (e *LineError) Error() string {
	if e.Number > 0 {
		return fmt.Sprintf("template error at line %d: %v", e.Number, e.Cause)
	}
	return fmt.Sprintf("template error: %v", e.Cause)
}

func (e *LineError) Unwrap() error {
	return e.Cause
}

// NewLineError creates a new line error
func NewLineError(number int, text string, cause error) error {
	return &LineError{
		Number: number,
		Text:   text,
		Cause:  cause,
	}
}

// DocumentError represents an error during template document operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	}
	return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// IsExpressionError checks if an error is, or wraps, an expression error
func IsExpressionError(err error) bool {
	var target *ExpressionError
	return errors.As(err, &target)
}

// IsLineError checks if an error is, or wraps, a line error
func IsLineError(err error) bool {
	var target *LineError
	return errors.As(err, &target)
}

// IsDocumentError checks if an error is, or wraps, a document error
func IsDocumentError(err error) bool {
	var target *DocumentError
	return errors.As(err, &target)
}
