package csvimport

import (
	"errors"
	"fmt"
)

// Row-level error codes surfaced in the import report
const (
	ErrCodeRequiredField = "REQUIRED_FIELD"
	ErrCodeInvalidValue  = "INVALID_VALUE"
	ErrCodeDuplicate     = "DUPLICATE"
)

// File-level errors
var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
	ErrMissingHeader   = errors.New("file has no header row")
	ErrNoDataRows      = errors.New("file has no data rows")
)

// RowError is one rejected row in an import report
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a row error for the import report
func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}

// ErrorCollection accumulates row errors up to a cap. Rows past the cap
// are still counted so the report shows the true failure total.
type ErrorCollection struct {
	errors []RowError
	cap    int
	total  int
}

// NewErrorCollection creates a collection with the given cap
func NewErrorCollection(cap int) *ErrorCollection {
	if cap <= 0 {
		cap = 100
	}
	return &ErrorCollection{errors: make([]RowError, 0, cap), cap: cap}
}

// Add records an error, keeping at most cap of them
func (ec *ErrorCollection) Add(err RowError) {
	ec.total++
	if len(ec.errors) < ec.cap {
		ec.errors = append(ec.errors, err)
	}
}

// Errors returns the kept errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// Total returns the full failure count, including truncated errors
func (ec *ErrorCollection) Total() int {
	return ec.total
}

// HasErrors reports whether anything was rejected
func (ec *ErrorCollection) HasErrors() bool {
	return ec.total > 0
}
