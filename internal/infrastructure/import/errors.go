package csvimport

import (
	"errors"
	"fmt"
)

// Row error codes
const (
	ErrCodeMalformedRow    = "MALFORMED_ROW"
	ErrCodeRequired        = "REQUIRED"
	ErrCodeTooLong         = "TOO_LONG"
	ErrCodeInvalidValue    = "INVALID_VALUE"
	ErrCodePatternMismatch = "PATTERN_MISMATCH"
	ErrCodeDuplicateInFile = "DUPLICATE_IN_FILE"
	ErrCodeDuplicateInDB   = "DUPLICATE_IN_DB"
)

// File level errors
var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("CSV file is not valid UTF-8")
	ErrMissingHeader   = errors.New("CSV file has no header row")
	ErrInvalidHeader   = errors.New("CSV header is invalid")
	ErrNoDataRows      = errors.New("CSV file has no data rows")
	ErrTooManyRows     = errors.New("CSV file has too many rows")
)

// RowError locates a problem in the upload
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements error
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %s: %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a RowError
func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}

// ErrorCollection keeps the first max errors and counts the rest
type ErrorCollection struct {
	errors []RowError
	max    int
	total  int
}

// NewErrorCollection creates a collection; max <= 0 means 100
func NewErrorCollection(max int) *ErrorCollection {
	if max <= 0 {
		max = 100
	}
	return &ErrorCollection{max: max}
}

// Add records err
func (ec *ErrorCollection) Add(err RowError) {
	ec.total++
	if len(ec.errors) < ec.max {
		ec.errors = append(ec.errors, err)
	}
}

// Errors returns the kept errors
func (ec *ErrorCollection) Errors() []RowError {
	if ec.errors == nil {
		return []RowError{}
	}
	return ec.errors
}

// Total counts every error added, kept or not
func (ec *ErrorCollection) Total() int {
	return ec.total
}

// HasErrors reports whether anything was added
func (ec *ErrorCollection) HasErrors() bool {
	return ec.total > 0
}

// Truncated reports whether errors were dropped
func (ec *ErrorCollection) Truncated() bool {
	return ec.total > len(ec.errors)
}
