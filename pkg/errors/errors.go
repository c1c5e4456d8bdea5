// Package errors provides structured error types for facetgrid.
//
// Every failure in the faceting engine is a programmer-facing contract
// violation (a malformed request, a bad column name, an out-of-range
// target). These are reported synchronously as *Error values carrying a
// machine-readable Code so that callers (CLI, library users) can decide
// whether to abort, log, or prompt.
//
// # Error Codes
//
// Codes group into:
//   - request shape: MISSING_AXIS, NO_FACET_DIMENSION, CONFLICTING_LAYOUT,
//     CONFLICTING_TARGET, INVALID_GRID_CONFIGURATION
//   - data mismatch: UNKNOWN_COLUMN, UNKNOWN_ORDERED_VALUE, EMPTY_CELL
//   - grid mismatch: OUT_OF_BOUNDS_TARGET, GRID_SHAPE_MISMATCH
//   - rendering: UNKNOWN_LEGEND_STRATEGY, UNKNOWN_PLOT_KIND, SESSION_FINALIZED
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownColumn, "unknown column %q (available: %s)", col, avail)
//	if errors.Is(err, errors.ErrCodeUnknownColumn) {
//	    // Handle the bad column name
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "read dataset %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeMissingAxis       Code = "MISSING_AXIS"
	ErrCodeNoFacetDimension  Code = "NO_FACET_DIMENSION"
	ErrCodeConflictingLayout Code = "CONFLICTING_LAYOUT"
	ErrCodeConflictingTarget Code = "CONFLICTING_TARGET"
	ErrCodeInvalidGridConfig Code = "INVALID_GRID_CONFIGURATION"
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"

	ErrCodeUnknownColumn       Code = "UNKNOWN_COLUMN"
	ErrCodeUnknownOrderedValue Code = "UNKNOWN_ORDERED_VALUE"
	ErrCodeEmptyCell           Code = "EMPTY_CELL"
	ErrCodeFileNotFound        Code = "FILE_NOT_FOUND"

	ErrCodeOutOfBoundsTarget Code = "OUT_OF_BOUNDS_TARGET"
	ErrCodeGridShapeMismatch Code = "GRID_SHAPE_MISMATCH"

	ErrCodeUnknownLegend    Code = "UNKNOWN_LEGEND_STRATEGY"
	ErrCodeUnknownPlotKind  Code = "UNKNOWN_PLOT_KIND"
	ErrCodeSessionFinalized Code = "SESSION_FINALIZED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Category groups codes by what the caller has to fix.
type Category int

const (
	CategoryOther Category = iota
	CategoryRequest
	CategoryData
	CategoryGrid
	CategoryRendering
)

var categories = map[Code]Category{
	ErrCodeMissingAxis:         CategoryRequest,
	ErrCodeNoFacetDimension:    CategoryRequest,
	ErrCodeConflictingLayout:   CategoryRequest,
	ErrCodeConflictingTarget:   CategoryRequest,
	ErrCodeInvalidGridConfig:   CategoryRequest,
	ErrCodeInvalidInput:        CategoryRequest,
	ErrCodeInvalidFormat:       CategoryRequest,
	ErrCodeUnknownColumn:       CategoryData,
	ErrCodeUnknownOrderedValue: CategoryData,
	ErrCodeEmptyCell:           CategoryData,
	ErrCodeFileNotFound:        CategoryData,
	ErrCodeOutOfBoundsTarget:   CategoryGrid,
	ErrCodeGridShapeMismatch:   CategoryGrid,
	ErrCodeUnknownLegend:       CategoryRendering,
	ErrCodeUnknownPlotKind:     CategoryRendering,
	ErrCodeSessionFinalized:    CategoryRendering,
}

// Category returns the group of c. Unlisted codes are CategoryOther.
func (c Code) Category() Category {
	return categories[c]
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its
// code, or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// ExitCode maps err to a process exit status: 0 for nil, 2 for request
// errors, 3 for data errors, 4 for grid errors, 5 for rendering errors
// and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(err).Category() {
	case CategoryRequest:
		return 2
	case CategoryData:
		return 3
	case CategoryGrid:
		return 4
	case CategoryRendering:
		return 5
	}
	return 1
}

// List formats values for inclusion in an error message, eliding the
// middle of long lists so messages stay on one line.
func List(values []string) string {
	const limit = 12
	if len(values) == 0 {
		return "none"
	}
	quoted := make([]string, 0, len(values))
	for i, v := range values {
		if len(values) > limit && i == limit-2 {
			quoted = append(quoted, fmt.Sprintf("... %d more", len(values)-limit+1))
			quoted = append(quoted, fmt.Sprintf("%q", values[len(values)-1]))
			break
		}
		quoted = append(quoted, fmt.Sprintf("%q", v))
	}
	return strings.Join(quoted, ", ")
}
