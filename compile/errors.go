package compile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies compilation diagnostics.
type ErrorCode string

// Structural error codes — raised immediately during graph construction.
const (
	ErrUnknownEndpoint ErrorCode = "UNKNOWN_ENDPOINT"
	ErrDuplicateLink   ErrorCode = "DUPLICATE_LINK"
	ErrDuplicateNode   ErrorCode = "DUPLICATE_NODE"
	ErrUnknownNodeType ErrorCode = "UNKNOWN_NODE_TYPE"
)

// Validation error codes — accumulated across a full validator pass.
const (
	ErrGraphCycle        ErrorCode = "GRAPH_CYCLE"
	ErrMissingContent    ErrorCode = "MISSING_CONTENT"
	ErrBadIterationBound ErrorCode = "BAD_ITERATION_BOUND"
)

// Warning codes — never abort compilation.
const (
	WarnIsolatedTask   ErrorCode = "ISOLATED_TASK"
	WarnUnusedProvider ErrorCode = "UNUSED_PROVIDER"
	WarnNoInstructions ErrorCode = "NO_INSTRUCTIONS"
	WarnEmptyComposite ErrorCode = "EMPTY_COMPOSITE"
	WarnExcessiveBound ErrorCode = "EXCESSIVE_BOUND"
)

// Location identifies where in the authored workflow a diagnostic points,
// for author-facing error reporting.
type Location struct {
	NodeID   string `json:"node_id,omitempty"`
	RegionID string `json:"region_id,omitempty"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// String renders the location as "node@region (file:line)".
func (l Location) String() string {
	var b strings.Builder
	if l.NodeID != "" {
		b.WriteString(l.NodeID)
	}
	if l.RegionID != "" {
		b.WriteString("@" + l.RegionID)
	}
	if l.File != "" {
		fmt.Fprintf(&b, " (%s:%d)", l.File, l.Line)
	}
	return b.String()
}

// Error is a structured compilation error with code, message, and location.
type Error struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Location Location  `json:"location,omitzero"`
	// Cycle carries the offending node path for GRAPH_CYCLE errors,
	// closed by repeating the start node.
	Cycle []string `json:"cycle,omitempty"`
	Cause error    `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	loc := e.Location.String()
	switch {
	case e.Cause != nil && loc != "":
		return fmt.Sprintf("[%s] %s at %s: %v", e.Code, e.Message, loc, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	case loc != "":
		return fmt.Sprintf("[%s] %s at %s", e.Code, e.Message, loc)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithLocation attaches an authoring location to the error.
func (e *Error) WithLocation(loc Location) *Error {
	e.Location = loc
	return e
}

// WithCycle attaches the offending cycle path.
func (e *Error) WithCycle(path []string) *Error {
	e.Cycle = path
	return e
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// GetErrorCode extracts the error code from an error, unwrapping as needed.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsStructural reports whether the error is a fail-fast structural error
// from graph construction.
func IsStructural(err error) bool {
	switch GetErrorCode(err) {
	case ErrUnknownEndpoint, ErrDuplicateLink, ErrDuplicateNode, ErrUnknownNodeType:
		return true
	}
	return false
}
