// Package engineerr provides the engine's unified error type: every public
// operation across the memory pool, ECS, plugin container and engine loop
// returns either nil (success) or an *Error carrying one of the closed set
// of Kinds defined here.
package engineerr

import (
	"errors"
	"fmt"
)

// Kind is a closed set of error categories surfaced by the engine core.
type Kind string

const (
	// InvalidArgument means a null or out-of-range parameter was supplied.
	InvalidArgument Kind = "INVALID_ARGUMENT"
	// AllocationFailed means the pool was exhausted or the OS bridge returned null.
	AllocationFailed Kind = "ALLOCATION_FAILED"
	// NotInitialized means the operation requires a prior init that never happened.
	NotInitialized Kind = "NOT_INITIALIZED"
	// SymbolMissing means a plugin lacks one of the three required entry points.
	SymbolMissing Kind = "SYMBOL_MISSING"
	// CorruptionDetected means a block header's magic sentinel did not match.
	CorruptionDetected Kind = "CORRUPTION_DETECTED"
	// Generic is the catch-all for platform/OS bridge failures.
	Generic Kind = "GENERIC"
)

// Error is a structured error with a Kind, a message, and an optional
// wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail attaches a key/value pair of diagnostic context and returns e
// for chaining.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an *Error that wraps an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Invalid builds an InvalidArgument error for a named parameter.
func Invalid(param, reason string) *Error {
	return New(InvalidArgument, "invalid argument").
		WithDetail("parameter", param).
		WithDetail("reason", reason)
}

// AllocFailed builds an AllocationFailed error, optionally naming the tag
// and size that could not be satisfied.
func AllocFailed(tag string, size uint64) *Error {
	return New(AllocationFailed, "allocation failed").
		WithDetail("tag", tag).
		WithDetail("size", size)
}

// Uninitialized builds a NotInitialized error for a named subsystem.
func Uninitialized(subsystem string) *Error {
	return New(NotInitialized, "not initialized").WithDetail("subsystem", subsystem)
}

// MissingSymbol builds a SymbolMissing error for a named plugin symbol.
func MissingSymbol(path, symbol string) *Error {
	return New(SymbolMissing, "required plugin symbol missing").
		WithDetail("path", path).
		WithDetail("symbol", symbol)
}

// Corrupted builds a CorruptionDetected error for a pointer that failed
// magic validation.
func Corrupted(reason string) *Error {
	return New(CorruptionDetected, "block header corrupted").WithDetail("reason", reason)
}

// Of extracts an *Error from err's chain, if present.
func Of(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// Is reports whether err's chain contains an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	e := Of(err)
	return e != nil && e.Kind == kind
}
