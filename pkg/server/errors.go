package server

import (
	"errors"
	"fmt"

	"github.com/mattjh/maccy-mcp/pkg/history"
)

// ValidationError means a request precondition failed locally before any
// I/O: a destructive call without its confirmation flag, an unsupported
// format name, an unparsable argument.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// SerializationError means an assembled response could not be converted to
// the wire format. It is caught at dispatch and turned into an error-flagged
// result; it never propagates raw.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize response: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// IOError wraps a store or filesystem failure with the operation that hit it.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

// userMessage maps an error from the taxonomy to the message surfaced in an
// error-flagged tool result. Every tool error passes through here exactly
// once, at the dispatch point.
func userMessage(err error) string {
	var (
		validation *ValidationError
		serialize  *SerializationError
		ioErr      *IOError
	)
	switch {
	case errors.Is(err, history.ErrNotFound):
		return "No history item matches that id."
	case errors.As(err, &validation):
		return "Invalid request: " + validation.Reason
	case errors.As(err, &serialize):
		return serialize.Error()
	case errors.As(err, &ioErr):
		return "Operation failed: " + ioErr.Error()
	}
	return "Internal error: " + err.Error()
}
