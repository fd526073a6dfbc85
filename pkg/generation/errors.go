package generation

import (
	"fmt"

	"github.com/pkg/errors"
)

// ValidationError rejects a request before anything is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AbortError reports a request that was cancelled or superseded.
type AbortError struct {
	Cause error
}

func (e *AbortError) Error() string {
	return "request canceled"
}

func (e *AbortError) Unwrap() error {
	return e.Cause
}

// TransportError is a network failure or a non-success HTTP status.
// StatusCode is 0 when no response was received.
type TransportError struct {
	StatusCode int
	Message    string
	Raw        string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return e.Message
}

// statusMessage is what the user sees: the server's own message when it sent
// one, the bare status otherwise.
func (e *TransportError) statusMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ResponseShapeError means the generator answered but not with an outline.
// Raw holds the payload for diagnostics.
type ResponseShapeError struct {
	Reason string
	Raw    string
}

func (e *ResponseShapeError) Error() string {
	return "invalid outline: " + e.Reason
}

// StatusText converts a generation error into the status line shown to the
// user. A nil error clears the status.
func StatusText(err error) string {
	if err == nil {
		return ""
	}
	var abort *AbortError
	if errors.As(err, &abort) {
		return "Canceled"
	}
	var validation *ValidationError
	var transport *TransportError
	var shape *ResponseShapeError
	switch {
	case errors.As(err, &validation):
		return "Error: " + validation.Error()
	case errors.As(err, &transport):
		return "Error: " + transport.statusMessage()
	case errors.As(err, &shape):
		return "Error: " + shape.Error()
	}
	return "Error: " + err.Error()
}
