package main

import "fmt"

// TransportError is a small, named error type for request-shape problems
// the engine itself never sees: a malformed request body or a missing or
// blank text field.
type TransportError struct {
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error (%d): %s", e.Status, e.Message)
}

func newTransportError(status int, format string, args ...any) *TransportError {
	return &TransportError{Status: status, Message: fmt.Sprintf(format, args...)}
}
