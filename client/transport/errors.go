package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedAddress marks a request URL that cannot be dialed.
	ErrMalformedAddress = errors.New("malformed address")
	// ErrConnectTimeout marks a round trip that timed out.
	ErrConnectTimeout = errors.New("connect timeout")
	// ErrConnection marks any other I/O failure.
	ErrConnection = errors.New("connection failure")
)

// ConnectionError is returned when a round trip fails at the transport
// level. Kind is one of [ErrMalformedAddress], [ErrConnectTimeout] or
// [ErrConnection]; both Kind and Err match with errors.Is.
type ConnectionError struct {
	Kind   error
	Method string
	URL    string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", e.Kind, e.Method, e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Timeout reports whether the failure was a timeout.
func (e *ConnectionError) Timeout() bool {
	return errors.Is(e.Kind, ErrConnectTimeout)
}
