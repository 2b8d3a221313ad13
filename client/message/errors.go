package message

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest is the sentinel error wrapped by [RequestError].
var ErrInvalidRequest = errors.New("invalid request")

// FieldError describes a single invalid request field.
type FieldError struct {
	Field string
	Err   string
}

// RequestError is returned when a request cannot be built because one or
// more of its fields are invalid.
// Cause holds the underlying failure when a field could not be produced
// at all, such as a payload that does not encode.
type RequestError struct {
	Fields []FieldError
	Err    error
	Cause  error
}

func (e *RequestError) Error() string {
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}

	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Err
	}

	return fmt.Sprintf("%v: %s", e.Err, strings.Join(parts, "; "))
}

func (e *RequestError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.Cause}
}

func invalid(field, reason string) *RequestError {
	return &RequestError{
		Fields: []FieldError{{Field: field, Err: reason}},
		Err:    ErrInvalidRequest,
	}
}
