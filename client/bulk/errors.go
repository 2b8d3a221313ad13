package bulk

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeoutsMismatch is returned when per-request timeouts do not
	// line up with the requests.
	ErrTimeoutsMismatch = errors.New("timeouts do not match requests")
	// ErrNilRequest is returned when a batch holds a nil request.
	ErrNilRequest = errors.New("nil request")

	errNoResponse = errors.New("transport returned no response")
)

// Error reports the request that aborted a batch.
type Error struct {
	Index int
	URL   string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bulk request %d (%s): %v", e.Index, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
