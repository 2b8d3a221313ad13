package deferred

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is matched by every [*TimeoutError].
	ErrTimeout = errors.New("timed out waiting for result")
	// ErrCancelled is the failure of a cancelled [Result].
	ErrCancelled = errors.New("result cancelled")

	errNilFailure = errors.New("failed with nil error")
)

// TimeoutError is returned when a caller stops waiting for a result.
// The work behind the result is not affected.
type TimeoutError struct {
	Waited time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%v after %s", ErrTimeout, e.Waited)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Timeout reports true, matching the net.Error convention.
func (e *TimeoutError) Timeout() bool { return true }

// PanicError carries a panic recovered from a stage function.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}
