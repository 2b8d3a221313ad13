package deferred

// Executor runs tasks off the caller's goroutine. Execute must not block
// on the task itself and returns an error when the task is refused.
type Executor interface {
	Execute(task func()) error
}

// Poster schedules actions on a delivery context.
type Poster interface {
	Post(action func()) error
}

// Outcome is the settled state of a [Result]: a value on success, or a
// non-nil Err on failure.
type Outcome[T any] struct {
	Value T
	Err   error
}

// OK reports whether the outcome is a success.
func (o Outcome[T]) OK() bool { return o.Err == nil }

type state int

const (
	pending state = iota
	succeeded
	failed
	cancelled
)

// goExecutor starts every task in its own goroutine.
type goExecutor struct{}

func (goExecutor) Execute(task func()) error {
	go task()
	return nil
}
