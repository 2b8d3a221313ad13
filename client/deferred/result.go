package deferred

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"
)

// Result is a single-assignment future. It settles exactly once, to a
// value, a failure, or cancellation; later attempts to settle it are
// ignored. Any number of goroutines may wait on or chain from a Result.
type Result[T any] struct {
	exec   Executor
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state state
	value T
	err   error
	hooks []func(Outcome[T])
}

// New returns a pending Result settled by the caller through
// [Result.Complete] or [Result.Fail]. Stages chained from it run on exec
// unless overridden with [On]; a nil exec runs them on the settling
// goroutine.
func New[T any](exec Executor) *Result[T] {
	ctx, cancel := context.WithCancel(context.Background())

	return &Result[T]{
		exec:   exec,
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SupplyAsync runs work on exec and settles the returned Result with its
// outcome. A nil exec runs work in a new goroutine. If exec refuses the
// task the Result fails immediately with the refusal error.
//
// The context handed to work is cancelled once the Result settles,
// including through [Result.Cancel]; honoring it is up to work.
func SupplyAsync[T any](exec Executor, work func(ctx context.Context) (T, error)) *Result[T] {
	if exec == nil {
		exec = goExecutor{}
	}

	r := New[T](exec)
	r.run(exec, func() (T, error) {
		return work(r.ctx)
	})

	return r
}

// Completed returns a Result already settled with v.
func Completed[T any](v T) *Result[T] {
	r := New[T](nil)
	r.Complete(v)

	return r
}

// Failed returns a Result already settled with err.
func Failed[T any](err error) *Result[T] {
	r := New[T](nil)
	r.Fail(err)

	return r
}

// Complete settles r with v. It reports false if r had already settled.
func (r *Result[T]) Complete(v T) bool {
	return r.transition(succeeded, v, nil)
}

// Fail settles r with err. It reports false if r had already settled.
func (r *Result[T]) Fail(err error) bool {
	if err == nil {
		err = errNilFailure
	}

	var zero T
	return r.transition(failed, zero, err)
}

// Cancel settles a pending r as cancelled with [ErrCancelled]. Work that
// has not started yet is skipped. Work already running is only signalled
// through its context and its eventual outcome is discarded. Cancel
// reports whether this call cancelled r.
func (r *Result[T]) Cancel() bool {
	var zero T
	return r.transition(cancelled, zero, ErrCancelled)
}

// Context is cancelled once r settles.
func (r *Result[T]) Context() context.Context { return r.ctx }

// Done returns a channel closed when r settles.
func (r *Result[T]) Done() <-chan struct{} { return r.done }

// Get blocks until r settles.
func (r *Result[T]) Get() (T, error) {
	<-r.done
	return r.settled()
}

// GetTimeout blocks until r settles or d elapses, in which case it
// returns a [*TimeoutError]. Timing out does not cancel r.
func (r *Result[T]) GetTimeout(d time.Duration) (T, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-r.done:
		return r.settled()
	case <-timer.C:
	}

	select {
	case <-r.done:
		return r.settled()
	default:
		var zero T
		return zero, &TimeoutError{Waited: d}
	}
}

// GetContext blocks until r settles or ctx is done. Giving up does not
// cancel r.
func (r *Result[T]) GetContext(ctx context.Context) (T, error) {
	select {
	case <-r.done:
		return r.settled()
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("waiting for result: %w", context.Cause(ctx))
	}
}

// Outcome returns the settled outcome without blocking. ok is false while
// r is pending.
func (r *Result[T]) Outcome() (o Outcome[T], ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == pending {
		return Outcome[T]{}, false
	}

	return Outcome[T]{Value: r.value, Err: r.err}, true
}

// IsDone reports whether r has settled in any way.
func (r *Result[T]) IsDone() bool {
	return r.is(succeeded, failed, cancelled)
}

// IsCompletedExceptionally reports whether r failed or was cancelled.
func (r *Result[T]) IsCompletedExceptionally() bool {
	return r.is(failed, cancelled)
}

// IsCancelled reports whether r was cancelled.
func (r *Result[T]) IsCancelled() bool {
	return r.is(cancelled)
}

// OnComplete registers fn to receive r's outcome. fn runs on the
// goroutine that settles r, or immediately on the caller's goroutine if r
// has already settled. fn must not block.
func (r *Result[T]) OnComplete(fn func(Outcome[T])) {
	r.mu.Lock()
	if r.state == pending {
		r.hooks = append(r.hooks, fn)
		r.mu.Unlock()
		return
	}
	o := Outcome[T]{Value: r.value, Err: r.err}
	r.mu.Unlock()

	fn(o)
}

func (r *Result[T]) is(states ...state) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range states {
		if r.state == s {
			return true
		}
	}

	return false
}

func (r *Result[T]) settled() (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.value, r.err
}

func (r *Result[T]) transition(to state, v T, err error) bool {
	r.mu.Lock()
	if r.state != pending {
		r.mu.Unlock()
		return false
	}

	r.state = to
	r.value = v
	r.err = err
	hooks := r.hooks
	r.hooks = nil
	close(r.done)
	r.mu.Unlock()

	r.cancel()
	runHooks(hooks, Outcome[T]{Value: v, Err: err})

	return true
}

// runHooks calls every hook even if one panics; the first panic is
// re-raised once all hooks ran.
func runHooks[T any](hooks []func(Outcome[T]), o Outcome[T]) {
	var first any
	for _, h := range hooks {
		func() {
			defer func() {
				if p := recover(); p != nil && first == nil {
					first = p
				}
			}()
			h(o)
		}()
	}

	if first != nil {
		panic(first)
	}
}

// schedule hands task to exec, or runs it inline when exec is nil. A
// refused task fails r.
func (r *Result[T]) schedule(exec Executor, task func()) {
	if exec == nil {
		task()
		return
	}

	if err := exec.Execute(task); err != nil {
		r.Fail(fmt.Errorf("scheduling task: %w", err))
	}
}

// run schedules fn and settles r with its outcome, unless r settled
// before fn got to start.
func (r *Result[T]) run(exec Executor, fn func() (T, error)) {
	r.schedule(exec, func() {
		if r.IsDone() {
			return
		}

		v, err := protect(fn)
		if err != nil {
			r.Fail(err)
			return
		}
		r.Complete(v)
	})
}

// protect converts a panic in fn into a [*PanicError].
func protect[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero T
			v = zero
			err = &PanicError{Value: p, Stack: debug.Stack()}
		}
	}()

	return fn()
}
