package deferred

import "fmt"

// StageOption configures a chained stage.
type StageOption func(*stageOpts)

type stageOpts struct {
	exec Executor
	set  bool
}

// On runs the stage on exec instead of the upstream Result's executor.
// A nil exec runs the stage on the goroutine that settles the upstream.
func On(exec Executor) StageOption {
	return func(o *stageOpts) {
		o.exec = exec
		o.set = true
	}
}

func (r *Result[T]) stageExecutor(opts []StageOption) Executor {
	var o stageOpts
	for _, opt := range opts {
		opt(&o)
	}

	if o.set {
		return o.exec
	}

	return r.exec
}

// Then applies fn to r's value once it is available and settles the
// returned Result with fn's outcome. If r fails, fn is never called and
// the failure passes through unchanged.
func Then[T, U any](r *Result[T], fn func(T) (U, error), opts ...StageOption) *Result[U] {
	exec := r.stageExecutor(opts)
	next := New[U](exec)

	r.OnComplete(func(o Outcome[T]) {
		if o.Err != nil {
			next.Fail(o.Err)
			return
		}

		next.run(exec, func() (U, error) {
			return fn(o.Value)
		})
	})

	return next
}

// Handle calls fn with r's value or failure, whichever r settles with,
// and settles the returned Result with fn's outcome.
func Handle[T, U any](r *Result[T], fn func(T, error) (U, error), opts ...StageOption) *Result[U] {
	exec := r.stageExecutor(opts)
	next := New[U](exec)

	r.OnComplete(func(o Outcome[T]) {
		next.run(exec, func() (U, error) {
			return fn(o.Value, o.Err)
		})
	})

	return next
}

// Accept consumes r's value. The returned Result settles once fn returns.
func (r *Result[T]) Accept(fn func(T) error, opts ...StageOption) *Result[struct{}] {
	return Then(r, func(v T) (struct{}, error) {
		return struct{}{}, fn(v)
	}, opts...)
}

// Post hands r's value to fn on the delivery context p, so fn runs
// wherever p runs its actions. The returned Result settles after fn has
// run, or fails if p refuses the action.
func (r *Result[T]) Post(p Poster, fn func(T)) *Result[struct{}] {
	next := New[struct{}](r.exec)

	r.OnComplete(func(o Outcome[T]) {
		if o.Err != nil {
			next.Fail(o.Err)
			return
		}

		err := p.Post(func() {
			if next.IsDone() {
				return
			}

			_, err := protect(func() (struct{}, error) {
				fn(o.Value)
				return struct{}{}, nil
			})
			if err != nil {
				next.Fail(err)
				return
			}
			next.Complete(struct{}{})
		})
		if err != nil {
			next.Fail(fmt.Errorf("posting to delivery context: %w", err))
		}
	})

	return next
}

// Exceptionally recovers from a failure of r by settling the returned
// Result with fn's fallback. A successful r passes through untouched.
func (r *Result[T]) Exceptionally(fn func(error) (T, error), opts ...StageOption) *Result[T] {
	exec := r.stageExecutor(opts)
	next := New[T](exec)

	r.OnComplete(func(o Outcome[T]) {
		if o.Err == nil {
			next.Complete(o.Value)
			return
		}

		next.run(exec, func() (T, error) {
			return fn(o.Err)
		})
	})

	return next
}
