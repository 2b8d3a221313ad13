package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

var (
	// ErrClosed is returned by [Loop.Post] after [Loop.Close].
	ErrClosed = errors.New("delivery loop closed")
	// ErrRunning is returned when a second goroutine tries to run a Loop.
	ErrRunning = errors.New("delivery loop already running")
)

// Poster schedules actions on a delivery context.
type Poster interface {
	Post(action func()) error
}

// PosterFunc adapts a function to the [Poster] interface.
type PosterFunc func(action func()) error

// Post calls f(action).
func (f PosterFunc) Post(action func()) error { return f(action) }

// Loop is a FIFO delivery context backed by one goroutine.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	closed  bool
	running bool
	done    chan struct{}
	logger  *slog.Logger
}

// Option is a functional option for [NewLoop].
type Option func(*Loop)

// WithLogger injects a custom [slog.Logger] used to report panicking
// actions.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop returns a Loop that queues posted actions until [Loop.Start] or
// [Loop.Run] begins executing them.
func NewLoop(opts ...Option) *Loop {
	l := &Loop{
		done:   make(chan struct{}),
		logger: slog.Default(),
	}
	l.cond = sync.NewCond(&l.mu)

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Post queues action for execution on the loop goroutine and returns
// without waiting for it.
func (l *Loop) Post(action func()) error {
	if action == nil {
		return errors.New("action must not be nil")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	l.queue = append(l.queue, action)
	l.cond.Signal()

	return nil
}

// Start runs the loop on a new goroutine.
func (l *Loop) Start() {
	go func() {
		if err := l.Run(context.Background()); err != nil && !errors.Is(err, ErrRunning) {
			l.logger.Error("delivery loop stopped", "error", err)
		}
	}()
}

// Run executes posted actions on the calling goroutine until the loop is
// closed and drained, or ctx is done. Only one goroutine may run a Loop.
//
// When ctx ends the loop is closed for good: actions already accepted
// still run before Run returns and later posts fail with [ErrClosed].
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrRunning
	}
	l.running = true
	l.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		l.mu.Lock()
		l.cond.Broadcast()
		l.mu.Unlock()
	})
	defer stop()

	defer func() {
		l.mu.Lock()
		l.running = false
		if l.closed && len(l.queue) == 0 {
			select {
			case <-l.done:
			default:
				close(l.done)
			}
		}
		l.mu.Unlock()
	}()

	for {
		action, ok := l.next(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				l.stop()
				return fmt.Errorf("delivery loop: %w", err)
			}
			return nil
		}
		l.invoke(action)
	}
}

// Close stops accepting actions. Actions already queued still run.
// Calling Close more than once has no further effect.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	l.closed = true
	l.cond.Broadcast()
}

// Done returns a channel closed once the loop has been closed and every
// queued action has run.
func (l *Loop) Done() <-chan struct{} { return l.done }

func (l *Loop) next(ctx context.Context) (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for len(l.queue) == 0 && !l.closed && ctx.Err() == nil {
		l.cond.Wait()
	}

	if ctx.Err() != nil || len(l.queue) == 0 {
		return nil, false
	}

	action := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]

	return action, true
}

// stop closes l and runs whatever was queued before it closed.
func (l *Loop) stop() {
	l.mu.Lock()
	l.closed = true
	pending := l.queue
	l.queue = nil
	l.cond.Broadcast()
	l.mu.Unlock()

	for _, action := range pending {
		l.invoke(action)
	}
}

func (l *Loop) invoke(action func()) {
	defer func() {
		if p := recover(); p != nil {
			l.logger.Error("delivery action panicked", "panic", p, "stack", string(debug.Stack()))
		}
	}()

	action()
}
