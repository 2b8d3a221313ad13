package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/adamwoolhether/webclient/client/deferred"
	"github.com/google/uuid"
)

// ErrShutdown is returned for work submitted after [Dispatcher.Shutdown].
var ErrShutdown = errors.New("dispatcher shut down")

// Dispatcher executes tasks on its own workers. It is safe for
// concurrent use.
type Dispatcher struct {
	mu      sync.RWMutex
	gen     *generation
	workers int
	name    string
	logger  *slog.Logger
}

// New starts a Dispatcher with the provided options.
// If not specified, a single worker and [slog.Default] are used.
func New(optFns ...Option) (*Dispatcher, error) {
	opts := options{
		workers: 1,
		name:    "dispatch",
		logger:  slog.Default(),
	}

	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying dispatch option: %w", err)
		}
	}

	d := &Dispatcher{
		workers: opts.workers,
		name:    opts.name,
		logger:  opts.logger,
	}
	d.gen = d.start()

	return d, nil
}

// Submit runs work on d and returns a [deferred.Result] for its outcome.
// Once d is shut down the returned Result has already failed with
// [ErrShutdown].
func Submit[T any](d *Dispatcher, work func(ctx context.Context) (T, error)) *deferred.Result[T] {
	return deferred.SupplyAsync[T](d, work)
}

// Execute enqueues task without waiting for it to run. It implements
// [deferred.Executor].
func (d *Dispatcher) Execute(task func()) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id := uuid.New()
	depth, err := d.gen.push(job{id: id, fn: task})
	if err != nil {
		return fmt.Errorf("%s: %w", d.name, err)
	}

	d.logger.Debug("dispatch task queued", "name", d.name, "task", id, "depth", depth)

	return nil
}

// Shutdown stops accepting new work. Work already queued or running is
// still executed. Calling Shutdown more than once has no further effect.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.gen.close() {
		d.logger.Info("dispatcher shut down", "name", d.name)
	}
}

// Restart starts a fresh set of workers after [Dispatcher.Shutdown]. On a
// running Dispatcher it does nothing and reports false.
func (d *Dispatcher) Restart() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.gen.isClosed() {
		return false
	}

	d.gen = d.start()
	d.logger.Info("dispatcher restarted", "name", d.name, "workers", d.workers)

	return true
}

// Running reports whether d accepts new work.
func (d *Dispatcher) Running() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return !d.gen.isClosed()
}

// Workers returns the number of workers per generation.
func (d *Dispatcher) Workers() int { return d.workers }

// Pending returns the number of queued tasks that have not started yet.
func (d *Dispatcher) Pending() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.gen.depth()
}

// AwaitTermination blocks until every worker of a shut down Dispatcher
// has drained its queue and exited, or ctx is done. On a running
// Dispatcher it waits for ctx.
func (d *Dispatcher) AwaitTermination(ctx context.Context) error {
	d.mu.RLock()
	g := d.gen
	d.mu.RUnlock()

	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) start() *generation {
	g := newGeneration()

	g.wg.Add(d.workers)
	for range d.workers {
		go func() {
			defer g.wg.Done()

			for {
				j, ok := g.pop()
				if !ok {
					return
				}
				d.run(j)
			}
		}()
	}

	go func() {
		g.wg.Wait()
		close(g.done)
	}()

	return g
}

// run executes one job. A panicking job is logged and does not take the
// worker down.
func (d *Dispatcher) run(j job) {
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("dispatch task panicked", "name", d.name, "task", j.id, "panic", p, "stack", string(debug.Stack()))
		}
	}()

	j.fn()

	d.logger.Debug("dispatch task done", "name", d.name, "task", j.id, "elapsed", time.Since(start))
}
