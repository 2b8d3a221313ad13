// Package dispatch runs units of work off the caller's goroutine.
//
// A [Dispatcher] owns one worker by default, which executes tasks strictly
// in submission order. [WithWorkers] turns it into a bounded pool that
// starts tasks in submission order but runs them concurrently.
//
//	d, err := dispatch.New()
//	if err != nil {
//		return err
//	}
//	defer d.Shutdown()
//
//	r := dispatch.Submit(d, func(ctx context.Context) (string, error) {
//		return fetch(ctx)
//	})
//	v, err := r.Get()
//
// After [Dispatcher.Shutdown] new work is refused with [ErrShutdown] while
// work already queued still runs. [Dispatcher.Restart] brings up a fresh
// set of workers.
package dispatch
