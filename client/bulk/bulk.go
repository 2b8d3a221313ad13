package bulk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adamwoolhether/webclient/client/deferred"
	"github.com/adamwoolhether/webclient/client/message"
	"github.com/adamwoolhether/webclient/client/transport"
	"github.com/google/uuid"
)

// Bulk runs batches through a [transport.Transport] on an executor it
// does not own.
type Bulk struct {
	exec      deferred.Executor
	transport transport.Transport
	logger    *slog.Logger
}

// New returns a Bulk that schedules each batch as one task on exec.
func New(exec deferred.Executor, t transport.Transport, opts ...Option) *Bulk {
	b := Bulk{
		exec:      exec,
		transport: t,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(&b)
	}

	return &b
}

// SendAll sends reqs in order and resolves with one response per request,
// in the same order. The first transport failure settles the result with
// an [*Error] and the remaining requests are never sent.
//
// Mismatched timeouts, a nil request or an invalid option are reported
// synchronously and nothing is scheduled. Cancelling the result stops the
// batch before its next send.
func (b *Bulk) SendAll(reqs []*message.Request, timeouts Timeouts, optFns ...SendOption) (*deferred.Result[[]*message.Response], error) {
	var opts sendOptions
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying send option: %w", err)
		}
	}

	connect, err := timeouts.resolve(len(reqs))
	if err != nil {
		return nil, err
	}

	for i, req := range reqs {
		if req == nil {
			return nil, fmt.Errorf("request %d: %w", i, ErrNilRequest)
		}
	}

	batch := make([]*message.Request, len(reqs))
	copy(batch, reqs)

	id := uuid.New()

	res := deferred.SupplyAsync(b.exec, func(ctx context.Context) ([]*message.Response, error) {
		return b.run(ctx, id, batch, connect, opts.pacing)
	})

	return res, nil
}

func (b *Bulk) run(ctx context.Context, id uuid.UUID, reqs []*message.Request, connect []time.Duration, pacing time.Duration) ([]*message.Response, error) {
	start := time.Now()
	resps := make([]*message.Response, 0, len(reqs))

	for i, req := range reqs {
		if i > 0 && pacing > 0 {
			if err := pause(ctx, pacing); err != nil {
				return nil, &Error{Index: i, URL: req.URL(), Err: err}
			}
		}

		if err := ctx.Err(); err != nil {
			return nil, &Error{Index: i, URL: req.URL(), Err: err}
		}

		// Cancellation is checked between sends only; a started round trip
		// is never interrupted.
		resp, err := b.transport.Perform(context.WithoutCancel(ctx), req, connect[i])
		if err == nil && resp == nil {
			err = errNoResponse
		}
		if err != nil {
			b.logger.Debug("bulk aborted", "batch", id, "index", i, "error", err)
			return nil, &Error{Index: i, URL: req.URL(), Err: err}
		}

		resps = append(resps, resp)
	}

	b.logger.Debug("bulk complete",
		"batch", id,
		"requests", len(reqs),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return resps, nil
}

func pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
