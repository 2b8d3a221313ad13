package bulk

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// Option configures a [Bulk].
type Option func(*Bulk)

// WithLogger injects a custom [slog.Logger].
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bulk) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// SendOption configures a single [Bulk.SendAll] call.
type SendOption func(*sendOptions) error

type sendOptions struct {
	pacing time.Duration
}

// WithPacing idles for d between consecutive sends. No delay follows the
// last request.
func WithPacing(d time.Duration) SendOption {
	return func(o *sendOptions) error {
		if d < 0 {
			return errors.New("pacing must not be negative")
		}
		o.pacing = d
		return nil
	}
}

// Timeouts holds the connect timeouts for a batch, either one shared
// value or one per request.
type Timeouts struct {
	uniform time.Duration
	each    []time.Duration
	perReq  bool
}

// Uniform applies d to every request in the batch.
func Uniform(d time.Duration) Timeouts {
	return Timeouts{uniform: d}
}

// Each applies ds[i] to request i. The batch is refused unless
// len(ds) equals the number of requests.
func Each(ds ...time.Duration) Timeouts {
	return Timeouts{each: ds, perReq: true}
}

func (t Timeouts) resolve(n int) ([]time.Duration, error) {
	if t.perReq {
		if len(t.each) != n {
			return nil, fmt.Errorf("%w: %d timeouts for %d requests", ErrTimeoutsMismatch, len(t.each), n)
		}
		return slices.Clone(t.each), nil
	}

	out := make([]time.Duration, n)
	for i := range out {
		out[i] = t.uniform
	}

	return out, nil
}
