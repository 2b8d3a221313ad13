package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/adamwoolhether/webclient/client/deferred"
	"github.com/adamwoolhether/webclient/client/dispatch"
	"github.com/adamwoolhether/webclient/client/transport"
	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	transport      transport.Transport
	httpOpts       []transport.Option
	dispatcher     *dispatch.Dispatcher
	workers        int
	delivery       deferred.Poster
	connectTimeout *time.Duration
	waitTimeout    *time.Duration
	logger         *slog.Logger
}

// WithTransport replaces the HTTP transport entirely. Options that
// configure the built-in transport are ignored when it is set.
func WithTransport(t transport.Transport) Option {
	return func(c *options) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		c.transport = t
		return nil
	}
}

// WithHTTPClient replaces the default [http.Client] of the built-in
// transport. Redirects are never followed regardless of its settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *options) error {
		c.httpOpts = append(c.httpOpts, transport.WithHTTPClient(hc))
		return nil
	}
}

// WithRoundTripper sets a custom [http.RoundTripper] as the base transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *options) error {
		c.httpOpts = append(c.httpOpts, transport.WithRoundTripper(rt))
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.httpOpts = append(c.httpOpts, transport.WithUserAgent(header))
		return nil
	}
}

// WithCompression lets servers compress response bodies; they are
// decoded before reaching the [Response].
func WithCompression() Option {
	return func(c *options) error {
		c.httpOpts = append(c.httpOpts, transport.WithCompression())
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		c.httpOpts = append(c.httpOpts, transport.WithThrottle(rps, burst))
		return nil
	}
}

// WithTracer records an OpenTelemetry span for every round trip.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		c.httpOpts = append(c.httpOpts, transport.WithTracer(tracer))
		return nil
	}
}

// WithDispatcher runs work on d instead of a dispatcher owned by the
// [Client]. [Client.Close] leaves d running.
func WithDispatcher(d *dispatch.Dispatcher) Option {
	return func(c *options) error {
		if d == nil {
			return errors.New("dispatcher must not be nil")
		}
		c.dispatcher = d
		return nil
	}
}

// WithWorkers sizes the owned dispatcher. One worker, the default, runs
// requests strictly in submission order.
func WithWorkers(n int) Option {
	return func(c *options) error {
		if n <= 0 {
			return fmt.Errorf("workers[%d] must be positive", n)
		}
		c.workers = n
		return nil
	}
}

// WithDelivery sets where async handlers run. If unset, the [Client]
// starts its own delivery loop.
func WithDelivery(p deferred.Poster) Option {
	return func(c *options) error {
		if p == nil {
			return errors.New("delivery must not be nil")
		}
		c.delivery = p
		return nil
	}
}

// WithConnectTimeout sets the initial default connect timeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d <= 0 {
			return errors.New("connect timeout must be positive")
		}
		c.connectTimeout = &d
		return nil
	}
}

// WithRetrievalTimeout sets the initial default wait used by
// [Client.SendAndWait].
func WithRetrievalTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d <= 0 {
			return errors.New("retrieval timeout must be positive")
		}
		c.waitTimeout = &d
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// CallOption overrides the client defaults for a single call.
type CallOption func(*callOpts) error

type callOpts struct {
	connect *time.Duration
	wait    *time.Duration
	each    []time.Duration
	pacing  time.Duration
}

// WithConnect overrides the connect timeout.
func WithConnect(d time.Duration) CallOption {
	return func(opts *callOpts) error {
		if d <= 0 {
			return errors.New("connect timeout must be positive")
		}
		opts.connect = &d
		return nil
	}
}

// WithWait overrides how long [Client.SendAndWait] blocks.
func WithWait(d time.Duration) CallOption {
	return func(opts *callOpts) error {
		if d <= 0 {
			return errors.New("wait timeout must be positive")
		}
		opts.wait = &d
		return nil
	}
}

// WithEach gives every request of a bulk call its own connect timeout.
// The number of durations must match the number of requests.
func WithEach(ds ...time.Duration) CallOption {
	return func(opts *callOpts) error {
		for _, d := range ds {
			if d <= 0 {
				return errors.New("connect timeout must be positive")
			}
		}
		opts.each = ds
		return nil
	}
}

// WithPacing idles between consecutive requests of a bulk call.
func WithPacing(d time.Duration) CallOption {
	return func(opts *callOpts) error {
		if d < 0 {
			return errors.New("pacing must not be negative")
		}
		opts.pacing = d
		return nil
	}
}
