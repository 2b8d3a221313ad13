package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/adamwoolhether/webclient/client/throttle"
	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for [New].
type Option func(*options) error

type options struct {
	client    *http.Client
	rt        http.RoundTripper
	userAgent string
	compress  bool
	throttle  *throttle.Config
	tracer    trace.Tracer
	logger    *slog.Logger
}

// WithHTTPClient replaces the default [http.Client]. Its CheckRedirect
// is overridden so redirects are returned rather than followed.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		o.client = hc
		return nil
	}
}

// WithRoundTripper sets a custom [http.RoundTripper] as the base transport.
// The connect timeout passed to [HTTP.Perform] only applies to the
// default base transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		o.rt = rt
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(o *options) error {
		o.userAgent = header
		return nil
	}
}

// WithCompression advertises gzip and zstd support and transparently
// decodes compressed response bodies.
func WithCompression() Option {
	return func(o *options) error {
		o.compress = true
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(o *options) error {
		cfg := throttle.Config{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("throttle: %w", err)
		}
		o.throttle = &cfg
		return nil
	}
}

// WithTracer records a span for every round trip.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		o.tracer = tracer
		return nil
	}
}

// WithLogger injects a custom [slog.Logger].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}
