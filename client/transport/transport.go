package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adamwoolhether/webclient/client/message"
	"github.com/adamwoolhether/webclient/client/throttle"
	"github.com/klauspost/compress/gzhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Transport performs one blocking round trip. connectTimeout bounds
// establishing the connection, not the whole exchange.
type Transport interface {
	Perform(ctx context.Context, req *message.Request, connectTimeout time.Duration) (*message.Response, error)
}

// Func adapts a function to the [Transport] interface.
type Func func(ctx context.Context, req *message.Request, connectTimeout time.Duration) (*message.Response, error)

// Perform calls f.
func (f Func) Perform(ctx context.Context, req *message.Request, connectTimeout time.Duration) (*message.Response, error) {
	return f(ctx, req, connectTimeout)
}

// HTTP is the [net/http] backed [Transport].
type HTTP struct {
	c      *http.Client
	tracer trace.Tracer
	logger *slog.Logger
}

type connectTimeoutKey struct{}

// New builds an HTTP transport with the provided options.
// If not specified, a clone of [http.DefaultTransport] is used whose
// dialer honors the per-call connect timeout.
func New(optFns ...Option) (*HTTP, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying transport option: %w", err)
		}
	}

	t := &HTTP{
		tracer: noop.NewTracerProvider().Tracer(""),
		logger: slog.Default(),
	}

	if opts.tracer != nil {
		t.tracer = opts.tracer
	}

	if opts.logger != nil {
		t.logger = opts.logger
	}

	var hc http.Client
	if opts.client != nil {
		hc = *opts.client
	}

	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	var rt http.RoundTripper
	switch {
	case opts.rt != nil:
		rt = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		rt = opts.client.Transport
	default:
		rt = baseTransport()
	}
	if opts.compress {
		rt = gzhttp.Transport(rt)
	}
	if opts.userAgent != "" {
		rt = userAgent{value: opts.userAgent, base: rt}
	}
	if opts.throttle != nil {
		throttled, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return t.logger }, rt)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		rt = throttled
	}
	hc.Transport = rt

	t.c = &hc

	return t, nil
}

// Perform executes req and reads the full response body.
func (t *HTTP) Perform(ctx context.Context, req *message.Request, connectTimeout time.Duration) (*message.Response, error) {
	ctx, span := t.tracer.Start(ctx, "transport.perform", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("http.method", req.Method()),
		attribute.String("url", req.URL()),
		attribute.Int64("connect_timeout_ms", connectTimeout.Milliseconds()),
	)

	resp, err := t.perform(ctx, req, connectTimeout)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))

	return resp, nil
}

func (t *HTTP) perform(ctx context.Context, req *message.Request, connectTimeout time.Duration) (*message.Response, error) {
	u, err := url.Parse(req.URL())
	if err == nil && (u.Scheme == "" || u.Host == "") {
		err = errors.New("missing scheme or host")
	}
	if err != nil {
		return nil, fail(ErrMalformedAddress, req, err)
	}

	var payload io.Reader = http.NoBody
	body, hasBody := req.Body()
	if hasBody {
		payload = strings.NewReader(body.Payload)
	}

	ctx = context.WithValue(ctx, connectTimeoutKey{}, connectTimeout)

	hreq, err := http.NewRequestWithContext(ctx, req.Method(), u.String(), payload)
	if err != nil {
		return nil, fail(ErrConnection, req, fmt.Errorf("instantiating request: %w", err))
	}

	for _, h := range req.Headers() {
		hreq.Header.Add(h.Key, h.Value)
	}
	if hasBody {
		hreq.Header.Set("Content-Type", body.ContentType)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(hreq.Header))

	start := time.Now()

	resp, err := t.c.Do(hreq)
	if err != nil {
		return nil, fail(classify(err), req, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.logger.Error("failed to close response body", "error", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail(classify(err), req, fmt.Errorf("reading body: %w", err))
	}

	t.logger.Debug("round trip complete",
		"method", req.Method(),
		"url", req.URL(),
		"status", resp.StatusCode,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return message.NewResponse(resp.StatusCode, resp.Header, string(data)), nil
}

// baseTransport clones the default transport with a dialer that reads
// the connect timeout from the request context.
func baseTransport() *http.Transport {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.ForceAttemptHTTP2 = false

	dialer := net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	base.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		d := dialer
		if timeout, ok := ctx.Value(connectTimeoutKey{}).(time.Duration); ok && timeout > 0 {
			d.Timeout = timeout
		}
		return d.DialContext(ctx, network, addr)
	}

	return base
}

func classify(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrConnectTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrConnectTimeout
	}

	return ErrConnection
}

func fail(kind error, req *message.Request, err error) *ConnectionError {
	return &ConnectionError{
		Kind:   kind,
		Method: req.Method(),
		URL:    req.URL(),
		Err:    err,
	}
}
