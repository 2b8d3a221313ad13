package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adamwoolhether/webclient/client/bulk"
	"github.com/adamwoolhether/webclient/client/deferred"
	"github.com/adamwoolhether/webclient/client/delivery"
	"github.com/adamwoolhether/webclient/client/dispatch"
	"github.com/adamwoolhether/webclient/client/transport"
)

// Client sends requests synchronously, through callbacks, as deferred
// results or as blocking calls, all sharing one dispatcher.
// It is safe for concurrent use.
type Client struct {
	transport  transport.Transport
	dispatcher *dispatch.Dispatcher
	bulk       *bulk.Bulk
	delivery   deferred.Poster
	settings   *Settings
	logger     *slog.Logger

	ownsDispatcher bool
	loop           *delivery.Loop // nil unless owned
}

// Build creates a [Client] with the provided options.
// If not specified, a single-worker dispatcher, a private delivery loop
// and 3 second connect and retrieval timeouts are used.
func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client{
		settings: newSettings(),
		logger:   slog.Default(),
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.connectTimeout != nil {
		client.settings.SetConnectTimeout(*opts.connectTimeout)
	}

	if opts.waitTimeout != nil {
		client.settings.SetRetrievalTimeout(*opts.waitTimeout)
	}

	switch {
	case opts.transport != nil:
		client.transport = opts.transport
	default:
		t, err := transport.New(append(opts.httpOpts, transport.WithLogger(client.logger))...)
		if err != nil {
			return nil, fmt.Errorf("configuring transport: %w", err)
		}
		client.transport = t
	}

	switch {
	case opts.dispatcher != nil:
		client.dispatcher = opts.dispatcher
	default:
		workers := opts.workers
		if workers == 0 {
			workers = 1
		}
		d, err := dispatch.New(
			dispatch.WithWorkers(workers),
			dispatch.WithName("webclient"),
			dispatch.WithLogger(client.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("configuring dispatcher: %w", err)
		}
		client.dispatcher = d
		client.ownsDispatcher = true
	}

	switch {
	case opts.delivery != nil:
		client.delivery = opts.delivery
	default:
		client.loop = delivery.NewLoop(delivery.WithLogger(client.logger))
		client.loop.Start()
		client.delivery = client.loop
	}

	client.bulk = bulk.New(client.dispatcher, client.transport, bulk.WithLogger(client.logger))

	return client, nil
}

// Settings returns the live defaults of c.
func (c *Client) Settings() *Settings { return c.settings }

// Send performs req on the calling goroutine.
func (c *Client) Send(ctx context.Context, req *Request, opts ...CallOption) (*Response, error) {
	call, err := c.call(req, opts)
	if err != nil {
		return nil, err
	}

	return c.perform(ctx, req, c.connectTimeout(call))
}

// SendDeferred queues req on the dispatcher and returns its pending
// result. After [Client.Shutdown] the result has already failed with
// [ErrShutdown]. Cancelling the result does not interrupt a round trip
// already on the wire. The returned error only reports an invalid call.
func (c *Client) SendDeferred(req *Request, opts ...CallOption) (*deferred.Result[*Response], error) {
	call, err := c.call(req, opts)
	if err != nil {
		return nil, err
	}

	connect := c.connectTimeout(call)

	c.logger.Debug("request queued", "method", req.Method(), "url", req.URL())

	return dispatch.Submit(c.dispatcher, func(ctx context.Context) (*Response, error) {
		return c.perform(context.WithoutCancel(ctx), req, connect)
	}), nil
}

// SendAsync queues req and hands its outcome to h on the delivery
// context. h runs exactly once, including when the dispatcher is shut
// down or the transport fails.
func (c *Client) SendAsync(req *Request, h Handler[*Response], opts ...CallOption) error {
	if h == nil {
		return errors.New("handler must not be nil")
	}

	res, err := c.SendDeferred(req, opts...)
	if err != nil {
		return err
	}

	res.OnComplete(func(o deferred.Outcome[*Response]) {
		c.deliver(func() { h(o) })
	})

	return nil
}

// SendAndWait queues req and blocks until it resolves or the retrieval
// timeout elapses. On timeout it returns a [*TimeoutError] and the
// request carries on in the background with nobody observing it.
func (c *Client) SendAndWait(req *Request, opts ...CallOption) (*Response, error) {
	call, err := c.call(req, opts)
	if err != nil {
		return nil, err
	}

	res, err := c.SendDeferred(req, opts...)
	if err != nil {
		return nil, err
	}

	wait := c.settings.RetrievalTimeout()
	if call.wait != nil {
		wait = *call.wait
	}

	return res.GetTimeout(wait)
}

// SendAll sends reqs one after another on a single dispatcher task and
// resolves with the responses in request order, or with the first
// failure as a [*BulkError].
func (c *Client) SendAll(reqs []*Request, opts ...CallOption) (*deferred.Result[[]*Response], error) {
	var call callOpts
	for _, opt := range opts {
		if err := opt(&call); err != nil {
			return nil, fmt.Errorf("applying call option: %w", err)
		}
	}

	timeouts := bulk.Uniform(c.connectTimeout(call))
	if call.each != nil {
		timeouts = bulk.Each(call.each...)
	}

	return c.bulk.SendAll(reqs, timeouts, bulk.WithPacing(call.pacing))
}

// SendAllAsync is [Client.SendAll] with the outcome handed to h on the
// delivery context.
func (c *Client) SendAllAsync(reqs []*Request, h Handler[[]*Response], opts ...CallOption) error {
	if h == nil {
		return errors.New("handler must not be nil")
	}

	res, err := c.SendAll(reqs, opts...)
	if err != nil {
		return err
	}

	res.OnComplete(func(o deferred.Outcome[[]*Response]) {
		c.deliver(func() { h(o) })
	})

	return nil
}

// Shutdown stops the dispatcher from accepting work. Queued requests
// still run and their handlers still fire.
func (c *Client) Shutdown() { c.dispatcher.Shutdown() }

// Restart resumes a shut down dispatcher. It reports false if the
// dispatcher was already running.
func (c *Client) Restart() bool { return c.dispatcher.Restart() }

// Running reports whether c accepts new work.
func (c *Client) Running() bool { return c.dispatcher.Running() }

// Close shuts down what c owns: it drains an owned dispatcher, then
// closes the owned delivery loop once every queued handler has run.
// A dispatcher or delivery context supplied through options is left alone.
func (c *Client) Close(ctx context.Context) error {
	if c.ownsDispatcher {
		c.dispatcher.Shutdown()
		if err := c.dispatcher.AwaitTermination(ctx); err != nil {
			return fmt.Errorf("awaiting dispatcher: %w", err)
		}
	}

	if c.loop != nil {
		c.loop.Close()
		select {
		case <-c.loop.Done():
		case <-ctx.Done():
			return fmt.Errorf("awaiting delivery: %w", ctx.Err())
		}
	}

	return nil
}

// perform guards against transports that report neither a response nor
// an error.
func (c *Client) perform(ctx context.Context, req *Request, connect time.Duration) (*Response, error) {
	resp, err := c.transport.Perform(ctx, req, connect)
	if err == nil && resp == nil {
		return nil, &ConnectionError{
			Kind:   ErrConnection,
			Method: req.Method(),
			URL:    req.URL(),
			Err:    errNoResponse,
		}
	}

	return resp, err
}

// deliver posts fn to the delivery context, running it inline when the
// context refuses it so the handler still fires once.
func (c *Client) deliver(fn func()) {
	if err := c.delivery.Post(fn); err != nil {
		c.logger.Warn("delivery refused, running handler on worker", "error", err)
		fn()
	}
}

func (c *Client) call(req *Request, opts []CallOption) (callOpts, error) {
	var call callOpts
	if req == nil {
		return call, errors.New("request must not be nil")
	}

	for _, opt := range opts {
		if err := opt(&call); err != nil {
			return call, fmt.Errorf("applying call option: %w", err)
		}
	}

	return call, nil
}

func (c *Client) connectTimeout(call callOpts) time.Duration {
	if call.connect != nil {
		return *call.connect
	}

	return c.settings.ConnectTimeout()
}
