package client

import (
	"github.com/adamwoolhether/webclient/client/bulk"
	"github.com/adamwoolhether/webclient/client/deferred"
	"github.com/adamwoolhether/webclient/client/delivery"
	"github.com/adamwoolhether/webclient/client/dispatch"
	"github.com/adamwoolhether/webclient/client/message"
	"github.com/adamwoolhether/webclient/client/transport"
)

// -------------------------------------------------------------------------
// Type aliases re-exporting user-facing types from the sub packages.
// -------------------------------------------------------------------------

type (
	// Request is an immutable, validated HTTP request.
	Request = message.Request

	// Response is the immutable result of one round trip.
	Response = message.Response

	// Header is a single key and comma-joined value.
	Header = message.Header

	// RequestOption configures a [Request].
	RequestOption = message.Option

	// RequestError reports why a request failed validation.
	RequestError = message.RequestError

	// ConnectionError reports a failed round trip.
	ConnectionError = transport.ConnectionError

	// TimeoutError reports that a wait gave up before the work finished.
	TimeoutError = deferred.TimeoutError

	// BulkError reports the request that aborted a bulk call.
	BulkError = bulk.Error
)

// -------------------------------------------------------------------------
// Sentinel errors
// -------------------------------------------------------------------------

var (
	// ErrInvalidRequest indicates a request failed validation.
	ErrInvalidRequest = message.ErrInvalidRequest

	// ErrMalformedAddress indicates the request URL cannot be dialed.
	ErrMalformedAddress = transport.ErrMalformedAddress

	// ErrConnectTimeout indicates the connection was not established in time.
	ErrConnectTimeout = transport.ErrConnectTimeout

	// ErrConnection indicates any other transport failure.
	ErrConnection = transport.ErrConnection

	// ErrTimeout indicates a wait timed out. The work itself was not cancelled.
	ErrTimeout = deferred.ErrTimeout

	// ErrCancelled indicates the call was cancelled.
	ErrCancelled = deferred.ErrCancelled

	// ErrShutdown indicates work was submitted after [Client.Shutdown].
	ErrShutdown = dispatch.ErrShutdown

	// ErrDeliveryClosed indicates the delivery loop no longer accepts handlers.
	ErrDeliveryClosed = delivery.ErrClosed

	// ErrTimeoutsMismatch indicates per-request timeouts did not match the requests.
	ErrTimeoutsMismatch = bulk.ErrTimeoutsMismatch
)

// -------------------------------------------------------------------------
// Request forwarding functions
// -------------------------------------------------------------------------

// NewRequest builds and validates a [Request]. See [message.New].
func NewRequest(method, url string, opts ...RequestOption) (*Request, error) {
	return message.New(method, url, opts...)
}

// WithHeader adds a header, joining values with a comma.
func WithHeader(key string, values ...string) RequestOption {
	return message.WithHeader(key, values...)
}

// WithBody sets the request body and its content type.
func WithBody(contentType, payload string) RequestOption {
	return message.WithBody(contentType, payload)
}

// WithJSON encodes v as the request body.
func WithJSON(v any) RequestOption { return message.WithJSON(v) }
