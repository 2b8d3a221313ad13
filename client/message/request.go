package message

import (
	"net/http"
	"slices"
)

// Request methods understood by every transport.
const (
	MethodGet    = http.MethodGet
	MethodPost   = http.MethodPost
	MethodPut    = http.MethodPut
	MethodDelete = http.MethodDelete
)

// Common body content types.
const (
	TypeJSON       = "application/json"
	TypeXML        = "application/xml"
	TypeURLEncoded = "application/x-www-form-urlencoded"
	TypeHTML       = "text/html"
	TypePlain      = "text/plain"
	TypeWildcard   = "*/*"
)

// Header is a single request or response header. Multiple values for
// one key are stored pre-joined with a comma.
type Header struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// Body is the payload sent with a request.
type Body struct {
	ContentType string `json:"contentType" validate:"required"`
	Payload     string `json:"payload"`
}

// draft is the mutable form of a Request while options are applied.
type draft struct {
	URL     string   `json:"url" validate:"required"`
	Method  string   `json:"method" validate:"required"`
	Headers []Header `json:"headers" validate:"dive"`
	Body    *Body    `json:"body"`
}

// Request is a validated, immutable HTTP request description. The same
// Request may be sent any number of times.
type Request struct {
	d draft
}

// New builds a Request for the given method and URL. The request is
// validated before it is returned; an invalid request yields a
// [*RequestError] and is never dispatched.
func New(method, url string, opts ...Option) (*Request, error) {
	d := draft{URL: url, Method: method}

	return build(d, opts)
}

// With derives a new validated Request from r with opts applied on top.
// r itself is left untouched.
func (r *Request) With(opts ...Option) (*Request, error) {
	return build(r.clone(), opts)
}

// Clone returns an independent copy of r.
func (r *Request) Clone() *Request {
	return &Request{d: r.clone()}
}

// URL returns the request target.
func (r *Request) URL() string { return r.d.URL }

// Method returns the request method.
func (r *Request) Method() string { return r.d.Method }

// Headers returns a copy of the request headers in the order they were added.
func (r *Request) Headers() []Header { return slices.Clone(r.d.Headers) }

// Body returns the request body and whether one was set.
func (r *Request) Body() (Body, bool) {
	if r.d.Body == nil {
		return Body{}, false
	}

	return *r.d.Body, true
}

func (r *Request) clone() draft {
	d := r.d
	d.Headers = slices.Clone(r.d.Headers)
	if r.d.Body != nil {
		b := *r.d.Body
		d.Body = &b
	}

	return d
}

func build(d draft, opts []Option) (*Request, error) {
	for _, opt := range opts {
		if err := opt(&d); err != nil {
			return nil, err
		}
	}

	if err := Validate(d); err != nil {
		return nil, err
	}

	return &Request{d: d}, nil
}
