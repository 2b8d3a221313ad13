package message

import (
	"net/http"
	"slices"
	"strings"
)

// UnknownContentType is reported by [Response.ContentType] when the
// server did not send a Content-Type header.
const UnknownContentType = "unknown"

// Response is the immutable result of one completed round trip.
type Response struct {
	statusCode  int
	headers     []Header
	contentType string
	body        string
}

// NewResponse captures a status code, header set and body. Header values
// sharing a key are joined with a comma and keys are sorted so the
// result does not depend on map iteration order.
func NewResponse(statusCode int, header http.Header, body string) *Response {
	resp := Response{
		statusCode:  statusCode,
		headers:     make([]Header, 0, len(header)),
		contentType: UnknownContentType,
		body:        body,
	}

	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		resp.headers = append(resp.headers, Header{Key: k, Value: strings.Join(header[k], ",")})
	}

	if ct := header.Values("Content-Type"); len(ct) > 0 {
		resp.contentType = ct[0]
	}

	return &resp
}

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int { return r.statusCode }

// Headers returns a copy of the response headers.
func (r *Response) Headers() []Header { return slices.Clone(r.headers) }

// ContentType returns the Content-Type header, or [UnknownContentType].
func (r *Response) ContentType() string { return r.contentType }

// Body returns the response body.
func (r *Response) Body() string { return r.body }

// Header returns the value stored for key, matched case-insensitively.
func (r *Response) Header(key string) (string, bool) {
	for _, h := range r.headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value, true
		}
	}

	return "", false
}

// Successful reports whether the status code is below 300.
func (r *Response) Successful() bool {
	return r.statusCode < http.StatusMultipleChoices
}
