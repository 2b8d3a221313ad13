package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Option is a functional option for [New] and [Request.With].
type Option func(*draft) error

// WithURL replaces the request URL.
func WithURL(url string) Option {
	return func(d *draft) error {
		d.URL = url
		return nil
	}
}

// WithMethod replaces the request method.
func WithMethod(method string) Option {
	return func(d *draft) error {
		d.Method = method
		return nil
	}
}

// WithHeader appends a header. Several values are joined with a comma
// into a single header; at least one value is required.
func WithHeader(key string, values ...string) Option {
	return func(d *draft) error {
		if len(values) == 0 {
			return invalid("headers", fmt.Sprintf("header %q has no value", key))
		}

		d.Headers = append(d.Headers, Header{Key: key, Value: strings.Join(values, ",")})
		return nil
	}
}

// WithBody sets the request payload and its content type.
func WithBody(contentType, payload string) Option {
	return func(d *draft) error {
		d.Body = &Body{ContentType: contentType, Payload: payload}
		return nil
	}
}

// WithJSON JSON-encodes v as the request payload.
func WithJSON(v any) Option {
	return func(d *draft) error {
		var payload bytes.Buffer
		if err := json.NewEncoder(&payload).Encode(v); err != nil {
			reqErr := invalid("body", "encoding payload: "+err.Error())
			reqErr.Cause = err
			return reqErr
		}

		d.Body = &Body{ContentType: TypeJSON, Payload: payload.String()}
		return nil
	}
}

// WithoutBody clears any payload, typically on a request derived with
// [Request.With].
func WithoutBody() Option {
	return func(d *draft) error {
		d.Body = nil
		return nil
	}
}
