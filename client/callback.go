package client

import (
	"net/http"

	"github.com/adamwoolhether/webclient/client/deferred"
)

// Handler receives the single outcome of an async call.
type Handler[T any] func(deferred.Outcome[T])

// Split builds a [Handler] from separate success and failure functions.
// Either may be nil.
func Split[T any](onSuccess func(T), onFailure func(error)) Handler[T] {
	return func(o deferred.Outcome[T]) {
		switch {
		case o.Err != nil:
			if onFailure != nil {
				onFailure(o.Err)
			}
		case onSuccess != nil:
			onSuccess(o.Value)
		}
	}
}

// Callbacks routes a response by status. Responses below 300 go to
// OnSuccess, any other response to OnFailure and errors to OnException.
// A missing response counts as an error. Nil slots are skipped.
type Callbacks struct {
	OnSuccess   func(*Response)
	OnFailure   func(*Response)
	OnException func(error)
}

// Handler returns the [Handler] that dispatches to cb.
func (cb Callbacks) Handler() Handler[*Response] {
	return func(o deferred.Outcome[*Response]) {
		if o.Err == nil && o.Value == nil {
			o.Err = errNoResponse
		}

		switch {
		case o.Err != nil:
			if cb.OnException != nil {
				cb.OnException(o.Err)
			}
		case o.Value.StatusCode() < http.StatusMultipleChoices:
			if cb.OnSuccess != nil {
				cb.OnSuccess(o.Value)
			}
		default:
			if cb.OnFailure != nil {
				cb.OnFailure(o.Value)
			}
		}
	}
}
