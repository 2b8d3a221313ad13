// Package message holds the immutable request and response values that
// flow between callers, the dispatcher and the transport.
//
// # Building a Request
//
// [New] validates a request before it can ever be dispatched:
//
//	req, err := message.New(message.MethodPost, "https://api.example.com/v1/items",
//		message.WithHeader("Accept", message.TypeJSON),
//		message.WithJSON(item),
//	)
//
// A missing URL or method, an empty header key or a header without values
// fails with a [*RequestError]. Requests never change after [New] returns;
// use [Request.With] to derive a modified copy.
package message
