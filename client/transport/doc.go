// Package transport performs single blocking HTTP round trips for the
// dispatcher. It turns a [message.Request] into a [message.Response] or
// a [*ConnectionError], and nothing else: it never retries, never
// follows redirects and never caches.
//
//	t, err := transport.New(
//		transport.WithUserAgent("myapp/1.0"),
//		transport.WithThrottle(10, 5),
//	)
//	resp, err := t.Perform(ctx, req, 3*time.Second)
package transport
