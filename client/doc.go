// Package client sends HTTP requests through a shared dispatcher and
// reports their outcome in the style the caller prefers.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithConnectTimeout(2*time.Second),
//		client.WithUserAgent("myapp/1.0"),
//	)
//	defer c.Close(ctx)
//
// Options can also come from a YAML file through [LoadConfig] and
// [WithConfig].
//
// # Making Requests
//
// Build a validated [Request], then pick a call shape:
//
//	req, err := client.NewRequest(http.MethodGet, "https://api.example.com/v1/resource")
//
//	resp, err := c.Send(ctx, req)           // on the calling goroutine
//	resp, err := c.SendAndWait(req)         // on the dispatcher, caller blocks
//	res, err := c.SendDeferred(req)         // a [deferred.Result] to chain on
//	err = c.SendAsync(req, client.Callbacks{ // handler on the delivery context
//		OnSuccess:   func(r *client.Response) { ... },
//		OnFailure:   func(r *client.Response) { ... },
//		OnException: func(err error) { ... },
//	}.Handler())
//
// Every call shape accepts [CallOption]s that override the defaults held
// in [Settings] for that call only.
//
// # Bulk Requests
//
// [Client.SendAll] sends several requests strictly in order and fails on
// the first transport error without sending the rest:
//
//	res, err := c.SendAll(reqs, client.WithPacing(100*time.Millisecond))
//	resps, err := res.Get()
//
// # Delivery
//
// Async handlers run on a single delivery goroutine owned by the client,
// so they never run concurrently with each other. Supply your own with
// [WithDelivery], for example a [delivery.Loop] driven from main with
// [delivery.Loop.Run].
//
// For lower-level control see the
// [github.com/adamwoolhether/webclient/client/deferred] and
// [github.com/adamwoolhether/webclient/client/dispatch] packages.
package client
