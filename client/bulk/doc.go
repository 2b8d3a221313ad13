// Package bulk sends an ordered batch of requests as one unit of work.
//
// Requests go out strictly one after another on a single executor task:
// request i+1 is never sent before the round trip for request i has
// returned. The first failure aborts the batch and is the only thing
// reported; there is no partial result.
//
//	b := bulk.New(dispatcher, httpTransport)
//	res, err := b.SendAll(reqs, bulk.Uniform(3*time.Second), bulk.WithPacing(100*time.Millisecond))
//	if err != nil {
//		return err // timeouts did not line up with reqs
//	}
//	resps, err := res.Get()
package bulk
