// Package client is the request gateway of the exchange API: it turns a
// [Spec] into an HTTP call, holds every call behind one shared rate gate
// and classifies what comes back.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithCredentials(key, secret),
//		client.WithRateLimit(0.1, 5),
//	)
//
// # Dispatching Calls
//
// Every endpoint is one [Spec]:
//
//	res, err := c.Dispatch(ctx, client.Spec{
//		Call:  "ticker",
//		Query: url.Values{"pair": {"XBTZAR"}},
//	})
//
// Failures are classified by sentinel:
//
//	switch {
//	case errors.Is(err, client.ErrRateLimited): // 429 or 503, back off
//	case errors.Is(err, client.ErrAPI):         // any other failed call
//	case errors.Is(err, client.ErrTransport):   // no usable response
//	case errors.Is(err, client.ErrConfiguration):
//	}
//
// [*APIError] carries the URL, status and raw body of the failed call.
//
// # Async Calls
//
// [Client.DispatchAsync] runs a call on a bounded worker queue.
// [Client.Close] drains it:
//
//	p := c.DispatchAsync(ctx, spec)
//	// ... do other work ...
//	res, err := p.Result()
package client
