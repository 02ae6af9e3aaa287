// Package api wraps each exchange endpoint as one typed call on top of a
// [Dispatcher], usually a [*client.Client].
//
// Endpoints are grouped the way the exchange documents them:
//
//	d, _ := client.Build(client.WithCredentials(key, secret))
//	market := api.NewMarket(d, false)
//	book, err := market.OrderBook(ctx, "", 10)
//
// Every method returns the errors of [client.Client.Dispatch] unchanged,
// so failures are classified with [client.ErrRateLimited], [client.ErrAPI]
// and friends.
package api
