// Package goluno is a client for the Luno exchange API.
//
// [New] builds a [client.Client] and binds every endpoint group to it, so
// all calls share one connection pool and one rate limit:
//
//	l, err := goluno.New(client.WithCredentials(key, secret))
//	if err != nil { ... }
//	defer l.Close(ctx)
//
//	book, err := l.Market.OrderBook(ctx, "", 10)
//
// For lower-level control see the
// [github.com/adamwoolhether/goluno/client] package.
package goluno

import (
	"github.com/adamwoolhether/goluno/api"
	"github.com/adamwoolhether/goluno/client"
)

// Luno is a [client.Client] with every endpoint group bound to it.
type Luno struct {
	*client.Client

	Accounts    *api.Accounts
	Market      *api.Market
	Orders      *api.Orders
	Quotes      *api.Quotes
	Receive     *api.Receive
	Withdrawals *api.Withdrawals
	Send        *api.Send
}

// New instantiates a *Luno with the provided options. Market data is
// fetched with credentials when they are configured.
func New(opts ...client.Option) (*Luno, error) {
	c, err := client.Build(opts...)
	if err != nil {
		return nil, err
	}

	return &Luno{
		Client:      c,
		Accounts:    api.NewAccounts(c),
		Market:      api.NewMarket(c, c.Authenticated()),
		Orders:      api.NewOrders(c),
		Quotes:      api.NewQuotes(c),
		Receive:     api.NewReceive(c),
		Withdrawals: api.NewWithdrawals(c),
		Send:        api.NewSend(c),
	}, nil
}
