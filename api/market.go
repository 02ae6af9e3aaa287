package api

import (
	"context"
	"time"

	"github.com/adamwoolhether/goluno/client"
)

// Market reads public market data. Authenticated market calls count
// against the account's limits instead of the caller's IP.
type Market struct {
	d    Dispatcher
	auth bool
}

// NewMarket returns the market endpoints. auth attaches credentials to
// every call.
func NewMarket(d Dispatcher, auth bool) *Market {
	return &Market{d: d, auth: auth}
}

// Ticker returns the latest ticker for pair, or the default pair when
// pair is empty.
func (m *Market) Ticker(ctx context.Context, pair string) (*Ticker, error) {
	return call[Ticker](ctx, m.d, client.Spec{
		Call:  "ticker",
		Query: form("pair", pairOr(m.d, pair)),
		Auth:  m.auth,
	})
}

// Tickers returns the latest ticker of every market.
func (m *Market) Tickers(ctx context.Context) ([]Ticker, error) {
	t, err := call[tickers](ctx, m.d, client.Spec{Call: "tickers", Auth: m.auth})
	if err != nil {
		return nil, err
	}

	return t.Tickers, nil
}

// OrderBook returns the bids and asks of pair. A positive limit keeps
// only the best limit levels of each side.
func (m *Market) OrderBook(ctx context.Context, pair string, limit int) (*OrderBook, error) {
	book, err := call[OrderBook](ctx, m.d, client.Spec{
		Call:  "orderbook",
		Query: form("pair", pairOr(m.d, pair)),
		Auth:  m.auth,
	})
	if err != nil {
		return nil, err
	}

	book.Bids = truncate(book.Bids, limit)
	book.Asks = truncate(book.Asks, limit)

	return book, nil
}

// Trades returns the most recent trades of pair, optionally only those
// after since. A positive limit keeps only the first limit trades.
func (m *Market) Trades(ctx context.Context, pair string, since time.Time, limit int) ([]Trade, error) {
	q := form("pair", pairOr(m.d, pair))
	if !since.IsZero() {
		q.Set("since", itoa(since.UnixMilli()))
	}

	t, err := call[trades](ctx, m.d, client.Spec{Call: "trades", Query: q, Auth: m.auth})
	if err != nil {
		return nil, err
	}

	return truncate(t.Trades, limit), nil
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}

	return s
}
