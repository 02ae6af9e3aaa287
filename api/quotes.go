package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/adamwoolhether/goluno/client"
)

// Quotes lock in a price for a short time before trading at it.
type Quotes struct {
	d Dispatcher
}

func NewQuotes(d Dispatcher) *Quotes {
	return &Quotes{d: d}
}

// CreateQuote requests a quote to [Buy] or [Sell] baseAmount on pair, or
// the default pair when empty.
func (q *Quotes) CreateQuote(ctx context.Context, typ string, baseAmount decimal.Decimal, pair string) (*Quote, error) {
	if typ != Buy && typ != Sell {
		return nil, invalid("type", fmt.Sprintf("quote type must be %s or %s, got %q", Buy, Sell, typ))
	}

	return call[Quote](ctx, q.d, client.Spec{
		Call:   "quotes",
		Method: http.MethodPost,
		Body:   form("type", typ, "base_amount", dec(baseAmount), "pair", pairOr(q.d, pair)),
		Auth:   true,
	})
}

// Quote returns the state of a quote.
func (q *Quotes) Quote(ctx context.Context, id string) (*Quote, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}

	return call[Quote](ctx, q.d, client.Spec{Call: "quotes", ID: id, Auth: true})
}

// ExecuteQuote trades at the quoted price.
func (q *Quotes) ExecuteQuote(ctx context.Context, id string) (*Quote, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}

	return call[Quote](ctx, q.d, client.Spec{Call: "quotes", Method: http.MethodPut, ID: id, Auth: true})
}

// DiscardQuote gives up a quote.
func (q *Quotes) DiscardQuote(ctx context.Context, id string) (*Quote, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}

	return call[Quote](ctx, q.d, client.Spec{Call: "quotes", Method: http.MethodDelete, ID: id, Auth: true})
}
