package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adamwoolhether/goluno/client"
)

// Orders are the trading endpoints.
type Orders struct {
	d Dispatcher
}

func NewOrders(d Dispatcher) *Orders {
	return &Orders{d: d}
}

// LimitOrder is a limit order on Pair, or the default pair when empty.
// Type is [Bid] or [Ask].
type LimitOrder struct {
	Pair             string
	Type             string
	Volume           decimal.Decimal
	Price            decimal.Decimal
	BaseAccountID    string
	CounterAccountID string
}

// PostLimitOrder places a limit order.
func (o *Orders) PostLimitOrder(ctx context.Context, lo LimitOrder) (*OrderRef, error) {
	if lo.Type != Bid && lo.Type != Ask {
		return nil, invalid("type", fmt.Sprintf("limit order type must be %s or %s, got %q", Bid, Ask, lo.Type))
	}

	return call[OrderRef](ctx, o.d, client.Spec{
		Call:   "postorder",
		Method: http.MethodPost,
		Body: form(
			"pair", pairOr(o.d, lo.Pair),
			"type", lo.Type,
			"volume", dec(lo.Volume),
			"price", dec(lo.Price),
			"base_account_id", lo.BaseAccountID,
			"counter_account_id", lo.CounterAccountID,
		),
		Auth: true,
	})
}

// MarketOrder is a market order on Pair, or the default pair when empty.
// Type is [Buy], spending Volume of the counter currency, or [Sell],
// selling Volume of the base currency.
type MarketOrder struct {
	Pair             string
	Type             string
	Volume           decimal.Decimal
	BaseAccountID    string
	CounterAccountID string
}

// PostMarketOrder places a market order.
func (o *Orders) PostMarketOrder(ctx context.Context, mo MarketOrder) (*OrderRef, error) {
	volumeKey := "base_volume"
	switch mo.Type {
	case Buy:
		volumeKey = "counter_volume"
	case Sell:
	default:
		return nil, invalid("type", fmt.Sprintf("market order type must be %s or %s, got %q", Buy, Sell, mo.Type))
	}

	return call[OrderRef](ctx, o.d, client.Spec{
		Call:   "marketorder",
		Method: http.MethodPost,
		Body: form(
			"pair", pairOr(o.d, mo.Pair),
			"type", mo.Type,
			volumeKey, dec(mo.Volume),
			"base_account_id", mo.BaseAccountID,
			"counter_account_id", mo.CounterAccountID,
		),
		Auth: true,
	})
}

// StopOrder cancels an order and reports whether the exchange accepted.
func (o *Orders) StopOrder(ctx context.Context, orderID string) (bool, error) {
	if err := required("order_id", orderID); err != nil {
		return false, err
	}

	s, err := call[success](ctx, o.d, client.Spec{
		Call:   "stoporder",
		Method: http.MethodPost,
		Body:   form("order_id", orderID),
		Auth:   true,
	})
	if err != nil {
		return false, err
	}

	return s.Success, nil
}

// StopAllOrders stops every pending order on pair, or the default pair
// when empty. It returns whether each stop succeeded, keyed by order id.
// It stops at the first failed call, returning what was stopped so far.
func (o *Orders) StopAllOrders(ctx context.Context, pair string) (map[string]bool, error) {
	pending, err := NewAccounts(o.d).ListOrders(ctx, pair, StatePending)
	if err != nil {
		return nil, fmt.Errorf("listing pending orders: %w", err)
	}

	stopped := make(map[string]bool, len(pending))
	for _, order := range pending {
		ok, err := o.StopOrder(ctx, order.OrderID)
		if err != nil {
			return stopped, fmt.Errorf("stopping order %s: %w", order.OrderID, err)
		}
		stopped[order.OrderID] = ok
	}

	return stopped, nil
}

// Order returns one order.
func (o *Orders) Order(ctx context.Context, orderID string) (*Order, error) {
	if err := required("order_id", orderID); err != nil {
		return nil, err
	}

	return call[Order](ctx, o.d, client.Spec{Call: "orders", ID: orderID, Auth: true})
}

// ListTrades returns the account's trades on pair, or the default pair
// when empty, optionally only those after since and at most limit.
func (o *Orders) ListTrades(ctx context.Context, pair string, since time.Time, limit int) ([]UserTrade, error) {
	q := form("pair", pairOr(o.d, pair))
	if !since.IsZero() {
		q.Set("since", itoa(since.UnixMilli()))
	}
	if limit > 0 {
		q.Set("limit", itoa(int64(limit)))
	}

	t, err := call[userTrades](ctx, o.d, client.Spec{Call: "listtrades", Query: q, Auth: true})
	if err != nil {
		return nil, err
	}

	return t.Trades, nil
}

// FeeInfo returns the account's fees on pair, or the default pair when
// empty.
func (o *Orders) FeeInfo(ctx context.Context, pair string) (*FeeInfo, error) {
	return call[FeeInfo](ctx, o.d, client.Spec{
		Call:  "fee_info",
		Query: form("pair", pairOr(o.d, pair)),
		Auth:  true,
	})
}
