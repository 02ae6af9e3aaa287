package api

import (
	"context"
	"net/http"

	"github.com/adamwoolhether/goluno/client"
)

// Receive manages the addresses funds are received on.
type Receive struct {
	d Dispatcher
}

func NewReceive(d Dispatcher) *Receive {
	return &Receive{d: d}
}

// ReceiveAddress returns the default receive address for asset, or the
// given address when set, with what it has received.
func (r *Receive) ReceiveAddress(ctx context.Context, asset, address string) (*FundingAddress, error) {
	return call[FundingAddress](ctx, r.d, client.Spec{
		Call:  "funding_address",
		Query: form("asset", asset, "address", address),
		Auth:  true,
	})
}

// CreateReceiveAddress allocates a new receive address for asset. The
// exchange allows one an hour with bursts of ten.
func (r *Receive) CreateReceiveAddress(ctx context.Context, asset string) (*FundingAddress, error) {
	return call[FundingAddress](ctx, r.d, client.Spec{
		Call:   "funding_address",
		Method: http.MethodPost,
		Body:   form("asset", asset),
		Auth:   true,
	})
}
