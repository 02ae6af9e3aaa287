package api

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/adamwoolhether/goluno/client"
)

type Send struct {
	d Dispatcher
}

func NewSend(d Dispatcher) *Send {
	return &Send{d: d}
}

// SendRequest sends Amount of Currency to Address, an address or an
// email registered with the exchange.
type SendRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Address     string
	Description string
	Message     string
}

// Send sends funds out of the account.
func (s *Send) Send(ctx context.Context, sr SendRequest) (*SendResult, error) {
	if sr.Address == "" {
		return nil, invalid("address", "This field is required")
	}
	if sr.Amount.Sign() <= 0 {
		return nil, invalid("amount", "amount must be positive")
	}

	return call[SendResult](ctx, s.d, client.Spec{
		Call:   "send",
		Method: http.MethodPost,
		Body: form(
			"amount", dec(sr.Amount),
			"currency", sr.Currency,
			"address", sr.Address,
			"description", sr.Description,
			"message", sr.Message,
		),
		Auth: true,
	})
}
