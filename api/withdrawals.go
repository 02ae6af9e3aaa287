package api

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/adamwoolhether/goluno/client"
)

type Withdrawals struct {
	d Dispatcher
}

func NewWithdrawals(d Dispatcher) *Withdrawals {
	return &Withdrawals{d: d}
}

// ListWithdrawals returns the account's withdrawal requests.
func (w *Withdrawals) ListWithdrawals(ctx context.Context) ([]Withdrawal, error) {
	l, err := call[withdrawals](ctx, w.d, client.Spec{Call: "withdrawals", Auth: true})
	if err != nil {
		return nil, err
	}

	return l.Withdrawals, nil
}

// CreateWithdrawal requests a withdrawal of the given type, such as
// ZAR_EFT. beneficiaryID may be empty to use the default beneficiary.
func (w *Withdrawals) CreateWithdrawal(ctx context.Context, typ string, amount decimal.Decimal, beneficiaryID string) (*Withdrawal, error) {
	return call[Withdrawal](ctx, w.d, client.Spec{
		Call:   "withdrawals",
		Method: http.MethodPost,
		Body:   form("type", typ, "amount", dec(amount), "beneficiary_id", beneficiaryID),
		Auth:   true,
	})
}

// Withdrawal returns the status of one withdrawal request.
func (w *Withdrawals) Withdrawal(ctx context.Context, id string) (*Withdrawal, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}

	return call[Withdrawal](ctx, w.d, client.Spec{Call: "withdrawals", ID: id, Auth: true})
}

// CancelWithdrawal cancels a withdrawal request that has not been
// processed yet.
func (w *Withdrawals) CancelWithdrawal(ctx context.Context, id string) (*Withdrawal, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}

	return call[Withdrawal](ctx, w.d, client.Spec{Call: "withdrawals", Method: http.MethodDelete, ID: id, Auth: true})
}
