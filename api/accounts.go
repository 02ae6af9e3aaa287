package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/adamwoolhether/goluno/client"
)

// Accounts are the authenticated account endpoints.
type Accounts struct {
	d Dispatcher
}

func NewAccounts(d Dispatcher) *Accounts {
	return &Accounts{d: d}
}

// CreateAccount opens an account in currency.
func (a *Accounts) CreateAccount(ctx context.Context, currency, name string) (*Account, error) {
	return call[Account](ctx, a.d, client.Spec{
		Call:   "accounts",
		Method: http.MethodPost,
		Body:   form("currency", currency, "name", name),
		Auth:   true,
	})
}

// Balances returns the balance of every account.
func (a *Accounts) Balances(ctx context.Context) ([]Balance, error) {
	b, err := call[balances](ctx, a.d, client.Spec{Call: "balance", Auth: true})
	if err != nil {
		return nil, err
	}

	return b.Balance, nil
}

// Transactions returns the rows [minRow, maxRow) of an account's
// transactions. Zero leaves a bound to the exchange.
func (a *Accounts) Transactions(ctx context.Context, accountID string, minRow, maxRow int64) (*TransactionList, error) {
	if err := required("account_id", accountID); err != nil {
		return nil, err
	}

	q := form()
	if minRow != 0 {
		q.Set("min_row", itoa(minRow))
	}
	if maxRow != 0 {
		q.Set("max_row", itoa(maxRow))
	}

	return call[TransactionList](ctx, a.d, client.Spec{
		Call:  fmt.Sprintf("accounts/%s/transactions", accountID),
		Query: q,
		Auth:  true,
	})
}

// PendingTransactions returns the unconfirmed transactions of an account.
func (a *Accounts) PendingTransactions(ctx context.Context, accountID string) (*TransactionList, error) {
	if err := required("account_id", accountID); err != nil {
		return nil, err
	}

	return call[TransactionList](ctx, a.d, client.Spec{
		Call: fmt.Sprintf("accounts/%s/pending", accountID),
		Auth: true,
	})
}

// ListOrders returns the most recently placed orders on pair, or the
// default pair when empty. state is one of [StatePending],
// [StateComplete] or empty for both.
func (a *Accounts) ListOrders(ctx context.Context, pair, state string) ([]Order, error) {
	o, err := call[orders](ctx, a.d, client.Spec{
		Call:  "listorders",
		Query: form("pair", pairOr(a.d, pair), "state", state),
		Auth:  true,
	})
	if err != nil {
		return nil, err
	}

	return o.Orders, nil
}

// TransferRequest moves funds between two accounts of the same currency.
type TransferRequest struct {
	Amount          decimal.Decimal
	Currency        string
	Note            string
	SourceAccountID string
	TargetAccountID string
}

// Transfer creates a transfer and then confirms it.
func (a *Accounts) Transfer(ctx context.Context, tr TransferRequest) (*Transfer, error) {
	req, err := a.d.Dispatch(ctx, client.Spec{
		Call:   "transfers",
		Method: http.MethodPost,
		Body: form(
			"amount", dec(tr.Amount),
			"currency", tr.Currency,
			"note", tr.Note,
			"source_account_id", tr.SourceAccountID,
			"target_account_id", tr.TargetAccountID,
		),
		Auth: true,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting transfer: %w", err)
	}

	requested, _ := req.Body.(map[string]any)
	id := idOf(requested["id"])
	if id == "" {
		return nil, fmt.Errorf("requesting transfer: %w: no transfer id returned", client.ErrAPI)
	}

	conf, err := a.d.Dispatch(ctx, client.Spec{
		Call:   "transfers",
		Method: http.MethodPut,
		ID:     id,
		Auth:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("confirming transfer %s: %w", id, err)
	}

	confirmed, _ := conf.Body.(map[string]any)

	return &Transfer{ID: id, Requested: requested, Confirmed: confirmed}, nil
}

// idOf reads an id the exchange may send as a string or a number.
func idOf(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	}

	return ""
}
