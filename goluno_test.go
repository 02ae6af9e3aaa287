package goluno_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/adamwoolhether/goluno"
	"github.com/adamwoolhether/goluno/api"
	"github.com/adamwoolhether/goluno/client"
	"github.com/adamwoolhether/goluno/lunotest"
)

func TestNew(t *testing.T) {
	srv := lunotest.New(lunotest.WithCredentials("key", "secret"))
	defer srv.Close()

	l, err := goluno.New(append(srv.ClientOptions(), client.WithCredentials("key", "secret"))...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer l.Close(t.Context())

	if _, err := l.Market.Ticker(t.Context(), ""); err != nil {
		t.Fatalf("ticker: %v", err)
	}
	if reqs := srv.Requests(); !reqs[len(reqs)-1].Authed {
		t.Error("market calls should be authenticated when credentials are set")
	}

	ref, err := l.Orders.PostLimitOrder(t.Context(), api.LimitOrder{
		Type:   api.Bid,
		Volume: decimal.RequireFromString("0.01"),
		Price:  decimal.RequireFromString("900000"),
	})
	if err != nil {
		t.Fatalf("post order: %v", err)
	}

	pending, err := l.Accounts.ListOrders(t.Context(), "", api.StatePending)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(pending) != 1 || pending[0].OrderID != ref.OrderID {
		t.Errorf("expected order %s pending, got %+v", ref.OrderID, pending)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := goluno.New(client.WithPort(0))
	if !errors.Is(err, client.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got: %v", err)
	}
}

func TestNew_Unauthenticated(t *testing.T) {
	srv := lunotest.New()
	defer srv.Close()

	l, err := goluno.New(srv.ClientOptions()...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := l.Market.Tickers(t.Context()); err != nil {
		t.Fatalf("tickers: %v", err)
	}
	if reqs := srv.Requests(); reqs[len(reqs)-1].Authed {
		t.Error("market calls should not send credentials that were never set")
	}

	if _, err := l.Accounts.Balances(t.Context()); !errors.Is(err, client.ErrAuthFailure) {
		t.Errorf("expected ErrAuthFailure, got: %v", err)
	}
}
