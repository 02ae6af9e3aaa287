package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/adamwoolhether/goluno/api"
	"github.com/adamwoolhether/goluno/client"
	"github.com/adamwoolhether/goluno/lunotest"
)

const (
	key    = "key"
	secret = "secret"
)

func setup(t *testing.T, opts ...client.Option) (*lunotest.Server, *client.Client) {
	t.Helper()

	srv := lunotest.New(lunotest.WithCredentials(key, secret))
	t.Cleanup(srv.Close)

	c, err := client.Build(append(append(srv.ClientOptions(), client.WithCredentials(key, secret)), opts...)...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return srv, c
}

// last returns the most recent request the server saw.
func last(t *testing.T, srv *lunotest.Server) lunotest.Request {
	t.Helper()

	reqs := srv.Requests()
	if len(reqs) == 0 {
		t.Fatal("expected a request")
	}

	return reqs[len(reqs)-1]
}

func decEqual(t *testing.T, name string, exp, got decimal.Decimal) {
	t.Helper()

	if !exp.Equal(got) {
		t.Errorf("%s: expected %s, got %s", name, exp, got)
	}
}

func TestMarket_Ticker(t *testing.T) {
	srv, c := setup(t)
	m := api.NewMarket(c, false)

	tk, err := m.Ticker(t.Context(), "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if tk.Pair != client.DefaultPair {
		t.Errorf("expected default pair %q, got %q", client.DefaultPair, tk.Pair)
	}
	decEqual(t, "last trade", lunotest.Mid, tk.LastTrade)
	if !tk.Bid.LessThan(tk.Ask) {
		t.Errorf("expected bid %s below ask %s", tk.Bid, tk.Ask)
	}
	if !tk.Timestamp.Time().Equal(lunotest.Epoch) {
		t.Errorf("expected timestamp %v, got %v", lunotest.Epoch, tk.Timestamp)
	}

	req := last(t, srv)
	if req.Authed {
		t.Error("public market call should not send credentials")
	}
	if got := req.Query.Get("pair"); got != client.DefaultPair {
		t.Errorf("expected pair query %q, got %q", client.DefaultPair, got)
	}
}

func TestMarket_Authenticated(t *testing.T) {
	srv, c := setup(t)

	if _, err := api.NewMarket(c, true).Tickers(t.Context()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !last(t, srv).Authed {
		t.Error("expected authenticated market call")
	}
}

func TestMarket_PairDefaultsFromConfig(t *testing.T) {
	srv := lunotest.New(lunotest.WithPair("ETHZAR"))
	defer srv.Close()

	c, err := client.Build(append(srv.ClientOptions(), client.WithPair("ETHZAR"))...)
	if err != nil {
		t.Fatal(err)
	}

	tk, err := api.NewMarket(c, false).Ticker(t.Context(), "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if tk.Pair != "ETHZAR" {
		t.Errorf("expected ETHZAR, got %q", tk.Pair)
	}
}

func TestMarket_Tickers(t *testing.T) {
	_, c := setup(t)

	tks, err := api.NewMarket(c, false).Tickers(t.Context())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	var pairs []string
	for _, tk := range tks {
		pairs = append(pairs, tk.Pair)
	}
	if diff := cmp.Diff([]string{"XBTZAR", "ETHZAR"}, pairs); diff != "" {
		t.Errorf("unexpected pairs (-want +got):\n%s", diff)
	}
}

func TestMarket_OrderBook(t *testing.T) {
	testCases := map[string]struct {
		limit int
		exp   int
	}{
		"no limit":         {limit: 0, exp: lunotest.Depth},
		"negative limit":   {limit: -1, exp: lunotest.Depth},
		"limit":            {limit: 5, exp: 5},
		"limit past depth": {limit: lunotest.Depth + 10, exp: lunotest.Depth},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, c := setup(t)

			book, err := api.NewMarket(c, false).OrderBook(t.Context(), "", tc.limit)
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}

			if len(book.Bids) != tc.exp || len(book.Asks) != tc.exp {
				t.Fatalf("expected %d levels each side, got %d bids %d asks", tc.exp, len(book.Bids), len(book.Asks))
			}

			// Truncation keeps the best prices.
			if !book.Bids[0].Price.GreaterThan(book.Bids[len(book.Bids)-1].Price) && tc.exp > 1 {
				t.Error("expected best bid first")
			}
			if !book.Asks[0].Price.LessThan(book.Asks[len(book.Asks)-1].Price) && tc.exp > 1 {
				t.Error("expected best ask first")
			}
		})
	}
}

func TestMarket_Trades(t *testing.T) {
	srv, c := setup(t)
	m := api.NewMarket(c, false)

	all, err := m.Trades(t.Context(), "", time.Time{}, 0)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(all) != lunotest.TradeSize {
		t.Fatalf("expected %d trades, got %d", lunotest.TradeSize, len(all))
	}
	if _, ok := last(t, srv).Query["since"]; ok {
		t.Error("zero since must not be sent")
	}

	since := lunotest.Epoch.Add(-10 * time.Minute)
	recent, err := m.Trades(t.Context(), "", since, 3)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(recent))
	}
	for _, tr := range recent {
		if !tr.Timestamp.Time().After(since) {
			t.Errorf("trade at %v is not after %v", tr.Timestamp, since)
		}
	}

	if got := last(t, srv).Query.Get("since"); got != "1735732200000" {
		t.Errorf("expected since in milliseconds, got %q", got)
	}
}

func TestMarket_BadPair(t *testing.T) {
	_, c := setup(t)

	_, err := api.NewMarket(c, false).OrderBook(t.Context(), "NOPE", 0)
	if !errors.Is(err, client.ErrAPI) {
		t.Fatalf("expected ErrAPI, got: %v", err)
	}
}

func TestMarket_RateLimited(t *testing.T) {
	srv, c := setup(t)
	srv.Respond(http.MethodGet, "ticker", http.StatusTooManyRequests, `{"error":"slow down"}`)

	_, err := api.NewMarket(c, false).Ticker(t.Context(), "")
	if !errors.Is(err, client.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got: %v", err)
	}
}
