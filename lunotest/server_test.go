package lunotest_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/adamwoolhether/goluno/client"
	"github.com/adamwoolhether/goluno/lunotest"
)

func build(t *testing.T, srv *lunotest.Server, opts ...client.Option) *client.Client {
	t.Helper()

	c, err := client.Build(append(srv.ClientOptions(), opts...)...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return c
}

func TestServer_PublicRoutes(t *testing.T) {
	srv := lunotest.New()
	defer srv.Close()

	c := build(t, srv)

	for _, call := range []string{"ticker", "orderbook", "trades"} {
		res, err := c.Dispatch(t.Context(), client.Spec{Call: call, Query: url.Values{"pair": {client.DefaultPair}}})
		if err != nil {
			t.Fatalf("%s: %v", call, err)
		}
		if res.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", call, res.StatusCode)
		}
	}
}

func TestServer_UnknownPair(t *testing.T) {
	srv := lunotest.New()
	defer srv.Close()

	_, err := build(t, srv).Dispatch(t.Context(), client.Spec{Call: "ticker", Query: url.Values{"pair": {"NOPE"}}})
	if !errors.Is(err, client.ErrAPI) {
		t.Fatalf("expected ErrAPI, got: %v", err)
	}

	apiErr, _ := errors.AsType[*client.APIError](err)
	if apiErr.Code != "ErrInvalidPair" {
		t.Errorf("expected ErrInvalidPair, got %q", apiErr.Code)
	}
}

func TestServer_PrivateRoutesNeedCredentials(t *testing.T) {
	srv := lunotest.New(lunotest.WithCredentials("key", "secret"))
	defer srv.Close()

	testCases := map[string]struct {
		opts []client.Option
		exp  error
	}{
		"no credentials":    {exp: client.ErrAuthFailure},
		"wrong credentials": {opts: []client.Option{client.WithCredentials("key", "nope")}, exp: client.ErrAuthFailure},
		"right credentials": {opts: []client.Option{client.WithCredentials("key", "secret")}},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := build(t, srv, tc.opts...).Dispatch(t.Context(), client.Spec{Call: "balance", Auth: true})
			if tc.exp == nil {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.exp) {
				t.Fatalf("expected %v, got: %v", tc.exp, err)
			}
		})
	}
}

func TestServer_Respond(t *testing.T) {
	srv := lunotest.New()
	defer srv.Close()

	srv.Respond(http.MethodGet, "tickers", http.StatusTooManyRequests, `{"error":"Too many requests"}`)

	c := build(t, srv)
	if _, err := c.Dispatch(t.Context(), client.Spec{Call: "tickers"}); !errors.Is(err, client.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got: %v", err)
	}

	srv.Reset()
	if _, err := c.Dispatch(t.Context(), client.Spec{Call: "tickers"}); err != nil {
		t.Fatalf("expected the override to be cleared, got: %v", err)
	}
}

func TestServer_Requests(t *testing.T) {
	srv := lunotest.New()
	defer srv.Close()

	c := build(t, srv, client.WithCredentials("key", "secret"))

	if _, err := c.Dispatch(t.Context(), client.Spec{
		Call:   "postorder",
		Method: http.MethodPost,
		Body:   url.Values{"pair": {client.DefaultPair}, "type": {"BID"}, "volume": {"0.5"}, "price": {"1000000"}},
		Auth:   true,
	}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}

	got := reqs[0]
	if got.Method != http.MethodPost || got.Path != "/api/1/postorder" {
		t.Errorf("unexpected request line %s %s", got.Method, got.Path)
	}
	if !got.Authed || got.User != "key" {
		t.Errorf("expected basic auth as key, got %q (authed %v)", got.User, got.Authed)
	}
	if got.Form.Get("volume") != "0.5" {
		t.Errorf("expected volume 0.5, got %q", got.Form.Get("volume"))
	}
	if got.RequestID == "" {
		t.Error("expected a request id")
	}
}
