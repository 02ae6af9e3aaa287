package client_test

import (
	"encoding/pem"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/goluno/client"
)

func TestBuild_Defaults(t *testing.T) {
	c, err := client.Build()
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	exp := client.Config{
		Host:     "api.mybitx.com",
		Port:     443,
		Pair:     "XBTZAR",
		Timeout:  30 * time.Second,
		MaxRate:  0.1,
		MaxBurst: 5,
	}
	if diff := cmp.Diff(exp, c.Config()); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}

	if c.Authenticated() {
		t.Error("expected no credentials by default")
	}
	if got := c.Gate().Interval(); got < 50*time.Second-time.Millisecond || got > 50*time.Second+time.Millisecond {
		t.Errorf("expected 50s windows, got %v", got)
	}
}

func TestClient_URL(t *testing.T) {
	testCases := map[string]struct {
		opts []client.Option
		call string
		id   string
		exp  string
	}{
		"default port is omitted": {
			call: "ticker",
			exp:  "https://api.mybitx.com/api/1/ticker",
		},
		"custom port": {
			opts: []client.Option{client.WithPort(8443)},
			call: "ticker",
			exp:  "https://api.mybitx.com:8443/api/1/ticker",
		},
		"id segment": {
			call: "quotes",
			id:   "abc123",
			exp:  "https://api.mybitx.com/api/1/quotes/abc123",
		},
		"nested call": {
			call: "accounts/319232323/transactions",
			exp:  "https://api.mybitx.com/api/1/accounts/319232323/transactions",
		},
		"leading slash": {
			call: "/tickers",
			exp:  "https://api.mybitx.com/api/1/tickers",
		},
		"http scheme and ip": {
			opts: []client.Option{client.WithScheme("http"), client.WithHost("127.0.0.1"), client.WithPort(8080)},
			call: "ticker",
			exp:  "http://127.0.0.1:8080/api/1/ticker",
		},
		"ipv6 on the default port": {
			opts: []client.Option{client.WithHost("::1")},
			call: "ticker",
			exp:  "https://[::1]/api/1/ticker",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			c, err := client.Build(tc.opts...)
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			if got := c.URL(tc.call, tc.id).String(); got != tc.exp {
				t.Errorf("expected %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestBuild_InvalidConfig(t *testing.T) {
	testCases := map[string]struct {
		opts   []client.Option
		fields []string
	}{
		"empty host":        {opts: []client.Option{client.WithHost("")}, fields: []string{"host"}},
		"bad host":          {opts: []client.Option{client.WithHost("not a host!")}, fields: []string{"host"}},
		"port too big":      {opts: []client.Option{client.WithPort(70000)}, fields: []string{"port"}},
		"port zero":         {opts: []client.Option{client.WithPort(0)}, fields: []string{"port"}},
		"empty pair":        {opts: []client.Option{client.WithPair("")}, fields: []string{"pair"}},
		"pair with dash":    {opts: []client.Option{client.WithPair("XBT-ZAR")}, fields: []string{"pair"}},
		"missing ca file":   {opts: []client.Option{client.WithCAFile("/does/not/exist.pem")}, fields: []string{"ca_file"}},
		"several at once":   {opts: []client.Option{client.WithHost(""), client.WithPort(-1)}, fields: []string{"host", "port"}},
		"negative timeout":  {opts: []client.Option{client.WithConfig(client.Config{Host: "example.com", Port: 1, Pair: "P", Timeout: -1})}, fields: []string{"timeout"}},
		"window overflows":  {opts: []client.Option{client.WithRateLimit(1e-10, 5)}, fields: []string{"max_rate"}},
		"rate not a number": {opts: []client.Option{client.WithRateLimit(math.NaN(), 5)}, fields: []string{"max_rate"}},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := client.Build(tc.opts...)
			if !errors.Is(err, client.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got: %v", err)
			}

			cfgErr, ok := errors.AsType[*client.ConfigError](err)
			if !ok {
				t.Fatalf("expected *client.ConfigError, got %T", err)
			}

			var got []string
			for _, f := range cfgErr.Fields {
				got = append(got, f.Field)
			}
			if diff := cmp.Diff(tc.fields, got); diff != "" {
				t.Errorf("unexpected fields (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_InvalidOptions(t *testing.T) {
	testCases := map[string]client.Option{
		"nil transport":       client.WithTransport(nil),
		"nil http client":     client.WithHTTPClient(nil),
		"negative timeout":    client.WithTimeout(-time.Second),
		"negative rate":       client.WithRateLimit(-1, 5),
		"negative burst":      client.WithRateLimit(1, -5),
		"empty key":           client.WithCredentials("", "secret"),
		"empty secret":        client.WithCredentials("key", ""),
		"zero workers":        client.WithWorkers(0),
		"ftp scheme":          client.WithScheme("ftp"),
		"empty user agent":    client.WithUserAgent(""),
		"nil tracer provider": client.WithTracerProvider(nil),
	}

	for name, opt := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := client.Build(opt)
			if !errors.Is(err, client.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got: %v", err)
			}
		})
	}
}

func TestBuild_OptionOrder(t *testing.T) {
	base := client.Config{Host: "example.com", Port: 8443, Pair: "ETHZAR", MaxRate: 1, MaxBurst: 1}

	c, err := client.Build(
		client.WithConfig(base),
		client.WithPair("XBTZAR"),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	exp := base
	exp.Pair = "XBTZAR"
	if diff := cmp.Diff(exp, c.Config()); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}

	// A later WithConfig replaces everything before it.
	c, err = client.Build(
		client.WithPair("XBTZAR"),
		client.WithConfig(base),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if diff := cmp.Diff(base, c.Config()); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestClient_ConfigIsACopy(t *testing.T) {
	c, err := client.Build()
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	cfg := c.Config()
	cfg.Host = "evil.example.com"

	if got := c.Config().Host; got != client.DefaultHost {
		t.Errorf("mutating a returned config changed the client: %q", got)
	}
}

func TestClient_WithHTTPClient(t *testing.T) {
	var called bool
	hc := &http.Client{
		Timeout: time.Hour,
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			called = true
			return http.DefaultTransport.RoundTrip(r)
		}),
	}

	c := newTestClient(t, respond(http.StatusOK, `{}`), client.WithHTTPClient(hc), client.WithTimeout(time.Second))

	if _, err := c.Dispatch(t.Context(), client.Spec{Call: "ticker"}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !called {
		t.Error("custom client's transport was not called")
	}
	if hc.Timeout != time.Hour {
		t.Error("the given http.Client must not be modified")
	}
}

func TestClient_WithCAFile(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true}`)
	}))
	defer ts.Close()

	caFile := filepath.Join(t.TempDir(), "ca.pem")
	block := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: ts.Certificate().Raw})
	if err := os.WriteFile(caFile, block, 0o600); err != nil {
		t.Fatalf("writing ca file: %v", err)
	}

	u, _ := url.Parse(ts.URL)
	host, portStr, _ := net.SplitHostPort(u.Host)
	port, _ := strconv.Atoi(portStr)

	build := func(opts ...client.Option) *client.Client {
		t.Helper()
		c, err := client.Build(append([]client.Option{client.WithHost(host), client.WithPort(port)}, opts...)...)
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}
		return c
	}

	if _, err := build().Dispatch(t.Context(), client.Spec{Call: "ticker"}); !errors.Is(err, client.ErrTransport) {
		t.Fatalf("expected an untrusted certificate to fail, got: %v", err)
	}

	if _, err := build(client.WithCAFile(caFile)).Dispatch(t.Context(), client.Spec{Call: "ticker"}); err != nil {
		t.Fatalf("expected trusted ca to succeed, got: %v", err)
	}

	// The CA bundle applies to a supplied transport too.
	supplied := map[string]client.Option{
		"transport":   client.WithTransport(&http.Transport{}),
		"http client": client.WithHTTPClient(&http.Client{Transport: &http.Transport{}}),
	}
	for name, opt := range supplied {
		t.Run(name, func(t *testing.T) {
			if _, err := build(opt).Dispatch(t.Context(), client.Spec{Call: "ticker"}); !errors.Is(err, client.ErrTransport) {
				t.Fatalf("expected an untrusted certificate to fail, got: %v", err)
			}
			if _, err := build(client.WithCAFile(caFile), opt).Dispatch(t.Context(), client.Spec{Call: "ticker"}); err != nil {
				t.Fatalf("expected trusted ca to succeed, got: %v", err)
			}
		})
	}
}

func TestClient_WithCAFileOpaqueTransport(t *testing.T) {
	caFile := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(caFile, []byte("unused"), 0o600); err != nil {
		t.Fatal(err)
	}

	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("unreachable")
	})

	_, err := client.Build(client.WithCAFile(caFile), client.WithTransport(rt))
	if !errors.Is(err, client.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got: %v", err)
	}
}

func TestClient_WithCAFileNoCerts(t *testing.T) {
	caFile := filepath.Join(t.TempDir(), "empty.pem")
	if err := os.WriteFile(caFile, []byte("nothing here"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := client.Build(client.WithCAFile(caFile))
	if !errors.Is(err, client.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got: %v", err)
	}
}
