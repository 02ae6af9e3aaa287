package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// URL returns the address of call, with id as a trailing path segment
// when set. No query string is attached.
func (c *Client) URL(call, id string) *url.URL {
	host := c.cfg.Host
	switch {
	case c.cfg.Port != DefaultPort:
		host = net.JoinHostPort(host, strconv.Itoa(c.cfg.Port))
	case strings.Contains(host, ":"):
		host = "[" + host + "]"
	}

	path := apiBase + strings.TrimLeft(call, "/")
	if id != "" {
		path += "/" + id
	}

	return &url.URL{
		Scheme: c.scheme,
		Host:   host,
		Path:   path,
	}
}

// request builds the *http.Request for spec. spec must already be valid.
func (c *Client) request(ctx context.Context, spec Spec) (*http.Request, error) {
	var (
		u    *url.URL
		body io.Reader
	)

	u = c.URL(spec.Call, spec.ID)

	switch spec.Method {
	case http.MethodGet:
		if len(spec.Query) > 0 {
			u.RawQuery = spec.Query.Encode()
		}
	case http.MethodPost:
		body = strings.NewReader(merge(spec.Query, spec.Body).Encode())
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	if spec.Method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	if spec.Auth && c.creds != nil {
		req.SetBasicAuth(c.creds.Key, c.creds.Secret)
	}

	req.Header.Set("X-Request-ID", requestID(ctx))
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return req, nil
}

// requestID uses the trace id of the active span, or a fresh uuid when
// there is none.
func requestID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if sc.TraceID().IsValid() {
		return sc.TraceID().String()
	}

	return uuid.New().String()
}

func merge(a, b url.Values) url.Values {
	out := make(url.Values, len(a)+len(b))
	for k, v := range a {
		out[k] = append(out[k], v...)
	}
	for k, v := range b {
		out[k] = append(out[k], v...)
	}

	return out
}
