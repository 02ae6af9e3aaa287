package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/goluno/client/queue"
	"github.com/adamwoolhether/goluno/client/throttle"
)

const tracerName = "github.com/adamwoolhether/goluno/client"

// Client dispatches calls to the exchange. Every call made through one
// Client shares its connection pool and its rate gate. A Client is safe
// for concurrent use.
type Client struct {
	cfg    Config
	creds  *Credentials
	scheme string
	c      *http.Client
	logger *slog.Logger
	tracer trace.Tracer
	gate   *throttle.Gate
	queue  *queue.Queue

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// Build returns a Client for the exchange at api.mybitx.com unless
// optFns say otherwise. Invalid options or configuration yield a
// [*ConfigError].
func Build(optFns ...Option) (*Client, error) {
	opts := options{
		cfg:       DefaultConfig(),
		scheme:    "https",
		workers:   DefaultWorkers,
		userAgent: defaultUserAgent,
	}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, &ConfigError{Err: fmt.Errorf("%w: applying client option: %w", ErrConfiguration, err)}
		}
	}

	if err := opts.cfg.Validate(); err != nil {
		return nil, err
	}

	client := &Client{
		cfg:    opts.cfg,
		creds:  opts.creds,
		scheme: opts.scheme,
		logger: slog.Default(),
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	tp := opts.tracer
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	client.tracer = tp.Tracer(tracerName)

	base, err := baseTransport(&opts)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("%w: configuring transport: %w", ErrConfiguration, err)}
	}

	hc := &http.Client{}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}
	hc.Timeout = opts.cfg.Timeout
	hc.Transport = headers{userAgent: opts.userAgent, base: base}
	client.c = hc

	client.gate = throttle.New(opts.cfg.MaxRate, opts.cfg.MaxBurst, func() *slog.Logger { return client.logger }, opts.gateOpts...)
	client.queue = queue.New(opts.workers)

	return client, nil
}

// Config returns a copy of the Client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Authenticated reports whether credentials were configured.
func (c *Client) Authenticated() bool {
	return c.creds != nil
}

// Gate returns the rate gate shared by every call through c.
func (c *Client) Gate() *throttle.Gate {
	return c.gate
}

// Dispatch validates spec, waits for the rate gate, sends the call and
// classifies the response. It never retries.
//
// Errors wrap one of [ErrConfiguration], [ErrRateLimited], [ErrAPI],
// [ErrTransport] or [ErrClosed].
func (c *Client) Dispatch(ctx context.Context, spec Spec) (*Result, error) {
	if err := validateSpec(&spec); err != nil {
		return nil, err
	}

	if !c.enter() {
		return nil, ErrClosed
	}
	defer c.inflight.Done()

	return c.dispatch(ctx, spec)
}

// enter registers a synchronous call unless the Client is closed.
func (c *Client) enter() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	c.inflight.Add(1)

	return true
}

func (c *Client) dispatch(ctx context.Context, spec Spec) (*Result, error) {
	ctx, span := c.tracer.Start(ctx, "goluno.dispatch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("call", spec.Call),
			attribute.String("method", spec.Method),
		),
	)
	defer span.End()

	if err := c.gate.Admit(ctx); err != nil {
		span.SetStatus(codes.Error, "gate")
		return nil, transportErr(err)
	}

	req, err := c.request(ctx, spec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request")
		return nil, &ConfigError{Err: fmt.Errorf("%w: %w", ErrConfiguration, err)}
	}

	res, err := c.exec(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch")
		return nil, err
	}
	span.SetAttributes(attribute.Int("status", res.StatusCode))

	return res, nil
}

// exec runs the request and classifies the response.
func (c *Client) exec(req *http.Request) (*Result, error) {
	resp, err := c.c.Do(req)
	if err != nil {
		return nil, transportErr(err)
	}

	defer func() {
		if _, err = io.Copy(io.Discard, resp.Body); err != nil {
			c.logger.Error("failed to discard unused body", "error", err)
		}
		if err = resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, transportErr(fmt.Errorf("reading body: %w", err))
	}
	if len(raw) > maxBodySize {
		return nil, transportErr(fmt.Errorf("%w: over %d bytes from %s", ErrBodyTooLarge, maxBodySize, req.URL))
	}

	return c.classify(req, resp.StatusCode, raw)
}

func (c *Client) classify(req *http.Request, status int, raw []byte) (*Result, error) {
	body, ok := decode(raw)
	if !ok {
		body = map[string]any{"error": noJSONMessage}
	}

	apiErr := func(sentinel error) *APIError {
		e := &APIError{
			URL:        req.URL.String(),
			StatusCode: status,
			Body:       string(raw),
			RequestID:  req.Header.Get("X-Request-ID"),
			Err:        sentinel,
		}
		if m, ok := body.(map[string]any); ok {
			e.Message = stringField(m, "error")
			e.Code = stringField(m, "error_code")
		}
		return e
	}

	switch {
	case status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable:
		c.logger.Warn("rate limit exceeded", "url", req.URL.String(), "status", status)
		return nil, apiErr(ErrRateLimited)

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, apiErr(errors.Join(ErrAPI, ErrAuthFailure))

	case status != http.StatusOK || hasError(body):
		return nil, apiErr(ErrAPI)
	}

	return &Result{StatusCode: status, Body: body, raw: raw}, nil
}

// decode reports false when raw is not a single JSON document.
func decode(raw []byte) (any, bool) {
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()

	var v any
	if err := d.Decode(&v); err != nil {
		return nil, false
	}
	if d.More() {
		return nil, false
	}

	return v, true
}

func hasError(body any) bool {
	m, ok := body.(map[string]any)
	if !ok {
		return false
	}
	_, ok = m["error"]

	return ok
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Close stops the Client accepting calls and waits for the ones already
// accepted, sync and async, until ctx ends. Idle pooled connections are
// closed once they have drained. Calling Close again is a no-op.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.queue.Shutdown()
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(done)
	}()

	if err := c.queue.Wait(ctx); err != nil {
		return fmt.Errorf("draining async calls: %w", err)
	}

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("draining calls: %w", ctx.Err())
	}

	c.c.CloseIdleConnections()

	return nil
}
