package client

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// statusSpan remembers the status it was given.
type statusSpan struct {
	noop.Span
	code codes.Code
	errs []error
}

func (s *statusSpan) SetStatus(code codes.Code, _ string) { s.code = code }

func (s *statusSpan) RecordError(err error, _ ...trace.EventOption) { s.errs = append(s.errs, err) }

type spanTracer struct {
	noop.Tracer
	span *statusSpan
}

func (t spanTracer) Start(ctx context.Context, _ string, _ ...trace.SpanStartOption) (context.Context, trace.Span) {
	return trace.ContextWithSpan(ctx, t.span), t.span
}

type spanProvider struct {
	noop.TracerProvider
	tracer spanTracer
}

func (p spanProvider) Tracer(string, ...trace.TracerOption) trace.Tracer { return p.tracer }

func TestDispatch_RequestFailureIsConfiguration(t *testing.T) {
	span := &statusSpan{}

	c, err := Build(WithRateLimit(0, 0), WithTracerProvider(spanProvider{tracer: spanTracer{span: span}}))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	// Dispatch rejects this method up front; dispatch trusts its caller.
	_, err = c.dispatch(t.Context(), Spec{Call: "ticker", Method: "NOT A METHOD"})

	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got: %v", err)
	}
	if _, ok := errors.AsType[*ConfigError](err); !ok {
		t.Errorf("expected *ConfigError, got %T", err)
	}
	if errors.Is(err, ErrTransport) {
		t.Errorf("request build failures are not transport failures: %v", err)
	}

	if span.code != codes.Error {
		t.Errorf("expected span status %v, got %v", codes.Error, span.code)
	}
	if len(span.errs) != 1 {
		t.Errorf("expected the error recorded on the span, got %v", span.errs)
	}
}
