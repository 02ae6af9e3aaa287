package client

import (
	"errors"
	"fmt"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20 // 4MB

// noJSONMessage is the error reported for bodies that aren't JSON.
const noJSONMessage = "No JSON content returned"

var (
	// ErrRateLimited is wrapped by [APIError] when the exchange answers
	// 429 Too Many Requests or 503 Service Unavailable.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrAPI is wrapped by [APIError] for any other failed call.
	ErrAPI = errors.New("api request failed")
	// ErrAuthFailure is joined with [ErrAPI] when the exchange responds
	// with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
	// ErrTransport wraps failures below HTTP: dialing, TLS, timeouts and
	// cancellation. The cause stays in the chain.
	ErrTransport = errors.New("transport failure")
	// ErrConfiguration is wrapped by [ConfigError].
	ErrConfiguration = errors.New("invalid configuration")
	// ErrClosed is returned for calls made after [Client.Close].
	ErrClosed = errors.New("client closed")
	// ErrBodyTooLarge is wrapped with [ErrTransport] when a response
	// body is longer than the client reads.
	ErrBodyTooLarge = errors.New("response body too large")
)

// APIError is returned when the exchange answered but the call failed.
// It carries what is needed to diagnose the failure without repeating it.
type APIError struct {
	URL        string
	StatusCode int
	// Body is the raw response body.
	Body string
	// Message and Code are the "error" and "error_code" fields of the
	// body, when present.
	Message   string
	Code      string
	RequestID string
	Err       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %s failed with %d: %s", e.Err, e.URL, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ConfigError is returned before any I/O when a client option or a call
// [Spec] is invalid.
type ConfigError struct {
	Fields FieldErrors
	Err    error
}

func (e *ConfigError) Error() string {
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}

	return fmt.Sprintf("%v: %v", e.Err, e.Fields)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func transportErr(err error) error {
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
