package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/adamwoolhether/goluno/client"
)

// Dispatcher sends one call to the exchange.
type Dispatcher interface {
	Dispatch(ctx context.Context, spec client.Spec) (*client.Result, error)
	Config() client.Config
}

// call dispatches spec and decodes the result into a new T.
func call[T any](ctx context.Context, d Dispatcher, spec client.Spec) (*T, error) {
	res, err := d.Dispatch(ctx, spec)
	if err != nil {
		return nil, err
	}

	var v T
	if err := res.Decode(&v); err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Call, err)
	}

	return &v, nil
}

// pairOr returns pair, or the configured default when pair is empty.
func pairOr(d Dispatcher, pair string) string {
	if pair == "" {
		return d.Config().Pair
	}

	return pair
}

// form builds url.Values from alternating key/value pairs, skipping
// empty values.
func form(kv ...string) url.Values {
	v := make(url.Values, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		v.Set(kv[i], kv[i+1])
	}

	return v
}

func dec(d decimal.Decimal) string {
	return d.String()
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// required rejects an empty identifier before it can turn a call on
// one item into a call on the whole list.
func required(field, v string) error {
	if v == "" {
		return invalid(field, field+" is required")
	}

	return nil
}

// invalid reports a bad argument the same way the client reports a bad
// call: before any I/O, as a configuration error.
func invalid(field, msg string) error {
	return &client.ConfigError{
		Fields: client.FieldErrors{{Field: field, Err: msg}},
		Err:    client.ErrConfiguration,
	}
}
