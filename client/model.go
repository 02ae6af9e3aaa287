package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// Defaults applied by [Build] before any option runs.
const (
	DefaultHost     = "api.mybitx.com"
	DefaultPort     = 443
	DefaultPair     = "XBTZAR"
	DefaultTimeout  = 30 * time.Second
	DefaultMaxRate  = 0.1
	DefaultMaxBurst = 5
)

// apiBase is the path prefix every call lives under.
const apiBase = "/api/1/"

// Config holds the settings shared read-only by every call made through
// a [Client]. It is copied into the Client at construction.
type Config struct {
	Host     string        `json:"host" validate:"required,hostname|ip"`
	Port     int           `json:"port" validate:"min=1,max=65535"`
	Pair     string        `json:"pair" validate:"required,alphanum"`
	CAFile   string        `json:"ca_file" validate:"omitempty,file"`
	Timeout  time.Duration `json:"timeout" validate:"gte=0"`
	MaxRate  float64       `json:"max_rate" validate:"gte=0"`
	MaxBurst int           `json:"max_burst" validate:"gte=0"`
}

// DefaultConfig returns the Config used when no options are given.
func DefaultConfig() Config {
	return Config{
		Host:     DefaultHost,
		Port:     DefaultPort,
		Pair:     DefaultPair,
		Timeout:  DefaultTimeout,
		MaxRate:  DefaultMaxRate,
		MaxBurst: DefaultMaxBurst,
	}
}

// Credentials is the API key pair attached to authenticated calls.
type Credentials struct {
	Key    string
	Secret string
}

// Spec describes one call to the exchange.
//
// GET sends Query in the query string. POST sends Query and Body merged
// into a form-encoded body. PUT and DELETE send neither. ID, when set, is
// appended to Call as a path segment and is required for PUT and DELETE.
type Spec struct {
	Call   string     `json:"call" validate:"required,excludesall=?#"`
	Method string     `json:"method" validate:"oneof=GET POST PUT DELETE"`
	Query  url.Values `json:"query"`
	Body   url.Values `json:"body"`
	ID     string     `json:"id"`
	Auth   bool       `json:"auth"`
}

// Result is a successfully classified response.
type Result struct {
	StatusCode int
	// Body is the decoded JSON document. Numbers are json.Number.
	Body any

	raw []byte
}

// Decode unmarshals the response body into v.
func (r *Result) Decode(v any) error {
	d := json.NewDecoder(bytes.NewReader(r.raw))
	if err := d.Decode(v); err != nil {
		return fmt.Errorf("decoding result: %w", err)
	}

	return nil
}

// Raw returns the undecoded response body.
func (r *Result) Raw() []byte {
	return r.raw
}
