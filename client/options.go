package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/goluno/client/throttle"
)

// DefaultWorkers is the size of the queue backing [Client.DispatchAsync].
const DefaultWorkers = 5

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	cfg       Config
	creds     *Credentials
	client    *http.Client
	rt        http.RoundTripper
	userAgent string
	scheme    string
	workers   int
	logger    *slog.Logger
	tracer    trace.TracerProvider
	gateOpts  []throttle.Option
}

// WithConfig replaces the whole [Config]. Options applied after it
// adjust the given values.
func WithConfig(cfg Config) Option {
	return func(o *options) error {
		o.cfg = cfg
		return nil
	}
}

// WithHost sets the exchange host.
func WithHost(host string) Option {
	return func(o *options) error {
		o.cfg.Host = host
		return nil
	}
}

// WithPort sets the exchange port. The port is left out of request URLs
// when it is 443.
func WithPort(port int) Option {
	return func(o *options) error {
		o.cfg.Port = port
		return nil
	}
}

// WithPair sets the default currency pair used by market calls.
func WithPair(pair string) Option {
	return func(o *options) error {
		o.cfg.Pair = pair
		return nil
	}
}

// WithCAFile trusts the PEM bundle at path instead of the system roots.
func WithCAFile(path string) Option {
	return func(o *options) error {
		o.cfg.CAFile = path
		return nil
	}
}

// WithTimeout sets the hard deadline of every call. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.cfg.Timeout = d
		return nil
	}
}

// WithRateLimit admits maxBurst calls per maxBurst/maxRate seconds.
// Zero for either value disables the limit.
func WithRateLimit(maxRate float64, maxBurst int) Option {
	return func(o *options) error {
		if maxRate < 0 || maxBurst < 0 {
			return fmt.Errorf("rate[%v] and burst[%d] must not be negative", maxRate, maxBurst)
		}
		o.cfg.MaxRate = maxRate
		o.cfg.MaxBurst = maxBurst
		return nil
	}
}

// WithCredentials attaches the API key pair to authenticated calls.
func WithCredentials(key, secret string) Option {
	return func(o *options) error {
		if key == "" || secret == "" {
			return errors.New("key and secret must not be empty")
		}
		o.creds = &Credentials{Key: key, Secret: secret}
		return nil
	}
}

// WithHTTPClient replaces the default [http.Client]. Its Timeout is
// overwritten by [Config.Timeout].
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		o.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		o.rt = rt
		return nil
	}
}

// WithUserAgent overrides the User-Agent header sent with every call.
func WithUserAgent(header string) Option {
	return func(o *options) error {
		if header == "" {
			return errors.New("user agent must not be empty")
		}
		o.userAgent = header
		return nil
	}
}

// WithScheme overrides the "https" scheme, mostly useful against a local
// test server.
func WithScheme(scheme string) Option {
	return func(o *options) error {
		if scheme != "http" && scheme != "https" {
			return fmt.Errorf("unsupported scheme %q", scheme)
		}
		o.scheme = scheme
		return nil
	}
}

// WithWorkers sets how many async calls may run at once.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("workers[%d] must be positive", n)
		}
		o.workers = n
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithTracerProvider sets the provider of the span wrapping each call.
// The global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		o.tracer = tp
		return nil
	}
}

// WithGateOptions passes options through to the rate gate.
func WithGateOptions(opts ...throttle.Option) Option {
	return func(o *options) error {
		o.gateOpts = append(o.gateOpts, opts...)
		return nil
	}
}
