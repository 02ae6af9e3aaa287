package lunotest

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/adamwoolhether/goluno/client"
)

// Request is a call received by the [Server].
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Form      url.Values
	User      string
	Authed    bool
	RequestID string
	UserAgent string
}

type canned struct {
	status int
	body   string
}

// Server is a fake exchange. It is safe for concurrent use.
type Server struct {
	srv    *httptest.Server
	router chi.Router

	key    string
	secret string
	pair   string

	mu          sync.Mutex
	requests    []Request
	overrides   map[string]canned
	orders      map[string]*order
	quotes      map[string]*quote
	withdrawals map[string]*withdrawal
	transfers   map[string]bool
}

// Option configures a [Server].
type Option func(*Server)

// WithCredentials makes the Server require this key pair on private
// routes. Without it any basic auth is accepted.
func WithCredentials(key, secret string) Option {
	return func(s *Server) {
		s.key = key
		s.secret = secret
	}
}

// WithPair sets the pair the Server quotes market data for.
func WithPair(pair string) Option {
	return func(s *Server) {
		s.pair = pair
	}
}

// New starts a Server. Close it when done.
func New(opts ...Option) *Server {
	s := &Server{
		pair:        client.DefaultPair,
		overrides:   make(map[string]canned),
		orders:      make(map[string]*order),
		quotes:      make(map[string]*quote),
		withdrawals: make(map[string]*withdrawal),
		transfers:   make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	s.srv = httptest.NewServer(s.router)

	return s
}

// Close shuts the Server down.
func (s *Server) Close() {
	s.srv.Close()
}

// URL returns the base URL of the Server.
func (s *Server) URL() string {
	return s.srv.URL
}

// Host returns the host the Server listens on.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.listener())
	return host
}

// Port returns the port the Server listens on.
func (s *Server) Port() int {
	_, p, _ := net.SplitHostPort(s.listener())
	port, _ := strconv.Atoi(p)
	return port
}

func (s *Server) listener() string {
	return s.srv.Listener.Addr().String()
}

// ClientOptions points a [client.Client] at the Server with no rate limit.
func (s *Server) ClientOptions() []client.Option {
	return []client.Option{
		client.WithScheme("http"),
		client.WithHost(s.Host()),
		client.WithPort(s.Port()),
		client.WithRateLimit(0, 0),
	}
}

// Respond makes every later call to method and call answer with status
// and body instead of the built in route. call is relative to /api/1/.
func (s *Server) Respond(method, call string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.overrides[routeKey(method, "/api/1/"+strings.TrimLeft(call, "/"))] = canned{status: status, body: body}
}

// Requests returns every call received so far, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

// Reset forgets recorded calls and overrides.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = nil
	s.overrides = make(map[string]canned)
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// record logs the call and serves an override when one is set.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var form url.Values
		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				writeError(w, http.StatusBadRequest, "ErrInvalidForm", err.Error())
				return
			}
			form = r.PostForm
		}

		user, _, ok := r.BasicAuth()
		req := Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.Query(),
			Form:      form,
			User:      user,
			Authed:    ok,
			RequestID: r.Header.Get("X-Request-ID"),
			UserAgent: r.Header.Get("User-Agent"),
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		c, overridden := s.overrides[routeKey(r.Method, r.URL.Path)]
		s.mu.Unlock()

		if overridden {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(c.status)
			w.Write([]byte(c.body))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// private rejects calls without matching credentials.
func (s *Server) private(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, secret, ok := r.BasicAuth()
		if !ok || (s.key != "" && (key != s.key || secret != s.secret)) {
			writeError(w, http.StatusUnauthorized, "ErrUnauthorised", "Unauthorised")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "error_code": code})
}
