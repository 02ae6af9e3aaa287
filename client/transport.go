package client

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
)

// Version is reported in the default User-Agent.
const Version = "0.3.0"

var defaultUserAgent = "goluno/" + Version

// headers is an http.RoundTripper setting the headers every call carries.
type headers struct {
	userAgent string
	base      http.RoundTripper
}

func (h headers) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", h.userAgent)
	cpy.Header.Set("Accept", "application/json")
	cpy.Header.Set("Accept-Charset", "utf-8")
	return h.base.RoundTrip(cpy)
}

// CloseIdleConnections forwards to the base transport so closing the
// Client releases pooled connections.
func (h headers) CloseIdleConnections() {
	type closeIdler interface{ CloseIdleConnections() }
	if ci, ok := h.base.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}

// caTransport returns a clone of t trusting only the PEM bundle at path.
func caTransport(t *http.Transport, path string) (*http.Transport, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ca file: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("ca file contains no certificates")
	}

	cpy := t.Clone()
	if cpy.TLSClientConfig == nil {
		cpy.TLSClientConfig = &tls.Config{}
	}
	cpy.TLSClientConfig.RootCAs = pool
	if cpy.TLSClientConfig.MinVersion < tls.VersionTLS12 {
		cpy.TLSClientConfig.MinVersion = tls.VersionTLS12
	}

	return cpy, nil
}

// baseTransport picks the innermost transport. An explicit transport
// wins over the given client's, which wins over a fresh default. A CA
// file is applied to whichever is picked, so it must be an
// *http.Transport.
func baseTransport(o *options) (http.RoundTripper, error) {
	var rt http.RoundTripper
	switch {
	case o.rt != nil:
		rt = o.rt
	case o.client != nil && o.client.Transport != nil:
		rt = o.client.Transport
	default:
		rt = http.DefaultTransport
	}

	t, ok := rt.(*http.Transport)
	if !ok {
		if o.cfg.CAFile != "" {
			return nil, fmt.Errorf("ca file needs an *http.Transport, got %T", rt)
		}
		return rt, nil
	}

	if o.cfg.CAFile != "" {
		return caTransport(t, o.cfg.CAFile)
	}
	if rt == http.DefaultTransport {
		return t.Clone(), nil
	}

	return t, nil
}
