package httpclient

import (
	"net/http"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures the client returned by New.
type Option func(*http.Client)

// WithTimeout bounds every request, connection and body read included.
func WithTimeout(timeout time.Duration) Option {
	return func(c *http.Client) {
		c.Timeout = timeout
	}
}

// WithToken authenticates every request sent to host with an
// "Authorization: token <token>" header. Requests to other hosts, such as
// redirects off the API host, go out without the credential.
func WithToken(host, token string) Option {
	return func(c *http.Client) {
		if token == "" {
			return
		}
		c.Transport = &TokenTransport{
			Base:  c.Transport,
			Host:  host,
			Token: token,
		}
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *http.Client) {
		c.Transport = rt
	}
}

// New returns an *http.Client with a 30s default timeout and the given options
// applied in order.
func New(opts ...Option) *http.Client {
	c := &http.Client{Timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TokenTransport adds the hosting API credential to outgoing requests.
type TokenTransport struct {
	Base  http.RoundTripper
	Host  string
	Token string
}

func (t *TokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if req.URL.Host != t.Host {
		return base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "token "+t.Token)
	return base.RoundTrip(clone)
}
