package http

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

type transportOptions struct {
	insecure bool
	timeout  time.Duration
}

// TransportOption configures the transport returned by GetHTTPTransport.
type TransportOption func(*transportOptions)

// WithInsecure skips TLS certificate verification.
func WithInsecure(insecure bool) TransportOption {
	return func(o *transportOptions) {
		o.insecure = insecure
	}
}

// WithIdleTimeout overrides the idle connection timeout.
func WithIdleTimeout(d time.Duration) TransportOption {
	return func(o *transportOptions) {
		o.timeout = d
	}
}

// GetHTTPTransport returns a transport sized for many concurrent transfers
// against a single host.
func GetHTTPTransport(opts ...TransportOption) *http.Transport {
	o := &transportOptions{timeout: 90 * time.Second}
	for _, opt := range opts {
		opt(o)
	}

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       o.timeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: o.insecure,
		},
	}
}
