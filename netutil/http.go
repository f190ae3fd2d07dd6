package netutil

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// Defaults for the transport timeouts which aren't given in 'HTTPTimeouts'; the response header timeout is generous as
// bulk requests against large databases may take a while before responding.
const (
	defaultDialerTimeout         = 30 * time.Second
	defaultDialerKeepAlive       = 30 * time.Second
	defaultIdleConnTimeout       = 90 * time.Second
	defaultContinueTimeout       = 5 * time.Second
	defaultResponseHeaderTimeout = 30 * time.Second
	defaultTLSHandshakeTimeout   = 10 * time.Second
)

// NewHTTPTransport returns a new HTTP transport using the given TLS config and timeouts, any <nil> timeout is replaced
// with its default.
func NewHTTPTransport(tlsConfig *tls.Config, timeouts HTTPTimeouts) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   timeoutOrDefault(timeouts.Dialer, defaultDialerTimeout),
		KeepAlive: timeoutOrDefault(timeouts.KeepAlive, defaultDialerKeepAlive),
	}

	return &http.Transport{
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		TLSClientConfig:       tlsConfig,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		IdleConnTimeout:       timeoutOrDefault(timeouts.TransportIdleConn, defaultIdleConnTimeout),
		ExpectContinueTimeout: timeoutOrDefault(timeouts.TransportContinue, defaultContinueTimeout),
		ResponseHeaderTimeout: timeoutOrDefault(timeouts.TransportResponseHeader, defaultResponseHeaderTimeout),
		TLSHandshakeTimeout:   timeoutOrDefault(timeouts.TransportTLSHandshake, defaultTLSHandshakeTimeout),
	}
}

func timeoutOrDefault(timeout *time.Duration, defaultTimeout time.Duration) time.Duration {
	if timeout != nil {
		return *timeout
	}

	return defaultTimeout
}
