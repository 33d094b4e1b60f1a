package badssl

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"sync/atomic"
	"time"
)

// maxContent caps how much of a response body is kept in an [Outcome].
const maxContent = 1 << 20

// Connector makes one secured connection attempt for a fixture. Connection errors are never
// returned; they are described in the failed [Outcome].
type Connector interface {
	Attempt(ctx context.Context, f Fixture) Outcome
}

// NewClient returns an [http.Client] that verifies peers against cfg. Connections are not kept
// alive, so every request performs a full handshake.
func NewClient(cfg *Config) *http.Client {
	dialer := &net.Dialer{Timeout: cfg.Timeout}
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: func(ctx context.Context, _, addr string) (net.Conn, error) {
				return dialer.DialContext(ctx, cfg.network(), addr)
			},
			TLSClientConfig:     cfg.TLSConfig(""),
			TLSHandshakeTimeout: cfg.Timeout,
			DisableKeepAlives:   true,
			ForceAttemptHTTP2:   true,
		},
	}
}

// HTTPConnector fetches fixture URLs over HTTP(S). It builds a new client for every attempt.
type HTTPConnector struct {
	Config *Config
}

// NewHTTPConnector returns an [HTTPConnector] configured by opts.
func NewHTTPConnector(opts ...Option) *HTTPConnector {
	return &HTTPConnector{Config: NewConfig(opts...)}
}

// Fetch retrieves the body of url. Errors raised while the TLS handshake was under way are
// returned as a [HandshakeError].
func (c *HTTPConnector) Fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", ErrEmptyTarget
	}
	var started, done atomic.Bool
	ctx = httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{
		TLSHandshakeStart: func() { started.Store(true) },
		TLSHandshakeDone: func(_ tls.ConnectionState, err error) {
			if err == nil {
				done.Store(true)
			}
		},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := NewClient(c.config()).Do(req)
	if err != nil {
		if started.Load() && !done.Load() {
			return "", &HandshakeError{Err: err}
		}
		return "", err
	}
	defer resp.Body.Close()
	if resp.TLS != nil && len(resp.TLS.PeerCertificates) == 0 {
		return "", ErrNoPeerCertificate
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContent))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}

// Attempt implements [Connector].
func (c *HTTPConnector) Attempt(ctx context.Context, f Fixture) Outcome {
	log := c.config().logger().Wrap("[http] ")
	start := time.Now()
	content, err := c.Fetch(ctx, f.Target)
	elapsed := time.Since(start)
	if err != nil {
		log.Logf(LogLevelDebug, "%s: %v (%v)", f.Target, err, elapsed)
		o := Failure(DescribeError(err))
		o.Elapsed = elapsed
		return o
	}
	log.Logf(LogLevelDebug, "%s: fetched %d bytes (%v)", f.Target, len(content), elapsed)
	o := Success(content)
	o.Elapsed = elapsed
	return o
}

func (c *HTTPConnector) config() *Config {
	if c.Config == nil {
		return NewDefaultConfig()
	}
	return c.Config
}
