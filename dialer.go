package badssl

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"time"
)

// SocketConnector opens a raw TCP socket, wraps it in a TLS client and performs the handshake.
type SocketConnector struct {
	Config *Config
}

// NewSocketConnector returns a [SocketConnector] configured by opts.
func NewSocketConnector(opts ...Option) *SocketConnector {
	return &SocketConnector{Config: NewConfig(opts...)}
}

// Dial connects to host:port and completes a verified TLS handshake. The caller must close the
// returned connection.
func (s *SocketConnector) Dial(ctx context.Context, host string, port int) (*tls.Conn, error) {
	if host == "" {
		return nil, ErrEmptyTarget
	}
	cfg := s.config()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	d := &net.Dialer{}
	raw, err := d.DialContext(ctx, cfg.network(), net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	conn := tls.Client(raw, cfg.TLSConfig(host))
	if err := conn.HandshakeContext(ctx); err != nil {
		raw.Close()
		return nil, &HandshakeError{Err: err}
	}
	if len(conn.ConnectionState().PeerCertificates) == 0 {
		conn.Close()
		return nil, ErrNoPeerCertificate
	}
	return conn, nil
}

// Connect performs [SocketConnector.Dial] and closes the connection.
func (s *SocketConnector) Connect(ctx context.Context, host string, port int) error {
	conn, err := s.Dial(ctx, host, port)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Attempt implements [Connector].
func (s *SocketConnector) Attempt(ctx context.Context, f Fixture) Outcome {
	log := s.config().logger().Wrap("[socket] ")
	host, port := f.Target, f.Port
	if port == 0 {
		h, p, err := net.SplitHostPort(f.Addr())
		if err == nil {
			host = h
			port, _ = strconv.Atoi(p)
		}
	}

	start := time.Now()
	conn, err := s.Dial(ctx, host, port)
	elapsed := time.Since(start)
	if err != nil {
		log.Logf(LogLevelDebug, "%s:%d: %v (%v)", host, port, err, elapsed)
		o := Failure(DescribeError(err))
		o.Elapsed = elapsed
		return o
	}
	state := conn.ConnectionState()
	conn.Close()
	log.Logf(LogLevelDebug, "%s:%d: handshake done version=%s cipher=%s (%v)", host, port,
		tls.VersionName(state.Version), tls.CipherSuiteName(state.CipherSuite), elapsed)
	o := Success(state.PeerCertificates[0].Subject.String())
	o.Elapsed = elapsed
	return o
}

func (s *SocketConnector) config() *Config {
	if s.Config == nil {
		return NewDefaultConfig()
	}
	return s.Config
}
