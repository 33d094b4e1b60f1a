package badssl

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// GRPCConnector opens a gRPC channel secured by TLS transport credentials and issues a health
// check on it. Any answer from the peer, including an error status, means the TLS channel was
// established; only [codes.Unavailable] is treated as a failed connection.
type GRPCConnector struct {
	Config *Config
}

// NewGRPCConnector returns a [GRPCConnector] configured by opts.
func NewGRPCConnector(opts ...Option) *GRPCConnector {
	return &GRPCConnector{Config: NewConfig(opts...)}
}

// NewGrpcDialOptions returns the dial options used for host: TLS credentials built from cfg and
// a context dialer honoring cfg.Network.
func NewGrpcDialOptions(cfg *Config, host string) []grpc.DialOption {
	d := &net.Dialer{Timeout: cfg.Timeout}
	return []grpc.DialOption{
		grpc.WithTransportCredentials(credentials.NewTLS(cfg.TLSConfig(host))),
		grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
			return d.DialContext(ctx, cfg.network(), addr)
		}),
	}
}

// Check opens a channel to host:port and performs one health check. The returned error is nil
// when the peer answered.
func (g *GRPCConnector) Check(ctx context.Context, host string, port int) (string, error) {
	if host == "" {
		return "", ErrEmptyTarget
	}
	cfg := g.config()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := grpc.NewClient(addr, NewGrpcDialOptions(cfg, host)...)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err == nil {
		return resp.GetStatus().String(), nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return "", err
	}
	switch {
	case st.Code() != codes.Unavailable && st.Code() != codes.DeadlineExceeded:
		// The server answered over a verified channel.
		return st.Code().String(), nil
	case strings.Contains(st.Message(), "missing selected ALPN property"):
		// Handshake and verification succeeded; the peer just does not speak h2.
		return "no h2", nil
	}
	return "", err
}

// Attempt implements [Connector].
func (g *GRPCConnector) Attempt(ctx context.Context, f Fixture) Outcome {
	log := g.config().logger().Wrap("[grpc] ")
	host, port := f.Target, f.Port
	if port == 0 {
		if h, p, err := net.SplitHostPort(f.Addr()); err == nil {
			host = h
			port, _ = strconv.Atoi(p)
		}
	}

	start := time.Now()
	answer, err := g.Check(ctx, host, port)
	elapsed := time.Since(start)
	if err != nil {
		log.Logf(LogLevelDebug, "%s:%d: %v (%v)", host, port, err, elapsed)
		o := Failure(describeStatus(err))
		o.Elapsed = elapsed
		return o
	}
	log.Logf(LogLevelDebug, "%s:%d: answered %s (%v)", host, port, answer, elapsed)
	o := Success(answer)
	o.Elapsed = elapsed
	return o
}

// describeStatus is [DescribeError] for gRPC status errors, whose cause only survives as text.
func describeStatus(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return DescribeError(err)
	}
	msg := st.Message()
	switch {
	case strings.Contains(msg, "certificate is valid for"),
		strings.Contains(msg, "certificate is not valid for any names"),
		strings.Contains(msg, "cannot validate certificate for"):
		return MsgCertificateCheck
	case strings.Contains(msg, "x509:"), strings.Contains(msg, "failed to verify certificate"):
		return MsgVerifyFailed + ": " + msg
	}
	return err.Error()
}

func (g *GRPCConnector) config() *Config {
	if g.Config == nil {
		return NewDefaultConfig()
	}
	return g.Config
}
