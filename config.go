package badssl

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"
)

// DefaultNetwork is the network connectors dial when none is configured.
var DefaultNetwork = "tcp"

// Config holds the options shared by every [Connector].
type Config struct {
	// Timeout bounds a single connection attempt. Zero means no timeout beyond what the operating
	// system imposes.
	Timeout time.Duration

	// RootCAs is the set of roots used for verification. Nil means the system pool.
	RootCAs *x509.CertPool

	// ServerName overrides the name verified against the peer certificate.
	ServerName string

	// MinTLSVersion is the minimum TLS version to offer. Zero leaves the crypto/tls default.
	MinTLSVersion uint16

	// Network is one of "tcp", "tcp4" (IPv4-only) or "tcp6" (IPv6-only).
	Network string

	// Concurrency bounds in-flight attempts of a concurrent suite. Zero or negative means all of
	// them at once.
	Concurrency int

	// Logger receives diagnostics.
	Logger Logger
}

// NewDefaultConfig returns a [Config] with no timeout, the system roots and a silent logger.
func NewDefaultConfig() *Config {
	return &Config{
		Network: DefaultNetwork,
		Logger:  NoopLogger{},
	}
}

// Option is a functional option for configuring [Config].
type Option func(*Config)

// NewConfig creates a new [Config] with the given options.
func NewConfig(opts ...Option) *Config {
	cfg := NewDefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.Timeout = d
	}
}

// WithRootCAs sets the verification roots.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(cfg *Config) {
		cfg.RootCAs = pool
	}
}

// WithServerName sets the name verified against peer certificates.
func WithServerName(name string) Option {
	return func(cfg *Config) {
		cfg.ServerName = name
	}
}

// WithMinTLSVersion sets the minimum TLS version to offer.
func WithMinTLSVersion(version uint16) Option {
	return func(cfg *Config) {
		cfg.MinTLSVersion = version
	}
}

// WithNetwork can be one of "tcp", "tcp4" (IPv4-only) or "tcp6" (IPv6-only).
func WithNetwork(network string) Option {
	return func(cfg *Config) {
		cfg.Network = network
	}
}

// WithConcurrency bounds the in-flight attempts of a concurrent suite.
func WithConcurrency(n int) Option {
	return func(cfg *Config) {
		cfg.Concurrency = n
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// LoadCaFile reads a PEM bundle into a new pool.
func LoadCaFile(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("badssl: no certificates found in %s", path)
	}
	return pool, nil
}

// TLSConfig returns a verifying [tls.Config] for host. Every call returns a new value.
func (c *Config) TLSConfig(host string) *tls.Config {
	name := c.ServerName
	if name == "" {
		name = host
	}
	return &tls.Config{
		RootCAs:    c.RootCAs,
		ServerName: name,
		MinVersion: c.MinTLSVersion,
	}
}

func (c *Config) logger() Logger {
	if c.Logger == nil {
		return NoopLogger{}
	}
	return c.Logger
}

func (c *Config) network() string {
	if c.Network == "" {
		return DefaultNetwork
	}
	return c.Network
}
