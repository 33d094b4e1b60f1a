package badssl_test

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlsharness/badssl"
	"github.com/tlsharness/badssl/internal/testutils"
)

func TestNewConfig(t *testing.T) {
	cfg := badssl.NewConfig()
	assert.Zero(t, cfg.Timeout)
	assert.Nil(t, cfg.RootCAs)
	assert.Equal(t, "tcp", cfg.Network)
	assert.Equal(t, badssl.NoopLogger{}, cfg.Logger)

	ca := testutils.NewCA(t)
	cfg = badssl.NewConfig(
		badssl.WithTimeout(3*time.Second),
		badssl.WithRootCAs(ca.Pool()),
		badssl.WithNetwork("tcp4"),
		badssl.WithMinTLSVersion(tls.VersionTLS13),
		badssl.WithConcurrency(4),
		badssl.WithServerName("localhost"),
	)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "tcp4", cfg.Network)
	assert.Equal(t, 4, cfg.Concurrency)

	tlsCfg := cfg.TLSConfig("127.0.0.1")
	assert.Equal(t, "localhost", tlsCfg.ServerName)
	assert.Equal(t, uint16(tls.VersionTLS13), tlsCfg.MinVersion)
	assert.True(t, ca.Pool().Equal(tlsCfg.RootCAs))
	assert.False(t, tlsCfg.InsecureSkipVerify)
	assert.NotSame(t, tlsCfg, cfg.TLSConfig("127.0.0.1"))
}

func TestTLSConfigDefaultsServerName(t *testing.T) {
	assert.Equal(t, "expired.badssl.com", badssl.NewConfig().TLSConfig("expired.badssl.com").ServerName)
}

func TestLoadCaFile(t *testing.T) {
	ca := testutils.NewCA(t)
	pool, err := badssl.LoadCaFile(ca.WriteCaFile(t))
	require.NoError(t, err)
	assert.True(t, pool.Equal(ca.Pool()))

	_, err = badssl.LoadCaFile(filepath.Join(t.TempDir(), "missing.pem"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(t.TempDir(), "empty.pem")
	require.NoError(t, os.WriteFile(empty, []byte("not pem"), 0o600))
	_, err = badssl.LoadCaFile(empty)
	assert.ErrorContains(t, err, "no certificates found")
}
