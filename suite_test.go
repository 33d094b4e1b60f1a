package badssl_test

import (
	"bytes"
	"context"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlsharness/badssl"
	"github.com/tlsharness/badssl/badssltest"
	"github.com/tlsharness/badssl/internal/testutils"
)

// fakeConnector answers from a table after a random delay and tracks how many attempts overlap.
type fakeConnector struct {
	outcomes map[string]badssl.Outcome

	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	calls       atomic.Int32
}

func (c *fakeConnector) Attempt(ctx context.Context, f badssl.Fixture) badssl.Outcome {
	c.calls.Add(1)
	c.mu.Lock()
	c.inFlight++
	c.maxInFlight = max(c.maxInFlight, c.inFlight)
	c.mu.Unlock()

	time.Sleep(time.Duration(5+rand.Intn(20)) * time.Millisecond)

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
	return c.outcomes[f.Target]
}

func fakeSuite(concurrent bool, limit int) (*badssl.Suite, *fakeConnector) {
	fixtures := badssl.Fixtures{
		{Target: "a", Category: badssl.Good, Description: "good"},
		{Target: "b", Category: badssl.Bad, Description: "bad"},
		{Target: "c", Category: badssl.Bad, Description: "bad but accepted"},
		{Target: "d", Category: badssl.BadBroken, Description: "bad broken"},
		{Target: "e", Category: badssl.Good, Description: "good but rejected"},
		{Target: "f", Category: badssl.Dubious, Description: "dubious"},
		{Target: "g", Category: badssl.GoodBroken, Description: "good broken"},
		{Target: "h", Category: badssl.Bad, Description: "bad with odd message"},
	}
	c := &fakeConnector{outcomes: map[string]badssl.Outcome{
		"a": badssl.Success("ok"),
		"b": badssl.Failure(badssl.MsgCertificateCheck),
		"c": badssl.Success("ok"),
		"d": badssl.Success("ok"),
		"e": badssl.Failure("no route to host"),
		"f": badssl.Failure("certificate verify failed: x509: expired"),
		"g": badssl.Failure(badssl.MsgNoCertificate),
		"h": badssl.Failure("tls: handshake failure"),
	}}
	return &badssl.Suite{
		Name:       "fake",
		Fixtures:   fixtures,
		Connector:  c,
		AllowList:  badssl.HTTPAllowList(),
		Concurrent: concurrent,
		Limit:      limit,
	}, c
}

func TestSuiteRun(t *testing.T) {
	want := []badssl.Decision{
		badssl.Pass, badssl.Pass, badssl.Fail, badssl.Skip,
		badssl.Fail, badssl.Pass, badssl.Skip, badssl.Fail,
	}
	tests := []struct {
		name       string
		concurrent bool
		limit      int
		maxFlight  func(t *testing.T, n int)
	}{
		{
			name:      "sequential",
			maxFlight: func(t *testing.T, n int) { assert.Equal(t, 1, n) },
		},
		{
			name:       "concurrent",
			concurrent: true,
			maxFlight:  func(t *testing.T, n int) { assert.Greater(t, n, 1) },
		},
		{
			name:       "concurrent limited",
			concurrent: true,
			limit:      2,
			maxFlight:  func(t *testing.T, n int) { assert.LessOrEqual(t, n, 2) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leak := testutils.LeakCheck(t)
			s, c := fakeSuite(tt.concurrent, tt.limit)
			results := s.Run(context.Background())
			leak()

			require.Len(t, results, len(s.Fixtures))
			assert.EqualValues(t, len(s.Fixtures), c.calls.Load())
			for i, r := range results {
				assert.Equal(t, s.Fixtures[i], r.Fixture)
				assert.Equal(t, want[i], r.Verdict.Decision, r.Fixture.Name())
			}
			assert.True(t, results[2].Verdict.Mismatch)
			assert.False(t, results[7].Verdict.Mismatch)
			tt.maxFlight(t, c.maxInFlight)
		})
	}
}

func TestNewSuite(t *testing.T) {
	tests := []struct {
		name       string
		fixtures   int
		allow      badssl.AllowList
		concurrent bool
	}{
		{badssl.SuiteHTTP, 56, badssl.HTTPAllowList(), false},
		{badssl.SuiteHTTPConcurrent, 56, badssl.HTTPAllowList(), true},
		{badssl.SuiteSocket, 5, badssl.SocketAllowList(), false},
		{badssl.SuiteGRPC, 5, badssl.SocketAllowList(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := badssl.NewSuite(tt.name, badssl.WithConcurrency(3))
			require.NoError(t, err)
			assert.Equal(t, tt.name, s.Name)
			assert.Len(t, s.Fixtures, tt.fixtures)
			assert.Equal(t, tt.allow, s.AllowList)
			assert.Equal(t, tt.concurrent, s.Concurrent)
		})
	}
	assert.Len(t, badssl.SuiteNames(), len(tests))

	_, err := badssl.NewSuite("ftp")
	assert.ErrorIs(t, err, badssl.ErrUnknownSuite)
}

// TestSuiteLocal drives the standard connectors through a suite against local servers.
func TestSuiteLocal(t *testing.T) {
	env := newTestEnv(t)
	good := env.goodServer(t)
	selfSigned := env.selfSignedServer(t)
	hangHost, hangPort := testutils.NewHangUpServer(t)
	hangAddr := net.JoinHostPort(hangHost, itoa(hangPort))

	httpFixtures := badssl.Fixtures{
		{Target: good.URL, Category: badssl.Good, Description: "good"},
		{Target: selfSigned.URL, Category: badssl.Bad, Description: "self-signed"},
		{Target: good.URL, Category: badssl.BadBroken, Description: "accepted anyway"},
		{Target: "https://" + hangAddr + "/", Category: badssl.Dubious, Description: "hang up"},
	}
	socketFixtures := badssl.Fixtures{
		{Target: good.Host, Port: good.Port, Category: badssl.Good, Description: "good"},
		{Target: selfSigned.Host, Port: selfSigned.Port, Category: badssl.Bad, Description: "self-signed"},
	}

	for _, concurrent := range []bool{false, true} {
		s := &badssl.Suite{
			Name:       "http",
			Fixtures:   httpFixtures,
			Connector:  badssl.NewHTTPConnector(env.opts...),
			AllowList:  badssl.HTTPAllowList(),
			Concurrent: concurrent,
		}
		t.Run(map[bool]string{false: "http", true: "http-concurrent"}[concurrent], func(t *testing.T) {
			badssltest.RunSuite(t, s)
		})
	}

	s := &badssl.Suite{
		Name:      "socket",
		Fixtures:  socketFixtures,
		Connector: badssl.NewSocketConnector(env.opts...),
		AllowList: badssl.SocketAllowList(),
	}
	t.Run("socket", func(t *testing.T) { badssltest.RunSuite(t, s) })

	results := s.Run(context.Background())
	sum := badssl.Summarize(s.Name, results)
	assert.Equal(t, badssl.Summary{Suite: "socket", Passed: 2, Elapsed: sum.Elapsed}, sum)
	assert.True(t, sum.OK())
}

func TestWriteReport(t *testing.T) {
	s, _ := fakeSuite(false, 0)
	results := s.Run(context.Background())

	var buf bytes.Buffer
	require.NoError(t, badssl.WriteReport(&buf, s.Name, results))
	out := buf.String()
	t.Log(out)

	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "bad but accepted (bad) did not raise")
	assert.Contains(t, out, "fake: 3 passed, 2 skipped, 3 failed")

	sum := badssl.Summarize(s.Name, results)
	assert.False(t, sum.OK())
	assert.Equal(t, "fake: 3 passed, 2 skipped, 3 failed", sum.String())
}
