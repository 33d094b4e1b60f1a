package badssltest_test

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tlsharness/badssl"
	"github.com/tlsharness/badssl/badssltest"
)

// recordingTB captures what Check does to a test without ending the real one.
type recordingTB struct {
	testing.TB
	logs    []string
	failed  bool
	skipped bool
}

func (r *recordingTB) Helper()                         {}
func (r *recordingTB) Log(args ...any)                 { r.logs = append(r.logs, fmt.Sprint(args...)) }
func (r *recordingTB) Logf(format string, args ...any) { r.logs = append(r.logs, fmt.Sprintf(format, args...)) }
func (r *recordingTB) Fatalf(format string, args ...any) {
	r.failed = true
	runtime.Goexit()
}
func (r *recordingTB) Skipf(format string, args ...any) {
	r.skipped = true
	runtime.Goexit()
}

func runCheck(f badssl.Fixture, o badssl.Outcome) *recordingTB {
	r := &recordingTB{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		badssltest.Check(r, f, o, badssl.HTTPAllowList())
	}()
	<-done
	return r
}

func TestCheck(t *testing.T) {
	bad := badssl.Fixture{Target: "https://expired.badssl.com/", Category: badssl.Bad, Description: "expired"}
	broken := badssl.Fixture{Target: "https://revoked.badssl.com/", Category: badssl.BadBroken, Description: "revoked"}

	r := runCheck(bad, badssl.Failure("SSL Certificate check failed."))
	assert.False(t, r.failed)
	assert.False(t, r.skipped)
	assert.Empty(t, r.logs)

	r = runCheck(bad, badssl.Success(""))
	assert.True(t, r.failed)
	assert.Equal(t, []string{"expired (bad) did not raise"}, r.logs)

	r = runCheck(broken, badssl.Success(""))
	assert.False(t, r.failed)
	assert.True(t, r.skipped)
}

type tableConnector map[string]badssl.Outcome

func (c tableConnector) Attempt(_ context.Context, f badssl.Fixture) badssl.Outcome {
	return c[f.Target]
}

func TestRunSuite(t *testing.T) {
	s := &badssl.Suite{
		Name: "table",
		Fixtures: badssl.Fixtures{
			{Target: "https://a.example/", Category: badssl.Good, Description: "good"},
			{Target: "https://b.example/", Category: badssl.Bad, Description: "bad"},
			{Target: "https://c.example/", Category: badssl.GoodBroken, Description: "broken"},
		},
		Connector: tableConnector{
			"https://a.example/": badssl.Success("ok"),
			"https://b.example/": badssl.Failure(badssl.MsgNoCertificate),
			"https://c.example/": badssl.Failure(badssl.MsgNoCertificate),
		},
		AllowList:  badssl.HTTPAllowList(),
		Concurrent: true,
	}
	badssltest.RunSuite(t, s)
}
