// Package badssltest reports badssl verdicts through the testing package, keeping it out of
// binaries that only import badssl.
package badssltest

import (
	"context"
	"testing"

	"github.com/tlsharness/badssl"
)

// Check applies the oracle's verdict on outcome to t. A mismatch or an unknown failure message
// logs a diagnostic and fails t; an accepted outcome of a *_broken fixture skips t.
func Check(t testing.TB, f badssl.Fixture, outcome badssl.Outcome, allow badssl.AllowList) badssl.Verdict {
	t.Helper()
	v := badssl.Evaluate(f, outcome, allow)
	switch v.Decision {
	case badssl.Fail:
		t.Log(v.Diagnostic)
		t.Fatalf("%s: unexpected outcome for %s", f.Name(), f.Target)
	case badssl.Skip:
		t.Skipf("%s is %s: %s", f.Name(), f.Category, outcome)
	}
	return v
}

// RunSuite runs s as one subtest per fixture. Network attempts follow s.Concurrent; the verdicts
// are always reported in fixture order.
func RunSuite(t *testing.T, s *badssl.Suite) {
	t.Helper()
	outcomes := s.Attempt(context.Background())
	for i, f := range s.Fixtures {
		t.Run(f.Name(), func(t *testing.T) {
			Check(t, f, outcomes[i], s.AllowList)
		})
	}
}
