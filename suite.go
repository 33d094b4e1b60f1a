package badssl

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Suite runs a fixture table through one [Connector] and judges every outcome with the same
// allow-list.
type Suite struct {
	Name      string
	Fixtures  Fixtures
	Connector Connector
	AllowList AllowList

	// Concurrent launches every attempt before awaiting any result. Results are still evaluated
	// in fixture order.
	Concurrent bool

	// Limit bounds in-flight attempts when Concurrent is set. Zero or negative means no bound.
	Limit int

	Logger Logger
}

// Result is one fixture's outcome and the oracle's verdict on it.
type Result struct {
	Fixture Fixture
	Outcome Outcome
	Verdict Verdict
}

// Suite names understood by [NewSuite].
const (
	SuiteHTTP           = "http"
	SuiteHTTPConcurrent = "http-concurrent"
	SuiteSocket         = "socket"
	SuiteGRPC           = "grpc"
)

// SuiteNames returns the names accepted by [NewSuite].
func SuiteNames() []string {
	return []string{SuiteHTTP, SuiteHTTPConcurrent, SuiteSocket, SuiteGRPC}
}

// NewSuite builds one of the standard suites over its fixture table.
func NewSuite(name string, opts ...Option) (*Suite, error) {
	cfg := NewConfig(opts...)
	s := &Suite{Name: name, Logger: cfg.logger().Wrap("[" + name + "] ")}
	switch name {
	case SuiteHTTP, SuiteHTTPConcurrent:
		s.Fixtures = HTTPFixtures()
		s.Connector = &HTTPConnector{Config: cfg}
		s.AllowList = HTTPAllowList()
		s.Concurrent = name == SuiteHTTPConcurrent
		s.Limit = cfg.Concurrency
	case SuiteSocket:
		s.Fixtures = SocketFixtures()
		s.Connector = &SocketConnector{Config: cfg}
		s.AllowList = SocketAllowList()
	case SuiteGRPC:
		s.Fixtures = SocketFixtures()
		s.Connector = &GRPCConnector{Config: cfg}
		s.AllowList = SocketAllowList()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSuite, name)
	}
	return s, nil
}

// Attempt collects the outcome of every fixture, in fixture order, without judging them.
func (s *Suite) Attempt(ctx context.Context) []Outcome {
	outcomes := make([]Outcome, len(s.Fixtures))
	if !s.Concurrent {
		for i, f := range s.Fixtures {
			outcomes[i] = s.Connector.Attempt(ctx, f)
		}
		return outcomes
	}

	// Each goroutine owns one slot, so no locking is needed.
	var g errgroup.Group
	if s.Limit > 0 {
		g.SetLimit(s.Limit)
	}
	for i, f := range s.Fixtures {
		i, f := i, f // per-iteration copies for go1.21 loop semantics
		g.Go(func() error {
			outcomes[i] = s.Connector.Attempt(ctx, f)
			return nil
		})
	}
	_ = g.Wait() // attempts report through their outcome, never an error
	return outcomes
}

// Run attempts every fixture and evaluates the outcomes in fixture order.
func (s *Suite) Run(ctx context.Context) []Result {
	log := s.logger()
	start := time.Now()
	outcomes := s.Attempt(ctx)
	log.Logf(LogLevelInfo, "%d attempts done in %v", len(outcomes), time.Since(start))

	results := make([]Result, len(s.Fixtures))
	for i, f := range s.Fixtures {
		v := Evaluate(f, outcomes[i], s.AllowList)
		if v.Decision == Fail {
			log.Logf(LogLevelErr, "%s", v.Diagnostic)
		}
		results[i] = Result{Fixture: f, Outcome: outcomes[i], Verdict: v}
	}
	return results
}

func (s *Suite) logger() Logger {
	if s.Logger == nil {
		return NoopLogger{}
	}
	return s.Logger
}
