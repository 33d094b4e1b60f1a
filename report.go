package badssl

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Summary counts the decisions of one suite run.
type Summary struct {
	Suite   string
	Passed  int
	Skipped int
	Failed  int
	Elapsed time.Duration
}

// Summarize counts results by decision. Elapsed is the sum of attempt durations.
func Summarize(suite string, results []Result) Summary {
	s := Summary{Suite: suite}
	for _, r := range results {
		s.Elapsed += r.Outcome.Elapsed
		switch r.Verdict.Decision {
		case Pass:
			s.Passed++
		case Skip:
			s.Skipped++
		case Fail:
			s.Failed++
		}
	}
	return s
}

// OK reports whether no fixture failed.
func (s Summary) OK() bool { return s.Failed == 0 }

func (s Summary) String() string {
	return fmt.Sprintf("%s: %d passed, %d skipped, %d failed", s.Suite, s.Passed, s.Skipped, s.Failed)
}

// WriteReport renders one line per result followed by the summary.
func WriteReport(w io.Writer, suite string, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, r := range results {
		detail := r.Outcome.String()
		if r.Verdict.Decision == Fail {
			detail = r.Verdict.Diagnostic
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%s\n", r.Verdict.Decision, r.Fixture.Name(),
			r.Fixture.Category, r.Outcome.Elapsed.Round(time.Millisecond), detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, Summarize(suite, results))
	return err
}
