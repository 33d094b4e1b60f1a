package badssl

import "fmt"

// Decision is what the oracle makes of one outcome.
type Decision int

const (
	Pass Decision = iota
	Skip
	Fail
)

func (d Decision) String() string {
	switch d {
	case Pass:
		return "PASS"
	case Skip:
		return "SKIP"
	case Fail:
		return "FAIL"
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

// Verdict is the oracle's classification of one fixture's outcome.
type Verdict struct {
	Decision Decision

	// Mismatch is set when the attempt raised although it should not have, or the other way
	// round.
	Mismatch bool

	// Diagnostic explains a Fail, and is empty otherwise.
	Diagnostic string
}

// Evaluate decides whether outcome is consistent with the category of f.
//
// An outcome is accepted when the attempt raised exactly for the categories where raising is the
// current behavior (bad, dubious, good_broken). An accepted failure must also carry a message the
// allow-list knows about. Accepted outcomes of *_broken fixtures are skipped rather than passed.
func Evaluate(f Fixture, outcome Outcome, allow AllowList) Verdict {
	if f.Category.ShouldNotRaise() == outcome.Raised() {
		return Verdict{
			Decision:   Fail,
			Mismatch:   true,
			Diagnostic: diagnostic(f, outcome),
		}
	}
	if outcome.Raised() && !allow.Allows(outcome.Message()) {
		return Verdict{
			Decision: Fail,
			Diagnostic: fmt.Sprintf("%s (%s) raised an unexpected message: %q",
				f.Name(), f.Category, outcome.Message()),
		}
	}
	if f.Category.Broken() {
		return Verdict{Decision: Skip}
	}
	return Verdict{Decision: Pass}
}

func diagnostic(f Fixture, outcome Outcome) string {
	if outcome.Raised() {
		return fmt.Sprintf("%s (%s) raised: %s", f.Name(), f.Category, outcome.Message())
	}
	return fmt.Sprintf("%s (%s) did not raise", f.Name(), f.Category)
}
