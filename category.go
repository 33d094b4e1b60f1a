package badssl

import (
	"errors"
	"fmt"
)

// Category describes the expected result of a secured connection attempt.
type Category int

const (
	// Good endpoints must be reachable.
	Good Category = iota
	// Bad endpoints must be rejected.
	Bad
	// Dubious endpoints have no clear ideal behavior. They are held to the same rule as Bad.
	Dubious
	// GoodBroken endpoints should be reachable but are currently rejected.
	GoodBroken
	// BadBroken endpoints should be rejected but are currently accepted.
	BadBroken
	// DubiousBroken endpoints are ambiguous and currently accepted.
	DubiousBroken
)

var ErrUnknownCategory = errors.New("badssl: unknown category")

var categoryNames = [...]string{
	Good:          "good",
	Bad:           "bad",
	Dubious:       "dubious",
	GoodBroken:    "good_broken",
	BadBroken:     "bad_broken",
	DubiousBroken: "dubious_broken",
}

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{Good, Bad, Dubious, GoodBroken, BadBroken, DubiousBroken}
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory is the inverse of [Category.String].
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// ShouldNotRaise reports whether a successful connection is the accepted behavior for c.
func (c Category) ShouldNotRaise() bool {
	switch c {
	case Good, DubiousBroken, BadBroken:
		return true
	}
	return false
}

// Broken reports whether c pins a known client limitation.
func (c Category) Broken() bool {
	switch c {
	case GoodBroken, BadBroken, DubiousBroken:
		return true
	}
	return false
}

// Set implements [flag.Value] so categories can be taken from the command line.
func (c *Category) Set(s string) error {
	v, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Type implements pflag.Value.
func (c *Category) Type() string { return "category" }
