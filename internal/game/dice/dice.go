// Package dice implements the dice service: D&D-style notation parsing,
// a pluggable randomness source, and a logged roller with critical-hit
// aware attack rolls.
package dice

import (
	"fmt"
	"strings"
)

// RollResult holds the full audit trail for a single notation evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Notation string // original notation string, e.g. "2d6+3"
	Dice     []int  // individual die results before modifier
	Modifier int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders an audit line such as "2d6+3 = [4 5] +3 = 12".
// A zero modifier is omitted from the rendering.
func (r RollResult) String() string {
	var b strings.Builder
	b.WriteString(r.Notation)
	b.WriteString(" = ")
	fmt.Fprintf(&b, "%v", r.Dice)
	if r.Modifier != 0 {
		fmt.Fprintf(&b, " %+d", r.Modifier)
	}
	fmt.Fprintf(&b, " = %d", r.Total())
	return b.String()
}

// WithBonus folds a signed flat bonus into a base notation. A modifier
// already embedded in the base is merged, so WithBonus("1d6+2", 3) yields
// "1d6+5", and a merged total of 0 is omitted rather than rendered as "+0".
// An unparseable base is returned with the bonus appended; Parse rejects it
// downstream with the original notation in the error.
func WithBonus(base string, bonus int) string {
	expr, err := Parse(base)
	if err != nil {
		if bonus == 0 {
			return base
		}
		return fmt.Sprintf("%s%+d", base, bonus)
	}
	total := expr.Modifier + bonus
	if total == 0 {
		return fmt.Sprintf("%dd%d", expr.Count, expr.Sides)
	}
	return fmt.Sprintf("%dd%d%+d", expr.Count, expr.Sides, total)
}

// Source is the randomness provider for dice rolls.
//
// Implementations must be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
