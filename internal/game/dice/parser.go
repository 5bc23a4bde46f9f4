package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// maxDiceCount bounds the number of dice per expression. Matches the data
// validator's limit for content files.
const maxDiceCount = 100

// Expression represents a parsed dice notation ready to be rolled.
// Invariant after a successful Parse: Count >= 1, Sides >= 2.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// Parse parses a notation string of the form "<count>d<sides>[+/-<mod>]".
// The count defaults to 1 when omitted ("d20" == "1d20"). Whitespace is
// ignored and the notation is case-insensitive.
//
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(notation string) (Expression, error) {
	raw := notation
	s := strings.ToLower(strings.ReplaceAll(notation, " ", ""))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty notation")
	}

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Expression{}, fmt.Errorf("dice: missing 'd' in notation %q", raw)
	}

	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		count = n
	}
	if count < 1 || count > maxDiceCount {
		return Expression{}, fmt.Errorf("dice: die count must be 1-%d in %q, got %d", maxDiceCount, raw, count)
	}

	rest := s[dIdx+1:]

	// Split sides from the optional signed modifier. The sign search starts
	// at index 1 so a leading sign on the sides is rejected by Atoi below.
	modOffset := -1
	for i := 1; i < len(rest); i++ {
		if rest[i] == '+' || rest[i] == '-' {
			modOffset = i
			break
		}
	}

	sidesStr, modStr := rest, ""
	if modOffset >= 0 {
		sidesStr, modStr = rest[:modOffset], rest[modOffset:]
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: die sides must be >= 2 in %q, got %d", raw, sides)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
	}

	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: modifier}, nil
}

// MustParse parses notation and panics on error. Useful for package-level
// constants and content defaults.
func MustParse(notation string) Expression {
	e, err := Parse(notation)
	if err != nil {
		panic("dice: MustParse failed for notation " + notation + ": " + err.Error())
	}
	return e
}

// Roll evaluates an Expression using the given Source.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count and each die is in [1, Sides].
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{
		Notation: expr.Raw,
		Dice:     rolled,
		Modifier: expr.Modifier,
	}
}
