// Package fsm implements the digit-sequence matcher: a byte-coded finite
// state machine that classifies a decimal digit sequence as Matched,
// PartialMatch, ExcessDigits, or Invalid, plus a fast length-only
// rejection test.
package fsm

// MatchResult ranks how well a digit sequence matched a Matcher, best
// first. The ordinal values are meaningful: Combine picks the smaller one.
type MatchResult int

const (
	Matched MatchResult = iota
	PartialMatch
	ExcessDigits
	PossibleLength
	Invalid
)

func (r MatchResult) String() string {
	switch r {
	case Matched:
		return "Matched"
	case PartialMatch:
		return "PartialMatch"
	case ExcessDigits:
		return "ExcessDigits"
	case PossibleLength:
		return "PossibleLength"
	case Invalid:
		return "Invalid"
	default:
		return "MatchResult(?)"
	}
}

// Combine returns the better (lower-ordinal) of a and b. It is commutative
// and associative with identity element Invalid, and corresponds to
// matching against the union of the two matchers' accepted sets.
func Combine(a, b MatchResult) MatchResult {
	if a < b {
		return a
	}
	return b
}

// IsBetterThan reports whether a ranks strictly better than b.
func IsBetterThan(a, b MatchResult) bool {
	return a < b
}

// LengthResult classifies a candidate length against a Matcher's length
// mask, without running the full byte-code interpreter.
type LengthResult int

const (
	Possible LengthResult = iota
	TooShort
	TooLong
	InvalidLength
)

func (r LengthResult) String() string {
	switch r {
	case Possible:
		return "Possible"
	case TooShort:
		return "TooShort"
	case TooLong:
		return "TooLong"
	case InvalidLength:
		return "InvalidLength"
	default:
		return "LengthResult(?)"
	}
}
