package fsm

import "github.com/xlab/phonemeta/digits"

// Matcher is the contract every matcher implementation in this package
// satisfies: classify a digit sequence, test a length cheaply, and expose
// the set of lengths it can possibly accept.
type Matcher interface {
	// Match classifies seq fully, running the byte-code interpreter (or
	// delegating to sub-matchers for a Combined matcher).
	Match(seq digits.Sequence) MatchResult
	// IsMatch reports whether seq is a full, exact match. It may
	// fast-reject by length mask before running the interpreter.
	IsMatch(seq digits.Sequence) bool
	// TestLength classifies a candidate length using only the stored
	// length mask.
	TestLength(length int) LengthResult
	// LengthMask returns the matcher's length mask.
	LengthMask() *LengthMask
}

// isMatchByLength is the shared IsMatch implementation: reject by length
// mask before paying for the full interpreter run.
func isMatchByLength(m Matcher, seq digits.Sequence) bool {
	if m.TestLength(seq.Len()) != Possible {
		return false
	}
	return m.Match(seq) == Matched
}

// DFA is a non-empty byte-code program plus its length mask — the
// "DFA matcher" variant of MatcherFunction.
type DFA struct {
	program []byte
	lengths *LengthMask
}

// NewDFA builds a DFA matcher from an opcode byte stream and its
// precomputed length mask. program must be non-empty.
func NewDFA(program []byte, lengths *LengthMask) *DFA {
	if len(program) == 0 {
		panic("fsm: NewDFA requires a non-empty program; use Empty{} instead")
	}
	if lengths == nil {
		lengths = NewLengthMask()
	}
	return &DFA{program: program, lengths: lengths}
}

func (d *DFA) Match(seq digits.Sequence) MatchResult { return matchProgram(d.program, seq) }
func (d *DFA) IsMatch(seq digits.Sequence) bool       { return isMatchByLength(d, seq) }
func (d *DFA) TestLength(length int) LengthResult     { return d.lengths.Test(length) }
func (d *DFA) LengthMask() *LengthMask                { return d.lengths }

// Combined holds an ordered list of sub-matchers. Its length mask is the
// union of its children's masks; Match returns the best (lowest-ordinal)
// result among them, short-circuiting on the first Matched.
type Combined struct {
	children []Matcher
	lengths  *LengthMask
}

// NewCombined builds a Combined matcher over children, in order.
func NewCombined(children ...Matcher) *Combined {
	masks := make([]*LengthMask, len(children))
	for i, c := range children {
		masks[i] = c.LengthMask()
	}
	return &Combined{children: children, lengths: Union(masks...)}
}

func (c *Combined) Match(seq digits.Sequence) MatchResult {
	best := Invalid
	for _, child := range c.children {
		r := child.Match(seq)
		if r == Matched {
			return Matched
		}
		best = Combine(best, r)
	}
	return best
}

func (c *Combined) IsMatch(seq digits.Sequence) bool   { return isMatchByLength(c, seq) }
func (c *Combined) TestLength(length int) LengthResult { return c.lengths.Test(length) }
func (c *Combined) LengthMask() *LengthMask            { return c.lengths }

// Empty is a matcher with no data; it always reports Invalid and
// InvalidLength (as LengthMask.Test does for an empty mask).
type Empty struct{}

func (Empty) Match(digits.Sequence) MatchResult   { return Invalid }
func (Empty) IsMatch(digits.Sequence) bool        { return false }
func (Empty) TestLength(int) LengthResult         { return InvalidLength }
func (Empty) LengthMask() *LengthMask             { return emptyMask }

var emptyMask = NewLengthMask()
