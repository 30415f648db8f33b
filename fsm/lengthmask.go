package fsm

import "github.com/bits-and-blooms/bitset"

// MaxDigitLength is the longest digit sequence lengths are tracked for.
const MaxDigitLength = 19

// LengthMask records, for lengths 0..MaxDigitLength, whether that length
// appears in any sequence a Matcher accepts. It backs the fast
// length-only rejection path described for the FSM.
type LengthMask struct {
	bits     *bitset.BitSet
	min, max int // -1 when empty
}

// NewLengthMask returns an empty mask.
func NewLengthMask() *LengthMask {
	return &LengthMask{bits: bitset.New(MaxDigitLength + 1), min: -1, max: -1}
}

// Set marks length as possible.
func (m *LengthMask) Set(length int) {
	m.bits.Set(uint(length))
	if m.min == -1 || length < m.min {
		m.min = length
	}
	if length > m.max {
		m.max = length
	}
}

// IsSet reports whether length is marked possible.
func (m *LengthMask) IsSet(length int) bool {
	if length < 0 || length > MaxDigitLength {
		return false
	}
	return m.bits.Test(uint(length))
}

// Union returns a new mask that is the bitwise OR of every non-nil mask in
// masks.
func Union(masks ...*LengthMask) *LengthMask {
	out := NewLengthMask()
	for _, m := range masks {
		if m == nil {
			continue
		}
		out.bits.InPlaceUnion(m.bits)
		if m.min != -1 && (out.min == -1 || m.min < out.min) {
			out.min = m.min
		}
		if m.max > out.max {
			out.max = m.max
		}
	}
	return out
}

// Test classifies length against the mask per the FSM's testLength rule:
// Possible if the bit is set; TooShort if length is below every possible
// length; TooLong if length is above every possible length; InvalidLength
// if length falls within the possible range but that exact length is not
// one of them.
func (m *LengthMask) Test(length int) LengthResult {
	if m.min == -1 {
		return InvalidLength
	}
	if length >= 0 && length <= MaxDigitLength && m.bits.Test(uint(length)) {
		return Possible
	}
	if length < m.min {
		return TooShort
	}
	if length > m.max {
		return TooLong
	}
	return InvalidLength
}
