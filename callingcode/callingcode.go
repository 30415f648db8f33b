// Package callingcode holds the static, code-version-fixed set of
// recognised international calling codes (1-999), independent of any
// metadata blob. Rebuilding this set requires a new release of the
// module, not a new metadata blob.
package callingcode

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/xlab/phonemeta/digits"
)

// ErrUnrecognisedCallingCode is returned when a candidate calling code is
// not a member of the fixed global set.
var ErrUnrecognisedCallingCode = errors.New("callingcode: not a recognised calling code")

// mask is the fixed membership set. It is populated once from
// recognisedCallingCodes (table.go) and never mutated afterwards, so it can be shared
// across goroutines without synchronisation.
var mask = buildMask()

func buildMask() *bitset.BitSet {
	b := bitset.New(1000)
	for _, cc := range recognisedCallingCodes {
		b.Set(uint(cc))
	}
	return b
}

// IsRecognised reports whether cc (1-999) is a member of the fixed global
// calling-code set.
func IsRecognised(cc int) bool {
	if cc < 1 || cc > 999 {
		return false
	}
	return mask.Test(uint(cc))
}

// ExtractLeading greedily consumes 1-3 leading digits of seq against the
// mask, returning the shortest prefix that is a recognised calling code.
// It reports ok=false if the first digit is 0 or no prefix matches.
func ExtractLeading(seq digits.Sequence) (cc digits.Sequence, ok bool) {
	if seq.Len() == 0 || seq.At(0) == 0 {
		return digits.Sequence{}, false
	}
	maxLen := 3
	if seq.Len() < maxLen {
		maxLen = seq.Len()
	}
	for n := 1; n <= maxLen; n++ {
		candidate := seq.Prefix(n)
		if IsRecognised(toInt(candidate)) {
			return candidate, true
		}
	}
	return digits.Sequence{}, false
}

// AsCallingCode validates that seq is a well-formed CallingCode: 1-3
// digits, no leading zero, and a member of the fixed global set.
func AsCallingCode(seq digits.Sequence) bool {
	if seq.Len() < 1 || seq.Len() > 3 {
		return false
	}
	if seq.At(0) == 0 {
		return false
	}
	return IsRecognised(toInt(seq))
}

func toInt(seq digits.Sequence) int {
	n := 0
	for i := 0; i < seq.Len(); i++ {
		n = n*10 + int(seq.At(i))
	}
	return n
}

// PhoneNumber is a (callingCode, nationalNumber) pair, with the invariant
// that callingCode is a member of the fixed global set.
type PhoneNumber struct {
	CallingCode    digits.Sequence
	NationalNumber digits.Sequence
}

// New builds a PhoneNumber, rejecting cc if it is not a recognised calling
// code.
func New(cc, nn digits.Sequence) (PhoneNumber, error) {
	if !AsCallingCode(cc) {
		return PhoneNumber{}, fmt.Errorf("callingcode: %q: %w", cc.String(), ErrUnrecognisedCallingCode)
	}
	return PhoneNumber{CallingCode: cc, NationalNumber: nn}, nil
}

// String renders p in canonical E.164-like form "+<callingCode><nationalNumber>".
func (p PhoneNumber) String() string {
	return "+" + p.CallingCode.String() + p.NationalNumber.String()
}
