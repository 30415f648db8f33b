// Package digits implements DigitSequence: an immutable, compact
// representation of up to 19 decimal digits.
//
// The encoding packs two digits per byte (high nibble first), generalized
// from a semi-octet-style 2-digit address field to a 19-digit sequence
// with an explicit length so that "007" and "7" remain distinct.
package digits

import (
	"errors"
	"fmt"
	"strings"
)

// MaxLength is the longest digit sequence the package can represent.
const MaxLength = 19

// ErrTooLong is returned when a sequence would exceed MaxLength digits.
var ErrTooLong = errors.New("digits: sequence exceeds maximum length")

// ErrNotDigit is returned when a non-digit byte or rune is fed to a builder
// or parser.
var ErrNotDigit = errors.New("digits: input contains a non-digit character")

const packedBytes = (MaxLength + 1) / 2

// Sequence is an ordered, fixed-capacity run of decimal digits 0-9.
// The zero value is the empty sequence. Sequence is a small value type;
// copying it copies the whole digit run.
type Sequence struct {
	length uint8
	packed [packedBytes]byte
}

// Len returns the number of digits in s.
func (s Sequence) Len() int {
	return int(s.length)
}

// At returns the i'th digit (0-indexed) of s. It panics if i is out of
// range, the same contract-violation-panics idiom used for programmer
// errors elsewhere in this module.
func (s Sequence) At(i int) uint8 {
	if i < 0 || i >= int(s.length) {
		panic(fmt.Sprintf("digits: index %d out of range for sequence of length %d", i, s.length))
	}
	return getNibble(s.packed[:], i)
}

func getNibble(packed []byte, i int) uint8 {
	b := packed[i/2]
	if i%2 == 0 {
		return b >> 4
	}
	return b & 0x0F
}

func setNibble(packed []byte, i int, v uint8) {
	idx := i / 2
	if i%2 == 0 {
		packed[idx] = (packed[idx] & 0x0F) | (v << 4)
	} else {
		packed[idx] = (packed[idx] & 0xF0) | (v & 0x0F)
	}
}

// Prefix returns the first n digits of s. It panics if n is out of
// [0, s.Len()].
func (s Sequence) Prefix(n int) Sequence {
	if n < 0 || n > int(s.length) {
		panic(fmt.Sprintf("digits: prefix length %d out of range for sequence of length %d", n, s.length))
	}
	var out Sequence
	for i := 0; i < n; i++ {
		setNibble(out.packed[:], i, getNibble(s.packed[:], i))
	}
	out.length = uint8(n)
	return out
}

// Suffix returns the last n digits of s. It panics if n is out of
// [0, s.Len()].
func (s Sequence) Suffix(n int) Sequence {
	if n < 0 || n > int(s.length) {
		panic(fmt.Sprintf("digits: suffix length %d out of range for sequence of length %d", n, s.length))
	}
	start := int(s.length) - n
	var out Sequence
	for i := 0; i < n; i++ {
		setNibble(out.packed[:], i, getNibble(s.packed[:], start+i))
	}
	out.length = uint8(n)
	return out
}

// Append returns a new sequence consisting of s followed by other. It
// returns ErrTooLong if the combined length would exceed MaxLength.
func Append(s, other Sequence) (Sequence, error) {
	total := int(s.length) + int(other.length)
	if total > MaxLength {
		return Sequence{}, ErrTooLong
	}
	out := s
	for i := 0; i < int(other.length); i++ {
		setNibble(out.packed[:], int(s.length)+i, getNibble(other.packed[:], i))
	}
	out.length = uint8(total)
	return out, nil
}

// AppendDigit returns a new sequence with d appended to the end of s. It
// returns ErrTooLong if s is already at MaxLength, or ErrNotDigit if d is
// not in 0-9.
func (s Sequence) AppendDigit(d uint8) (Sequence, error) {
	if d > 9 {
		return Sequence{}, ErrNotDigit
	}
	if int(s.length) >= MaxLength {
		return Sequence{}, ErrTooLong
	}
	out := s
	setNibble(out.packed[:], int(s.length), d)
	out.length++
	return out, nil
}

// Iterator is a single-pass, single-ownership cursor over a Sequence's
// digits. It is not safe to share between goroutines.
type Iterator struct {
	seq Sequence
	pos int
}

// Iterate returns a fresh Iterator positioned before the first digit.
func (s Sequence) Iterate() *Iterator {
	return &Iterator{seq: s}
}

// HasNext reports whether there are digits left to consume.
func (it *Iterator) HasNext() bool {
	return it.pos < it.seq.Len()
}

// Remaining reports how many digits are left to consume.
func (it *Iterator) Remaining() int {
	return it.seq.Len() - it.pos
}

// Next returns the next digit and advances the cursor. It panics if called
// with no digits remaining.
func (it *Iterator) Next() uint8 {
	d := it.seq.At(it.pos)
	it.pos++
	return d
}

// Peek returns the next digit without advancing the cursor. It panics if
// called with no digits remaining.
func (it *Iterator) Peek() uint8 {
	return it.seq.At(it.pos)
}

// String renders s in canonical decimal form, e.g. "007".
func (s Sequence) String() string {
	var b strings.Builder
	b.Grow(int(s.length))
	for i := 0; i < int(s.length); i++ {
		b.WriteByte('0' + getNibble(s.packed[:], i))
	}
	return b.String()
}

// Parse builds a Sequence from a string of ASCII decimal digits. It fails
// on any non-digit byte or if the input is longer than MaxLength.
func Parse(str string) (Sequence, error) {
	if len(str) > MaxLength {
		return Sequence{}, ErrTooLong
	}
	var out Sequence
	for i := 0; i < len(str); i++ {
		c := str[i]
		if c < '0' || c > '9' {
			return Sequence{}, ErrNotDigit
		}
		setNibble(out.packed[:], i, c-'0')
	}
	out.length = uint8(len(str))
	return out, nil
}

// Equal reports whether a and b hold the same digits in the same order.
func Equal(a, b Sequence) bool {
	return Compare(a, b) == 0
}

// Compare orders sequences by length first, then lexicographically by
// digit value. It returns a negative number, zero, or a positive number as
// a is less than, equal to, or greater than b.
func Compare(a, b Sequence) int {
	if a.length != b.length {
		if a.length < b.length {
			return -1
		}
		return 1
	}
	for i := 0; i < int(a.length); i++ {
		da, db := getNibble(a.packed[:], i), getNibble(b.packed[:], i)
		if da != db {
			return int(da) - int(db)
		}
	}
	return 0
}
