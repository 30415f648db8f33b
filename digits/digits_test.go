package digits

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	cases := []string{"", "0", "7", "007", "6502123456", "9999999999999999999"}
	for _, c := range cases {
		seq, err := Parse(c)
		require.NoError(t, err)
		require.Equal(t, c, seq.String())
		require.Equal(t, len(c), seq.Len())
	}
}

func TestParseRejectsNonDigits(t *testing.T) {
	_, err := Parse("12a4")
	require.ErrorIs(t, err, ErrNotDigit)
}

func TestParseRejectsTooLong(t *testing.T) {
	_, err := Parse("12345678901234567890")
	require.ErrorIs(t, err, ErrTooLong)
}

func TestLeadingZeroDistinctFromBare(t *testing.T) {
	a, err := Parse("007")
	require.NoError(t, err)
	b, err := Parse("7")
	require.NoError(t, err)
	require.False(t, Equal(a, b))
}

func TestPrefixSuffixAppendRoundTrip(t *testing.T) {
	seq, err := Parse("6502123456")
	require.NoError(t, err)
	for n := 0; n <= seq.Len(); n++ {
		prefix := seq.Prefix(n)
		suffix := seq.Suffix(seq.Len() - n)
		joined, err := Append(prefix, suffix)
		require.NoError(t, err)
		require.True(t, Equal(seq, joined))
		require.Equal(t, seq.Len(), prefix.Len()+suffix.Len())
	}
}

func TestAppendDigit(t *testing.T) {
	var seq Sequence
	for _, c := range "123" {
		var err error
		seq, err = seq.AppendDigit(uint8(c - '0'))
		require.NoError(t, err)
	}
	require.Equal(t, "123", seq.String())
}

func TestAppendDigitTooLong(t *testing.T) {
	seq, err := Parse("1234567890123456789")
	require.NoError(t, err)
	require.Equal(t, MaxLength, seq.Len())
	_, err = seq.AppendDigit(1)
	require.ErrorIs(t, err, ErrTooLong)
}

func TestAppendDigitRejectsNonDigit(t *testing.T) {
	var seq Sequence
	_, err := seq.AppendDigit(11)
	require.ErrorIs(t, err, ErrNotDigit)
}

func TestIterator(t *testing.T) {
	seq, err := Parse("4815")
	require.NoError(t, err)
	it := seq.Iterate()
	var got []uint8
	for it.HasNext() {
		got = append(got, it.Next())
	}
	require.Equal(t, []uint8{4, 8, 1, 5}, got)
}

func TestIteratorPeekDoesNotAdvance(t *testing.T) {
	seq, err := Parse("42")
	require.NoError(t, err)
	it := seq.Iterate()
	require.Equal(t, uint8(4), it.Peek())
	require.Equal(t, uint8(4), it.Peek())
	require.Equal(t, uint8(4), it.Next())
	require.Equal(t, uint8(2), it.Next())
	require.False(t, it.HasNext())
}

func TestCompareOrdersByLengthThenLexicographic(t *testing.T) {
	short, _ := Parse("9")
	longer, _ := Parse("10")
	require.True(t, Compare(short, longer) < 0)

	a, _ := Parse("123")
	b, _ := Parse("124")
	require.True(t, Compare(a, b) < 0)
	require.True(t, Compare(b, a) > 0)
	require.Equal(t, 0, Compare(a, a))
}

func TestAtPanicsOutOfRange(t *testing.T) {
	seq, _ := Parse("12")
	require.Panics(t, func() { seq.At(5) })
}
