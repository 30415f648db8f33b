package callingcode

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xlab/phonemeta/digits"
)

func TestIsRecognised(t *testing.T) {
	require.True(t, IsRecognised(1))
	require.True(t, IsRecognised(44))
	require.True(t, IsRecognised(54))
	require.False(t, IsRecognised(0))
	require.False(t, IsRecognised(13))
	require.False(t, IsRecognised(1000))
}

func TestExtractLeadingShortestMatch(t *testing.T) {
	seq, err := digits.Parse("16502123456")
	require.NoError(t, err)
	cc, ok := ExtractLeading(seq)
	require.True(t, ok)
	require.Equal(t, "1", cc.String())
}

func TestExtractLeadingThreeDigit(t *testing.T) {
	seq, err := digits.Parse("2125551212")
	require.NoError(t, err)
	cc, ok := ExtractLeading(seq)
	require.True(t, ok)
	require.Equal(t, "212", cc.String())
}

func TestExtractLeadingRejectsLeadingZero(t *testing.T) {
	seq, err := digits.Parse("0123456789")
	require.NoError(t, err)
	_, ok := ExtractLeading(seq)
	require.False(t, ok)
}

func TestExtractLeadingMatchesThreeDigit999(t *testing.T) {
	seq, err := digits.Parse("999999")
	require.NoError(t, err)
	// 999 is mask-recognised, so this should still match (as "999").
	cc, ok := ExtractLeading(seq)
	require.True(t, ok)
	require.Equal(t, "999", cc.String())
}

func TestAsCallingCode(t *testing.T) {
	cc, _ := digits.Parse("44")
	require.True(t, AsCallingCode(cc))

	bad, _ := digits.Parse("013")
	require.False(t, AsCallingCode(bad))

	tooLong, _ := digits.Parse("1234")
	require.False(t, AsCallingCode(tooLong))
}

func TestNewPhoneNumber(t *testing.T) {
	cc, _ := digits.Parse("44")
	nn, _ := digits.Parse("2087438000")

	p, err := New(cc, nn)
	require.NoError(t, err)
	require.Equal(t, "+442087438000", p.String())
}

func TestNewPhoneNumberRejectsUnrecognisedCallingCode(t *testing.T) {
	cc, _ := digits.Parse("013")
	nn, _ := digits.Parse("2087438000")

	_, err := New(cc, nn)
	require.ErrorIs(t, err, ErrUnrecognisedCallingCode)
}
