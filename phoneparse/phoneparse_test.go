package phoneparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xlab/phonemeta/digits"
	"github.com/xlab/phonemeta/fsm"
	"github.com/xlab/phonemeta/internal/blobtest"
	"github.com/xlab/phonemeta/metadata"
	"github.com/xlab/phonemeta/phoneparse"
)

func testVersion() metadata.VersionInfo {
	return metadata.VersionInfo{SchemaURI: "test://phoneparse", SchemaVersion: 1, MajorDataVersion: 1, MinorDataVersion: 0}
}

func buildTestRegistry(t *testing.T) *metadata.Registry {
	t.Helper()
	b := blobtest.New(testVersion())

	us := b.CallingCode("1")
	us.AddMatcher(blobtest.DFA(blobtest.FixedLengthDigits(10), 10))
	us.Validity(0)
	us.Regions("US")
	us.Done()

	gb := b.CallingCode("44")
	gb.AddMatcher(blobtest.DFA(blobtest.FixedLengthDigits(10), 10))
	gb.Validity(0)
	gb.NationalPrefixes(false, "0")
	gb.Regions("GB")
	gb.Done()

	ar := b.CallingCode("54")
	ar.AddMatcher(blobtest.DFA(blobtest.FixedLengthDigits(11), 11))
	ar.Validity(0)
	ar.NationalPrefixes(true, "0")
	ar.Regions("AR")
	ar.Done()

	blob := b.Build()
	reg, err := metadata.Load(blob, testVersion())
	require.NoError(t, err)
	return reg
}

func TestParseStrictlyStripsRequiredNationalPrefix(t *testing.T) {
	reg := buildTestRegistry(t)
	p := phoneparse.New(reg)

	r, err := p.ParseStrictly("(020) 8743 8000", phoneparse.WithRegion(reg, "GB"))
	require.NoError(t, err)
	require.Equal(t, fsm.Matched, r.Match)
	require.Equal(t, phoneparse.National, r.Format)
	require.Equal(t, "44", r.Number.CallingCode.String())
	require.Equal(t, "2087438000", r.Number.NationalNumber.String())
}

func TestParseStrictlyInternationalShapeBeatsNational(t *testing.T) {
	reg := buildTestRegistry(t)
	p := phoneparse.New(reg)

	r, err := p.ParseStrictly("+44 20 8743 8000", phoneparse.WithRegion(reg, "US"))
	require.NoError(t, err)
	require.Equal(t, fsm.Matched, r.Match)
	require.Equal(t, phoneparse.International, r.Format)
	require.Equal(t, "44", r.Number.CallingCode.String())
	require.Equal(t, "2087438000", r.Number.NationalNumber.String())
}

func TestParseStrictlyFullWidthDigits(t *testing.T) {
	reg := buildTestRegistry(t)
	p := phoneparse.New(reg)

	r, err := p.ParseStrictly("＋４４　２０　８７４３　８０００")
	require.NoError(t, err)
	require.Equal(t, fsm.Matched, r.Match)
	require.Equal(t, phoneparse.International, r.Format)
	require.Equal(t, "44", r.Number.CallingCode.String())
	require.Equal(t, "2087438000", r.Number.NationalNumber.String())
}

func TestParseStrictlyArgentinianMobileRewrite(t *testing.T) {
	reg := buildTestRegistry(t)
	p := phoneparse.New(reg)

	r, err := p.ParseStrictly("0 11 15-3329-5195", phoneparse.WithRegion(reg, "AR"))
	require.NoError(t, err)
	require.Equal(t, fsm.Matched, r.Match)
	require.Equal(t, "54", r.Number.CallingCode.String())
	require.Equal(t, "91133295195", r.Number.NationalNumber.String())
}

func TestParseStrictlyUnsupportedCallingCodeFallback(t *testing.T) {
	reg := buildTestRegistry(t)
	p := phoneparse.New(reg)

	r, err := p.ParseStrictly("+99912345")
	require.NoError(t, err)
	require.Equal(t, fsm.Invalid, r.Match)
	require.Equal(t, phoneparse.International, r.Format)
	require.Equal(t, "999", r.Number.CallingCode.String())
	require.Equal(t, "12345", r.Number.NationalNumber.String())
}

func TestParseStrictlyRejectsDisallowedCharacters(t *testing.T) {
	reg := buildTestRegistry(t)
	p := phoneparse.New(reg)

	_, err := p.ParseStrictly("call 650-212-3456 now")
	require.ErrorIs(t, err, phoneparse.ErrNoParse)
}

func TestParseStrictlyFailsWithNoCandidates(t *testing.T) {
	reg := buildTestRegistry(t)
	p := phoneparse.New(reg)

	_, err := p.ParseStrictly("6502123456")
	require.ErrorIs(t, err, phoneparse.ErrNoParse)
}

func TestParseLenientlyReturnsNumberOnly(t *testing.T) {
	reg := buildTestRegistry(t)
	p := phoneparse.New(reg)

	n, ok := p.ParseLeniently("6502123456", phoneparse.WithRegion(reg, "US"))
	require.True(t, ok)
	require.Equal(t, "1", n.CallingCode.String())
	require.Equal(t, "6502123456", n.NationalNumber.String())
}

func TestWithCallingCodeOption(t *testing.T) {
	reg := buildTestRegistry(t)
	p := phoneparse.New(reg)

	cc, err := digits.Parse("1")
	require.NoError(t, err)
	n, ok := p.ParseLeniently("6502123456", phoneparse.WithCallingCode(cc))
	require.True(t, ok)
	require.Equal(t, "1", n.CallingCode.String())
}
