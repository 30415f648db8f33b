package classify_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xlab/phonemeta/classify"
	"github.com/xlab/phonemeta/digits"
	"github.com/xlab/phonemeta/internal/blobtest"
	"github.com/xlab/phonemeta/metadata"
)

func testVersion() metadata.VersionInfo {
	return metadata.VersionInfo{SchemaURI: "test://classify", SchemaVersion: 1, MajorDataVersion: 1, MinorDataVersion: 0}
}

func buildNANPARegistry(t *testing.T) *metadata.Registry {
	t.Helper()
	b := blobtest.New(testVersion())
	b.Type("TYPE", true, true)
	b.Type("REGION", true, true)

	cc := b.CallingCode("1")
	cc.AddMatcher(blobtest.DFA(blobtest.FixedLengthDigits(10), 10))
	cc.Validity(0)
	cc.Value("TYPE", "FIXED_LINE_OR_MOBILE")
	cc.Value("REGION", "US")
	cc.Regions("US")
	cc.Example("6502123456")
	cc.Done()

	blob := b.Build()
	reg, err := metadata.Load(blob, testVersion())
	require.NoError(t, err)
	return reg
}

func identity(s string) (string, bool) { return s, true }

func TestTypedClassifySingleValued(t *testing.T) {
	reg := buildNANPARegistry(t)
	nn, err := digits.Parse("6502123456")
	require.NoError(t, err)
	cc, err := digits.Parse("1")
	require.NoError(t, err)
	number := classify.Number{CallingCode: cc, NationalNumber: nn}

	typeClassifier := classify.NewSingleValuedClassifier[string](reg, "TYPE", identity, func(s string) string { return s })
	v, ok := typeClassifier.Identify(number)
	require.True(t, ok)
	require.Equal(t, "FIXED_LINE_OR_MOBILE", v)

	regionClassifier := classify.NewSingleValuedClassifier[string](reg, "REGION", identity, func(s string) string { return s })
	region, ok := regionClassifier.Identify(number)
	require.True(t, ok)
	require.Equal(t, "US", region)
}

func TestTypedClassifyEmptyOnMismatch(t *testing.T) {
	reg := buildNANPARegistry(t)
	nn, err := digits.Parse("650212345") // 9 digits, one short
	require.NoError(t, err)
	cc, err := digits.Parse("1")
	require.NoError(t, err)
	number := classify.Number{CallingCode: cc, NationalNumber: nn}

	typeClassifier := classify.NewClassifier[string](reg, "TYPE", identity, func(s string) string { return s })
	require.Empty(t, typeClassifier.Classify(number))
}

func TestNewMatcherPanicsOnClassifierOnlyType(t *testing.T) {
	reg := buildNANPARegistry(t)
	require.Panics(t, func() {
		classify.NewMatcher[string](reg, "TYPE", identity, func(s string) string { return s })
	})
}

func TestNewSingleValuedClassifierPanicsOnUnknownType(t *testing.T) {
	reg := buildNANPARegistry(t)
	require.Panics(t, func() {
		classify.NewSingleValuedClassifier[string](reg, "NOT_A_TYPE", identity, func(s string) string { return s })
	})
}
