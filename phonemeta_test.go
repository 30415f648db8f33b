package phonemeta_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xlab/phonemeta"
	"github.com/xlab/phonemeta/fsm"
	"github.com/xlab/phonemeta/internal/blobtest"
	"github.com/xlab/phonemeta/metadata"
)

func testVersion() metadata.VersionInfo {
	return metadata.VersionInfo{SchemaURI: "test://phonemeta", SchemaVersion: 1, MajorDataVersion: 1, MinorDataVersion: 0}
}

func buildRuntime(t *testing.T) *phonemeta.Runtime {
	t.Helper()
	b := blobtest.New(testVersion())
	b.Type("TYPE", true, true)

	us := b.CallingCode("1")
	us.AddMatcher(blobtest.DFA(blobtest.FixedLengthDigits(10), 10))
	us.Validity(0)
	us.Value("TYPE", "FIXED_LINE_OR_MOBILE")
	us.Regions("US")
	us.Example("6502123456")
	us.Done()

	blob := b.Build()
	reg, err := metadata.Load(blob, testVersion())
	require.NoError(t, err)
	return phonemeta.New(reg)
}

func TestParseE164RoundTrip(t *testing.T) {
	rt := buildRuntime(t)

	n, err := rt.ParseE164("+16502123456")
	require.NoError(t, err)
	require.Equal(t, "1", n.CallingCode.String())
	require.Equal(t, "6502123456", n.NationalNumber.String())
	require.Equal(t, "+16502123456", n.String())
}

func TestParseE164RejectsNonDigits(t *testing.T) {
	rt := buildRuntime(t)
	_, err := rt.ParseE164("+1650abc3456")
	require.ErrorIs(t, err, phonemeta.ErrNotE164)
}

func TestMatchAndTestLength(t *testing.T) {
	rt := buildRuntime(t)
	n, err := rt.ParseE164("+16502123456")
	require.NoError(t, err)

	require.Equal(t, fsm.Matched, rt.Match(n))
	require.Equal(t, fsm.Possible, rt.TestLength(n))
}

func TestClassifyAndIdentify(t *testing.T) {
	rt := buildRuntime(t)
	n, err := rt.ParseE164("+16502123456")
	require.NoError(t, err)

	set := rt.Classify(n, "TYPE")
	require.Contains(t, set, "FIXED_LINE_OR_MOBILE")

	v, ok := rt.Identify(n, "TYPE")
	require.True(t, ok)
	require.Equal(t, "FIXED_LINE_OR_MOBILE", v)
}

func TestRegionAndExampleLookups(t *testing.T) {
	rt := buildRuntime(t)
	n, err := rt.ParseE164("+16502123456")
	require.NoError(t, err)

	regions, ok := rt.GetRegions(n.CallingCode)
	require.True(t, ok)
	require.Equal(t, []string{"US"}, regions)

	cc, ok := rt.GetCallingCode("US")
	require.True(t, ok)
	require.Equal(t, "1", cc.String())

	example, ok := rt.GetExampleNumber(n.CallingCode)
	require.True(t, ok)
	require.Equal(t, "6502123456", example.String())
}

func TestParseLenientlyAndFormat(t *testing.T) {
	rt := buildRuntime(t)

	n, ok := rt.ParseLeniently("6502123456", phonemeta.WithRegion(rt.Registry(), "US"))
	require.True(t, ok)
	require.Equal(t, "6502123456", rt.Format(n, phonemeta.National))
}
