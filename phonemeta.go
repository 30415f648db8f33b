package phonemeta

import (
	"errors"
	"fmt"

	"github.com/xlab/phonemeta/callingcode"
	"github.com/xlab/phonemeta/digits"
	"github.com/xlab/phonemeta/fsm"
	"github.com/xlab/phonemeta/metadata"
	"github.com/xlab/phonemeta/phoneformat"
	"github.com/xlab/phonemeta/phoneparse"
)

// PhoneNumber is the (callingCode, nationalNumber) pair every Runtime
// method operates on.
type PhoneNumber = callingcode.PhoneNumber

// FormatType selects national or international rendering.
type FormatType = phoneformat.FormatType

// Re-exported so callers never need to import phoneformat directly just
// to name a FormatType value.
const (
	National      = phoneformat.National
	International = phoneformat.International
)

// Option customises a single ParseLeniently/ParseStrictly call.
type Option = phoneparse.Option

// ErrNotE164 is returned by ParseE164 when text's leading digits do not
// resolve to a recognised calling code, or text contains anything besides
// an optional leading '+' and decimal digits.
var ErrNotE164 = errors.New("phonemeta: not a valid E.164 string")

// Runtime is the loaded, immutable view of one metadata blob plus the
// parser and formatter built over it. A Runtime is safe for concurrent
// use once constructed; construction itself is not.
type Runtime struct {
	registry *metadata.Registry
	parser   *phoneparse.Parser
	fmt      *phoneformat.Formatter
}

// New builds a Runtime over an already-decoded registry. Use metadata.Load
// to obtain one from a raw blob.
func New(registry *metadata.Registry) *Runtime {
	return &Runtime{
		registry: registry,
		parser:   phoneparse.New(registry),
		fmt:      phoneformat.New(registry),
	}
}

// Registry returns the underlying metadata registry, for callers that need
// direct access to the raw classifier contract or the typed classify
// wrapper in package classify.
func (rt *Runtime) Registry() *metadata.Registry { return rt.registry }

// NewPhoneNumber builds a PhoneNumber, rejecting cc if it is not a
// recognised calling code.
func (rt *Runtime) NewPhoneNumber(cc, nn digits.Sequence) (PhoneNumber, error) {
	return callingcode.New(cc, nn)
}

// ParseE164 parses text as a strict E.164 string: an optional leading '+'
// followed only by decimal digits, whose leading run resolves to a
// recognised calling code.
func (rt *Runtime) ParseE164(text string) (PhoneNumber, error) {
	s := text
	if len(s) > 0 && s[0] == '+' {
		s = s[1:]
	}
	seq, err := digits.Parse(s)
	if err != nil {
		return PhoneNumber{}, fmt.Errorf("phonemeta: %q: %w", text, ErrNotE164)
	}
	cc, ok := callingcode.ExtractLeading(seq)
	if !ok {
		return PhoneNumber{}, fmt.Errorf("phonemeta: %q: %w", text, ErrNotE164)
	}
	nn := seq.Suffix(seq.Len() - cc.Len())
	return callingcode.New(cc, nn)
}

// TestLength classifies number's national-number length against its
// calling code's validity matcher, without running the full matcher.
func (rt *Runtime) TestLength(number PhoneNumber) fsm.LengthResult {
	return rt.registry.TestLength(number.CallingCode, number.NationalNumber)
}

// Match runs number's national number against its calling code's validity
// matcher.
func (rt *Runtime) Match(number PhoneNumber) fsm.MatchResult {
	return rt.registry.Match(number.CallingCode, number.NationalNumber)
}

// Classify dispatches number to typeName's value matcher, after requiring
// validity. Panics if typeName is unknown.
func (rt *Runtime) Classify(number PhoneNumber, typeName string) map[string]struct{} {
	return rt.registry.Classify(number.CallingCode, number.NationalNumber, typeName)
}

// Identify is Classify restricted to single-valued types. Panics if
// typeName is not single-valued.
func (rt *Runtime) Identify(number PhoneNumber, typeName string) (string, bool) {
	return rt.registry.ClassifyUniquely(number.CallingCode, number.NationalNumber, typeName)
}

// MatchValue classifies number's national number against one possible
// value of typeName. Panics if typeName is classifier-only for number's
// calling code, or if value is not one of that matcher's possible values.
func (rt *Runtime) MatchValue(number PhoneNumber, typeName, value string) fsm.MatchResult {
	vm, ok := rt.registry.GetValueMatcher(number.CallingCode, typeName)
	if !ok {
		return fsm.Invalid
	}
	return vm.MatchValue(number.NationalNumber, value)
}

// PossibleValues returns every value typeName's matcher can produce for
// number's calling code, in declared order. Returns nil if the calling
// code is unsupported.
func (rt *Runtime) PossibleValues(number PhoneNumber, typeName string) []string {
	vm, ok := rt.registry.GetValueMatcher(number.CallingCode, typeName)
	if !ok {
		return nil
	}
	return vm.PossibleValues()
}

// ParseLeniently returns the best-effort phone number extracted from
// text, discarding match quality and inferred format.
func (rt *Runtime) ParseLeniently(text string, opts ...Option) (PhoneNumber, bool) {
	return rt.parser.ParseLeniently(text, opts...)
}

// ParseStrictly parses text, returning how well the result matched and
// which format convention it was resolved under, or an error if no
// candidate phone number could be extracted at all.
func (rt *Runtime) ParseStrictly(text string, opts ...Option) (phoneparse.Result, error) {
	return rt.parser.ParseStrictly(text, opts...)
}

// Format renders number under formatType.
func (rt *Runtime) Format(number PhoneNumber, formatType FormatType) string {
	return rt.fmt.Format(number, formatType)
}

// GetRegions returns cc's regions, main region first.
func (rt *Runtime) GetRegions(cc digits.Sequence) ([]string, bool) {
	return rt.registry.GetRegions(cc)
}

// GetCallingCode looks up the calling code assigned to a CLDR region.
func (rt *Runtime) GetCallingCode(region string) (digits.Sequence, bool) {
	return rt.registry.GetCallingCode(region)
}

// GetExampleNumber returns cc's example national number, if any.
func (rt *Runtime) GetExampleNumber(cc digits.Sequence) (digits.Sequence, bool) {
	return rt.registry.GetExampleNumber(cc)
}

// WithRegion resolves region to a calling code via registry and uses it as
// the provided (national-interpretation) calling code for a parse call.
func WithRegion(registry *metadata.Registry, region string) Option {
	return phoneparse.WithRegion(registry, region)
}

// WithCallingCode uses cc directly as the provided calling code for a
// parse call.
func WithCallingCode(cc digits.Sequence) Option {
	return phoneparse.WithCallingCode(cc)
}
