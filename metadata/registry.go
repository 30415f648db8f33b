// Package metadata decodes a versioned metadata blob into an immutable
// in-memory Registry and implements the raw classifier contract over it:
// per-calling-code validity/value matching, length testing, and parser
// data lookup. Everything here is built once at Load time and is safe for
// unsynchronised concurrent reads thereafter.
package metadata

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/xlab/phonemeta/digits"
	"github.com/xlab/phonemeta/fsm"
)

// ParserData is the subset of a CallingCodeRecord the parser consumes.
type ParserData struct {
	Regions                []string // first entry is the main region
	NationalPrefixes       []digits.Sequence
	NationalPrefixOptional bool
	Example                *digits.Sequence
}

// ValueMatcher maps value strings to the matcher recognising the national
// numbers assigned that value, for one (calling code, type) pair.
type ValueMatcher struct {
	order        []string
	matchers     map[string]fsm.Matcher
	defaultValue string
	hasDefault   bool
}

// MatchValue classifies nn against value's matcher. It panics if value is
// classifier-only (the type's default-value optimisation means partial
// matching against individual values is undefined) or if value is not one
// of the matcher's possible values — both are contract violations, not
// recoverable user-input errors.
func (vm *ValueMatcher) MatchValue(nn digits.Sequence, value string) fsm.MatchResult {
	if vm.hasDefault {
		panic(fmt.Sprintf("metadata: MatchValue called on a classifier-only value matcher (value %q)", value))
	}
	m, ok := vm.matchers[value]
	if !ok {
		panic(fmt.Sprintf("metadata: %q is not a possible value for this matcher", value))
	}
	return m.Match(nn)
}

// PossibleValues returns every value this matcher can produce, in
// declared order, with the default value (if any) last.
func (vm *ValueMatcher) PossibleValues() []string {
	out := make([]string, len(vm.order))
	copy(out, vm.order)
	if vm.hasDefault {
		out = append(out, vm.defaultValue)
	}
	return out
}

// HasDefault reports whether this matcher elides a default value (making
// it classifier-only: see PossibleValues and MatchValue).
func (vm *ValueMatcher) HasDefault() bool { return vm.hasDefault }

// classify returns the set of values nn is assigned under this matcher,
// stopping at the first match when singleValued is set. It does not run
// the validity matcher; the caller is expected to have confirmed nn.
func (vm *ValueMatcher) classify(nn digits.Sequence, singleValued bool) map[string]struct{} {
	out := make(map[string]struct{})
	for _, v := range vm.order {
		if vm.matchers[v].Match(nn) == fsm.Matched {
			out[v] = struct{}{}
			if singleValued {
				return out
			}
		}
	}
	if len(out) == 0 && vm.hasDefault {
		out[vm.defaultValue] = struct{}{}
	}
	return out
}

// CallingCodeRecord holds everything the registry knows about one calling
// code: its validity matcher, one value matcher per supported type, its
// shared matcher pool, and its parser data.
type CallingCodeRecord struct {
	CallingCode     digits.Sequence
	Pool            []fsm.Matcher
	ValidityMatcher fsm.Matcher
	ValueMatchers   []*ValueMatcher // index-aligned with Registry.Types
	Parser          ParserData
}

// Registry is the immutable, in-memory view of a decoded metadata blob.
type Registry struct {
	Version            VersionInfo
	Types              []string
	typeIndex          map[string]int
	singleValuedMask   *bitset.BitSet
	classifierOnlyMask *bitset.BitSet
	records            map[int]*CallingCodeRecord
	regionToCC         map[string]int
	possibleValues     map[string]map[string]struct{}
}

// SupportedCallingCodes returns the calling codes present in the loaded
// blob, as digit sequences.
func (r *Registry) SupportedCallingCodes() []digits.Sequence {
	out := make([]digits.Sequence, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.CallingCode)
	}
	return out
}

// SupportedNumberTypes returns the ordered list of type names.
func (r *Registry) SupportedNumberTypes() []string {
	out := make([]string, len(r.Types))
	copy(out, r.Types)
	return out
}

func (r *Registry) record(cc digits.Sequence) (*CallingCodeRecord, bool) {
	rec, ok := r.records[intValue(cc)]
	return rec, ok
}

func intValue(seq digits.Sequence) int {
	n := 0
	for i := 0; i < seq.Len(); i++ {
		n = n*10 + int(seq.At(i))
	}
	return n
}

// typeIndexOf panics if name is not one of the registry's supported
// types: requesting an unknown type is a programmer error, per the error
// handling design.
func (r *Registry) typeIndexOf(name string) int {
	idx, ok := r.typeIndex[name]
	if !ok {
		panic(fmt.Sprintf("metadata: %q is not a supported number type", name))
	}
	return idx
}

// Match runs cc's validity matcher against nn. TestLength is consulted to
// upgrade an Invalid result to PossibleLength, per the length-only fast
// path.
func (r *Registry) Match(cc, nn digits.Sequence) fsm.MatchResult {
	rec, ok := r.record(cc)
	if !ok {
		return fsm.Invalid
	}
	result := rec.ValidityMatcher.Match(nn)
	if result == fsm.Invalid && rec.ValidityMatcher.TestLength(nn.Len()) == fsm.Possible {
		return fsm.PossibleLength
	}
	return result
}

// TestLength classifies nn's length against cc's validity matcher's
// length mask, without running the byte-code interpreter.
func (r *Registry) TestLength(cc, nn digits.Sequence) fsm.LengthResult {
	rec, ok := r.record(cc)
	if !ok {
		return fsm.InvalidLength
	}
	return rec.ValidityMatcher.TestLength(nn.Len())
}

// Classify dispatches to the type's value matcher, after requiring the
// validity matcher to accept nn exactly. It panics if typeName is unknown
// for this registry (a programmer error); an unsupported calling code
// simply yields an empty set.
func (r *Registry) Classify(cc, nn digits.Sequence, typeName string) map[string]struct{} {
	idx := r.typeIndexOf(typeName)
	rec, ok := r.record(cc)
	if !ok || rec.ValidityMatcher.Match(nn) != fsm.Matched {
		return map[string]struct{}{}
	}
	return rec.ValueMatchers[idx].classify(nn, r.IsSingleValued(typeName))
}

// ClassifyUniquely is Classify restricted to single-valued types. It
// panics if typeName is not single-valued.
func (r *Registry) ClassifyUniquely(cc, nn digits.Sequence, typeName string) (string, bool) {
	if !r.IsSingleValued(typeName) {
		panic(fmt.Sprintf("metadata: ClassifyUniquely called on multi-valued type %q", typeName))
	}
	set := r.Classify(cc, nn, typeName)
	for v := range set {
		return v, true
	}
	return "", false
}

// GetValueMatcher returns the value matcher for (cc, typeName). It panics
// if typeName is unknown, or returns ok=false if cc is unsupported.
func (r *Registry) GetValueMatcher(cc digits.Sequence, typeName string) (*ValueMatcher, bool) {
	idx := r.typeIndexOf(typeName)
	rec, ok := r.record(cc)
	if !ok {
		return nil, false
	}
	return rec.ValueMatchers[idx], true
}

// GetParserData returns cc's parser data.
func (r *Registry) GetParserData(cc digits.Sequence) (ParserData, bool) {
	rec, ok := r.record(cc)
	if !ok {
		return ParserData{}, false
	}
	return rec.Parser, true
}

// GetExampleNumber returns cc's example national number, if any.
func (r *Registry) GetExampleNumber(cc digits.Sequence) (digits.Sequence, bool) {
	rec, ok := r.record(cc)
	if !ok || rec.Parser.Example == nil {
		return digits.Sequence{}, false
	}
	return *rec.Parser.Example, true
}

// GetRegions returns cc's regions, main region first.
func (r *Registry) GetRegions(cc digits.Sequence) ([]string, bool) {
	rec, ok := r.record(cc)
	if !ok {
		return nil, false
	}
	return rec.Parser.Regions, true
}

// GetCallingCode looks up the calling code for a CLDR region. "001" never
// resolves: it is the world/unassigned sentinel and is excluded from this
// map by construction.
func (r *Registry) GetCallingCode(region string) (digits.Sequence, bool) {
	if region == "001" {
		return digits.Sequence{}, false
	}
	cc, ok := r.regionToCC[region]
	if !ok {
		return digits.Sequence{}, false
	}
	for _, rec := range r.records {
		if intValue(rec.CallingCode) == cc {
			return rec.CallingCode, true
		}
	}
	return digits.Sequence{}, false
}

// IsSingleValued reports whether typeName's values partition the valid
// range (each number maps to at most one value). Panics on unknown type.
func (r *Registry) IsSingleValued(typeName string) bool {
	return r.singleValuedMask.Test(uint(r.typeIndexOf(typeName)))
}

// SupportsValueMatcher reports whether typeName exposes partial matching
// of individual values (i.e. is not classifier-only). Panics on unknown
// type.
func (r *Registry) SupportsValueMatcher(typeName string) bool {
	return !r.classifierOnlyMask.Test(uint(r.typeIndexOf(typeName)))
}

// PossibleValues returns the union of values typeName can take across
// every supported calling code.
func (r *Registry) PossibleValues(typeName string) map[string]struct{} {
	r.typeIndexOf(typeName) // validate, panics on unknown
	out := make(map[string]struct{})
	for v := range r.possibleValues[typeName] {
		out[v] = struct{}{}
	}
	return out
}
