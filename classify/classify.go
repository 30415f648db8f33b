// Package classify implements the typed classifier wrapper (C4): a
// generic layer over metadata.Registry that converts between the
// registry's untyped value strings and a caller-supplied type V, exposing
// only the capability methods the underlying metadata actually supports.
package classify

import (
	"fmt"

	"github.com/xlab/phonemeta/callingcode"
	"github.com/xlab/phonemeta/fsm"
	"github.com/xlab/phonemeta/metadata"
)

// Number is the (callingCode, nationalNumber) pair every classifier method
// operates on.
type Number = callingcode.PhoneNumber

// Typed wraps a metadata.Registry for one number type, converting its
// string-valued classification results to and from V via toValue/toString.
// The methods on Typed are gated by what the metadata actually supports;
// call the Is* predicates before relying on possibleValues/match/identify,
// or use one of the narrower capability wrappers below which panic at
// construction instead of at call time.
type Typed[V comparable] struct {
	registry *metadata.Registry
	typeName string
	toValue  func(string) (V, bool)
	toString func(V) string
}

// New builds a Typed wrapper for typeName, checking at construction that
// toValue injectively maps every one of the metadata's possible raw values
// into V (extra values in V's domain with no metadata counterpart are
// fine; toValue is simply never asked about them). It panics if typeName
// is not one of registry's supported types, or if toValue is not
// injective over the registry's possible values for that type.
func New[V comparable](registry *metadata.Registry, typeName string, toValue func(string) (V, bool), toString func(V) string) *Typed[V] {
	seen := make(map[V]string)
	for raw := range registry.PossibleValues(typeName) {
		v, ok := toValue(raw)
		if !ok {
			continue
		}
		if other, dup := seen[v]; dup && other != raw {
			panic(fmt.Sprintf("classify: toValue is not injective: %q and %q both map to %v", other, raw, v))
		}
		seen[v] = raw
	}
	return &Typed[V]{registry: registry, typeName: typeName, toValue: toValue, toString: toString}
}

// SupportsMatcher reports whether this type exposes per-value partial
// matching (i.e. is not classifier-only).
func (t *Typed[V]) SupportsMatcher() bool { return t.registry.SupportsValueMatcher(t.typeName) }

// IsSingleValued reports whether this type's values partition the valid
// range.
func (t *Typed[V]) IsSingleValued() bool { return t.registry.IsSingleValued(t.typeName) }

// Classify returns every V number classifies as for this type. Raw values
// with no V counterpart (toValue returning ok=false) are silently
// dropped, matching the "extra enum values are simply ignored" contract.
func (t *Typed[V]) Classify(number Number) map[V]struct{} {
	raw := t.registry.Classify(number.CallingCode, number.NationalNumber, t.typeName)
	out := make(map[V]struct{}, len(raw))
	for s := range raw {
		if v, ok := t.toValue(s); ok {
			out[v] = struct{}{}
		}
	}
	return out
}

// Identify is Classify restricted to a single-valued type, returning the
// unique value if any. It panics if the type is not single-valued.
func (t *Typed[V]) Identify(number Number) (V, bool) {
	s, ok := t.registry.ClassifyUniquely(number.CallingCode, number.NationalNumber, t.typeName)
	if !ok {
		var zero V
		return zero, false
	}
	v, ok := t.toValue(s)
	if !ok {
		var zero V
		return zero, false
	}
	return v, true
}

// PossibleValues returns every value whose matcher classifies number's
// national number as Matched or PartialMatch, converted to V. It panics if
// the type is classifier-only (see SupportsMatcher): matchValue is only
// defined when no default value was elided from the data.
func (t *Typed[V]) PossibleValues(number Number) map[V]struct{} {
	if !t.SupportsMatcher() {
		panic(fmt.Sprintf("classify: %q does not support value matching (classifier-only)", t.typeName))
	}
	vm, ok := t.registry.GetValueMatcher(number.CallingCode, t.typeName)
	out := make(map[V]struct{})
	if !ok {
		return out
	}
	for _, raw := range vm.PossibleValues() {
		result := vm.MatchValue(number.NationalNumber, raw)
		if result != fsm.Matched && result != fsm.PartialMatch {
			continue
		}
		if v, ok := t.toValue(raw); ok {
			out[v] = struct{}{}
		}
	}
	return out
}

// Match folds matchValue over values with fsm.Combine, i.e. returns the
// best result across matching number's national number against every
// listed value's matcher. It panics if the type is classifier-only.
func (t *Typed[V]) Match(number Number, values []V) fsm.MatchResult {
	if !t.SupportsMatcher() {
		panic(fmt.Sprintf("classify: %q does not support value matching (classifier-only)", t.typeName))
	}
	vm, ok := t.registry.GetValueMatcher(number.CallingCode, t.typeName)
	if !ok {
		return fsm.Invalid
	}
	best := fsm.Invalid
	for _, v := range values {
		raw := t.toString(v)
		best = fsm.Combine(best, vm.MatchValue(number.NationalNumber, raw))
	}
	return best
}

// Classifier is the narrowest capability: classify(number) for any type.
type Classifier[V comparable] interface {
	Classify(number Number) map[V]struct{}
}

// Matcher adds possibleValues and match; requires supportsValueMatcher.
type Matcher[V comparable] interface {
	Classifier[V]
	PossibleValues(number Number) map[V]struct{}
	Match(number Number, values []V) fsm.MatchResult
}

// SingleValuedClassifier adds identify; requires isSingleValued.
type SingleValuedClassifier[V comparable] interface {
	Classifier[V]
	Identify(number Number) (V, bool)
}

// SingleValuedMatcher requires both isSingleValued and
// supportsValueMatcher.
type SingleValuedMatcher[V comparable] interface {
	Matcher[V]
	Identify(number Number) (V, bool)
}

// NewClassifier builds the Classifier capability for typeName. Never
// panics on capability grounds (every type can be classified).
func NewClassifier[V comparable](registry *metadata.Registry, typeName string, toValue func(string) (V, bool), toString func(V) string) Classifier[V] {
	return New[V](registry, typeName, toValue, toString)
}

// NewMatcher builds the Matcher capability for typeName. Panics if
// typeName is classifier-only.
func NewMatcher[V comparable](registry *metadata.Registry, typeName string, toValue func(string) (V, bool), toString func(V) string) Matcher[V] {
	t := New[V](registry, typeName, toValue, toString)
	if !t.SupportsMatcher() {
		panic(fmt.Sprintf("classify: %q does not support value matching (classifier-only)", typeName))
	}
	return t
}

// NewSingleValuedClassifier builds the SingleValuedClassifier capability
// for typeName. Panics if typeName is not single-valued.
func NewSingleValuedClassifier[V comparable](registry *metadata.Registry, typeName string, toValue func(string) (V, bool), toString func(V) string) SingleValuedClassifier[V] {
	t := New[V](registry, typeName, toValue, toString)
	if !t.IsSingleValued() {
		panic(fmt.Sprintf("classify: %q is not single-valued", typeName))
	}
	return t
}

// NewSingleValuedMatcher builds the SingleValuedMatcher capability for
// typeName. Panics if typeName is not single-valued or is classifier-only.
func NewSingleValuedMatcher[V comparable](registry *metadata.Registry, typeName string, toValue func(string) (V, bool), toString func(V) string) SingleValuedMatcher[V] {
	t := New[V](registry, typeName, toValue, toString)
	if !t.IsSingleValued() {
		panic(fmt.Sprintf("classify: %q is not single-valued", typeName))
	}
	if !t.SupportsMatcher() {
		panic(fmt.Sprintf("classify: %q does not support value matching (classifier-only)", typeName))
	}
	return t
}
