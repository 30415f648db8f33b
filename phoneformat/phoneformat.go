// Package phoneformat renders a matched phone number into national or
// international form by selecting and interpreting a compact byte-coded
// format specifier taken from per-calling-code metadata.
package phoneformat

import (
	"strings"

	"github.com/xlab/phonemeta/callingcode"
	"github.com/xlab/phonemeta/digits"
	"github.com/xlab/phonemeta/fsm"
	"github.com/xlab/phonemeta/metadata"
)

// The pseudo-type names under which format specifiers are stored as value
// matchers, per the blob layout.
const (
	NationalFormatType      = "NATIONAL_FORMAT"
	InternationalFormatType = "INTERNATIONAL_FORMAT"
)

// FormatType selects which convention to render.
type FormatType int

const (
	National FormatType = iota
	International
)

// Formatter renders numbers using a registry's format-specifier data.
type Formatter struct {
	registry *metadata.Registry
}

// New builds a Formatter over registry.
func New(registry *metadata.Registry) *Formatter {
	return &Formatter{registry: registry}
}

// Format renders number under formatType. If number's calling code is
// unsupported, the national number is rendered with no specifier applied.
func (f *Formatter) Format(number callingcode.PhoneNumber, formatType FormatType) string {
	spec := f.selectSpecifier(number, formatType)
	body := render(spec, number.NationalNumber)
	if formatType == International {
		return "+" + number.CallingCode.String() + " " + body
	}
	return body
}

// selectSpecifier implements the specifier-selection algorithm: pick the
// format pseudo-type's value matcher (falling back from NATIONAL to
// INTERNATIONAL if NATIONAL has no possible values at all), find the best
// matching value, and discard it if the number is more validly matched
// than any format value recognises it. A registry that does not declare a
// format pseudo-type is treated as having no specifiers for it.
func (f *Formatter) selectSpecifier(number callingcode.PhoneNumber, formatType FormatType) []byte {
	typeName := NationalFormatType
	if formatType == International {
		typeName = InternationalFormatType
	}
	lookup := func(name string) (*metadata.ValueMatcher, bool) {
		for _, t := range f.registry.SupportedNumberTypes() {
			if t == name {
				return f.registry.GetValueMatcher(number.CallingCode, name)
			}
		}
		return nil, false
	}

	vm, ok := lookup(typeName)
	if !ok || (formatType == National && len(vm.PossibleValues()) == 0) {
		vm, ok = lookup(InternationalFormatType)
		if !ok {
			return nil
		}
	}

	nn := number.NationalNumber
	best := fsm.Invalid
	var bestSpec []byte
	for _, raw := range vm.PossibleValues() {
		result := vm.MatchValue(nn, raw)
		if fsm.IsBetterThan(result, best) {
			best, bestSpec = result, []byte(raw)
			if result == fsm.Matched {
				break
			}
		}
	}

	if best != fsm.Matched && len(bestSpec) > 0 {
		validity := f.registry.Match(number.CallingCode, nn)
		if fsm.IsBetterThan(validity, best) {
			return nil
		}
	}
	return bestSpec
}

const (
	groupTypeShift = 3
	groupTypeMask  = 0x07
	groupLenMask   = 0x07
)

const (
	groupPlain             = 0
	groupThenSpace         = 1
	groupThenHyphen        = 2
	groupOptional          = 4
	groupParenthesized     = 5
	groupIgnored           = 6
	carrierMarkerByte byte = 0x3E
	rawEscapeByte     byte = 0x3F
)

func isGroupByte(b byte) bool {
	return b&0x80 == 0 && b&0x40 != 0
}

// render walks spec's bytes against nn's digits, per the rendering table.
// An empty spec renders the plain decimal form of nn.
func render(spec []byte, nn digits.Sequence) string {
	if len(spec) == 0 {
		return nn.String()
	}

	it := nn.Iterate()
	totalDigits := nn.Len()

	maxGroupDigits, sumOptionalL := specBudgets(spec)
	optionalBudget := 0
	if totalDigits > maxGroupDigits-sumOptionalL {
		optionalBudget = totalDigits - (maxGroupDigits - sumOptionalL)
	}

	var out strings.Builder
	i := 0
	for i < len(spec) {
		b := spec[i]
		switch {
		case isGroupByte(b):
			groupType := (b >> groupTypeShift) & groupTypeMask
			length := int(b&groupLenMask) + 1
			switch groupType {
			case groupPlain:
				consumeDigits(&out, it, length)
			case groupThenSpace:
				consumeDigits(&out, it, length)
				if it.HasNext() {
					out.WriteByte(' ')
				}
			case groupThenHyphen:
				consumeDigits(&out, it, length)
				if it.HasNext() {
					out.WriteByte('-')
				}
			case groupOptional:
				n := length
				if n > optionalBudget {
					n = optionalBudget
				}
				optionalBudget -= n
				consumeDigits(&out, it, n)
			case groupParenthesized:
				out.WriteByte('(')
				consumeDigits(&out, it, length)
				out.WriteByte(')')
			case groupIgnored:
				discardDigits(it, length)
			}
			i++
		case b == carrierMarkerByte:
			out.WriteByte('@')
			i++
		case b == rawEscapeByte:
			if i+1 < len(spec) {
				out.WriteByte(spec[i+1])
			}
			i += 2
		default:
			out.WriteByte(b)
			i++
		}
	}

	for it.HasNext() {
		out.WriteByte('0' + it.Next())
	}
	return out.String()
}

// specBudgets computes the sum of all group lengths and the sum of only
// the OPTIONAL group lengths, needed to derive the OPTIONAL budget per the
// formatter's group-type table.
func specBudgets(spec []byte) (maxGroupDigits, sumOptionalL int) {
	for i := 0; i < len(spec); i++ {
		b := spec[i]
		if b == rawEscapeByte {
			i++
			continue
		}
		if !isGroupByte(b) {
			continue
		}
		groupType := (b >> groupTypeShift) & groupTypeMask
		length := int(b&groupLenMask) + 1
		maxGroupDigits += length
		if groupType == groupOptional {
			sumOptionalL += length
		}
	}
	return maxGroupDigits, sumOptionalL
}

func consumeDigits(out *strings.Builder, it *digits.Iterator, n int) {
	for i := 0; i < n && it.HasNext(); i++ {
		out.WriteByte('0' + it.Next())
	}
}

func discardDigits(it *digits.Iterator, n int) {
	for i := 0; i < n && it.HasNext(); i++ {
		it.Next()
	}
}
