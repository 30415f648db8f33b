// Package phoneparse extracts a calling code and national number from
// free-form human text: allowed-character filtering, full-width digit
// folding, calling-code extraction, national-prefix stripping, and the
// national-vs-international disambiguation heuristic.
package phoneparse

import (
	"errors"
	"regexp"
	"unicode"

	"github.com/xlab/phonemeta/callingcode"
	"github.com/xlab/phonemeta/digits"
	"github.com/xlab/phonemeta/fsm"
	"github.com/xlab/phonemeta/metadata"
	"golang.org/x/text/width"
)

// ErrNoParse is returned when the input could not be turned into any
// candidate phone number at all: either it contains a disallowed
// character, it has no digits, or neither a provided nor an extracted
// calling code produced a usable candidate.
var ErrNoParse = errors.New("phoneparse: could not extract a phone number from the input")

// FormatType says which rendering convention a result was evaluated
// against during parsing.
type FormatType int

const (
	National FormatType = iota
	International
)

func (f FormatType) String() string {
	if f == International {
		return "International"
	}
	return "National"
}

// Result is a parsed phone number together with how well it matched its
// calling code's validity data and which format convention it was
// resolved under.
type Result struct {
	Number callingcode.PhoneNumber
	Match  fsm.MatchResult
	Format FormatType
}

// Parser resolves free-form text against a metadata.Registry.
type Parser struct {
	registry *metadata.Registry
}

// New builds a Parser over registry.
func New(registry *metadata.Registry) *Parser {
	return &Parser{registry: registry}
}

type options struct {
	providedCC *digits.Sequence
}

// Option customises a single parse call with caller context (a default
// region or an explicit calling code).
type Option func(*options)

// WithRegion resolves region to a calling code via the registry's
// region table and uses it as the provided (national-interpretation)
// calling code. A region with no known calling code (including "001",
// which never resolves) leaves the parse without a provided CC.
func WithRegion(registry *metadata.Registry, region string) Option {
	return func(o *options) {
		if cc, ok := registry.GetCallingCode(region); ok {
			o.providedCC = &cc
		}
	}
}

// WithCallingCode uses cc directly as the provided calling code.
func WithCallingCode(cc digits.Sequence) Option {
	return func(o *options) {
		c := cc
		o.providedCC = &c
	}
}

// ParseLeniently returns the best-effort phone number, discarding match
// quality and inferred format, or ok=false if nothing could be parsed.
func (p *Parser) ParseLeniently(text string, opts ...Option) (callingcode.PhoneNumber, bool) {
	r, err := p.ParseStrictly(text, opts...)
	if err != nil {
		return callingcode.PhoneNumber{}, false
	}
	return r.Number, true
}

// ParseStrictly returns the best candidate result, or ErrNoParse if the
// input could not be parsed at all. A returned Result may still carry a
// poor MatchResult (e.g. Invalid): that is a parseable-but-invalid number,
// not a parse failure.
func (p *Parser) ParseStrictly(text string, opts ...Option) (Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	seq, plusCount, plusAdjacent, ok := normalize(text)
	if !ok {
		return Result{}, ErrNoParse
	}

	extractedCC, hasExtracted := callingcode.ExtractLeading(seq)
	looksInternational := plusCount == 1 && plusAdjacent && hasExtracted && hasPrefix(seq, extractedCC)

	var nat, intl *Result
	if o.providedCC != nil {
		r := p.getBestResult(*o.providedCC, seq, National)
		nat = &r
	}
	intlSupported := hasExtracted && p.supported(extractedCC)
	if intlSupported {
		r := p.getBestResult(extractedCC, seq.Suffix(seq.Len()-extractedCC.Len()), International)
		intl = &r
	}

	switch {
	case nat == nil && intl == nil:
		if hasExtracted && looksInternational {
			nn := seq.Suffix(seq.Len() - extractedCC.Len())
			return Result{
				Number: callingcode.PhoneNumber{CallingCode: extractedCC, NationalNumber: nn},
				Match:  fsm.Invalid,
				Format: International,
			}, nil
		}
		return Result{}, ErrNoParse
	case nat == nil:
		return *intl, nil
	case intl == nil:
		return *nat, nil
	}

	if fsm.IsBetterThan(nat.Match, intl.Match) {
		return *nat, nil
	}
	if digits.Equal(extractedCC, *o.providedCC) || looksInternational {
		return *intl, nil
	}
	return *nat, nil
}

func (p *Parser) supported(cc digits.Sequence) bool {
	_, ok := p.registry.GetParserData(cc)
	return ok
}

// getBestResult implements the per-candidate matching algorithm: apply the
// Argentinian rewrite if applicable, require a prefix strip for a
// national-format parse when the calling code demands one, and otherwise
// prefer whichever of "as given" or "with one national prefix stripped"
// matches best.
func (p *Parser) getBestResult(cc, nn digits.Sequence, formatType FormatType) Result {
	pd, ok := p.registry.GetParserData(cc)
	if !ok {
		return Result{
			Number: callingcode.PhoneNumber{CallingCode: cc, NationalNumber: nn},
			Match:  fsm.Invalid,
			Format: formatType,
		}
	}

	if digits.Equal(cc, argentinaCC) {
		nn = p.argentinianAdjustment(cc, nn)
	}

	required := formatType == National && len(pd.NationalPrefixes) > 0 && !pd.NationalPrefixOptional
	best := fsm.Invalid
	if !required {
		best = p.registry.Match(cc, nn)
	}
	bestNumber := nn

	for _, prefix := range pd.NationalPrefixes {
		if !hasPrefix(nn, prefix) {
			continue
		}
		candidate := nn.Suffix(nn.Len() - prefix.Len())
		r := p.registry.Match(cc, candidate)
		if fsm.IsBetterThan(r, best) {
			best, bestNumber = r, candidate
		}
		if r == fsm.Matched {
			break
		}
	}

	return Result{
		Number: callingcode.PhoneNumber{CallingCode: cc, NationalNumber: bestNumber},
		Match:  best,
		Format: formatType,
	}
}

var argentinaCC = mustParse("54")
var argentinaPattern = regexp.MustCompile(`^0?(\d{2,4})15(\d{6,8})$`)

func mustParse(s string) digits.Sequence {
	d, err := digits.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// argentinianAdjustment implements the narrow Argentina mobile-number
// rewrite: a too-long national number shaped like an outgoing-mobile
// dial string (optional trunk 0, area code, the "15" mobile escape, the
// subscriber number) is rewritten to the canonical "9"-prefixed form, but
// only when that rewrite actually produces a possible length.
func (p *Parser) argentinianAdjustment(cc, nn digits.Sequence) digits.Sequence {
	if p.registry.TestLength(cc, nn) != fsm.TooLong {
		return nn
	}
	m := argentinaPattern.FindStringSubmatch(nn.String())
	if m == nil {
		return nn
	}
	rewritten, err := digits.Parse("9" + m[1] + m[2])
	if err != nil {
		return nn
	}
	if p.registry.TestLength(cc, rewritten) == fsm.Possible {
		return rewritten
	}
	return nn
}

func hasPrefix(seq, prefix digits.Sequence) bool {
	if prefix.Len() > seq.Len() {
		return false
	}
	return digits.Equal(seq.Prefix(prefix.Len()), prefix)
}

// normalize filters text to the allowed character set, folds full-width
// digits and separators to their ASCII form, and reports whether exactly
// one '+' sits immediately before the first digit character — the shape
// signal the "looks like international" heuristic needs.
func normalize(text string) (seq digits.Sequence, plusCount int, plusAdjacent bool, ok bool) {
	folded := width.Fold.String(text)

	var digitBytes []byte
	var prev rune
	havePrev := false
	firstDigitSeen := false

	for _, r := range folded {
		switch {
		case r >= '0' && r <= '9':
			if !firstDigitSeen {
				firstDigitSeen = true
				plusAdjacent = havePrev && prev == '+'
			}
			digitBytes = append(digitBytes, byte(r))
		case r == '+':
			plusCount++
		case unicode.IsSpace(r) || isSeparator(r):
			// allowed, contributes nothing to the digit sequence
		default:
			return digits.Sequence{}, 0, false, false
		}
		prev = r
		havePrev = true
	}

	if len(digitBytes) == 0 {
		return digits.Sequence{}, 0, false, false
	}
	seq, err := digits.Parse(string(digitBytes))
	if err != nil {
		return digits.Sequence{}, 0, false, false
	}
	return seq, plusCount, plusAdjacent, true
}

// isSeparator reports whether r is one of the grouping separators or
// their Unicode confusables not already folded to ASCII by width.Fold
// (which handles the fullwidth forms FF0D/FF0F/FF0E/FF08/FF09).
func isSeparator(r rune) bool {
	switch r {
	case '-', '/', '.', '(', ')':
		return true
	case '−', '⁠', '❨', '❩':
		return true
	}
	return r >= '‐' && r <= '―'
}
