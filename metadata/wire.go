package metadata

import (
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/xlab/phonemeta/digits"
	"github.com/xlab/phonemeta/fsm"
)

// Matcher pool record kinds.
const (
	poolKindDFA      = 0
	poolKindCombined = 1
	poolKindEmpty    = 2
)

// reader is a bounds-checked cursor over a blob. Every read either
// succeeds or returns ErrTruncated; callers never index raw bytes
// themselves.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return ErrTruncated
	}
	return nil
}

func (r *reader) u8() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) u16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) str16() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) digits8() (digits.Sequence, error) {
	n, err := r.u8()
	if err != nil {
		return digits.Sequence{}, err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return digits.Sequence{}, err
	}
	seq, err := digits.Parse(string(b))
	if err != nil {
		return digits.Sequence{}, fmt.Errorf("metadata: decoding digit field: %w", err)
	}
	return seq, nil
}

// Load decodes blob into an immutable Registry, rejecting it outright if
// its version does not satisfy required or if it is malformed in any way
// that would violate a Registry invariant. No partially constructed
// Registry is ever observable: this function either returns a fully built
// Registry or an error, never both.
func Load(blob []byte, required VersionInfo) (*Registry, error) {
	r := &reader{buf: blob}

	schemaVersion, err := r.u16()
	if err != nil {
		return nil, err
	}
	majorData, err := r.u32()
	if err != nil {
		return nil, err
	}
	minorData, err := r.u32()
	if err != nil {
		return nil, err
	}
	schemaURI, err := r.str16()
	if err != nil {
		return nil, err
	}
	version := VersionInfo{
		SchemaURI:        schemaURI,
		SchemaVersion:    uint32(schemaVersion),
		MajorDataVersion: majorData,
		MinorDataVersion: minorData,
	}
	if !version.Satisfies(required) {
		return nil, fmt.Errorf("%w: blob is %+v, required %+v", ErrVersionMismatch, version, required)
	}

	tokenCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	tokens := make([]string, tokenCount)
	seen := make(map[string]bool, tokenCount)
	for i := range tokens {
		s, err := r.str16()
		if err != nil {
			return nil, err
		}
		if i == 0 && s != "" {
			return nil, fmt.Errorf("%w: token 0 must be the empty string", ErrDuplicateToken)
		}
		if seen[s] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateToken, s)
		}
		seen[s] = true
		tokens[i] = s
	}
	token := func(idx uint16) (string, error) {
		if int(idx) >= len(tokens) {
			return "", ErrBadTokenIndex
		}
		return tokens[idx], nil
	}

	typeCountByte, err := r.u8()
	if err != nil {
		return nil, err
	}
	typeCount := int(typeCountByte)
	types := make([]string, typeCount)
	typeIndex := make(map[string]int, typeCount)
	for i := 0; i < typeCount; i++ {
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		name, err := token(idx)
		if err != nil {
			return nil, err
		}
		types[i] = name
		typeIndex[name] = i
	}

	singleValuedBits, err := r.u32()
	if err != nil {
		return nil, err
	}
	classifierOnlyBits, err := r.u32()
	if err != nil {
		return nil, err
	}
	singleValuedMask := bitset.From([]uint64{uint64(singleValuedBits)})
	classifierOnlyMask := bitset.From([]uint64{uint64(classifierOnlyBits)})

	ccCount, err := r.u16()
	if err != nil {
		return nil, err
	}

	records := make(map[int]*CallingCodeRecord, ccCount)
	regionToCC := make(map[string]int)
	possibleValues := make(map[string]map[string]struct{}, typeCount)
	for _, t := range types {
		possibleValues[t] = make(map[string]struct{})
	}

	for i := 0; i < int(ccCount); i++ {
		ccValue, err := r.u16()
		if err != nil {
			return nil, err
		}
		ccSeq, err := digits.Parse(fmt.Sprintf("%d", ccValue))
		if err != nil {
			return nil, err
		}

		hasExample, err := r.u8()
		if err != nil {
			return nil, err
		}
		var example *digits.Sequence
		if hasExample == 1 {
			ex, err := r.digits8()
			if err != nil {
				return nil, err
			}
			example = &ex
		}

		poolSize, err := r.u16()
		if err != nil {
			return nil, err
		}
		pool := make([]fsm.Matcher, poolSize)
		for p := 0; p < int(poolSize); p++ {
			kind, err := r.u8()
			if err != nil {
				return nil, err
			}
			switch kind {
			case poolKindDFA:
				progLen, err := r.u16()
				if err != nil {
					return nil, err
				}
				prog, err := r.bytes(int(progLen))
				if err != nil {
					return nil, err
				}
				maskBits, err := r.u32()
				if err != nil {
					return nil, err
				}
				mask := fsm.NewLengthMask()
				for l := 0; l <= fsm.MaxDigitLength; l++ {
					if maskBits&(1<<uint(l)) != 0 {
						mask.Set(l)
					}
				}
				if len(prog) == 0 {
					// A record with no program carries no data: it
					// matches nothing.
					pool[p] = fsm.Empty{}
					break
				}
				progCopy := make([]byte, len(prog))
				copy(progCopy, prog)
				pool[p] = fsm.NewDFA(progCopy, mask)
			case poolKindCombined:
				childCount, err := r.u8()
				if err != nil {
					return nil, err
				}
				children := make([]fsm.Matcher, childCount)
				for c := 0; c < int(childCount); c++ {
					childIdx, err := r.u16()
					if err != nil {
						return nil, err
					}
					if int(childIdx) >= p {
						return nil, fmt.Errorf("%w: combined matcher references non-prior pool entry", ErrBadMatcherIndex)
					}
					children[c] = pool[childIdx]
				}
				pool[p] = fsm.NewCombined(children...)
			case poolKindEmpty:
				pool[p] = fsm.Empty{}
			default:
				return nil, fmt.Errorf("%w: unknown matcher pool kind %d", ErrBadMatcherIndex, kind)
			}
		}

		validityCount, err := r.u8()
		if err != nil {
			return nil, err
		}
		var validity fsm.Matcher
		if validityCount == 0 {
			if len(pool) == 0 {
				return nil, fmt.Errorf("%w: empty matcher pool with no validity matcher", ErrBadMatcherIndex)
			}
			validity = pool[0]
		} else {
			children := make([]fsm.Matcher, validityCount)
			for c := 0; c < int(validityCount); c++ {
				idx, err := r.u16()
				if err != nil {
					return nil, err
				}
				if int(idx) >= len(pool) {
					return nil, fmt.Errorf("%w: validity matcher index", ErrBadMatcherIndex)
				}
				children[c] = pool[idx]
			}
			if len(children) == 1 {
				validity = children[0]
			} else {
				validity = fsm.NewCombined(children...)
			}
		}

		valueMatchers := make([]*ValueMatcher, typeCount)
		for t := 0; t < typeCount; t++ {
			hasDefault, err := r.u8()
			if err != nil {
				return nil, err
			}
			vm := &ValueMatcher{matchers: make(map[string]fsm.Matcher)}
			if hasDefault == 1 {
				defIdx, err := r.u16()
				if err != nil {
					return nil, err
				}
				defVal, err := token(defIdx)
				if err != nil {
					return nil, err
				}
				vm.hasDefault = true
				vm.defaultValue = defVal
			}
			valueCount, err := r.u16()
			if err != nil {
				return nil, err
			}
			for v := 0; v < int(valueCount); v++ {
				valIdx, err := r.u16()
				if err != nil {
					return nil, err
				}
				value, err := token(valIdx)
				if err != nil {
					return nil, err
				}
				if vm.hasDefault && value == vm.defaultValue {
					return nil, fmt.Errorf("%w: %q", ErrDuplicateDefault, value)
				}
				refCount, err := r.u8()
				if err != nil {
					return nil, err
				}
				children := make([]fsm.Matcher, refCount)
				for c := 0; c < int(refCount); c++ {
					idx, err := r.u16()
					if err != nil {
						return nil, err
					}
					if int(idx) >= len(pool) {
						return nil, fmt.Errorf("%w: value matcher index", ErrBadMatcherIndex)
					}
					children[c] = pool[idx]
				}
				var m fsm.Matcher
				if len(children) == 1 {
					m = children[0]
				} else {
					m = fsm.NewCombined(children...)
				}
				vm.order = append(vm.order, value)
				vm.matchers[value] = m
				possibleValues[types[t]][value] = struct{}{}
			}
			if vm.hasDefault {
				possibleValues[types[t]][vm.defaultValue] = struct{}{}
			}
			valueMatchers[t] = vm
		}

		regionCount, err := r.u8()
		if err != nil {
			return nil, err
		}
		regions := make([]string, regionCount)
		for rg := 0; rg < int(regionCount); rg++ {
			idx, err := r.u16()
			if err != nil {
				return nil, err
			}
			name, err := token(idx)
			if err != nil {
				return nil, err
			}
			regions[rg] = name
		}
		if len(regions) > 1 {
			for _, name := range regions {
				if name == "001" {
					return nil, ErrConflictingRegion001
				}
			}
		}

		prefixCount, err := r.u8()
		if err != nil {
			return nil, err
		}
		prefixes := make([]digits.Sequence, prefixCount)
		for p := 0; p < int(prefixCount); p++ {
			seq, err := r.digits8()
			if err != nil {
				return nil, err
			}
			prefixes[p] = seq
		}

		optionalByte, err := r.u8()
		if err != nil {
			return nil, err
		}

		records[int(ccValue)] = &CallingCodeRecord{
			CallingCode:     ccSeq,
			Pool:            pool,
			ValidityMatcher: validity,
			ValueMatchers:   valueMatchers,
			Parser: ParserData{
				Regions:                regions,
				NationalPrefixes:       prefixes,
				NationalPrefixOptional: optionalByte == 1,
				Example:                example,
			},
		}
		if len(regions) > 0 && regions[0] != "001" {
			for _, name := range regions {
				regionToCC[name] = int(ccValue)
			}
		}
	}

	return &Registry{
		Version:            version,
		Types:              types,
		typeIndex:          typeIndex,
		singleValuedMask:   singleValuedMask,
		classifierOnlyMask: classifierOnlyMask,
		records:            records,
		regionToCC:         regionToCC,
		possibleValues:     possibleValues,
	}, nil
}
