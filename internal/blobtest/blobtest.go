// Package blobtest builds small, synthetic metadata blobs in the same
// binary layout metadata.Load decodes, so package tests across the module
// can exercise the loader and everything built on it without checking in
// binary fixtures. It duplicates a handful of wire-format constants from
// metadata/wire.go (kept in sync by hand; see the cross-reference comment
// on poolKind below) rather than having the metadata package export a
// public encoder, since the real offline compiler producing a blob is out
// of scope for this runtime.
package blobtest

import (
	"encoding/binary"
	"fmt"

	"github.com/xlab/phonemeta/fsm"
	"github.com/xlab/phonemeta/metadata"
)

// FixedLengthDigits assembles a program matching any sequence of exactly n
// arbitrary digits, for tests that don't care about a realistic validity
// shape, only about a matcher with a known length.
func FixedLengthDigits(n int) []byte {
	a := fsm.NewAssembler()
	for i := 0; i < n; i++ {
		a.RangeShort(false, 0x3FF)
	}
	a.Branch(fsm.Terminal)
	prog, err := a.Assemble()
	if err != nil {
		panic(fmt.Sprintf("blobtest: FixedLengthDigits(%d): %v", n, err))
	}
	return prog
}

// Mirrors the unexported poolKindDFA/poolKindCombined/poolKindEmpty
// constants in metadata/wire.go.
const (
	poolKindDFA = iota
	poolKindCombined
	poolKindEmpty
)

// Matcher describes one entry in a calling code's shared matcher pool.
type Matcher struct {
	kind     int
	program  []byte
	lengths  []int
	children []int
}

// DFA builds a pool entry backed by a raw FSM program (typically produced
// by fsm.Assembler.Assemble) and the lengths it should report possible.
func DFA(program []byte, lengths ...int) Matcher {
	return Matcher{kind: poolKindDFA, program: program, lengths: lengths}
}

// Combined builds a pool entry that is the union of earlier pool entries,
// referenced by index. Every index must be strictly less than this
// matcher's own eventual pool index.
func Combined(childPoolIndices ...int) Matcher {
	return Matcher{kind: poolKindCombined, children: childPoolIndices}
}

// Empty builds the always-Invalid pool entry.
func Empty() Matcher { return Matcher{kind: poolKindEmpty} }

// ValueEntry is one value string and the pool indices whose union
// recognises the national numbers assigned that value.
type ValueEntry struct {
	Value       string
	PoolIndices []int
}

type valueSpec struct {
	hasDefault bool
	defaultVal string
	entries    []ValueEntry
}

// Builder accumulates calling-code records into one blob.
type Builder struct {
	version        metadata.VersionInfo
	tokens         []string
	tokenIndex     map[string]uint16
	types          []string
	typeIndex      map[string]int
	singleValued   map[string]bool
	classifierOnly map[string]bool
	ccs            []*CallingCodeBuilder
}

// New starts a builder stamped with version.
func New(version metadata.VersionInfo) *Builder {
	b := &Builder{
		version:        version,
		tokens:         []string{""},
		tokenIndex:     map[string]uint16{"": 0},
		typeIndex:      map[string]int{},
		singleValued:   map[string]bool{},
		classifierOnly: map[string]bool{},
	}
	return b
}

func (b *Builder) token(s string) uint16 {
	if idx, ok := b.tokenIndex[s]; ok {
		return idx
	}
	idx := uint16(len(b.tokens))
	b.tokens = append(b.tokens, s)
	b.tokenIndex[s] = idx
	return idx
}

// Type declares a supported number type in the order types should appear
// in the registry's type list.
func (b *Builder) Type(name string, singleValued, classifierOnly bool) *Builder {
	if _, ok := b.typeIndex[name]; ok {
		panic(fmt.Sprintf("blobtest: type %q declared twice", name))
	}
	b.typeIndex[name] = len(b.types)
	b.types = append(b.types, name)
	b.singleValued[name] = singleValued
	b.classifierOnly[name] = classifierOnly
	return b
}

// CallingCode starts a record for cc (1-3 ASCII decimal digits).
func (b *Builder) CallingCode(cc string) *CallingCodeBuilder {
	c := &CallingCodeBuilder{b: b, cc: cc, values: map[string]*valueSpec{}}
	b.ccs = append(b.ccs, c)
	return c
}

// CallingCodeBuilder accumulates one calling code's record.
type CallingCodeBuilder struct {
	b                      *Builder
	cc                     string
	pool                   []Matcher
	validity               []int
	example                string
	hasExample             bool
	values                 map[string]*valueSpec
	regions                []string
	nationalPrefixes       []string
	nationalPrefixOptional bool
}

// AddMatcher appends m to this record's shared pool and returns its index.
func (c *CallingCodeBuilder) AddMatcher(m Matcher) int {
	c.pool = append(c.pool, m)
	return len(c.pool) - 1
}

// Validity declares which pool indices make up the validity matcher. With
// no arguments, pool index 0 is used, per the validity-vs-value sharing
// convention.
func (c *CallingCodeBuilder) Validity(poolIndices ...int) *CallingCodeBuilder {
	c.validity = poolIndices
	return c
}

// Example sets this calling code's example national number.
func (c *CallingCodeBuilder) Example(nn string) *CallingCodeBuilder {
	c.example = nn
	c.hasExample = true
	return c
}

// Value assigns value matcher data for typeName. defaultValue may be "" to
// mean no default (non-classifier-only, or classifier-only with no
// elided value, which is unusual but permitted).
func (c *CallingCodeBuilder) Value(typeName, defaultValue string, entries ...ValueEntry) *CallingCodeBuilder {
	c.values[typeName] = &valueSpec{
		hasDefault: defaultValue != "",
		defaultVal: defaultValue,
		entries:    entries,
	}
	return c
}

// Regions sets this calling code's region list, main region first.
func (c *CallingCodeBuilder) Regions(regions ...string) *CallingCodeBuilder {
	c.regions = regions
	return c
}

// NationalPrefixes sets this calling code's national-prefix digit strings
// and whether stripping one is optional for a national-format parse.
func (c *CallingCodeBuilder) NationalPrefixes(optional bool, prefixes ...string) *CallingCodeBuilder {
	c.nationalPrefixOptional = optional
	c.nationalPrefixes = prefixes
	return c
}

// Done returns to the parent Builder so calls can be chained.
func (c *CallingCodeBuilder) Done() *Builder { return c.b }

type writer struct {
	buf []byte
}

func (w *writer) u8(v byte)   { w.buf = append(w.buf, v) }
func (w *writer) u16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *writer) str16(s string) {
	w.u16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}
func (w *writer) digits8(s string) {
	w.u8(byte(len(s)))
	w.buf = append(w.buf, s...)
}

// Build encodes the accumulated calling codes into a blob ready for
// metadata.Load.
func (b *Builder) Build() []byte {
	// Every token referenced by type names, value strings, defaults, or
	// regions must be registered before the token table is serialised,
	// since the table is written once up front and the type list and cc
	// records below only look indices up.
	for _, t := range b.types {
		b.token(t)
	}
	for _, c := range b.ccs {
		for _, typeName := range b.types {
			spec, ok := c.values[typeName]
			if !ok {
				continue
			}
			if spec.hasDefault {
				b.token(spec.defaultVal)
			}
			for _, e := range spec.entries {
				b.token(e.Value)
			}
		}
		for _, r := range c.regions {
			b.token(r)
		}
	}

	w := &writer{}
	w.u16(uint16(b.version.SchemaVersion))
	w.u32(b.version.MajorDataVersion)
	w.u32(b.version.MinorDataVersion)
	w.str16(b.version.SchemaURI)

	w.u16(uint16(len(b.tokens)))
	for _, t := range b.tokens {
		w.str16(t)
	}

	w.u8(byte(len(b.types)))
	for _, t := range b.types {
		w.u16(b.tokenIndex[t])
	}

	var singleValuedMask, classifierOnlyMask uint32
	for i, t := range b.types {
		if b.singleValued[t] {
			singleValuedMask |= 1 << uint(i)
		}
		if b.classifierOnly[t] {
			classifierOnlyMask |= 1 << uint(i)
		}
	}
	w.u32(singleValuedMask)
	w.u32(classifierOnlyMask)

	w.u16(uint16(len(b.ccs)))
	for _, c := range b.ccs {
		b.writeCallingCode(w, c)
	}

	return w.buf
}

func (b *Builder) writeCallingCode(w *writer, c *CallingCodeBuilder) {
	var ccNum uint64
	fmt.Sscanf(c.cc, "%d", &ccNum)
	w.u16(uint16(ccNum))

	if c.hasExample {
		w.u8(1)
		w.digits8(c.example)
	} else {
		w.u8(0)
	}

	w.u16(uint16(len(c.pool)))
	for _, m := range c.pool {
		switch m.kind {
		case poolKindDFA:
			w.u8(poolKindDFA)
			w.u16(uint16(len(m.program)))
			w.buf = append(w.buf, m.program...)
			var mask uint32
			for _, l := range m.lengths {
				mask |= 1 << uint(l)
			}
			w.u32(mask)
		case poolKindCombined:
			w.u8(poolKindCombined)
			w.u8(byte(len(m.children)))
			for _, idx := range m.children {
				w.u16(uint16(idx))
			}
		case poolKindEmpty:
			w.u8(poolKindEmpty)
		}
	}

	w.u8(byte(len(c.validity)))
	for _, idx := range c.validity {
		w.u16(uint16(idx))
	}

	for _, typeName := range b.types {
		spec, ok := c.values[typeName]
		if !ok {
			w.u8(0)  // hasDefault
			w.u16(0) // valueCount
			continue
		}
		if spec.hasDefault {
			w.u8(1)
			w.u16(b.token(spec.defaultVal))
		} else {
			w.u8(0)
		}
		w.u16(uint16(len(spec.entries)))
		for _, e := range spec.entries {
			w.u16(b.token(e.Value))
			w.u8(byte(len(e.PoolIndices)))
			for _, idx := range e.PoolIndices {
				w.u16(uint16(idx))
			}
		}
	}

	w.u8(byte(len(c.regions)))
	for _, r := range c.regions {
		w.u16(b.token(r))
	}

	w.u8(byte(len(c.nationalPrefixes)))
	for _, p := range c.nationalPrefixes {
		w.digits8(p)
	}

	if c.nationalPrefixOptional {
		w.u8(1)
	} else {
		w.u8(0)
	}
}
