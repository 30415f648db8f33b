package fsm

import (
	"encoding/binary"
	"fmt"

	"github.com/xlab/phonemeta/digits"
)

// abstractState is the machine's state while consuming digits, per the
// FSM's Continue/Terminal/Truncated/Invalid model.
type abstractState int

const (
	stateContinue abstractState = iota
	stateTerminal
	stateTruncated
	stateInvalid
)

// corrupt panics with a diagnostic naming the offending program position.
// Malformed byte-code is a load-time data error, never a per-call error
// return, per the matcher's failure model.
func corrupt(reason string, pc int) {
	panic(fmt.Sprintf("fsm: corrupt matcher program at byte %d: %s", pc, reason))
}

// execute runs program against it until the machine reaches Terminal,
// Truncated, or Invalid, consuming digits from it along the way.
func execute(program []byte, it *digits.Iterator) abstractState {
	pc := 0
	for {
		if pc < 0 || pc >= len(program) {
			corrupt("jump target out of range", pc)
		}
		b := program[pc]
		switch opcode(b >> 5) {
		case opBranch:
			e := (b >> 4) & 1
			off := int(b & 0x0F)
			if e == 1 {
				if pc+1 >= len(program) {
					corrupt("truncated extended branch", pc)
				}
				off = (off << 8) | int(program[pc+1])
			}
			if off == 0 {
				return stateTerminal
			}
			pc += off

		case opSingle:
			t := (b >> 4) & 1
			v := b & 0x0F
			if !it.HasNext() {
				if t == 1 {
					return stateTerminal
				}
				return stateTruncated
			}
			if it.Next() != v {
				return stateInvalid
			}
			pc++

		case opAny:
			t := (b >> 4) & 1
			n := int(b&0x0F) + 1
			if it.Remaining() < n {
				for it.HasNext() {
					it.Next()
				}
				if t == 1 {
					return stateTerminal
				}
				return stateTruncated
			}
			for i := 0; i < n; i++ {
				it.Next()
			}
			pc++

		case opRange:
			t := (b >> 4) & 1
			s := (b >> 3) & 1
			if !it.HasNext() {
				if t == 1 {
					return stateTerminal
				}
				return stateTruncated
			}
			if pc+1 >= len(program) {
				corrupt("truncated range instruction", pc)
			}
			bits := (uint16(b&0x03) << 8) | uint16(program[pc+1])
			d := it.Next()
			accepted := bits&(1<<d) != 0
			if s == 0 {
				if !accepted {
					return stateInvalid
				}
				pc += 2
				continue
			}
			if pc+3 >= len(program) {
				corrupt("truncated extended range instruction", pc)
			}
			jumpPos := pc + 3
			if accepted {
				jumpPos = pc + 2
			}
			off := int(program[jumpPos])
			if off == 0 {
				return stateTerminal
			}
			pc = jumpPos + off

		case opMap, opTMap:
			onEmpty := stateTruncated
			if opcode(b>>5) == opTMap {
				onEmpty = stateTerminal
			}
			if !it.HasNext() {
				return onEmpty
			}
			if pc+mapInstructionLen > len(program) {
				corrupt("truncated map instruction", pc)
			}
			word := binary.BigEndian.Uint32(program[pc : pc+4])
			tableStart := pc + 4
			d := it.Next()
			idx := decodeMapIndex(word, d)
			if idx == 0 {
				return stateInvalid
			}
			if int(idx)-1 >= mapJumpTableSize {
				corrupt("map index out of range", pc)
			}
			off := int(program[tableStart+int(idx)-1])
			if off == 0 {
				return stateTerminal
			}
			pc = tableStart + off

		default:
			corrupt("reserved opcode", pc)
		}
	}
}

// matchProgram runs program against seq and classifies the outcome.
func matchProgram(program []byte, seq digits.Sequence) MatchResult {
	it := seq.Iterate()
	switch execute(program, it) {
	case stateTerminal:
		if it.HasNext() {
			return ExcessDigits
		}
		return Matched
	case stateTruncated:
		return PartialMatch
	default:
		return Invalid
	}
}
