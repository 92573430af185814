// Package scan owns the bytecode decode loop. It advances through a
// method's instruction stream in order and hands each instruction to a
// caller-supplied handler; analysis rules never decode instruction
// boundaries themselves.
package scan

import (
	"encoding/binary"
	"errors"
	"fmt"

	"jvlint/internal/opcode"
)

// ErrMalformedCode reports an undecodable instruction stream: an undefined
// opcode or operands running past the end of the code array.
var ErrMalformedCode = errors.New("malformed bytecode")

// Instruction is one decoded instruction: its offset from the start of the
// code array, its opcode, and its raw operand bytes (aliasing the code
// array).
type Instruction struct {
	PC       int
	Op       opcode.Op
	Operands []byte
}

// Handler consumes one instruction. Returning false stops the walk; the
// scanner feeds no further instructions. A stopped walk is not an error.
type Handler func(ins Instruction) bool

// Operand16 returns the big-endian u16 operand at the given byte offset
// within the instruction's operands, typically a constant pool index.
func (ins Instruction) Operand16(off int) (uint16, error) {
	if off < 0 || off+2 > len(ins.Operands) {
		return 0, fmt.Errorf("%w: pc %d: operand offset %d out of range", ErrMalformedCode, ins.PC, off)
	}
	return binary.BigEndian.Uint16(ins.Operands[off:]), nil
}

// Walk decodes code instruction by instruction, invoking h for each one
// until the stream ends or h returns false.
func Walk(code []byte, h Handler) error {
	pc := 0
	for pc < len(code) {
		op := opcode.Op(code[pc])
		if !op.Valid() {
			return fmt.Errorf("%w: undefined opcode 0x%02x at pc %d", ErrMalformedCode, uint8(op), pc)
		}
		size, err := instructionSize(code, pc, op)
		if err != nil {
			return err
		}
		if pc+size > len(code) {
			return fmt.Errorf("%w: %s at pc %d overruns code end", ErrMalformedCode, op, pc)
		}
		ins := Instruction{PC: pc, Op: op, Operands: code[pc+1 : pc+size]}
		if !h(ins) {
			return nil
		}
		pc += size
	}
	return nil
}

// instructionSize returns the total byte size of the instruction at pc,
// opcode included.
func instructionSize(code []byte, pc int, op opcode.Op) (int, error) {
	if n, ok := opcode.OperandWidth(op); ok {
		return 1 + n, nil
	}
	switch op {
	case opcode.Wide:
		// wide + opcode + u16 index, or wide + iinc + u16 index + s16 const
		if pc+1 >= len(code) {
			return 0, fmt.Errorf("%w: wide at pc %d overruns code end", ErrMalformedCode, pc)
		}
		if opcode.Op(code[pc+1]) == opcode.Iinc {
			return 6, nil
		}
		return 4, nil

	case opcode.Tableswitch:
		base := pc + 1 + switchPadding(pc)
		// default, low, high
		if base+12 > len(code) {
			return 0, fmt.Errorf("%w: tableswitch at pc %d overruns code end", ErrMalformedCode, pc)
		}
		low := int32(binary.BigEndian.Uint32(code[base+4:]))
		high := int32(binary.BigEndian.Uint32(code[base+8:]))
		if high < low {
			return 0, fmt.Errorf("%w: tableswitch at pc %d has high %d < low %d", ErrMalformedCode, pc, high, low)
		}
		// The span can reach 2^32 entries, wider than int32 holds.
		size := int64(base+12-pc) + 4*(int64(high)-int64(low)+1)
		if size > int64(len(code)-pc) {
			return 0, fmt.Errorf("%w: tableswitch at pc %d overruns code end", ErrMalformedCode, pc)
		}
		return int(size), nil

	case opcode.Lookupswitch:
		base := pc + 1 + switchPadding(pc)
		// default, npairs
		if base+8 > len(code) {
			return 0, fmt.Errorf("%w: lookupswitch at pc %d overruns code end", ErrMalformedCode, pc)
		}
		npairs := int32(binary.BigEndian.Uint32(code[base+4:]))
		if npairs < 0 {
			return 0, fmt.Errorf("%w: lookupswitch at pc %d has negative pair count", ErrMalformedCode, pc)
		}
		size := int64(base+8-pc) + 8*int64(npairs)
		if size > int64(len(code)-pc) {
			return 0, fmt.Errorf("%w: lookupswitch at pc %d overruns code end", ErrMalformedCode, pc)
		}
		return int(size), nil
	}
	return 0, fmt.Errorf("%w: unhandled opcode %s at pc %d", ErrMalformedCode, op, pc)
}

// switchPadding returns the 0..3 alignment bytes that follow a switch
// opcode so that its operands start on a 4-byte boundary relative to the
// code array start.
func switchPadding(pc int) int {
	return (4 - (pc+1)%4) % 4
}

// Contains reports whether any byte of code equals the given opcode. It is
// a cheap prescreen only: the byte may occur inside an operand, so a true
// result needs a real walk to confirm, while a false result proves the
// instruction absent.
func Contains(code []byte, op opcode.Op) bool {
	for _, b := range code {
		if opcode.Op(b) == op {
			return true
		}
	}
	return false
}
