// Package chunk implements the bytecode container the compiler emits into
// and the VM executes: a byte array of opcodes and inline immediates, a
// parallel per-byte line table, an ordered constant pool, and a per-chunk
// identifier-constant dedup index.
package chunk

import (
	"fmt"

	"ember-vm/internal/value"
)

// OpCode is a single bytecode instruction, encoded as one byte. Constant
// indices and local slots are 1-byte immediates (so at most 256 of each per
// chunk); jump offsets are 2-byte big-endian immediates.
type OpCode byte

const (
	OpConstant OpCode = iota
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpDefineGlobal
	OpGetGlobal
	OpSetGlobal
	OpGetLocal
	OpSetLocal
	OpEqual
	OpGreater
	OpLesser
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate
	OpPrint
	OpJump
	OpJumpIfFalse
	OpLoop
	OpReturn
)

var opNames = map[OpCode]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLesser:       "OP_LESSER",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpReturn:       "OP_RETURN",
}

func (op OpCode) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
}

// Chunk is a compiled code unit: opcodes, a parallel source-line table, a
// constant pool, and the per-chunk identifier dedup index described in
// spec.md §3 (there called "globals", but named identifierConstants here to
// avoid colliding with the VM's runtime global-variable table, which is a
// different thing keyed the same way).
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []value.Value

	FileName string

	identifierConstants map[string]int
}

// New returns an empty chunk ready to receive bytecode.
func New() *Chunk {
	return &Chunk{
		identifierConstants: make(map[string]int),
	}
}

// Write appends one byte of code (an opcode or an immediate) tagged with the
// source line it came from.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteOp appends an opcode.
func (c *Chunk) WriteOp(op OpCode, line int) {
	c.Write(byte(op), line)
}

// AddConstant appends v to the constant pool and returns its index. Callers
// emitting more than 255 constants must check the returned index themselves
// (spec.md's "too many constants" compile error); AddConstant itself never
// fails.
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// IdentifierConstant returns the constant-pool index already holding the
// interned string name, adding a fresh String constant and registering the
// dedup entry the first time name is seen in this chunk. This is spec.md
// §3's invariant that repeated references to the same identifier share one
// constant slot.
func (c *Chunk) IdentifierConstant(name string, makeString func(string) value.Value) int {
	if idx, ok := c.identifierConstants[name]; ok {
		return idx
	}
	idx := c.AddConstant(makeString(name))
	c.identifierConstants[name] = idx
	return idx
}

// Disassemble prints a human-readable listing of the chunk to stdout, used
// only by the external --disassembly CLI flag; nothing in the core depends
// on this format.
func (c *Chunk) Disassemble(name string) {
	fmt.Printf("== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = c.DisassembleInstruction(offset)
	}
}

// DisassembleInstruction prints one instruction starting at offset and
// returns the offset of the next instruction.
func (c *Chunk) DisassembleInstruction(offset int) int {
	fmt.Printf("%04d ", offset)
	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Print("   | ")
	} else {
		fmt.Printf("%4d ", c.Lines[offset])
	}

	op := OpCode(c.Code[offset])
	switch op {
	case OpConstant, OpDefineGlobal, OpGetGlobal, OpSetGlobal:
		return c.constantInstruction(op.String(), offset)
	case OpGetLocal, OpSetLocal:
		return c.byteInstruction(op.String(), offset)
	case OpJump, OpJumpIfFalse, OpLoop:
		return c.jumpInstruction(op.String(), offset)
	default:
		fmt.Println(op.String())
		return offset + 1
	}
}

func (c *Chunk) constantInstruction(name string, offset int) int {
	idx := c.Code[offset+1]
	fmt.Printf("%-18s %4d '%s'\n", name, idx, c.Constants[idx])
	return offset + 2
}

func (c *Chunk) byteInstruction(name string, offset int) int {
	slot := c.Code[offset+1]
	fmt.Printf("%-18s %4d\n", name, slot)
	return offset + 2
}

func (c *Chunk) jumpInstruction(name string, offset int) int {
	jump := uint16(c.Code[offset+1])<<8 | uint16(c.Code[offset+2])
	fmt.Printf("%-18s %4d\n", name, jump)
	return offset + 3
}

// DisassembleAll disassembles this chunk and any nested function chunks
// reachable through its constant pool, mirroring the teacher's
// DisassembleAll.
func (c *Chunk) DisassembleAll(name string) {
	c.Disassemble(name)
	for _, constant := range c.Constants {
		if !constant.IsFunction() {
			continue
		}
		fn := constant.AsFunction()
		if nested, ok := fn.Chunk.(*Chunk); ok && nested != nil {
			fmt.Println()
			nested.DisassembleAll(fn.String())
		}
	}
}
