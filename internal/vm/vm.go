// Package vm implements the stack-based bytecode virtual machine: a single
// fetch-decode-execute loop over a compiled Chunk, a fixed-size value stack,
// a globals table, and the intern table the Compiler borrows through the
// Interner interface while it emits.
package vm

import (
	"fmt"
	"io"
	"os"

	"ember-vm/internal/chunk"
	"ember-vm/internal/compiler"
	"ember-vm/internal/object"
	"ember-vm/internal/table"
	"ember-vm/internal/value"
)

// StackMax bounds the value stack. spec.md sizes it at "256 or FRAMES_MAX ×
// 256"; this core never emits a CALL opcode, so one frame's worth is enough.
const StackMax = 256

// FramesMax bounds the call-frame array. Only frame 0 (the top-level script)
// is ever populated by this core, but the array is sized to match spec.md's
// VM-state description and to leave room for a future CALL opcode.
const FramesMax = 64

// InterpretResult is the outcome of running a Chunk to completion.
type InterpretResult int

const (
	Ok InterpretResult = iota
	CompileError
	RuntimeError
)

func (r InterpretResult) String() string {
	switch r {
	case Ok:
		return "OK"
	case CompileError:
		return "COMPILE_ERROR"
	case RuntimeError:
		return "RUNTIME_ERROR"
	default:
		return "UNKNOWN"
	}
}

// CallFrame is one activation record: the chunk it executes, its instruction
// pointer into that chunk's code, and the value-stack offset its locals are
// based at. Only one is ever live in this core (no function calls), but the
// shape mirrors spec.md §2's "stack of call frames when functions are
// implemented" note.
type CallFrame struct {
	Chunk *chunk.Chunk
	IP    int
	Slots int
}

// Config controls the VM's I/O sinks and diagnostics. The zero Config is not
// directly usable; use New or NewWithConfig.
type Config struct {
	// Stdout receives PRINT statement output.
	Stdout io.Writer
	// Stderr receives compile and runtime error diagnostics.
	Stderr io.Writer
	// TraceExecution, when set, dumps the value stack and disassembles each
	// instruction before it executes. Purely a debugging aid; no opcode's
	// semantics depend on it.
	TraceExecution bool
}

// VM holds all mutable interpreter state: the call-frame stack, the value
// stack, the object heap, the string intern table, and the globals table.
type VM struct {
	frames     [FramesMax]CallFrame
	frameCount int

	stack    [StackMax]value.Value
	stackTop int

	heap    *object.Heap
	strings *table.Table
	globals *table.Table

	config Config
}

// New returns a VM that writes PRINT output to os.Stdout and diagnostics to
// os.Stderr.
func New() *VM {
	return NewWithConfig(Config{Stdout: os.Stdout, Stderr: os.Stderr})
}

// NewWithConfig returns a VM using the given Config, defaulting any unset
// writer to os.Stdout/os.Stderr.
func NewWithConfig(cfg Config) *VM {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	return &VM{
		heap:    object.NewHeap(),
		strings: table.New(),
		globals: table.New(),
		config:  cfg,
	}
}

// InternString returns the canonical *object.String for chars, allocating
// and registering a fresh one on first sight. It implements
// compiler.Interner, and is the same lookup-or-allocate path OP_ADD's string
// concatenation uses at runtime (spec.md's take_string).
func (vm *VM) InternString(chars string) *object.String {
	hash := object.HashString(chars)
	if s := vm.strings.FindString(chars, hash); s != nil {
		return s
	}
	s := vm.heap.NewString(chars)
	vm.strings.Set(s, value.NewNil())
	return s
}

var _ compiler.Interner = (*VM)(nil)

// Heap exposes the object heap, for the REPL's :heap diagnostic command.
func (vm *VM) Heap() *object.Heap { return vm.heap }

// Global looks up name in the globals table, interning the lookup key. It
// exists for host embedding and tests; the dispatch loop below resolves
// globals by constant-pool *object.String identity instead.
func (vm *VM) Global(name string) (value.Value, bool) {
	return vm.globals.Get(vm.InternString(name))
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
	vm.frameCount = 0
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	v := vm.stack[vm.stackTop]
	vm.stack[vm.stackTop] = value.Value{}
	return v
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

// Interpret compiles source and, if compilation succeeds, runs it to
// completion. The Chunk is scoped to this call: it is discarded once
// Interpret returns, per spec.md §3's chunk-lifetime rule that a Chunk is
// owned for exactly one compile-execute cycle.
func (vm *VM) Interpret(source string) (InterpretResult, error) {
	c, ok := compiler.Compile(source, vm, vm.config.Stderr, "<script>")
	if !ok {
		return CompileError, fmt.Errorf("compile error")
	}

	vm.resetStack()
	vm.frames[0] = CallFrame{Chunk: c, IP: 0, Slots: 0}
	vm.frameCount = 1

	return vm.run()
}

// run is the fetch-decode-execute loop. It operates on frame 0 only: this
// core has no CALL opcode, so vm.frameCount never exceeds 1.
func (vm *VM) run() (InterpretResult, error) {
	frame := &vm.frames[vm.frameCount-1]
	c := frame.Chunk

	readByte := func() byte {
		b := c.Code[frame.IP]
		frame.IP++
		return b
	}
	readShort := func() int {
		hi := c.Code[frame.IP]
		lo := c.Code[frame.IP+1]
		frame.IP += 2
		return int(hi)<<8 | int(lo)
	}
	readConstant := func() value.Value {
		return c.Constants[readByte()]
	}

	for {
		if vm.config.TraceExecution {
			vm.traceInstruction(c, frame.IP)
		}

		op := chunk.OpCode(readByte())
		switch op {
		case chunk.OpConstant:
			vm.push(readConstant())

		case chunk.OpNil:
			vm.push(value.NewNil())
		case chunk.OpTrue:
			vm.push(value.NewBool(true))
		case chunk.OpFalse:
			vm.push(value.NewBool(false))

		case chunk.OpPop:
			vm.pop()

		case chunk.OpDefineGlobal:
			name := readConstant().AsString()
			vm.globals.Set(name, vm.pop())

		case chunk.OpGetGlobal:
			name := readConstant().AsString()
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError(frame, "Undefined variable '%s'.", name.Chars)
			}
			vm.push(v)

		case chunk.OpSetGlobal:
			name := readConstant().AsString()
			if isNew := vm.globals.Set(name, vm.peek(0)); isNew {
				vm.globals.Delete(name)
				return vm.runtimeError(frame, "Undefined variable '%s'.", name.Chars)
			}

		case chunk.OpGetLocal:
			slot := int(readByte())
			vm.push(vm.stack[frame.Slots+slot])

		case chunk.OpSetLocal:
			slot := int(readByte())
			vm.stack[frame.Slots+slot] = vm.peek(0)

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.NewBool(a.Equal(b)))

		case chunk.OpGreater:
			res, result, err := vm.comparison(frame, func(a, b float64) bool { return a > b }, func(a, b bool) bool { return a && !b })
			if err != nil {
				return result, err
			}
			vm.push(res)

		case chunk.OpLesser:
			res, result, err := vm.comparison(frame, func(a, b float64) bool { return a < b }, func(a, b bool) bool { return !a && b })
			if err != nil {
				return result, err
			}
			vm.push(res)

		case chunk.OpAdd:
			if err := vm.add(frame); err != nil {
				return RuntimeError, err
			}

		case chunk.OpSubtract:
			if err := vm.numericBinary(frame, func(a, b float64) float64 { return a - b }); err != nil {
				return RuntimeError, err
			}
		case chunk.OpMultiply:
			if err := vm.numericBinary(frame, func(a, b float64) float64 { return a * b }); err != nil {
				return RuntimeError, err
			}
		case chunk.OpDivide:
			if err := vm.numericBinary(frame, func(a, b float64) float64 { return a / b }); err != nil {
				return RuntimeError, err
			}

		case chunk.OpNot:
			vm.push(value.NewBool(vm.pop().IsFalsy()))

		case chunk.OpNegate:
			if vm.peek(0).Type != value.Number {
				return vm.runtimeError(frame, "Operand must be a number.")
			}
			vm.push(value.NewNumber(-vm.pop().Number))

		case chunk.OpPrint:
			fmt.Fprintf(vm.config.Stdout, "%s\n", vm.pop())

		case chunk.OpJump:
			offset := readShort()
			frame.IP += offset

		case chunk.OpJumpIfFalse:
			offset := readShort()
			if vm.peek(0).IsFalsy() {
				frame.IP += offset
			}

		case chunk.OpLoop:
			offset := readShort()
			frame.IP -= offset

		case chunk.OpReturn:
			vm.frameCount--
			return Ok, nil

		default:
			return vm.runtimeError(frame, "Unknown opcode %d.", op)
		}
	}
}

// numericBinary pops b then a (the right operand sits on top, per spec.md
// §4.4), requires both Number, and pushes op(a, b).
func (vm *VM) numericBinary(frame *CallFrame, op func(a, b float64) float64) error {
	if vm.peek(0).Type != value.Number || vm.peek(1).Type != value.Number {
		_, err := vm.runtimeErrorResult(frame, "Operands must be a numbers.")
		return err
	}
	b := vm.pop().Number
	a := vm.pop().Number
	vm.push(value.NewNumber(op(a, b)))
	return nil
}

// comparison handles GREATER/LESSER, which per spec.md §4.3 operate on
// numbers or booleans — not strings or nil. Both operands must share the
// same of those two types.
func (vm *VM) comparison(frame *CallFrame, onNumber func(a, b float64) bool, onBool func(a, b bool) bool) (value.Value, InterpretResult, error) {
	b := vm.peek(0)
	a := vm.peek(1)

	var out bool
	switch {
	case a.Type == value.Number && b.Type == value.Number:
		out = onNumber(a.Number, b.Number)
	case a.Type == value.Bool && b.Type == value.Bool:
		out = onBool(a.Bool, b.Bool)
	default:
		res, err := vm.runtimeError(frame, "Operands must be a numbers.")
		return value.Value{}, res, err
	}
	vm.pop()
	vm.pop()
	return value.NewBool(out), Ok, nil
}

// add implements OP_ADD's polymorphism: two numbers sum, two strings
// concatenate through the intern table (spec.md's take_string), any other
// combination is a runtime error.
func (vm *VM) add(frame *CallFrame) error {
	b := vm.peek(0)
	a := vm.peek(1)

	switch {
	case a.Type == value.Number && b.Type == value.Number:
		vm.pop()
		vm.pop()
		vm.push(value.NewNumber(a.Number + b.Number))
	case a.IsString() && b.IsString():
		vm.pop()
		vm.pop()
		concatenated := a.AsString().Chars + b.AsString().Chars
		vm.push(value.NewString(vm.InternString(concatenated)))
	default:
		_, err := vm.runtimeErrorResult(frame, "Operands must be two numbers or two strings.")
		return err
	}
	return nil
}

// runtimeError formats and writes a runtime diagnostic exactly as spec.md
// §6 specifies, resets the stack, and returns RuntimeError.
func (vm *VM) runtimeError(frame *CallFrame, format string, args ...interface{}) (InterpretResult, error) {
	return vm.runtimeErrorResult(frame, fmt.Sprintf(format, args...))
}

func (vm *VM) runtimeErrorResult(frame *CallFrame, msg string) (InterpretResult, error) {
	line := 0
	if frame != nil && frame.IP-1 >= 0 && frame.IP-1 < len(frame.Chunk.Lines) {
		line = frame.Chunk.Lines[frame.IP-1]
	}
	fmt.Fprintf(vm.config.Stderr, "%s\n[line %d] in script\n", msg, line)
	vm.resetStack()
	return RuntimeError, fmt.Errorf("%s", msg)
}

// traceInstruction dumps the value stack then disassembles the instruction
// about to execute, mirroring the source's trace-execution build flag.
func (vm *VM) traceInstruction(c *chunk.Chunk, ip int) {
	fmt.Fprint(vm.config.Stdout, "          ")
	for i := 0; i < vm.stackTop; i++ {
		fmt.Fprintf(vm.config.Stdout, "[ %s ]", vm.stack[i])
	}
	fmt.Fprintln(vm.config.Stdout)
	c.DisassembleInstruction(ip)
}
