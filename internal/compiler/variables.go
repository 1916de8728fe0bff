package compiler

import (
	"ember-vm/internal/chunk"
	"ember-vm/internal/token"
	"ember-vm/internal/value"
)

// declareVariable registers the identifier in parser.previous as a new
// local in the current scope. At global scope (depth 0) it is a no-op —
// globals are resolved by name at runtime, not by compile-time slot.
func (c *Compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}

	name := c.parser.previous.Lexeme

	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth != -1 && l.depth < c.scopeDepth {
			break
		}
		if l.name == name {
			c.error("Already a variable with this name in this scope.")
			return
		}
	}

	c.addLocal(name)
}

func (c *Compiler) addLocal(name string) {
	if len(c.locals) >= maxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.locals = append(c.locals, local{name: name, depth: -1})
}

// identifierConstant adds (or reuses) a constant-pool String for name and
// returns its index.
func (c *Compiler) identifierConstant(name string) byte {
	idx := c.chunk.IdentifierConstant(name, func(s string) value.Value {
		return value.NewString(c.interner.InternString(s))
	})
	if idx > 0xff {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

// parseVariable consumes an identifier token, declares it, and returns the
// identifier-constant index to pass to defineVariable (0 and ignored for
// locals).
func (c *Compiler) parseVariable(errorMessage string) byte {
	c.consume(token.IDENTIFIER, errorMessage)

	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.parser.previous.Lexeme)
}

// markInitialized flips the most recently declared local out of the
// "declared but not yet initialized" state once its initializer has been
// fully compiled.
func (c *Compiler) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

// defineVariable finishes a var declaration: for a local it's purely a
// compile-time bookkeeping step (the value is already sitting in its stack
// slot); for a global it emits the opcode that pops the initializer value
// into the globals table.
func (c *Compiler) defineVariable(global byte) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(chunk.OpDefineGlobal, global)
}

// resolveLocal returns the stack slot of the innermost local named
// name.Lexeme, or -1 if none is in scope. Reading a local whose depth is
// still -1 (mid-initialization, as in `var a = a;`) is a compile error.
func (c *Compiler) resolveLocal(name token.Token) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name.Lexeme {
			if c.locals[i].depth == -1 {
				c.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// namedVariable compiles a read or, when canAssign and an '=' follows, a
// write of the variable named by name, choosing local or global opcodes
// based on resolveLocal.
func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp chunk.OpCode
	var arg byte

	if slot := c.resolveLocal(name); slot != -1 {
		getOp, setOp = chunk.OpGetLocal, chunk.OpSetLocal
		arg = byte(slot)
	} else {
		getOp, setOp = chunk.OpGetGlobal, chunk.OpSetGlobal
		arg = c.identifierConstant(name.Lexeme)
	}

	if canAssign && c.match(token.EQUAL) {
		c.expression()
		c.emitOpByte(setOp, arg)
	} else {
		c.emitOpByte(getOp, arg)
	}
}
