package compiler

import (
	"strconv"

	"ember-vm/internal/chunk"
	"ember-vm/internal/token"
	"ember-vm/internal/value"
)

func (c *Compiler) grouping() {
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
}

// unary compiles a prefix '-' or '!', recursing at PrecUnary so the operand
// binds tighter than any binary operator but still allows another unary
// operator to nest (`!!x`, `--x`... the latter being two unary minuses).
func (c *Compiler) unary() {
	opType := c.parser.previous.Type

	c.parsePrecedence(precUnary)

	switch opType {
	case token.MINUS:
		c.emitOp(chunk.OpNegate)
	case token.BANG:
		c.emitOp(chunk.OpNot)
	}
}

// binary compiles the right operand at one precedence level higher than the
// operator's own, making the grammar left-associative, then emits the
// opcode(s) for the operator. != and <= and >= are synthesized by negating
// the complementary primitive comparison, per spec.md §4.2.
func (c *Compiler) binary() {
	opType := c.parser.previous.Type
	rule := getRule(opType)

	c.parsePrecedence(rule.precedence + 1)

	switch opType {
	case token.PLUS:
		c.emitOp(chunk.OpAdd)
	case token.MINUS:
		c.emitOp(chunk.OpSubtract)
	case token.STAR:
		c.emitOp(chunk.OpMultiply)
	case token.SLASH:
		c.emitOp(chunk.OpDivide)
	case token.BANG_EQUAL:
		c.emitOp(chunk.OpEqual)
		c.emitOp(chunk.OpNot)
	case token.EQUAL_EQUAL:
		c.emitOp(chunk.OpEqual)
	case token.GREATER:
		c.emitOp(chunk.OpGreater)
	case token.GREATER_EQUAL:
		c.emitOp(chunk.OpLesser)
		c.emitOp(chunk.OpNot)
	case token.LESS:
		c.emitOp(chunk.OpLesser)
	case token.LESS_EQUAL:
		c.emitOp(chunk.OpGreater)
		c.emitOp(chunk.OpNot)
	}
}

func (c *Compiler) number() {
	n, err := strconv.ParseFloat(c.parser.previous.Lexeme, 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(value.NewNumber(n))
}

// stringLiteral strips the surrounding quotes and interns the interior
// bytes verbatim, per spec.md §6 ("string literals are byte-copied
// verbatim").
func (c *Compiler) stringLiteral() {
	raw := c.parser.previous.Lexeme
	interior := raw[1 : len(raw)-1]
	s := c.interner.InternString(interior)
	c.emitConstant(value.NewString(s))
}

func (c *Compiler) literal() {
	switch c.parser.previous.Type {
	case token.FALSE:
		c.emitOp(chunk.OpFalse)
	case token.NIL:
		c.emitOp(chunk.OpNil)
	case token.TRUE:
		c.emitOp(chunk.OpTrue)
	}
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.parser.previous, canAssign)
}
