package compiler

import "ember-vm/internal/token"

// precedence orders binding strength low to high, per spec.md §4.2. None is
// the floor: a token whose rule.precedence is None never continues an
// infix chain.
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

// ruleKind names which parsing function a slot dispatches to. Spec.md §9's
// design notes prefer this enum-and-switch shape over a table of function
// pointers: it keeps the table itself a plain data literal and pushes
// dispatch into one exhaustive switch per position (prefix/infix).
type ruleKind int

const (
	ruleNone ruleKind = iota
	ruleGrouping
	ruleUnary
	ruleBinary
	ruleNumber
	ruleString
	ruleLiteral
	ruleVariable
)

type parseRule struct {
	prefix     ruleKind
	infix      ruleKind
	precedence precedence
}

// rules is the static table described in spec.md §4.2, indexed by token
// type. Tokens absent from the map (and any token mapping to
// {ruleNone, ruleNone, precNone}) have no prefix or infix position in the
// grammar.
var rules = map[token.Type]parseRule{
	token.LEFT_PAREN:    {ruleGrouping, ruleNone, precNone},
	token.MINUS:         {ruleUnary, ruleBinary, precTerm},
	token.PLUS:          {ruleNone, ruleBinary, precTerm},
	token.SLASH:         {ruleNone, ruleBinary, precFactor},
	token.STAR:          {ruleNone, ruleBinary, precFactor},
	token.BANG:          {ruleUnary, ruleNone, precNone},
	token.BANG_EQUAL:    {ruleNone, ruleBinary, precEquality},
	token.EQUAL_EQUAL:   {ruleNone, ruleBinary, precEquality},
	token.GREATER:       {ruleNone, ruleBinary, precComparison},
	token.GREATER_EQUAL: {ruleNone, ruleBinary, precComparison},
	token.LESS:          {ruleNone, ruleBinary, precComparison},
	token.LESS_EQUAL:    {ruleNone, ruleBinary, precComparison},
	token.IDENTIFIER:    {ruleVariable, ruleNone, precNone},
	token.STRING:        {ruleString, ruleNone, precNone},
	token.NUMBER:        {ruleNumber, ruleNone, precNone},
	token.FALSE:         {ruleLiteral, ruleNone, precNone},
	token.NIL:           {ruleLiteral, ruleNone, precNone},
	token.TRUE:          {ruleLiteral, ruleNone, precNone},
}

func getRule(t token.Type) parseRule {
	if r, ok := rules[t]; ok {
		return r
	}
	return parseRule{ruleNone, ruleNone, precNone}
}

// parsePrecedence implements spec.md §4.2's algorithm exactly: advance,
// dispatch the prefix rule for the token just consumed, then keep consuming
// infix operators whose precedence is at least level.
func (c *Compiler) parsePrecedence(level precedence) {
	c.advance()
	prefix := getRule(c.parser.previous.Type).prefix
	if prefix == ruleNone {
		c.error("Expect expression.")
		return
	}

	canAssign := level <= precAssignment
	c.applyPrefix(prefix, canAssign)

	for level <= getRule(c.parser.current.Type).precedence {
		c.advance()
		infix := getRule(c.parser.previous.Type).infix
		c.applyInfix(infix, canAssign)
	}

	if canAssign && c.match(token.EQUAL) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) applyPrefix(kind ruleKind, canAssign bool) {
	switch kind {
	case ruleGrouping:
		c.grouping()
	case ruleUnary:
		c.unary()
	case ruleNumber:
		c.number()
	case ruleString:
		c.stringLiteral()
	case ruleLiteral:
		c.literal()
	case ruleVariable:
		c.variable(canAssign)
	}
}

func (c *Compiler) applyInfix(kind ruleKind, canAssign bool) {
	switch kind {
	case ruleBinary:
		c.binary()
	}
}

func (c *Compiler) expression() {
	c.parsePrecedence(precAssignment)
}
