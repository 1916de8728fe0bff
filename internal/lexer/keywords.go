package lexer

import "ember-vm/internal/token"

// keywordType recognizes a scanned identifier against the reserved-word set
// by walking a hand-rolled trie over the first character, the way the
// source's scanner does — a switch on the first letter, then a length/suffix
// check — rather than a generic map lookup. This keeps keyword recognition
// at O(word length) with no hashing, matching spec.md §4.1.
func keywordType(ident string) token.Type {
	if len(ident) == 0 {
		return token.IDENTIFIER
	}

	switch ident[0] {
	case 'a':
		return checkRest(ident, "and", token.AND)
	case 'c':
		return checkRest(ident, "class", token.CLASS)
	case 'e':
		return checkRest(ident, "else", token.ELSE)
	case 'f':
		if len(ident) > 1 {
			switch ident[1] {
			case 'a':
				return checkRest(ident, "false", token.FALSE)
			case 'o':
				return checkRest(ident, "for", token.FOR)
			case 'u':
				return checkRest(ident, "fun", token.FUN)
			}
		}
	case 'i':
		return checkRest(ident, "if", token.IF)
	case 'n':
		return checkRest(ident, "nil", token.NIL)
	case 'o':
		return checkRest(ident, "or", token.OR)
	case 'p':
		return checkRest(ident, "print", token.PRINT)
	case 'r':
		return checkRest(ident, "return", token.RETURN)
	case 's':
		return checkRest(ident, "super", token.SUPER)
	case 't':
		if len(ident) > 1 {
			switch ident[1] {
			case 'h':
				return checkRest(ident, "this", token.THIS)
			case 'r':
				return checkRest(ident, "true", token.TRUE)
			}
		}
	case 'v':
		return checkRest(ident, "var", token.VAR)
	case 'w':
		return checkRest(ident, "while", token.WHILE)
	}

	return token.IDENTIFIER
}

// checkRest returns kw's token type iff ident is exactly word, otherwise
// IDENTIFIER — the trie's leaf comparison once the distinguishing prefix has
// already narrowed the candidate to a single keyword.
func checkRest(ident, word string, kw token.Type) token.Type {
	if ident == word {
		return kw
	}
	return token.IDENTIFIER
}
