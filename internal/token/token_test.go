package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdentifierKeywords(t *testing.T) {
	cases := []struct {
		ident string
		want  Type
	}{
		{"and", AND},
		{"class", CLASS},
		{"else", ELSE},
		{"false", FALSE},
		{"for", FOR},
		{"fun", FUN},
		{"if", IF},
		{"nil", NIL},
		{"or", OR},
		{"print", PRINT},
		{"return", RETURN},
		{"super", SUPER},
		{"this", THIS},
		{"true", TRUE},
		{"var", VAR},
		{"while", WHILE},
		{"notakeyword", IDENTIFIER},
		{"forest", IDENTIFIER},
		{"falser", IDENTIFIER},
	}
	for _, c := range cases {
		t.Run(c.ident, func(t *testing.T) {
			assert.Equal(t, c.want, LookupIdentifier(c.ident))
		})
	}
}

func TestTypeStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "IDENTIFIER", IDENTIFIER.String())
	assert.NotEmpty(t, Type(-1).String())
}
