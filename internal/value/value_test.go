package value

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ember-vm/internal/object"
)

func TestIsFalsy(t *testing.T) {
	cases := []struct {
		name  string
		value Value
		falsy bool
	}{
		{"nil", NewNil(), true},
		{"false", NewBool(false), true},
		{"true", NewBool(true), false},
		{"zero", NewNumber(0), false},
		{"empty string", NewString(object.NewHeap().NewString("")), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.falsy, c.value.IsFalsy())
		})
	}
}

func TestEqualCrossTypeIsFalse(t *testing.T) {
	assert.False(t, NewNumber(0).Equal(NewBool(false)))
	assert.False(t, NewNil().Equal(NewBool(false)))
}

func TestEqualByPayload(t *testing.T) {
	assert.True(t, NewNumber(3.5).Equal(NewNumber(3.5)))
	assert.False(t, NewNumber(3.5).Equal(NewNumber(3.6)))
	assert.True(t, NewBool(true).Equal(NewBool(true)))
	assert.True(t, NewNil().Equal(NewNil()))
}

func TestEqualObjIsPointerIdentity(t *testing.T) {
	h := object.NewHeap()
	a := h.NewString("hi")
	b := h.NewString("hi") // deliberately not interned: distinct allocations

	assert.True(t, NewString(a).Equal(NewString(a)))
	assert.False(t, NewString(a).Equal(NewString(b)), "equal Chars but distinct pointers must not compare equal without interning")
}

func TestStringRendering(t *testing.T) {
	h := object.NewHeap()
	assert.Equal(t, "nil", NewNil().String())
	assert.Equal(t, "true", NewBool(true).String())
	assert.Equal(t, "false", NewBool(false).String())
	assert.Equal(t, "3.5", NewNumber(3.5).String())
	assert.Equal(t, "hola", NewString(h.NewString("hola")).String())
}

func TestIsStringIsFunction(t *testing.T) {
	h := object.NewHeap()
	s := NewString(h.NewString("x"))
	f := NewFunction(h.NewFunction(nil, 0))

	assert.True(t, s.IsString())
	assert.False(t, s.IsFunction())
	assert.True(t, f.IsFunction())
	assert.False(t, f.IsString())
	assert.False(t, NewNumber(1).IsString())
}
