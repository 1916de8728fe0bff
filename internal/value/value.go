// Package value implements the tagged-union Value representation shared by
// the compiler's constant pool and the VM's value stack.
package value

import (
	"fmt"

	"ember-vm/internal/object"
)

// Type discriminates a Value's payload. Nil is the zero value so a
// zero-initialized Value (an empty hash-table slot, an unset struct field)
// reads as Nil without any extra bookkeeping.
type Type int

const (
	Nil Type = iota
	Bool
	Number
	Obj
)

func (t Type) String() string {
	switch t {
	case Nil:
		return "nil"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case Obj:
		return "obj"
	default:
		return "unknown"
	}
}

// Value is the discriminated union described in spec.md §3: Nil, Bool(b),
// Number(f64), Obj(handle). Only the field matching Type is meaningful. Obj
// holds the concrete heap pointer (*object.String or *object.Function); it
// is an interface{} rather than *object.Obj so identity comparison is a
// plain Go pointer comparison with no unsafe casting back to the concrete
// type.
type Value struct {
	Type   Type
	Bool   bool
	Number float64
	Obj    interface{}
}

// NewNil returns the nil value.
func NewNil() Value { return Value{Type: Nil} }

// NewBool returns a boxed boolean.
func NewBool(b bool) Value { return Value{Type: Bool, Bool: b} }

// NewNumber returns a boxed double.
func NewNumber(n float64) Value { return Value{Type: Number, Number: n} }

// NewString boxes an interned string's heap handle.
func NewString(s *object.String) Value { return Value{Type: Obj, Obj: s} }

// NewFunction boxes a function's heap handle.
func NewFunction(f *object.Function) Value { return Value{Type: Obj, Obj: f} }

// IsFalsy implements spec.md §4.3's falsy rule: Nil and Bool(false) are
// falsy, everything else — including Number(0) and the empty string — is
// truthy.
func (v Value) IsFalsy() bool {
	switch v.Type {
	case Nil:
		return true
	case Bool:
		return !v.Bool
	default:
		return false
	}
}

// IsString reports whether v holds a *object.String.
func (v Value) IsString() bool {
	_, ok := v.Obj.(*object.String)
	return v.Type == Obj && ok
}

// IsFunction reports whether v holds a *object.Function.
func (v Value) IsFunction() bool {
	_, ok := v.Obj.(*object.Function)
	return v.Type == Obj && ok
}

// AsString returns the underlying *object.String. Callers must check
// IsString first.
func (v Value) AsString() *object.String {
	return v.Obj.(*object.String)
}

// AsFunction returns the underlying *object.Function. Callers must check
// IsFunction first.
func (v Value) AsFunction() *object.Function {
	return v.Obj.(*object.Function)
}

// Equal implements value equality: Nil == Nil, Bool/Bool and Number/Number
// compare by payload, Obj/Obj compares by heap identity (pointer equality —
// valid because strings are interned), and any cross-type comparison is
// false.
func (a Value) Equal(b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case Nil:
		return true
	case Bool:
		return a.Bool == b.Bool
	case Number:
		return a.Number == b.Number
	case Obj:
		return a.Obj == b.Obj
	default:
		return false
	}
}

// String renders v the way OP_PRINT does: nil/true/false, %g for numbers,
// raw characters for strings, <fn NAME>/<script> for functions.
func (v Value) String() string {
	switch v.Type {
	case Nil:
		return "nil"
	case Bool:
		if v.Bool {
			return "true"
		}
		return "false"
	case Number:
		return fmt.Sprintf("%g", v.Number)
	case Obj:
		switch o := v.Obj.(type) {
		case *object.String:
			return o.Chars
		case *object.Function:
			return o.String()
		default:
			return "<obj>"
		}
	default:
		return "<invalid>"
	}
}
