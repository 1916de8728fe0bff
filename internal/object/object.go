// Package object implements the managed object heap: variable-sized
// heap-allocated records linked into an intrusive list owned by the VM,
// plus the FNV-1a hash used to key the intern table.
package object

// Type tags a heap-allocated record the same way value.Type tags a Value.
type Type int

const (
	TypeString Type = iota
	TypeFunction
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeFunction:
		return "Function"
	default:
		return "Unknown"
	}
}

// Obj is the header every heap object embeds. next links it into the VM's
// allocation list; it is set by Heap.track and cleared by Heap.Free.
type Obj struct {
	Type Type
	next *Obj
}

// Next returns the following object in the VM's allocation list, or nil at
// the tail.
func (o *Obj) Next() *Obj { return o.next }

// String is an immutable byte sequence carrying a precomputed FNV-1a hash.
// Every String reachable through an intern table is canonical: two Strings
// with equal Chars obtained via an interner (such as the VM's InternString)
// are the same pointer. Heap.NewString alone gives no such guarantee.
type String struct {
	Obj
	Chars string
	Hash  uint32
}

// Function is the reserved representation of a user-defined function: arity,
// an owned chunk, and an optional interned name. The executable core in this
// spec never emits an opcode that constructs one, but the Chunk type
// references value.Value (which references this package), so the field is
// typed interface{} to avoid an object<->chunk<->value import cycle — the
// same tradeoff the teacher codebase makes in its own value package.
type Function struct {
	Obj
	Name  *String
	Arity int
	Chunk interface{}
}

func (f *Function) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return "<fn " + f.Name.Chars + ">"
}

// HashString computes the 32-bit FNV-1a hash of s, the same algorithm the
// source uses to precompute ObjString hashes at construction time.
func HashString(s string) uint32 {
	var hash uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= 16777619
	}
	return hash
}

func newString(chars string) *String {
	return &String{Obj: Obj{Type: TypeString}, Chars: chars, Hash: HashString(chars)}
}

func newFunction(name *String, arity int) *Function {
	return &Function{Obj: Obj{Type: TypeFunction}, Name: name, Arity: arity}
}
