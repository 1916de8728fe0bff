package object

// Heap owns every heap-allocated object ever produced during a run, linked
// through Obj.next into a singly-linked list whose head lives here — the
// source's `vm.objects` field. Go's garbage collector frees the backing
// memory on its own schedule; Free walks the list the way the source's
// teardown does, so the allocation graph this type models stays faithful to
// spec.md even though nothing here actually deallocates manually.
type Heap struct {
	head  *Obj
	count int
}

// NewHeap returns an empty heap with no tracked objects.
func NewHeap() *Heap {
	return &Heap{}
}

func (h *Heap) track(o *Obj) {
	o.next = h.head
	h.head = o
	h.count++
}

// NewString allocates a fresh, uninterned String and links it into the heap.
// Callers that want interning semantics go through a Table's FindString /
// Set pair first; NewString itself makes no uniqueness guarantee.
func (h *Heap) NewString(chars string) *String {
	s := newString(chars)
	h.track(&s.Obj)
	return s
}

// NewFunction allocates a fresh Function record and links it into the heap.
func (h *Heap) NewFunction(name *String, arity int) *Function {
	f := newFunction(name, arity)
	h.track(&f.Obj)
	return f
}

// Count returns the number of objects currently linked into the heap.
func (h *Heap) Count() int { return h.count }

// Objects returns every live object head-to-tail, newest first. It exists
// for diagnostics and tests; the core never iterates its own heap at
// runtime.
func (h *Heap) Objects() []*Obj {
	objs := make([]*Obj, 0, h.count)
	for o := h.head; o != nil; o = o.next {
		objs = append(objs, o)
	}
	return objs
}

// Free walks the allocation list and releases the VM's references to it,
// mirroring the source's freeObjects(). After Free, the heap is empty and
// ready for reuse.
func (h *Heap) Free() {
	for o := h.head; o != nil; {
		next := o.next
		o.next = nil
		o = next
	}
	h.head = nil
	h.count = 0
}
