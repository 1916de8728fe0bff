// Package table implements the open-addressed, linear-probing hash table
// described in spec.md §4.5: the VM's globals table and its string intern
// table are both instances of this type, keyed by interned-string identity.
package table

import (
	"ember-vm/internal/object"
	"ember-vm/internal/value"
)

const maxLoad = 0.75

// entry is one hash-table slot. Three states, per spec.md §3:
//   - empty:     Key == nil, Value.Type == value.Nil
//   - tombstone: Key == nil, Value.Type != value.Nil
//   - occupied:  Key != nil
type entry struct {
	Key   *object.String
	Value value.Value
}

// Table is an open-addressed map from interned *object.String to
// value.Value. The zero value is an empty, usable table (capacity grows
// from 0 to 8 on first insert).
type Table struct {
	count   int // occupied slots plus tombstones, for load-factor purposes
	entries []entry
}

// New returns an empty table.
func New() *Table {
	return &Table{}
}

// Count returns the number of live (non-tombstone) entries, for diagnostics.
func (t *Table) Count() int {
	live := 0
	for i := range t.entries {
		if t.entries[i].Key != nil {
			live++
		}
	}
	return live
}

// findEntry implements spec.md §4.5's find_entry: probe from key.Hash mod
// capacity, remembering the first tombstone seen so a terminal empty slot
// can reuse it instead of extending the probe chain further.
func findEntry(entries []entry, key *object.String) *entry {
	capacity := uint32(len(entries))
	index := key.Hash % capacity
	var tombstone *entry

	for {
		e := &entries[index]
		switch {
		case e.Key == nil:
			if e.Value.Type == value.Nil {
				// Truly empty: return the remembered tombstone if there was
				// one, so repeated inserts reclaim dead slots.
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			// Tombstone: remember it but keep probing.
			if tombstone == nil {
				tombstone = e
			}
		case e.Key == key:
			return e
		}
		index = (index + 1) % capacity
	}
}

func growCapacity(capacity int) int {
	if capacity < 8 {
		return 8
	}
	return capacity * 2
}

func (t *Table) adjustCapacity(capacity int) {
	newEntries := make([]entry, capacity)

	newCount := 0
	for i := range t.entries {
		old := &t.entries[i]
		if old.Key == nil {
			continue
		}
		dest := findEntry(newEntries, old.Key)
		dest.Key = old.Key
		dest.Value = old.Value
		newCount++
	}

	t.entries = newEntries
	t.count = newCount
}

// Set inserts or overwrites key -> val, growing the table first if the
// resulting load factor would exceed 0.75. It returns true iff key was not
// already present (the "was-new" signal OP_SET_GLOBAL relies on to reject
// assignment to an undefined global).
func (t *Table) Set(key *object.String, val value.Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*maxLoad {
		t.adjustCapacity(growCapacity(len(t.entries)))
	}

	e := findEntry(t.entries, key)
	isNewKey := e.Key == nil
	if isNewKey && e.Value.Type == value.Nil {
		// Only truly-empty slots grow count; reusing a tombstone must not.
		t.count++
	}

	e.Key = key
	e.Value = val
	return isNewKey
}

// Get looks up key, returning (value, true) on hit or (zero, false) on miss.
func (t *Table) Get(key *object.String) (value.Value, bool) {
	if len(t.entries) == 0 {
		return value.Value{}, false
	}
	e := findEntry(t.entries, key)
	if e.Key == nil {
		return value.Value{}, false
	}
	return e.Value, true
}

// Has reports whether key is present without returning its value.
func (t *Table) Has(key *object.String) bool {
	_, ok := t.Get(key)
	return ok
}

// Delete removes key, leaving a tombstone (Key nil, Value a non-Nil
// sentinel) so later probes for colliding keys still find them.
func (t *Table) Delete(key *object.String) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := findEntry(t.entries, key)
	if e.Key == nil {
		return false
	}
	e.Key = nil
	e.Value = value.NewBool(true)
	return true
}

// FindString is the interning lookup: probe by hash, comparing length, hash,
// and bytes to resolve collisions, returning the canonical *object.String on
// hit or nil on miss. The intern table never stores a non-Nil value, so any
// non-nil Key match other than by full comparison would be a bug; matching
// spec.md §4.5 exactly, a terminal non-tombstone empty slot ends the probe.
func (t *Table) FindString(chars string, hash uint32) *object.String {
	if len(t.entries) == 0 {
		return nil
	}
	capacity := uint32(len(t.entries))
	index := hash % capacity

	for {
		e := &t.entries[index]
		if e.Key == nil {
			if e.Value.Type == value.Nil {
				return nil
			}
		} else if e.Key.Hash == hash && len(e.Key.Chars) == len(chars) && e.Key.Chars == chars {
			return e.Key
		}
		index = (index + 1) % capacity
	}
}

// Keys returns every live key, for diagnostics and tests. Order is
// unspecified (bucket order).
func (t *Table) Keys() []*object.String {
	keys := make([]*object.String, 0, t.Count())
	for i := range t.entries {
		if t.entries[i].Key != nil {
			keys = append(keys, t.entries[i].Key)
		}
	}
	return keys
}
