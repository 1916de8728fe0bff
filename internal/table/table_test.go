package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ember-vm/internal/object"
	"ember-vm/internal/value"
)

func TestSetGetRoundTrip(t *testing.T) {
	h := object.NewHeap()
	tbl := New()
	key := h.NewString("answer")

	isNew := tbl.Set(key, value.NewNumber(42))
	require.True(t, isNew)

	got, ok := tbl.Get(key)
	require.True(t, ok)
	assert.Equal(t, value.NewNumber(42), got)
}

func TestSetExistingKeyIsNotNew(t *testing.T) {
	h := object.NewHeap()
	tbl := New()
	key := h.NewString("x")

	require.True(t, tbl.Set(key, value.NewNumber(1)))
	require.False(t, tbl.Set(key, value.NewNumber(2)))

	got, ok := tbl.Get(key)
	require.True(t, ok)
	assert.Equal(t, value.NewNumber(2), got)
}

func TestGetMissingKey(t *testing.T) {
	h := object.NewHeap()
	tbl := New()
	_, ok := tbl.Get(h.NewString("nope"))
	assert.False(t, ok)
}

// TestDeleteActuallyRemoves exercises the corrected (non-buggy) delete:
// spec.md calls out that the source's tableDelete was a no-op due to
// mistaking `==` for assignment. A real delete must make Get miss and
// Set treat the key as new again.
func TestDeleteActuallyRemoves(t *testing.T) {
	h := object.NewHeap()
	tbl := New()
	key := h.NewString("gone")
	tbl.Set(key, value.NewNumber(1))

	require.True(t, tbl.Delete(key))

	_, ok := tbl.Get(key)
	assert.False(t, ok, "deleted key must not be found")

	isNew := tbl.Set(key, value.NewNumber(2))
	assert.True(t, isNew, "re-inserting a deleted key must be treated as new")
}

func TestDeleteLeavesTombstoneForProbeChain(t *testing.T) {
	h := object.NewHeap()
	tbl := New()

	// Force several keys into the same small table so at least one pair
	// collides and relies on tombstone probing to stay reachable.
	keys := make([]*object.String, 0, 6)
	for i := 0; i < 6; i++ {
		keys = append(keys, h.NewString(string(rune('a'+i))))
	}
	for i, k := range keys {
		tbl.Set(k, value.NewNumber(float64(i)))
	}

	tbl.Delete(keys[0])

	for i := 1; i < len(keys); i++ {
		v, ok := tbl.Get(keys[i])
		require.Truef(t, ok, "key %d should survive deletion of an unrelated key", i)
		assert.Equal(t, value.NewNumber(float64(i)), v)
	}
}

func TestFindStringInterningRoundTrip(t *testing.T) {
	h := object.NewHeap()
	tbl := New()
	canonical := h.NewString("shared")
	tbl.Set(canonical, value.NewNil())

	found := tbl.FindString("shared", object.HashString("shared"))
	require.NotNil(t, found)
	assert.Same(t, canonical, found)
}

func TestFindStringMiss(t *testing.T) {
	tbl := New()
	assert.Nil(t, tbl.FindString("anything", object.HashString("anything")))
}

func TestGrowthPreservesAllEntries(t *testing.T) {
	h := object.NewHeap()
	tbl := New()

	const n = 64
	keys := make([]*object.String, n)
	for i := 0; i < n; i++ {
		keys[i] = h.NewString(string(rune('A'+i%26)) + string(rune('0'+i/26)))
		tbl.Set(keys[i], value.NewNumber(float64(i)))
	}

	for i, k := range keys {
		v, ok := tbl.Get(k)
		require.True(t, ok)
		assert.Equal(t, value.NewNumber(float64(i)), v)
	}
	assert.Equal(t, n, tbl.Count())
}

func TestHasAndKeys(t *testing.T) {
	h := object.NewHeap()
	tbl := New()
	a := h.NewString("a")
	b := h.NewString("b")
	tbl.Set(a, value.NewNil())
	tbl.Set(b, value.NewNil())

	assert.True(t, tbl.Has(a))
	assert.False(t, tbl.Has(h.NewString("c")))
	assert.ElementsMatch(t, []*object.String{a, b}, tbl.Keys())
}
