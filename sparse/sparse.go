// Package sparse implements an arena that stores values directly in a slot
// array and threads a free list through the empty slots.
//
// The arena is laid out like so:
//
//	head: 1
//	slots: [ {g1, value1}, {g2, next: 3}, {g3, value2}, {g4, next: 4} ]
//
// Every slot carries a generation. A filled generation means the slot holds a
// value; an empty generation means the slot holds the index of the next empty
// slot, or one past the end of the array if there is none. head is the first
// empty slot, or one past the end of the array.
//
// Inserting pops head off the free list, growing the array by one empty slot
// first if the free list is empty. Accessing compares the key against the
// slot's generation. Removing pushes the slot onto the front of the free list,
// unless the generation is exhausted, in which case the slot is retired and
// never used again.
//
// Every operation is constant time. Iteration visits every slot, filled or
// not.
package sparse

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/histdb/genarena/gen"
	"github.com/histdb/genarena/key"
	"github.com/histdb/genarena/num"
	"github.com/histdb/genarena/vec"
)

// Arena is a sparse arena with the default generation and key.
type Arena[V any] = T[V, key.Key[gen.Default], gen.Default, uint]

type T[V any, K key.Index[K, G], G gen.Generation[G], I num.T] struct {
	_ [0]func() // no equality

	head    int
	slots   vec.T[slot[V, G, I]]
	owner   key.Owner
	retired *roaring64.Bitmap
}

// slot is tagged by its generation: next is only meaningful while gen is
// empty, and val only while gen is filled.
type slot[V any, G gen.Generation[G], I num.T] struct {
	gen  G
	next I
	val  V
}

// SetOwner sets the owner that keys minted by the arena carry. It must be
// called before the first insert.
func (t *T[V, K, G, I]) SetOwner(o key.Owner) {
	if t.slots.Len() != 0 {
		panic("sparse: SetOwner on an arena that already has slots")
	}
	t.owner = o
}

func (t *T[V, K, G, I]) Owner() key.Owner { return t.owner }

// Slots returns the number of slots in the arena, filled or not.
func (t *T[V, K, G, I]) Slots() int { return t.slots.Len() }

func (t *T[V, K, G, I]) mint(i int, g G) K {
	var k K
	return k.Mint(i, t.owner, g.ToFilled())
}

// checkLink panics if a free list link to slot i cannot be stored.
func (t *T[V, K, G, I]) checkLink(i int) { num.Check[I](i) }

func (t *T[V, K, G, I]) grow() {
	t.checkLink(t.head + 1)
	t.slots.Push(slot[V, G, I]{next: num.FromUnchecked[I](t.head + 1)})
}

// Insert stores v and returns its key.
func (t *T[V, K, G, I]) Insert(v V) K {
	if t.head == t.slots.Len() {
		// a free link may later point one past this slot
		t.checkLink(t.head + 1)

		g := gen.Empty[G]().Fill()
		i := t.slots.Push(slot[V, G, I]{gen: g, val: v})
		t.head++
		return t.mint(i, g)
	}

	vs := t.VacantSlot()
	k := vs.Key()
	vs.Insert(v)
	return k
}

// InsertWith stores the value returned by fn, which is passed the key the
// value will be stored under. fn must not modify the arena.
func (t *T[V, K, G, I]) InsertWith(fn func(K) V) K {
	vs := t.VacantSlot()
	k := vs.Key()
	vs.Insert(fn(k))
	return k
}

// TryInsertWith is like InsertWith but fn may fail, in which case nothing is
// stored and the error is returned.
func (t *T[V, K, G, I]) TryInsertWith(fn func(K) (V, error)) (k K, err error) {
	vs := t.VacantSlot()
	v, err := fn(vs.Key())
	if err != nil {
		var zero K
		return zero, err
	}
	k = vs.Key()
	vs.Insert(v)
	return k, nil
}

func (t *T[V, K, G, I]) lookup(k K) *slot[V, G, I] {
	i := k.Slot()
	if uint(i) >= uint(t.slots.Len()) {
		return nil
	}
	s := t.slots.Get(i)
	if !k.Matches(t.owner, s.gen) {
		return nil
	}
	return s
}

func (t *T[V, K, G, I]) at(k K) *slot[V, G, I] {
	i := k.Slot()
	if n := t.slots.Len(); uint(i) >= uint(n) {
		panic(key.OutOfBounds(i, n))
	}
	s := t.slots.Get(i)
	if !k.Matches(t.owner, s.gen) {
		panic(k.Mismatch(t.owner, s.gen))
	}
	return s
}

// Get returns the value for k, and false if k is out of bounds or does not
// match its slot.
func (t *T[V, K, G, I]) Get(k K) (v V, ok bool) {
	if s := t.lookup(k); s != nil {
		return s.val, true
	}
	return v, false
}

// GetPtr returns a pointer to the value for k, or nil if k is out of bounds
// or does not match its slot. The pointer is valid until the value is
// removed.
func (t *T[V, K, G, I]) GetPtr(k K) *V {
	if s := t.lookup(k); s != nil {
		return &s.val
	}
	return nil
}

// Index is like Get but panics describing the mismatch if k is invalid.
func (t *T[V, K, G, I]) Index(k K) V { return t.at(k).val }

// IndexPtr is like GetPtr but panics describing the mismatch if k is invalid.
func (t *T[V, K, G, I]) IndexPtr(k K) *V { return &t.at(k).val }

// GetUnchecked returns the value for k without comparing generations. The
// caller must know that Get would succeed.
func (t *T[V, K, G, I]) GetUnchecked(k K) V { return t.slots.Get(k.Slot()).val }

// GetPtrUnchecked is the unchecked form of GetPtr.
func (t *T[V, K, G, I]) GetPtrUnchecked(k K) *V { return &t.slots.Get(k.Slot()).val }

// ValueAt returns a pointer to the value stored in slot i without checking
// that the slot is filled.
func (t *T[V, K, G, I]) ValueAt(i int) *V { return &t.slots.Get(i).val }

// TryKeyOf returns the key for the value in slot i, and false if the slot
// is out of bounds or empty.
func (t *T[V, K, G, I]) TryKeyOf(i int) (k K, ok bool) {
	if uint(i) >= uint(t.slots.Len()) {
		return k, false
	}
	s := t.slots.Get(i)
	if s.gen.IsEmpty() {
		return k, false
	}
	return t.mint(i, s.gen), true
}

// KeyOf is like TryKeyOf but panics if the slot is out of bounds or empty.
func (t *T[V, K, G, I]) KeyOf(i int) K {
	if n := t.slots.Len(); uint(i) >= uint(n) {
		panic(key.OutOfBounds(i, n))
	}
	s := t.slots.Get(i)
	if s.gen.IsEmpty() {
		panic(key.EmptySlot(i))
	}
	return t.mint(i, s.gen)
}

// KeyOfUnchecked returns the key for the value in slot i. The caller must
// know that the slot is filled.
func (t *T[V, K, G, I]) KeyOfUnchecked(i int) K {
	return t.mint(i, t.slots.Get(i).gen)
}

func (t *T[V, K, G, I]) remove(i int, s *slot[V, G, I]) V {
	v := s.val
	var zero V
	s.val = zero

	if g, err := s.gen.TryEmpty(); err == nil {
		s.gen, s.next = g, num.FromUnchecked[I](t.head)
		t.head = i
	} else {
		s.gen, s.next = gen.Empty[G](), num.FromUnchecked[I](i)
		t.retire(i)
	}

	return v
}

// TryRemove removes and returns the value for k, and false if k is out of
// bounds or does not match its slot.
func (t *T[V, K, G, I]) TryRemove(k K) (v V, ok bool) {
	if s := t.lookup(k); s != nil {
		return t.remove(k.Slot(), s), true
	}
	return v, false
}

// Remove is like TryRemove but panics describing the mismatch if k is
// invalid.
func (t *T[V, K, G, I]) Remove(k K) V {
	return t.remove(k.Slot(), t.at(k))
}

// RemoveUnchecked removes the value for k without comparing generations. The
// caller must know that Remove would succeed.
func (t *T[V, K, G, I]) RemoveUnchecked(k K) V {
	i := k.Slot()
	s := t.slots.Get(i)
	if s.gen.IsEmpty() {
		panic(key.EmptySlot(i))
	}
	return t.remove(i, s)
}
