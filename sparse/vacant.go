package sparse

import (
	"github.com/histdb/genarena/gen"
	"github.com/histdb/genarena/key"
	"github.com/histdb/genarena/num"
)

// VacantSlot is an empty slot reserved by T.VacantSlot. Its key is known
// before the value is stored.
type VacantSlot[V any, K key.Index[K, G], G gen.Generation[G], I num.T] struct {
	t     *T[V, K, G, I]
	s     *slot[V, G, I]
	gen   G
	index int
	next  int
}

// VacantSlot reserves the next empty slot, growing the arena if needed. The
// arena must not be modified until Insert is called.
func (t *T[V, K, G, I]) VacantSlot() VacantSlot[V, K, G, I] {
	if t.head == t.slots.Len() {
		t.grow()
	}
	s := t.slots.Get(t.head)
	return VacantSlot[V, K, G, I]{
		t:     t,
		s:     s,
		gen:   s.gen,
		index: t.head,
		next:  int(s.next),
	}
}

// Index returns the slot index that will be filled.
func (vs VacantSlot[V, K, G, I]) Index() int { return vs.index }

// Key returns the key the slot will have once it is filled.
func (vs VacantSlot[V, K, G, I]) Key() K { return vs.t.mint(vs.index, vs.gen.Fill()) }

// Insert fills the slot with v. It panics if the slot was filled or emptied
// since it was reserved.
func (vs VacantSlot[V, K, G, I]) Insert(v V) {
	if vs.t.head != vs.index || vs.s.gen != vs.gen || int(vs.s.next) != vs.next {
		panic("sparse: vacant slot used after the arena was modified")
	}
	vs.s.val = v
	vs.s.gen = vs.gen.Fill()
	vs.t.head = vs.next
}
