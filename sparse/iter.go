package sparse

import (
	"iter"

	"github.com/histdb/genarena/gen"
	"github.com/histdb/genarena/key"
	"github.com/histdb/genarena/num"
)

// Iter walks the filled slots of an arena from both ends. Iteration costs
// time proportional to the number of slots, not the number of values.
type Iter[V any, K key.Index[K, G], G gen.Generation[G], I num.T] struct {
	t     *T[V, K, G, I]
	front int
	back  int
	key   K
	val   *V
}

// Iter returns an iterator over the arena's slots as they are now.
func (t *T[V, K, G, I]) Iter() Iter[V, K, G, I] {
	return Iter[V, K, G, I]{t: t, back: t.slots.Len()}
}

// Next advances to the next filled slot from the front.
func (it *Iter[V, K, G, I]) Next() bool {
	for it.front < it.back {
		i := it.front
		it.front++
		if it.load(i) {
			return true
		}
	}
	return false
}

// NextBack advances to the next filled slot from the back.
func (it *Iter[V, K, G, I]) NextBack() bool {
	for it.front < it.back {
		it.back--
		if it.load(it.back) {
			return true
		}
	}
	return false
}

func (it *Iter[V, K, G, I]) load(i int) bool {
	s := it.t.slots.Get(i)
	if s.gen.IsEmpty() {
		return false
	}
	it.key, it.val = it.t.mint(i, s.gen), &s.val
	return true
}

func (it *Iter[V, K, G, I]) Key() K    { return it.key }
func (it *Iter[V, K, G, I]) Value() *V { return it.val }

// All yields the key and a pointer to the value of every filled slot in slot
// order.
func (t *T[V, K, G, I]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for it := t.Iter(); it.Next(); {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Backward is like All in reverse slot order.
func (t *T[V, K, G, I]) Backward() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for it := t.Iter(); it.NextBack(); {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Keys yields the key of every filled slot in slot order.
func (t *T[V, K, G, I]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for it := t.Iter(); it.Next(); {
			if !yield(it.Key()) {
				return
			}
		}
	}
}

// Values yields a pointer to the value of every filled slot in slot order.
func (t *T[V, K, G, I]) Values() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		for _, s := range t.slots.All() {
			if s.gen.IsFilled() && !yield(&s.val) {
				return
			}
		}
	}
}
