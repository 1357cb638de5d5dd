package tracker

import (
	"iter"

	"github.com/histdb/genarena/gen"
	"github.com/histdb/genarena/key"
	"github.com/histdb/genarena/num"
)

// KeyIter walks the tracked keys in position order from both ends.
type KeyIter[K key.Index[K, G], G gen.Generation[G], I num.T] struct {
	t     *T[K, G, I]
	front int
	back  int
	key   K
}

func (t *T[K, G, I]) Iter() KeyIter[K, G, I] {
	return KeyIter[K, G, I]{t: t, back: len(t.keys)}
}

// Len returns the number of keys left to yield.
func (it *KeyIter[K, G, I]) Len() int { return it.back - it.front }

func (it *KeyIter[K, G, I]) Next() bool {
	if it.front >= it.back {
		return false
	}
	it.key = it.t.KeyAt(it.front)
	it.front++
	return true
}

func (it *KeyIter[K, G, I]) NextBack() bool {
	if it.front >= it.back {
		return false
	}
	it.back--
	it.key = it.t.KeyAt(it.back)
	return true
}

func (it *KeyIter[K, G, I]) Key() K { return it.key }

// Keys yields every key in position order.
func (t *T[K, G, I]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for p := range t.keys {
			if !yield(t.KeyAt(p)) {
				return
			}
		}
	}
}
