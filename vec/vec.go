// Package vec provides a growable array whose elements never move.
//
// Storage is split into segments where segment k holds lBase<<k elements, so
// growing never copies elements and pointers returned by Get stay valid for
// the life of the array.
package vec

import (
	"fmt"
	"iter"
	"math/bits"

	"github.com/histdb/genarena/sizeof"
)

const lBase = 8

type T[V any] struct {
	_ [0]func() // no equality

	s [][]V
	n int
}

func (t *T[V]) Len() int { return t.n }

// Cap returns the number of elements the array can hold before allocating.
func (t *T[V]) Cap() int { return lBase * (1<<len(t.s) - 1) }

func (t *T[V]) Size() uint64 {
	return 0 +
		/* s */ sizeof.Slice(t.s) + uint64(t.Cap())*sizeof.Of[V]() +
		/* n */ 8 +
		0
}

func locate(i int) (seg, off int) {
	seg = bits.Len(uint(i)/lBase+1) - 1
	return seg, i - lBase*(1<<seg-1)
}

// Get returns a pointer to the element at index i.
func (t *T[V]) Get(i int) *V {
	if uint(i) >= uint(t.n) {
		panic(fmt.Sprintf("vec: index %d out of range [0:%d]", i, t.n))
	}
	seg, off := locate(i)
	return &t.s[seg][off]
}

// Push appends v and returns its index.
func (t *T[V]) Push(v V) int {
	i := t.n
	seg, off := locate(i)
	if seg == len(t.s) {
		t.realloc()
	}
	t.s[seg][off] = v
	t.n++
	return i
}

//go:noinline
func (t *T[V]) realloc() {
	t.s = append(t.s, make([]V, lBase<<len(t.s)))
}

// All yields every index and element pointer in order.
func (t *T[V]) All() iter.Seq2[int, *V] {
	return func(yield func(int, *V) bool) {
		i := 0
		for _, seg := range t.s {
			for j := range seg {
				if i >= t.n || !yield(i, &seg[j]) {
					return
				}
				i++
			}
		}
	}
}

// Backward yields every index and element pointer in reverse order.
func (t *T[V]) Backward() iter.Seq2[int, *V] {
	return func(yield func(int, *V) bool) {
		for i := t.n - 1; i >= 0; i-- {
			if !yield(i, t.Get(i)) {
				return
			}
		}
	}
}
