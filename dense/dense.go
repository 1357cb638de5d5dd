// Package dense implements an arena that keeps its values packed in a slice.
//
// A tracker maps keys to positions in the slice. Removing a value moves the
// last value into its position, so iterating visits only live values, at the
// cost of one extra lookup per access. Pointers into the arena are valid until
// the next insert or remove.
package dense

import (
	"fmt"
	"io"
	"iter"

	"github.com/zeebo/errs/v2"

	"github.com/histdb/genarena/gen"
	"github.com/histdb/genarena/key"
	"github.com/histdb/genarena/num"
	"github.com/histdb/genarena/sizeof"
	"github.com/histdb/genarena/tracker"
)

// Arena is a dense arena with the default generation and key.
type Arena[V any] = T[V, key.Key[gen.Default], gen.Default, uint]

type T[V any, K key.Index[K, G], G gen.Generation[G], I num.T] struct {
	_ [0]func() // no equality

	values  []V
	tracker tracker.T[K, G, I]
}

// VacantSlot is a key reserved by T.VacantSlot.
type VacantSlot[V any, K key.Index[K, G], G gen.Generation[G], I num.T] struct {
	t  *T[V, K, G, I]
	vs tracker.VacantSlot[K, G, I]
}

// VacantSlot reserves a key. The arena must not be modified until Insert is
// called.
func (t *T[V, K, G, I]) VacantSlot() VacantSlot[V, K, G, I] {
	return VacantSlot[V, K, G, I]{t: t, vs: t.tracker.VacantSlot(len(t.values))}
}

func (vs VacantSlot[V, K, G, I]) Key() K { return vs.vs.Key() }

// Insert stores v under the reserved key.
func (vs VacantSlot[V, K, G, I]) Insert(v V) {
	vs.vs.Insert()
	vs.t.values = append(vs.t.values, v)
}

func (t *T[V, K, G, I]) SetOwner(o key.Owner) { t.tracker.SetOwner(o) }
func (t *T[V, K, G, I]) Owner() key.Owner     { return t.tracker.Owner() }

func (t *T[V, K, G, I]) Len() int      { return len(t.values) }
func (t *T[V, K, G, I]) IsEmpty() bool { return len(t.values) == 0 }

// Values returns the live values. Elements may be modified in place but the
// slice must not be resliced or appended to.
func (t *T[V, K, G, I]) Values() []V { return t.values }

// Tracker returns the key to position mapping.
func (t *T[V, K, G, I]) Tracker() *tracker.T[K, G, I] { return &t.tracker }

// KeyAt returns the key of the value at position p.
func (t *T[V, K, G, I]) KeyAt(p int) K { return t.tracker.KeyAt(p) }

// Insert stores v and returns its key.
func (t *T[V, K, G, I]) Insert(v V) K {
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
func (t *T[V, K, G, I]) TryInsertWith(fn func(K) (V, error)) (K, error) {
	vs := t.VacantSlot()
	k := vs.Key()
	v, err := fn(k)
	if err != nil {
		var zero K
		return zero, err
	}
	vs.Insert(v)
	return k, nil
}

func (t *T[V, K, G, I]) Get(k K) (v V, ok bool) {
	if p, ok := t.tracker.Get(k); ok {
		return t.values[p], true
	}
	return v, false
}

func (t *T[V, K, G, I]) GetPtr(k K) *V {
	if p, ok := t.tracker.Get(k); ok {
		return &t.values[p]
	}
	return nil
}

// Index is like Get but panics describing the mismatch if k is invalid.
func (t *T[V, K, G, I]) Index(k K) V { return t.values[t.tracker.At(k)] }

// IndexPtr is like GetPtr but panics describing the mismatch if k is invalid.
func (t *T[V, K, G, I]) IndexPtr(k K) *V { return &t.values[t.tracker.At(k)] }

// GetUnchecked returns the value for k without comparing generations.
func (t *T[V, K, G, I]) GetUnchecked(k K) V { return t.values[t.tracker.GetUnchecked(k)] }

// GetPtrUnchecked is the unchecked form of GetPtr.
func (t *T[V, K, G, I]) GetPtrUnchecked(k K) *V { return &t.values[t.tracker.GetUnchecked(k)] }

// swapRemove must run after the tracker has removed the key, so that the last
// value is the one the tracker moved into p.
func (t *T[V, K, G, I]) swapRemove(p int) V {
	v, last := t.values[p], len(t.values)-1
	t.values[p] = t.values[last]

	var zero V
	t.values[last] = zero
	t.values = t.values[:last]

	return v
}

func (t *T[V, K, G, I]) TryRemove(k K) (v V, ok bool) {
	p, ok := t.tracker.TryRemove(k)
	if !ok {
		return v, false
	}
	return t.swapRemove(p), true
}

func (t *T[V, K, G, I]) Remove(k K) V { return t.swapRemove(t.tracker.Remove(k)) }

func (t *T[V, K, G, I]) RemoveUnchecked(k K) V { return t.swapRemove(t.tracker.RemoveUnchecked(k)) }

// All yields the key and a pointer to every value in position order.
func (t *T[V, K, G, I]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for p := range t.values {
			if !yield(t.tracker.KeyAt(p), &t.values[p]) {
				return
			}
		}
	}
}

// Backward is like All in reverse position order.
func (t *T[V, K, G, I]) Backward() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for p := len(t.values) - 1; p >= 0; p-- {
			if !yield(t.tracker.KeyAt(p), &t.values[p]) {
				return
			}
		}
	}
}

func (t *T[V, K, G, I]) Keys() iter.Seq[K] { return t.tracker.Keys() }

func (t *T[V, K, G, I]) Size() uint64 {
	return 0 +
		/* values  */ sizeof.Slice(t.values) +
		/* tracker */ t.tracker.Size() +
		0
}

// Check verifies that the values and the tracker agree.
func (t *T[V, K, G, I]) Check() error {
	if n, m := len(t.values), t.tracker.Len(); n != m {
		return errs.Errorf("%d values but tracking %d keys", n, m)
	}
	return t.tracker.Check()
}

// Dump writes every position with its key and value to w.
func (t *T[V, K, G, I]) Dump(w io.Writer) {
	fmt.Fprintf(w, "len:%d retired:%d\n", len(t.values), t.tracker.Retired())
	for p, v := range t.values {
		fmt.Fprintf(w, "%6d key:%-12v value:%v\n", p, t.tracker.KeyAt(p), v)
	}
}
