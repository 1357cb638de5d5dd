// Package tracker maps keys to positions in a packed array that the caller
// owns.
//
// Every time a VacantSlot is inserted, the caller must append an element to
// its array(s). Every time a key is removed, the caller must swap-remove the
// element at the returned position. If both are done, every position the
// tracker returns is a valid index into the array(s).
//
// Internally, a sparse arena maps each key to its position and a reverse
// array maps each position back to the slot of its key:
//
//	index: [ {g1, pos 1}, {g2, next: 3}, {g3, pos 0} ]
//	keys:  [ 2, 0 ]
//
// Removing position p moves the last entry of keys into p and points the
// moved key's slot at p.
package tracker

import (
	"fmt"
	"io"

	"github.com/zeebo/errs/v2"

	"github.com/histdb/genarena/gen"
	"github.com/histdb/genarena/key"
	"github.com/histdb/genarena/num"
	"github.com/histdb/genarena/sizeof"
	"github.com/histdb/genarena/sparse"
)

type T[K key.Index[K, G], G gen.Generation[G], I num.T] struct {
	_ [0]func() // no equality

	keys  []I
	index sparse.T[I, K, G, I]
}

// VacantSlot is a reserved key whose position is the current length.
type VacantSlot[K key.Index[K, G], G gen.Generation[G], I num.T] struct {
	t  *T[K, G, I]
	vs sparse.VacantSlot[I, K, G, I]
}

// VacantSlot reserves a key. n must be the length of the associated array.
func (t *T[K, G, I]) VacantSlot(n int) VacantSlot[K, G, I] {
	if n != len(t.keys) {
		panic(fmt.Sprintf("tracker: vacant slot for length %d but tracking %d", n, len(t.keys)))
	}
	return VacantSlot[K, G, I]{t: t, vs: t.index.VacantSlot()}
}

// Key returns the key the slot will have once it is inserted.
func (vs VacantSlot[K, G, I]) Key() K { return vs.vs.Key() }

// Position returns the position in the associated array the key will map to.
func (vs VacantSlot[K, G, I]) Position() int { return len(vs.t.keys) }

// Insert commits the slot. The caller must append the element at Position
// alongside it.
func (vs VacantSlot[K, G, I]) Insert() {
	pos := len(vs.t.keys)
	vs.vs.Insert(num.FromUnchecked[I](pos))
	vs.t.keys = append(vs.t.keys, num.FromUnchecked[I](vs.vs.Index()))
}

func (t *T[K, G, I]) SetOwner(o key.Owner) { t.index.SetOwner(o) }
func (t *T[K, G, I]) Owner() key.Owner     { return t.index.Owner() }

func (t *T[K, G, I]) Len() int      { return len(t.keys) }
func (t *T[K, G, I]) IsEmpty() bool { return len(t.keys) == 0 }

// Retired returns the number of slots whose generation was exhausted.
func (t *T[K, G, I]) Retired() uint64 { return t.index.Retired() }

// Get returns the position k maps to, and false if k is invalid.
func (t *T[K, G, I]) Get(k K) (int, bool) {
	p, ok := t.index.Get(k)
	return int(p), ok
}

// At is like Get but panics if k is invalid.
func (t *T[K, G, I]) At(k K) int { return int(t.index.Index(k)) }

// GetUnchecked returns the position k maps to. The caller must know that Get
// would succeed.
func (t *T[K, G, I]) GetUnchecked(k K) int { return int(t.index.GetUnchecked(k)) }

// TryKeyOf returns the key stored in slot i of the index. i is not a
// position.
func (t *T[K, G, I]) TryKeyOf(i int) (K, bool) { return t.index.TryKeyOf(i) }

// KeyOf is like TryKeyOf but panics if slot i is out of bounds or empty.
func (t *T[K, G, I]) KeyOf(i int) K { return t.index.KeyOf(i) }

// KeyOfUnchecked is like KeyOf for a slot known to be filled.
func (t *T[K, G, I]) KeyOfUnchecked(i int) K { return t.index.KeyOfUnchecked(i) }

// KeyAt returns the key that maps to position p.
func (t *T[K, G, I]) KeyAt(p int) K { return t.index.KeyOfUnchecked(int(t.keys[p])) }

func (t *T[K, G, I]) removeAt(p I) int {
	pos, last := int(p), len(t.keys)-1
	t.keys[pos] = t.keys[last]
	t.keys = t.keys[:last]

	if pos < last {
		*t.index.ValueAt(int(t.keys[pos])) = p
	}

	return pos
}

// TryRemove removes k and returns the position the caller must swap-remove,
// and false if k is invalid.
func (t *T[K, G, I]) TryRemove(k K) (int, bool) {
	p, ok := t.index.TryRemove(k)
	if !ok {
		return 0, false
	}
	return t.removeAt(p), true
}

// Remove is like TryRemove but panics if k is invalid.
func (t *T[K, G, I]) Remove(k K) int { return t.removeAt(t.index.Remove(k)) }

// RemoveUnchecked is like Remove for a key known to be valid.
func (t *T[K, G, I]) RemoveUnchecked(k K) int { return t.removeAt(t.index.RemoveUnchecked(k)) }

func (t *T[K, G, I]) Size() uint64 {
	return 0 +
		/* keys  */ sizeof.Slice(t.keys) +
		/* index */ t.index.Size() +
		0
}

// Check verifies that keys and index are inverse to each other.
func (t *T[K, G, I]) Check() error {
	if err := t.index.Check(); err != nil {
		return err
	}

	filled := 0
	for range t.index.Values() {
		filled++
	}
	if filled != len(t.keys) {
		return errs.Errorf("tracking %d positions but %d keys", len(t.keys), filled)
	}

	for p, i := range t.keys {
		if _, ok := t.index.TryKeyOf(int(i)); !ok {
			return errs.Errorf("position %d maps to empty slot %d", p, i)
		}
		if got := int(*t.index.ValueAt(int(i))); got != p {
			return errs.Errorf("position %d maps to slot %d which maps to position %d", p, i, got)
		}
	}

	return nil
}

// Dump writes the reverse array followed by the index to w.
func (t *T[K, G, I]) Dump(w io.Writer) {
	fmt.Fprintf(w, "keys: %v\n", t.keys)
	t.index.Dump(w)
}
