package sparse

import (
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/zeebo/errs/v2"

	"github.com/histdb/genarena/gen"
	"github.com/histdb/genarena/key"
	"github.com/histdb/genarena/sizeof"
)

const maxCheckErrors = 16

func (t *T[V, K, G, I]) retire(i int) {
	if t.retired == nil {
		t.retired = roaring64.New()
	}
	t.retired.Add(uint64(i))
}

// Retired returns the number of slots whose generation was exhausted. Retired
// slots are never reused.
func (t *T[V, K, G, I]) Retired() uint64 {
	if t.retired == nil {
		return 0
	}
	return t.retired.GetCardinality()
}

// IsRetired reports whether slot i has been retired.
func (t *T[V, K, G, I]) IsRetired(i int) bool {
	return i >= 0 && t.retired != nil && t.retired.Contains(uint64(i))
}

// RetiredSlots returns the indexes of the retired slots in increasing order.
func (t *T[V, K, G, I]) RetiredSlots() []uint64 {
	if t.retired == nil {
		return nil
	}
	return t.retired.ToArray()
}

func (t *T[V, K, G, I]) Size() uint64 {
	var retired uint64
	if t.retired != nil {
		retired = t.retired.GetSizeInBytes()
	}
	return 0 +
		/* head    */ 8 +
		/* slots   */ t.slots.Size() +
		/* owner   */ sizeof.Of[key.Owner]() +
		/* retired */ 8 + retired +
		0
}

// Check verifies the free list. It returns an error describing every broken
// invariant found, up to a limit.
func (t *T[V, K, G, I]) Check() error {
	var found []error
	fail := func(format string, args ...any) bool {
		found = append(found, errs.Errorf(format, args...))
		return len(found) < maxCheckErrors
	}

	n := t.slots.Len()
	free := roaring64.New()

	for i := t.head; i != n; {
		switch {
		case i < 0 || i > n:
			fail("free list link %d is out of range [0:%d]", i, n)
			return errs.Combine(found...)
		case free.Contains(uint64(i)):
			fail("free list has a cycle at slot %d", i)
			return errs.Combine(found...)
		}

		s := t.slots.Get(i)
		if s.gen.IsFilled() {
			fail("free list includes filled slot %d", i)
			return errs.Combine(found...)
		}
		if t.IsRetired(i) {
			fail("free list includes retired slot %d", i)
		}

		free.Add(uint64(i))
		i = int(s.next)
	}

	for i, s := range t.slots.All() {
		retired := t.IsRetired(i)
		switch {
		case retired && s.gen.IsFilled():
			if !fail("retired slot %d is filled", i) {
				return errs.Combine(found...)
			}
		case retired && s.gen != gen.Empty[G]():
			if !fail("retired slot %d has generation %s", i, s.gen) {
				return errs.Combine(found...)
			}
		case s.gen.IsEmpty() && !retired && !free.Contains(uint64(i)):
			if !fail("empty slot %d is not on the free list", i) {
				return errs.Combine(found...)
			}
		}
	}

	return errs.Combine(found...)
}

// Dump writes a description of every slot to w.
func (t *T[V, K, G, I]) Dump(w io.Writer) {
	fmt.Fprintf(w, "head:%d slots:%d retired:%d\n", t.head, t.slots.Len(), t.Retired())
	for i, s := range t.slots.All() {
		switch {
		case s.gen.IsFilled():
			fmt.Fprintf(w, "%6d gen:%-6s value:%v\n", i, s.gen, s.val)
		case t.IsRetired(i):
			fmt.Fprintf(w, "%6d retired\n", i)
		default:
			fmt.Fprintf(w, "%6d gen:%-6s next:%d\n", i, s.gen, s.next)
		}
	}
}
