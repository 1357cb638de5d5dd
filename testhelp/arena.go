package testhelp

import (
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"
)

// Arena is the surface shared by the sparse and dense arenas that the
// differential driver exercises.
type Arena[K comparable] interface {
	Insert(v uint64) K
	Get(k K) (uint64, bool)
	GetPtr(k K) *uint64
	Index(k K) uint64
	IndexPtr(k K) *uint64
	Remove(k K) uint64
	TryRemove(k K) (uint64, bool)
	Check() error
}

// Model mirrors the contents an arena should have.
type Model[K comparable] struct {
	Live map[K]uint64
	Dead []K

	keys []K
	pos  map[K]int
}

func (m *Model[K]) add(k K, v uint64) {
	m.Live[k] = v
	m.pos[k] = len(m.keys)
	m.keys = append(m.keys, k)
}

func (m *Model[K]) del(k K) {
	i, last := m.pos[k], len(m.keys)-1
	m.keys[i] = m.keys[last]
	m.pos[m.keys[i]] = i
	m.keys = m.keys[:last]
	delete(m.pos, k)
	delete(m.Live, k)
	m.Dead = append(m.Dead, k)
}

// Differential runs steps random operations against a and a map, checking
// that they always agree and that removed keys never resolve again. The
// returned model describes what a should contain afterwards.
func Differential[K comparable](tb testing.TB, a Arena[K], steps int) *Model[K] {
	tb.Helper()

	seed := mwc.Rand().Uint64()
	defer func() {
		if tb.Failed() {
			tb.Logf("seed: %d", seed)
		}
	}()

	rng := mwc.New(seed, 1)
	m := &Model[K]{
		Live: make(map[K]uint64),
		pos:  make(map[K]int),
	}

	choose := func(ks []K) K { return ks[rng.Uint64n(uint64(len(ks)))] }

	for range steps {
		switch op := rng.Uint32n(5); {
		case op == 0:
			v := rng.Uint64()
			k := a.Insert(v)
			_, exists := m.Live[k]
			assert.That(tb, !exists)
			m.add(k, v)

		case op == 1 && len(m.keys) > 0:
			k := choose(m.keys)
			got, ok := a.Get(k)
			assert.That(tb, ok)
			assert.Equal(tb, got, m.Live[k])
			assert.Equal(tb, a.Index(k), m.Live[k])

		case op == 2 && len(m.keys) > 0:
			k := choose(m.keys)
			v := rng.Uint64()
			assert.Equal(tb, *a.GetPtr(k), m.Live[k])
			*a.IndexPtr(k) = v
			m.Live[k] = v

		case op == 3 && len(m.keys) > 0:
			k := choose(m.keys)
			assert.Equal(tb, a.Remove(k), m.Live[k])
			m.del(k)

		case op == 4 && len(m.Dead) > 0:
			k := choose(m.Dead)
			_, ok := a.Get(k)
			assert.That(tb, !ok)
			assert.That(tb, a.GetPtr(k) == nil)
			_, ok = a.TryRemove(k)
			assert.That(tb, !ok)
		}
	}

	assert.NoError(tb, a.Check())

	for _, k := range m.Dead {
		_, ok := a.Get(k)
		assert.That(tb, !ok)
		_, ok = a.TryRemove(k)
		assert.That(tb, !ok)
	}
	for k, v := range m.Live {
		got, ok := a.Get(k)
		assert.That(tb, ok)
		assert.Equal(tb, got, v)
	}

	return m
}

// Panics calls fn and returns the value it panicked with, failing the test
// if it did not panic.
func Panics(tb testing.TB, fn func()) (v any) {
	tb.Helper()

	defer func() {
		v = recover()
		if v == nil {
			tb.Fatal("expected panic")
		}
	}()
	fn()
	return nil
}
