package gen

import (
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"
)

// checkGeneration walks a generation through fill/empty cycles and checks
// the transitions agree with each other at every step.
func checkGeneration[G Generation[G]](t *testing.T, cycles int) {
	t.Helper()

	var g G
	assert.That(t, Empty[G]().IsEmpty())

	var prev []G
	for i := 0; i < cycles; i++ {
		assert.That(t, g.IsEmpty() != g.IsFilled())
		assert.That(t, g.IsEmpty())

		g = g.Fill()
		assert.That(t, g.IsFilled())

		f := g.ToFilled()
		assert.That(t, g.Matches(f))
		for _, p := range prev {
			assert.That(t, !g.Matches(p))
		}
		prev = append(prev, f)

		next, err := g.TryEmpty()
		if err != nil {
			assert.Equal(t, err, ErrExhausted)
			return
		}
		assert.That(t, next.IsEmpty())
		assert.That(t, !next.Matches(f))
		g = next
	}
}

func TestGeneration(t *testing.T) {
	t.Run("G8", func(t *testing.T) { checkGeneration[G8](t, 64) })
	t.Run("G16", func(t *testing.T) { checkGeneration[G16](t, 64) })
	t.Run("G32", func(t *testing.T) { checkGeneration[G32](t, 64) })
	t.Run("G64", func(t *testing.T) { checkGeneration[G64](t, 64) })
	t.Run("G128", func(t *testing.T) { checkGeneration[G128](t, 64) })
	t.Run("GSize", func(t *testing.T) { checkGeneration[GSize](t, 64) })
	t.Run("GW8", func(t *testing.T) { checkGeneration[GW8](t, 64) })
	t.Run("GW16", func(t *testing.T) { checkGeneration[GW16](t, 64) })
	t.Run("GW32", func(t *testing.T) { checkGeneration[GW32](t, 64) })
	t.Run("GW64", func(t *testing.T) { checkGeneration[GW64](t, 64) })
	t.Run("GW128", func(t *testing.T) { checkGeneration[GW128](t, 64) })
	t.Run("GWSize", func(t *testing.T) { checkGeneration[GWSize](t, 64) })
}

func TestSaturatingExhaustion(t *testing.T) {
	var g G8
	fills := 0
	for {
		g = g.Fill()
		fills++
		next, err := g.TryEmpty()
		if err != nil {
			assert.Equal(t, err, ErrExhausted)
			assert.That(t, next.IsEmpty())
			assert.Equal(t, next, G8{})
			break
		}
		g = next
	}
	assert.Equal(t, fills, 128)
	assert.Equal(t, g.String(), "255")
}

func TestWrappingWrapsAround(t *testing.T) {
	var g GW8
	first := g.Fill().ToFilled()
	for i := 0; i < 128; i++ {
		g = g.Fill()
		next, err := g.TryEmpty()
		assert.NoError(t, err)
		g = next
	}
	assert.Equal(t, g, GW8{})
	assert.That(t, g.Fill().Matches(first))
}

func TestWide(t *testing.T) {
	t.Run("Carry", func(t *testing.T) {
		g := G128{lo: ^uint64(0)}
		next, err := g.TryEmpty()
		assert.NoError(t, err)
		assert.Equal(t, next, G128{hi: 1})
		assert.That(t, next.IsEmpty())
		assert.Equal(t, next.Fill().String(), "0x10000000000000001")
	})

	t.Run("Exhausted", func(t *testing.T) {
		g := G128{hi: ^uint64(0), lo: ^uint64(0)}
		_, err := g.TryEmpty()
		assert.Equal(t, err, ErrExhausted)

		w := GW128{hi: ^uint64(0), lo: ^uint64(0)}
		next, err := w.TryEmpty()
		assert.NoError(t, err)
		assert.Equal(t, next, GW128{})
	})
}

func TestNone(t *testing.T) {
	var g None
	assert.That(t, g.IsEmpty())
	assert.That(t, !g.Matches(None{}))

	g = g.Fill()
	f := g.ToFilled()
	assert.That(t, g.Matches(f))

	g, err := g.TryEmpty()
	assert.NoError(t, err)
	assert.That(t, !g.Matches(f))

	// a refilled slot is indistinguishable from its previous occupant
	g = g.Fill()
	assert.That(t, g.Matches(f))
	assert.Equal(t, g.Mismatch(f, 3), "tried to access an empty slot at index 3, which is illegal")
}

func TestZeroSnapshotNeverMatches(t *testing.T) {
	assert.That(t, !G32{}.Matches(G32{}))
	assert.That(t, !GW32{}.Matches(GW32{}))
	assert.That(t, !G128{}.Matches(G128{}))
}

func TestCompare(t *testing.T) {
	rng := mwc.Rand()
	for range 1000 {
		a, b := G64{n: rng.Uint64()}, G64{n: rng.Uint64()}
		switch c := Compare(a, b); {
		case a.n < b.n:
			assert.Equal(t, c, -1)
		case a.n > b.n:
			assert.Equal(t, c, 1)
		default:
			assert.Equal(t, c, 0)
		}
	}
	assert.Equal(t, Compare(G128{hi: 1}, G128{lo: 5}), 1)
}

func TestMismatchMessage(t *testing.T) {
	live := G32{}.Fill()
	live, _ = live.TryEmpty()
	live = live.Fill()
	assert.Equal(t, live.Mismatch(G32{n: 1}, 7),
		"tried to access arena with an expired key at index 7 with generation: 1, but expected generation: 3")
}
