package gen

import (
	"fmt"
	"strconv"

	"github.com/histdb/genarena/num"
)

type (
	G8    = Saturating[uint8]
	G16   = Saturating[uint16]
	G32   = Saturating[uint32]
	G64   = Saturating[uint64]
	GSize = Saturating[uint]

	GW8    = Wrapping[uint8]
	GW16   = Wrapping[uint16]
	GW32   = Wrapping[uint32]
	GW64   = Wrapping[uint64]
	GWSize = Wrapping[uint]
)

// Default is the generation arenas use unless told otherwise.
type Default = GSize

// Saturating is a generation that refuses to empty once its counter would
// overflow, retiring the slot instead of risking a collision.
type Saturating[U num.T] struct{ n U }

func (g Saturating[U]) Fill() Saturating[U]     { return Saturating[U]{g.n | 1} }
func (g Saturating[U]) ToFilled() Saturating[U] { return g }
func (g Saturating[U]) IsEmpty() bool           { return g.n&1 == 0 }
func (g Saturating[U]) IsFilled() bool          { return g.n&1 == 1 }
func (g Saturating[U]) Bits() (hi, lo uint64)   { return 0, uint64(g.n) }
func (g Saturating[U]) String() string          { return strconv.FormatUint(uint64(g.n), 10) }

func (g Saturating[U]) TryEmpty() (Saturating[U], error) {
	if n := g.n + 1; n != 0 {
		return Saturating[U]{n}, nil
	}
	return Saturating[U]{}, ErrExhausted
}

func (g Saturating[U]) Matches(filled Saturating[U]) bool {
	return g.n&1 == 1 && g.n == filled.n
}

func (g Saturating[U]) Mismatch(filled Saturating[U], index int) string {
	return mismatch(filled, g, index)
}

// Wrapping is a generation that wraps around on overflow. A stale key can
// alias a new value after 2^(bits-1) refills of the same slot.
type Wrapping[U num.T] struct{ n U }

func (g Wrapping[U]) Fill() Wrapping[U]     { return Wrapping[U]{g.n | 1} }
func (g Wrapping[U]) ToFilled() Wrapping[U] { return g }
func (g Wrapping[U]) IsEmpty() bool         { return g.n&1 == 0 }
func (g Wrapping[U]) IsFilled() bool        { return g.n&1 == 1 }
func (g Wrapping[U]) Bits() (hi, lo uint64) { return 0, uint64(g.n) }
func (g Wrapping[U]) String() string        { return strconv.FormatUint(uint64(g.n), 10) }

func (g Wrapping[U]) TryEmpty() (Wrapping[U], error) {
	return Wrapping[U]{g.n + 1}, nil
}

func (g Wrapping[U]) Matches(filled Wrapping[U]) bool {
	return g.n&1 == 1 && g.n == filled.n
}

func (g Wrapping[U]) Mismatch(filled Wrapping[U], index int) string {
	return mismatch(filled, g, index)
}

func mismatch(filled, live fmt.Stringer, index int) string {
	return fmt.Sprintf(
		"tried to access arena with an expired key at index %d with generation: %s, but expected generation: %s",
		index, filled, live)
}
