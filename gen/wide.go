package gen

import (
	"fmt"
	"math/bits"
	"strconv"
)

// G128 is a 128-bit saturating generation.
type G128 struct{ hi, lo uint64 }

func (g G128) Fill() G128               { return G128{g.hi, g.lo | 1} }
func (g G128) ToFilled() G128           { return g }
func (g G128) IsEmpty() bool            { return g.lo&1 == 0 }
func (g G128) IsFilled() bool           { return g.lo&1 == 1 }
func (g G128) Bits() (hi, lo uint64)    { return g.hi, g.lo }
func (g G128) String() string           { return format128(g.hi, g.lo) }
func (g G128) Matches(filled G128) bool { return g.lo&1 == 1 && g == filled }

func (g G128) TryEmpty() (G128, error) {
	lo, c := bits.Add64(g.lo, 1, 0)
	hi, c := bits.Add64(g.hi, 0, c)
	if c != 0 {
		return G128{}, ErrExhausted
	}
	return G128{hi, lo}, nil
}

func (g G128) Mismatch(filled G128, index int) string {
	return mismatch(filled, g, index)
}

// GW128 is a 128-bit wrapping generation.
type GW128 struct{ hi, lo uint64 }

func (g GW128) Fill() GW128               { return GW128{g.hi, g.lo | 1} }
func (g GW128) ToFilled() GW128           { return g }
func (g GW128) IsEmpty() bool             { return g.lo&1 == 0 }
func (g GW128) IsFilled() bool            { return g.lo&1 == 1 }
func (g GW128) Bits() (hi, lo uint64)     { return g.hi, g.lo }
func (g GW128) String() string            { return format128(g.hi, g.lo) }
func (g GW128) Matches(filled GW128) bool { return g.lo&1 == 1 && g == filled }

func (g GW128) TryEmpty() (GW128, error) {
	lo, c := bits.Add64(g.lo, 1, 0)
	hi, _ := bits.Add64(g.hi, 0, c)
	return GW128{hi, lo}, nil
}

func (g GW128) Mismatch(filled GW128, index int) string {
	return mismatch(filled, g, index)
}

func format128(hi, lo uint64) string {
	if hi == 0 {
		return strconv.FormatUint(lo, 10)
	}
	return fmt.Sprintf("0x%x%016x", hi, lo)
}
