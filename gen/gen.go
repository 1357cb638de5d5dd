// Package gen provides the generation counters that arenas stamp into their
// slots and copy into keys.
//
// A generation tracks two things about a slot: whether it currently holds a
// value, and how many times it has been filled. The life of a slot is:
//
//   - every slot starts with the zero generation, which is empty
//   - filling a slot replaces its generation with Fill()
//   - emptying a slot replaces its generation with TryEmpty(). If TryEmpty
//     fails the generation is exhausted: the slot is reset to the zero
//     generation and must never be filled again
//   - a key stores ToFilled() of the slot's generation at insertion time, and
//     later accesses compare it to the live generation with Matches
//
// The integer policies store filled generations as odd numbers and empty
// generations as even numbers, so Fill sets the low bit and TryEmpty adds one.
package gen

import (
	"cmp"

	"github.com/zeebo/errs/v2"
)

// ErrExhausted is returned by TryEmpty on a saturating generation that has
// run out of values.
var ErrExhausted = errs.Errorf("generation exhausted")

// Generation is the contract every generation policy implements. The zero
// value of G must be empty.
type Generation[G any] interface {
	comparable
	String() string

	// Fill returns the next generation. The receiver must be empty.
	Fill() G

	// TryEmpty returns the next generation, or ErrExhausted if the policy has
	// run out of values. The receiver must be filled.
	TryEmpty() (G, error)

	// ToFilled returns the snapshot of a filled generation that keys store.
	// The receiver must be filled.
	ToFilled() G

	// Matches reports whether the receiver is filled with exactly the
	// snapshot filled.
	Matches(filled G) bool

	// Mismatch describes a failed Matches for the slot at index.
	Mismatch(filled G, index int) string

	IsEmpty() bool
	IsFilled() bool

	// Bits returns the raw counter.
	Bits() (hi, lo uint64)
}

// Empty returns the empty generation of G.
func Empty[G Generation[G]]() (g G) { return g }

// Compare orders two generations by their raw counters.
func Compare[G Generation[G]](a, b G) int {
	ah, al := a.Bits()
	bh, bl := b.Bits()
	if c := cmp.Compare(ah, bh); c != 0 {
		return c
	}
	return cmp.Compare(al, bl)
}
