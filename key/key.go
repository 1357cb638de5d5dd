// Package key defines the handles arenas hand out and the contract arenas
// use to check them.
package key

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/zeebo/xxh3"

	"github.com/histdb/genarena/gen"
)

// Owner witnesses that keys were minted by one particular arena. The zero
// Owner is shared by every arena that was never given one.
type Owner struct{ id uint64 }

var owners atomic.Uint64

// NewOwner returns an Owner distinct from every other Owner in the process.
// At most one arena may be created with it.
func NewOwner() Owner { return Owner{id: owners.Add(1)} }

func (o Owner) String() string { return fmt.Sprintf("owner(%d)", o.id) }

// Index is the contract between an arena and the handles used to access it.
// Arenas only ever call Mint on the zero value of K.
type Index[K any, G gen.Generation[G]] interface {
	comparable

	// Slot returns the raw slot index.
	Slot() int

	// Mint returns a handle for the filled slot at index slot.
	Mint(slot int, owner Owner, g G) K

	// Matches reports whether the handle may access a slot with generation g
	// in an arena owned by owner.
	Matches(owner Owner, g G) bool

	// Mismatch describes why Matches failed.
	Mismatch(owner Owner, g G) string
}

// Key is a slot index paired with the generation the slot had when the key
// was minted. It stops matching once the slot is emptied.
type Key[G gen.Generation[G]] struct {
	index int
	gen   G
}

// New builds a key from its parts.
func New[G gen.Generation[G]](index int, g G) Key[G] { return Key[G]{index: index, gen: g} }

func (k Key[G]) Slot() int                          { return k.index }
func (k Key[G]) Generation() G                      { return k.gen }
func (k Key[G]) Mint(slot int, _ Owner, g G) Key[G] { return Key[G]{index: slot, gen: g} }
func (k Key[G]) Matches(_ Owner, g G) bool          { return g.Matches(k.gen) }

func (k Key[G]) Mismatch(_ Owner, g G) string { return g.Mismatch(k.gen, k.index) }

func (k Key[G]) String() string { return fmt.Sprintf("%d@%s", k.index, k.gen) }

// Compare orders keys by slot index and then by generation.
func (k Key[G]) Compare(o Key[G]) int {
	if c := cmp.Compare(k.index, o.index); c != 0 {
		return c
	}
	return gen.Compare(k.gen, o.gen)
}

// Digest returns a hash of the key. Keys whose index and generation both fit
// in 32 bits are packed directly.
func (k Key[G]) Digest() uint64 {
	hi, lo := k.gen.Bits()
	if uint64(k.index)>>32 == 0 && hi == 0 && lo>>32 == 0 {
		return uint64(k.index)<<32 | lo
	}
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(k.index))
	binary.LittleEndian.PutUint64(buf[8:16], hi)
	binary.LittleEndian.PutUint64(buf[16:24], lo)
	return xxh3.Hash(buf[:])
}

// Int is a plain slot index. It only checks that the slot is filled, so it
// can observe a later occupant of the slot it was minted for.
type Int[G gen.Generation[G]] int

func (i Int[G]) Slot() int                          { return int(i) }
func (i Int[G]) Mint(slot int, _ Owner, _ G) Int[G] { return Int[G](slot) }
func (i Int[G]) Matches(_ Owner, g G) bool          { return g.IsFilled() }
func (i Int[G]) Mismatch(_ Owner, _ G) string       { return EmptySlot(int(i)) }

// Owned is a slot index that can only be used with the arena owning the
// Owner it was minted with.
type Owned[G gen.Generation[G]] struct {
	index int
	owner Owner
}

func (o Owned[G]) Slot() int      { return o.index }
func (o Owned[G]) Owner() Owner   { return o.owner }
func (o Owned[G]) String() string { return fmt.Sprintf("%d@%s", o.index, o.owner) }

func (o Owned[G]) Mint(slot int, owner Owner, _ G) Owned[G] {
	return Owned[G]{index: slot, owner: owner}
}

func (o Owned[G]) Matches(owner Owner, g G) bool {
	return o.owner == owner && g.IsFilled()
}

func (o Owned[G]) Mismatch(owner Owner, _ G) string {
	if o.owner != owner {
		return fmt.Sprintf("tried to access arena with a key from a different owner at index %d", o.index)
	}
	return EmptySlot(o.index)
}

// EmptySlot is the message for accessing a slot that holds no value.
func EmptySlot(index int) string {
	return fmt.Sprintf("tried to access empty slot at index: %d", index)
}

// OutOfBounds is the message for accessing a slot past the end of an arena.
func OutOfBounds(index, n int) string {
	return fmt.Sprintf("tried to access out of bounds slot at index: %d (len %d)", index, n)
}
