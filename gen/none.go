package gen

import "fmt"

// None only tracks whether a slot is filled. It gives no protection against
// a stale key observing a later occupant of the same slot.
type None struct{ filled bool }

func (None) Fill() None                 { return None{true} }
func (None) TryEmpty() (None, error)    { return None{}, nil }
func (g None) ToFilled() None           { return g }
func (g None) Matches(filled None) bool { return g.filled }
func (g None) IsEmpty() bool            { return !g.filled }
func (g None) IsFilled() bool           { return g.filled }

func (g None) Bits() (hi, lo uint64) {
	if g.filled {
		return 0, 1
	}
	return 0, 0
}

func (g None) String() string {
	if g.filled {
		return "filled"
	}
	return "empty"
}

func (None) Mismatch(filled None, index int) string {
	return fmt.Sprintf("tried to access an empty slot at index %d, which is illegal", index)
}
