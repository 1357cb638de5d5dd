package num

const maxInt = int(^uint(0) >> 1)

// T is the set of integer types an arena may use to store slot links and
// dense positions. It is closed: only these exact types satisfy it.
type T interface {
	uint8 | uint16 | uint32 | uint64 | uint
}

// Max returns the largest value representable by I as an int.
func Max[I T]() int {
	var z I
	switch any(z).(type) {
	case uint8:
		return 1<<8 - 1
	case uint16:
		return 1<<16 - 1
	case uint32:
		return int(min(uint64(1<<32-1), uint64(maxInt)))
	default:
		return maxInt
	}
}

// Check panics if x does not fit in an I.
func Check[I T](x int) {
	if x < 0 || x > Max[I]() {
		panic("tried to create an arena with too many elements")
	}
}

// From converts x into an I, panicking if it does not fit.
func From[I T](x int) I {
	Check[I](x)
	return I(x)
}

// FromUnchecked converts x into an I. The caller must know that x fits.
func FromUnchecked[I T](x int) I { return I(x) }

// Int converts i back into an int.
func Int[I T](i I) int { return int(i) }
