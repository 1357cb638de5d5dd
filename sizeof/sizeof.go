package sizeof

import "unsafe"

func Of[T any]() uint64 {
	return uint64(unsafe.Sizeof(*new(T)))
}

func Slice[T any](v []T) uint64 {
	return 24 + Of[T]()*uint64(cap(v))
}
