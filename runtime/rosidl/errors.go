package rosidl

import (
	"errors"
	"fmt"
)

var (
	// ErrArrayLength is returned when a fixed-size array is assigned a slice
	// of a different length.
	ErrArrayLength = errors.New("rosidl: array length mismatch")
	// ErrBoundExceeded is returned when a bounded string or sequence is longer
	// than its bound.
	ErrBoundExceeded = errors.New("rosidl: bound exceeded")
	// ErrAllocation is returned when an allocator cannot provide a buffer.
	ErrAllocation = errors.New("rosidl: allocation failed")
)

// CheckBound reports ErrBoundExceeded when n exceeds bound.
func CheckBound(field string, n, bound int) error {
	if n > bound {
		return fmt.Errorf("%w: %s has length %d, bound is %d", ErrBoundExceeded, field, n, bound)
	}
	return nil
}

// CopyFixed copies src into the fixed array behind dst. The lengths must match
// exactly; nothing is padded or truncated.
func CopyFixed[T any](dst, src []T) error {
	if len(src) != len(dst) {
		return fmt.Errorf("%w: got %d elements, want %d", ErrArrayLength, len(src), len(dst))
	}
	copy(dst, src)
	return nil
}
