package rosidl

import (
	"unsafe"

	"fortio.org/safecast"
)

// Sequence mirrors rosidl_runtime_c__<T>__Sequence.
type Sequence[T any] struct {
	Data     *T
	Size     uintptr
	Capacity uintptr
}

// Init releases the current buffer and allocates n zeroed elements.
func (s *Sequence[T]) Init(a Allocator, n int) error {
	s.Fini(a)
	if n <= 0 {
		return nil
	}
	size, err := safecast.Conv[uintptr](n)
	if err != nil {
		return err
	}
	buf, err := allocate[T](a, n)
	if err != nil {
		return err
	}
	s.Data = buf
	s.Size = size
	s.Capacity = size
	return nil
}

// Len returns the number of elements.
func (s *Sequence[T]) Len() int {
	n, err := safecast.Conv[int](s.Size)
	if err != nil {
		panic("rosidl: sequence size out of range")
	}
	return n
}

// Slice is a view of the elements; it is valid until the next Init or Fini.
func (s *Sequence[T]) Slice() []T {
	if s.Data == nil || s.Size == 0 {
		return nil
	}
	return unsafe.Slice(s.Data, s.Len())
}

// ToSlice returns a Go copy of the elements.
func (s *Sequence[T]) ToSlice() []T {
	v := s.Slice()
	if v == nil {
		return nil
	}
	out := make([]T, len(v))
	copy(out, v)
	return out
}

// Fini releases the buffer; elements that own memory must be finalized
// first (see FiniSequence). It is idempotent.
func (s *Sequence[T]) Fini(a Allocator) {
	if s.Data != nil {
		orDefault(a).Free(unsafe.Pointer(s.Data))
	}
	*s = Sequence[T]{}
}

// Clone copies the elements bitwise into a fresh buffer.
func (s *Sequence[T]) Clone(a Allocator) (Sequence[T], error) {
	return SequenceFrom(a, s.Slice())
}

// SequenceFrom copies src into a new sequence.
func SequenceFrom[T any](a Allocator, src []T) (Sequence[T], error) {
	var out Sequence[T]
	if err := out.Init(a, len(src)); err != nil {
		return out, err
	}
	copy(out.Slice(), src)
	return out, nil
}

// FiniSequence finalizes every element and then the buffer.
func FiniSequence[T any](s *Sequence[T], a Allocator, fini func(*T, Allocator)) {
	elems := s.Slice()
	for i := range elems {
		fini(&elems[i], a)
	}
	s.Fini(a)
}

// CloneSequence deep-copies a sequence of owning elements. On failure the
// elements cloned so far are finalized and the partial buffer is released.
func CloneSequence[T any](s *Sequence[T], a Allocator, clone func(*T, Allocator) (T, error), fini func(*T, Allocator)) (Sequence[T], error) {
	var out Sequence[T]
	src := s.Slice()
	if err := out.Init(a, len(src)); err != nil {
		return Sequence[T]{}, err
	}
	dst := out.Slice()
	for i := range src {
		v, err := clone(&src[i], a)
		if err != nil {
			for j := range i {
				fini(&dst[j], a)
			}
			out.Fini(a)
			return Sequence[T]{}, err
		}
		dst[i] = v
	}
	return out, nil
}

// ConvertSequence converts Go values into a new sequence of raw values,
// rolling back on failure like CloneSequence.
func ConvertSequence[S, T any](a Allocator, src []S, conv func(*S, Allocator) (T, error), fini func(*T, Allocator)) (Sequence[T], error) {
	var out Sequence[T]
	if err := out.Init(a, len(src)); err != nil {
		return Sequence[T]{}, err
	}
	dst := out.Slice()
	for i := range src {
		v, err := conv(&src[i], a)
		if err != nil {
			for j := range i {
				fini(&dst[j], a)
			}
			out.Fini(a)
			return Sequence[T]{}, err
		}
		dst[i] = v
	}
	return out, nil
}

// MapSequence converts raw elements into Go values.
func MapSequence[T, S any](s *Sequence[T], conv func(*T) S) []S {
	elems := s.Slice()
	if elems == nil {
		return nil
	}
	out := make([]S, len(elems))
	for i := range elems {
		out[i] = conv(&elems[i])
	}
	return out
}

// CloneSlice deep-copies a slice of Go values.
func CloneSlice[T any](src []T, clone func(*T) T) []T {
	if src == nil {
		return nil
	}
	out := make([]T, len(src))
	for i := range src {
		out[i] = clone(&src[i])
	}
	return out
}
