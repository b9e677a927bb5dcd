package rosidl

import (
	"unsafe"

	"fortio.org/safecast"
)

// String mirrors rosidl_runtime_c__String: a NUL-terminated byte buffer.
// Size excludes the terminator, Capacity includes it.
type String struct {
	Data     *byte
	Size     uintptr
	Capacity uintptr
}

// Assign releases the current buffer and stores a copy of v. The buffer is
// always NUL-terminated, so even "" gets Capacity 1.
func (s *String) Assign(a Allocator, v string) error {
	s.Fini(a)
	buf, err := allocate[byte](a, len(v)+1)
	if err != nil {
		return err
	}
	dst := unsafe.Slice(buf, len(v)+1)
	copy(dst, v)
	dst[len(v)] = 0
	s.Data = buf
	s.Size = uintptr(len(v))
	s.Capacity = uintptr(len(v) + 1)
	return nil
}

// Get returns a Go copy of the contents.
func (s *String) Get() string {
	if s.Data == nil || s.Size == 0 {
		return ""
	}
	return string(unsafe.Slice(s.Data, s.Len()))
}

// Len returns the length in bytes.
func (s *String) Len() int {
	n, err := safecast.Conv[int](s.Size)
	if err != nil {
		panic("rosidl: string size out of range")
	}
	return n
}

// Fini releases the buffer. It is idempotent.
func (s *String) Fini(a Allocator) {
	if s.Data != nil {
		orDefault(a).Free(unsafe.Pointer(s.Data))
	}
	*s = String{}
}

// Clone returns a copy backed by a fresh buffer. A zeroed String clones to
// a zeroed String.
func (s *String) Clone(a Allocator) (String, error) {
	var out String
	if s.Data == nil {
		return out, nil
	}
	err := out.Assign(a, unsafe.String(s.Data, s.Len()))
	return out, err
}

// MakeString builds a String from *v; the pointer form fits ConvertSequence.
func MakeString(v *string, a Allocator) (String, error) {
	var out String
	err := out.Assign(a, *v)
	return out, err
}
