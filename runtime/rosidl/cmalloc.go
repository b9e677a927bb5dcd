//go:build cgo && rosidl_cmalloc

package rosidl

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"reflect"
	"unsafe"
)

// CAllocator allocates from the C heap so that raw values can be handed to
// rosidl_runtime_c code. Buffers must not hold Go pointers: use it for the
// whole value tree.
type CAllocator struct{}

func (CAllocator) Allocate(elem reflect.Type, n int) (unsafe.Pointer, error) {
	if n <= 0 {
		return nil, nil
	}
	if elem.Size() != 0 && uintptr(n) > maxAlloc/elem.Size() {
		return nil, fmt.Errorf("%w: %d elements of %s", ErrAllocation, n, elem)
	}
	p := C.calloc(C.size_t(n), C.size_t(max(elem.Size(), 1)))
	if p == nil {
		return nil, fmt.Errorf("%w: calloc(%d, %d)", ErrAllocation, n, elem.Size())
	}
	return p, nil
}

func (CAllocator) Free(p unsafe.Pointer) {
	if p != nil {
		C.free(p)
	}
}
