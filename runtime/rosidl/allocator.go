package rosidl

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// Allocator provides zeroed buffers of n elements of type elem.
//
// Allocate with n <= 0 returns nil and no error. Free(nil) is a no-op.
// A buffer is freed at most once by generated code.
type Allocator interface {
	Allocate(elem reflect.Type, n int) (unsafe.Pointer, error)
	Free(p unsafe.Pointer)
}

// GoAllocator allocates buffers on the Go heap; Free leaves them to the
// garbage collector.
type GoAllocator struct{}

// Default is the allocator used when nil is passed to helpers of this package.
var Default Allocator = GoAllocator{}

func (GoAllocator) Allocate(elem reflect.Type, n int) (unsafe.Pointer, error) {
	if n <= 0 {
		return nil, nil
	}
	if elem.Size() != 0 && uintptr(n) > maxAlloc/elem.Size() {
		return nil, fmt.Errorf("%w: %d elements of %s", ErrAllocation, n, elem)
	}
	return reflect.New(reflect.ArrayOf(n, elem)).UnsafePointer(), nil
}

func (GoAllocator) Free(unsafe.Pointer) {}

const maxAlloc = 1<<47 - 1

func orDefault(a Allocator) Allocator {
	if a == nil {
		return Default
	}
	return a
}

func allocate[T any](a Allocator, n int) (*T, error) {
	p, err := orDefault(a).Allocate(reflect.TypeFor[T](), n)
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// Tracking wraps an allocator and records every live buffer. It is meant for
// tests: Live and DoubleFrees must be zero once every value has been
// finalized.
type Tracking struct {
	Inner Allocator

	mu          sync.Mutex
	live        map[unsafe.Pointer]int
	allocs      int
	frees       int
	doubleFrees int
	failAfter   int
}

// NewTracking wraps inner (GoAllocator when nil).
func NewTracking(inner Allocator) *Tracking {
	if inner == nil {
		inner = GoAllocator{}
	}
	return &Tracking{Inner: inner, live: make(map[unsafe.Pointer]int), failAfter: -1}
}

// FailAfter makes the allocator fail every allocation after the next n
// successful ones. A negative n disables failures.
func (t *Tracking) FailAfter(n int) {
	t.mu.Lock()
	t.failAfter = n
	t.mu.Unlock()
}

func (t *Tracking) Allocate(elem reflect.Type, n int) (unsafe.Pointer, error) {
	if n <= 0 {
		return nil, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failAfter == 0 {
		return nil, fmt.Errorf("%w: injected failure", ErrAllocation)
	}
	p, err := t.Inner.Allocate(elem, n)
	if err != nil {
		return nil, err
	}
	if t.failAfter > 0 {
		t.failAfter--
	}
	t.allocs++
	t.live[p] = n
	return p, nil
}

func (t *Tracking) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.live[p]; !ok {
		t.doubleFrees++
		return
	}
	delete(t.live, p)
	t.frees++
	t.Inner.Free(p)
}

// Live returns the number of buffers allocated and not yet freed.
func (t *Tracking) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// DoubleFrees counts frees of pointers that were not live.
func (t *Tracking) DoubleFrees() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.doubleFrees
}

// Allocs returns the number of successful allocations.
func (t *Tracking) Allocs() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocs
}

// Frees returns the number of successful frees.
func (t *Tracking) Frees() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frees
}
