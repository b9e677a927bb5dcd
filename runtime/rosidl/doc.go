// Package rosidl is the support runtime of generated bindings.
//
// It mirrors the rosidl_runtime_c building blocks: String and Sequence[T] are
// {data, size, capacity} descriptors whose buffers come from an Allocator.
// Generated X_C types embed them and release them through Fini; generated X
// types are plain Go values that never alias raw buffers.
//
// The zero value of every descriptor is a valid empty value. Fini is
// idempotent: it releases the buffer and zeroes the descriptor.
package rosidl
