// Package layout plans the C ABI representation and the ownership contract of
// every field. The plan is the only thing the emitter consults when it writes
// construction, clone and destruction code, so the three always agree.
package layout

import (
	"fmt"

	"rosgen/internal/model"
	"rosgen/internal/types"
)

// Discipline is the allocation contract of a value.
type Discipline uint8

const (
	// InPlace values need no allocation and are copied bitwise.
	InPlace Discipline = iota
	// SingleBuffer values own one heap buffer of in-place elements.
	SingleBuffer
	// RecursiveOwned values own sub-values that own buffers themselves.
	RecursiveOwned
)

func (d Discipline) String() string {
	switch d {
	case InPlace:
		return "in-place"
	case SingleBuffer:
		return "single-buffer-owned"
	case RecursiveOwned:
		return "recursive-owned"
	}
	return fmt.Sprintf("Discipline(%d)", d)
}

// Owned reports whether a value of this discipline must be released.
func (d Discipline) Owned() bool { return d != InPlace }

// Repr is the C representation of a field.
type Repr uint8

const (
	ReprInPlace    Repr = iota // scalar stored in the struct
	ReprFixedArray             // T[N] stored in the struct
	ReprDescriptor             // {data, size, capacity}
	ReprEmbedded               // nested message struct stored in the struct
)

func (r Repr) String() string {
	switch r {
	case ReprInPlace:
		return "in-place"
	case ReprFixedArray:
		return "fixed-array"
	case ReprDescriptor:
		return "descriptor"
	case ReprEmbedded:
		return "embedded"
	}
	return fmt.Sprintf("Repr(%d)", r)
}

// TypeLayout is the ABI layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Message-only:
	FieldOffsets []int
}

// Messages gives the planner access to resolved nested messages.
type Messages interface {
	MessageByName(q types.QualifiedName) *model.MessageSpec
}

// LayoutEngine computes memory layout and ownership for resolved types.
// It is safe for concurrent use once the symbol table is frozen.
type LayoutEngine struct {
	Target   Target
	Types    *types.Interner
	Messages Messages

	cache *cache
}

// New creates a new LayoutEngine for the specified target.
func New(target Target, typesIn *types.Interner, msgs Messages) *LayoutEngine {
	if target.MaxObjectSize <= 0 {
		target.MaxObjectSize = defaultMaxObjectSize
	}
	return &LayoutEngine{
		Target:   target,
		Types:    typesIn,
		Messages: msgs,
		cache:    newCache(),
	}
}

type typeInfo struct {
	Layout     TypeLayout
	Discipline Discipline
}

type layoutState struct {
	stack []types.QualifiedName
	index map[types.QualifiedName]int
}

func newLayoutState() *layoutState {
	return &layoutState{
		index: make(map[types.QualifiedName]int, 8),
	}
}

// LayoutOf computes and caches the layout of a type.
func (e *LayoutEngine) LayoutOf(t types.TypeID) (TypeLayout, error) {
	info, err := e.infoOf(t, newLayoutState())
	if err != nil {
		return info.Layout, err
	}
	return info.Layout, nil
}

// DisciplineOf returns the allocation contract of a type.
func (e *LayoutEngine) DisciplineOf(t types.TypeID) (Discipline, error) {
	info, err := e.infoOf(t, newLayoutState())
	if err != nil {
		return InPlace, err
	}
	return info.Discipline, nil
}

// SizeOf returns the size of a type in bytes.
func (e *LayoutEngine) SizeOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Size, err
}

// AlignOf returns the alignment requirement of a type in bytes.
func (e *LayoutEngine) AlignOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Align, err
}

func (e *LayoutEngine) infoOf(t types.TypeID, state *layoutState) (typeInfo, *LayoutError) {
	if cached, ok := e.cache.get(t); ok {
		return cached.info, cached.err
	}
	info, err := e.computeInfo(t, state)
	// ошибки рекурсии зависят от стека вызова, их не кэшируем
	if err == nil || err.Kind != LayoutErrRecursive {
		e.cache.put(t, cacheEntry{info: info, err: err})
	}
	return info, err
}
