package layout

import (
	"fmt"

	"fortio.org/safecast"

	"rosgen/internal/types"
)

func (e *LayoutEngine) computeInfo(id types.TypeID, state *layoutState) (typeInfo, *LayoutError) {
	tt, ok := e.Types.Lookup(id)
	if !ok {
		return typeInfo{}, &LayoutError{Kind: LayoutErrUnsupported, Type: "<invalid>"}
	}

	switch tt.Kind {
	case types.KindPrimitive:
		return typeInfo{Layout: scalarLayoutBytes(tt.Prim.Info().Size), Discipline: InPlace}, nil

	case types.KindText:
		return typeInfo{Layout: e.descriptorLayout(), Discipline: SingleBuffer}, nil

	case types.KindSequence:
		elem, err := e.elemDiscipline(tt.Elem, state)
		if err != nil {
			return typeInfo{}, err
		}
		d := SingleBuffer
		if elem.Owned() {
			d = RecursiveOwned
		}
		return typeInfo{Layout: e.descriptorLayout(), Discipline: d}, nil

	case types.KindFixedArray:
		elem, err := e.infoOf(tt.Elem, state)
		if err != nil {
			return typeInfo{}, err
		}
		l, err := e.arrayFixedLayout(id, elem.Layout, tt.Count)
		if err != nil {
			return typeInfo{}, err
		}
		d := InPlace
		if elem.Discipline.Owned() {
			d = RecursiveOwned
		}
		return typeInfo{Layout: l, Discipline: d}, nil

	case types.KindNested:
		q, _ := e.Types.NestedName(id)
		return e.messageInfo(q, state)

	default:
		return typeInfo{}, &LayoutError{Kind: LayoutErrUnsupported, Type: e.Types.Format(id)}
	}
}

// elemDiscipline returns the discipline of a sequence element without laying
// it out: the descriptor size does not depend on it. A message already on the
// stack is reached back through a sequence, so it owns that sequence.
func (e *LayoutEngine) elemDiscipline(elem types.TypeID, state *layoutState) (Discipline, *LayoutError) {
	if cached, ok := e.cache.get(elem); ok {
		return cached.info.Discipline, cached.err
	}
	if q, ok := e.Types.NestedName(elem); ok {
		if _, onStack := state.index[q]; onStack {
			return RecursiveOwned, nil
		}
	}
	info, err := e.infoOf(elem, state)
	return info.Discipline, err
}

// descriptorLayout: {T *data; size_t size; size_t capacity}.
func (e *LayoutEngine) descriptorLayout() TypeLayout {
	p := e.ptrLayout()
	return TypeLayout{Size: 3 * p.Size, Align: p.Align}
}

func (e *LayoutEngine) ptrLayout() TypeLayout {
	ptrSize := e.Target.PtrSize
	ptrAlign := e.Target.PtrAlign
	if ptrSize <= 0 {
		ptrSize = 8
	}
	if ptrAlign <= 0 {
		ptrAlign = ptrSize
	}
	return TypeLayout{Size: ptrSize, Align: ptrAlign}
}

func scalarLayoutBytes(size int) TypeLayout {
	if size <= 0 {
		return TypeLayout{Size: 0, Align: 1}
	}
	return TypeLayout{Size: size, Align: size}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

func (e *LayoutEngine) arrayFixedLayout(id types.TypeID, elem TypeLayout, length uint32) (TypeLayout, *LayoutError) {
	elemAlign := elem.Align
	if elemAlign <= 0 {
		elemAlign = 1
	}
	stride, err := safecast.Conv[int64](roundUp(elem.Size, elemAlign))
	if err != nil {
		return TypeLayout{}, &LayoutError{Kind: LayoutErrOverflow, Type: e.Types.Format(id), Err: err}
	}
	n := int64(length)
	if stride != 0 && n > e.Target.MaxObjectSize/stride {
		return TypeLayout{}, &LayoutError{
			Kind: LayoutErrOverflow,
			Type: e.Types.Format(id),
			Err:  fmt.Errorf("%d elements of %d bytes exceed %d bytes", n, stride, e.Target.MaxObjectSize),
		}
	}
	size, err := safecast.Conv[int](stride * n)
	if err != nil {
		return TypeLayout{}, &LayoutError{Kind: LayoutErrOverflow, Type: e.Types.Format(id), Err: err}
	}
	return TypeLayout{Size: size, Align: elemAlign}, nil
}

// messageInfo lays out a message as a C struct: fields in declaration order,
// each aligned to its own alignment, total size rounded up to the largest.
// A message without fields still occupies one byte.
func (e *LayoutEngine) messageInfo(q types.QualifiedName, state *layoutState) (typeInfo, *LayoutError) {
	msg := e.Messages.MessageByName(q)
	if msg == nil {
		return typeInfo{}, &LayoutError{Kind: LayoutErrMissing, Type: q.String()}
	}

	if idx, ok := state.index[q]; ok {
		cycle := append([]types.QualifiedName(nil), state.stack[idx:]...)
		cycle = append(cycle, q)
		return typeInfo{}, &LayoutError{Kind: LayoutErrRecursive, Type: q.String(), Cycle: cycle}
	}
	state.index[q] = len(state.stack)
	state.stack = append(state.stack, q)
	defer func() {
		state.stack = state.stack[:len(state.stack)-1]
		delete(state.index, q)
	}()

	if len(msg.Fields) == 0 {
		return typeInfo{Layout: TypeLayout{Size: 1, Align: 1}, Discipline: InPlace}, nil
	}

	offsets := make([]int, len(msg.Fields))
	size, align := 0, 1
	d := InPlace
	for i := range msg.Fields {
		f := &msg.Fields[i]
		fi, err := e.infoOf(f.Type, state)
		if err != nil {
			return typeInfo{}, err.withField(q, f.Name).within(q)
		}
		a := max(fi.Layout.Align, 1)
		size = roundUp(size, a)
		offsets[i] = size
		size += fi.Layout.Size
		align = max(align, a)
		if fi.Discipline.Owned() {
			d = RecursiveOwned
		}
	}
	size = roundUp(size, align)
	if int64(size) > e.Target.MaxObjectSize {
		return typeInfo{}, &LayoutError{
			Kind:  LayoutErrOverflow,
			Type:  q.String(),
			Inner: q,
			Err:   fmt.Errorf("%d bytes exceed %d bytes", size, e.Target.MaxObjectSize),
		}
	}
	return typeInfo{
		Layout:     TypeLayout{Size: size, Align: align, FieldOffsets: offsets},
		Discipline: d,
	}, nil
}
