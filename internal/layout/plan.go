package layout

import (
	"fmt"

	"rosgen/internal/model"
	"rosgen/internal/types"
)

// FieldPlan is the single source of truth for one field: how it is stored in
// the C struct and what constructing, cloning and releasing it involves.
type FieldPlan struct {
	Name       string
	Type       types.TypeID
	Kind       types.Kind
	Repr       Repr
	Discipline Discipline

	// Elem and ElemDiscipline describe elements of fixed arrays and sequences.
	Elem           types.TypeID
	ElemDiscipline Discipline
	// Count is the fixed length, or the text/sequence bound (types.Unbounded = none).
	Count uint32

	// Leaf is the innermost non-array type; Nested is set when it is a message.
	Leaf   types.TypeID
	Nested types.QualifiedName

	Offset int
	Size   int
	Align  int
}

// IsNested reports whether the field's leaf type is a message.
func (f *FieldPlan) IsNested() bool { return f.Nested.Name != "" }

// MessagePlan is the layout of one message or service half.
type MessagePlan struct {
	Name       types.QualifiedName
	Role       model.Role
	Fields     []FieldPlan
	Size       int
	Align      int
	Discipline Discipline
	// Placeholder: the C struct has no fields and carries a one-byte member.
	Placeholder bool
	Target      string
}

// Owns reports whether any field needs releasing.
func (p *MessagePlan) Owns() bool { return p.Discipline.Owned() }

// Plan computes the plan of a resolved message. Layout errors are fatal for
// the message and are returned as *LayoutError.
func (e *LayoutEngine) Plan(msg *model.MessageSpec) (*MessagePlan, error) {
	if msg == nil {
		return nil, &LayoutError{Kind: LayoutErrMissing, Type: "<nil>"}
	}
	state := newLayoutState()
	state.index[msg.Name] = 0
	state.stack = append(state.stack, msg.Name)

	plan := &MessagePlan{
		Name:   msg.Name,
		Role:   msg.Role,
		Fields: make([]FieldPlan, 0, len(msg.Fields)),
		Align:  1,
		Target: e.Target.Triple,
	}
	for i := range msg.Fields {
		f := &msg.Fields[i]
		fp, err := e.planField(f, state)
		if err != nil {
			return nil, err.withField(msg.Name, f.Name)
		}
		a := max(fp.Align, 1)
		plan.Size = roundUp(plan.Size, a)
		fp.Offset = plan.Size
		plan.Size += fp.Size
		plan.Align = max(plan.Align, a)
		if fp.Discipline.Owned() {
			plan.Discipline = RecursiveOwned
		}
		plan.Fields = append(plan.Fields, fp)
	}
	if len(plan.Fields) == 0 {
		plan.Placeholder = true
		plan.Size = 1
	}
	plan.Size = roundUp(plan.Size, plan.Align)
	if int64(plan.Size) > e.Target.MaxObjectSize {
		return nil, &LayoutError{
			Kind: LayoutErrOverflow,
			Type: msg.Name.String(),
			Err:  fmt.Errorf("%d bytes exceed %d bytes", plan.Size, e.Target.MaxObjectSize),
		}
	}
	return plan, nil
}

func (e *LayoutEngine) planField(f *model.FieldSpec, state *layoutState) (FieldPlan, *LayoutError) {
	info, err := e.infoOf(f.Type, state)
	if err != nil {
		return FieldPlan{}, err
	}
	tt := e.Types.MustLookup(f.Type)
	fp := FieldPlan{
		Name:       f.Name,
		Type:       f.Type,
		Kind:       tt.Kind,
		Discipline: info.Discipline,
		Leaf:       e.Types.Leaf(f.Type),
		Size:       info.Layout.Size,
		Align:      info.Layout.Align,
	}
	if q, ok := e.Types.NestedName(fp.Leaf); ok {
		fp.Nested = q
	}

	switch tt.Kind {
	case types.KindPrimitive:
		fp.Repr = ReprInPlace
	case types.KindText:
		fp.Repr = ReprDescriptor
		fp.Count = tt.Count
	case types.KindNested:
		fp.Repr = ReprEmbedded
	case types.KindFixedArray, types.KindSequence:
		fp.Repr = ReprDescriptor
		if tt.Kind == types.KindFixedArray {
			fp.Repr = ReprFixedArray
		}
		fp.Elem = tt.Elem
		fp.Count = tt.Count
		elem, err := e.elemDiscipline(tt.Elem, state)
		if err != nil {
			return FieldPlan{}, err
		}
		fp.ElemDiscipline = elem
	default:
		return FieldPlan{}, &LayoutError{Kind: LayoutErrUnsupported, Type: e.Types.Format(f.Type)}
	}
	return fp, nil
}
