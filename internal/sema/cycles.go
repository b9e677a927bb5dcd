package sema

import (
	"fmt"
	"strings"

	"rosgen/internal/diag"
	"rosgen/internal/model"
	"rosgen/internal/symbols"
	"rosgen/internal/types"
)

type visitState uint8

const (
	unvisited visitState = iota
	onStack
	done
)

type cycleFrame struct {
	name  types.QualifiedName
	msg   *model.MessageSpec
	field int
}

type cycleChecker struct {
	table  *symbols.Table
	types  *types.Interner
	r      diag.Reporter
	state  map[types.QualifiedName]visitState
	stack  []cycleFrame
	cyclic map[types.QualifiedName]bool
}

// CheckCycles reports every message that contains itself in place, directly
// or through nested and fixed-array fields. Sequences break the chain. Runs
// after every file is resolved; returns the set of messages on a cycle.
func CheckCycles(table *symbols.Table, in *types.Interner, r diag.Reporter) map[types.QualifiedName]bool {
	c := &cycleChecker{
		table:  table,
		types:  in,
		r:      r,
		state:  make(map[types.QualifiedName]visitState),
		cyclic: make(map[types.QualifiedName]bool),
	}
	for _, id := range table.Symbols() {
		sym := table.Get(id)
		if sym.Kind != symbols.KindMessage || c.state[sym.Name] != unvisited {
			continue
		}
		if msg := table.Message(id); msg != nil {
			c.visit(sym.Name, msg)
		}
	}
	return c.cyclic
}

func (c *cycleChecker) visit(q types.QualifiedName, msg *model.MessageSpec) {
	c.state[q] = onStack
	c.stack = append(c.stack, cycleFrame{name: q, msg: msg})
	top := len(c.stack) - 1

	for i := range msg.Fields {
		target, ok := c.inPlaceTarget(msg.Fields[i].Type)
		if !ok {
			continue
		}
		c.stack[top].field = i
		switch c.state[target] {
		case onStack:
			c.report(target)
		case unvisited:
			if next := c.table.MessageByName(target); next != nil {
				c.visit(target, next)
			}
		}
	}

	c.stack = c.stack[:top]
	c.state[q] = done
}

// inPlaceTarget returns the message stored inline by a field of type id.
func (c *cycleChecker) inPlaceTarget(id types.TypeID) (types.QualifiedName, bool) {
	tt, ok := c.types.Lookup(id)
	if !ok {
		return types.QualifiedName{}, false
	}
	if tt.Kind == types.KindFixedArray {
		return c.inPlaceTarget(tt.Elem)
	}
	if tt.Kind != types.KindNested {
		return types.QualifiedName{}, false
	}
	return c.types.NestedName(id)
}

func (c *cycleChecker) report(target types.QualifiedName) {
	start := len(c.stack) - 1
	for start > 0 && c.stack[start].name != target {
		start--
	}
	frames := c.stack[start:]

	var path strings.Builder
	for _, fr := range frames {
		path.WriteString(fr.name.String())
		path.WriteByte('.')
		path.WriteString(fr.msg.Fields[fr.field].Name)
		path.WriteString(" -> ")
		c.cyclic[fr.name] = true
	}
	path.WriteString(target.String())

	root := frames[0]
	b := diag.ReportError(c.r, diag.SemaCyclicType, root.msg.Fields[root.field].Span,
		fmt.Sprintf("message %s contains itself in place: %s; use a sequence ([] or [<=N]) to refer back", target, path.String()))
	for _, fr := range frames[1:] {
		f := fr.msg.Fields[fr.field]
		b.WithNote(f.Span, fmt.Sprintf("%s.%s continues the cycle", fr.name, f.Name))
	}
	b.Emit()
}
