package emit

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"rosgen/internal/diag"
	"rosgen/internal/layout"
	"rosgen/internal/model"
	"rosgen/internal/types"
)

// fileGen accumulates the body of one generated file and the imports it needs.
type fileGen struct {
	e     *Emitter
	pkg   string
	iface string
	names *namer

	buf     strings.Builder
	std     map[string]bool
	imports map[string]string // path -> alias
}

func newFileGen(e *Emitter, pkg, iface string) *fileGen {
	return &fileGen{
		e:       e,
		pkg:     pkg,
		iface:   iface,
		names:   newNamer(),
		std:     make(map[string]bool),
		imports: make(map[string]string),
	}
}

func (g *fileGen) p(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

// rt registers the runtime import and returns its package name.
func (g *fileGen) rt() string {
	g.imports[g.e.Options.runtimeImport()] = "rosidl"
	return "rosidl"
}

// qualify names a generated type of message q from the current file.
func (g *fileGen) qualify(q types.QualifiedName, suffix string) string {
	name := TypeIdent(q) + suffix
	if q.Package == g.pkg && g.iface == "msg" {
		return name
	}
	alias := msgAlias(q.Package)
	g.imports[g.e.Options.MsgImportPath(q.Package)] = alias
	return alias + "." + name
}

// goType is the safe Go spelling of a type.
func (g *fileGen) goType(id types.TypeID) string {
	t := g.e.Types.MustLookup(id)
	switch t.Kind {
	case types.KindPrimitive:
		return t.Prim.Info().GoType
	case types.KindText:
		return "string"
	case types.KindFixedArray:
		return fmt.Sprintf("[%d]%s", t.Count, g.goType(t.Elem))
	case types.KindSequence:
		return "[]" + g.goType(t.Elem)
	case types.KindNested:
		q, _ := g.e.Types.NestedName(id)
		return g.qualify(q, "")
	default:
		panic(fmt.Sprintf("emit: unexpected type kind %s", t.Kind))
	}
}

// cType is the spelling of the rosidl_runtime_c mirror of a type.
func (g *fileGen) cType(id types.TypeID) string {
	t := g.e.Types.MustLookup(id)
	switch t.Kind {
	case types.KindPrimitive:
		return t.Prim.Info().GoType
	case types.KindText:
		return g.rt() + ".String"
	case types.KindFixedArray:
		return fmt.Sprintf("[%d]%s", t.Count, g.cType(t.Elem))
	case types.KindSequence:
		return fmt.Sprintf("%s.Sequence[%s]", g.rt(), g.cType(t.Elem))
	case types.KindNested:
		q, _ := g.e.Types.NestedName(id)
		return g.qualify(q, "_C")
	default:
		panic(fmt.Sprintf("emit: unexpected type kind %s", t.Kind))
	}
}

func (g *fileGen) kindOf(id types.TypeID) types.Kind {
	return g.e.Types.MustLookup(id).Kind
}

func (g *fileGen) comment(lines []string) {
	for _, l := range lines {
		l = strings.TrimRight(l, " \t")
		if l == "" {
			g.p("//")
			continue
		}
		g.p("// %s", l)
	}
}

func (g *fileGen) serviceHeader(svc *model.ServiceSpec) {
	name := TypeIdent(svc.Name)
	g.p("// %s_TypeName is the interface name of the %s service.", name, name)
	g.p("const %s_TypeName = %q", name, svc.Name.Package+"/srv/"+svc.Name.Name)
	g.p("")
}

// finish prepends the header and imports and formats the file.
func (g *fileGen) finish(source string) ([]byte, error) {
	var out strings.Builder
	out.WriteString("// Code generated by rosgen. DO NOT EDIT.\n")
	fmt.Fprintf(&out, "// source: %s\n\n", source)
	fmt.Fprintf(&out, "package %s\n\n", g.iface)
	writeImports(&out, g.std, g.imports)
	out.WriteString(g.buf.String())
	return formatSource([]byte(out.String()))
}

func writeImports(out *strings.Builder, std map[string]bool, imports map[string]string) {
	switch len(std) + len(imports) {
	case 0:
		return
	case 1:
		for p := range std {
			fmt.Fprintf(out, "import %q\n\n", p)
		}
		for p, alias := range imports {
			if alias != path.Base(p) {
				fmt.Fprintf(out, "import %s %q\n\n", alias, p)
				continue
			}
			fmt.Fprintf(out, "import %q\n\n", p)
		}
		return
	}
	out.WriteString("import (\n")
	stdPaths := sortedKeys(std)
	for _, p := range stdPaths {
		fmt.Fprintf(out, "\t%q\n", p)
	}
	if len(stdPaths) > 0 && len(imports) > 0 {
		out.WriteString("\n")
	}
	for _, p := range sortedKeys(imports) {
		if alias := imports[p]; alias != path.Base(p) {
			fmt.Fprintf(out, "\t%s %q\n", alias, p)
			continue
		}
		fmt.Fprintf(out, "\t%q\n", p)
	}
	out.WriteString(")\n\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// msgGen emits the declarations of one message or service half.
type msgGen struct {
	*fileGen
	msg    *model.MessageSpec
	plan   *layout.MessagePlan
	idents []string
	name   string
}

func (g *fileGen) message(msg *model.MessageSpec, plan *layout.MessagePlan, r diag.Reporter) bool {
	idents, clash, ok := g.names.fieldIdents(msg, g.e.Types)
	if !ok {
		first, second := &msg.Fields[clash[0]], &msg.Fields[clash[1]]
		diag.ReportError(r, diag.EmitNameCollision, second.Span,
			fmt.Sprintf("fields '%s' and '%s' of %s both map to Go field %s", first.Name, second.Name, msg.Name, idents[clash[1]])).
			WithNote(first.Span, fmt.Sprintf("'%s' declared here", first.Name)).
			Emit()
		return false
	}
	if len(plan.Fields) != len(msg.Fields) {
		diag.ReportError(r, diag.EmitInternal, msg.Span,
			fmt.Sprintf("layout plan of %s has %d fields, message has %d", msg.Name, len(plan.Fields), len(msg.Fields))).Emit()
		return false
	}
	m := &msgGen{fileGen: g, msg: msg, plan: plan, idents: idents, name: TypeIdent(msg.Name)}
	m.typeName()
	m.constants()
	m.goStruct()
	m.constructor()
	m.clone()
	m.setters()
	m.cStruct()
	m.fini()
	m.cClone()
	m.toC()
	m.toGo()
	m.fromC()
	return true
}

func (m *msgGen) typeName() {
	m.p("// %s_TypeName is the interface name of %s.", m.name, m.name)
	m.p("const %s_TypeName = %q", m.name, m.msg.Name.Package+"/"+m.msg.Interface()+"/"+m.msg.Name.Name)
	m.p("")
}

func (m *msgGen) constants() {
	if len(m.msg.Constants) == 0 {
		return
	}
	m.p("// Constants of %s.", m.name)
	m.p("const (")
	for i := range m.msg.Constants {
		c := &m.msg.Constants[i]
		m.comment(c.Doc)
		lit := c.Value.GoLiteral()
		trailing := ""
		if c.Comment != "" {
			trailing = " // " + c.Comment
		}
		if m.kindOf(c.Type) == types.KindText {
			m.p("%s_%s = %s%s", m.name, c.Name, lit, trailing)
			continue
		}
		m.p("%s_%s %s = %s%s", m.name, c.Name, m.goType(c.Type), lit, trailing)
	}
	m.p(")")
	m.p("")
}

func (m *msgGen) goStruct() {
	m.p("// %s is the Go form of %s/%s/%s.", m.name, m.msg.Name.Package, m.msg.Interface(), m.msg.Name.Name)
	if len(m.msg.Fields) == 0 {
		m.p("type %s struct{}", m.name)
		m.p("")
		return
	}
	m.p("type %s struct {", m.name)
	for i := range m.msg.Fields {
		f := &m.msg.Fields[i]
		m.comment(f.Doc)
		if f.Comment != "" {
			m.p("%s %s // %s", m.idents[i], m.goType(f.Type), f.Comment)
			continue
		}
		m.p("%s %s", m.idents[i], m.goType(f.Type))
	}
	m.p("}")
	m.p("")
}

func (m *msgGen) constructor() {
	var stmts []string
	for i := range m.plan.Fields {
		fp := &m.plan.Fields[i]
		f := &m.msg.Fields[i]
		id := m.idents[i]
		if f.Default != nil {
			switch fp.Kind {
			case types.KindFixedArray, types.KindSequence:
				stmts = append(stmts, fmt.Sprintf("m.%s = %s{%s}", id, m.goType(fp.Type), f.Default.GoLiteral()))
			default:
				stmts = append(stmts, fmt.Sprintf("m.%s = %s", id, f.Default.GoLiteral()))
			}
			continue
		}
		switch {
		case fp.Kind == types.KindNested:
			stmts = append(stmts, fmt.Sprintf("m.%s = %s()", id, m.newFunc(fp.Nested)))
		case fp.Kind == types.KindFixedArray && fp.IsNested():
			stmts = append(stmts, fmt.Sprintf("for i := range m.%s {\nm.%s[i] = %s()\n}", id, id, m.newFunc(fp.Nested)))
		}
	}
	m.p("// New%s returns a %s with its default values.", m.name, m.name)
	m.p("func New%s() %s {", m.name, m.name)
	if len(stmts) == 0 {
		m.p("return %s{}", m.name)
	} else {
		m.p("m := %s{}", m.name)
		for _, s := range stmts {
			m.p("%s", s)
		}
		m.p("return m")
	}
	m.p("}")
	m.p("")
}

// newFunc names the constructor of a nested message.
func (m *msgGen) newFunc(q types.QualifiedName) string {
	qualified := m.qualify(q, "")
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[:i+1] + "New" + qualified[i+1:]
	}
	return "New" + qualified
}

func (m *msgGen) clone() {
	var stmts []string
	for i := range m.plan.Fields {
		fp := &m.plan.Fields[i]
		id := m.idents[i]
		switch fp.Kind {
		case types.KindSequence:
			if m.kindOf(fp.Elem) == types.KindNested {
				stmts = append(stmts, fmt.Sprintf("out.%s = %s.CloneSlice(m.%s, (*%s).Clone)", id, m.rt(), id, m.goType(fp.Elem)))
				continue
			}
			m.std["slices"] = true
			stmts = append(stmts, fmt.Sprintf("out.%s = slices.Clone(m.%s)", id, id))
		case types.KindNested:
			stmts = append(stmts, fmt.Sprintf("out.%s = m.%s.Clone()", id, id))
		case types.KindFixedArray:
			if m.kindOf(fp.Elem) == types.KindNested {
				stmts = append(stmts, fmt.Sprintf("for i := range m.%s {\nout.%s[i] = m.%s[i].Clone()\n}", id, id, id))
			}
		}
	}
	m.p("// Clone returns a deep copy of m.")
	m.p("func (m *%s) Clone() %s {", m.name, m.name)
	if len(stmts) == 0 {
		m.p("return *m")
	} else {
		m.p("out := *m")
		for _, s := range stmts {
			m.p("%s", s)
		}
		m.p("return out")
	}
	m.p("}")
	m.p("")
}

func (m *msgGen) setters() {
	for i := range m.plan.Fields {
		fp := &m.plan.Fields[i]
		if fp.Kind != types.KindFixedArray {
			continue
		}
		id := m.idents[i]
		m.p("// Set%s copies v into %s; v must have exactly %d elements.", id, id, fp.Count)
		m.p("func (m *%s) Set%s(v []%s) error {", m.name, id, m.goType(fp.Elem))
		m.p("return %s.CopyFixed(m.%s[:], v)", m.rt(), id)
		m.p("}")
		m.p("")
	}
}

func (m *msgGen) cStruct() {
	m.p("// %s_C mirrors the rosidl_runtime_c struct %s.", m.name, CSymbol(m.msg))
	m.p("type %s_C struct {", m.name)
	if m.plan.Placeholder {
		m.p("StructureNeedsAtLeastOneMember uint8")
	}
	for i := range m.plan.Fields {
		m.p("%s %s", m.idents[i], m.cType(m.plan.Fields[i].Type))
	}
	m.p("}")
	m.p("")
	m.p("// New%s_C returns a zeroed %s_C.", m.name, m.name)
	m.p("func New%s_C() %s_C {", m.name, m.name)
	m.p("return %s_C{}", m.name)
	m.p("}")
	m.p("")
}

// elemC is the C element type of an array or sequence field.
func (m *msgGen) elemC(fp *layout.FieldPlan) string {
	return m.cType(fp.Elem)
}

func (m *msgGen) fini() {
	var stmts []string
	for i := range m.plan.Fields {
		fp := &m.plan.Fields[i]
		if !fp.Discipline.Owned() {
			continue
		}
		id := m.idents[i]
		switch fp.Kind {
		case types.KindText, types.KindNested:
			stmts = append(stmts, fmt.Sprintf("c.%s.Fini(a)", id))
		case types.KindSequence:
			if fp.ElemDiscipline.Owned() {
				stmts = append(stmts, fmt.Sprintf("%s.FiniSequence(&c.%s, a, (*%s).Fini)", m.rt(), id, m.elemC(fp)))
			} else {
				stmts = append(stmts, fmt.Sprintf("c.%s.Fini(a)", id))
			}
		case types.KindFixedArray:
			stmts = append(stmts, fmt.Sprintf("for i := range c.%s {\nc.%s[i].Fini(a)\n}", id, id))
		}
	}
	m.p("// Fini releases every buffer owned by c. It is idempotent.")
	if len(stmts) == 0 {
		m.p("func (c *%s_C) Fini(_ %s.Allocator) {}", m.name, m.rt())
		m.p("")
		return
	}
	m.p("func (c *%s_C) Fini(a %s.Allocator) {", m.name, m.rt())
	for _, s := range stmts {
		m.p("%s", s)
	}
	m.p("}")
	m.p("")
}

func (m *msgGen) cClone() {
	m.p("// Clone returns a deep copy of c backed by fresh buffers.")
	if !m.plan.Owns() {
		m.p("func (c *%s_C) Clone(_ %s.Allocator) (%s_C, error) {", m.name, m.rt(), m.name)
		m.p("return *c, nil")
		m.p("}")
		m.p("")
		return
	}
	m.p("func (c *%s_C) Clone(a %s.Allocator) (out %s_C, err error) {", m.name, m.rt(), m.name)
	m.rollback("out")
	for i := range m.plan.Fields {
		fp := &m.plan.Fields[i]
		id := m.idents[i]
		if !fp.Discipline.Owned() {
			m.p("out.%s = c.%s", id, id)
			continue
		}
		switch fp.Kind {
		case types.KindText, types.KindNested:
			m.p("if out.%s, err = c.%s.Clone(a); err != nil {\nreturn\n}", id, id)
		case types.KindSequence:
			if fp.ElemDiscipline.Owned() {
				e := m.elemC(fp)
				m.p("if out.%s, err = %s.CloneSequence(&c.%s, a, (*%s).Clone, (*%s).Fini); err != nil {\nreturn\n}", id, m.rt(), id, e, e)
			} else {
				m.p("if out.%s, err = c.%s.Clone(a); err != nil {\nreturn\n}", id, id)
			}
		case types.KindFixedArray:
			m.p("for i := range c.%s {\nif out.%s[i], err = c.%s[i].Clone(a); err != nil {\nreturn\n}\n}", id, id, id)
		}
	}
	m.p("return out, nil")
	m.p("}")
	m.p("")
}

// rollback finalizes a partially built result when the function fails.
func (m *msgGen) rollback(result string) {
	m.p("defer func() {")
	m.p("if err != nil {")
	m.p("%s.Fini(a)", result)
	m.p("%s = %s_C{}", result, m.name)
	m.p("}")
	m.p("}()")
}

// canFail reports whether converting the field to C may allocate or fail.
func (m *msgGen) canFail(fp *layout.FieldPlan) bool {
	switch fp.Kind {
	case types.KindPrimitive:
		return false
	case types.KindFixedArray:
		return m.kindOf(fp.Elem) != types.KindPrimitive
	default:
		return true
	}
}

func (m *msgGen) toC() {
	failing := false
	for i := range m.plan.Fields {
		if m.canFail(&m.plan.Fields[i]) {
			failing = true
			break
		}
	}
	m.p("// ToC converts m into its raw form. Buffers come from a; on error")
	m.p("// nothing stays allocated.")
	if !failing {
		m.p("func (m *%s) ToC(_ %s.Allocator) (%s_C, error) {", m.name, m.rt(), m.name)
		m.p("var c %s_C", m.name)
		for i := range m.plan.Fields {
			m.p("c.%s = m.%s", m.idents[i], m.idents[i])
		}
		m.p("return c, nil")
		m.p("}")
		m.p("")
		return
	}
	rt := m.rt()
	m.p("func (m *%s) ToC(a %s.Allocator) (c %s_C, err error) {", m.name, rt, m.name)
	m.rollback("c")
	for i := range m.plan.Fields {
		fp := &m.plan.Fields[i]
		name := m.msg.Fields[i].Name
		id := m.idents[i]
		if !m.canFail(fp) {
			m.p("c.%s = m.%s", id, id)
			continue
		}
		switch fp.Kind {
		case types.KindText:
			if fp.Count != types.Unbounded {
				m.checkBound(name, "len(m."+id+")", fp.Count)
			}
			m.p("if err = c.%s.Assign(a, m.%s); err != nil {\nreturn\n}", id, id)
		case types.KindNested:
			m.p("if c.%s, err = m.%s.ToC(a); err != nil {\nreturn\n}", id, id)
		case types.KindFixedArray:
			m.p("for i := range m.%s {", id)
			m.elemToC(fp, name, "c."+id+"[i]", "m."+id+"[i]")
			m.p("}")
		case types.KindSequence:
			if fp.Count != types.Unbounded {
				m.checkBound(name, "len(m."+id+")", fp.Count)
			}
			m.sequenceToC(fp, name, id)
		}
	}
	m.p("return c, nil")
	m.p("}")
	m.p("")
}

func (m *msgGen) checkBound(name, length string, bound uint32) {
	m.p("if err = %s.CheckBound(%q, %s, %d); err != nil {\nreturn\n}", m.rt(), name, length, bound)
}

func (m *msgGen) elemToC(fp *layout.FieldPlan, name, dst, src string) {
	et := m.e.Types.MustLookup(fp.Elem)
	switch et.Kind {
	case types.KindText:
		if et.Count != types.Unbounded {
			m.checkBound(name, "len("+src+")", et.Count)
		}
		m.p("if err = %s.Assign(a, %s); err != nil {\nreturn\n}", dst, src)
	case types.KindNested:
		m.p("if %s, err = %s.ToC(a); err != nil {\nreturn\n}", dst, src)
	default:
		m.p("%s = %s", dst, src)
	}
}

func (m *msgGen) sequenceToC(fp *layout.FieldPlan, name, id string) {
	rt := m.rt()
	et := m.e.Types.MustLookup(fp.Elem)
	switch et.Kind {
	case types.KindPrimitive:
		m.p("if c.%s, err = %s.SequenceFrom(a, m.%s); err != nil {\nreturn\n}", id, rt, id)
	case types.KindText:
		if et.Count != types.Unbounded {
			m.p("for i := range m.%s {", id)
			m.checkBound(name, "len(m."+id+"[i])", et.Count)
			m.p("}")
		}
		m.p("if c.%s, err = %s.ConvertSequence(a, m.%s, %s.MakeString, (*%s.String).Fini); err != nil {\nreturn\n}", id, rt, id, rt, rt)
	case types.KindNested:
		m.p("if c.%s, err = %s.ConvertSequence(a, m.%s, (*%s).ToC, (*%s).Fini); err != nil {\nreturn\n}",
			id, rt, id, m.goType(fp.Elem), m.cType(fp.Elem))
	default:
		panic(fmt.Sprintf("emit: sequence of %s", et.Kind))
	}
}

func (m *msgGen) toGo() {
	m.p("// ToGo copies c into Go memory. c keeps its buffers.")
	m.p("func (c *%s_C) ToGo() %s {", m.name, m.name)
	if len(m.plan.Fields) == 0 {
		m.p("return %s{}", m.name)
		m.p("}")
		m.p("")
		return
	}
	m.p("var m %s", m.name)
	for i := range m.plan.Fields {
		fp := &m.plan.Fields[i]
		id := m.idents[i]
		switch fp.Kind {
		case types.KindPrimitive:
			m.p("m.%s = c.%s", id, id)
		case types.KindText:
			m.p("m.%s = c.%s.Get()", id, id)
		case types.KindNested:
			m.p("m.%s = c.%s.ToGo()", id, id)
		case types.KindFixedArray:
			switch m.kindOf(fp.Elem) {
			case types.KindText:
				m.p("for i := range c.%s {\nm.%s[i] = c.%s[i].Get()\n}", id, id, id)
			case types.KindNested:
				m.p("for i := range c.%s {\nm.%s[i] = c.%s[i].ToGo()\n}", id, id, id)
			default:
				m.p("m.%s = c.%s", id, id)
			}
		case types.KindSequence:
			switch m.kindOf(fp.Elem) {
			case types.KindText:
				m.p("m.%s = %s.MapSequence(&c.%s, (*%s.String).Get)", id, m.rt(), id, m.rt())
			case types.KindNested:
				m.p("m.%s = %s.MapSequence(&c.%s, (*%s).ToGo)", id, m.rt(), id, m.elemC(fp))
			default:
				m.p("m.%s = c.%s.ToSlice()", id, id)
			}
		}
	}
	m.p("return m")
	m.p("}")
	m.p("")
}

func (m *msgGen) fromC() {
	m.p("// %sFromC moves c into Go memory: the buffers of c are released and c", m.name)
	m.p("// is left zeroed.")
	m.p("func %sFromC(c *%s_C, a %s.Allocator) %s {", m.name, m.name, m.rt(), m.name)
	m.p("m := c.ToGo()")
	m.p("c.Fini(a)")
	m.p("*c = %s_C{}", m.name)
	m.p("return m")
	m.p("}")
	m.p("")
}
