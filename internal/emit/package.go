package emit

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"rosgen/internal/diag"
	"rosgen/internal/layout"
	"rosgen/internal/model"
	"rosgen/internal/source"
	"rosgen/internal/types"
)

// layoutBuildTags lists the 64-bit GOARCH values whose struct layout rules
// match the planned targets.
const layoutBuildTags = "amd64 || arm64 || loong64 || mips64 || mips64le || ppc64 || ppc64le || riscv64 || s390x"

// EmitPackage writes the per-package files of one Go package ("<pkg>/msg" or
// "<pkg>/srv"): doc.go and the layout assertions. units are the schemas that
// were emitted successfully. The files are not tied to one schema, so a
// failure is returned rather than reported.
func (e *Emitter) EmitPackage(dir string, units []Unit, target layout.Target) ([]*File, error) {
	if len(units) == 0 {
		return nil, nil
	}
	units = slices.Clone(units)
	slices.SortFunc(units, func(a, b Unit) int {
		return strings.Compare(a.Schema.Name().Name, b.Schema.Name().Name)
	})
	pkg := units[0].Schema.Name().Package
	iface := path.Base(dir)

	doc, err := e.docFile(pkg, iface, units)
	if err != nil {
		return nil, fmt.Errorf("doc.go of %s does not format: %w", dir, err)
	}
	lay, err := e.layoutFile(iface, units, target)
	if err != nil {
		return nil, fmt.Errorf("layout_64bit.go of %s does not format: %w", dir, err)
	}
	return []*File{
		{Path: path.Join(dir, "doc.go"), Content: doc},
		{Path: path.Join(dir, "layout_64bit.go"), Content: lay},
	}, nil
}

func (e *Emitter) docFile(pkg, iface string, units []Unit) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("// Code generated by rosgen. DO NOT EDIT.\n\n")
	what := "messages"
	if iface == "srv" {
		what = "services"
	}
	fmt.Fprintf(&sb, "// Package %s holds the Go bindings of the %s %s:\n//\n", iface, pkg, what)
	for _, u := range units {
		q := u.Schema.Name()
		fmt.Fprintf(&sb, "//   - %s (%s/%s/%s)\n", TypeIdent(q), q.Package, iface, q.Name)
	}
	fmt.Fprintf(&sb, "package %s\n", iface)
	return formatSource([]byte(sb.String()))
}

func (e *Emitter) layoutFile(iface string, units []Unit, target layout.Target) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("// Code generated by rosgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&sb, "//go:build %s\n\n", layoutBuildTags)
	fmt.Fprintf(&sb, "package %s\n\n", iface)
	sb.WriteString("import \"unsafe\"\n\n")
	fmt.Fprintf(&sb, "// Sizes and offsets planned for %s. A mismatch does not compile.\n", target.Triple)
	sb.WriteString("var (\n")
	n := newNamer()
	for _, u := range units {
		msgs := u.Schema.Messages()
		for i, plan := range u.Plans {
			name := TypeIdent(plan.Name)
			fmt.Fprintf(&sb, "\t_ = [1]struct{}{}[unsafe.Sizeof(%s_C{})-%d]\n", name, plan.Size)
			idents, _, _ := n.fieldIdents(msgs[i], e.Types)
			for j := range plan.Fields {
				fmt.Fprintf(&sb, "\t_ = [1]struct{}{}[unsafe.Offsetof(%s_C{}.%s)-%d]\n", name, idents[j], plan.Fields[j].Offset)
			}
		}
	}
	sb.WriteString(")\n")
	return formatSource([]byte(sb.String()))
}

// Ident is a package-level identifier declared by generated code.
type Ident struct {
	Name   string
	Schema types.QualifiedName
	Span   source.Span
}

// PackageIdents lists the package-level identifiers a schema declares.
func PackageIdents(s model.Schema) []Ident {
	var out []Ident
	q := s.Name()
	if s.Service != nil {
		out = append(out, Ident{Name: TypeIdent(q) + "_TypeName", Schema: q, Span: s.Service.Span})
	}
	for _, msg := range s.Messages() {
		name := TypeIdent(msg.Name)
		for _, id := range []string{name, name + "_C", "New" + name, "New" + name + "_C", name + "FromC", name + "_TypeName"} {
			out = append(out, Ident{Name: id, Schema: q, Span: msg.Span})
		}
		for i := range msg.Constants {
			c := &msg.Constants[i]
			out = append(out, Ident{Name: name + "_" + c.Name, Schema: q, Span: c.Span})
		}
	}
	return out
}

// CheckCollisions reports generated identifiers declared twice within one Go
// package and returns the schemas involved. Nothing is renamed.
func CheckCollisions(schemas []model.Schema, r diag.Reporter) map[types.QualifiedName]bool {
	schemas = slices.Clone(schemas)
	slices.SortFunc(schemas, func(a, b model.Schema) int {
		return strings.Compare(a.Name().Name, b.Name().Name)
	})
	bad := make(map[types.QualifiedName]bool)
	seen := make(map[string]Ident)
	for _, s := range schemas {
		for _, id := range PackageIdents(s) {
			first, dup := seen[id.Name]
			if !dup {
				seen[id.Name] = id
				continue
			}
			diag.ReportError(r, diag.EmitNameCollision, id.Span,
				fmt.Sprintf("generated identifier %s of %s is also declared by %s", id.Name, id.Schema, first.Schema)).
				WithNote(first.Span, fmt.Sprintf("%s declares %s here", first.Schema, id.Name)).
				Emit()
			bad[id.Schema] = true
			bad[first.Schema] = true
		}
	}
	return bad
}
