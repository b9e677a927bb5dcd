package sema

import (
	"fmt"

	"rosgen/internal/ast"
	"rosgen/internal/diag"
	"rosgen/internal/model"
	"rosgen/internal/source"
	"rosgen/internal/symbols"
	"rosgen/internal/types"
)

// Resolver resolves declarations against a frozen symbol table. It holds no
// per-file state, so one Resolver serves every goroutine of pass 2.
type Resolver struct {
	Files   *source.FileSet
	Types   *types.Interner
	Symbols *symbols.Table
	// NoStyle disables the snake_case / UPPER_CASE warnings.
	NoStyle bool
}

// Result of resolving one file.
type Result struct {
	Schema model.Schema
	Errors int
}

func (r Result) OK() bool { return r.Errors == 0 }

// ResolveFile builds the MessageSpec/ServiceSpec for a declared file and, when
// no error was found, fills the file's symbol slots.
func (rs *Resolver) ResolveFile(d Declared, rep diag.Reporter) Result {
	if !rs.Symbols.Frozen() {
		panic("sema: ResolveFile before the symbol table is frozen")
	}
	f := d.File
	if f == nil || len(d.IDs) == 0 {
		return Result{}
	}
	cr := &countingReporter{next: rep}
	path := ""
	if file := rs.Files.Get(f.Source); file != nil {
		path = file.Path
	}
	q := types.QualifiedName{Package: f.Package, Name: f.Name}

	var res Result
	switch f.Kind {
	case ast.SchemaMessage:
		msg := rs.resolveBlock(f, f.Blocks[0], q, model.RoleMessage, "", path, cr)
		res.Schema.Message = msg
		if cr.errors == 0 {
			rs.Symbols.FillMessage(d.IDs[0], msg)
		}
	case ast.SchemaService:
		if len(f.Blocks) != 2 || len(d.IDs) != 3 {
			return Result{Errors: 1}
		}
		svc := &model.ServiceSpec{Name: q, File: f.Source, Path: path, Span: f.Span}
		svc.Request = rs.resolveBlock(f, f.Blocks[0], halfName(q, model.RoleRequest), model.RoleRequest, q.Name, path, cr)
		svc.Response = rs.resolveBlock(f, f.Blocks[1], halfName(q, model.RoleResponse), model.RoleResponse, q.Name, path, cr)
		res.Schema.Service = svc
		if cr.errors == 0 {
			rs.Symbols.FillService(d.IDs[0], svc)
			rs.Symbols.FillMessage(d.IDs[1], svc.Request)
			rs.Symbols.FillMessage(d.IDs[2], svc.Response)
		}
	default:
		panic(fmt.Sprintf("sema: unexpected schema kind %d", f.Kind))
	}
	res.Errors = cr.errors
	return res
}

func (rs *Resolver) resolveBlock(f *ast.File, b *ast.Block, q types.QualifiedName, role model.Role, service, path string, r diag.Reporter) *model.MessageSpec {
	msg := &model.MessageSpec{
		Name:    q,
		Role:    role,
		Service: service,
		File:    f.Source,
		Path:    path,
		Span:    b.Span,
	}
	if b.Span.Empty() {
		msg.Span = f.Span
	}

	checkDuplicates(b.Decls, r)

	for _, d := range b.Decls {
		typ, ok := rs.resolveType(d.Type, f.Package, r)
		switch d.Kind {
		case ast.DeclConstant:
			c := model.ConstantSpec{
				Name:     d.Name,
				TypeText: d.Type.String(),
				Type:     typ,
				Span:     d.Span,
				Line:     d.Line,
				Doc:      d.Doc,
				Comment:  d.Comment,
			}
			if !rs.NoStyle {
				checkConstantName(d, r)
			}
			if ok {
				if v, ok := rs.checkConstant(d, typ, r); ok {
					c.Value = v
				}
			}
			msg.Constants = append(msg.Constants, c)
		case ast.DeclField:
			fs := model.FieldSpec{
				Name:     d.Name,
				TypeText: d.Type.String(),
				Type:     typ,
				Span:     d.Span,
				Line:     d.Line,
				Doc:      d.Doc,
				Comment:  d.Comment,
			}
			if !rs.NoStyle {
				checkFieldName(d, r)
			}
			if ok && d.Value != nil {
				if v, ok := rs.checkDefault(d, typ, r); ok {
					fs.Default = &v
				}
			}
			msg.Fields = append(msg.Fields, fs)
		}
	}
	return msg
}

type countingReporter struct {
	next   diag.Reporter
	errors int
}

func (c *countingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev == diag.SevError {
		c.errors++
	}
	if c.next != nil {
		c.next.Report(code, sev, primary, msg, notes)
	}
}
