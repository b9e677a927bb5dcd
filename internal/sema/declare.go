// Package sema turns parsed schemas into the resolved semantic model.
//
// Work is split the way the symbol table requires: Declare runs sequentially
// over every file before the table is frozen, ResolveFile may run for many
// files at once afterwards, and CheckCycles runs once all files are resolved.
package sema

import (
	"fmt"

	"rosgen/internal/ast"
	"rosgen/internal/diag"
	"rosgen/internal/model"
	"rosgen/internal/symbols"
	"rosgen/internal/types"
)

// Declared lists the symbols a file registered, in a fixed order:
// messages yield [message]; services yield [service, request, response].
type Declared struct {
	File *ast.File
	IDs  []symbols.SymbolID
}

// Declare registers the names a schema file defines. Duplicates are reported
// with a note pointing at the first definition; the duplicate file is then
// not resolved, so IDs is nil.
func Declare(table *symbols.Table, f *ast.File, r diag.Reporter) Declared {
	out := Declared{File: f}
	if f == nil {
		return out
	}
	q := types.QualifiedName{Package: f.Package, Name: f.Name}

	if f.Kind == ast.SchemaMessage {
		id, ok := declareOne(table, q, symbols.KindMessage, f, r)
		if !ok {
			return out
		}
		out.IDs = []symbols.SymbolID{id}
		return out
	}

	svc, ok := declareOne(table, q, symbols.KindService, f, r)
	if !ok {
		return out
	}
	req, okReq := declareOne(table, halfName(q, model.RoleRequest), symbols.KindRequest, f, r)
	resp, okResp := declareOne(table, halfName(q, model.RoleResponse), symbols.KindResponse, f, r)
	if !okReq || !okResp {
		return out
	}
	out.IDs = []symbols.SymbolID{svc, req, resp}
	return out
}

func declareOne(table *symbols.Table, q types.QualifiedName, kind symbols.Kind, f *ast.File, r diag.Reporter) (symbols.SymbolID, bool) {
	id, ok := table.Declare(q, kind, f.Source, f.Span)
	if ok {
		return id, true
	}
	prev := table.Get(id)
	diag.ReportError(r, diag.SemaDuplicateMessage, f.Span,
		fmt.Sprintf("%s %s is defined more than once", kind, q)).
		WithNote(prev.Span, "first definition is here").
		Emit()
	return symbols.NoSymbolID, false
}

func halfName(q types.QualifiedName, role model.Role) types.QualifiedName {
	return types.QualifiedName{Package: q.Package, Name: q.Name + role.Suffix()}
}
