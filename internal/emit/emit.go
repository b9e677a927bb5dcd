// Package emit writes Go bindings for resolved messages and services.
//
// Every schema becomes one gofmt-formatted file. Each message X gets a safe
// Go value type X and its rosidl_runtime_c mirror X_C, together with the
// constructors, Clone, Fini and the ToC/ToGo conversions. Which statements
// appear for a field is decided by its layout.FieldPlan only.
package emit

import (
	"fmt"
	"go/format"
	"path"

	"rosgen/internal/diag"
	"rosgen/internal/layout"
	"rosgen/internal/model"
	"rosgen/internal/source"
	"rosgen/internal/types"
)

// DefaultRuntimeImport is the support runtime imported by generated code.
const DefaultRuntimeImport = "rosgen/runtime/rosidl"

// Options shape import paths of generated files.
type Options struct {
	// GoPrefix is prepended to "<pkg>/msg" import paths of generated packages.
	GoPrefix string
	// RuntimeImport replaces DefaultRuntimeImport when set.
	RuntimeImport string
}

func (o Options) runtimeImport() string {
	if o.RuntimeImport == "" {
		return DefaultRuntimeImport
	}
	return o.RuntimeImport
}

// MsgImportPath is the Go import path of a ROS package's messages.
func (o Options) MsgImportPath(pkg string) string {
	return path.Join(o.GoPrefix, pkg, "msg")
}

// Emitter is safe for concurrent use: every call builds its own generator.
type Emitter struct {
	Types   *types.Interner
	Options Options
}

// New creates an Emitter.
func New(typesIn *types.Interner, opts Options) *Emitter {
	return &Emitter{Types: typesIn, Options: opts}
}

// File is one generated output file.
type File struct {
	// Path is slash-separated and relative to the output directory.
	Path    string
	Content []byte
}

// Unit is a resolved schema together with the plans of its messages, in
// model.Schema.Messages order.
type Unit struct {
	Schema model.Schema
	Plans  []*layout.MessagePlan
}

// GoPackageDir is "<pkg>/msg" or "<pkg>/srv".
func (u Unit) GoPackageDir() string {
	q := u.Schema.Name()
	if u.Schema.Service != nil {
		return path.Join(q.Package, "srv")
	}
	return path.Join(q.Package, "msg")
}

// SchemaPath is the output path of the unit's file.
func (u Unit) SchemaPath() string {
	return path.Join(u.GoPackageDir(), FileStem(u.Schema.Name().Name)+"_gen.go")
}

// EmitSchema generates the file of one schema. Problems are reported to r
// and make the whole file fail.
func (e *Emitter) EmitSchema(u Unit, r diag.Reporter) (*File, bool) {
	msgs := u.Schema.Messages()
	if len(msgs) == 0 || len(u.Plans) != len(msgs) {
		diag.ReportError(r, diag.EmitInternal, schemaSpan(u.Schema),
			fmt.Sprintf("%s: %d layout plans for %d messages", u.Schema.Name(), len(u.Plans), len(msgs))).Emit()
		return nil, false
	}
	g := newFileGen(e, u.Schema.Name().Package, iface(u.Schema))
	if u.Schema.Service != nil {
		g.serviceHeader(u.Schema.Service)
	}
	ok := true
	for i, msg := range msgs {
		if !g.message(msg, u.Plans[i], r) {
			ok = false
		}
	}
	if !ok {
		return nil, false
	}
	src, err := g.finish(schemaSource(u.Schema))
	if err != nil {
		diag.ReportError(r, diag.EmitFormatFailed, schemaSpan(u.Schema),
			fmt.Sprintf("generated source for %s does not format: %v", u.Schema.Name(), err)).Emit()
		return nil, false
	}
	return &File{Path: u.SchemaPath(), Content: src}, true
}

func iface(s model.Schema) string {
	if s.Service != nil {
		return "srv"
	}
	return "msg"
}

func schemaSpan(s model.Schema) (sp source.Span) {
	switch {
	case s.Service != nil:
		return s.Service.Span
	case s.Message != nil:
		return s.Message.Span
	}
	return sp
}

// schemaSource is the file name recorded in the generated header.
func schemaSource(s model.Schema) string {
	q := s.Name()
	kind := iface(s)
	return fmt.Sprintf("%s/%s/%s.%s", q.Package, kind, q.Name, kind)
}

func formatSource(src []byte) ([]byte, error) {
	return format.Source(src)
}
