// Package model is the resolved semantic model: messages and services whose
// field types are interned types.TypeID values. Specs are built by sema and
// read (never mutated) by layout and emit.
package model

import (
	"rosgen/internal/source"
	"rosgen/internal/types"
)

// Role tells a plain message apart from the two halves of a service.
type Role uint8

const (
	RoleMessage Role = iota
	RoleRequest
	RoleResponse
)

func (r Role) String() string {
	switch r {
	case RoleRequest:
		return "request"
	case RoleResponse:
		return "response"
	default:
		return "message"
	}
}

// Suffix is appended to the service name to form the half's message name.
func (r Role) Suffix() string {
	switch r {
	case RoleRequest:
		return "_Request"
	case RoleResponse:
		return "_Response"
	default:
		return ""
	}
}

// FieldSpec is one resolved field. Field order inside a message is significant.
type FieldSpec struct {
	Name     string
	TypeText string // as declared, e.g. "string<=8[3]"
	Type     types.TypeID
	Default  *Value
	Span     source.Span
	Line     uint32
	Doc      []string
	Comment  string
}

// ConstantSpec is a named immutable value attached to a message.
type ConstantSpec struct {
	Name     string
	TypeText string
	Type     types.TypeID
	Value    Value
	Span     source.Span
	Line     uint32
	Doc      []string
	Comment  string
}

// MessageSpec is a fully resolved message or service half.
type MessageSpec struct {
	Name      types.QualifiedName // service halves: Name = Service + Role.Suffix()
	Role      Role
	Service   string // owning service for request/response halves
	Fields    []FieldSpec
	Constants []ConstantSpec
	File      source.FileID
	Path      string
	Span      source.Span
}

// Field returns the field named name, if any.
func (m *MessageSpec) Field(name string) (*FieldSpec, bool) {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i], true
		}
	}
	return nil, false
}

// Interface is "msg" for messages and "srv" for service halves.
func (m *MessageSpec) Interface() string {
	if m.Role == RoleMessage {
		return "msg"
	}
	return "srv"
}

// ServiceSpec pairs the request and response of a .srv schema.
type ServiceSpec struct {
	Name     types.QualifiedName
	Request  *MessageSpec
	Response *MessageSpec
	File     source.FileID
	Path     string
	Span     source.Span
}

// Halves returns request and response in emission order.
func (s *ServiceSpec) Halves() []*MessageSpec {
	return []*MessageSpec{s.Request, s.Response}
}

// Schema is the resolved result for a single input file: exactly one of
// Message and Service is set.
type Schema struct {
	Message *MessageSpec
	Service *ServiceSpec
}

// Name returns the qualified name of the schema.
func (s Schema) Name() types.QualifiedName {
	if s.Service != nil {
		return s.Service.Name
	}
	if s.Message != nil {
		return s.Message.Name
	}
	return types.QualifiedName{}
}

// Messages lists every message spec produced by the schema.
func (s Schema) Messages() []*MessageSpec {
	switch {
	case s.Service != nil:
		return s.Service.Halves()
	case s.Message != nil:
		return []*MessageSpec{s.Message}
	}
	return nil
}
