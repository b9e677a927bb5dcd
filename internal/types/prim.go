package types

// Prim enumerates fixed-width scalar kinds.
type Prim uint8

const (
	PrimInvalid Prim = iota
	PrimBool
	PrimInt8
	PrimUint8
	PrimInt16
	PrimUint16
	PrimInt32
	PrimUint32
	PrimInt64
	PrimUint64
	PrimFloat32
	PrimFloat64
)

// PrimInfo describes how a scalar is stored and spelled.
type PrimInfo struct {
	Name   string // IDL spelling
	GoType string
	CType  string // C type used in the rosidl_runtime_c headers
	Size   int    // bytes
	Bits   int
	Signed bool
	Float  bool
}

var primTable = [...]PrimInfo{
	PrimInvalid: {Name: "invalid"},
	PrimBool:    {Name: "bool", GoType: "bool", CType: "bool", Size: 1, Bits: 1},
	PrimInt8:    {Name: "int8", GoType: "int8", CType: "int8_t", Size: 1, Bits: 8, Signed: true},
	PrimUint8:   {Name: "uint8", GoType: "uint8", CType: "uint8_t", Size: 1, Bits: 8},
	PrimInt16:   {Name: "int16", GoType: "int16", CType: "int16_t", Size: 2, Bits: 16, Signed: true},
	PrimUint16:  {Name: "uint16", GoType: "uint16", CType: "uint16_t", Size: 2, Bits: 16},
	PrimInt32:   {Name: "int32", GoType: "int32", CType: "int32_t", Size: 4, Bits: 32, Signed: true},
	PrimUint32:  {Name: "uint32", GoType: "uint32", CType: "uint32_t", Size: 4, Bits: 32},
	PrimInt64:   {Name: "int64", GoType: "int64", CType: "int64_t", Size: 8, Bits: 64, Signed: true},
	PrimUint64:  {Name: "uint64", GoType: "uint64", CType: "uint64_t", Size: 8, Bits: 64},
	PrimFloat32: {Name: "float32", GoType: "float32", CType: "float", Size: 4, Bits: 32, Signed: true, Float: true},
	PrimFloat64: {Name: "float64", GoType: "float64", CType: "double", Size: 8, Bits: 64, Signed: true, Float: true},
}

// primByName maps IDL spellings, including the byte/char aliases.
var primByName = map[string]Prim{
	"bool":    PrimBool,
	"byte":    PrimUint8,
	"char":    PrimUint8,
	"int8":    PrimInt8,
	"uint8":   PrimUint8,
	"int16":   PrimInt16,
	"uint16":  PrimUint16,
	"int32":   PrimInt32,
	"uint32":  PrimUint32,
	"int64":   PrimInt64,
	"uint64":  PrimUint64,
	"float32": PrimFloat32,
	"float64": PrimFloat64,
}

// LookupPrim resolves an IDL scalar spelling.
func LookupPrim(name string) (Prim, bool) {
	p, ok := primByName[name]
	return p, ok
}

// AllPrims lists every valid scalar in declaration order.
func AllPrims() []Prim {
	out := make([]Prim, 0, len(primTable)-1)
	for p := PrimBool; int(p) < len(primTable); p++ {
		out = append(out, p)
	}
	return out
}

func (p Prim) Info() PrimInfo {
	if int(p) < len(primTable) {
		return primTable[p]
	}
	return primTable[PrimInvalid]
}

func (p Prim) String() string { return p.Info().Name }

// Sequence descriptor type name in rosidl_runtime_c, e.g. rosidl_runtime_c__int32__Sequence.
func (p Prim) CSequenceName() string {
	name := p.Info().Name
	switch p {
	case PrimBool:
		name = "boolean"
	case PrimFloat32:
		name = "float"
	case PrimFloat64:
		name = "double"
	}
	return "rosidl_runtime_c__" + name + "__Sequence"
}
