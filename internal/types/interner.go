package types

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the scalar and text types.
type Builtins struct {
	Invalid TypeID
	Text    TypeID // unbounded string
	prims   [len(primTable)]TypeID
}

// Prim returns the TypeID of a scalar.
func (b Builtins) Prim(p Prim) TypeID {
	if int(p) >= len(b.prims) {
		return NoTypeID
	}
	return b.prims[p]
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Resolution interns from several goroutines, so all access is guarded.
type Interner struct {
	mu       sync.RWMutex
	types    []Type
	index    map[typeKey]TypeID
	names    []QualifiedName
	nameIdx  map[QualifiedName]uint32
	builtins Builtins
}

// NewInterner constructs an interner seeded with every scalar and the unbounded string.
func NewInterner() *Interner {
	in := &Interner{
		index:   make(map[typeKey]TypeID, 64),
		nameIdx: make(map[QualifiedName]uint32, 16),
	}
	in.names = append(in.names, QualifiedName{}) // reserve 0 as invalid sentinel
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	for _, p := range AllPrims() {
		in.builtins.prims[p] = in.internRaw(Type{Kind: KindPrimitive, Prim: p})
	}
	in.builtins.Text = in.internRaw(Type{Kind: KindText, Count: Unbounded})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	in.mu.RLock()
	id, ok := in.index[key]
	in.mu.RUnlock()
	if ok {
		return id
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
// Caller holds the write lock (or is the constructor).
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Text interns a string type; bound == Unbounded means no limit.
func (in *Interner) Text(bound uint32) TypeID {
	return in.Intern(Type{Kind: KindText, Count: bound})
}

// FixedArray interns T[n].
func (in *Interner) FixedArray(elem TypeID, n uint32) TypeID {
	return in.Intern(Type{Kind: KindFixedArray, Elem: elem, Count: n})
}

// Sequence interns T[] or T[<=bound].
func (in *Interner) Sequence(elem TypeID, bound uint32) TypeID {
	return in.Intern(Type{Kind: KindSequence, Elem: elem, Count: bound})
}

// Nested interns a reference to a message by qualified name.
func (in *Interner) Nested(q QualifiedName) TypeID {
	in.mu.Lock()
	idx, ok := in.nameIdx[q]
	if !ok {
		n, err := safecast.Conv[uint32](len(in.names))
		if err != nil {
			in.mu.Unlock()
			panic(fmt.Errorf("len(names) overflow: %w", err))
		}
		idx = n
		in.names = append(in.names, q)
		in.nameIdx[q] = idx
	}
	in.mu.Unlock()
	return in.Intern(Type{Kind: KindNested, Name: idx})
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// NestedName returns the message a KindNested type points to.
func (in *Interner) NestedName(id TypeID) (QualifiedName, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindNested {
		return QualifiedName{}, false
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(tt.Name) >= len(in.names) {
		return QualifiedName{}, false
	}
	return in.names[tt.Name], true
}

// Leaf strips array and sequence wrappers.
func (in *Interner) Leaf(id TypeID) TypeID {
	for {
		tt, ok := in.Lookup(id)
		if !ok || (tt.Kind != KindFixedArray && tt.Kind != KindSequence) {
			return id
		}
		id = tt.Elem
	}
}

// Format renders a type in IDL syntax: "int32[3]", "string<=8", "geometry_msgs/Point[<=4]".
func (in *Interner) Format(id TypeID) string {
	var sb strings.Builder
	in.format(&sb, id)
	return sb.String()
}

func (in *Interner) format(sb *strings.Builder, id TypeID) {
	tt, ok := in.Lookup(id)
	if !ok {
		sb.WriteString("<invalid>")
		return
	}
	switch tt.Kind {
	case KindPrimitive:
		sb.WriteString(tt.Prim.String())
	case KindText:
		sb.WriteString("string")
		if tt.Count != Unbounded {
			sb.WriteString("<=")
			sb.WriteString(strconv.FormatUint(uint64(tt.Count), 10))
		}
	case KindFixedArray:
		in.format(sb, tt.Elem)
		sb.WriteString("[" + strconv.FormatUint(uint64(tt.Count), 10) + "]")
	case KindSequence:
		in.format(sb, tt.Elem)
		if tt.Count == Unbounded {
			sb.WriteString("[]")
		} else {
			sb.WriteString("[<=" + strconv.FormatUint(uint64(tt.Count), 10) + "]")
		}
	case KindNested:
		q, _ := in.NestedName(id)
		sb.WriteString(q.String())
	default:
		sb.WriteString("<invalid>")
	}
}

type typeKey struct {
	Kind  Kind
	Prim  Prim
	Elem  TypeID
	Count uint32
	Name  uint32
}
