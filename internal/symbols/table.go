// Package symbols is the invocation-wide registry of schema names.
//
// The table is built in two phases. During pass 1 a single goroutine declares
// every message, service and service half in input order. Freeze then ends the
// build phase; from that point the name index is read-only and pass 2 may fill
// each slot with its resolved spec concurrently, one writer per slot.
package symbols

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"rosgen/internal/model"
	"rosgen/internal/source"
	"rosgen/internal/types"
)

// SymbolID indexes Table.syms; 0 is reserved.
type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// Kind of a declared name.
type Kind uint8

const (
	KindMessage Kind = iota + 1
	KindService
	KindRequest
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindService:
		return "service"
	case KindRequest:
		return "service request"
	case KindResponse:
		return "service response"
	}
	return "invalid"
}

// Referenceable reports whether fields may use the symbol as a type.
func (k Kind) Referenceable() bool { return k == KindMessage }

// Namespace separates msg and srv names: a message Foo and a service Foo may coexist.
type Namespace uint8

const (
	NamespaceMsg Namespace = iota
	NamespaceSrv
)

// Symbol is one declared name plus its resolution slot.
type Symbol struct {
	Name types.QualifiedName
	Kind Kind
	File source.FileID
	Span source.Span

	message *model.MessageSpec
	service *model.ServiceSpec
}

type key struct {
	ns Namespace
	q  types.QualifiedName
}

// Table maps package-qualified names to symbols.
type Table struct {
	syms   []Symbol
	index  map[key]SymbolID
	frozen bool
}

// NewTable builds an empty table; hint is the expected number of symbols.
func NewTable(hint uint) *Table {
	capHint, err := safecast.Conv[int](hint)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	t := &Table{
		syms:  make([]Symbol, 1, capHint+1),
		index: make(map[key]SymbolID, capHint),
	}
	return t
}

func nsOf(k Kind) Namespace {
	if k == KindMessage {
		return NamespaceMsg
	}
	return NamespaceSrv
}

// Declare registers a name. When the name already exists in the same
// namespace it returns the previous symbol and false. Declaring after Freeze
// is a programming error.
func (t *Table) Declare(q types.QualifiedName, kind Kind, file source.FileID, span source.Span) (SymbolID, bool) {
	if t.frozen {
		panic("symbols: Declare after Freeze")
	}
	k := key{ns: nsOf(kind), q: q}
	if prev, ok := t.index[k]; ok {
		return prev, false
	}
	n, err := safecast.Conv[uint32](len(t.syms))
	if err != nil {
		panic(fmt.Errorf("symbol count overflow: %w", err))
	}
	id := SymbolID(n)
	t.syms = append(t.syms, Symbol{Name: q, Kind: kind, File: file, Span: span})
	t.index[k] = id
	return id, true
}

// Freeze ends pass 1. After it the index never changes.
func (t *Table) Freeze() { t.frozen = true }

func (t *Table) Frozen() bool { return t.frozen }

// Lookup finds a message by qualified name.
func (t *Table) Lookup(q types.QualifiedName) (SymbolID, bool) {
	id, ok := t.index[key{ns: NamespaceMsg, q: q}]
	return id, ok
}

// LookupIn finds a name in a specific namespace.
func (t *Table) LookupIn(ns Namespace, q types.QualifiedName) (SymbolID, bool) {
	id, ok := t.index[key{ns: ns, q: q}]
	return id, ok
}

// Get returns the symbol for id.
func (t *Table) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.syms) {
		return nil
	}
	return &t.syms[id]
}

// Len returns the number of declared symbols.
func (t *Table) Len() int { return len(t.syms) - 1 }

// FillMessage stores the resolved spec of a message or service half.
// Only legal after Freeze; each slot has a single writer.
func (t *Table) FillMessage(id SymbolID, spec *model.MessageSpec) {
	sym := t.mustFrozen(id)
	sym.message = spec
}

// FillService stores the resolved spec of a service.
func (t *Table) FillService(id SymbolID, spec *model.ServiceSpec) {
	sym := t.mustFrozen(id)
	sym.service = spec
}

func (t *Table) mustFrozen(id SymbolID) *Symbol {
	if !t.frozen {
		panic("symbols: Fill before Freeze")
	}
	sym := t.Get(id)
	if sym == nil {
		panic(fmt.Sprintf("symbols: invalid SymbolID %d", id))
	}
	return sym
}

// Message returns the resolved spec, or nil when resolution failed or has not run.
func (t *Table) Message(id SymbolID) *model.MessageSpec {
	if sym := t.Get(id); sym != nil {
		return sym.message
	}
	return nil
}

func (t *Table) Service(id SymbolID) *model.ServiceSpec {
	if sym := t.Get(id); sym != nil {
		return sym.service
	}
	return nil
}

// MessageByName resolves a qualified name straight to its spec.
func (t *Table) MessageByName(q types.QualifiedName) *model.MessageSpec {
	id, ok := t.Lookup(q)
	if !ok {
		return nil
	}
	return t.Message(id)
}

// Symbols returns every declared symbol ordered by namespace then name.
func (t *Table) Symbols() []SymbolID {
	out := make([]SymbolID, 0, t.Len())
	for i := 1; i < len(t.syms); i++ {
		out = append(out, SymbolID(i)) //nolint:gosec // bounded by Declare
	}
	sort.SliceStable(out, func(a, b int) bool {
		sa, sb := &t.syms[out[a]], &t.syms[out[b]]
		if nsOf(sa.Kind) != nsOf(sb.Kind) {
			return nsOf(sa.Kind) < nsOf(sb.Kind)
		}
		return sa.Name.Less(sb.Name)
	})
	return out
}
