package trace

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
	// spanEnds counts emitted span ends; Heartbeat reads it to spot stalls.
	spanEnds atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// goroutineID reads N from the "goroutine N [running]:" header of the
// current stack. Passes run on a worker pool, so it tells workers apart.
func goroutineID() uint64 {
	var buf [64]byte
	header := strings.Fields(string(buf[:runtime.Stack(buf[:], false)]))
	if len(header) < 2 || header[0] != "goroutine" {
		return 0
	}
	id, err := strconv.ParseUint(header[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Span is one begin/end pair. The zero and nil Span are inert.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	attrs   map[string]string
	ended   atomic.Bool
}

// Begin emits the begin event of a span under parent (0 for a root span).
// Below the tracer's level it returns an inert span.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{
		tracer:  t,
		id:      NextSpanID(),
		parent:  parent,
		gid:     goroutineID(),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	ev := &Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
	}
	if kind == KindSpanEnd {
		ev.Extra = s.attrs
	}
	return ev
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.tracer != Nop && !s.ended.Load()
}

// Set records an attribute for the end event, formatted with fmt.Sprint.
func (s *Span) Set(key string, value any) *Span {
	if !s.live() {
		return s
	}
	if s.attrs == nil {
		s.attrs = make(map[string]string)
	}
	s.attrs[key] = fmt.Sprint(value)
	return s
}

// End emits the end event once and returns the span's duration. Later calls
// return 0.
func (s *Span) End(detail string) time.Duration {
	if !s.live() || !s.ended.CompareAndSwap(false, true) {
		return 0
	}
	now := time.Now()
	s.tracer.Emit(s.event(KindSpanEnd, now, detail))
	spanEnds.Add(1)
	return now.Sub(s.started)
}

// Fail ends the span with detail "failed" and err as the "error" attribute.
func (s *Span) Fail(err error) time.Duration {
	if err != nil {
		s.Set("error", err.Error())
	}
	return s.End("failed")
}

// ID returns the span ID, 0 for a nil or inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		GID:      goroutineID(),
		Name:     name,
		Detail:   detail,
	})
}
