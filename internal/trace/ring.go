package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last N events in memory for a dump after a crash.
type RingTracer struct {
	mu      sync.RWMutex
	buf     []Event
	written uint64 // events stored so far; the next slot is written % len(buf)
	level   Level
}

// NewRingTracer keeps up to capacity events (4096 when capacity <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	t.buf[t.written%uint64(len(t.buf))] = stored
	t.written++
	t.mu.Unlock()
}

// Snapshot copies the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	size := uint64(len(t.buf))
	n := min(t.written, size)
	out := make([]Event, 0, n)
	for i := t.written - n; i < t.written; i++ {
		out = append(out, t.buf[i%size])
	}
	return out
}

// Unfinished returns the begin events, oldest first, whose end is not in
// the ring: the passes and schemas that were in flight when it was taken.
// Spans whose begin was already overwritten are not reported.
func (t *RingTracer) Unfinished() []Event {
	events := t.Snapshot()
	ended := make(map[uint64]bool)
	for i := range events {
		if events[i].Kind == KindSpanEnd {
			ended[events[i].SpanID] = true
		}
	}
	var open []Event
	for i := range events {
		if events[i].Kind == KindSpanBegin && !ended[events[i].SpanID] {
			open = append(open, events[i])
		}
	}
	return open
}

// Dump writes the stored events, oldest first, one per line.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return writeEvents(w, t.Snapshot(), format)
}

func writeEvents(w io.Writer, events []Event, format Format) error {
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
