package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat emits a liveness event every interval. Each beat carries the
// number of spans that ended since the previous one; a beat with none is
// marked stalled, which points at a pass or schema that stopped progressing.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// StartHeartbeat starts beating; nil when tracing is off or interval <= 0.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Heartbeat) loop() {
	defer close(h.done)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	last := spanEnds.Load()
	for beat := uint64(1); ; beat++ {
		select {
		case <-h.quit:
			return
		case now := <-ticker.C:
			ends := spanEnds.Load()
			h.tracer.Emit(beatEvent(now, beat, ends-last))
			last = ends
		}
	}
}

func beatEvent(at time.Time, beat, ended uint64) *Event {
	ev := &Event{
		Time:   at,
		Seq:    NextSeq(),
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		GID:    goroutineID(),
		Name:   "heartbeat",
		Detail: fmt.Sprintf("#%d", beat),
		Extra:  map[string]string{"ended": fmt.Sprint(ended)},
	}
	if ended == 0 {
		ev.Extra["stalled"] = "true"
	}
	return ev
}

// Stop ends the beat and waits for the goroutine. Safe on nil and repeated
// calls.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.quit) })
	<-h.done
}
