// Package trace records what the generator is doing while it runs.
//
// Events are spans (begin/end pairs) and points, tagged with a Scope. The
// Level decides which scopes are kept:
//
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: plus one span per schema
//   - LevelDebug: everything
//
// Tracers:
//
//   - Nop: tracing disabled
//   - ZapTracer: writes every event through a zap core (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump on failure
//   - MultiTracer: fans out to several tracers
//
// The tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopePass, "resolve")
//	defer span.End("")
//
// After a panic the ring lists the spans that never ended (Unfinished), and
// a Heartbeat with no span ends since the previous beat is marked stalled.
package trace
