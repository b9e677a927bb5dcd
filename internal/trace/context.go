package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// FromContext returns the tracer of ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer attaches t to ctx; nil means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// SpanFrom returns the innermost span started with Start, or nil. A nil span
// is valid everywhere: its ID is 0 and End does nothing.
func SpanFrom(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(spanKey{}).(*Span)
	return s
}

// Start begins a span under the span of ctx, using the tracer of ctx, and
// returns a context carrying the new span.
//
//	span, ctx := trace.Start(ctx, trace.ScopePass, "layout")
//	defer span.End("")
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	s := Begin(FromContext(ctx), scope, name, SpanFrom(ctx).ID())
	if s.tracer == Nop {
		return s, ctx
	}
	return s, context.WithValue(ctx, spanKey{}, s)
}
