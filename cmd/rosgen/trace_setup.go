package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rosgen/internal/trace"
)

// setupTracing inspects trace-related flags, creates the tracer and attaches
// it to the command context.
func setupTracing(cmd *cobra.Command, s *session) error {
	root := cmd.Root().PersistentFlags()

	traceOutput, err := root.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := root.GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	modeStr, err := root.GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := root.GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := root.GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня включает phase
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return fmt.Errorf("invalid trace format: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	s.tracer = tracer

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	if heartbeatInterval > 0 {
		s.heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}
	return nil
}

// ringOf returns the in-memory ring of a ring or both-mode tracer.
func ringOf(t trace.Tracer) *trace.RingTracer {
	switch t := t.(type) {
	case *trace.RingTracer:
		return t
	case *trace.MultiTracer:
		return t.Ring()
	}
	return nil
}

// dumpTraceOnPanic prints the ring buffer to stderr before re-panicking, so
// the events leading to a crash are not lost.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	if ring := ringOf(current.tracer); ring != nil {
		fmt.Fprintln(os.Stderr, "== trace (last events) ==")
		_ = ring.Dump(os.Stderr, trace.FormatText)
		for _, ev := range ring.Unfinished() {
			fmt.Fprintf(os.Stderr, "unfinished: %s %s (span %d)\n", ev.Scope, ev.Name, ev.SpanID)
		}
	}
	panic(r)
}
