package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Tracer receives trace events. Implementations are goroutine-safe: passes
// emit from the worker pool.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled reports Level > LevelOff.
	Enabled() bool
}

// StorageMode selects where events go: written out as they happen, kept in
// a ring for a crash dump, or both.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = map[StorageMode]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

func (m StorageMode) streams() bool { return m == ModeStream || m == ModeBoth }
func (m StorageMode) rings() bool   { return m == ModeRing || m == ModeBoth }

// ParseMode reads a --trace-mode value.
func ParseMode(s string) (StorageMode, error) {
	s = strings.ToLower(s)
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config is what the --trace* flags select.
type Config struct {
	Level  Level
	Mode   StorageMode
	Format Format
	// Output receives the stream; OutputPath ("-" or "" for stderr) is
	// opened when it is nil.
	Output     io.Writer
	OutputPath string
	RingSize   int           // default 4096
	Heartbeat  time.Duration // read by the caller; 0 = disabled
}

// New builds the tracer of cfg: Nop when the level is off, otherwise one
// sink per storage the mode asks for.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode.String() == "unknown" {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}

	var sinks []Tracer
	if cfg.Mode.streams() {
		w, err := openStream(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, NewZapTracer(w, cfg.Level, formatFor(cfg)))
	}
	if cfg.Mode.rings() {
		sinks = append(sinks, NewRingTracer(cfg.RingSize, cfg.Level))
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return NewMultiTracer(cfg.Level, sinks...), nil
}

// formatFor resolves FormatAuto: NDJSON for .ndjson and .json paths, text
// otherwise.
func formatFor(cfg Config) Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	switch filepath.Ext(cfg.OutputPath) {
	case ".ndjson", ".json":
		return FormatNDJSON
	}
	return FormatText
}

func openStream(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}
