package trace

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // by file extension, text otherwise
	FormatText                 // zap console encoding
	FormatNDJSON               // zap JSON encoding, one event per line
)

// ParseFormat converts a string to Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
	}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		MessageKey:     "name",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
}

func newEncoder(format Format) zapcore.Encoder {
	if format == FormatNDJSON {
		return zapcore.NewJSONEncoder(encoderConfig())
	}
	return zapcore.NewConsoleEncoder(encoderConfig())
}

func entryOf(ev *Event) zapcore.Entry {
	return zapcore.Entry{Level: zapcore.InfoLevel, Time: ev.Time, Message: ev.Name}
}

// fieldsOf lists the event attributes; Extra keys are sorted.
func fieldsOf(ev *Event) []zap.Field {
	fields := make([]zap.Field, 0, 7+len(ev.Extra))
	fields = append(fields,
		zap.Uint64("seq", ev.Seq),
		zap.String("kind", ev.Kind.String()),
		zap.String("scope", ev.Scope.String()),
		zap.Uint64("span", ev.SpanID),
	)
	if ev.ParentID != 0 {
		fields = append(fields, zap.Uint64("parent", ev.ParentID))
	}
	if ev.GID != 0 {
		fields = append(fields, zap.Uint64("gid", ev.GID))
	}
	if ev.Detail != "" {
		fields = append(fields, zap.String("detail", ev.Detail))
	}
	for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
		fields = append(fields, zap.String(k, ev.Extra[k]))
	}
	return fields
}

// FormatEvent encodes one event as a single line.
func FormatEvent(ev *Event, format Format) []byte {
	buf, err := newEncoder(format).EncodeEntry(entryOf(ev), fieldsOf(ev))
	if err != nil {
		return nil
	}
	defer buf.Free()
	return append([]byte(nil), buf.Bytes()...)
}
