package trace

import (
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapTracer writes every event immediately through a zap core.
type ZapTracer struct {
	core   zapcore.Core
	level  Level
	closer io.Closer
}

// NewZapTracer creates a tracer writing to w. w is closed by Close unless it
// is stdout or stderr.
func NewZapTracer(w io.Writer, level Level, format Format) *ZapTracer {
	if format == FormatAuto {
		format = FormatText
	}
	t := &ZapTracer{
		core:  zapcore.NewCore(newEncoder(format), zapcore.Lock(zapcore.AddSync(w)), zapcore.DebugLevel),
		level: level,
	}
	if c, ok := w.(io.Closer); ok && w != os.Stderr && w != os.Stdout {
		t.closer = c
	}
	return t
}

// Emit writes an event; write errors are dropped so tracing never fails a run.
func (t *ZapTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	ev.Seq = NextSeq()
	_ = t.core.Write(entryOf(ev), fieldsOf(ev)) //nolint:errcheck
}

func (t *ZapTracer) Flush() error {
	if t.closer == nil {
		// sync on a terminal fails with EINVAL on some systems
		return nil
	}
	return t.core.Sync()
}

func (t *ZapTracer) Close() error {
	err := t.Flush()
	if t.closer != nil {
		err = multierr.Append(err, t.closer.Close())
	}
	return err
}

func (t *ZapTracer) Level() Level { return t.level }

func (t *ZapTracer) Enabled() bool { return t.level > LevelOff }

// Logger exposes the tracer's core as a zap logger for free-form messages.
func (t *ZapTracer) Logger() *zap.Logger { return zap.New(t.core) }
