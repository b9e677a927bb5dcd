package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rosgen/internal/prof"
	"rosgen/internal/trace"
)

// session holds what the persistent flags set up for one command.
type session struct {
	log       *zap.Logger
	tracer    trace.Tracer
	heartbeat *trace.Heartbeat
	profiler  *prof.Session
	closed    bool
}

var current = &session{log: zap.NewNop(), tracer: trace.Nop}

// errReported fails the command after diagnostics were printed.
var errReported = errors.New("diagnostics reported")

func setupSession(cmd *cobra.Command, _ []string) error {
	root := cmd.Root().PersistentFlags()

	colorFlag, err := root.GetString("color")
	if err != nil {
		return err
	}
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	verbose, err := root.GetBool("verbose")
	if err != nil {
		return err
	}
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return err
	}
	s := &session{tracer: trace.Nop}
	if s.log, err = newLogger(verbose, quiet); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	current = s

	if err := setupTracing(cmd, s); err != nil {
		return err
	}
	return setupProfiling(cmd, s)
}

// newLogger writes console-encoded records to stderr: warnings by default,
// debug with --verbose, errors only with --quiet.
func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	switch {
	case verbose:
		level = zapcore.DebugLevel
	case quiet:
		level = zapcore.ErrorLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.DisableCaller = !verbose
	cfg.EncoderConfig.TimeKey = ""
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if color.NoColor {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg.Build()
}

func setupProfiling(cmd *cobra.Command, s *session) error {
	root := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = root.GetString("cpu-profile"); err != nil {
		return err
	}
	if opts.Mem, err = root.GetString("mem-profile"); err != nil {
		return err
	}
	if opts.Trace, err = root.GetString("runtime-trace"); err != nil {
		return err
	}
	if opts == (prof.Options{}) {
		return nil
	}
	if s.profiler, err = prof.Start(opts); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	return nil
}

// closeSession stops profilers and tracing and flushes the logger. It runs
// from PersistentPostRunE and again from main, since cobra skips post-run
// hooks when the command fails.
func closeSession() error {
	s := current
	if s.closed {
		return nil
	}
	s.closed = true
	var errs []error
	if s.heartbeat != nil {
		s.heartbeat.Stop()
	}
	if err := s.profiler.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("profiling: %w", err))
	}
	if err := s.tracer.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("trace: flush error: %w", err))
	}
	if err := s.tracer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("trace: close error: %w", err))
	}
	_ = s.log.Sync()
	err := errors.Join(errs...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}
