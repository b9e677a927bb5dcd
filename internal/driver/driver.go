// Package driver runs the generator over a set of schema packages:
// load, parse, declare, resolve, cycle check, layout, emit and write.
//
// Parse, resolve and layout+emit run in parallel per file; declare and the
// cycle check run once between them. Diagnostics are collected per file and
// merged in input order, so output does not depend on scheduling.
package driver

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"rosgen/internal/buildpipeline"
	"rosgen/internal/diag"
	"rosgen/internal/emit"
	"rosgen/internal/layout"
	"rosgen/internal/observ"
	"rosgen/internal/source"
	"rosgen/internal/types"
)

// PackageInput is one ROS package and its schema files.
type PackageInput struct {
	Name  string
	Files []string
	// Emit selects whether bindings are written. Packages with Emit unset are
	// resolved so other packages can reference their messages.
	Emit bool
}

// Request describes one generator invocation.
type Request struct {
	Packages      []PackageInput
	OutDir        string
	GoPrefix      string
	RuntimeImport string
	// Target defaults to x86_64-linux-gnu when Triple is empty.
	Target         layout.Target
	Jobs           int // <= 0 means GOMAXPROCS
	MaxDiagnostics int
	// NoStyle disables the naming style warnings.
	NoStyle bool
	// DryRun runs every pass and writes nothing.
	DryRun   bool
	Cache    *DiskCache
	Progress buildpipeline.ProgressSink
	Observer PhaseObserver
	Logger   *zap.Logger
	// BaseDir shortens file names in progress events.
	BaseDir string
}

// Result of Generate.
type Result struct {
	FileSet *source.FileSet
	Bag     *diag.Bag
	// Files are the generated files sorted by path, also on DryRun.
	Files []*emit.File
	// Written and Unchanged partition Files after writing (paths relative to OutDir).
	Written   []string
	Unchanged []string
	// Skipped lists messages left out because they or a message they contain
	// failed.
	Skipped []types.QualifiedName
	// UpToDate: the generation cache matched and nothing was touched.
	UpToDate bool
	Timings  observ.Report
}

// OK reports a run without error diagnostics.
func (r *Result) OK() bool { return r != nil && r.Bag != nil && !r.Bag.HasErrors() }

// Err joins the error diagnostics, see diag.Bag.Err.
func (r *Result) Err() error {
	if r == nil || r.Bag == nil {
		return nil
	}
	return r.Bag.Err(r.FileSet)
}

func (req *Request) logger() *zap.Logger {
	if req.Logger == nil {
		return zap.NewNop()
	}
	return req.Logger
}

func (req *Request) emitOptions() emit.Options {
	return emit.Options{GoPrefix: req.GoPrefix, RuntimeImport: req.RuntimeImport}
}

func (req *Request) target() layout.Target {
	if req.Target.Triple == "" {
		t, _ := layout.TargetByTriple("")
		return t
	}
	return req.Target
}

// Generate runs every pass and, unless DryRun is set, writes the bindings of
// the packages marked Emit below OutDir. Problems in the schemas are
// diagnostics in Result.Bag; the error is reserved for cancellation.
func Generate(ctx context.Context, req Request) (*Result, error) {
	run := newRun(ctx, &req)
	defer run.finish()

	if !run.load() {
		return run.result(), nil
	}
	if run.cacheHit() {
		run.res.UpToDate = true
		return run.result(), nil
	}
	if err := run.parse(); err != nil {
		return nil, err
	}
	run.declare()
	if err := run.resolve(); err != nil {
		return nil, err
	}
	run.checkCycles()
	if err := run.plan(); err != nil {
		return nil, err
	}
	run.block()
	if err := run.emit(); err != nil {
		return nil, err
	}
	if !req.DryRun {
		if err := run.write(); err != nil {
			return nil, err
		}
		run.storeCache()
	}
	return run.result(), nil
}

// Check runs the front end and the layout planner without writing.
func Check(ctx context.Context, req Request) (*Result, error) {
	req.DryRun = true
	req.Cache = nil
	return Generate(ctx, req)
}

func sortFiles(files []*emit.File) {
	slices.SortFunc(files, func(a, b *emit.File) int { return strings.Compare(a.Path, b.Path) })
}
