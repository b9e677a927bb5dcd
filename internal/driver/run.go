package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rosgen/internal/buildpipeline"
	"rosgen/internal/diag"
	"rosgen/internal/emit"
	"rosgen/internal/layout"
	"rosgen/internal/model"
	"rosgen/internal/observ"
	"rosgen/internal/parser"
	"rosgen/internal/project"
	"rosgen/internal/sema"
	"rosgen/internal/source"
	"rosgen/internal/symbols"
	"rosgen/internal/trace"
	"rosgen/internal/types"
)

// schemaUnit carries one schema file through the passes. Each pass writes
// only the fields of its own unit, so parallel passes need no locks.
type schemaUnit struct {
	pkg     string
	emit    bool
	path    string
	display string
	file    source.FileID
	bag     *diag.Bag

	parsed   parser.Result
	declared sema.Declared
	resolved sema.Result
	plans    []*layout.MessagePlan
	// failed: the unit is not emitted. Its own problems are in bag.
	failed bool
	out    *emit.File
}

func (u *schemaUnit) reporter() diag.Reporter { return diag.BagReporter{Bag: u.bag} }

type run struct {
	ctx    context.Context
	req    *Request
	log    *zap.Logger
	tracer trace.Tracer
	span   *trace.Span
	timer  *observ.Timer

	fs       *source.FileSet
	bag      *diag.Bag
	units    []*schemaUnit
	interner *types.Interner
	table    *symbols.Table
	engine   *layout.LayoutEngine
	emitter  *emit.Emitter
	cyclic   map[types.QualifiedName]bool
	// blocked: messages that cannot be emitted, directly or through a
	// message they contain.
	blocked map[types.QualifiedName]bool

	key   project.Digest
	files []*emit.File
	res   *Result
}

func newRun(ctx context.Context, req *Request) *run {
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "generate")
	r := &run{
		ctx:      ctx,
		req:      req,
		log:      req.logger(),
		tracer:   trace.FromContext(ctx),
		span:     span,
		timer:    observ.NewTimer(),
		fs:       source.NewFileSetWithBase(req.BaseDir),
		bag:      diag.NewBag(req.MaxDiagnostics),
		interner: types.NewInterner(),
		cyclic:   map[types.QualifiedName]bool{},
		blocked:  map[types.QualifiedName]bool{},
	}
	r.res = &Result{FileSet: r.fs}
	return r
}

// phase starts a timed, traced pass; the returned func ends it.
func (r *run) phase(name string) func(note string) {
	idx := r.timer.Begin(name)
	span, _ := trace.Start(r.ctx, trace.ScopePass, name)
	if r.req.Observer != nil {
		r.req.Observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	start := time.Now()
	return func(note string) {
		r.timer.End(idx, note)
		span.End(note)
		if r.req.Observer != nil {
			r.req.Observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(start)})
		}
	}
}

func (r *run) progress(u *schemaUnit, stage buildpipeline.Stage, status buildpipeline.Status, err error) {
	ev := buildpipeline.Event{Stage: stage, Status: status, Err: err}
	if u != nil {
		ev.File = u.display
	}
	buildpipeline.Emit(r.req.Progress, ev)
}

// result merges the per-file bags in input order after the run-level ones.
func (r *run) result() *Result {
	bag := diag.NewBag(r.req.MaxDiagnostics)
	for _, u := range r.units {
		bag.Merge(u.bag)
	}
	bag.Merge(r.bag)
	bag.Dedup()
	bag.Sort()
	r.res.Bag = bag
	r.res.Timings = r.timer.Report()
	return r.res
}

func (r *run) finish() {
	detail := "ok"
	if r.res.Bag != nil && r.res.Bag.HasErrors() {
		detail = fmt.Sprintf("%d errors", r.res.Bag.ErrorCount())
	}
	r.span.Set("files", len(r.res.Files)).Set("skipped", len(r.res.Skipped)).End(detail)
}

// load validates the request and reads every schema file. FileSet is not
// safe for concurrent writes, so this pass is sequential.
func (r *run) load() bool {
	end := r.phase("load")
	defer func() { end(fmt.Sprintf("%d files", len(r.units))) }()

	if len(r.req.Packages) == 0 {
		r.bag.Add(diag.NewPathError(diag.ProjectNoInputs, ".", "no schema packages given"))
		return false
	}
	seen := make(map[string]bool, len(r.req.Packages))
	for _, p := range r.req.Packages {
		switch {
		case !project.IsValidPackageName(p.Name):
			r.bag.Add(diag.NewPathError(diag.ProjectBadPackageName, p.Name,
				fmt.Sprintf("invalid package name %q: expected lowercase letters, digits and underscores", p.Name)))
			continue
		case seen[p.Name]:
			r.bag.Add(diag.NewPathError(diag.ProjectDuplicatePackage, p.Name,
				fmt.Sprintf("package %s is listed more than once", p.Name)))
			continue
		case len(p.Files) == 0:
			r.bag.Add(diag.NewPathError(diag.ProjectNoInputs, p.Name,
				fmt.Sprintf("package %s has no schema files", p.Name)))
			continue
		}
		seen[p.Name] = true
		for _, path := range p.Files {
			id, err := r.fs.Load(path)
			if err != nil {
				r.bag.Add(diag.NewPathError(diag.IOLoadFileError, path, fmt.Sprintf("cannot read schema: %v", err)))
				continue
			}
			u := &schemaUnit{
				pkg:     p.Name,
				emit:    p.Emit,
				path:    path,
				display: buildpipeline.DisplayPath(path, r.req.BaseDir),
				file:    id,
				bag:     diag.NewBag(r.req.MaxDiagnostics),
			}
			r.units = append(r.units, u)
			r.progress(u, buildpipeline.StageParse, buildpipeline.StatusQueued, nil)
		}
	}
	r.key = r.cacheKey()
	return len(r.units) > 0
}

func (r *run) parse() error {
	end := r.phase("parse")
	err := forEach(r.ctx, r.req.Jobs, len(r.units), func(i int) {
		u := r.units[i]
		r.progress(u, buildpipeline.StageParse, buildpipeline.StatusWorking, nil)
		u.parsed = parser.ParseFile(r.fs, u.file, u.pkg, parser.Options{Reporter: u.reporter()})
		if !u.parsed.OK() {
			u.failed = true
			r.progress(u, buildpipeline.StageParse, buildpipeline.StatusError, nil)
			return
		}
		r.progress(u, buildpipeline.StageParse, buildpipeline.StatusDone, nil)
	})
	end("")
	return err
}

// declare registers every parsed schema in input order, then freezes the
// table.
func (r *run) declare() {
	end := r.phase("declare")
	r.table = symbols.NewTable(uint(len(r.units) * 3)) //nolint:gosec // small
	for _, u := range r.units {
		// a file with syntax errors still claims its names: references to it
		// are skipped instead of reported as unresolved
		if u.parsed.File == nil {
			continue
		}
		u.declared = sema.Declare(r.table, u.parsed.File, u.reporter())
		if len(u.declared.IDs) == 0 {
			u.failed = true
		}
	}
	r.table.Freeze()
	end(fmt.Sprintf("%d symbols", r.table.Len()))
}

func (r *run) resolve() error {
	end := r.phase("resolve")
	rs := &sema.Resolver{Files: r.fs, Types: r.interner, Symbols: r.table, NoStyle: r.req.NoStyle}
	err := forEach(r.ctx, r.req.Jobs, len(r.units), func(i int) {
		u := r.units[i]
		if u.failed {
			r.progress(u, buildpipeline.StageResolve, buildpipeline.StatusSkipped, nil)
			return
		}
		r.progress(u, buildpipeline.StageResolve, buildpipeline.StatusWorking, nil)
		u.resolved = rs.ResolveFile(u.declared, u.reporter())
		if !u.resolved.OK() {
			u.failed = true
			r.progress(u, buildpipeline.StageResolve, buildpipeline.StatusError, nil)
			return
		}
		r.progress(u, buildpipeline.StageResolve, buildpipeline.StatusDone, nil)
	})
	end("")
	return err
}

func (r *run) checkCycles() {
	end := r.phase("cycles")
	r.cyclic = sema.CheckCycles(r.table, r.interner, diag.BagReporter{Bag: r.bag})
	end(fmt.Sprintf("%d cyclic", len(r.cyclic)))
}

// plan lays out every message of every resolved schema, including the
// packages that are not emitted: their plans decide whether dependents can
// be emitted.
func (r *run) plan() error {
	end := r.phase("layout")
	r.engine = layout.New(r.req.target(), r.interner, r.table)
	err := forEach(r.ctx, r.req.Jobs, len(r.units), func(i int) {
		u := r.units[i]
		if u.failed {
			r.progress(u, buildpipeline.StageLayout, buildpipeline.StatusSkipped, nil)
			return
		}
		r.progress(u, buildpipeline.StageLayout, buildpipeline.StatusWorking, nil)
		msgs := u.resolved.Schema.Messages()
		u.plans = make([]*layout.MessagePlan, len(msgs))
		for j, msg := range msgs {
			if r.cyclic[msg.Name] {
				u.failed = true
				continue
			}
			plan, err := r.engine.Plan(msg)
			if err != nil {
				u.failed = true
				r.reportLayout(u, msg, err)
				continue
			}
			u.plans[j] = plan
		}
		status := buildpipeline.StatusDone
		if u.failed {
			status = buildpipeline.StatusSkipped
		}
		r.progress(u, buildpipeline.StageLayout, status, nil)
	})
	end("")
	return err
}

// reportLayout turns a planner error into a diagnostic. Missing nested
// messages, cycles and failures inside a contained message were already
// reported where they originate.
func (r *run) reportLayout(u *schemaUnit, msg *model.MessageSpec, err error) {
	var le *layout.LayoutError
	if !errors.As(err, &le) {
		diag.ReportError(u.reporter(), diag.EmitInternal, msg.Span,
			fmt.Sprintf("layout of %s: %v", msg.Name, err)).Emit()
		return
	}
	if le.FromNested() {
		// сообщение le.Inner получает свою диагностику при собственной раскладке
		r.log.Debug("layout skipped", zap.Stringer("message", msg.Name), zap.Stringer("inner", le.Inner), zap.Error(err))
		return
	}
	code := diag.LayoutUnsupported
	switch le.Kind {
	case layout.LayoutErrMissing, layout.LayoutErrRecursive:
		r.log.Debug("layout skipped", zap.Stringer("message", msg.Name), zap.Error(err))
		return
	case layout.LayoutErrOverflow:
		code = diag.LayoutOverflow
	}
	span := msg.Span
	if le.Message == msg.Name && le.Field != "" {
		if f, ok := msg.Field(le.Field); ok {
			span = f.Span
		}
	}
	diag.ReportError(u.reporter(), code, span, fmt.Sprintf("%s: %v", msg.Name, le)).Emit()
}
