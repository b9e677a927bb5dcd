package driver

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"rosgen/internal/buildpipeline"
	"rosgen/internal/diag"
	"rosgen/internal/emit"
	"rosgen/internal/model"
	"rosgen/internal/trace"
	"rosgen/internal/types"
)

func (u *schemaUnit) name(r *run) types.QualifiedName {
	return types.QualifiedName{Package: u.pkg, Name: r.fs.Get(u.file).Stem()}
}

func (u *schemaUnit) unit() emit.Unit {
	return emit.Unit{Schema: u.resolved.Schema, Plans: u.plans}
}

// block decides which schemas are emitted. Generated identifiers must be
// unique within a Go package; a schema is then dropped when any message it
// contains (through nested fields, arrays or sequences) is not available,
// repeated until nothing changes.
func (r *run) block() {
	end := r.phase("block")

	groups := make(map[string][]*schemaUnit)
	for _, u := range r.units {
		if u.emit && !u.failed {
			dir := u.unit().GoPackageDir()
			groups[dir] = append(groups[dir], u)
		}
	}
	for _, dir := range slices.Sorted(maps.Keys(groups)) {
		schemas := make([]model.Schema, len(groups[dir]))
		for i, u := range groups[dir] {
			schemas[i] = u.resolved.Schema
		}
		bad := emit.CheckCollisions(schemas, diag.BagReporter{Bag: r.bag})
		for _, u := range groups[dir] {
			if bad[u.resolved.Schema.Name()] {
				u.failed = true
			}
		}
	}

	available := make(map[types.QualifiedName]bool)
	for _, u := range r.units {
		if !u.failed {
			for _, msg := range u.resolved.Schema.Messages() {
				available[msg.Name] = true
			}
		}
	}
	for changed := true; changed; {
		changed = false
		for _, u := range r.units {
			if u.failed || r.dependsOnMissing(u, available) {
				if !u.failed {
					u.failed = true
					r.log.Debug("schema skipped: a contained message is unavailable", zap.String("file", u.display))
					trace.Point(r.tracer, trace.ScopeSchema, "skip:"+u.display, "dependency failed", r.span.ID())
				}
				for _, msg := range u.resolved.Schema.Messages() {
					if available[msg.Name] {
						available[msg.Name] = false
						changed = true
					}
				}
			}
		}
	}
	for q, ok := range available {
		if !ok {
			r.blocked[q] = true
		}
	}
	end(fmt.Sprintf("%d blocked", len(r.blocked)))
}

func (r *run) dependsOnMissing(u *schemaUnit, available map[types.QualifiedName]bool) bool {
	for _, msg := range u.resolved.Schema.Messages() {
		for i := range msg.Fields {
			q, ok := r.interner.NestedName(r.interner.Leaf(msg.Fields[i].Type))
			if ok && !available[q] {
				return true
			}
		}
	}
	return false
}

// emit generates one file per emitted schema in parallel, then the
// per-package doc.go and layout assertions.
func (r *run) emit() error {
	end := r.phase("emit")
	r.emitter = emit.New(r.interner, r.req.emitOptions())
	err := forEach(r.ctx, r.req.Jobs, len(r.units), func(i int) {
		u := r.units[i]
		if !u.emit {
			return
		}
		if u.failed {
			r.progress(u, buildpipeline.StageEmit, buildpipeline.StatusSkipped, nil)
			return
		}
		r.progress(u, buildpipeline.StageEmit, buildpipeline.StatusWorking, nil)
		span := trace.Begin(r.tracer, trace.ScopeSchema, "emit:"+u.display, r.span.ID())
		f, ok := r.emitter.EmitSchema(u.unit(), u.reporter())
		if !ok {
			u.failed = true
			span.Set("diagnostics", u.bag.Len()).End("failed")
			r.progress(u, buildpipeline.StageEmit, buildpipeline.StatusError, nil)
			return
		}
		u.out = f
		span.End(f.Path)
		r.progress(u, buildpipeline.StageEmit, buildpipeline.StatusDone, nil)
	})
	if err != nil {
		end("")
		return err
	}

	groups := make(map[string][]emit.Unit)
	for _, u := range r.units {
		switch {
		case u.out != nil:
			unit := u.unit()
			groups[unit.GoPackageDir()] = append(groups[unit.GoPackageDir()], unit)
			r.files = append(r.files, u.out)
		case u.emit:
			r.res.Skipped = append(r.res.Skipped, u.name(r))
		}
	}
	for _, dir := range slices.Sorted(maps.Keys(groups)) {
		files, err := r.emitter.EmitPackage(dir, groups[dir], r.engine.Target)
		if err != nil {
			r.bag.Add(diag.NewPathError(diag.EmitFormatFailed, dir, err.Error()))
			continue
		}
		r.files = append(r.files, files...)
	}
	sortFiles(r.files)
	slices.SortFunc(r.res.Skipped, func(a, b types.QualifiedName) int { return strings.Compare(a.String(), b.String()) })
	r.res.Files = r.files
	end(fmt.Sprintf("%d files", len(r.files)))
	return nil
}

// write stores the generated files below OutDir in parallel. Files whose
// content is already on disk are left alone.
func (r *run) write() error {
	end := r.phase("write")
	r.progress(nil, buildpipeline.StageWrite, buildpipeline.StatusWorking, nil)
	out := r.outDir()
	changed := make([]bool, len(r.files))
	errs := make([]error, len(r.files))
	err := forEach(r.ctx, r.req.Jobs, len(r.files), func(i int) {
		changed[i], errs[i] = writeFile(filepath.Join(out, filepath.FromSlash(r.files[i].Path)), r.files[i].Content)
	})
	if err != nil {
		end("")
		return err
	}
	failed := 0
	for i, f := range r.files {
		switch {
		case errs[i] != nil:
			failed++
			r.bag.Add(diag.NewPathError(diag.IOWriteFileError, filepath.Join(out, filepath.FromSlash(f.Path)),
				fmt.Sprintf("cannot write generated file: %v", errs[i])))
		case changed[i]:
			r.res.Written = append(r.res.Written, f.Path)
		default:
			r.res.Unchanged = append(r.res.Unchanged, f.Path)
		}
	}
	status := buildpipeline.StatusDone
	if failed > 0 {
		status = buildpipeline.StatusError
	}
	r.progress(nil, buildpipeline.StageWrite, status, nil)
	end(fmt.Sprintf("%d written, %d unchanged", len(r.res.Written), len(r.res.Unchanged)))
	return nil
}

func (r *run) outDir() string {
	if r.req.OutDir == "" {
		return "."
	}
	return r.req.OutDir
}
