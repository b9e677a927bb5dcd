package driver

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"rosgen/internal/buildpipeline"
	"rosgen/internal/diag"
	"rosgen/internal/project"
	"rosgen/internal/version"
)

// cacheKey = H(options || H(file1) || H(file2) ...), files in input order.
// Each file digest covers its content, path, package and emit flag.
func (r *run) cacheKey() project.Digest {
	out, err := filepath.Abs(r.outDir())
	if err != nil {
		out = r.outDir()
	}
	opts := project.DigestStrings(
		strconv.Itoa(int(diskCacheSchemaVersion)),
		version.Version,
		r.req.GoPrefix,
		r.req.RuntimeImport,
		r.req.target().Triple,
		strconv.FormatBool(r.req.NoStyle),
		out,
	)
	files := make([]project.Digest, 0, len(r.units))
	for _, u := range r.units {
		f := r.fs.Get(u.file)
		meta := project.DigestStrings(u.pkg, strconv.FormatBool(u.emit), f.Path)
		files = append(files, project.Combine(project.Digest(f.Hash), meta))
	}
	return project.Combine(opts, files...)
}

// cacheHit reports a previous clean run with the same key whose outputs are
// all still on disk unchanged.
func (r *run) cacheHit() bool {
	if r.req.Cache == nil || r.req.DryRun || r.bag.Len() > 0 {
		return false
	}
	var p DiskPayload
	ok, err := r.req.Cache.Get(r.key, &p)
	if err != nil {
		r.log.Warn("generation cache unreadable", zap.Error(err))
		return false
	}
	if !ok || p.Schema != diskCacheSchemaVersion || p.Key != r.key || len(p.Outputs) == 0 {
		return false
	}
	for _, o := range p.Outputs {
		data, err := os.ReadFile(filepath.Join(r.outDir(), filepath.FromSlash(o.Path)))
		if err != nil || project.DigestBytes(data) != o.Digest {
			r.log.Debug("generation cache stale", zap.String("file", o.Path))
			return false
		}
	}
	for _, o := range p.Outputs {
		r.res.Unchanged = append(r.res.Unchanged, o.Path)
	}
	for _, u := range r.units {
		r.progress(u, buildpipeline.StageWrite, buildpipeline.StatusDone, nil)
	}
	return true
}

// storeCache records a run that produced no diagnostics at all, so a hit
// never hides a warning.
func (r *run) storeCache() {
	if r.req.Cache == nil || r.bag.Len() > 0 || len(r.files) == 0 {
		return
	}
	for _, u := range r.units {
		if u.bag.Len() > 0 {
			return
		}
	}
	p := &DiskPayload{
		Schema:  diskCacheSchemaVersion,
		Key:     r.key,
		Tool:    version.Version,
		Created: time.Now().Unix(),
	}
	for _, u := range r.units {
		p.Inputs = append(p.Inputs, r.fs.Get(u.file).Path)
	}
	for _, f := range r.files {
		p.Outputs = append(p.Outputs, OutputRecord{Path: f.Path, Digest: project.DigestBytes(f.Content)})
	}
	if err := r.req.Cache.Put(r.key, p); err != nil {
		r.log.Warn("generation cache not updated", zap.Error(err))
		r.bag.Add(&diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.IOCacheError,
			Path:     r.req.Cache.Dir(),
			Message:  "generation cache not updated: " + err.Error(),
		})
	}
}
