package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// forEach calls fn(i) for every i in [0, n) on at most jobs goroutines
// (jobs <= 0 means GOMAXPROCS). fn stores its result at index i of a slice
// owned by the caller; distinct indices need no mutex.
func forEach(ctx context.Context, jobs, n int, fn func(i int)) error {
	if n == 0 {
		return ctx.Err()
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, n))
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	return g.Wait()
}

// ListSchemaFiles returns every .msg and .srv file below dir, sorted.
func ListSchemaFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".msg", ".srv":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// детерминированный порядок
	sort.Strings(files)
	return files, nil
}
