package driver

import (
	"context"

	"rosgen/internal/diag"
	"rosgen/internal/lexer"
	"rosgen/internal/source"
	"rosgen/internal/token"
)

// TokenizeResult holds the tokens of one schema file.
type TokenizeResult struct {
	Path   string
	File   *source.File
	Tokens []token.Token
	Bag    *diag.Bag
}

// Tokenize lexes the given files in parallel. A file that cannot be read
// gets an IOLoadFileError diagnostic and no tokens.
func Tokenize(ctx context.Context, paths []string, maxDiagnostics, jobs int) (*source.FileSet, []TokenizeResult, error) {
	fileSet := source.NewFileSet()
	results := make([]TokenizeResult, len(paths))
	ids := make([]source.FileID, len(paths))
	loaded := make([]bool, len(paths))
	for i, path := range paths {
		results[i] = TokenizeResult{Path: path, Bag: diag.NewBag(maxDiagnostics)}
		id, err := fileSet.Load(path)
		if err != nil {
			results[i].Bag.Add(diag.NewPathError(diag.IOLoadFileError, path, "failed to load file: "+err.Error()))
			continue
		}
		ids[i], loaded[i] = id, true
	}
	// Get only after every Load: the set's backing slice may move while loading.
	for i := range results {
		if loaded[i] {
			results[i].File = fileSet.Get(ids[i])
		}
	}
	err := forEach(ctx, jobs, len(results), func(i int) {
		res := &results[i]
		if res.File == nil {
			return
		}
		res.Tokens = lexer.Tokenize(res.File, lexer.Options{Reporter: diag.BagReporter{Bag: res.Bag}})
	})
	return fileSet, results, err
}
