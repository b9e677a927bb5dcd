package parser

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"rosgen/internal/ast"
	"rosgen/internal/diag"
	"rosgen/internal/lexer"
	"rosgen/internal/source"
	"rosgen/internal/token"
)

type Options struct {
	Reporter       diag.Reporter
	MaxErrors      uint // 0 — без ограничения
	MaxTokenLength uint32
}

// Result of parsing one schema file. File is nil only when the file kind is
// unsupported; otherwise it holds every declaration that parsed.
type Result struct {
	File   *ast.File
	Errors uint // syntax errors, lexer errors included
}

// OK reports whether the file parsed without errors.
func (r Result) OK() bool { return r.File != nil && r.Errors == 0 }

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	fs       *source.FileSet
	file     *source.File
	opts     Options
	errors   uint
	lastSpan source.Span // span последнего съеденного токена
}

// ParseFile parses one .msg or .srv file belonging to package pkg.
// The schema name is the file stem.
func ParseFile(fs *source.FileSet, id source.FileID, pkg string, opts Options) Result {
	file := fs.Get(id)
	p := &Parser{
		fs:       fs,
		file:     file,
		opts:     opts,
		lastSpan: source.Span{File: id},
	}

	var kind ast.SchemaKind
	switch file.Ext() {
	case "msg":
		kind = ast.SchemaMessage
	case "srv":
		kind = ast.SchemaService
	default:
		p.report(diag.SynUnsupportedSchemaKind, diag.SevError, source.Span{File: id},
			fmt.Sprintf("unsupported schema file %q: expected .msg or .srv", file.Path))
		return Result{Errors: p.errors}
	}

	p.lx = lexer.New(file, lexer.Options{Reporter: p, MaxTokenLength: opts.MaxTokenLength})
	f := &ast.File{
		Source:  id,
		Package: pkg,
		Name:    file.Stem(),
		Kind:    kind,
	}
	p.parseBlocks(f)
	end, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	f.Span = source.Span{File: id, Start: 0, End: end}
	return Result{File: f, Errors: p.errors}
}

// Report makes the parser the lexer's reporter so lexical errors count against the file.
func (p *Parser) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev == diag.SevError {
		p.errors++
	}
	if p.opts.Reporter != nil && !p.enough() {
		p.opts.Reporter.Report(code, sev, primary, msg, notes)
	}
}

func (p *Parser) parseBlocks(f *ast.File) {
	cur := &ast.Block{}
	f.Blocks = append(f.Blocks, cur)
	var seps []token.Token

	for !p.at(token.EOF) {
		if p.at(token.Newline) {
			p.advance()
			continue
		}
		if p.at(token.Separator) {
			sep := p.advance()
			seps = append(seps, sep)
			switch {
			case f.Kind == ast.SchemaMessage:
				p.report(diag.SynSeparatorInMessage, diag.SevError, sep.Span,
					"separator '"+sep.Text+"' is only allowed in .srv files")
			case len(seps) > 1:
				p.report(diag.SynExtraServiceSep, diag.SevError, sep.Span,
					"service has more than one request/response separator")
			default:
				cur = &ast.Block{Span: source.Span{File: sep.Span.File, Start: sep.Span.End, End: sep.Span.End}}
				f.Blocks = append(f.Blocks, cur)
			}
			continue
		}
		decl, ok := p.parseDecl()
		if !ok {
			p.resyncLine()
			continue
		}
		if len(cur.Decls) == 0 {
			cur.Span = decl.Span
		} else {
			cur.Span = cur.Span.Cover(decl.Span)
		}
		cur.Decls = append(cur.Decls, decl)
	}

	if f.Kind == ast.SchemaService && len(seps) == 0 {
		p.report(diag.SynMissingServiceSep, diag.SevError, p.lx.Peek().Span,
			"service "+f.Name+" needs a '---' line between request and response")
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) atLineEnd() bool {
	return p.lx.Peek().EndsLine()
}

// resyncLine пропускает токены до конца текущей строки.
func (p *Parser) resyncLine() {
	for !p.atLineEnd() {
		p.advance()
	}
	if p.at(token.Newline) {
		p.advance()
	}
}

func (p *Parser) enough() bool {
	return p.opts.MaxErrors != 0 && p.errors > p.opts.MaxErrors
}
