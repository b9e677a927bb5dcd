package parser

import (
	"rosgen/internal/diag"
	"rosgen/internal/source"
	"rosgen/internal/token"
)

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Newline {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagSpan — лучший span для диагностики: на конце строки указываем сразу после последнего токена.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.EndsLine() && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg)
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

// err репортует ошибку на текущем токене. Invalid-токен лексер уже отрепортил,
// поэтому второй раз не шумим, но ошибку считаем.
func (p *Parser) err(code diag.Code, msg string) {
	if p.at(token.Invalid) {
		p.errors++
		return
	}
	p.report(code, diag.SevError, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	p.Report(code, sev, sp, msg, nil)
}

// describe renders a token for messages: "'foo'", "end of line".
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.Newline:
		return "end of line"
	case token.EOF:
		return "end of file"
	case token.Separator:
		return "separator line"
	}
	return "'" + tok.Text + "'"
}
