package parser

import (
	"fmt"
	"strings"

	"rosgen/internal/ast"
	"rosgen/internal/diag"
	"rosgen/internal/lexer"
	"rosgen/internal/source"
	"rosgen/internal/token"
)

// parseDecl разбирает одну строку: TYPE NAME, TYPE NAME DEFAULT или TYPE NAME=VALUE.
func (p *Parser) parseDecl() (*ast.Decl, bool) {
	first := p.lx.Peek()
	doc := docLines(first.Leading)

	typ, ok := p.parseType()
	if !ok {
		return nil, false
	}

	if !p.at(token.Ident) {
		p.err(diag.SynExpectFieldName,
			fmt.Sprintf("expected field name after type '%s', found %s", typ.String(), describe(p.lx.Peek())))
		return nil, false
	}
	nameTok := p.advance()
	start, _ := p.fs.Resolve(first.Span)

	d := &ast.Decl{
		Kind:     ast.DeclField,
		Type:     typ,
		Name:     nameTok.Text,
		NameSpan: nameTok.Span,
		Line:     start.Line,
		Doc:      doc,
	}

	switch {
	case p.at(token.Assign):
		p.advance()
		d.Kind = ast.DeclConstant
		if p.atLineEnd() {
			p.err(diag.SynExpectConstantValue, "constant '"+d.Name+"' has no value after '='")
			return nil, false
		}
		v, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		d.Value = v
	case !p.atLineEnd():
		v, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		d.Value = v
	}

	d.Span = first.Span.Cover(p.lastSpan)

	end := p.lx.Peek()
	if !end.EndsLine() {
		p.err(diag.SynTrailingTokens, fmt.Sprintf("unexpected %s after declaration of '%s'", describe(end), d.Name))
		return nil, false
	}
	if end.Trailing != nil {
		d.Comment = end.Trailing.CommentText()
	}
	if end.Kind == token.Newline {
		p.advance()
	}
	return d, true
}

// parseType: [pkg/]Name [<= bound] [ [] | [N] | [<=N] ]
func (p *Parser) parseType() (*ast.TypeExpr, bool) {
	if !p.at(token.Ident) {
		p.err(diag.SynExpectType, "expected field type, found "+describe(p.lx.Peek()))
		return nil, false
	}
	head := p.advance()
	te := &ast.TypeExpr{Name: head.Text, NameSpan: head.Span, Span: head.Span}

	if p.at(token.Slash) {
		p.advance()
		name, ok := p.expect(token.Ident, diag.SynExpectType, "expected message name after '"+head.Text+"/'")
		if !ok {
			return nil, false
		}
		te.Package, te.Name, te.NameSpan = head.Text, name.Text, name.Span
	}

	if p.at(token.LtEq) {
		p.advance()
		b, ok := p.parseBound("string")
		if !ok {
			return nil, false
		}
		te.StringBound = b
	}

	if p.at(token.LBracket) {
		p.advance()
		switch {
		case p.at(token.RBracket):
			te.Array = ast.ArrayUnbounded
		case p.at(token.LtEq):
			p.advance()
			b, ok := p.parseBound("sequence")
			if !ok {
				return nil, false
			}
			te.Array, te.ArrayBound = ast.ArrayBounded, b
		default:
			b, ok := p.parseBound("array")
			if !ok {
				return nil, false
			}
			te.Array, te.ArrayBound = ast.ArrayFixed, b
		}
		if _, ok := p.expect(token.RBracket, diag.SynExpectRightBracket, "expected ']' to close array type"); !ok {
			return nil, false
		}
	}

	te.Span = te.Span.Cover(p.lastSpan)
	return te, true
}

// parseBound берёт сырой текст границы (возможно со знаком); проверка значения — в резолвере.
func (p *Parser) parseBound(what string) (*ast.Bound, bool) {
	start := p.lx.Peek()
	var text strings.Builder
	if p.atAny(token.Minus, token.Plus) {
		text.WriteString(p.advance().Text)
	}
	switch tok := p.lx.Peek(); tok.Kind {
	case token.IntLit, token.FloatLit, token.Ident:
		p.advance()
		text.WriteString(tok.Text)
		return &ast.Bound{Text: text.String(), Span: start.Span.Cover(tok.Span)}, true
	default:
		p.err(diag.SynExpectBound, "expected "+what+" bound, found "+describe(tok))
		return nil, false
	}
}

// parseValue: [+-]number | string | ident | '[' value {',' value} ']'
func (p *Parser) parseValue() (*ast.Value, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Minus, token.Plus:
		sign := p.advance()
		num := p.lx.Peek()
		var kind ast.ValueKind
		switch num.Kind {
		case token.IntLit:
			kind = ast.ValueInt
		case token.FloatLit:
			kind = ast.ValueFloat
		case token.Ident:
			kind = ast.ValueIdent
		default:
			p.err(diag.SynExpectValue, "expected number after '"+sign.Text+"', found "+describe(num))
			return nil, false
		}
		p.advance()
		text := num.Text
		if sign.Kind == token.Minus {
			text = "-" + text
		}
		return &ast.Value{Kind: kind, Text: text, Span: sign.Span.Cover(num.Span)}, true
	case token.IntLit:
		p.advance()
		return &ast.Value{Kind: ast.ValueInt, Text: tok.Text, Span: tok.Span}, true
	case token.FloatLit:
		p.advance()
		return &ast.Value{Kind: ast.ValueFloat, Text: tok.Text, Span: tok.Span}, true
	case token.StringLit:
		p.advance()
		s, _ := lexer.Unquote(tok.Text) // плохие escape уже отрепортил лексер
		return &ast.Value{Kind: ast.ValueString, Text: tok.Text, Str: s, Span: tok.Span}, true
	case token.Ident:
		p.advance()
		return &ast.Value{Kind: ast.ValueIdent, Text: tok.Text, Span: tok.Span}, true
	case token.LBracket:
		return p.parseArrayValue()
	default:
		p.err(diag.SynExpectValue, "expected value, found "+describe(tok))
		return nil, false
	}
}

func (p *Parser) parseArrayValue() (*ast.Value, bool) {
	open := p.advance()
	v := &ast.Value{Kind: ast.ValueArray, Span: open.Span}
	for !p.at(token.RBracket) {
		elem, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		v.Elems = append(v.Elems, elem)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closeTok, ok := p.expect(token.RBracket, diag.SynExpectRightBracket, "expected ',' or ']' in array value")
	if !ok {
		return nil, false
	}
	v.Span = v.Span.Cover(closeTok.Span)
	v.Text = p.textOf(v.Span)
	return v, true
}

func (p *Parser) textOf(sp source.Span) string {
	return string(p.file.Content[sp.Start:sp.End])
}

// docLines собирает комментарии непосредственно над декларацией; пустая строка их сбрасывает.
func docLines(leading []token.Trivia) []string {
	var out []string
	for _, tr := range leading {
		switch tr.Kind {
		case token.TriviaComment:
			out = append(out, tr.CommentText())
		case token.TriviaBlankLine:
			out = nil
		}
	}
	return out
}
