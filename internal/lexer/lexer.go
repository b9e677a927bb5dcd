package lexer

import (
	"bytes"
	"fmt"

	"rosgen/internal/diag"
	"rosgen/internal/source"
	"rosgen/internal/token"
)

// Lexer turns a schema file into a line-oriented token stream.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia

	inLine      bool          // на текущей строке уже был значимый токен
	lineComment bool          // строка без токенов содержала комментарий
	trailing    *token.Trivia // комментарий после декларации
}

func New(file *source.File, opts Options) *Lexer {
	if opts.MaxTokenLength == 0 {
		opts.MaxTokenLength = DefaultMaxTokenLength
	}
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий значимый токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectTrivia()

	var tok token.Token
	switch {
	case lx.cursor.EOF():
		tok = token.Token{Kind: token.EOF, Span: lx.emptySpan(), Trailing: lx.trailing}
		lx.endLine()
	case lx.cursor.Peek() == '\n':
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		tok = token.Token{Kind: token.Newline, Span: sp, Text: "\n", Trailing: lx.trailing}
		lx.endLine()
	case !lx.inLine && lx.atSeparatorLine():
		tok = lx.scanSeparator()
		lx.endLine()
	default:
		tok = lx.scanToken(lx.cursor.Peek())
		lx.inLine = true
		if tok.Span.Len() > lx.opts.MaxTokenLength {
			lx.errLex(diag.LexTokenTooLong, tok.Span,
				fmt.Sprintf("token is %d bytes long, limit is %d", tok.Span.Len(), lx.opts.MaxTokenLength))
		}
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// Tokenize drains the lexer; the last token is always EOF.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) endLine() {
	lx.inLine = false
	lx.lineComment = false
	lx.trailing = nil
}

func (lx *Lexer) scanToken(ch byte) token.Token {
	switch {
	case isIdentStartByte(ch):
		return lx.scanIdent()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		return lx.scanNumber()
	case ch == '"' || ch == '\'':
		return lx.scanString(ch)
	default:
		return lx.scanPunct()
	}
}

func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.makeToken(token.Ident, start)
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	var kind token.Kind
	switch b {
	case '/':
		kind = token.Slash
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '=':
		kind = token.Assign
	case ',':
		kind = token.Comma
	case '-':
		kind = token.Minus
	case '+':
		kind = token.Plus
	case '<':
		if lx.cursor.Eat('=') {
			kind = token.LtEq
			break
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "'<' must be followed by '='")
		return lx.makeToken(token.Invalid, start)
	default:
		lx.cursor.Reset(start)
		lx.bumpRune()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp,
			fmt.Sprintf("unexpected character %q", string(lx.file.Content[sp.Start:sp.End])))
		return lx.makeToken(token.Invalid, start)
	}
	return lx.makeToken(kind, start)
}

// atSeparatorLine: остаток строки состоит только из '-' (не меньше трёх) и пробелов.
func (lx *Lexer) atSeparatorLine() bool {
	rest := bytes.TrimRight(lx.cursor.RestOfLine(), " \t\r")
	if len(rest) < 3 {
		return false
	}
	for _, b := range rest {
		if b != '-' {
			return false
		}
	}
	return true
}

func (lx *Lexer) scanSeparator() token.Token {
	start := lx.cursor.Mark()
	for lx.cursor.Peek() == '-' {
		lx.cursor.Bump()
	}
	tok := lx.makeToken(token.Separator, start)
	for b := lx.cursor.Peek(); b == ' ' || b == '\t' || b == '\r'; b = lx.cursor.Peek() {
		lx.cursor.Bump()
	}
	lx.cursor.Eat('\n')
	return tok
}

func (lx *Lexer) makeToken(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
