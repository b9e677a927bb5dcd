package lexer

import (
	"fmt"
	"strings"

	"rosgen/internal/diag"
	"rosgen/internal/token"
)

// scanString: '...' или "..." с экранированием \\ \' \" \n \r \t.
// Перевод строки внутри литерала запрещён.
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == quote:
			lx.cursor.Bump()
			return lx.makeToken(token.StringLit, start)
		case b == '\\':
			esc := lx.cursor.Mark()
			lx.cursor.Bump()
			e := lx.cursor.Peek()
			if lx.cursor.EOF() || e == '\n' {
				continue
			}
			lx.cursor.Bump()
			if !isEscape(e) {
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(esc), fmt.Sprintf("invalid escape sequence '\\%c'", e))
			}
		case b == '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return lx.makeToken(token.Invalid, start)
		default:
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return lx.makeToken(token.Invalid, start)
}

func isEscape(b byte) bool {
	switch b {
	case '\\', '\'', '"', 'n', 'r', 't':
		return true
	}
	return false
}

// Unquote decodes a StringLit token text. Unknown escapes are kept verbatim
// and reported through ok=false.
func Unquote(text string) (s string, ok bool) {
	if len(text) < 2 || (text[0] != '"' && text[0] != '\'') || text[len(text)-1] != text[0] {
		return "", false
	}
	body := text[1 : len(text)-1]
	if !strings.Contains(body, `\`) {
		return body, true
	}
	var b strings.Builder
	b.Grow(len(body))
	ok = true
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\', '\'', '"':
			b.WriteByte(body[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(body[i])
			ok = false
		}
	}
	return b.String(), ok
}
