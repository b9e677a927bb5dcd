package lexer

import (
	"rosgen/internal/diag"
	"rosgen/internal/token"
)

// Поддержка: 0, 123, 0b..., 0o..., 0x..., 1.0, 1., .5, 1e-3, 1.0e+10.
// Знак не входит в литерал: '-' и '+' лексируются отдельно.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X', 'b', 'B', 'o', 'O':
			return lx.scanPrefixedInt(start)
		}
	}

	lx.eatDigits()
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		lx.eatDigits()
	}
	if e := lx.cursor.Peek(); e == 'e' || e == 'E' {
		sign := lx.cursor.PeekAt(1)
		switch {
		case isDec(sign):
			lx.cursor.Bump()
			lx.eatDigits()
			kind = token.FloatLit
		case (sign == '+' || sign == '-') && isDec(lx.cursor.PeekAt(2)):
			lx.cursor.Bump()
			lx.cursor.Bump()
			lx.eatDigits()
			kind = token.FloatLit
		}
	}
	return lx.finishNumber(kind, start)
}

func (lx *Lexer) scanPrefixedInt(start Mark) token.Token {
	lx.cursor.Bump() // '0'
	base := lx.cursor.Bump()
	valid := isHex
	switch base {
	case 'b', 'B':
		valid = func(b byte) bool { return b == '0' || b == '1' }
	case 'o', 'O':
		valid = func(b byte) bool { return b >= '0' && b <= '7' }
	}
	digits := 0
	for b := lx.cursor.Peek(); valid(b) || b == '_'; b = lx.cursor.Peek() {
		if b != '_' {
			digits++
		}
		lx.cursor.Bump()
	}
	if digits == 0 {
		lx.eatIdentTail()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "expected digits after base prefix")
		return lx.makeToken(token.Invalid, start)
	}
	return lx.finishNumber(token.IntLit, start)
}

// finishNumber rejects identifier characters glued to a number ("12abc").
func (lx *Lexer) finishNumber(kind token.Kind, start Mark) token.Token {
	if isIdentContinueByte(lx.cursor.Peek()) {
		lx.eatIdentTail()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "malformed number '"+string(lx.file.Content[sp.Start:sp.End])+"'")
		return lx.makeToken(token.Invalid, start)
	}
	return lx.makeToken(kind, start)
}

func (lx *Lexer) eatDigits() {
	for b := lx.cursor.Peek(); isDec(b) || b == '_'; b = lx.cursor.Peek() {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) eatIdentTail() {
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}
