package lexer

import (
	"rosgen/internal/token"
)

// collectTrivia собирает пробелы, комментарии и пустые строки перед значимым токеном.
//   - ' ', '\t' и одиночный '\r' коалесцируются в TriviaSpace
//   - '#...' до конца строки: leading TriviaComment, либо trailing, если на строке уже была декларация
//   - '\n' на строке без токенов поглощается; пустая строка даёт TriviaBlankLine
//
// Перевод строки после декларации не трогаем: его вернёт Next как Newline.
func (lx *Lexer) collectTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\r':
			for c := lx.cursor.Peek(); c == ' ' || c == '\t' || c == '\r'; c = lx.cursor.Peek() {
				lx.cursor.Bump()
			}
			lx.hold = append(lx.hold, lx.makeTrivia(token.TriviaSpace, start))

		case b == '#':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			tr := lx.makeTrivia(token.TriviaComment, start)
			if lx.inLine {
				lx.trailing = &tr
			} else {
				lx.hold = append(lx.hold, tr)
				lx.lineComment = true
			}

		case b == '\n' && !lx.inLine:
			lx.cursor.Bump()
			if !lx.lineComment {
				lx.hold = append(lx.hold, lx.makeTrivia(token.TriviaBlankLine, start))
			}
			lx.lineComment = false

		default:
			return
		}
	}
}

func (lx *Lexer) makeTrivia(kind token.TriviaKind, start Mark) token.Trivia {
	sp := lx.cursor.SpanFrom(start)
	return token.Trivia{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
