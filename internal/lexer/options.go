package lexer

import (
	"rosgen/internal/diag"
	"rosgen/internal/source"
)

// DefaultMaxTokenLength bounds a single token; longer tokens are truncated with LexTokenTooLong.
const DefaultMaxTokenLength = 4096

type Options struct {
	Reporter       diag.Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
	MaxTokenLength uint32        // 0 means DefaultMaxTokenLength
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
