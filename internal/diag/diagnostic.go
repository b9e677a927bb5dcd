package diag

import "rosgen/internal/source"

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// Path заменяет Primary для диагностик вне загруженных файлов (I/O, вывод).
	Path  string
	Notes []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) *Diagnostic {
	return New(SevError, code, primary, msg)
}

// NewPathError builds an error diagnostic anchored at a path instead of a span.
func NewPathError(code Code, path, msg string) *Diagnostic {
	return &Diagnostic{Severity: SevError, Code: code, Path: path, Message: msg}
}

func (d *Diagnostic) WithNote(sp source.Span, msg string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
