package sema

import (
	"fmt"

	"rosgen/internal/ast"
	"rosgen/internal/diag"
)

// checkDuplicates reports every repeated field or constant name of a block,
// citing the lines of both declarations.
func checkDuplicates(decls []*ast.Decl, r diag.Reporter) {
	seen := make(map[string]*ast.Decl, len(decls))
	for _, d := range decls {
		first, dup := seen[d.Name]
		if !dup {
			seen[d.Name] = d
			continue
		}
		diag.ReportError(r, diag.SemaDuplicateField, d.NameSpan,
			fmt.Sprintf("duplicate %s '%s' on line %d: already declared on line %d", declWord(d), d.Name, d.Line, first.Line)).
			WithNote(first.NameSpan, fmt.Sprintf("'%s' first declared here", d.Name)).
			Emit()
	}
}

func declWord(d *ast.Decl) string {
	if d.Kind == ast.DeclConstant {
		return "constant"
	}
	return "field"
}

func checkFieldName(d *ast.Decl, r diag.Reporter) {
	if isSnakeCase(d.Name) {
		return
	}
	diag.ReportWarning(r, diag.SemaFieldNameStyle, d.NameSpan,
		fmt.Sprintf("field name '%s' should be snake_case: lowercase letters, digits and single underscores", d.Name)).Emit()
}

func checkConstantName(d *ast.Decl, r diag.Reporter) {
	if isUpperCase(d.Name) {
		return
	}
	diag.ReportWarning(r, diag.SemaConstantNameStyle, d.NameSpan,
		fmt.Sprintf("constant name '%s' should be UPPER_CASE", d.Name)).Emit()
}

// isSnakeCase: [a-z][a-z0-9_]*, no "__", no trailing '_'.
func isSnakeCase(s string) bool {
	if s == "" || s[0] < 'a' || s[0] > 'z' || s[len(s)-1] == '_' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '_':
			if s[i-1] == '_' {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// isUpperCase: [A-Z][A-Z0-9_]*, no "__", no trailing '_'.
func isUpperCase(s string) bool {
	if s == "" || s[0] < 'A' || s[0] > 'Z' || s[len(s)-1] == '_' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_':
			if s[i-1] == '_' {
				return false
			}
		default:
			return false
		}
	}
	return true
}
