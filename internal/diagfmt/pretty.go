package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"rosgen/internal/diag"
	"rosgen/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue, color.Bold),
		code:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pr := prettyPrinter{w: w, fs: fs, opts: opts, pal: newPalette(opts.Color)}
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		pr.diagnostic(d)
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "\n%s\n", pr.pal.note.Sprintf("... %d more diagnostics not shown", dropped))
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
}

func (p *prettyPrinter) diagnostic(d *diag.Diagnostic) {
	sev := p.pal.severity(d.Severity).Sprint(d.Severity.String())
	code := p.pal.code.Sprint(d.Code.ID())
	if d.Path != "" || !p.valid(d.Primary) {
		path := d.Path
		if path == "" {
			path = "<unknown>"
		}
		fmt.Fprintf(p.w, "%s: %s %s: %s\n", path, sev, code, d.Message)
		return
	}
	fmt.Fprintf(p.w, "%s: %s %s: %s\n", p.location(d.Primary), sev, code, p.clip(d.Message))
	p.snippet(d.Primary)
	if !p.opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		if !p.valid(n.Span) {
			fmt.Fprintf(p.w, "  %s: %s\n", p.pal.note.Sprint("note"), n.Msg)
			continue
		}
		fmt.Fprintf(p.w, "  %s: %s: %s\n", p.pal.note.Sprint("note"), p.location(n.Span), p.clip(n.Msg))
		p.snippet(n.Span)
	}
}

func (p *prettyPrinter) valid(span source.Span) bool {
	return p.fs != nil && int(span.File) < p.fs.Len()
}

func (p *prettyPrinter) location(span source.Span) string {
	f := p.fs.Get(span.File)
	path := f.Path
	if f.Flags&source.FileVirtual == 0 {
		path = f.FormatPath(p.opts.PathMode.mode(), p.fs.BaseDir())
	}
	start, _ := p.fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// snippet prints the lines around span with a caret line under the
// primary one.
func (p *prettyPrinter) snippet(span source.Span) {
	f := p.fs.Get(span.File)
	start, end := p.fs.Resolve(span)
	ctx := uint32(max(p.opts.Context, 0)) //nolint:gosec // non-negative int8
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	if lines := uint32(len(f.LineIdx)) + 1; last > lines { //nolint:gosec // checked in FileSet.Add
		last = lines
	}
	gutterWidth := len(fmt.Sprint(last))
	for n := first; n <= last; n++ {
		line := f.GetLine(n)
		if n != start.Line && strings.TrimSpace(line) == "" {
			continue
		}
		shown := expandTabs(line)
		fmt.Fprintf(p.w, "%s %s\n", p.pal.gutter.Sprintf("%*d |", gutterWidth, n), p.clip(shown))
		if n != start.Line {
			continue
		}
		col := int(start.Col) - 1
		col = min(max(col, 0), len(line))
		endCol := len(line)
		if end.Line == start.Line {
			endCol = min(max(int(end.Col)-1, col), len(line))
		}
		pad := runewidth.StringWidth(expandTabs(line[:col]))
		width := max(runewidth.StringWidth(expandTabs(line[col:endCol])), 1)
		marks := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(p.w, "%s %s%s\n", p.pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), p.pal.caret.Sprint(marks))
	}
}

// clip truncates s to the configured display width.
func (p *prettyPrinter) clip(s string) string {
	if p.opts.Width == 0 {
		return s
	}
	return runewidth.Truncate(s, int(p.opts.Width), "…")
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}

// Summary returns "N errors, M warnings" for the end of a run.
func Summary(bag *diag.Bag) string {
	if bag == nil {
		return "no diagnostics"
	}
	errs, warns := 0, 0
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	return fmt.Sprintf("%s, %s", plural(errs, "error"), plural(warns, "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
