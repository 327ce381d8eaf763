package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"skarn/internal/diag"
	"skarn/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	codeColor    = color.New(color.Bold)
	gutterColor  = color.New(color.FgBlue)
	caretColor   = color.New(color.FgRed, color.Bold)
	noteColor    = color.New(color.FgCyan)
	helpColor    = color.New(color.FgGreen)
	delColor     = color.New(color.FgRed)
	addColor     = color.New(color.FgGreen)
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждой диагностики печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes в том же
// формате. Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	items := bag.Items()
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeDiagnostic(w, &items[i], fs, opts)
	}
}

func writeDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := d.Severity.String()
	code := d.Code.ID()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
		code = codeColor.Sprint(code)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", formatLocation(fs, d.Primary, opts.PathMode), sev, code, d.Message)
	writeSnippet(w, fs, d.Primary, opts)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			label := "note"
			if opts.Color {
				label = noteColor.Sprint(label)
			}
			fmt.Fprintf(w, "  %s: %s: %s\n", label, formatLocation(fs, note.Span, opts.PathMode), note.Msg)
			noteOpts := opts
			noteOpts.Context = 0
			writeSnippet(w, fs, note.Span, noteOpts)
		}
	}
	if opts.ShowFixes {
		for i := range d.Fixes {
			writeFix(w, fs, &d.Fixes[i], opts)
		}
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func formatLocation(fs *source.FileSet, span source.Span, mode PathMode) string {
	f := fs.Get(span.File)
	if f == nil {
		return fmt.Sprintf("<unknown>:+%d", span.Start)
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", displayPath(f, fs, mode), start.Line, start.Col)
}

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// writeSnippet печатает строки исходника вокруг span и подчёркивание
// под первой строкой диапазона.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts) {
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)

	first, last := start.Line, start.Line
	if opts.Context > 0 {
		ctx := uint32(opts.Context)
		if first > ctx {
			first -= ctx
		} else {
			first = 1
		}
		last += ctx
	}
	if total := lineCount(f); last > total {
		last = total
	}

	for line := first; line <= last; line++ {
		text := renderLine(f.GetLine(line), opts.Width)
		gutter := fmt.Sprintf("%5d | ", line)
		if opts.Color {
			gutter = gutterColor.Sprint(gutter)
		}
		fmt.Fprintf(w, "%s%s\n", gutter, text)
		if line == start.Line {
			writeCaret(w, f, start, end, opts)
		}
	}
}

func writeCaret(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts) {
	text := f.GetLine(start.Line)
	if start.Col == 0 || int(start.Col-1) > len(text) {
		return
	}

	prefix := sanitizeTabs(text[:start.Col-1])
	pad := runewidth.StringWidth(prefix)

	// Подчёркивание не выходит за конец строки; для многострочных span
	// тянем его до конца первой строки.
	stopCol := uint32(len(text)) + 1
	if end.Line == start.Line && end.Col >= start.Col && end.Col < stopCol {
		stopCol = end.Col
	}
	underlined := sanitizeTabs(text[start.Col-1 : stopCol-1])
	width := runewidth.StringWidth(underlined)
	if width < 1 {
		width = 1
	}

	caret := "^" + strings.Repeat("~", width-1)
	if opts.Width > 0 && pad+width > int(opts.Width) {
		caret = runewidth.Truncate(caret, max(int(opts.Width)-pad, 1), "")
	}
	if opts.Color {
		caret = caretColor.Sprint(caret)
	}
	gutter := "      | "
	if opts.Color {
		gutter = gutterColor.Sprint(gutter)
	}
	fmt.Fprintf(w, "%s%s%s\n", gutter, strings.Repeat(" ", pad), caret)
}

func writeFix(w io.Writer, fs *source.FileSet, fix *diag.Fix, opts PrettyOpts) {
	label := "help"
	if opts.Color {
		label = helpColor.Sprint(label)
	}
	fmt.Fprintf(w, "  %s: %s\n", label, fix.Title)
	if !opts.ShowPreview {
		return
	}
	for _, edit := range fix.Edits {
		preview, err := buildFixEditPreview(fs, edit)
		if err != nil {
			continue
		}
		for _, line := range preview.before {
			rendered := "      - " + renderLine(line, opts.Width)
			if opts.Color {
				rendered = delColor.Sprint(rendered)
			}
			fmt.Fprintln(w, rendered)
		}
		for _, line := range preview.after {
			rendered := "      + " + renderLine(line, opts.Width)
			if opts.Color {
				rendered = addColor.Sprint(rendered)
			}
			fmt.Fprintln(w, rendered)
		}
	}
}

// renderLine готовит строку исходника к печати: табы считаем за один
// столбец, длинные строки усекаем по ширине.
func renderLine(text string, width uint16) string {
	text = sanitizeTabs(text)
	if width > 0 && runewidth.StringWidth(text) > int(width) {
		text = runewidth.Truncate(text, int(width), "…")
	}
	return text
}

func sanitizeTabs(text string) string {
	return strings.ReplaceAll(text, "\t", " ")
}

func lineCount(f *source.File) uint32 {
	n := uint32(len(f.LineIdx)) //nolint:gosec // file sizes fit in uint32
	if len(f.Content) == 0 {
		return 1
	}
	if f.Content[len(f.Content)-1] == '\n' {
		return n
	}
	return n + 1
}
