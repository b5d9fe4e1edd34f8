package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"playscript/internal/diag"
	"playscript/internal/source"
)

type palette struct {
	err, warn, info, note, pos, caret, code func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		err:   mk(color.FgRed, color.Bold),
		warn:  mk(color.FgYellow, color.Bold),
		info:  mk(color.FgCyan),
		note:  mk(color.FgBlue, color.Bold),
		pos:   mk(color.Bold),
		caret: mk(color.FgGreen, color.Bold),
		code:  mk(color.Faint),
	}
}

func (p palette) severity(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return p.err(s.String())
	case diag.SevWarning:
		return p.warn(s.String())
	default:
		return p.info(s.String())
	}
}

// Pretty renders diagnostics in a human-readable form.
// It walks bag.Items() in order, so call bag.Sort() first for stable output.
// Each diagnostic prints as
//
//	<path>:<line>:<col>: <sev> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline and then the notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i := range items {
		d := &items[i]
		header := location(fs, d.Primary, opts)
		fmt.Fprintf(w, "%s: %s %s: %s\n", p.pos(header), p.severity(d.Severity), p.code(d.Code.ID()), d.Message)
		writeExcerpt(w, fs, d.Primary, opts.Context, p)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note("note:"), location(fs, n.Span, opts), n.Msg)
		}
	}
}

func location(fs *source.FileSet, sp source.Span, opts PrettyOpts) string {
	if fs == nil {
		return sp.String()
	}
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

func writeExcerpt(w io.Writer, fs *source.FileSet, sp source.Span, context int8, p palette) {
	if fs == nil {
		return
	}
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	first := start.Line
	if context > 0 && uint32(context) < first {
		first -= uint32(context)
	} else if context > 0 {
		first = 1
	}
	gutter := len(fmt.Sprint(start.Line))
	for ln := first; ln < start.Line; ln++ {
		fmt.Fprintf(w, " %*d | %s\n", gutter, ln, f.GetLine(ln))
	}
	line := f.GetLine(start.Line)
	fmt.Fprintf(w, " %*d | %s\n", gutter, start.Line, line)

	col := int(start.Col) - 1
	col = min(max(col, 0), len(line))
	// tabs keep their width so the caret lines up with the text above
	var pad strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		stop := min(int(end.Col)-1, len(line))
		width = max(runewidth.StringWidth(line[col:stop]), 1)
	} else if end.Line > start.Line {
		width = max(runewidth.StringWidth(line[col:]), 1)
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %*s | %s%s\n", gutter, "", pad.String(), p.caret(marker))
}
