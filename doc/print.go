package doc

import (
	"bytes"
	"strings"

	"github.com/mattn/go-runewidth"
)

type Options struct {
	Width       int  // maximum line width in cells
	IndentWidth int  // spaces per indentation level, and the width of a tab
	UseTabs     bool // indent with tabs instead of spaces
}

type mode int

const (
	modeBreak mode = iota
	modeFlat
)

type command struct {
	indent int
	mode   mode
	doc    Doc
}

type printer struct {
	buf       bytes.Buffer
	opts      Options
	indentStr string
	column    int
}

// Print lays out d and returns the text. Newlines are always "\n".
func Print(d Doc, opts Options) string {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = 4
	}
	p := &printer{opts: opts}
	if opts.UseTabs {
		p.indentStr = "\t"
	} else {
		p.indentStr = strings.Repeat(" ", opts.IndentWidth)
	}

	propagateBreaks(d)
	p.print(d)
	return p.buf.String()
}

// propagateBreaks marks every group containing a forced break as broken and
// reports whether d contains one.
func propagateBreaks(d Doc) bool {
	switch d := d.(type) {
	case line:
		return d.hard
	case breakParent:
		return true
	case concat:
		broken := false
		for _, p := range d {
			if propagateBreaks(p) {
				broken = true
			}
		}
		return broken
	case *indent:
		return propagateBreaks(d.contents)
	case *group:
		if propagateBreaks(d.contents) {
			d.shouldBreak = true
		}
		return d.shouldBreak
	case *fill:
		broken := false
		for _, p := range d.parts {
			if propagateBreaks(p) {
				broken = true
			}
		}
		return broken
	}
	return false
}

func (p *printer) write(s string) {
	p.buf.WriteString(s)
	p.column += runewidth.StringWidth(s)
}

func (p *printer) newline(level int) {
	p.trimTrailingWhitespace()
	p.buf.WriteByte('\n')
	for i := 0; i < level; i++ {
		p.buf.WriteString(p.indentStr)
	}
	p.column = level * p.opts.IndentWidth
}

func (p *printer) trimTrailingWhitespace() {
	b := p.buf.Bytes()
	n := len(b)
	for n > 0 && (b[n-1] == ' ' || b[n-1] == '\t') {
		n--
	}
	p.buf.Truncate(n)
}

func (p *printer) print(d Doc) {
	cmds := []command{{indent: 0, mode: modeBreak, doc: d}}

	for len(cmds) > 0 {
		cmd := cmds[len(cmds)-1]
		cmds = cmds[:len(cmds)-1]

		switch d := cmd.doc.(type) {
		case text:
			p.write(string(d))

		case concat:
			for i := len(d) - 1; i >= 0; i-- {
				cmds = append(cmds, command{cmd.indent, cmd.mode, d[i]})
			}

		case *indent:
			cmds = append(cmds, command{cmd.indent + 1, cmd.mode, d.contents})

		case *group:
			switch {
			case cmd.mode == modeFlat && !d.shouldBreak:
				cmds = append(cmds, command{cmd.indent, modeFlat, d.contents})
			case d.shouldBreak:
				cmds = append(cmds, command{cmd.indent, modeBreak, d.contents})
			default:
				next := command{cmd.indent, modeFlat, d.contents}
				if fits(next, cmds, p.opts.Width-p.column, false) {
					cmds = append(cmds, next)
				} else {
					cmds = append(cmds, command{cmd.indent, modeBreak, d.contents})
				}
			}

		case *fill:
			cmds = p.printFill(cmd, d, cmds)

		case line:
			if cmd.mode == modeFlat && !d.hard {
				if !d.soft {
					p.write(" ")
				}
				continue
			}
			if d.literal {
				p.buf.WriteByte('\n')
				p.column = 0
				continue
			}
			p.newline(cmd.indent)

		case breakParent:
		}
	}
}

// printFill decides the first separator of a fill and schedules the rest.
func (p *printer) printFill(cmd command, f *fill, cmds []command) []command {
	rem := p.opts.Width - p.column
	parts := f.parts
	if len(parts) == 0 {
		return cmds
	}

	content := parts[0]
	contentFlat := command{cmd.indent, modeFlat, content}
	contentBreak := command{cmd.indent, modeBreak, content}
	contentFits := fits(contentFlat, nil, rem, true)

	if len(parts) == 1 {
		if contentFits {
			return append(cmds, contentFlat)
		}
		return append(cmds, contentBreak)
	}

	sep := parts[1]
	sepFlat := command{cmd.indent, modeFlat, sep}
	sepBreak := command{cmd.indent, modeBreak, sep}

	if len(parts) == 2 {
		if contentFits {
			return append(cmds, sepFlat, contentFlat)
		}
		return append(cmds, sepBreak, contentBreak)
	}

	rest := command{cmd.indent, cmd.mode, &fill{parts: parts[2:]}}
	pair := command{cmd.indent, modeFlat, concat{content, sep, parts[2]}}

	switch {
	case fits(pair, nil, rem, true):
		return append(cmds, rest, sepFlat, contentFlat)
	case contentFits:
		return append(cmds, rest, sepBreak, contentFlat)
	default:
		return append(cmds, rest, sepBreak, contentBreak)
	}
}

// fits reports whether next, followed by the pending commands up to their
// first line break, fits in width cells. When mustBeFlat is set a broken
// group inside next never fits.
func fits(next command, rest []command, width int, mustBeFlat bool) bool {
	restIdx := len(rest)
	cmds := []command{next}

	for width >= 0 {
		if len(cmds) == 0 {
			if restIdx == 0 {
				return true
			}
			restIdx--
			cmds = append(cmds, rest[restIdx])
			continue
		}

		cmd := cmds[len(cmds)-1]
		cmds = cmds[:len(cmds)-1]

		switch d := cmd.doc.(type) {
		case text:
			width -= runewidth.StringWidth(string(d))
		case concat:
			for i := len(d) - 1; i >= 0; i-- {
				cmds = append(cmds, command{cmd.indent, cmd.mode, d[i]})
			}
		case *fill:
			for i := len(d.parts) - 1; i >= 0; i-- {
				cmds = append(cmds, command{cmd.indent, cmd.mode, d.parts[i]})
			}
		case *indent:
			cmds = append(cmds, command{cmd.indent, cmd.mode, d.contents})
		case *group:
			if mustBeFlat && d.shouldBreak {
				return false
			}
			m := cmd.mode
			if d.shouldBreak {
				m = modeBreak
			}
			cmds = append(cmds, command{cmd.indent, m, d.contents})
		case line:
			if cmd.mode == modeBreak || d.hard {
				return true
			}
			if !d.soft {
				width--
			}
		}
	}
	return false
}
