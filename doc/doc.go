// Package doc implements a document algebra for pretty printers.
//
// A Doc describes output text without committing to line breaks. Print lays
// it out under a width budget: each Group is printed flat when it fits on
// the current line and broken otherwise, Fill decides every separator on its
// own, and hard lines force every enclosing group to break.
package doc

import "strings"

// Doc is a node of the document tree. Documents are built bottom-up and
// printed once; Print may mark groups as broken in place.
type Doc interface {
	isDoc()
}

type text string

type concat []Doc

type line struct {
	soft    bool // empty when flat
	hard    bool // always breaks
	literal bool // breaks without indentation
}

type indent struct {
	contents Doc
}

type group struct {
	contents    Doc
	shouldBreak bool
}

type fill struct {
	parts []Doc
}

type breakParent struct{}

func (text) isDoc()        {}
func (concat) isDoc()      {}
func (line) isDoc()        {}
func (*indent) isDoc()     {}
func (*group) isDoc()      {}
func (*fill) isDoc()       {}
func (breakParent) isDoc() {}

var (
	// Line is a space when flat and a newline when broken.
	Line Doc = line{}
	// SoftLine is empty when flat and a newline when broken.
	SoftLine Doc = line{soft: true}
	// HardLine is always a newline and breaks every enclosing group.
	HardLine Doc = line{hard: true}
	// LiteralLine is a hard line that resets indentation to column zero.
	LiteralLine Doc = line{hard: true, literal: true}
	// BreakParent forces every enclosing group to break.
	BreakParent Doc = breakParent{}
	// Empty prints nothing.
	Empty Doc = concat(nil)
)

// Text returns a literal text document. s must not contain newlines.
func Text(s string) Doc {
	return text(s)
}

// Concat joins documents without separators. Nil parts are skipped.
func Concat(parts ...Doc) Doc {
	out := make(concat, 0, len(parts))
	for _, p := range parts {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Indent increases the indentation of newlines inside d by one level.
func Indent(d Doc) Doc {
	return &indent{contents: d}
}

// Group prints d flat when it fits and broken otherwise.
func Group(d Doc) Doc {
	return &group{contents: d}
}

// BrokenGroup is a group that is always printed broken.
func BrokenGroup(d Doc) Doc {
	return &group{contents: d, shouldBreak: true}
}

// Fill lays out parts as alternating content and separators, breaking a
// separator only when the content after it does not fit.
func Fill(parts []Doc) Doc {
	return &fill{parts: parts}
}

// Join interleaves docs with sep.
func Join(sep Doc, docs []Doc) Doc {
	out := make(concat, 0, 2*len(docs))
	for i, d := range docs {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, d)
	}
	return out
}

// Lines splits s on newlines and joins the pieces with literal lines, so
// multi-line text is reproduced byte for byte.
func Lines(s string) Doc {
	if !strings.Contains(s, "\n") {
		return text(s)
	}
	pieces := strings.Split(s, "\n")
	out := make(concat, 0, 2*len(pieces))
	for i, p := range pieces {
		if i > 0 {
			out = append(out, LiteralLine)
		}
		if p != "" {
			out = append(out, text(p))
		}
	}
	return out
}

// IsEmpty reports whether d prints nothing.
func IsEmpty(d Doc) bool {
	switch d := d.(type) {
	case nil:
		return true
	case text:
		return d == ""
	case concat:
		for _, p := range d {
			if !IsEmpty(p) {
				return false
			}
		}
		return true
	}
	return false
}

// WillBreak reports whether d contains a forced break.
func WillBreak(d Doc) bool {
	switch d := d.(type) {
	case line:
		return d.hard
	case breakParent:
		return true
	case concat:
		for _, p := range d {
			if WillBreak(p) {
				return true
			}
		}
	case *indent:
		return WillBreak(d.contents)
	case *group:
		return d.shouldBreak || WillBreak(d.contents)
	case *fill:
		for _, p := range d.parts {
			if WillBreak(p) {
				return true
			}
		}
	}
	return false
}
