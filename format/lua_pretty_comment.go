package format

import (
	"strings"

	"github.com/dhamidi/luafmt/doc"
	"github.com/dhamidi/luafmt/lua/ast"
)

// Comments are not part of the tree. They are consumed in source order
// through commentIndex while the printer walks statements and table fields,
// so each comment is printed exactly once.

func (p *LuaPrettyPrinter) commentDoc(c *ast.Comment) doc.Doc {
	if c.Long {
		return doc.Lines(normalizeNewlines(c.Raw))
	}
	return doc.Text(strings.TrimRight(c.Raw, " \t\r"))
}

func (p *LuaPrettyPrinter) peekComment() *ast.Comment {
	if p.commentIndex < len(p.comments) {
		return p.comments[p.commentIndex]
	}
	return nil
}

// takeCommentsBefore consumes all pending comments starting before offset.
func (p *LuaPrettyPrinter) takeCommentsBefore(offset int) []*ast.Comment {
	start := p.commentIndex
	for c := p.peekComment(); c != nil && c.Pos() < offset; c = p.peekComment() {
		p.commentIndex++
	}
	return p.comments[start:p.commentIndex]
}

// leadingComments prints the comments before a statement or field, one per
// line, keeping a blank line after a comment when the source has one.
func (p *LuaPrettyPrinter) leadingComments(offset int) doc.Doc {
	comments := p.takeCommentsBefore(offset)
	if len(comments) == 0 {
		return doc.Empty
	}
	parts := make([]doc.Doc, 0, 3*len(comments))
	for _, c := range comments {
		parts = append(parts, p.commentDoc(c), doc.HardLine)
		if isNextLineEmpty(p.source, c.End()) {
			parts = append(parts, doc.HardLine)
		}
	}
	return doc.Concat(parts...)
}

// trailingComments prints comments that belong after the item ending at
// end: comments left inside the item, which could not be placed within an
// expression, and a comment on the same line after the item.
func (p *LuaPrettyPrinter) trailingComments(end int) doc.Doc {
	comments := p.takeCommentsBefore(end)
	if c := p.peekComment(); c != nil && c.Pos() == skipToLineEnd(p.source, end) {
		p.commentIndex++
		comments = p.comments[p.commentIndex-len(comments)-1 : p.commentIndex]
	}
	if len(comments) == 0 {
		return doc.Empty
	}

	parts := make([]doc.Doc, 0, 2*len(comments)+1)
	for i, c := range comments {
		if i == 0 {
			parts = append(parts, doc.Text(" "))
		} else {
			parts = append(parts, doc.HardLine)
		}
		parts = append(parts, p.commentDoc(c))
	}
	parts = append(parts, doc.BreakParent)
	return doc.Concat(parts...)
}

// danglingComments prints the comments left before limit at the end of a
// block or table, one per line. It returns nil when there are none.
func (p *LuaPrettyPrinter) danglingComments(limit int) doc.Doc {
	comments := p.takeCommentsBefore(limit)
	if len(comments) == 0 {
		return nil
	}
	parts := make([]doc.Doc, 0, 3*len(comments))
	for i, c := range comments {
		if i > 0 {
			parts = append(parts, doc.HardLine)
			if isNextLineEmpty(p.source, comments[i-1].End()) {
				parts = append(parts, doc.HardLine)
			}
		}
		parts = append(parts, p.commentDoc(c))
	}
	parts = append(parts, doc.BreakParent)
	return doc.Concat(parts...)
}
