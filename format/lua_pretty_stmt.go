package format

import (
	"github.com/dhamidi/luafmt/doc"
	"github.com/dhamidi/luafmt/lua/ast"
)

// printBlock prints a statement list with its comments. limit is the offset
// where the block ends; comments before it that follow the last statement
// are printed as dangling comments. empty is set when nothing was printed.
func (p *LuaPrettyPrinter) printBlock(path *Path, name string, body []ast.Stmt, limit int) (d doc.Doc, empty bool) {
	var parts []doc.Doc

	Each(path, name, body, func(path *Path, i int) {
		span := body[i].Span()
		parts = append(parts, p.leadingComments(span.Start.Offset))
		// A statement opening with "(" would be read as a call on the
		// previous one.
		if i > 0 && startsWithParen(body[i]) {
			parts = append(parts, doc.Text(";"))
		}
		parts = append(parts, p.printNode(path), p.trailingComments(span.End.Offset))
		if i < len(body)-1 {
			parts = append(parts, doc.HardLine)
			if isNextLineEmpty(p.source, span.End.Offset) {
				parts = append(parts, doc.HardLine)
			}
		}
	})

	first := p.peekComment()
	if dangling := p.danglingComments(limit); dangling != nil {
		if len(body) > 0 {
			parts = append(parts, doc.HardLine)
			if isPreviousLineEmpty(p.source, first.Pos()) {
				parts = append(parts, doc.HardLine)
			}
		}
		parts = append(parts, dangling)
	}
	d = doc.Concat(parts...)
	return d, doc.IsEmpty(d)
}

// startsWithParen reports whether a statement prints with "(" first: a call
// or assignment whose leftmost operand is parenthesized.
func startsWithParen(stmt ast.Stmt) bool {
	var expr ast.Expr
	switch s := stmt.(type) {
	case *ast.CallStmt:
		expr = s.Expression
	case *ast.AssignStmt:
		expr = s.Variables[0]
	default:
		return false
	}
	for {
		if _, ok := expr.(*ast.ParenExpr); ok {
			return true
		}
		base, ok := ast.CallBase(expr)
		if !ok {
			return false
		}
		if needsParens(base, expr, "Base", -1) {
			return true
		}
		expr = base
	}
}

// headerComment takes a comment on the line opening a block: it starts
// after the header ends at after, before the first statement at bound, and
// no newline comes before it.
func (p *LuaPrettyPrinter) headerComment(after, bound int) doc.Doc {
	c := p.peekComment()
	if c == nil || c.Pos() < after || c.Pos() >= bound || hasNewlineInRange(p.source, after, c.Pos()) {
		return nil
	}
	p.commentIndex++
	return doc.Concat(doc.Text(" "), p.commentDoc(c), doc.BreakParent)
}

// blockBound is the offset of the first statement of body, or limit.
func blockBound(body []ast.Stmt, limit int) int {
	if len(body) > 0 {
		return body[0].Span().Start.Offset
	}
	return limit
}

// printBody joins a header, the block it opens and the closing tail. A
// comment on the header line stays there. An empty block without one keeps
// everything on one line: "while x do end".
func (p *LuaPrettyPrinter) printBody(path *Path, head doc.Doc, after int, body []ast.Stmt, limit int, tail doc.Doc) doc.Doc {
	comment := p.headerComment(after, blockBound(body, limit))
	block, empty := p.printBlock(path, "Body", body, limit)
	switch {
	case !empty:
		return doc.Concat(head, comment, doc.Indent(doc.Concat(doc.HardLine, block)), doc.HardLine, tail)
	case comment != nil:
		return doc.Concat(head, comment, doc.HardLine, tail)
	}
	return doc.Concat(head, doc.Text(" "), tail)
}

// endKeyword returns the offset of the closing "end" of a node.
func endKeyword(n ast.Node) int {
	return n.Span().End.Offset - len("end")
}

func (p *LuaPrettyPrinter) printReturn(path *Path, n *ast.ReturnStmt) doc.Doc {
	if len(n.Arguments) == 0 {
		return doc.Text("return")
	}
	return doc.Concat(doc.Text("return "), p.printExprList(path, "Arguments", n.Arguments))
}

func (p *LuaPrettyPrinter) printIf(path *Path, n *ast.IfStmt) doc.Doc {
	var parts []doc.Doc
	single := len(n.Clauses) == 1

	Each(path, "Clauses", n.Clauses, func(path *Path, i int) {
		clause := n.Clauses[i]
		var head doc.Doc
		var after int
		switch c := clause.(type) {
		case *ast.IfClause:
			head = doc.Concat(doc.Text("if "), Call(path, "Condition", c.Condition, p.printExpr), doc.Text(" then"))
			after = c.Condition.Span().End.Offset
		case *ast.ElseifClause:
			head = doc.Concat(doc.Text("elseif "), Call(path, "Condition", c.Condition, p.printExpr), doc.Text(" then"))
			after = c.Condition.Span().End.Offset
		case *ast.ElseClause:
			head = doc.Text("else")
			after = c.Span().Start.Offset + len("else")
		default:
			panic(&UnsupportedNodeError{Node: clause})
		}

		limit := clause.Span().End.Offset
		comment := p.headerComment(after, blockBound(clause.Block(), limit))
		block, empty := p.printBlock(path, "Body", clause.Block(), limit)
		parts = append(parts, head, comment)
		if !empty {
			parts = append(parts, doc.Indent(doc.Concat(doc.HardLine, block)))
		}
		if single && empty && comment == nil {
			parts = append(parts, doc.Text(" "))
		} else {
			parts = append(parts, doc.HardLine)
		}
	})

	parts = append(parts, doc.Text("end"))
	return doc.Concat(parts...)
}

func (p *LuaPrettyPrinter) printWhile(path *Path, n *ast.WhileStmt) doc.Doc {
	head := doc.Concat(doc.Text("while "), Call(path, "Condition", n.Condition, p.printExpr), doc.Text(" do"))
	return p.printBody(path, head, n.Condition.Span().End.Offset, n.Body, endKeyword(n), doc.Text("end"))
}

func (p *LuaPrettyPrinter) printDo(path *Path, n *ast.DoStmt) doc.Doc {
	return p.printBody(path, doc.Text("do"), n.Span().Start.Offset+len("do"), n.Body, endKeyword(n), doc.Text("end"))
}

func (p *LuaPrettyPrinter) printRepeat(path *Path, n *ast.RepeatStmt) doc.Doc {
	after := n.Span().Start.Offset + len("repeat")
	comment := p.headerComment(after, blockBound(n.Body, n.Condition.Span().Start.Offset))
	block, empty := p.printBlock(path, "Body", n.Body, n.Condition.Span().Start.Offset)
	cond := Call(path, "Condition", n.Condition, p.printExpr)
	switch {
	case !empty:
		return doc.Concat(doc.Text("repeat"), comment, doc.Indent(doc.Concat(doc.HardLine, block)), doc.HardLine, doc.Text("until "), cond)
	case comment != nil:
		return doc.Concat(doc.Text("repeat"), comment, doc.HardLine, doc.Text("until "), cond)
	}
	return doc.Concat(doc.Text("repeat until "), cond)
}

func (p *LuaPrettyPrinter) printLocal(path *Path, n *ast.LocalStmt) doc.Doc {
	names := Map(path, "Variables", n.Variables, p.printExpr)
	head := doc.Concat(doc.Text("local "), doc.Join(doc.Text(", "), names))
	if len(n.Init) == 0 {
		return head
	}
	return doc.Concat(head, p.printInitializers(path, n.Init))
}

func (p *LuaPrettyPrinter) printAssign(path *Path, n *ast.AssignStmt) doc.Doc {
	targets := Map(path, "Variables", n.Variables, p.printExpr)
	return doc.Concat(doc.Join(doc.Text(", "), targets), p.printInitializers(path, n.Init))
}

// printInitializers prints "=" and the assigned values. Several values that
// do not fit break after "=" and then one per line.
func (p *LuaPrettyPrinter) printInitializers(path *Path, list []ast.Expr) doc.Doc {
	docs := Map(path, "Init", list, p.printExpr)
	if len(docs) == 1 {
		return doc.Concat(doc.Text(" = "), docs[0])
	}
	return doc.Concat(doc.Text(" ="), doc.Group(doc.Indent(doc.Concat(
		doc.Line,
		doc.Join(doc.Concat(doc.Text(","), doc.Line), docs),
	))))
}

// printExprList prints a comma separated list of values. A single value is
// printed as is so tables and functions keep their own layout.
func (p *LuaPrettyPrinter) printExprList(path *Path, name string, list []ast.Expr) doc.Doc {
	docs := Map(path, name, list, p.printExpr)
	if len(docs) == 1 {
		return docs[0]
	}
	return doc.Group(doc.Indent(doc.Join(doc.Concat(doc.Text(","), doc.Line), docs)))
}

func (p *LuaPrettyPrinter) printFunction(path *Path, n *ast.FunctionDecl) doc.Doc {
	var head []doc.Doc
	if n.IsLocal {
		head = append(head, doc.Text("local "))
	}
	head = append(head, doc.Text("function"))
	if n.Identifier != nil {
		head = append(head, doc.Text(" "), Call(path, "Identifier", n.Identifier, p.printExpr))
	}
	head = append(head, p.printParameters(path, n))

	after := n.Span().Start.Offset
	if n.Identifier != nil {
		after = n.Identifier.Span().End.Offset
	}
	if len(n.Parameters) > 0 {
		after = n.Parameters[len(n.Parameters)-1].Span().End.Offset
	}
	return p.printBody(path, doc.Concat(head...), after, n.Body, endKeyword(n), doc.Text("end"))
}

func (p *LuaPrettyPrinter) printParameters(path *Path, n *ast.FunctionDecl) doc.Doc {
	if len(n.Parameters) == 0 {
		return doc.Text("()")
	}
	params := Map(path, "Parameters", n.Parameters, p.printExpr)
	return doc.Group(doc.Concat(
		doc.Text("("),
		doc.Indent(doc.Concat(doc.SoftLine, doc.Join(doc.Concat(doc.Text(","), doc.Line), params))),
		doc.SoftLine,
		doc.Text(")"),
	))
}

func (p *LuaPrettyPrinter) printForNumeric(path *Path, n *ast.ForNumericStmt) doc.Doc {
	head := []doc.Doc{
		doc.Text("for "),
		Call(path, "Variable", n.Variable, p.printExpr),
		doc.Text(" = "),
		Call(path, "Start", n.Start, p.printExpr),
		doc.Text(", "),
		Call(path, "End", n.End, p.printExpr),
	}
	if n.Step != nil {
		head = append(head, doc.Text(", "), Call(path, "Step", n.Step, p.printExpr))
	}
	head = append(head, doc.Text(" do"))
	after := n.End.Span().End.Offset
	if n.Step != nil {
		after = n.Step.Span().End.Offset
	}
	return p.printBody(path, doc.Concat(head...), after, n.Body, endKeyword(n), doc.Text("end"))
}

func (p *LuaPrettyPrinter) printForGeneric(path *Path, n *ast.ForGenericStmt) doc.Doc {
	vars := Map(path, "Variables", n.Variables, p.printExpr)
	iters := Map(path, "Iterators", n.Iterators, p.printExpr)
	head := doc.Concat(
		doc.Text("for "),
		doc.Join(doc.Text(", "), vars),
		doc.Text(" in "),
		doc.Join(doc.Text(", "), iters),
		doc.Text(" do"),
	)
	after := n.Iterators[len(n.Iterators)-1].Span().End.Offset
	return p.printBody(path, head, after, n.Body, endKeyword(n), doc.Text("end"))
}
