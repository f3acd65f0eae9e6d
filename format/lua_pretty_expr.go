package format

import (
	"slices"

	"github.com/dhamidi/luafmt/doc"
	"github.com/dhamidi/luafmt/lua/ast"
)

func isBinaryish(n ast.Node) bool {
	_, _, ok := ast.Operands(n)
	return ok
}

// printBinary prints an operator chain. Operands joined by operators of
// the same precedence that need no parentheses are flattened into one fill,
// so a long chain wraps between operands instead of nesting.
func (p *LuaPrettyPrinter) printBinary(path *Path) doc.Doc {
	parts := p.binaryParts(path)
	fill := doc.Fill(joinParts(parts, doc.Line))
	if isBinaryish(path.Parent()) && !path.NeedsParens() {
		return fill
	}
	return doc.Group(doc.Indent(fill))
}

func joinParts(parts []doc.Doc, sep doc.Doc) []doc.Doc {
	out := make([]doc.Doc, 0, 2*len(parts))
	for i, d := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, d)
	}
	return out
}

// binaryParts returns the operands of the focused chain, each but the last
// followed by its operator.
func (p *LuaPrettyPrinter) binaryParts(path *Path) []doc.Doc {
	node := path.Node()
	left, right, _ := ast.Operands(node)
	op := ast.Operator(node)

	var parts []doc.Doc
	if flattens(node, left, "Left") {
		parts = Call(path, "Left", left, p.binaryParts)
	} else {
		parts = []doc.Doc{Call(path, "Left", left, p.printExpr)}
	}
	parts[len(parts)-1] = doc.Concat(parts[len(parts)-1], doc.Text(" "+op))

	if flattens(node, right, "Right") {
		parts = append(parts, Call(path, "Right", right, p.binaryParts)...)
	} else {
		parts = append(parts, Call(path, "Right", right, p.printExpr))
	}
	return parts
}

// flattens reports whether child can share its parent's chain.
func flattens(parent ast.Node, child ast.Expr, key string) bool {
	if !isBinaryish(child) {
		return false
	}
	if precedence(ast.Operator(child)) != precedence(ast.Operator(parent)) {
		return false
	}
	return !needsParens(child, parent, key, -1)
}

func (p *LuaPrettyPrinter) printUnary(path *Path, n *ast.UnaryExpr) doc.Doc {
	op := n.Operator
	if op == "not" {
		op += " "
	}
	return doc.Concat(doc.Text(op), Call(path, "Argument", n.Argument, p.printExpr))
}

// printArguments prints a parenthesized argument list. When the last
// argument is a function or a table the list hugs it, so its body breaks
// instead of the list. An earlier argument that must break turns hugging
// off.
func (p *LuaPrettyPrinter) printArguments(path *Path, n *ast.CallExpr) doc.Doc {
	if len(n.Arguments) == 0 {
		return doc.Text("()")
	}
	args := Map(path, "Arguments", n.Arguments, p.printExpr)

	switch n.Arguments[len(n.Arguments)-1].(type) {
	case *ast.FunctionDecl, *ast.TableExpr:
		if !slices.ContainsFunc(args[:len(args)-1], doc.WillBreak) {
			return doc.Concat(doc.Text("("), doc.Join(doc.Text(", "), args), doc.Text(")"))
		}
	}
	return doc.Group(doc.Concat(
		doc.Text("("),
		doc.Indent(doc.Concat(doc.SoftLine, doc.Join(doc.Concat(doc.Text(","), doc.Line), args))),
		doc.SoftLine,
		doc.Text(")"),
	))
}

// printIndex prints "[key]" for index expressions and table keys. A long
// string key is padded so its opening bracket does not merge with "[".
func (p *LuaPrettyPrinter) printIndex(path *Path, name string, key ast.Expr) doc.Doc {
	d := Call(path, name, key, p.printExpr)
	if s, ok := key.(*ast.StringLit); ok && s.Long {
		return doc.Concat(doc.Text("[ "), d, doc.Text(" ]"))
	}
	return doc.Concat(doc.Text("["), d, doc.Text("]"))
}

func (p *LuaPrettyPrinter) printTable(path *Path, n *ast.TableExpr) doc.Doc {
	closing := n.Span().End.Offset - len("}")

	if len(n.Fields) == 0 {
		dangling := p.danglingComments(closing)
		if dangling == nil {
			return doc.Text("{}")
		}
		return doc.Concat(doc.Text("{"), doc.Indent(doc.Concat(doc.HardLine, dangling)), doc.HardLine, doc.Text("}"))
	}

	var parts []doc.Doc
	Each(path, "Fields", n.Fields, func(path *Path, i int) {
		span := n.Fields[i].Span()
		last := i == len(n.Fields)-1

		parts = append(parts, p.leadingComments(span.Start.Offset), p.printNode(path))
		if !last {
			parts = append(parts, doc.Text(","))
		}
		parts = append(parts, p.trailingComments(span.End.Offset))
		if !last {
			if isNextLineEmpty(p.source, span.End.Offset) {
				parts = append(parts, doc.HardLine)
			}
			parts = append(parts, doc.Line)
		}
	})

	if dangling := p.danglingComments(closing); dangling != nil {
		parts = append(parts, doc.HardLine, dangling)
	}

	group := doc.Group
	// A table written with a newline after "{" stays broken.
	if hasNewlineInRange(p.source, n.Span().Start.Offset, n.Fields[0].Span().Start.Offset) {
		group = doc.BrokenGroup
	}
	return group(doc.Concat(
		doc.Text("{"),
		doc.Indent(doc.Concat(doc.Line, doc.Concat(parts...))),
		doc.Line,
		doc.Text("}"),
	))
}

func (p *LuaPrettyPrinter) printField(path *Path) doc.Doc {
	switch f := path.Node().(type) {
	case *ast.TableKey:
		return doc.Concat(p.printIndex(path, "Key", f.Key), doc.Text(" = "), Call(path, "Value", f.Value, p.printExpr))
	case *ast.TableKeyString:
		return doc.Concat(Call(path, "Key", f.Key, p.printExpr), doc.Text(" = "), Call(path, "Value", f.Value, p.printExpr))
	case *ast.TableValue:
		return Call(path, "Value", f.Value, p.printExpr)
	}
	panic(&UnsupportedNodeError{Node: path.Node()})
}
