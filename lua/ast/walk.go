package ast

// Children returns the direct children of n in source order. Nil optional
// children are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil && !isNilNode(c) {
			out = append(out, c)
		}
	}
	switch n := n.(type) {
	case *Chunk:
		for _, s := range n.Body {
			add(s)
		}
	case *LabelStmt:
		add(n.Label)
	case *GotoStmt:
		add(n.Label)
	case *ReturnStmt:
		for _, e := range n.Arguments {
			add(e)
		}
	case *IfStmt:
		for _, c := range n.Clauses {
			add(c)
		}
	case *IfClause:
		add(n.Condition)
		for _, s := range n.Body {
			add(s)
		}
	case *ElseifClause:
		add(n.Condition)
		for _, s := range n.Body {
			add(s)
		}
	case *ElseClause:
		for _, s := range n.Body {
			add(s)
		}
	case *WhileStmt:
		add(n.Condition)
		for _, s := range n.Body {
			add(s)
		}
	case *DoStmt:
		for _, s := range n.Body {
			add(s)
		}
	case *RepeatStmt:
		for _, s := range n.Body {
			add(s)
		}
		add(n.Condition)
	case *LocalStmt:
		for _, v := range n.Variables {
			add(v)
		}
		for _, e := range n.Init {
			add(e)
		}
	case *AssignStmt:
		for _, v := range n.Variables {
			add(v)
		}
		for _, e := range n.Init {
			add(e)
		}
	case *CallStmt:
		add(n.Expression)
	case *FunctionDecl:
		add(n.Identifier)
		for _, p := range n.Parameters {
			add(p)
		}
		for _, s := range n.Body {
			add(s)
		}
	case *ForNumericStmt:
		add(n.Variable)
		add(n.Start)
		add(n.End)
		add(n.Step)
		for _, s := range n.Body {
			add(s)
		}
	case *ForGenericStmt:
		for _, v := range n.Variables {
			add(v)
		}
		for _, e := range n.Iterators {
			add(e)
		}
		for _, s := range n.Body {
			add(s)
		}
	case *TableExpr:
		for _, f := range n.Fields {
			add(f)
		}
	case *TableKey:
		add(n.Key)
		add(n.Value)
	case *TableKeyString:
		add(n.Key)
		add(n.Value)
	case *TableValue:
		add(n.Value)
	case *BinaryExpr:
		add(n.Left)
		add(n.Right)
	case *LogicalExpr:
		add(n.Left)
		add(n.Right)
	case *UnaryExpr:
		add(n.Argument)
	case *ParenExpr:
		add(n.Expression)
	case *MemberExpr:
		add(n.Base)
		add(n.Identifier)
	case *IndexExpr:
		add(n.Base)
		add(n.Index)
	case *CallExpr:
		add(n.Base)
		for _, a := range n.Arguments {
			add(a)
		}
	case *TableCallExpr:
		add(n.Base)
		add(n.Arguments)
	case *StringCallExpr:
		add(n.Base)
		add(n.Argument)
	}
	return out
}

// isNilNode reports typed nil pointers stored in an interface.
func isNilNode(n Node) bool {
	switch n := n.(type) {
	case *Ident:
		return n == nil
	case *TableExpr:
		return n == nil
	case *StringLit:
		return n == nil
	}
	return false
}

// Inspect walks the tree depth-first, calling fn for each node. When fn
// returns false the children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}
