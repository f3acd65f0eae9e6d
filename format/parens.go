package format

import "github.com/dhamidi/luafmt/lua/ast"

// NeedsParens reports whether the focus must be wrapped in parentheses to
// keep its meaning under its parent.
func (p *Path) NeedsParens() bool {
	node := p.Node()
	if node == nil {
		return false
	}
	key, idx := p.Slot()
	return needsParens(node, p.Parent(), key, idx)
}

// needsParens decides parenthesization from the node, its parent and the
// field of the parent holding it. idx is the list position or -1.
func needsParens(node, parent ast.Node, key string, idx int) bool {
	if parent == nil {
		return false
	}

	switch node := node.(type) {
	case *ast.Ident, *ast.MemberExpr, *ast.IndexExpr, *ast.CallExpr, *ast.VarargLit, *ast.ParenExpr:
		return false

	case *ast.StringCallExpr, *ast.TableCallExpr:
		return bareCallNeedsParens(parent, key, idx)

	case *ast.UnaryExpr:
		switch parent := parent.(type) {
		case *ast.UnaryExpr:
			return node.Operator == parent.Operator && (node.Operator == "-" || node.Operator == "+")
		case *ast.BinaryExpr:
			return parent.Operator == "^" && key == "Left"
		}
		return isChainBase(parent, key)

	case *ast.NilLit, *ast.BoolLit, *ast.NumberLit, *ast.StringLit, *ast.TableExpr, *ast.FunctionDecl:
		return isChainBase(parent, key)

	case *ast.BinaryExpr, *ast.LogicalExpr:
		return binaryNeedsParens(node.(ast.Expr), parent, key)
	}
	return false
}

// isChainBase reports whether the node is the callee or object of a call,
// member or index expression.
func isChainBase(parent ast.Node, key string) bool {
	if key != "Base" {
		return false
	}
	_, ok := ast.CallBase(parent)
	return ok
}

// bareCallNeedsParens handles f"str" and f{...}. Parentheses are needed
// where a bare call could otherwise be read as part of a list of values.
func bareCallNeedsParens(parent ast.Node, key string, idx int) bool {
	switch parent := parent.(type) {
	case *ast.TableValue:
		return true
	case *ast.ReturnStmt:
		return key == "Arguments" && idx >= 0 && idx < len(parent.Arguments)-1
	case *ast.LocalStmt:
		return initNeedsParens(len(parent.Variables), len(parent.Init), key, idx)
	case *ast.AssignStmt:
		return initNeedsParens(len(parent.Variables), len(parent.Init), key, idx)
	}
	return false
}

func initNeedsParens(vars, inits int, key string, idx int) bool {
	if key != "Init" || idx < 0 || inits <= vars {
		return false
	}
	return idx < inits-1
}

func binaryNeedsParens(node ast.Expr, parent ast.Node, key string) bool {
	switch parent.(type) {
	case *ast.UnaryExpr:
		return true
	case *ast.BinaryExpr, *ast.LogicalExpr:
	default:
		return isChainBase(parent, key)
	}

	op := ast.Operator(node)
	parentOp := ast.Operator(parent)
	prec := precedence(op)
	parentPrec := precedence(parentOp)

	if parentPrec > prec {
		return true
	}
	if parentOp == "or" && op == "and" {
		return true
	}
	if parentPrec != prec {
		return false
	}

	isLeft := key == "Left"
	if op != parentOp && isLeft {
		return true
	}
	// Against the grain of associativity: a - (b - c), (a .. b) .. c.
	if isRightAssoc(parentOp) == isLeft {
		return true
	}
	return !shouldFlatten(op, parentOp)
}
