package format

import (
	"testing"

	"github.com/dhamidi/luafmt/lua/ast"
)

func bin(op string, left, right ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Operator: op, Left: left, Right: right}
}

func logical(op string, left, right ast.Expr) *ast.LogicalExpr {
	return &ast.LogicalExpr{Operator: op, Left: left, Right: right}
}

func ident(name string) *ast.Ident {
	return &ast.Ident{Name: name}
}

func TestNeedsParensBinary(t *testing.T) {
	a, b, c := ident("a"), ident("b"), ident("c")

	tests := []struct {
		name   string
		node   ast.Node
		parent func(ast.Expr) ast.Node
		key    string
		want   bool
	}{
		{"lower precedence left", bin("+", a, b), func(n ast.Expr) ast.Node { return bin("*", n, c) }, "Left", true},
		{"higher precedence right", bin("*", b, c), func(n ast.Expr) ast.Node { return bin("+", a, n) }, "Right", false},
		{"same operator left", bin("-", a, b), func(n ast.Expr) ast.Node { return bin("-", n, c) }, "Left", false},
		{"same operator right", bin("-", b, c), func(n ast.Expr) ast.Node { return bin("-", a, n) }, "Right", true},
		{"different operator left", bin("-", a, b), func(n ast.Expr) ast.Node { return bin("+", n, c) }, "Left", true},
		{"concat right", bin("..", b, c), func(n ast.Expr) ast.Node { return bin("..", a, n) }, "Right", false},
		{"concat left", bin("..", a, b), func(n ast.Expr) ast.Node { return bin("..", n, c) }, "Left", true},
		{"power right", bin("^", b, c), func(n ast.Expr) ast.Node { return bin("^", a, n) }, "Right", true},
		{"equality chain", bin("==", a, b), func(n ast.Expr) ast.Node { return bin("==", n, c) }, "Left", true},
		{"modulo under multiply", bin("%", b, c), func(n ast.Expr) ast.Node { return bin("*", a, n) }, "Right", true},
		{"and under or", logical("and", a, b), func(n ast.Expr) ast.Node { return logical("or", n, c) }, "Left", true},
		{"or under and", logical("or", a, b), func(n ast.Expr) ast.Node { return logical("and", n, c) }, "Left", true},
		{"and under and", logical("and", a, b), func(n ast.Expr) ast.Node { return logical("and", n, c) }, "Left", false},
		{"comparison under and", bin("<", a, b), func(n ast.Expr) ast.Node { return logical("and", n, c) }, "Left", false},
		{"under unary", bin("+", a, b), func(n ast.Expr) ast.Node { return &ast.UnaryExpr{Operator: "-", Argument: n} }, "Argument", true},
		{"call base", bin("+", a, b), func(n ast.Expr) ast.Node { return &ast.CallExpr{Base: n} }, "Base", true},
		{"call argument", bin("+", a, b), func(n ast.Expr) ast.Node { return &ast.CallExpr{Base: c, Arguments: []ast.Expr{n}} }, "Arguments", false},
		{"member base", bin("..", a, b), func(n ast.Expr) ast.Node { return &ast.MemberExpr{Indexer: ":", Base: n, Identifier: c} }, "Base", true},
		{"index key", bin("+", a, b), func(n ast.Expr) ast.Node { return &ast.IndexExpr{Base: c, Index: n} }, "Index", false},
		{"assignment", bin("+", a, b), func(n ast.Expr) ast.Node { return &ast.AssignStmt{Init: []ast.Expr{n}} }, "Init", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := tt.parent(tt.node.(ast.Expr))
			if got := needsParens(tt.node, parent, tt.key, -1); got != tt.want {
				t.Errorf("needsParens() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNeedsParensUnary(t *testing.T) {
	x := ident("x")
	neg := &ast.UnaryExpr{Operator: "-", Argument: x}
	not := &ast.UnaryExpr{Operator: "not", Argument: x}

	tests := []struct {
		name   string
		node   ast.Node
		parent ast.Node
		key    string
		want   bool
	}{
		{"double negation", neg, &ast.UnaryExpr{Operator: "-", Argument: neg}, "Argument", true},
		{"double not", not, &ast.UnaryExpr{Operator: "not", Argument: not}, "Argument", false},
		{"mixed unary", neg, &ast.UnaryExpr{Operator: "#", Argument: neg}, "Argument", false},
		{"power base", neg, bin("^", neg, x), "Left", true},
		{"power exponent", neg, bin("^", x, neg), "Right", false},
		{"addition", neg, bin("+", neg, x), "Left", false},
		{"call argument", neg, &ast.CallExpr{Base: x, Arguments: []ast.Expr{neg}}, "Arguments", false},
		{"member base", neg, &ast.MemberExpr{Indexer: ".", Base: neg, Identifier: x}, "Base", true},
	}
	for _, tt := range tests {
		if got := needsParens(tt.node, tt.parent, tt.key, -1); got != tt.want {
			t.Errorf("%s: needsParens() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNeedsParensBareCalls(t *testing.T) {
	call := &ast.StringCallExpr{Base: ident("f"), Argument: &ast.StringLit{Raw: `"x"`}}
	tcall := &ast.TableCallExpr{Base: ident("f"), Arguments: &ast.TableExpr{}}
	two := []*ast.Ident{ident("a"), ident("b")}

	tests := []struct {
		name   string
		node   ast.Node
		parent ast.Node
		key    string
		idx    int
		want   bool
	}{
		{"table value", tcall, &ast.TableValue{Value: tcall}, "Value", -1, true},
		{"table key value", tcall, &ast.TableKeyString{Key: ident("k"), Value: tcall}, "Value", -1, false},
		{"return not last", call, &ast.ReturnStmt{Arguments: []ast.Expr{call, ident("y")}}, "Arguments", 0, true},
		{"return last", call, &ast.ReturnStmt{Arguments: []ast.Expr{ident("y"), call}}, "Arguments", 1, false},
		{"local more inits", call, &ast.LocalStmt{Variables: two[:1], Init: []ast.Expr{call, ident("y")}}, "Init", 0, true},
		{"local last init", call, &ast.LocalStmt{Variables: two[:1], Init: []ast.Expr{ident("y"), call}}, "Init", 1, false},
		{"local matching counts", call, &ast.LocalStmt{Variables: two, Init: []ast.Expr{call, ident("y")}}, "Init", 0, false},
		{"assign more inits", tcall, &ast.AssignStmt{Variables: []ast.Expr{ident("a")}, Init: []ast.Expr{tcall, ident("y")}}, "Init", 0, true},
		{"call argument", call, &ast.CallExpr{Base: ident("g"), Arguments: []ast.Expr{call}}, "Arguments", 0, false},
	}
	for _, tt := range tests {
		if got := needsParens(tt.node, tt.parent, tt.key, tt.idx); got != tt.want {
			t.Errorf("%s: needsParens() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNeedsParensLiterals(t *testing.T) {
	str := &ast.StringLit{Raw: `"x"`}
	fn := &ast.FunctionDecl{}

	tests := []struct {
		name   string
		node   ast.Node
		parent ast.Node
		key    string
		want   bool
	}{
		{"string method", str, &ast.MemberExpr{Indexer: ":", Base: str, Identifier: ident("rep")}, "Base", true},
		{"string argument", str, &ast.CallExpr{Base: ident("f"), Arguments: []ast.Expr{str}}, "Arguments", false},
		{"function call", fn, &ast.CallExpr{Base: fn}, "Base", true},
		{"function value", fn, &ast.LocalStmt{Init: []ast.Expr{fn}}, "Init", false},
		{"no parent", str, nil, "", false},
		{"identifier", ident("x"), &ast.CallExpr{Base: ident("x")}, "Base", false},
	}
	for _, tt := range tests {
		if got := needsParens(tt.node, tt.parent, tt.key, -1); got != tt.want {
			t.Errorf("%s: needsParens() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestShouldFlatten(t *testing.T) {
	tests := []struct {
		op, parent string
		want       bool
	}{
		{"+", "+", true},
		{"+", "-", true},
		{"*", "*", true},
		{"^", "^", false},
		{"==", "==", false},
		{"==", "~=", false},
		{"%", "*", false},
		{"*", "%", false},
		{"//", "%", false},
		{"+", "*", false},
		{"and", "and", true},
	}
	for _, tt := range tests {
		if got := shouldFlatten(tt.op, tt.parent); got != tt.want {
			t.Errorf("shouldFlatten(%q, %q) = %v, want %v", tt.op, tt.parent, got, tt.want)
		}
	}
}
