// Package ast defines the syntax tree produced by the Lua parser.
//
// Every node carries the byte range it was parsed from. The tree is never
// mutated after parsing and has no parent pointers; consumers that need
// ancestors keep their own path from the root.
//
// Node hierarchy:
//
//	Node (interface)
//	├── Stmt - statements of a block
//	│   ├── LocalStmt, AssignStmt, CallStmt, FunctionDecl
//	│   ├── IfStmt (IfClause, ElseifClause, ElseClause), WhileStmt, RepeatStmt, DoStmt
//	│   ├── ForNumericStmt, ForGenericStmt
//	│   └── ReturnStmt, BreakStmt, GotoStmt, LabelStmt
//	├── Expr - expressions
//	│   ├── Ident, NilLit, BoolLit, NumberLit, StringLit, VarargLit
//	│   ├── TableExpr (TableKey, TableKeyString, TableValue)
//	│   ├── BinaryExpr, LogicalExpr, UnaryExpr, ParenExpr
//	│   ├── MemberExpr, IndexExpr
//	│   └── CallExpr, TableCallExpr, StringCallExpr
//	├── Chunk - the file
//	└── Comment
package ast

import "fmt"

type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() Kind
	Span() Span
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Clause is one arm of an if statement.
type Clause interface {
	Node
	clauseNode()
	Block() []Stmt
}

// TableField is one entry of a table constructor.
type TableField interface {
	Node
	fieldNode()
	FieldValue() Expr
}

// Base holds the source range shared by all nodes.
type Base struct {
	Loc Span
}

func (b *Base) Span() Span { return b.Loc }

// Pos returns the byte offset of the first character of the node.
func (b *Base) Pos() int { return b.Loc.Start.Offset }

// End returns the byte offset just past the node.
func (b *Base) End() int { return b.Loc.End.Offset }

type exprBase struct{ Base }

func (exprBase) exprNode() {}

type stmtBase struct{ Base }

func (stmtBase) stmtNode() {}

// Chunk is the root of a parsed file.
type Chunk struct {
	Base
	Body     []Stmt
	Comments []*Comment
	// Shebang is the first line when it starts with "#!", without the newline.
	Shebang string
}

// Comment is a line comment ("-- text") or a long comment ("--[[ text ]]").
type Comment struct {
	Base
	Value string // text without the comment markers
	Raw   string // exact source text
	Long  bool
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

type LabelStmt struct {
	stmtBase
	Label *Ident
}

type BreakStmt struct {
	stmtBase
}

type GotoStmt struct {
	stmtBase
	Label *Ident
}

type ReturnStmt struct {
	stmtBase
	Arguments []Expr
}

type IfStmt struct {
	stmtBase
	Clauses []Clause
}

type IfClause struct {
	Base
	Condition Expr
	Body      []Stmt
}

type ElseifClause struct {
	Base
	Condition Expr
	Body      []Stmt
}

// ElseClause spans from the else keyword to the end of its body.
type ElseClause struct {
	Base
	Body []Stmt
}

func (*IfClause) clauseNode()     {}
func (*ElseifClause) clauseNode() {}
func (*ElseClause) clauseNode()   {}

func (c *IfClause) Block() []Stmt     { return c.Body }
func (c *ElseifClause) Block() []Stmt { return c.Body }
func (c *ElseClause) Block() []Stmt   { return c.Body }

type WhileStmt struct {
	stmtBase
	Condition Expr
	Body      []Stmt
}

type DoStmt struct {
	stmtBase
	Body []Stmt
}

type RepeatStmt struct {
	stmtBase
	Body      []Stmt
	Condition Expr
}

type LocalStmt struct {
	stmtBase
	Variables []*Ident
	Init      []Expr
}

// AssignStmt targets are Ident, MemberExpr or IndexExpr.
type AssignStmt struct {
	stmtBase
	Variables []Expr
	Init      []Expr
}

// CallStmt wraps a call used as a statement.
type CallStmt struct {
	stmtBase
	Expression Expr
}

// FunctionDecl is both the function statement forms and the function
// expression. Identifier is nil for anonymous functions, an *Ident for
// "local function f" and "function f", and a *MemberExpr for "function a.b:c".
type FunctionDecl struct {
	Base
	Identifier Expr
	IsLocal    bool
	Parameters []Expr // *Ident, optionally followed by a *VarargLit
	Body       []Stmt
}

func (*FunctionDecl) exprNode() {}
func (*FunctionDecl) stmtNode() {}

type ForNumericStmt struct {
	stmtBase
	Variable *Ident
	Start    Expr
	End      Expr
	Step     Expr // nil when omitted
	Body     []Stmt
}

type ForGenericStmt struct {
	stmtBase
	Variables []*Ident
	Iterators []Expr
	Body      []Stmt
}

// -----------------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------------

type Ident struct {
	exprBase
	Name string
}

type NilLit struct {
	exprBase
}

type BoolLit struct {
	exprBase
	Value bool
}

// NumberLit keeps the source spelling; the formatter never rewrites numbers.
type NumberLit struct {
	exprBase
	Raw string
}

// StringLit is a quoted or long-bracket string.
type StringLit struct {
	exprBase
	Raw  string // exact source text including delimiters
	Long bool   // [[...]] or [==[...]==]
}

type VarargLit struct {
	exprBase
}

type TableExpr struct {
	exprBase
	Fields []TableField
}

// TableKey is "[key] = value".
type TableKey struct {
	Base
	Key   Expr
	Value Expr
}

// TableKeyString is "name = value".
type TableKeyString struct {
	Base
	Key   *Ident
	Value Expr
}

// TableValue is a positional entry.
type TableValue struct {
	Base
	Value Expr
}

func (*TableKey) fieldNode()       {}
func (*TableKeyString) fieldNode() {}
func (*TableValue) fieldNode()     {}

func (f *TableKey) FieldValue() Expr       { return f.Value }
func (f *TableKeyString) FieldValue() Expr { return f.Value }
func (f *TableValue) FieldValue() Expr     { return f.Value }

// BinaryExpr covers arithmetic, bitwise, concatenation and comparison operators.
type BinaryExpr struct {
	exprBase
	Operator string
	Left     Expr
	Right    Expr
}

// LogicalExpr covers "and" and "or".
type LogicalExpr struct {
	exprBase
	Operator string
	Left     Expr
	Right    Expr
}

type UnaryExpr struct {
	exprBase
	Operator string // "-", "not", "#", "~"
	Argument Expr
}

// ParenExpr is kept only where parentheses change meaning: a call or vararg
// adjusted to a single value. All other parentheses are dropped by the parser.
type ParenExpr struct {
	exprBase
	Expression Expr
}

// MemberExpr is "base.name" or "base:name".
type MemberExpr struct {
	exprBase
	Indexer    string
	Identifier *Ident
	Base       Expr
}

type IndexExpr struct {
	exprBase
	Base  Expr
	Index Expr
}

type CallExpr struct {
	exprBase
	Base      Expr
	Arguments []Expr
}

// TableCallExpr is a call whose single argument is a table constructor
// written without parentheses: f{...}.
type TableCallExpr struct {
	exprBase
	Base      Expr
	Arguments *TableExpr
}

// StringCallExpr is a call whose single argument is a string literal
// written without parentheses: f"..." or f[[...]].
type StringCallExpr struct {
	exprBase
	Base     Expr
	Argument *StringLit
}

// Operator returns the operator of a binary or logical expression, or "".
func Operator(n Node) string {
	switch n := n.(type) {
	case *BinaryExpr:
		return n.Operator
	case *LogicalExpr:
		return n.Operator
	case *UnaryExpr:
		return n.Operator
	}
	return ""
}

// Operands returns the operands of a binary or logical expression.
func Operands(n Node) (left, right Expr, ok bool) {
	switch n := n.(type) {
	case *BinaryExpr:
		return n.Left, n.Right, true
	case *LogicalExpr:
		return n.Left, n.Right, true
	}
	return nil, nil, false
}

// CallBase returns the callee/object of a call, member or index expression.
func CallBase(n Node) (Expr, bool) {
	switch n := n.(type) {
	case *CallExpr:
		return n.Base, true
	case *TableCallExpr:
		return n.Base, true
	case *StringCallExpr:
		return n.Base, true
	case *MemberExpr:
		return n.Base, true
	case *IndexExpr:
		return n.Base, true
	}
	return nil, false
}
