package ast

type Kind int

const (
	KindInvalid Kind = iota

	KindChunk
	KindComment

	// Statements
	KindLabelStmt
	KindBreakStmt
	KindGotoStmt
	KindReturnStmt
	KindIfStmt
	KindIfClause
	KindElseifClause
	KindElseClause
	KindWhileStmt
	KindDoStmt
	KindRepeatStmt
	KindLocalStmt
	KindAssignStmt
	KindCallStmt
	KindFunctionDecl
	KindForNumericStmt
	KindForGenericStmt

	// Expressions
	KindIdent
	KindNilLit
	KindBoolLit
	KindNumberLit
	KindStringLit
	KindVarargLit
	KindTableExpr
	KindTableKey
	KindTableKeyString
	KindTableValue
	KindBinaryExpr
	KindLogicalExpr
	KindUnaryExpr
	KindParenExpr
	KindMemberExpr
	KindIndexExpr
	KindCallExpr
	KindTableCallExpr
	KindStringCallExpr
)

var kindNames = map[Kind]string{
	KindInvalid:        "Invalid",
	KindChunk:          "Chunk",
	KindComment:        "Comment",
	KindLabelStmt:      "LabelStatement",
	KindBreakStmt:      "BreakStatement",
	KindGotoStmt:       "GotoStatement",
	KindReturnStmt:     "ReturnStatement",
	KindIfStmt:         "IfStatement",
	KindIfClause:       "IfClause",
	KindElseifClause:   "ElseifClause",
	KindElseClause:     "ElseClause",
	KindWhileStmt:      "WhileStatement",
	KindDoStmt:         "DoStatement",
	KindRepeatStmt:     "RepeatStatement",
	KindLocalStmt:      "LocalStatement",
	KindAssignStmt:     "AssignmentStatement",
	KindCallStmt:       "CallStatement",
	KindFunctionDecl:   "FunctionDeclaration",
	KindForNumericStmt: "ForNumericStatement",
	KindForGenericStmt: "ForGenericStatement",
	KindIdent:          "Identifier",
	KindNilLit:         "NilLiteral",
	KindBoolLit:        "BooleanLiteral",
	KindNumberLit:      "NumericLiteral",
	KindStringLit:      "StringLiteral",
	KindVarargLit:      "VarargLiteral",
	KindTableExpr:      "TableConstructorExpression",
	KindTableKey:       "TableKey",
	KindTableKeyString: "TableKeyString",
	KindTableValue:     "TableValue",
	KindBinaryExpr:     "BinaryExpression",
	KindLogicalExpr:    "LogicalExpression",
	KindUnaryExpr:      "UnaryExpression",
	KindParenExpr:      "ParenthesizedExpression",
	KindMemberExpr:     "MemberExpression",
	KindIndexExpr:      "IndexExpression",
	KindCallExpr:       "CallExpression",
	KindTableCallExpr:  "TableCallExpression",
	KindStringCallExpr: "StringCallExpression",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

func (*Chunk) Kind() Kind          { return KindChunk }
func (*Comment) Kind() Kind        { return KindComment }
func (*LabelStmt) Kind() Kind      { return KindLabelStmt }
func (*BreakStmt) Kind() Kind      { return KindBreakStmt }
func (*GotoStmt) Kind() Kind       { return KindGotoStmt }
func (*ReturnStmt) Kind() Kind     { return KindReturnStmt }
func (*IfStmt) Kind() Kind         { return KindIfStmt }
func (*IfClause) Kind() Kind       { return KindIfClause }
func (*ElseifClause) Kind() Kind   { return KindElseifClause }
func (*ElseClause) Kind() Kind     { return KindElseClause }
func (*WhileStmt) Kind() Kind      { return KindWhileStmt }
func (*DoStmt) Kind() Kind         { return KindDoStmt }
func (*RepeatStmt) Kind() Kind     { return KindRepeatStmt }
func (*LocalStmt) Kind() Kind      { return KindLocalStmt }
func (*AssignStmt) Kind() Kind     { return KindAssignStmt }
func (*CallStmt) Kind() Kind       { return KindCallStmt }
func (*FunctionDecl) Kind() Kind   { return KindFunctionDecl }
func (*ForNumericStmt) Kind() Kind { return KindForNumericStmt }
func (*ForGenericStmt) Kind() Kind { return KindForGenericStmt }
func (*Ident) Kind() Kind          { return KindIdent }
func (*NilLit) Kind() Kind         { return KindNilLit }
func (*BoolLit) Kind() Kind        { return KindBoolLit }
func (*NumberLit) Kind() Kind      { return KindNumberLit }
func (*StringLit) Kind() Kind      { return KindStringLit }
func (*VarargLit) Kind() Kind      { return KindVarargLit }
func (*TableExpr) Kind() Kind      { return KindTableExpr }
func (*TableKey) Kind() Kind       { return KindTableKey }
func (*TableKeyString) Kind() Kind { return KindTableKeyString }
func (*TableValue) Kind() Kind     { return KindTableValue }
func (*BinaryExpr) Kind() Kind     { return KindBinaryExpr }
func (*LogicalExpr) Kind() Kind    { return KindLogicalExpr }
func (*UnaryExpr) Kind() Kind      { return KindUnaryExpr }
func (*ParenExpr) Kind() Kind      { return KindParenExpr }
func (*MemberExpr) Kind() Kind     { return KindMemberExpr }
func (*IndexExpr) Kind() Kind      { return KindIndexExpr }
func (*CallExpr) Kind() Kind       { return KindCallExpr }
func (*TableCallExpr) Kind() Kind  { return KindTableCallExpr }
func (*StringCallExpr) Kind() Kind { return KindStringCallExpr }
