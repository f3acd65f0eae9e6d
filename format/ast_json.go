package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/luafmt/lua/ast"
)

// ASTJSONEncoder writes a syntax tree as indented JSON, for `luafmt parse`.
type ASTJSONEncoder struct {
	w         io.Writer
	positions bool
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

// WithPositions includes the span of every node in the output.
func (e *ASTJSONEncoder) WithPositions(on bool) *ASTJSONEncoder {
	e.positions = on
	return e
}

func (e *ASTJSONEncoder) Encode(chunk *ast.Chunk) error {
	text, err := e.MarshalText(chunk)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText(chunk *ast.Chunk) ([]byte, error) {
	root := e.nodeToJSON(chunk)
	for _, c := range chunk.Comments {
		root.Comments = append(root.Comments, e.nodeToJSON(c))
	}
	return json.MarshalIndent(root, "", "  ")
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Span     *astJSONSpan   `json:"span,omitempty"`
	Name     string         `json:"name,omitempty"`
	Operator string         `json:"operator,omitempty"`
	Raw      string         `json:"raw,omitempty"`
	Local    bool           `json:"local,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
	Comments []*astJSONNode `json:"comments,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (e *ASTJSONEncoder) nodeToJSON(n ast.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind: n.Kind().String(),
	}

	if e.positions {
		span := n.Span()
		jn.Span = &astJSONSpan{
			Start: astJSONPosition{Offset: span.Start.Offset, Line: span.Start.Line, Column: span.Start.Column},
			End:   astJSONPosition{Offset: span.End.Offset, Line: span.End.Line, Column: span.End.Column},
		}
	}

	switch n := n.(type) {
	case *ast.Ident:
		jn.Name = n.Name
	case *ast.NumberLit:
		jn.Raw = n.Raw
	case *ast.StringLit:
		jn.Raw = n.Raw
	case *ast.BoolLit:
		jn.Raw = "false"
		if n.Value {
			jn.Raw = "true"
		}
	case *ast.Comment:
		jn.Raw = n.Raw
	case *ast.MemberExpr:
		jn.Operator = n.Indexer
	case *ast.FunctionDecl:
		jn.Local = n.IsLocal
	case *ast.LocalStmt:
		jn.Local = true
	case *ast.BinaryExpr, *ast.LogicalExpr, *ast.UnaryExpr:
		jn.Operator = ast.Operator(n)
	}

	for _, child := range ast.Children(n) {
		jn.Children = append(jn.Children, e.nodeToJSON(child))
	}

	return jn
}
