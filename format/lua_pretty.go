package format

import (
	"bytes"
	"io"
	"strings"

	"github.com/dhamidi/luafmt/doc"
	"github.com/dhamidi/luafmt/lua/ast"
	"github.com/dhamidi/luafmt/lua/parser"
)

type LuaPrettyPrinter struct {
	w            io.Writer
	opts         Options
	source       string
	comments     []*ast.Comment
	commentIndex int
}

func NewLuaPrettyPrinter(w io.Writer, opts Options) *LuaPrettyPrinter {
	return &LuaPrettyPrinter{
		w:    w,
		opts: opts,
	}
}

// Print formats chunk, which must have been parsed from source, and writes
// the result. Nothing is written when an error is returned.
func (p *LuaPrettyPrinter) Print(chunk *ast.Chunk, source []byte) (err error) {
	if err := p.opts.Validate(); err != nil {
		return err
	}

	p.source = string(source)
	p.comments = chunk.Comments
	p.commentIndex = 0

	defer func() {
		if r := recover(); r != nil {
			unsupported, ok := r.(*UnsupportedNodeError)
			if !ok {
				panic(r)
			}
			err = unsupported
		}
	}()

	d := p.printChunk(NewPath(chunk))
	out := doc.Print(d, doc.Options{
		Width:       p.opts.Width,
		IndentWidth: p.opts.indentWidth(),
		UseTabs:     p.opts.UseTabs,
	})
	if out != "" {
		out += "\n"
	}
	if nl := p.opts.newline(source); nl != "\n" {
		out = strings.ReplaceAll(out, "\n", nl)
	}
	_, err = io.WriteString(p.w, out)
	return err
}

// Format parses and formats a Lua 5.3 chunk. Syntax errors are returned as
// *parser.Error.
func Format(source []byte, opts Options) ([]byte, error) {
	return FormatFile(source, "", opts)
}

// FormatFile is Format with a file name for error messages.
func FormatFile(source []byte, filename string, opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var popts []parser.Option
	if filename != "" {
		popts = append(popts, parser.WithFile(filename))
	}
	chunk, err := parser.Parse(source, popts...)
	if err != nil {
		return nil, err
	}
	return FormatChunk(chunk, source, opts)
}

// FormatChunk formats an already parsed chunk.
func FormatChunk(chunk *ast.Chunk, source []byte, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewLuaPrettyPrinter(&buf, opts).Print(chunk, source); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func FormatString(source string, opts Options) (string, error) {
	out, err := Format([]byte(source), opts)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (p *LuaPrettyPrinter) printChunk(path *Path) doc.Doc {
	chunk := path.Node().(*ast.Chunk)
	var parts []doc.Doc

	if chunk.Shebang != "" {
		parts = append(parts, doc.Text(chunk.Shebang))
		if len(chunk.Body) > 0 || p.commentIndex < len(p.comments) {
			parts = append(parts, doc.HardLine)
			if isNextLineEmpty(p.source, len(chunk.Shebang)) {
				parts = append(parts, doc.HardLine)
			}
		}
	}

	body, _ := p.printBlock(path, "Body", chunk.Body, len(p.source))
	parts = append(parts, body)
	return doc.Concat(parts...)
}

// printNode dispatches on the focused node without adding parentheses.
func (p *LuaPrettyPrinter) printNode(path *Path) doc.Doc {
	switch n := path.Node().(type) {
	case *ast.LabelStmt:
		return doc.Concat(doc.Text("::"), doc.Text(n.Label.Name), doc.Text("::"))
	case *ast.BreakStmt:
		return doc.Text("break")
	case *ast.GotoStmt:
		return doc.Concat(doc.Text("goto "), doc.Text(n.Label.Name))
	case *ast.ReturnStmt:
		return p.printReturn(path, n)
	case *ast.IfStmt:
		return p.printIf(path, n)
	case *ast.WhileStmt:
		return p.printWhile(path, n)
	case *ast.DoStmt:
		return p.printDo(path, n)
	case *ast.RepeatStmt:
		return p.printRepeat(path, n)
	case *ast.LocalStmt:
		return p.printLocal(path, n)
	case *ast.AssignStmt:
		return p.printAssign(path, n)
	case *ast.CallStmt:
		return Call(path, "Expression", n.Expression, p.printExpr)
	case *ast.FunctionDecl:
		return p.printFunction(path, n)
	case *ast.ForNumericStmt:
		return p.printForNumeric(path, n)
	case *ast.ForGenericStmt:
		return p.printForGeneric(path, n)

	case *ast.Ident:
		return doc.Text(n.Name)
	case *ast.NilLit:
		return doc.Text("nil")
	case *ast.BoolLit:
		if n.Value {
			return doc.Text("true")
		}
		return doc.Text("false")
	case *ast.NumberLit:
		return doc.Text(n.Raw)
	case *ast.StringLit:
		return p.printString(n)
	case *ast.VarargLit:
		return doc.Text("...")
	case *ast.TableExpr:
		return p.printTable(path, n)
	case *ast.TableKey, *ast.TableKeyString, *ast.TableValue:
		return p.printField(path)
	case *ast.BinaryExpr, *ast.LogicalExpr:
		return p.printBinary(path)
	case *ast.UnaryExpr:
		return p.printUnary(path, n)
	case *ast.ParenExpr:
		return doc.Concat(doc.Text("("), Call(path, "Expression", n.Expression, p.printExpr), doc.Text(")"))
	case *ast.MemberExpr:
		return doc.Concat(
			Call(path, "Base", n.Base, p.printExpr),
			doc.Text(n.Indexer),
			Call(path, "Identifier", n.Identifier, p.printExpr),
		)
	case *ast.IndexExpr:
		return doc.Concat(Call(path, "Base", n.Base, p.printExpr), p.printIndex(path, "Index", n.Index))
	case *ast.CallExpr:
		return doc.Concat(Call(path, "Base", n.Base, p.printExpr), p.printArguments(path, n))
	case *ast.TableCallExpr:
		return doc.Concat(
			Call(path, "Base", n.Base, p.printExpr),
			doc.Text(" "),
			Call(path, "Arguments", n.Arguments, p.printExpr),
		)
	case *ast.StringCallExpr:
		return doc.Concat(
			Call(path, "Base", n.Base, p.printExpr),
			doc.Text(" "),
			Call(path, "Argument", n.Argument, p.printExpr),
		)
	}
	panic(&UnsupportedNodeError{Node: path.Node()})
}

// printExpr prints the focused expression, parenthesized when its position
// under the parent requires it.
func (p *LuaPrettyPrinter) printExpr(path *Path) doc.Doc {
	d := p.printNode(path)
	if path.NeedsParens() {
		return doc.Concat(doc.Text("("), d, doc.Text(")"))
	}
	return d
}

// printString normalizes quotes; long strings and strings continued over
// several lines are kept as written.
func (p *LuaPrettyPrinter) printString(n *ast.StringLit) doc.Doc {
	if n.Long {
		return doc.Lines(normalizeNewlines(n.Raw))
	}
	return doc.Lines(normalizeNewlines(normalizeString(n.Raw, p.opts.QuoteStyle)))
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
