package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/luafmt/lua/ast"
)

type Option func(*Parser)

// WithFile sets the file name reported in syntax errors.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithoutComments drops comments instead of attaching them to the chunk.
func WithoutComments() Option {
	return func(p *Parser) {
		p.dropComments = true
	}
}

type Parser struct {
	file         string
	dropComments bool
	reader       io.Reader
	input        []byte
	lexer        *Lexer
	tokens       []Token
	comments     []*ast.Comment
	shebang      string
	pos          int
	lastEnd      ast.Position
}

// bailout carries the first syntax error up to Finish.
type bailout struct {
	err *Error
}

func ParseChunk(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses a complete Lua 5.3 chunk.
func Parse(src []byte, opts ...Option) (*ast.Chunk, error) {
	return ParseChunk(bytes.NewReader(src), opts...).Finish()
}

// Source returns the bytes the parser consumed.
func (p *Parser) Source() []byte {
	return p.input
}

func (p *Parser) Comments() []*ast.Comment {
	return p.comments
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}
	p.input = data
	return nil
}

func (p *Parser) Finish() (chunk *ast.Chunk, err error) {
	if err := p.readAll(); err != nil {
		return nil, err
	}
	p.lexer = NewLexer(p.input)
	p.tokens = nil
	p.comments = nil
	p.pos = 0

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			b.err.File = p.file
			chunk, err = nil, b.err
		}
	}()

	p.tokenize()
	return p.parseChunk(), nil
}

func (p *Parser) tokenize() {
	for {
		tok := p.lexer.NextToken()
		switch tok.Kind {
		case TokenWhitespace:
			continue
		case TokenError:
			p.fail(&Error{Pos: tok.Span.Start, Message: tok.Literal})
		case TokenShebang:
			p.shebang = strings.TrimRight(tok.Literal, "\r")
			continue
		case TokenComment:
			if !p.dropComments {
				p.comments = append(p.comments, newComment(tok))
			}
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func newComment(tok Token) *ast.Comment {
	c := &ast.Comment{Raw: tok.Literal}
	c.Loc = tok.Span
	body := tok.Literal[2:]
	if level, ok := longBracketOpen(body); ok {
		c.Long = true
		c.Value = body[level+2 : len(body)-level-2]
	} else {
		c.Value = body
	}
	return c
}

// longBracketOpen reports whether s starts with "[", "="*, "[".
func longBracketOpen(s string) (int, bool) {
	if !strings.HasPrefix(s, "[") {
		return 0, false
	}
	n := 1
	for n < len(s) && s[n] == '=' {
		n++
	}
	if n >= len(s) || s[n] != '[' {
		return 0, false
	}
	return n - 1, true
}

func (p *Parser) fail(err *Error) {
	panic(bailout{err: err})
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.lastEnd = tok.Span.End
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) accept(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind TokenKind) Token {
	if !p.check(kind) {
		p.fail(expectedError(p.peek(), "'"+kind.String()+"'"))
	}
	return p.advance()
}

// expectMatch is expect for closing tokens, naming the opener in the error.
func (p *Parser) expectMatch(kind, open TokenKind, openPos ast.Position) Token {
	if !p.check(kind) {
		if p.peek().Span.Start.Line == openPos.Line {
			p.fail(expectedError(p.peek(), "'"+kind.String()+"'"))
		}
		note := fmt.Sprintf("(to close '%s' at line %d)", open, openPos.Line)
		p.fail(expectedNote(p.peek(), "'"+kind.String()+"'", note))
	}
	return p.advance()
}

func (p *Parser) span(start ast.Position) ast.Span {
	return ast.Span{Start: start, End: p.lastEnd}
}

// -----------------------------------------------------------------------------
// Blocks and statements
// -----------------------------------------------------------------------------

func (p *Parser) parseChunk() *ast.Chunk {
	chunk := &ast.Chunk{Shebang: p.shebang}
	chunk.Body = p.parseBlock()
	if !p.check(TokenEOF) {
		p.fail(expectedError(p.peek(), "<eof>"))
	}
	chunk.Comments = p.comments
	end := ast.Position{Offset: len(p.input), Line: p.peek().Span.End.Line, Column: p.peek().Span.End.Column}
	chunk.Loc = ast.Span{Start: ast.Position{Offset: 0, Line: 1, Column: 1}, End: end}
	return chunk
}

func blockFollow(kind TokenKind, withUntil bool) bool {
	switch kind {
	case TokenElse, TokenElseif, TokenEnd, TokenEOF:
		return true
	case TokenUntil:
		return withUntil
	}
	return false
}

func (p *Parser) parseBlock() []ast.Stmt {
	var body []ast.Stmt
	for !blockFollow(p.peek().Kind, true) {
		if p.check(TokenReturn) {
			body = append(body, p.parseReturn())
			break
		}
		if p.accept(TokenSemicolon) {
			continue
		}
		body = append(body, p.parseStatement())
	}
	return body
}

func (p *Parser) parseStatement() ast.Stmt {
	tok := p.peek()
	switch tok.Kind {
	case TokenIf:
		return p.parseIf()
	case TokenWhile:
		return p.parseWhile()
	case TokenDo:
		return p.parseDo()
	case TokenFor:
		return p.parseFor()
	case TokenRepeat:
		return p.parseRepeat()
	case TokenFunction:
		return p.parseFunctionStatement()
	case TokenLocal:
		return p.parseLocal()
	case TokenDoubleColon:
		return p.parseLabel()
	case TokenBreak:
		p.advance()
		n := &ast.BreakStmt{}
		n.Loc = tok.Span
		return n
	case TokenGoto:
		p.advance()
		n := &ast.GotoStmt{Label: p.parseIdent()}
		n.Loc = p.span(tok.Span.Start)
		return n
	}
	return p.parseExprStatement()
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.advance().Span.Start
	n := &ast.ReturnStmt{}
	if !blockFollow(p.peek().Kind, true) && !p.check(TokenSemicolon) {
		n.Arguments = p.parseExprList()
	}
	p.accept(TokenSemicolon)
	n.Loc = p.span(start)
	if !blockFollow(p.peek().Kind, true) {
		p.fail(expectedError(p.peek(), "'end'"))
	}
	return n
}

func (p *Parser) parseLabel() ast.Stmt {
	start := p.advance().Span.Start
	n := &ast.LabelStmt{Label: p.parseIdent()}
	p.expect(TokenDoubleColon)
	n.Loc = p.span(start)
	return n
}

func (p *Parser) parseIf() ast.Stmt {
	ifTok := p.advance()
	n := &ast.IfStmt{}

	clause := &ast.IfClause{}
	clause.Condition = p.parseExpr()
	p.expect(TokenThen)
	clause.Body = p.parseBlock()
	clause.Loc = ast.Span{Start: ifTok.Span.Start, End: p.peek().Span.Start}
	n.Clauses = append(n.Clauses, clause)

	for p.check(TokenElseif) {
		start := p.advance().Span.Start
		c := &ast.ElseifClause{}
		c.Condition = p.parseExpr()
		p.expect(TokenThen)
		c.Body = p.parseBlock()
		c.Loc = ast.Span{Start: start, End: p.peek().Span.Start}
		n.Clauses = append(n.Clauses, c)
	}

	if p.check(TokenElse) {
		start := p.advance().Span.Start
		c := &ast.ElseClause{}
		c.Body = p.parseBlock()
		c.Loc = ast.Span{Start: start, End: p.peek().Span.Start}
		n.Clauses = append(n.Clauses, c)
	}

	p.expectMatch(TokenEnd, TokenIf, ifTok.Span.Start)
	n.Loc = p.span(ifTok.Span.Start)
	return n
}

func (p *Parser) parseWhile() ast.Stmt {
	whileTok := p.advance()
	n := &ast.WhileStmt{}
	n.Condition = p.parseExpr()
	p.expect(TokenDo)
	n.Body = p.parseBlock()
	p.expectMatch(TokenEnd, TokenWhile, whileTok.Span.Start)
	n.Loc = p.span(whileTok.Span.Start)
	return n
}

func (p *Parser) parseDo() ast.Stmt {
	doTok := p.advance()
	n := &ast.DoStmt{}
	n.Body = p.parseBlock()
	p.expectMatch(TokenEnd, TokenDo, doTok.Span.Start)
	n.Loc = p.span(doTok.Span.Start)
	return n
}

func (p *Parser) parseRepeat() ast.Stmt {
	repeatTok := p.advance()
	n := &ast.RepeatStmt{}
	n.Body = p.parseBlock()
	p.expectMatch(TokenUntil, TokenRepeat, repeatTok.Span.Start)
	n.Condition = p.parseExpr()
	n.Loc = p.span(repeatTok.Span.Start)
	return n
}

func (p *Parser) parseFor() ast.Stmt {
	forTok := p.advance()
	first := p.parseIdent()

	if p.accept(TokenAssign) {
		n := &ast.ForNumericStmt{Variable: first}
		n.Start = p.parseExpr()
		p.expect(TokenComma)
		n.End = p.parseExpr()
		if p.accept(TokenComma) {
			n.Step = p.parseExpr()
		}
		p.expect(TokenDo)
		n.Body = p.parseBlock()
		p.expectMatch(TokenEnd, TokenFor, forTok.Span.Start)
		n.Loc = p.span(forTok.Span.Start)
		return n
	}

	n := &ast.ForGenericStmt{Variables: []*ast.Ident{first}}
	for p.accept(TokenComma) {
		n.Variables = append(n.Variables, p.parseIdent())
	}
	if !p.check(TokenIn) {
		p.fail(expectedError(p.peek(), "'=' or 'in'"))
	}
	p.advance()
	n.Iterators = p.parseExprList()
	p.expect(TokenDo)
	n.Body = p.parseBlock()
	p.expectMatch(TokenEnd, TokenFor, forTok.Span.Start)
	n.Loc = p.span(forTok.Span.Start)
	return n
}

func (p *Parser) parseFunctionStatement() ast.Stmt {
	fnTok := p.advance()

	// funcname: Name {'.' Name} [':' Name]
	var name ast.Expr = p.parseIdent()
	for p.check(TokenDot) || p.check(TokenColon) {
		indexer := p.advance()
		m := &ast.MemberExpr{Indexer: indexer.Literal, Base: name}
		m.Identifier = p.parseIdent()
		m.Loc = ast.Span{Start: name.Span().Start, End: p.lastEnd}
		name = m
		if indexer.Kind == TokenColon {
			break
		}
	}

	n := p.parseFunctionBody(fnTok)
	n.Identifier = name
	return n
}

func (p *Parser) parseLocal() ast.Stmt {
	localTok := p.advance()

	if p.check(TokenFunction) {
		fnTok := p.advance()
		name := p.parseIdent()
		n := p.parseFunctionBody(fnTok)
		n.Identifier = name
		n.IsLocal = true
		n.Loc.Start = localTok.Span.Start
		return n
	}

	n := &ast.LocalStmt{}
	n.Variables = append(n.Variables, p.parseIdent())
	for p.accept(TokenComma) {
		n.Variables = append(n.Variables, p.parseIdent())
	}
	if p.accept(TokenAssign) {
		n.Init = p.parseExprList()
	}
	n.Loc = p.span(localTok.Span.Start)
	return n
}

// parseFunctionBody parses "(params) block end" after the function keyword.
func (p *Parser) parseFunctionBody(fnTok Token) *ast.FunctionDecl {
	n := &ast.FunctionDecl{}
	open := p.expect(TokenLParen)
	if !p.check(TokenRParen) {
		for {
			if p.check(TokenEllipsis) {
				tok := p.advance()
				v := &ast.VarargLit{}
				v.Loc = tok.Span
				n.Parameters = append(n.Parameters, v)
				break
			}
			if !p.check(TokenName) {
				p.fail(expectedError(p.peek(), "<name>"))
			}
			n.Parameters = append(n.Parameters, p.parseIdent())
			if !p.accept(TokenComma) {
				break
			}
		}
	}
	p.expectMatch(TokenRParen, TokenLParen, open.Span.Start)
	n.Body = p.parseBlock()
	p.expectMatch(TokenEnd, TokenFunction, fnTok.Span.Start)
	n.Loc = p.span(fnTok.Span.Start)
	return n
}

func (p *Parser) parseExprStatement() ast.Stmt {
	start := p.peek().Span.Start
	expr := p.parseSuffixedExpr()

	if p.check(TokenAssign) || p.check(TokenComma) {
		n := &ast.AssignStmt{Variables: []ast.Expr{p.checkAssignable(expr)}}
		for p.accept(TokenComma) {
			n.Variables = append(n.Variables, p.checkAssignable(p.parseSuffixedExpr()))
		}
		p.expect(TokenAssign)
		n.Init = p.parseExprList()
		n.Loc = p.span(start)
		return n
	}

	switch expr.(type) {
	case *ast.CallExpr, *ast.TableCallExpr, *ast.StringCallExpr:
		n := &ast.CallStmt{Expression: expr}
		n.Loc = p.span(start)
		return n
	}
	p.fail(errorAt(p.peek(), "syntax error near '%s'", tokenText(p.peek())))
	return nil
}

func (p *Parser) checkAssignable(e ast.Expr) ast.Expr {
	switch e.(type) {
	case *ast.Ident, *ast.MemberExpr, *ast.IndexExpr:
		return e
	}
	p.fail(errorAt(p.peek(), "syntax error near '%s'", tokenText(p.peek())))
	return nil
}

func tokenText(tok Token) string {
	if tok.Kind == TokenEOF {
		return "<eof>"
	}
	return tok.Literal
}

func (p *Parser) parseIdent() *ast.Ident {
	if !p.check(TokenName) {
		p.fail(expectedError(p.peek(), "<name>"))
	}
	tok := p.advance()
	n := &ast.Ident{Name: tok.Literal}
	n.Loc = tok.Span
	return n
}
