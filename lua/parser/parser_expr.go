package parser

import "github.com/dhamidi/luafmt/lua/ast"

// Binding powers as in the reference Lua grammar: left and right priority.
// Right-associative operators have a lower right priority.
var binaryPriority = map[TokenKind]struct{ left, right int }{
	TokenOr:          {1, 1},
	TokenAnd:         {2, 2},
	TokenLT:          {3, 3},
	TokenGT:          {3, 3},
	TokenLE:          {3, 3},
	TokenGE:          {3, 3},
	TokenNE:          {3, 3},
	TokenEQ:          {3, 3},
	TokenPipe:        {4, 4},
	TokenTilde:       {5, 5},
	TokenAmp:         {6, 6},
	TokenShl:         {7, 7},
	TokenShr:         {7, 7},
	TokenConcat:      {9, 8},
	TokenPlus:        {10, 10},
	TokenMinus:       {10, 10},
	TokenStar:        {11, 11},
	TokenSlash:       {11, 11},
	TokenDoubleSlash: {11, 11},
	TokenPercent:     {11, 11},
	TokenCaret:       {14, 13},
}

const unaryPriority = 12

func (p *Parser) parseExprList() []ast.Expr {
	list := []ast.Expr{p.parseExpr()}
	for p.accept(TokenComma) {
		list = append(list, p.parseExpr())
	}
	return list
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parseSubExpr(0)
}

func (p *Parser) parseSubExpr(limit int) ast.Expr {
	var left ast.Expr
	tok := p.peek()
	switch tok.Kind {
	case TokenNot, TokenMinus, TokenHash, TokenTilde:
		p.advance()
		arg := p.parseSubExpr(unaryPriority)
		u := &ast.UnaryExpr{Operator: tok.Literal, Argument: arg}
		u.Loc = ast.Span{Start: tok.Span.Start, End: arg.Span().End}
		left = u
	default:
		left = p.parseSimpleExpr()
	}

	for {
		op := p.peek()
		prio, ok := binaryPriority[op.Kind]
		if !ok || prio.left <= limit {
			return left
		}
		p.advance()
		right := p.parseSubExpr(prio.right)
		span := ast.Span{Start: left.Span().Start, End: right.Span().End}
		if op.Kind == TokenAnd || op.Kind == TokenOr {
			n := &ast.LogicalExpr{Operator: op.Literal, Left: left, Right: right}
			n.Loc = span
			left = n
		} else {
			n := &ast.BinaryExpr{Operator: op.Literal, Left: left, Right: right}
			n.Loc = span
			left = n
		}
	}
}

func (p *Parser) parseSimpleExpr() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case TokenNumber:
		p.advance()
		n := &ast.NumberLit{Raw: tok.Literal}
		n.Loc = tok.Span
		return n
	case TokenString, TokenLongString:
		return p.parseString()
	case TokenNil:
		p.advance()
		n := &ast.NilLit{}
		n.Loc = tok.Span
		return n
	case TokenTrue, TokenFalse:
		p.advance()
		n := &ast.BoolLit{Value: tok.Kind == TokenTrue}
		n.Loc = tok.Span
		return n
	case TokenEllipsis:
		p.advance()
		n := &ast.VarargLit{}
		n.Loc = tok.Span
		return n
	case TokenLBrace:
		return p.parseTable()
	case TokenFunction:
		p.advance()
		return p.parseFunctionBody(tok)
	}
	return p.parseSuffixedExpr()
}

func (p *Parser) parseString() *ast.StringLit {
	tok := p.advance()
	n := &ast.StringLit{Raw: tok.Literal, Long: tok.Kind == TokenLongString}
	n.Loc = tok.Span
	return n
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case TokenName:
		return p.parseIdent()
	case TokenLParen:
		p.advance()
		inner := p.parseExpr()
		p.expectMatch(TokenRParen, TokenLParen, tok.Span.Start)
		switch inner.(type) {
		case *ast.CallExpr, *ast.TableCallExpr, *ast.StringCallExpr, *ast.VarargLit:
			// Parentheses truncate multiple results to one value.
			n := &ast.ParenExpr{Expression: inner}
			n.Loc = p.span(tok.Span.Start)
			return n
		}
		return inner
	}
	p.fail(errorAt(tok, "unexpected symbol near '%s'", tokenText(tok)))
	return nil
}

func (p *Parser) parseSuffixedExpr() ast.Expr {
	start := p.peek().Span.Start
	expr := p.parsePrimaryExpr()
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenDot:
			p.advance()
			n := &ast.MemberExpr{Indexer: ".", Base: expr}
			n.Identifier = p.parseIdent()
			n.Loc = p.span(start)
			expr = n
		case TokenLBracket:
			p.advance()
			n := &ast.IndexExpr{Base: expr}
			n.Index = p.parseExpr()
			p.expect(TokenRBracket)
			n.Loc = p.span(start)
			expr = n
		case TokenColon:
			p.advance()
			m := &ast.MemberExpr{Indexer: ":", Base: expr}
			m.Identifier = p.parseIdent()
			m.Loc = p.span(start)
			if !p.check(TokenLParen) && !p.check(TokenLBrace) && !p.check(TokenString) && !p.check(TokenLongString) {
				p.fail(expectedError(p.peek(), "function arguments"))
			}
			expr = p.parseCallArgs(m, start)
		case TokenLParen:
			// A newline before "(" would be ambiguous in Lua 5.1; 5.3 accepts it.
			expr = p.parseCallArgs(expr, start)
		case TokenLBrace, TokenString, TokenLongString:
			expr = p.parseCallArgs(expr, start)
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallArgs(base ast.Expr, start ast.Position) ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case TokenLBrace:
		n := &ast.TableCallExpr{Base: base, Arguments: p.parseTable()}
		n.Loc = p.span(start)
		return n
	case TokenString, TokenLongString:
		n := &ast.StringCallExpr{Base: base, Argument: p.parseString()}
		n.Loc = p.span(start)
		return n
	}
	open := p.expect(TokenLParen)
	n := &ast.CallExpr{Base: base}
	if !p.check(TokenRParen) {
		n.Arguments = p.parseExprList()
	}
	p.expectMatch(TokenRParen, TokenLParen, open.Span.Start)
	n.Loc = p.span(start)
	return n
}

func (p *Parser) parseTable() *ast.TableExpr {
	open := p.expect(TokenLBrace)
	n := &ast.TableExpr{}
	for !p.check(TokenRBrace) {
		n.Fields = append(n.Fields, p.parseField())
		if !p.accept(TokenComma) && !p.accept(TokenSemicolon) {
			break
		}
	}
	p.expectMatch(TokenRBrace, TokenLBrace, open.Span.Start)
	n.Loc = p.span(open.Span.Start)
	return n
}

func (p *Parser) parseField() ast.TableField {
	start := p.peek().Span.Start
	switch {
	case p.check(TokenLBracket):
		p.advance()
		f := &ast.TableKey{}
		f.Key = p.parseExpr()
		p.expect(TokenRBracket)
		p.expect(TokenAssign)
		f.Value = p.parseExpr()
		f.Loc = p.span(start)
		return f
	case p.check(TokenName) && p.peekN(1).Kind == TokenAssign:
		f := &ast.TableKeyString{Key: p.parseIdent()}
		p.advance()
		f.Value = p.parseExpr()
		f.Loc = p.span(start)
		return f
	}
	f := &ast.TableValue{Value: p.parseExpr()}
	f.Loc = p.span(start)
	return f
}
