package parser

import (
	"github.com/dhamidi/luafmt/lua/ast"
)

type Lexer struct {
	input  []byte
	pos    int
	line   int
	column int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input:  input,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() ast.Position {
	return ast.Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) token(kind TokenKind, start ast.Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    ast.Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) errorToken(start ast.Position, message string) Token {
	return Token{
		Kind:    TokenError,
		Span:    ast.Span{Start: start, End: l.Position()},
		Literal: message,
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.atEOF() {
		return Token{Kind: TokenEOF, Span: ast.Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if l.pos == 0 && ch == '#' {
		return l.scanShebang(startPos)
	}

	if isSpace(ch) {
		return l.scanWhitespace(startPos)
	}

	if ch == '-' && l.peekN(1) == '-' {
		return l.scanComment(startPos)
	}

	if isLetter(ch) {
		return l.scanNameOrKeyword(startPos)
	}

	if isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))) {
		return l.scanNumber(startPos)
	}

	if ch == '"' || ch == '\'' {
		return l.scanString(startPos)
	}

	if ch == '[' {
		if level, ok := l.longBracketLevel(); ok {
			return l.scanLongString(startPos, level)
		}
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanShebang(start ast.Position) Token {
	for !l.atEOF() && l.peek() != '\n' && l.peek() != '\r' {
		l.advance()
	}
	return l.token(TokenShebang, start)
}

func (l *Lexer) scanWhitespace(start ast.Position) Token {
	for isSpace(l.peek()) && !l.atEOF() {
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanComment(start ast.Position) Token {
	l.advanceN(2)
	if l.peek() == '[' {
		if level, ok := l.longBracketLevel(); ok {
			if !l.skipLongBracket(level) {
				return l.errorToken(start, "unfinished long comment")
			}
			return l.token(TokenComment, start)
		}
	}
	for !l.atEOF() && l.peek() != '\n' && l.peek() != '\r' {
		l.advance()
	}
	return l.token(TokenComment, start)
}

// longBracketLevel reports whether a long bracket "[", "="*, "[" starts at
// the current position and returns the number of "=" signs.
func (l *Lexer) longBracketLevel() (int, bool) {
	if l.peek() != '[' {
		return 0, false
	}
	n := 1
	for l.peekN(n) == '=' {
		n++
	}
	if l.peekN(n) != '[' {
		return 0, false
	}
	return n - 1, true
}

// skipLongBracket consumes an opening long bracket of the given level, its
// contents and the matching closing bracket.
func (l *Lexer) skipLongBracket(level int) bool {
	l.advanceN(level + 2)
	for !l.atEOF() {
		if l.peek() == ']' && l.closesLevel(level) {
			l.advanceN(level + 2)
			return true
		}
		l.advance()
	}
	return false
}

func (l *Lexer) closesLevel(level int) bool {
	for i := 1; i <= level; i++ {
		if l.peekN(i) != '=' {
			return false
		}
	}
	return l.peekN(level+1) == ']'
}

func (l *Lexer) scanLongString(start ast.Position, level int) Token {
	if !l.skipLongBracket(level) {
		return l.errorToken(start, "unfinished long string")
	}
	return l.token(TokenLongString, start)
}

func (l *Lexer) scanNameOrKeyword(start ast.Position) Token {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	tok := l.token(TokenName, start)
	tok.Kind = LookupKeyword(tok.Literal)
	return tok
}

func (l *Lexer) scanNumber(start ast.Position) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.advanceN(2)
		for isHexDigit(l.peek()) || l.peek() == '.' {
			l.advance()
		}
		if l.peek() == 'p' || l.peek() == 'P' {
			l.scanExponent()
		}
	} else {
		for isDigit(l.peek()) || l.peek() == '.' {
			// ".." after a number is the concatenation operator
			if l.peek() == '.' && l.peekN(1) == '.' {
				break
			}
			l.advance()
		}
		if l.peek() == 'e' || l.peek() == 'E' {
			l.scanExponent()
		}
	}
	if isLetter(l.peek()) {
		for isLetter(l.peek()) || isDigit(l.peek()) {
			l.advance()
		}
		return l.errorToken(start, "malformed number")
	}
	return l.token(TokenNumber, start)
}

func (l *Lexer) scanExponent() {
	l.advance()
	if l.peek() == '+' || l.peek() == '-' {
		l.advance()
	}
	for isDigit(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) scanString(start ast.Position) Token {
	quote := l.advance()
	for {
		if l.atEOF() {
			return l.errorToken(start, "unfinished string")
		}
		ch := l.peek()
		switch {
		case ch == quote:
			l.advance()
			return l.token(TokenString, start)
		case ch == '\n' || ch == '\r':
			return l.errorToken(start, "unfinished string")
		case ch == '\\':
			l.advance()
			if l.peek() == 'z' {
				l.advance()
				for isSpace(l.peek()) && !l.atEOF() {
					l.advance()
				}
				continue
			}
			if l.peek() == '\r' && l.peekN(1) == '\n' {
				l.advance()
			}
			l.advance()
		default:
			l.advance()
		}
	}
}

var operators = []struct {
	text string
	kind TokenKind
}{
	{"...", TokenEllipsis},
	{"..", TokenConcat},
	{"//", TokenDoubleSlash},
	{"<<", TokenShl},
	{">>", TokenShr},
	{"==", TokenEQ},
	{"~=", TokenNE},
	{"<=", TokenLE},
	{">=", TokenGE},
	{"::", TokenDoubleColon},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenStar},
	{"/", TokenSlash},
	{"%", TokenPercent},
	{"^", TokenCaret},
	{"#", TokenHash},
	{"&", TokenAmp},
	{"~", TokenTilde},
	{"|", TokenPipe},
	{"<", TokenLT},
	{">", TokenGT},
	{"=", TokenAssign},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{";", TokenSemicolon},
	{":", TokenColon},
	{",", TokenComma},
	{".", TokenDot},
}

func (l *Lexer) scanOperator(start ast.Position) Token {
	rest := l.input[l.pos:]
	for _, op := range operators {
		if len(rest) >= len(op.text) && string(rest[:len(op.text)]) == op.text {
			l.advanceN(len(op.text))
			return l.token(op.kind, start)
		}
	}
	l.advance()
	return l.errorToken(start, "unexpected symbol "+string(l.input[start.Offset:l.pos]))
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\v' || ch == '\f'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
