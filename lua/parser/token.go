package parser

import "github.com/dhamidi/luafmt/lua/ast"

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenShebang

	// Literals
	TokenName
	TokenNumber
	TokenString
	TokenLongString

	// Keywords
	TokenAnd
	TokenBreak
	TokenDo
	TokenElse
	TokenElseif
	TokenEnd
	TokenFalse
	TokenFor
	TokenFunction
	TokenGoto
	TokenIf
	TokenIn
	TokenLocal
	TokenNil
	TokenNot
	TokenOr
	TokenRepeat
	TokenReturn
	TokenThen
	TokenTrue
	TokenUntil
	TokenWhile

	// Operators and punctuation
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenDoubleSlash
	TokenPercent
	TokenCaret
	TokenHash
	TokenAmp
	TokenTilde
	TokenPipe
	TokenShl
	TokenShr
	TokenEQ
	TokenNE
	TokenLE
	TokenGE
	TokenLT
	TokenGT
	TokenAssign
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenDoubleColon
	TokenSemicolon
	TokenColon
	TokenComma
	TokenDot
	TokenConcat
	TokenEllipsis
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:         "EOF",
	TokenError:       "Error",
	TokenWhitespace:  "Whitespace",
	TokenComment:     "Comment",
	TokenShebang:     "Shebang",
	TokenName:        "Name",
	TokenNumber:      "Number",
	TokenString:      "String",
	TokenLongString:  "LongString",
	TokenAnd:         "and",
	TokenBreak:       "break",
	TokenDo:          "do",
	TokenElse:        "else",
	TokenElseif:      "elseif",
	TokenEnd:         "end",
	TokenFalse:       "false",
	TokenFor:         "for",
	TokenFunction:    "function",
	TokenGoto:        "goto",
	TokenIf:          "if",
	TokenIn:          "in",
	TokenLocal:       "local",
	TokenNil:         "nil",
	TokenNot:         "not",
	TokenOr:          "or",
	TokenRepeat:      "repeat",
	TokenReturn:      "return",
	TokenThen:        "then",
	TokenTrue:        "true",
	TokenUntil:       "until",
	TokenWhile:       "while",
	TokenPlus:        "+",
	TokenMinus:       "-",
	TokenStar:        "*",
	TokenSlash:       "/",
	TokenDoubleSlash: "//",
	TokenPercent:     "%",
	TokenCaret:       "^",
	TokenHash:        "#",
	TokenAmp:         "&",
	TokenTilde:       "~",
	TokenPipe:        "|",
	TokenShl:         "<<",
	TokenShr:         ">>",
	TokenEQ:          "==",
	TokenNE:          "~=",
	TokenLE:          "<=",
	TokenGE:          ">=",
	TokenLT:          "<",
	TokenGT:          ">",
	TokenAssign:      "=",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
	TokenLBracket:    "[",
	TokenRBracket:    "]",
	TokenDoubleColon: "::",
	TokenSemicolon:   ";",
	TokenColon:       ":",
	TokenComma:       ",",
	TokenDot:         ".",
	TokenConcat:      "..",
	TokenEllipsis:    "...",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    ast.Span
	Literal string
}

var keywords = map[string]TokenKind{
	"and":      TokenAnd,
	"break":    TokenBreak,
	"do":       TokenDo,
	"else":     TokenElse,
	"elseif":   TokenElseif,
	"end":      TokenEnd,
	"false":    TokenFalse,
	"for":      TokenFor,
	"function": TokenFunction,
	"goto":     TokenGoto,
	"if":       TokenIf,
	"in":       TokenIn,
	"local":    TokenLocal,
	"nil":      TokenNil,
	"not":      TokenNot,
	"or":       TokenOr,
	"repeat":   TokenRepeat,
	"return":   TokenReturn,
	"then":     TokenThen,
	"true":     TokenTrue,
	"until":    TokenUntil,
	"while":    TokenWhile,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenName
}
