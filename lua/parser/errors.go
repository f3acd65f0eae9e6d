package parser

import (
	"fmt"

	"github.com/dhamidi/luafmt/lua/ast"
)

// Error is a syntax error. The parser stops at the first one; there is no
// recovery.
type Error struct {
	File    string
	Pos     ast.Position
	Message string
	Got     string // offending token text, if any
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%s: %s", e.File, e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func errorAt(tok Token, format string, args ...any) *Error {
	return &Error{
		Pos:     tok.Span.Start,
		Message: fmt.Sprintf(format, args...),
		Got:     tok.Literal,
	}
}

func expectedError(tok Token, want string) *Error {
	return expectedNote(tok, want, "")
}

// expectedNote is expectedError with a note after "expected", as in
// "'end' expected (to close 'if' at line 1) near '<eof>'".
func expectedNote(tok Token, want, note string) *Error {
	got := tok.Literal
	if tok.Kind == TokenEOF {
		got = "<eof>"
	}
	message := fmt.Sprintf("%s expected near '%s'", want, got)
	if note != "" {
		message = fmt.Sprintf("%s expected %s near '%s'", want, note, got)
	}
	return &Error{
		Pos:     tok.Span.Start,
		Message: message,
		Got:     got,
	}
}
