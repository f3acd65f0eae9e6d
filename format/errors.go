package format

import (
	"fmt"

	"github.com/dhamidi/luafmt/lua/ast"
)

// UnsupportedNodeError is returned when the printer meets a node type it
// has no rule for. It indicates a bug, not bad input.
type UnsupportedNodeError struct {
	Node ast.Node
}

func (e *UnsupportedNodeError) Error() string {
	if e.Node == nil {
		return "unsupported node: <nil>"
	}
	pos := e.Node.Span().Start
	return fmt.Sprintf("%s: unsupported node %s (%T)", pos, e.Node.Kind(), e.Node)
}
