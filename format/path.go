package format

import "github.com/dhamidi/luafmt/lua/ast"

type frame struct {
	key   any // field name or list index
	value any
}

// Path is the route from the chunk to the node being printed. The syntax
// tree has no parent pointers, so the printer keeps this stack instead and
// asks it for ancestors.
type Path struct {
	stack []frame
}

func NewPath(root ast.Node) *Path {
	return &Path{stack: []frame{{key: nil, value: root}}}
}

// Current returns the value at the top of the stack.
func (p *Path) Current() any {
	return p.stack[len(p.stack)-1].value
}

// Node returns the current value as a node, or nil when the focus is a list.
func (p *Path) Node() ast.Node {
	n, _ := p.Current().(ast.Node)
	return n
}

// Ancestor returns the n-th enclosing node, counting only frames that hold
// nodes. Ancestor(0) is the focus itself when it is a node.
func (p *Path) Ancestor(n int) ast.Node {
	for i := len(p.stack) - 1; i >= 0; i-- {
		node, ok := p.stack[i].value.(ast.Node)
		if !ok || isNilNode(node) {
			continue
		}
		if n == 0 {
			return node
		}
		n--
	}
	return nil
}

func (p *Path) Parent() ast.Node {
	return p.Ancestor(1)
}

// Key returns the field name the focus was reached through. For list
// elements it is the name of the list.
func (p *Path) Key() string {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if k, ok := p.stack[i].key.(string); ok {
			return k
		}
	}
	return ""
}

// Slot returns the field name and the list index of the focus, or -1 when
// the focus is not a list element.
func (p *Path) Slot() (string, int) {
	if idx, ok := p.stack[len(p.stack)-1].key.(int); ok {
		return p.Key(), idx
	}
	return p.Key(), -1
}

func (p *Path) push(key, value any) int {
	n := len(p.stack)
	p.stack = append(p.stack, frame{key: key, value: value})
	return n
}

func (p *Path) truncate(n int) {
	clear(p.stack[n:])
	p.stack = p.stack[:n]
}

// Call focuses child under name for the duration of body. The stack is
// restored on every exit, including a panic.
func Call[T any, R any](p *Path, name string, child T, body func(*Path) R) R {
	n := p.push(name, child)
	defer p.truncate(n)
	return body(p)
}

// Each focuses every element of list in turn. The list itself is pushed
// under name first so elements can be told apart from plain fields.
func Each[T any](p *Path, name string, list []T, body func(p *Path, i int)) {
	n := p.push(name, list)
	defer p.truncate(n)
	for i, el := range list {
		p.push(i, el)
		body(p, i)
		p.truncate(n + 1)
	}
}

// Map is Each collecting the results. A nil list maps to an empty slice.
// The element index is available through Slot.
func Map[T any, R any](p *Path, name string, list []T, body func(*Path) R) []R {
	out := make([]R, 0, len(list))
	Each(p, name, list, func(p *Path, i int) {
		out = append(out, body(p))
	})
	return out
}

func isNilNode(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Ident:
		return n == nil
	case *ast.TableExpr:
		return n == nil
	case *ast.StringLit:
		return n == nil
	}
	return n == nil
}
