package format

import (
	"testing"

	"github.com/dhamidi/luafmt/lua/ast"
	"github.com/dhamidi/luafmt/lua/parser"
)

func parseChunk(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	chunk, err := parser.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return chunk
}

func TestPathAncestors(t *testing.T) {
	chunk := parseChunk(t, "x = a + b")
	assign := chunk.Body[0].(*ast.AssignStmt)
	bin := assign.Init[0].(*ast.BinaryExpr)

	p := NewPath(chunk)
	Each(p, "Body", chunk.Body, func(p *Path, i int) {
		Each(p, "Init", assign.Init, func(p *Path, i int) {
			Call(p, "Right", bin.Right, func(p *Path) struct{} {
				if p.Ancestor(0) != bin.Right {
					t.Errorf("Ancestor(0) = %v, want the focus", p.Ancestor(0))
				}
				if p.Parent() != bin {
					t.Errorf("Parent() = %v, want the binary expression", p.Parent())
				}
				if p.Ancestor(2) != assign {
					t.Errorf("Ancestor(2) = %v, want the assignment", p.Ancestor(2))
				}
				if p.Ancestor(3) != chunk {
					t.Errorf("Ancestor(3) = %v, want the chunk", p.Ancestor(3))
				}
				if p.Ancestor(4) != nil {
					t.Errorf("Ancestor(4) = %v, want nil", p.Ancestor(4))
				}
				if key, idx := p.Slot(); key != "Right" || idx != -1 {
					t.Errorf("Slot() = %q, %d", key, idx)
				}
				return struct{}{}
			})

			if key, idx := p.Slot(); key != "Init" || idx != 0 {
				t.Errorf("Slot() = %q, %d, want Init, 0", key, idx)
			}
			if p.Key() != "Init" {
				t.Errorf("Key() = %q", p.Key())
			}
		})
	})

	if len(p.stack) != 1 {
		t.Errorf("stack not restored: depth %d", len(p.stack))
	}
}

func TestPathRestoresOnPanic(t *testing.T) {
	chunk := parseChunk(t, "f()")
	p := NewPath(chunk)

	func() {
		defer func() { recover() }()
		Each(p, "Body", chunk.Body, func(p *Path, i int) {
			panic("boom")
		})
	}()

	if len(p.stack) != 1 {
		t.Errorf("stack not restored after panic: depth %d", len(p.stack))
	}
	if p.Current() != chunk {
		t.Error("focus not restored after panic")
	}
}

func TestPathMap(t *testing.T) {
	chunk := parseChunk(t, "local a, b, c")
	local := chunk.Body[0].(*ast.LocalStmt)
	p := NewPath(local)

	names := Map(p, "Variables", local.Variables, func(p *Path) string {
		if _, idx := p.Slot(); idx < 0 {
			t.Errorf("Slot() has no index inside Map")
		}
		return p.Node().(*ast.Ident).Name
	})
	if len(names) != 3 || names[0] != "a" || names[2] != "c" {
		t.Errorf("Map() = %v", names)
	}

	var none []ast.Expr
	if got := Map(p, "Init", none, func(p *Path) string { return "x" }); len(got) != 0 {
		t.Errorf("Map over nil list = %v", got)
	}
}

func TestPathSkipsNilChildren(t *testing.T) {
	chunk := parseChunk(t, "for i = 1, 2 do end")
	loop := chunk.Body[0].(*ast.ForNumericStmt)
	p := NewPath(loop)

	Call(p, "Step", loop.Step, func(p *Path) struct{} {
		if p.Node() != nil {
			t.Error("nil step reported as node")
		}
		if p.Ancestor(0) != loop {
			t.Error("Ancestor(0) should skip the nil focus")
		}
		return struct{}{}
	})
}
