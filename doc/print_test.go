package doc

import (
	"testing"
)

func TestPrint(t *testing.T) {
	args := func() Doc {
		return Group(Concat(
			Text("f("),
			Indent(Concat(SoftLine, Join(Concat(Text(","), Line), []Doc{Text("alpha"), Text("beta"), Text("gamma")}))),
			SoftLine,
			Text(")"),
		))
	}

	tests := []struct {
		name     string
		doc      Doc
		width    int
		expected string
	}{
		{
			name:     "group fits",
			doc:      args(),
			width:    80,
			expected: "f(alpha, beta, gamma)",
		},
		{
			name:     "group breaks",
			doc:      args(),
			width:    10,
			expected: "f(\n    alpha,\n    beta,\n    gamma\n)",
		},
		{
			name:     "exact fit",
			doc:      args(),
			width:    21,
			expected: "f(alpha, beta, gamma)",
		},
		{
			name:     "one over",
			doc:      args(),
			width:    20,
			expected: "f(\n    alpha,\n    beta,\n    gamma\n)",
		},
		{
			name:     "hard line breaks enclosing group",
			doc:      Group(Concat(Text("a"), Line, Text("b"), HardLine, Text("c"))),
			width:    80,
			expected: "a\nb\nc",
		},
		{
			name:     "break parent",
			doc:      Group(Concat(Text("a"), Line, Text("b"), BreakParent)),
			width:    80,
			expected: "a\nb",
		},
		{
			name:     "nested indent",
			doc:      Concat(Text("do"), Indent(Concat(HardLine, Text("x"), Indent(Concat(HardLine, Text("y"))))), HardLine, Text("end")),
			width:    80,
			expected: "do\n    x\n        y\nend",
		},
		{
			name:     "literal line keeps column zero",
			doc:      Concat(Text("x = "), Indent(Concat(Text("[["), LiteralLine, Text("  raw"), LiteralLine, Text("]]")))),
			width:    80,
			expected: "x = [[\n  raw\n]]",
		},
		{
			name:     "trailing whitespace trimmed",
			doc:      Concat(Text("a "), HardLine, Text("b")),
			width:    80,
			expected: "a\nb",
		},
		{
			name:     "following text counts toward fit",
			doc:      Concat(Group(Concat(Text("aaaa"), Line, Text("bbbb"))), Text("cccc")),
			width:    12,
			expected: "aaaa\nbbbbcccc",
		},
		{
			name:     "soft line flat is empty",
			doc:      Group(Concat(Text("{"), SoftLine, Text("}"))),
			width:    80,
			expected: "{}",
		},
		{
			name:     "wide runes",
			doc:      Group(Concat(Text("日本語"), Line, Text("x"))),
			width:    7,
			expected: "日本語\nx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Print(tt.doc, Options{Width: tt.width, IndentWidth: 4})
			if got != tt.expected {
				t.Errorf("Print() =\n%q\nwant\n%q", got, tt.expected)
			}
		})
	}
}

func TestPrintFill(t *testing.T) {
	words := []Doc{Text("aaa"), Line, Text("bbb"), Line, Text("ccc"), Line, Text("ddd")}

	tests := []struct {
		width    int
		expected string
	}{
		{80, "aaa bbb ccc ddd"},
		{8, "aaa bbb\nccc ddd"},
		{3, "aaa\nbbb\nccc\nddd"},
	}
	for _, tt := range tests {
		got := Print(Fill(words), Options{Width: tt.width, IndentWidth: 4})
		if got != tt.expected {
			t.Errorf("width %d: got %q, want %q", tt.width, got, tt.expected)
		}
	}
}

func TestPrintTabs(t *testing.T) {
	d := Concat(Text("do"), Indent(Concat(HardLine, Text("x"))), HardLine, Text("end"))
	got := Print(d, Options{Width: 80, IndentWidth: 4, UseTabs: true})
	if got != "do\n\tx\nend" {
		t.Errorf("got %q", got)
	}
}

func TestLines(t *testing.T) {
	got := Print(Concat(Text("a"), Indent(Concat(HardLine, Lines("--[[\n  x\n]]")))), Options{Width: 80})
	if got != "a\n    --[[\n  x\n]]" {
		t.Errorf("got %q", got)
	}
}

func TestWillBreak(t *testing.T) {
	if WillBreak(Concat(Text("a"), Line)) {
		t.Error("soft content reported as breaking")
	}
	if !WillBreak(Concat(Text("a"), Indent(HardLine))) {
		t.Error("hard line not reported")
	}
	if !IsEmpty(Concat(Text(""), Empty)) {
		t.Error("empty concat not reported empty")
	}
}
