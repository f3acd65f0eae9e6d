package format

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/luafmt/lua/ast"
	"github.com/dhamidi/luafmt/lua/parser"
)

// Helper function to format Lua source with the given options
func formatLua(t *testing.T, input string, opts Options) string {
	t.Helper()
	out, err := FormatString(input, opts)
	if err != nil {
		t.Fatalf("format %q: %v", input, err)
	}
	return out
}

func TestFormatExpressions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"spacing", "x=1+2*3", "x = 1 + 2 * 3\n"},
		{"unary argument", "f(-1)", "f(-1)\n"},
		{"required parens", "x = (1+2)*3", "x = (1 + 2) * 3\n"},
		{"redundant parens", "x = 1+(2*3)", "x = 1 + 2 * 3\n"},
		{"right operand", "x = a - (b - c)", "x = a - (b - c)\n"},
		{"left chain", "x = a - b - c", "x = a - b - c\n"},
		{"concat chain", "x = a .. b .. c", "x = a .. b .. c\n"},
		{"concat grouped left", "x = (a .. b) .. c", "x = (a .. b) .. c\n"},
		{"power", "x = -a ^ 2", "x = -(a ^ 2)\n"},
		{"negated power base", "x = (-a) ^ 2", "x = (-a) ^ 2\n"},
		{"double negation", "x = - -a", "x = -(-a)\n"},
		{"not", "x = not a == b", "x = not a == b\n"},
		{"not grouped", "x = not (a == b)", "x = not (a == b)\n"},
		{"and inside or", "x = a or b and c", "x = a or (b and c)\n"},
		{"or inside and", "x = (a or b) and c", "x = (a or b) and c\n"},
		{"modulo", "x = a * (b % c)", "x = a * (b % c)\n"},
		{"bare call in table", "t = { f{1} }", "t = { (f { 1 }) }\n"},
		{"string call", "require'x'", "require \"x\"\n"},
		{"bare call returned last", "return f{1}", "return f { 1 }\n"},
		{"bare call returned first", "return f'a', 2", "return (f \"a\"), 2\n"},
		{"truncated call", "x = (f())", "x = (f())\n"},
		{"truncated vararg", "x = (...)", "x = (...)\n"},
		{"string method", "x = ('x'):rep(3)", "x = (\"x\"):rep(3)\n"},
		{"method call", "obj:method(1, 2)", "obj:method(1, 2)\n"},
		{"index", "x = t[i + 1]", "x = t[i + 1]\n"},
		{"long string key", "x = t[ [[k]] ]", "x = t[ [[k]] ]\n"},
		{"empty table", "t = {}", "t = {}\n"},
		{"table fields", "t = {1, 2; a = 3, ['b'] = 4}", "t = { 1, 2, a = 3, [\"b\"] = 4 }\n"},
		{"function expression", "f = function(a, ...) return a end", "f = function(a, ...)\n    return a\nend\n"},
		{"vararg", "local a, b = ...", "local a, b = ...\n"},
		{"multiple values", "a, b = 1, 2", "a, b = 1, 2\n"},
		{"literals", "x = {nil, true, false, 0x1F, 1e3}", "x = { nil, true, false, 0x1F, 1e3 }\n"},
		{"bitwise", "x = a|b~c&d<<1", "x = a | b ~ c & d << 1\n"},
		{"integer division", "x = a//b", "x = a // b\n"},
		{"length", "n = #t", "n = #t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatLua(t, tt.input, DefaultOptions())
			if got != tt.expected {
				t.Errorf("Format(%q) =\n%q\nwant\n%q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "local function",
			input:    "local function add(a,b) return a+b end",
			expected: "local function add(a, b)\n    return a + b\nend\n",
		},
		{
			name:     "empty function",
			input:    "function f() end",
			expected: "function f() end\n",
		},
		{
			name:     "method declaration",
			input:    "function a.b:c(x) self.x = x end",
			expected: "function a.b:c(x)\n    self.x = x\nend\n",
		},
		{
			name:     "if chain",
			input:    "if a then b() elseif c then d() else e() end",
			expected: "if a then\n    b()\nelseif c then\n    d()\nelse\n    e()\nend\n",
		},
		{
			name:     "empty if",
			input:    "if x then end",
			expected: "if x then end\n",
		},
		{
			name:     "if with empty else",
			input:    "if x then y() else end",
			expected: "if x then\n    y()\nelse\nend\n",
		},
		{
			name:     "while",
			input:    "while i < 10 do i = i + 1 end",
			expected: "while i < 10 do\n    i = i + 1\nend\n",
		},
		{
			name:     "empty while",
			input:    "while x do end",
			expected: "while x do end\n",
		},
		{
			name:     "repeat",
			input:    "repeat x = x - 1 until x == 0",
			expected: "repeat\n    x = x - 1\nuntil x == 0\n",
		},
		{
			name:     "empty repeat",
			input:    "repeat until done",
			expected: "repeat until done\n",
		},
		{
			name:     "do",
			input:    "do local x = 1 end",
			expected: "do\n    local x = 1\nend\n",
		},
		{
			name:     "numeric for",
			input:    "for i=1,10,2 do print(i) end",
			expected: "for i = 1, 10, 2 do\n    print(i)\nend\n",
		},
		{
			name:     "generic for",
			input:    "for k,v in pairs(t) do print(k,v) end",
			expected: "for k, v in pairs(t) do\n    print(k, v)\nend\n",
		},
		{
			name:     "goto and label",
			input:    "goto continue\n::continue::",
			expected: "goto continue\n::continue::\n",
		},
		{
			name:     "break and return",
			input:    "while true do break end return",
			expected: "while true do\n    break\nend\nreturn\n",
		},
		{
			name:     "semicolons",
			input:    "a = 1; b = 2;",
			expected: "a = 1\nb = 2\n",
		},
		{
			name:     "call on parenthesized expression",
			input:    "local x = y;\n(f or g)()",
			expected: "local x = y\n;(f or g)()\n",
		},
		{
			name:     "method on string literal",
			input:    "local x = y; (\"s\"):len()",
			expected: "local x = y\n;(\"s\"):len()\n",
		},
		{
			name:     "assignment to parenthesized base",
			input:    "a = b\n;(c or d).e = 1\n",
			expected: "a = b\n;(c or d).e = 1\n",
		},
		{
			name:     "separator after comment",
			input:    "a()\n-- c\n(f or g)()",
			expected: "a()\n-- c\n;(f or g)()\n",
		},
		{
			name:     "first statement needs no separator",
			input:    "(f or g)()\ndo (h or i)() end",
			expected: "(f or g)()\ndo\n    (h or i)()\nend\n",
		},
		{
			name:     "table written across lines",
			input:    "t = {\n  a = 1, b = 2 }",
			expected: "t = {\n    a = 1,\n    b = 2\n}\n",
		},
		{
			name:     "several callbacks",
			input:    "f(function() a() end, function() b() end)",
			expected: "f(\n    function()\n        a()\n    end,\n    function()\n        b()\n    end\n)\n",
		},
		{
			name:     "nested blocks",
			input:    "function f() if x then return 1 end end",
			expected: "function f()\n    if x then\n        return 1\n    end\nend\n",
		},
		{
			name:     "callback argument",
			input:    "pcall(function() work() end)",
			expected: "pcall(function()\n    work()\nend)\n",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatLua(t, tt.input, DefaultOptions())
			if got != tt.expected {
				t.Errorf("Format(%q) =\n%s\nwant\n%s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatWidth(t *testing.T) {
	opts := DefaultOptions()
	opts.Width = 20

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "table breaks",
			input:    "local t = {aaaa = 1, bbbb = 2}",
			expected: "local t = {\n    aaaa = 1,\n    bbbb = 2\n}\n",
		},
		{
			name:     "arguments break",
			input:    "foo(aaaaaaaa, bbbbbbbb, cccccccc)",
			expected: "foo(\n    aaaaaaaa,\n    bbbbbbbb,\n    cccccccc\n)\n",
		},
		{
			name:     "operator chain fills",
			input:    "x = aaaaa + bbbbb + ccccc + ddddd",
			expected: "x = aaaaa + bbbbb +\n    ccccc + ddddd\n",
		},
		{
			name:     "parameters break",
			input:    "function f(alpha, beta, gamma) end",
			expected: "function f(\n    alpha,\n    beta,\n    gamma\n) end\n",
		},
		{
			name:     "values break after equals",
			input:    "local a, b, c = xxxxxxxxxxxxxx, yyyyyyyyyyyyyy, zzzzzzzzzzzzzz",
			expected: "local a, b, c =\n    xxxxxxxxxxxxxx,\n    yyyyyyyyyyyyyy,\n    zzzzzzzzzzzzzz\n",
		},
		{
			name:     "short stays flat",
			input:    "t = {1, 2}",
			expected: "t = { 1, 2 }\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatLua(t, tt.input, opts)
			if got != tt.expected {
				t.Errorf("Format(%q) =\n%s\nwant\n%s", tt.input, got, tt.expected)
			}
			for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
				if len(line) > opts.Width {
					t.Errorf("line %q exceeds width %d", line, opts.Width)
				}
			}
		})
	}
}

func TestFormatComments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "leading and trailing",
			input:    "-- header\n\nlocal x = 1 -- one\nlocal y = 2",
			expected: "-- header\n\nlocal x = 1 -- one\nlocal y = 2\n",
		},
		{
			name:     "blank lines collapse to one",
			input:    "a()\n\n\n\nb()",
			expected: "a()\n\nb()\n",
		},
		{
			name:     "no blank line kept",
			input:    "a()\nb()",
			expected: "a()\nb()\n",
		},
		{
			name:     "dangling in block",
			input:    "do\n  -- nothing\nend",
			expected: "do\n    -- nothing\nend\n",
		},
		{
			name:     "dangling after statements",
			input:    "function f()\n  x()\n  -- done\nend",
			expected: "function f()\n    x()\n    -- done\nend\n",
		},
		{
			name:     "dangling in if clause",
			input:    "if a then\n  -- todo\nelse\n  b()\nend",
			expected: "if a then\n    -- todo\nelse\n    b()\nend\n",
		},
		{
			name:     "end of file",
			input:    "x = 1\n\n-- bye\n",
			expected: "x = 1\n\n-- bye\n",
		},
		{
			name:     "only comments",
			input:    "-- a\n-- b\n",
			expected: "-- a\n-- b\n",
		},
		{
			name:     "table field comments",
			input:    "t = {\n  1, -- one\n  -- two\n  2,\n}",
			expected: "t = {\n    1, -- one\n    -- two\n    2\n}\n",
		},
		{
			name:     "table blank line",
			input:    "t = {\n  1,\n\n  2,\n}",
			expected: "t = {\n    1,\n\n    2\n}\n",
		},
		{
			name:     "empty table comment",
			input:    "t = { -- nothing\n}",
			expected: "t = {\n    -- nothing\n}\n",
		},
		{
			name:     "comment inside expression moves after statement",
			input:    "x = f(a, -- first\n  b)",
			expected: "x = f(a, b) -- first\n",
		},
		{
			name:     "if header",
			input:    "if a then -- c\nend",
			expected: "if a then -- c\nend\n",
		},
		{
			name:     "if and else headers",
			input:    "if a then -- c\n  b()\nelse -- d\n  e()\nend",
			expected: "if a then -- c\n    b()\nelse -- d\n    e()\nend\n",
		},
		{
			name:     "function header",
			input:    "function f(a, b) -- c\n  x()\nend",
			expected: "function f(a, b) -- c\n    x()\nend\n",
		},
		{
			name:     "anonymous function header",
			input:    "f = function() -- c\nend",
			expected: "f = function() -- c\nend\n",
		},
		{
			name:     "while header",
			input:    "while x do -- c\n  y()\nend",
			expected: "while x do -- c\n    y()\nend\n",
		},
		{
			name:     "empty while header",
			input:    "while x do -- c\nend",
			expected: "while x do -- c\nend\n",
		},
		{
			name:     "do header",
			input:    "do -- c\n  x()\nend",
			expected: "do -- c\n    x()\nend\n",
		},
		{
			name:     "numeric for header",
			input:    "for i = 1, 2 do -- c\n  f(i)\nend",
			expected: "for i = 1, 2 do -- c\n    f(i)\nend\n",
		},
		{
			name:     "generic for header",
			input:    "for k in pairs(t) do -- c\nend",
			expected: "for k in pairs(t) do -- c\nend\n",
		},
		{
			name:     "repeat header",
			input:    "repeat -- c\n  x()\nuntil y",
			expected: "repeat -- c\n    x()\nuntil y\n",
		},
		{
			name:     "comment after first statement on header line",
			input:    "while x do y() -- c\nend",
			expected: "while x do\n    y() -- c\nend\n",
		},
		{
			name:     "long comment",
			input:    "--[[\n  block\n]]\nx = 1",
			expected: "--[[\n  block\n]]\nx = 1\n",
		},
		{
			name:     "shebang",
			input:    "#!/usr/bin/env lua\nprint('hi')",
			expected: "#!/usr/bin/env lua\nprint(\"hi\")\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatLua(t, tt.input, DefaultOptions())
			if got != tt.expected {
				t.Errorf("Format(%q) =\n%s\nwant\n%s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		style    QuoteStyle
		expected string
	}{
		{"double", `x = 'abc'`, QuoteDouble, "x = \"abc\"\n"},
		{"single", `x = "abc"`, QuoteSingle, "x = 'abc'\n"},
		{"preserve", `x = 'abc'`, QuotePreserve, "x = 'abc'\n"},
		{"avoid escapes", `x = 'say "hi"'`, QuoteDouble, "x = 'say \"hi\"'\n"},
		{"drop escape", `x = 'it\'s'`, QuoteDouble, "x = \"it's\"\n"},
		{"add escape", `x = 'a"b' .. "c'd'"`, QuoteSingle, "x = 'a\"b' .. \"c'd'\"\n"},
		{"escapes kept", `x = '\n\t\\'`, QuoteDouble, "x = \"\\n\\t\\\\\"\n"},
		{"long string verbatim", "x = [==[\n  it's \"raw\"\n]==]", QuoteSingle, "x = [==[\n  it's \"raw\"\n]==]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.QuoteStyle = tt.style
			got := formatLua(t, tt.input, opts)
			if got != tt.expected {
				t.Errorf("Format(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.UseTabs = true
	if got := formatLua(t, "do x() end", opts); got != "do\n\tx()\nend\n" {
		t.Errorf("tabs: got %q", got)
	}

	opts = DefaultOptions()
	opts.IndentCount = 2
	if got := formatLua(t, "do x() end", opts); got != "do\n  x()\nend\n" {
		t.Errorf("indent 2: got %q", got)
	}

	if got := formatLua(t, "x=1\r\ny=2\r\n", DefaultOptions()); got != "x = 1\r\ny = 2\r\n" {
		t.Errorf("auto crlf: got %q", got)
	}

	opts = DefaultOptions()
	opts.LineEnding = LineEndingLF
	if got := formatLua(t, "x=1\r\ny=2\r\n", opts); got != "x = 1\ny = 2\n" {
		t.Errorf("lf: got %q", got)
	}

	opts = DefaultOptions()
	opts.LineEnding = LineEndingCRLF
	if got := formatLua(t, "x=1\ny=2", opts); got != "x = 1\r\ny = 2\r\n" {
		t.Errorf("crlf: got %q", got)
	}
}

func TestFormatIdempotent(t *testing.T) {
	inputs := []string{
		"local t = {1, 2, {a = 1, b = {c = 2}}, f{1}, g'x'} -- t\n",
		"x = a and b or c and d or not e\n",
		"function M.new(...) local self = setmetatable({}, M) self:init(...) return self end",
		"if a then\n-- c\nelseif b then\n\n\nx()\nelse y() end",
		"for i = #t, 1, -1 do t[i] = nil end",
		"local s = [[\nline\n]] .. 'x' .. \"y\"",
		"x = -2 ^ -2 + (a or b)() + (f())",
		"return function() return { 1, -- one\n2 } end",
		"local x = y;\n(f or g)()\n",
		"local x = y; (\"s\"):len()",
		"a = b\n;(c or d).e = 1\n",
		"if a then -- c\nelseif b then -- d\nend",
		"t = {\n  f(function() a() end, function() b() end), { x = 1 } }",
		"local a, b, c = xxxxxxxxxxxxxx, yyyyyyyyyyyyyy, zzzzzzzzzzzzzz",
	}

	narrow := DefaultOptions()
	narrow.Width = 24

	for _, opts := range []Options{DefaultOptions(), narrow} {
		for _, input := range inputs {
			first := formatLua(t, input, opts)
			second := formatLua(t, first, opts)
			if first != second {
				t.Errorf("not idempotent at width %d for %q:\nfirst:\n%s\nsecond:\n%s", opts.Width, input, first, second)
			}
		}
	}
}

func TestFormatErrors(t *testing.T) {
	_, err := Format([]byte("x = "), DefaultOptions())
	var perr *parser.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *parser.Error, got %T (%v)", err, err)
	}

	opts := DefaultOptions()
	opts.Width = 0
	_, err = Format([]byte("x = 1"), opts)
	var oerr *OptionError
	if !errors.As(err, &oerr) || oerr.Field != "width" {
		t.Fatalf("expected width *OptionError, got %v", err)
	}
}

// bogusStmt is a statement type the printer has no rule for.
type bogusStmt struct {
	*ast.BreakStmt
}

func TestFormatUnsupportedNode(t *testing.T) {
	source := []byte("break")
	chunk, err := parser.Parse(source)
	if err != nil {
		t.Fatal(err)
	}
	chunk.Body[0] = bogusStmt{chunk.Body[0].(*ast.BreakStmt)}

	out, err := FormatChunk(chunk, source, DefaultOptions())
	var uerr *UnsupportedNodeError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *UnsupportedNodeError, got %v", err)
	}
	if out != nil {
		t.Errorf("expected no output, got %q", out)
	}
	if _, ok := uerr.Node.(bogusStmt); !ok {
		t.Errorf("error names %T, want bogusStmt", uerr.Node)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name  string
		opts  func(o *Options)
		field string
	}{
		{"defaults", func(o *Options) {}, ""},
		{"negative indent", func(o *Options) { o.IndentCount = -1 }, "indent-count"},
		{"zero indent with spaces", func(o *Options) { o.IndentCount = 0 }, "indent-count"},
		{"zero indent with tabs", func(o *Options) { o.IndentCount = 0; o.UseTabs = true }, ""},
		{"quote style", func(o *Options) { o.QuoteStyle = "backtick" }, "quote-style"},
		{"line ending", func(o *Options) { o.LineEnding = "cr" }, "line-ending"},
	}
	for _, tt := range tests {
		opts := DefaultOptions()
		tt.opts(&opts)
		err := opts.Validate()
		if tt.field == "" {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tt.name, err)
			}
			continue
		}
		var oerr *OptionError
		if !errors.As(err, &oerr) || oerr.Field != tt.field {
			t.Errorf("%s: got %v, want error on %s", tt.name, err, tt.field)
		}
	}

	if q, err := ParseQuoteStyle("Single"); err != nil || q != QuoteSingle {
		t.Errorf("ParseQuoteStyle: %v %v", q, err)
	}
	if _, err := ParseLineEnding("cr"); err == nil {
		t.Error("ParseLineEnding accepted cr")
	}
}
