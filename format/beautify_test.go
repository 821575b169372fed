package format

import (
	"testing"
)

func TestBeautifyCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		indent   string
		expected string
	}{
		{
			name:     "function body",
			input:    "function f(){return 1;}",
			expected: "function f()\n{\n  return 1;\n}",
		},
		{
			name:     "for header keeps its terminators",
			input:    "for(i=0;i<n;i++){x();}",
			expected: "for(i=0;i<n;i++)\n{\n  x();\n}",
		},
		{
			name:     "nested blocks with tabs",
			input:    "a{b{c;}}",
			indent:   "\t",
			expected: "a\n{\n\tb\n\t{\n\t\tc;\n\t}\n}",
		},
		{
			name:     "braces inside a string",
			input:    `x = "{ a; }";`,
			expected: `x = "{ a; }";`,
		},
		{
			name:     "line comment ends the line",
			input:    "a; // hi\nb;",
			expected: "a;\n// hi\nb;",
		},
		{
			name:     "empty block",
			input:    "if (x) { }",
			expected: "if (x)\n{}",
		},
		{
			name:     "else branch",
			input:    "if(a){b;}else{c;}",
			expected: "if(a)\n{\n  b;\n}\nelse\n{\n  c;\n}",
		},
		{
			name:     "closing brace hugs punctuation",
			input:    "f(function(){a;b;});",
			expected: "f(function()\n{\n  a;\n  b;\n});",
		},
		{
			name:     "stray closing brace",
			input:    "} a;",
			expected: "}\na;",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "\n\n   x = 1;   \n\n",
			expected: "x = 1;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Beautify(tt.input, DialectCode, Config{IndentUnit: tt.indent})
			if got != tt.expected {
				t.Errorf("Beautify(%q) =\n%s\nwant\n%s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBeautifyMarkup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "nested elements",
			input:    "<a><b></b></a>",
			expected: "<a>\n  <b></b>\n</a>",
		},
		{
			name:     "text children",
			input:    "<ul><li>One</li><li>Two <b>x</b></li></ul>",
			expected: "<ul>\n  <li>One</li>\n  <li>\n    Two\n    <b>x</b>\n  </li>\n</ul>",
		},
		{
			name:     "void elements",
			input:    `<div><br><input  type="text" ></div>`,
			expected: "<div>\n  <br>\n  <input type=\"text\">\n</div>",
		},
		{
			name:     "comment",
			input:    "<div><!-- keep  me --><p>x</p></div>",
			expected: "<div>\n  <!-- keep  me -->\n  <p>x</p>\n</div>",
		},
		{
			name:     "unbalanced close",
			input:    "</p><p>x</p>",
			expected: "</p>\n<p>x</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Beautify(tt.input, DialectMarkup, DefaultConfig())
			if got != tt.expected {
				t.Errorf("Beautify(%q) =\n%s\nwant\n%s", tt.input, got, tt.expected)
			}
		})
	}
}

var beautifyCorpus = []struct {
	text    string
	dialect Dialect
}{
	{"function f(){return 1;}", DialectCode},
	{"for(i=0;i<n;i++){x();}", DialectCode},
	{"a{b{c;}}}}{", DialectCode},
	{"if (x) { } else { y = [1, 2]; }", DialectCode},
	{"a; // hi\n;b;", DialectCode},
	{"/* multi\n   line */ x = `a\n  b`;", DialectCode},
	{"obj = { a: 1, b: { c: 2 } };", DialectCode},
	{"<a><b></b></a>", DialectMarkup},
	{"<ul><li>One</li><li>Two <b>x</b></li></ul>", DialectMarkup},
	{"<!DOCTYPE html><html><head><title>T</title></head><body><p class = 'x'>Hi  there</p><br/></body></html>", DialectMarkup},
	{"<div><!-- a\n  b --><p>x</p></div>", DialectMarkup},
	{"</p></p><p>", DialectMarkup},
}

func TestBeautifyIdempotent(t *testing.T) {
	for _, c := range beautifyCorpus {
		once := Beautify(c.text, c.dialect, DefaultConfig())
		twice := Beautify(once, c.dialect, DefaultConfig())
		if once != twice {
			t.Errorf("Beautify is not idempotent for %q:\nonce:\n%s\ntwice:\n%s", c.text, once, twice)
		}
	}
}

func TestMinifyIgnoresBeautify(t *testing.T) {
	inputs := []struct {
		text    string
		dialect Dialect
	}{
		{"function f(){return 1;}", DialectCode},
		{"for (i = 0; i < n; i++) { x(); }", DialectCode},
		{"a { b { c; } }", DialectCode},
		{"x = a - -b; y = c + +d;", DialectCode},
		{"<a><b></b></a>", DialectMarkup},
		{"<ul><li>One</li><li>Two <b>x</b></li></ul>", DialectMarkup},
		{"<div id=main>\n  <p>Hello   world</p>\n</div>", DialectMarkup},
	}

	for _, in := range inputs {
		pretty := Beautify(in.text, in.dialect, DefaultConfig())
		if got, want := Minify(pretty, in.dialect), Minify(in.text, in.dialect); got != want {
			t.Errorf("Minify(Beautify(%q)) = %q, want %q", in.text, got, want)
		}
	}
}
