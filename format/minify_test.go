package format

import (
	"strings"
	"testing"
)

func TestMinifyCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "comment and padded punctuation",
			input:    "/* c */ { a:1 ; } ",
			expected: "{a:1;}",
		},
		{
			name:     "statements across lines",
			input:    "var  x = 1;\n// note\nvar y = \"a  b\";",
			expected: `var x=1;var y="a  b";`,
		},
		{
			name:     "keyword before string keeps its space",
			input:    `return "x"`,
			expected: `return "x"`,
		},
		{
			name:     "escaped delimiter",
			input:    `s = "a\"b" ;`,
			expected: `s="a\"b";`,
		},
		{
			name:     "comment opener inside string",
			input:    `url = "http://x" // c`,
			expected: `url="http://x"`,
		},
		{
			name:     "unary minus does not fuse",
			input:    "a - -b",
			expected: "a- -b",
		},
		{
			name:     "plus plus does not fuse",
			input:    "a + ++b",
			expected: "a+ ++b",
		},
		{
			name:     "block comment separates words",
			input:    "a/**/b",
			expected: "a b",
		},
		{
			name:     "function",
			input:    "function add(a, b) {\n    return a + b;\n}\n",
			expected: "function add(a,b){return a+b;}",
		},
		{
			name:     "template literal",
			input:    "x = `a  ${ b }  c`;",
			expected: "x=`a  ${ b }  c`;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Minify(tt.input, DialectCode)
			if got != tt.expected {
				t.Errorf("Minify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMinifyMarkup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "document",
			input:    "<div>\n  <p class = \"a  b\" >Hello   world</p>\n  <!-- note -->\n  <br />\n</div>\n",
			expected: `<div><p class="a  b">Hello world</p><br/></div>`,
		},
		{
			name:     "whitespace between tags",
			input:    "<ul>\n\t<li>One</li>\n\t<li>Two</li>\n</ul>",
			expected: "<ul><li>One</li><li>Two</li></ul>",
		},
		{
			name:     "text next to a tag",
			input:    "<p>  hello <b>x</b> </p>",
			expected: "<p>hello<b>x</b></p>",
		},
		{
			name:     "newline run between words",
			input:    "<p>one\n\t\ttwo  \n three</p>",
			expected: "<p>one two three</p>",
		},
		{
			name:     "doctype",
			input:    "<!DOCTYPE html>\n<html>\n</html>",
			expected: "<!DOCTYPE html><html></html>",
		},
		{
			name:     "text containing a bracket",
			input:    "<p>a > b</p>",
			expected: "<p>a > b</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Minify(tt.input, DialectMarkup)
			if got != tt.expected {
				t.Errorf("Minify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMinifyNeverGrows(t *testing.T) {
	inputs := []struct {
		text    string
		dialect Dialect
	}{
		{"", DialectCode},
		{"a\n\n\nb", DialectCode},
		{"if (a) { b(); } else { c(); }", DialectCode},
		{"/* unterminated", DialectCode},
		{`"unterminated`, DialectCode},
		{"<a  href = 'x' >\n  text \n</a>", DialectMarkup},
		{"<div\n  id=x\n>", DialectMarkup},
		{"<p>\n\n</p>\n\n", DialectMarkup},
	}

	for _, in := range inputs {
		got := Minify(in.text, in.dialect)
		if len(got) > len(in.text) {
			t.Errorf("Minify(%q) = %q is longer than its input", in.text, got)
		}
	}
}

func TestMinifyMarkupHasNoNewlines(t *testing.T) {
	input := "<html>\n<head>\n<title>\nT\n</title>\n</head>\n<body>\n<p>a\r\nb</p>\n</body>\n</html>\n"
	got := Minify(input, DialectMarkup)
	if strings.ContainsAny(got, "\r\n") {
		t.Errorf("Minify left a line break: %q", got)
	}
	if got != "<html><head><title>T</title></head><body><p>a b</p></body></html>" {
		t.Errorf("Minify = %q", got)
	}
}
