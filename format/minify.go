package format

import "strings"

// Minify removes comments and collapses whitespace outside string literals.
// In code, a whitespace run survives as a single space only where two word
// characters would otherwise fuse; next to punctuation it is dropped. In
// markup, whitespace touching a tag is dropped and runs inside text or
// inside a tag collapse to one space. The result is never longer than text.
func Minify(text string, dialect Dialect) string {
	m := &minifier{dialect: dialect}
	m.out.Grow(len(text))
	Scan(text, dialect, m.segment)
	return m.out.String()
}

type minifier struct {
	dialect Dialect
	out     strings.Builder
	space   bool // whitespace or a comment preceded the next segment
	last    byte
	tagged  bool // the last thing written was a markup tag
}

func (m *minifier) segment(seg Segment) {
	switch seg.Kind {
	case SegmentSpace, SegmentLineComment, SegmentBlockComment:
		m.space = true
		return
	}
	if m.dialect == DialectMarkup {
		m.markup(seg)
	} else {
		m.code(seg)
	}
	m.space = false
}

func (m *minifier) code(seg Segment) {
	first := seg.Text[0]
	if m.space && m.out.Len() > 0 {
		if !isPunct(m.last) && !isPunct(first) || fusesOperator(m.last, first) {
			m.out.WriteByte(' ')
		}
	}
	m.write(seg.Text)
}

func (m *minifier) markup(seg Segment) {
	switch seg.Kind {
	case SegmentOpen, SegmentClose, SegmentVoid:
		m.write(renderTag(seg))
		m.tagged = true
		return
	}
	// A whitespace run between two words keeps one space so the words do
	// not fuse. Runs next to a tag collapse to nothing.
	if m.space && m.out.Len() > 0 && !m.tagged {
		m.out.WriteByte(' ')
	}
	m.write(seg.Text)
	m.tagged = false
}

func (m *minifier) write(s string) {
	m.out.WriteString(s)
	m.last = s[len(s)-1]
}

// fusesOperator reports whether dropping the space between a and b would
// change the tokens, as in "a - -b" or "a / /re/".
func fusesOperator(a, b byte) bool {
	switch a {
	case '+', '-':
		return b == a
	case '/':
		return b == '/' || b == '*'
	}
	return false
}

// renderTag normalizes the whitespace inside a markup tag: runs become one
// space, except next to '<', '=', '>' and "/>" where they are dropped.
func renderTag(seg Segment) string {
	if len(seg.Parts) == 0 {
		return seg.Text
	}
	var b strings.Builder
	b.Grow(len(seg.Text))
	space := false
	prev := ""
	for _, p := range seg.Parts {
		if p.Kind == SegmentSpace {
			space = true
			continue
		}
		if space && prev != "" && !tagGlue(prev, p.Text) {
			b.WriteByte(' ')
		}
		b.WriteString(p.Text)
		prev = p.Text
		space = false
	}
	return b.String()
}

func tagGlue(prev, next string) bool {
	return strings.HasSuffix(prev, "<") || strings.HasSuffix(prev, "=") ||
		strings.HasPrefix(next, "=") || strings.HasPrefix(next, ">") || strings.HasPrefix(next, "/>")
}
