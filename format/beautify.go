package format

import "strings"

// Beautify re-indents text at its structural boundaries. Opening and closing
// braces or tags start a new line indented by their nesting depth, and in
// code a statement terminator outside parentheses ends the line. Literals
// and comments are copied verbatim. An empty block or element, or an element
// holding only text, stays on one line. Whitespace elsewhere collapses to a
// single space, which makes the transform idempotent.
func Beautify(text string, dialect Dialect, cfg Config) string {
	segs, _ := Segments(text, dialect)
	p := &printer{indent: cfg.indentUnit()}
	if dialect == DialectMarkup {
		p.markup(segs)
	} else {
		p.code(segs)
	}
	return strings.TrimSpace(string(p.buf))
}

type printer struct {
	indent string
	buf    []byte

	lineStart int // offset of the current line
	textStart int // offset just past the current line's indentation

	space  bool // a space is owed before the next token
	brk    bool // a line break is owed before the next token
	must   bool // the owed line break cannot be skipped
	parens []int
}

func (p *printer) newline(depth int) {
	p.buf = trimTrailing(p.buf)
	if len(p.buf) > p.lineStart {
		p.buf = append(p.buf, '\n')
		p.lineStart = len(p.buf)
	}
	for i := 0; i < depth; i++ {
		p.buf = append(p.buf, p.indent...)
	}
	p.textStart = len(p.buf)
}

func (p *printer) put(text string, depth int, force bool) {
	switch {
	case force || p.must || p.brk && !hugsPrevious(text):
		p.newline(depth)
	case p.space && len(p.buf) > p.textStart:
		p.buf = append(p.buf, ' ')
	}
	p.space, p.brk, p.must = false, false, false
	p.buf = append(p.buf, text...)
}

func (p *printer) code(segs []Segment) {
	p.parens = []int{0}
	for i := 0; i < len(segs); i++ {
		seg := segs[i]
		switch seg.Kind {
		case SegmentSpace:
			p.space = true
		case SegmentOpen:
			p.put(seg.Text, seg.Depth, true)
			if j := nextSignificant(segs, i+1); j >= 0 && segs[j].Kind == SegmentClose {
				p.buf = append(p.buf, segs[j].Text...)
				i = j
			} else {
				p.parens = append(p.parens, 0)
			}
			p.brk = true
		case SegmentClose:
			if len(p.parens) > 1 {
				p.parens = p.parens[:len(p.parens)-1]
			}
			p.put(seg.Text, seg.Depth, true)
			p.brk = true
		case SegmentTerminator:
			p.put(seg.Text, seg.Depth, false)
			if p.parens[len(p.parens)-1] == 0 {
				p.brk = true
			}
		case SegmentLineComment:
			p.put(seg.Text, seg.Depth, false)
			p.brk, p.must = true, true
		case SegmentPunct:
			p.put(seg.Text, seg.Depth, false)
			top := len(p.parens) - 1
			switch seg.Text {
			case "(":
				p.parens[top]++
			case ")":
				if p.parens[top] > 0 {
					p.parens[top]--
				}
			}
		default:
			p.put(seg.Text, seg.Depth, false)
		}
	}
}

type markupLine struct {
	kind  SegmentKind
	text  string
	depth int
}

func (p *printer) markup(segs []Segment) {
	lines := markupLines(segs)
	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		text := ln.text
		if ln.kind == SegmentOpen {
			switch {
			case i+1 < len(lines) && lines[i+1].kind == SegmentClose:
				text += lines[i+1].text
				i++
			case i+2 < len(lines) && lines[i+1].kind == SegmentText && lines[i+2].kind == SegmentClose:
				text += lines[i+1].text + lines[i+2].text
				i += 2
			}
		}
		p.newline(ln.depth)
		p.buf = append(p.buf, text...)
	}
}

// markupLines groups segments into the units that each start a line: tags,
// comments, and runs of text with their whitespace collapsed.
func markupLines(segs []Segment) []markupLine {
	var lines []markupLine
	var text strings.Builder
	depth := 0
	flush := func() {
		if text.Len() > 0 {
			lines = append(lines, markupLine{kind: SegmentText, text: text.String(), depth: depth})
			text.Reset()
		}
	}
	space := false
	for _, seg := range segs {
		switch seg.Kind {
		case SegmentSpace:
			space = true
		case SegmentOpen, SegmentClose, SegmentVoid:
			flush()
			lines = append(lines, markupLine{kind: seg.Kind, text: renderTag(seg), depth: seg.Depth})
		case SegmentBlockComment, SegmentLineComment:
			flush()
			lines = append(lines, markupLine{kind: seg.Kind, text: seg.Text, depth: seg.Depth})
		default:
			if text.Len() == 0 {
				depth = seg.Depth
			} else if space {
				text.WriteByte(' ')
			}
			text.WriteString(seg.Text)
		}
		if seg.Kind != SegmentSpace {
			space = false
		}
	}
	flush()
	return lines
}

func nextSignificant(segs []Segment, from int) int {
	for i := from; i < len(segs); i++ {
		if segs[i].Kind != SegmentSpace {
			return i
		}
	}
	return -1
}

// hugsPrevious reports whether text stays on the line of the token before it
// even when that token asked for a line break.
func hugsPrevious(text string) bool {
	switch text[0] {
	case ';', ',', ')', ']':
		return true
	}
	return false
}

func trimTrailing(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}
