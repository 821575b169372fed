package format

import (
	"fmt"
	"strings"
)

// ModeKind enumerates the lexical contexts the scanner can be in.
type ModeKind int

const (
	ModeNormal ModeKind = iota
	ModeString
	ModeLineComment
	ModeBlockComment
	ModeTag
)

// Mode is the scanner's current lexical context. Only the constructors
// below build one, so a delimiter exists only inside a string.
type Mode struct {
	kind  ModeKind
	delim byte
}

func Normal() Mode { return Mode{kind: ModeNormal} }

func InString(delim byte) Mode { return Mode{kind: ModeString, delim: delim} }

func InLineComment() Mode { return Mode{kind: ModeLineComment} }

func InBlockComment() Mode { return Mode{kind: ModeBlockComment} }

func InTag() Mode { return Mode{kind: ModeTag} }

func (m Mode) Kind() ModeKind { return m.kind }

// Delim is the closing quote of a string literal, or 0 in any other mode.
func (m Mode) Delim() byte { return m.delim }

func (m Mode) String() string {
	switch m.kind {
	case ModeNormal:
		return "Normal"
	case ModeString:
		return fmt.Sprintf("InString(%c)", m.delim)
	case ModeLineComment:
		return "InLineComment"
	case ModeBlockComment:
		return "InBlockComment"
	case ModeTag:
		return "InTag"
	default:
		return fmt.Sprintf("Mode(%d)", int(m.kind))
	}
}

// SegmentKind classifies a run of scanned text.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentSpace
	SegmentPunct
	SegmentString
	SegmentLineComment
	SegmentBlockComment
	SegmentTerminator
	SegmentOpen
	SegmentClose
	SegmentVoid
)

var segmentKindNames = [...]string{
	SegmentText:         "Text",
	SegmentSpace:        "Space",
	SegmentPunct:        "Punct",
	SegmentString:       "String",
	SegmentLineComment:  "LineComment",
	SegmentBlockComment: "BlockComment",
	SegmentTerminator:   "Terminator",
	SegmentOpen:         "Open",
	SegmentClose:        "Close",
	SegmentVoid:         "Void",
}

func (k SegmentKind) String() string {
	if int(k) < len(segmentKindNames) {
		return segmentKindNames[k]
	}
	return fmt.Sprintf("SegmentKind(%d)", int(k))
}

// Segment is a classified slice of the source. Text is always the exact
// source bytes. Depth is the nesting level the segment is displayed at: for
// an opening token it is the level before the increment, for a closing token
// the level after the decrement.
type Segment struct {
	Kind  SegmentKind
	Text  string
	Start int
	Depth int

	// Name is the lower-cased element name of a markup tag.
	Name string
	// Parts holds the Text, Space and String segments inside a markup tag.
	Parts []Segment
}

// State is the scanner cursor. Depth never drops below zero; closing tokens
// that would have driven it negative are counted in Unmatched instead.
type State struct {
	Pos       int
	Mode      Mode
	Depth     int
	Unmatched int
}

var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement reports whether name is an element that never has a closing
// tag.
func IsVoidElement(name string) bool {
	return voidElements[strings.ToLower(name)]
}

type scanner struct {
	src     string
	dialect Dialect
	state   State
	emit    func(Segment)

	start    int // first byte of the literal or comment in progress
	tagStart int
	resume   ModeKind // mode to return to when a string literal closes
	escaped  bool
	closer   string // delimiter that ends the current block comment
	parts    []Segment
}

// Scan walks src one character at a time and reports every segment to emit
// in source order. It never fails: input that ends inside a literal, comment
// or tag yields a final State whose Mode is not Normal.
func Scan(src string, dialect Dialect, emit func(Segment)) State {
	s := &scanner{src: src, dialect: dialect, emit: emit}
	for s.state.Pos < len(s.src) {
		switch s.state.Mode.kind {
		case ModeString:
			s.stepString()
		case ModeLineComment:
			s.stepLineComment()
		case ModeBlockComment:
			s.stepBlockComment()
		case ModeTag:
			s.stepTag()
		default:
			if s.dialect == DialectMarkup {
				s.stepMarkup()
			} else {
				s.stepCode()
			}
		}
	}
	s.finish()
	return s.state
}

// Segments collects the output of Scan.
func Segments(src string, dialect Dialect) ([]Segment, State) {
	var segs []Segment
	st := Scan(src, dialect, func(seg Segment) {
		segs = append(segs, seg)
	})
	return segs, st
}

func (s *scanner) peekN(n int) byte {
	if s.state.Pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.state.Pos+n]
}

func (s *scanner) put(kind SegmentKind, start int) {
	seg := Segment{Kind: kind, Text: s.src[start:s.state.Pos], Start: start, Depth: s.state.Depth}
	if s.state.Mode.kind == ModeTag || s.state.Mode.kind == ModeString && s.resume == ModeTag {
		s.parts = append(s.parts, seg)
		return
	}
	s.emit(seg)
}

func (s *scanner) spaceRun() {
	start := s.state.Pos
	for s.state.Pos < len(s.src) && isSpace(s.src[s.state.Pos]) {
		s.state.Pos++
	}
	s.put(SegmentSpace, start)
}

func (s *scanner) open(seg Segment) {
	seg.Depth = s.state.Depth
	s.state.Depth++
	s.emit(seg)
}

func (s *scanner) close(seg Segment) {
	if s.state.Depth > 0 {
		s.state.Depth--
	} else {
		s.state.Unmatched++
	}
	seg.Depth = s.state.Depth
	s.emit(seg)
}

func (s *scanner) stepCode() {
	pos := s.state.Pos
	ch := s.src[pos]
	switch {
	case ch == '"' || ch == '\'' || ch == '`':
		s.beginString(ch, ModeNormal)
	case ch == '/' && s.peekN(1) == '/':
		s.start = pos
		s.state.Mode = InLineComment()
		s.state.Pos += 2
	case ch == '/' && s.peekN(1) == '*':
		s.start = pos
		s.closer = "*/"
		s.state.Mode = InBlockComment()
		s.state.Pos += 2
	case isSpace(ch):
		s.spaceRun()
	case ch == '{':
		s.state.Pos++
		s.open(Segment{Kind: SegmentOpen, Text: "{", Start: pos})
	case ch == '}':
		s.state.Pos++
		s.close(Segment{Kind: SegmentClose, Text: "}", Start: pos})
	case ch == ';':
		s.state.Pos++
		s.put(SegmentTerminator, pos)
	case isPunct(ch):
		s.state.Pos++
		s.put(SegmentPunct, pos)
	default:
		for s.state.Pos < len(s.src) {
			c := s.src[s.state.Pos]
			if isSpace(c) || isPunct(c) || c == '"' || c == '\'' || c == '`' {
				break
			}
			s.state.Pos++
		}
		s.put(SegmentText, pos)
	}
}

func (s *scanner) stepMarkup() {
	pos := s.state.Pos
	ch := s.src[pos]
	switch {
	case strings.HasPrefix(s.src[pos:], "<!--"):
		s.start = pos
		s.closer = "-->"
		s.state.Mode = InBlockComment()
		s.state.Pos += 4
	case ch == '<' && isTagStart(s.peekN(1)):
		s.tagStart = pos
		s.parts = nil
		s.state.Mode = InTag()
	case isSpace(ch):
		s.spaceRun()
	default:
		s.state.Pos++
		for s.state.Pos < len(s.src) {
			c := s.src[s.state.Pos]
			if isSpace(c) || c == '<' && (isTagStart(s.peekN(1)) || strings.HasPrefix(s.src[s.state.Pos:], "<!--")) {
				break
			}
			s.state.Pos++
		}
		s.put(SegmentText, pos)
	}
}

func (s *scanner) beginString(delim byte, resume ModeKind) {
	s.start = s.state.Pos
	s.resume = resume
	s.escaped = false
	s.state.Mode = InString(delim)
	s.state.Pos++
}

func (s *scanner) stepString() {
	ch := s.src[s.state.Pos]
	s.state.Pos++
	switch {
	case s.escaped:
		s.escaped = false
	case ch == '\\':
		s.escaped = true
	case ch == s.state.Mode.delim:
		s.put(SegmentString, s.start)
		s.state.Mode = Mode{kind: s.resume}
		s.resume = ModeNormal
	}
}

func (s *scanner) stepLineComment() {
	for s.state.Pos < len(s.src) && s.src[s.state.Pos] != '\n' {
		s.state.Pos++
	}
	s.put(SegmentLineComment, s.start)
	s.state.Mode = Normal()
}

func (s *scanner) stepBlockComment() {
	if strings.HasPrefix(s.src[s.state.Pos:], s.closer) {
		s.state.Pos += len(s.closer)
		s.put(SegmentBlockComment, s.start)
		s.state.Mode = Normal()
		return
	}
	s.state.Pos++
}

func (s *scanner) stepTag() {
	pos := s.state.Pos
	ch := s.src[pos]
	switch {
	case ch == '"' || ch == '\'':
		s.beginString(ch, ModeTag)
	case isSpace(ch):
		s.spaceRun()
	case ch == '>':
		s.state.Pos++
		s.put(SegmentText, pos)
		s.endTag()
	case ch == '/' && s.peekN(1) == '>':
		s.state.Pos += 2
		s.put(SegmentText, pos)
		s.endTag()
	default:
		s.state.Pos++
		for s.state.Pos < len(s.src) {
			c := s.src[s.state.Pos]
			if isSpace(c) || c == '"' || c == '\'' || c == '>' || c == '/' && s.peekN(1) == '>' {
				break
			}
			s.state.Pos++
		}
		s.put(SegmentText, pos)
	}
}

func (s *scanner) endTag() {
	raw := s.src[s.tagStart:s.state.Pos]
	seg := Segment{Text: raw, Start: s.tagStart, Name: tagName(raw), Parts: s.parts}
	s.parts = nil
	s.state.Mode = Normal()
	switch {
	case strings.HasPrefix(raw, "</"):
		seg.Kind = SegmentClose
		s.close(seg)
	case strings.HasPrefix(raw, "<!"), strings.HasPrefix(raw, "<?"),
		strings.HasSuffix(raw, "/>"), voidElements[seg.Name]:
		seg.Kind = SegmentVoid
		seg.Depth = s.state.Depth
		s.emit(seg)
	default:
		seg.Kind = SegmentOpen
		s.open(seg)
	}
}

// finish flushes a construct left open at end of input. The mode is kept so
// callers can tell the input was truncated; a line comment is the exception,
// since end of input ends the line.
func (s *scanner) finish() {
	switch s.state.Mode.kind {
	case ModeString:
		if s.resume == ModeTag {
			s.emit(Segment{Kind: SegmentText, Text: s.src[s.tagStart:], Start: s.tagStart, Depth: s.state.Depth})
			return
		}
		s.put(SegmentString, s.start)
	case ModeLineComment:
		s.put(SegmentLineComment, s.start)
		s.state.Mode = Normal()
	case ModeBlockComment:
		s.put(SegmentBlockComment, s.start)
	case ModeTag:
		s.emit(Segment{Kind: SegmentText, Text: s.src[s.tagStart:], Start: s.tagStart, Depth: s.state.Depth})
	}
}

func tagName(raw string) string {
	name := strings.TrimPrefix(strings.TrimPrefix(raw, "<"), "/")
	end := 0
	for end < len(name) && isNameByte(name[end]) {
		end++
	}
	return strings.ToLower(name[:end])
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isPunct(ch byte) bool {
	return strings.IndexByte("{}()[];,:=+-*/<>!&|?.%^~", ch) >= 0
}

func isTagStart(ch byte) bool {
	return ch == '/' || ch == '!' || ch == '?' || isLetter(ch)
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isNameByte(ch byte) bool {
	return isLetter(ch) || ch >= '0' && ch <= '9' || ch == '-' || ch == '_' || ch == ':' || ch == '.'
}
