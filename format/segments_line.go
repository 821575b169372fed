package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SegmentEncoder renders the scanner's view of a source text.
type SegmentEncoder interface {
	Encode(src string, dialect Dialect) error
}

// SegmentLineEncoder writes one tab-separated line per segment:
//
//	kind	line:column	depth	text
//
// Text is quoted so that whitespace and newlines stay visible. Tags are
// followed by their parts, indented with a leading tab.
type SegmentLineEncoder struct {
	w io.Writer
}

func NewSegmentLineEncoder(w io.Writer) *SegmentLineEncoder {
	return &SegmentLineEncoder{w: w}
}

func (e *SegmentLineEncoder) Encode(src string, dialect Dialect) error {
	text, err := e.MarshalText(src, dialect)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *SegmentLineEncoder) MarshalText(src string, dialect Dialect) ([]byte, error) {
	var sb strings.Builder
	segs, state := Segments(src, dialect)
	lines := newLineIndex(src)

	for _, seg := range segs {
		writeSegmentLine(&sb, "", seg, lines)
		for _, part := range seg.Parts {
			writeSegmentLine(&sb, "\t", part, lines)
		}
	}
	fmt.Fprintf(&sb, "end\t%s\tdepth=%d\tunmatched=%d\n", state.Mode, state.Depth, state.Unmatched)

	return []byte(sb.String()), nil
}

func writeSegmentLine(sb *strings.Builder, prefix string, seg Segment, lines lineIndex) {
	line, col := lines.position(seg.Start)
	kind := seg.Kind.String()
	if seg.Name != "" {
		kind += ":" + seg.Name
	}
	fmt.Fprintf(sb, "%s%s\t%d:%d\t%d\t%s\n", prefix, kind, line, col, seg.Depth, strconv.Quote(seg.Text))
}
