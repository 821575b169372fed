package format

import (
	"encoding/json"
	"io"
)

// SegmentJSONEncoder writes the scanner's view of a source text as JSON.
type SegmentJSONEncoder struct {
	w io.Writer
}

func NewSegmentJSONEncoder(w io.Writer) *SegmentJSONEncoder {
	return &SegmentJSONEncoder{w: w}
}

func (e *SegmentJSONEncoder) Encode(src string, dialect Dialect) error {
	text, err := e.MarshalText(src, dialect)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *SegmentJSONEncoder) MarshalText(src string, dialect Dialect) ([]byte, error) {
	segs, state := Segments(src, dialect)
	lines := newLineIndex(src)

	doc := segmentJSONDocument{
		Dialect: dialect.String(),
		State: segmentJSONState{
			Mode:      state.Mode.String(),
			Depth:     state.Depth,
			Unmatched: state.Unmatched,
		},
		Segments: make([]*segmentJSON, len(segs)),
	}
	for i, seg := range segs {
		doc.Segments[i] = segmentToJSON(seg, lines)
	}
	return json.MarshalIndent(doc, "", "  ")
}

type segmentJSONDocument struct {
	Dialect  string           `json:"dialect"`
	State    segmentJSONState `json:"state"`
	Segments []*segmentJSON   `json:"segments"`
}

type segmentJSONState struct {
	Mode      string `json:"mode"`
	Depth     int    `json:"depth"`
	Unmatched int    `json:"unmatched,omitempty"`
}

type segmentJSON struct {
	Kind  string         `json:"kind"`
	Start segmentJSONPos `json:"start"`
	Depth int            `json:"depth"`
	Name  string         `json:"name,omitempty"`
	Text  string         `json:"text"`
	Parts []*segmentJSON `json:"parts,omitempty"`
}

type segmentJSONPos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func segmentToJSON(seg Segment, lines lineIndex) *segmentJSON {
	line, col := lines.position(seg.Start)
	js := &segmentJSON{
		Kind:  seg.Kind.String(),
		Start: segmentJSONPos{Line: line, Column: col},
		Depth: seg.Depth,
		Name:  seg.Name,
		Text:  seg.Text,
	}
	if len(seg.Parts) > 0 {
		js.Parts = make([]*segmentJSON, len(seg.Parts))
		for i, part := range seg.Parts {
			js.Parts[i] = segmentToJSON(part, lines)
		}
	}
	return js
}

// lineIndex maps byte offsets to 1-based line and column numbers.
type lineIndex []int

func newLineIndex(src string) lineIndex {
	idx := lineIndex{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (idx lineIndex) position(offset int) (line, column int) {
	lo, hi := 0, len(idx)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - idx[lo] + 1
}
