package lsp

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestPositionOffsetRoundTrip(t *testing.T) {
	text := "ab\nc😀d\n\nxyz"
	tests := []struct {
		pos    protocol.Position
		offset int
	}{
		{protocol.Position{Line: 0, Character: 0}, 0},
		{protocol.Position{Line: 0, Character: 2}, 2},
		{protocol.Position{Line: 1, Character: 1}, 4},
		{protocol.Position{Line: 1, Character: 3}, 8},
		{protocol.Position{Line: 2, Character: 0}, 10},
		{protocol.Position{Line: 3, Character: 3}, 14},
	}
	for _, tt := range tests {
		if got := positionToOffset(text, tt.pos); got != tt.offset {
			t.Errorf("positionToOffset(%v) = %d, want %d", tt.pos, got, tt.offset)
		}
		if got := offsetToPosition(text, tt.offset); got != tt.pos {
			t.Errorf("offsetToPosition(%d) = %v, want %v", tt.offset, got, tt.pos)
		}
	}
}

func TestPositionClamps(t *testing.T) {
	text := "ab\ncd"
	if got := positionToOffset(text, protocol.Position{Line: 0, Character: 99}); got != 2 {
		t.Errorf("past line end = %d, want 2", got)
	}
	if got := positionToOffset(text, protocol.Position{Line: 9, Character: 0}); got != len(text) {
		t.Errorf("past text end = %d, want %d", got, len(text))
	}
}

func TestDocumentsIncrementalUpdate(t *testing.T) {
	docs := NewDocuments()
	docs.Open(Document{URI: "u", Version: 1, Text: "hello world"})

	doc, ok := docs.Update("u", 2, []any{
		protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{
				Start: protocol.Position{Line: 0, Character: 6},
				End:   protocol.Position{Line: 0, Character: 11},
			},
			Text: "there",
		},
	})
	if !ok {
		t.Fatal("Update reported unknown document")
	}
	if doc.Text != "hello there" || doc.Version != 2 {
		t.Errorf("doc = %+v", doc)
	}

	if _, ok := docs.Update("missing", 1, nil); ok {
		t.Error("Update of unknown document succeeded")
	}
}

func TestLineBounds(t *testing.T) {
	text := "one\ntwo\nthree"
	tests := []struct {
		start, end int
		wantStart  int
		wantEnd    int
	}{
		{5, 6, 4, 7},
		{0, 4, 0, 3},
		{9, 9, 8, 13},
	}
	for _, tt := range tests {
		s, e := lineBounds(text, tt.start, tt.end)
		if s != tt.wantStart || e != tt.wantEnd {
			t.Errorf("lineBounds(%d, %d) = %d, %d; want %d, %d", tt.start, tt.end, s, e, tt.wantStart, tt.wantEnd)
		}
	}
}
