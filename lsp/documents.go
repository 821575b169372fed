package lsp

import (
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dhamidi/devtext/format"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Document is an open editor buffer.
type Document struct {
	URI        string
	LanguageID string
	Version    int32
	Text       string
}

// Dialect picks the scanner dialect from the language id, falling back to
// the file extension and then to code.
func (d *Document) Dialect() format.Dialect {
	switch d.LanguageID {
	case "html", "xml", "xhtml", "svg", "vue":
		return format.DialectMarkup
	case "":
	default:
		return format.DialectCode
	}
	if path, err := uriToPath(d.URI); err == nil {
		if dialect, ok := format.DialectForFile(filepath.Base(path)); ok {
			return dialect
		}
	}
	return format.DialectCode
}

type Documents struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

func NewDocuments() *Documents {
	return &Documents{docs: make(map[string]*Document)}
}

func (s *Documents) Open(doc Document) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := doc
	s.docs[doc.URI] = &d
	return &d
}

// Update applies content changes in order. Changes without a range replace
// the whole text.
func (s *Documents) Update(uri string, version int32, changes []any) (*Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[uri]
	if !ok {
		return nil, false
	}
	text := doc.Text
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text
				continue
			}
			start := positionToOffset(text, c.Range.Start)
			end := positionToOffset(text, c.Range.End)
			if end < start {
				start, end = end, start
			}
			text = text[:start] + c.Text + text[end:]
		}
	}

	updated := *doc
	updated.Text = text
	updated.Version = version
	s.docs[uri] = &updated
	return &updated, true
}

func (s *Documents) Get(uri string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

func (s *Documents) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// positionToOffset converts an LSP position, whose character counts UTF-16
// code units, to a byte offset. Positions past the end of a line clamp to
// the line end; lines past the end clamp to the text end.
func positionToOffset(text string, pos protocol.Position) int {
	offset := 0
	for line := uint32(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}

	units := uint32(0)
	for offset < len(text) && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}
		units += utf16Len(r)
		offset += size
	}
	return offset
}

// offsetToPosition is the inverse of positionToOffset.
func offsetToPosition(text string, offset int) protocol.Position {
	if offset > len(text) {
		offset = len(text)
	}
	var pos protocol.Position
	for _, r := range text[:offset] {
		if r == '\n' {
			pos.Line++
			pos.Character = 0
			continue
		}
		pos.Character += utf16Len(r)
	}
	return pos
}

func utf16Len(r rune) uint32 {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// lineBounds extends [start, end) to whole lines. An end at the very start
// of a line does not pull that line in.
func lineBounds(text string, start, end int) (int, int) {
	if end > start && end > 0 && text[end-1] == '\n' {
		end--
	}
	start = strings.LastIndexByte(text[:start], '\n') + 1
	if i := strings.IndexByte(text[end:], '\n'); i >= 0 {
		end += i
	} else {
		end = len(text)
	}
	return start, end
}
