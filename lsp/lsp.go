// Package lsp serves the formatter and the structural validators to editors
// over the Language Server Protocol.
package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dhamidi/devtext/dispatch"
	"github.com/dhamidi/devtext/format"
	"github.com/tliron/commonlog"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "devtext"

var log = commonlog.GetLogger("devtext.lsp")

type LSPServer struct {
	docs       *Documents
	dispatcher *dispatch.Dispatcher
	indent     string
	handler    protocol.Handler
	server     *server.Server
	version    string
}

func NewLSPServer(version string, d *dispatch.Dispatcher, indent string) *LSPServer {
	ls := &LSPServer{
		docs:       NewDocuments(),
		dispatcher: d,
		indent:     indent,
		version:    version,
	}

	ls.handler = protocol.Handler{
		Initialize:                  ls.initialize,
		Initialized:                 ls.initialized,
		Shutdown:                    ls.shutdown,
		SetTrace:                    ls.setTrace,
		TextDocumentDidOpen:         ls.textDocumentDidOpen,
		TextDocumentDidChange:       ls.textDocumentDidChange,
		TextDocumentDidClose:        ls.textDocumentDidClose,
		TextDocumentDidSave:         ls.textDocumentDidSave,
		TextDocumentFormatting:      ls.textDocumentFormatting,
		TextDocumentRangeFormatting: ls.textDocumentRangeFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("%s %s ready", lsName, ls.version)
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := ls.docs.Open(Document{
		URI:        params.TextDocument.URI,
		LanguageID: params.TextDocument.LanguageID,
		Version:    params.TextDocument.Version,
		Text:       params.TextDocument.Text,
	})
	ls.publishDiagnostics(ctx, doc)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	doc, ok := ls.docs.Update(params.TextDocument.URI, params.TextDocument.Version, params.ContentChanges)
	if !ok {
		return nil
	}
	ls.publishDiagnostics(ctx, doc)
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.docs.Close(params.TextDocument.URI)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	doc, ok := ls.docs.Get(params.TextDocument.URI)
	if !ok {
		return nil
	}
	if params.Text != nil {
		updated, ok := ls.docs.Update(doc.URI, doc.Version, []any{
			protocol.TextDocumentContentChangeEventWhole{Text: *params.Text},
		})
		if !ok {
			return nil
		}
		doc = updated
	}
	ls.publishDiagnostics(ctx, doc)
	return nil
}

func (ls *LSPServer) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc, ok := ls.docs.Get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	formatted, err := ls.beautify(doc.Text, doc.Dialect(), ls.indentFor(params.Options))
	if err != nil {
		return nil, err
	}
	if formatted == doc.Text {
		return []protocol.TextEdit{}, nil
	}

	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{},
			End:   offsetToPosition(doc.Text, len(doc.Text)),
		},
		NewText: formatted,
	}}, nil
}

// textDocumentRangeFormatting beautifies the selected lines and shifts them
// to the nesting depth at which the selection starts.
func (ls *LSPServer) textDocumentRangeFormatting(ctx *glsp.Context, params *protocol.DocumentRangeFormattingParams) ([]protocol.TextEdit, error) {
	doc, ok := ls.docs.Get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	dialect := doc.Dialect()
	unit := ls.indentFor(params.Options)
	start, end := lineBounds(doc.Text,
		positionToOffset(doc.Text, params.Range.Start),
		positionToOffset(doc.Text, params.Range.End))
	if start >= end {
		return []protocol.TextEdit{}, nil
	}

	formatted, err := ls.beautify(doc.Text[start:end], dialect, unit)
	if err != nil {
		return nil, err
	}
	state := format.Scan(doc.Text[:start], dialect, func(format.Segment) {})
	formatted = indentLines(formatted, strings.Repeat(unit, state.Depth))

	if formatted == doc.Text[start:end] {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: offsetToPosition(doc.Text, start),
			End:   offsetToPosition(doc.Text, end),
		},
		NewText: formatted,
	}}, nil
}

func (ls *LSPServer) beautify(text string, dialect format.Dialect, unit string) (string, error) {
	kind := dispatch.KindBeautifyCode
	if dialect == format.DialectMarkup {
		kind = dispatch.KindBeautifyMarkup
	}
	resp, err := ls.dispatcher.Send(context.Background(), dispatch.Request{
		Kind:   kind,
		Data:   text,
		Indent: unit,
	})
	if err != nil {
		log.Errorf("format: %s", err)
		return "", err
	}
	var out string
	if err := resp.DecodeResult(&out); err != nil {
		return "", err
	}
	return out, nil
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, doc *Document) {
	kind := dispatch.KindValidateCode
	if doc.Dialect() == format.DialectMarkup {
		kind = dispatch.KindValidateMarkup
	}

	var result format.ValidationResult
	if err := ls.dispatcher.Do(context.Background(), kind, doc.Text, &result); err != nil {
		log.Warningf("validate %s: %s", doc.URI, err)
		return
	}

	version := protocol.UInteger(doc.Version)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     &version,
		Diagnostics: diagnostics(doc.Text, result),
	})
}

// diagnostics anchors every validation error to the first line; the
// validators report balance, not locations.
func diagnostics(text string, result format.ValidationResult) []protocol.Diagnostic {
	out := []protocol.Diagnostic{}
	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}
	rng := protocol.Range{
		Start: protocol.Position{},
		End:   offsetToPosition(firstLine, len(firstLine)),
	}
	severity := protocol.DiagnosticSeverityError
	source := lsName
	for _, msg := range result.Errors {
		out = append(out, protocol.Diagnostic{
			Range:    rng,
			Severity: &severity,
			Source:   &source,
			Message:  msg,
		})
	}
	return out
}

// indentFor honours the client's formatting options, falling back to the
// configured unit.
func (ls *LSPServer) indentFor(opts protocol.FormattingOptions) string {
	if insert, ok := opts[protocol.FormattingOptionInsertSpaces].(bool); ok && !insert {
		return "\t"
	}
	switch size := opts[protocol.FormattingOptionTabSize].(type) {
	case float64:
		if size > 0 {
			return strings.Repeat(" ", int(size))
		}
	case int:
		if size > 0 {
			return strings.Repeat(" ", size)
		}
	case protocol.UInteger:
		if size > 0 {
			return strings.Repeat(" ", int(size))
		}
	}
	if ls.indent != "" {
		return ls.indent
	}
	return format.DefaultIndent
}

func indentLines(text, prefix string) string {
	if prefix == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
