package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf16"

	"fortio.org/safecast"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/luafmt/format"
	"github.com/dhamidi/luafmt/project"
)

const lsName = "luafmt"

var log = commonlog.GetLogger("luafmt.lsp")

// Server is a language server offering document formatting.
type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string

	mu        sync.RWMutex
	documents map[string]string
	formatter *project.Formatter
}

func NewServer(version string) *Server {
	ls := &Server{
		version:   version,
		documents: make(map[string]string),
		formatter: &project.Formatter{},
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentFormatting: ls.textDocumentFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
	}
	capabilities.DocumentFormattingProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("client initialized")
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.setDocument(params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.setDocument(params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	delete(ls.documents, params.TextDocument.URI)
	return nil
}

func (ls *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	return ls.Format(params.TextDocument.URI, params.Options)
}

func (ls *Server) setDocument(uri, text string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.documents[uri] = text
}

// Format formats an open document and returns at most one edit replacing
// the whole text. Options come from the project configuration, with the
// client's tab size and tab preference on top.
func (ls *Server) Format(uri string, fo protocol.FormattingOptions) ([]protocol.TextEdit, error) {
	ls.mu.RLock()
	text, ok := ls.documents[uri]
	ls.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("document not open: %s", uri)
	}

	opts, err := ls.optionsFor(uri, fo)
	if err != nil {
		return nil, err
	}

	out, err := format.FormatString(text, opts)
	if err != nil {
		log.Debugf("%s: %v", uri, err)
		return nil, err
	}
	if out == text {
		return []protocol.TextEdit{}, nil
	}

	end, err := endPosition(text)
	if err != nil {
		return nil, err
	}
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   end,
		},
		NewText: out,
	}}, nil
}

func (ls *Server) optionsFor(uri string, fo protocol.FormattingOptions) (format.Options, error) {
	opts := format.DefaultOptions()
	if path, err := uriToPath(uri); err == nil {
		if resolved, err := ls.formatter.OptionsFor(filepath.Dir(path)); err == nil {
			opts = resolved
		} else {
			log.Warningf("%s: %v", uri, err)
		}
	}

	if v, ok := fo["tabSize"]; ok {
		if n, ok := asInt(v); ok && n > 0 {
			opts.IndentCount = n
		}
	}
	if v, ok := fo["insertSpaces"].(bool); ok {
		opts.UseTabs = !v
	}
	return opts, opts.Validate()
}

// endPosition returns the position just past the last character of text,
// with the character offset counted in UTF-16 code units.
func endPosition(text string) (protocol.Position, error) {
	lineCount := strings.Count(text, "\n")
	last := text[strings.LastIndex(text, "\n")+1:]

	units := 0
	for _, r := range last {
		units += utf16.RuneLen(r)
	}

	line, err := safecast.Conv[uint32](lineCount)
	if err != nil {
		return protocol.Position{}, err
	}
	character, err := safecast.Conv[uint32](units)
	if err != nil {
		return protocol.Position{}, err
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(character)}, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		i, err := safecast.Conv[int](n)
		return i, err == nil
	}
	return 0, false
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
