package main

import (
	"context"
	"io"
	"sync"

	"github.com/witness-lang/witness/parse"
	"github.com/witness-lang/witness/sem"

	"go.lsp.dev/protocol"
)

type document struct {
	text string
}

type documentStore struct {
	mu   sync.Mutex
	docs map[string]*document
}

func (ds *documentStore) set(uri, text string) *document {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	doc := &document{text: text}
	ds.docs[uri] = doc
	return doc
}

func (ds *documentStore) remove(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.docs.set(uri, params.TextDocument.Text)
	return s.publishDiagnostics(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// Full sync: the last change carries the whole document.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	uri := string(params.TextDocument.URI)
	s.docs.set(uri, text)
	return s.publishDiagnostics(ctx, params.TextDocument.URI, text)
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.remove(string(params.TextDocument.URI))
	return s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
}

// publishDiagnostics parses and analyzes the document and reports
// parse errors, analysis errors and analysis warnings.
func (s *Server) publishDiagnostics(ctx context.Context, uri protocol.DocumentURI, text string) error {
	diags := analyzeForDiagnostics(ctx, s.artifactDir, text)
	return s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func analyzeForDiagnostics(ctx context.Context, artifactDir, text string) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	prog, err := parse.Parse([]byte(text))
	if err != nil {
		diags = append(diags, protocol.Diagnostic{
			Range:    wholeFirstLine(),
			Severity: protocol.DiagnosticSeverityError,
			Source:   lsName,
			Message:  err.Error(),
		})
		return diags
	}
	a := sem.New(
		sem.WithOutput(io.Discard),
		sem.WithErrOutput(io.Discard),
		sem.Quiet(true),
		sem.WithDir(artifactDir),
	)
	if err := a.Analyze(ctx, prog); err != nil {
		return diags
	}
	for _, e := range a.Diagnostics().Errors() {
		diags = append(diags, protocol.Diagnostic{
			Range:    wholeFirstLine(),
			Severity: protocol.DiagnosticSeverityError,
			Source:   lsName,
			Message:  e,
		})
	}
	for _, w := range a.Diagnostics().Warnings() {
		diags = append(diags, protocol.Diagnostic{
			Range:    wholeFirstLine(),
			Severity: protocol.DiagnosticSeverityWarning,
			Source:   lsName,
			Message:  w,
		})
	}
	return diags
}

func wholeFirstLine() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 0},
	}
}
