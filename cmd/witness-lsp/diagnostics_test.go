package main

import (
	"context"
	"strings"
	"testing"

	"go.lsp.dev/protocol"
)

func TestAnalyzeForDiagnosticsParseError(t *testing.T) {
	diags := analyzeForDiagnostics(context.Background(), t.TempDir(), `subject a x;`)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics want 1", len(diags))
	}
	if diags[0].Severity != protocol.DiagnosticSeverityError {
		t.Errorf("got severity %v want error", diags[0].Severity)
	}
	if !strings.Contains(diags[0].Message, "parse error") {
		t.Errorf("got message %q", diags[0].Message)
	}
}

func TestAnalyzeForDiagnosticsSemErrors(t *testing.T) {
	diags := analyzeForDiagnostics(context.Background(), t.TempDir(), `
subject a = x;
asset k = a, "give", nobody;
`)
	foundErr := false
	for _, d := range diags {
		if d.Severity == protocol.DiagnosticSeverityError &&
			strings.Contains(d.Message, "Third component") {
			foundErr = true
		}
	}
	if !foundErr {
		t.Errorf("missing semantic error diagnostic: %v", diags)
	}
}

func TestAnalyzeForDiagnosticsClean(t *testing.T) {
	diags := analyzeForDiagnostics(context.Background(), t.TempDir(), `
subject a = x;
subject b = y;
asset k = a, "give", b;
`)
	for _, d := range diags {
		if d.Severity == protocol.DiagnosticSeverityError {
			t.Errorf("unexpected error diagnostic: %s", d.Message)
		}
	}
}

func TestDocumentStore(t *testing.T) {
	ds := &documentStore{docs: map[string]*document{}}
	ds.set("file:///a.wit", "x")
	if ds.docs["file:///a.wit"].text != "x" {
		t.Error("set failed")
	}
	ds.remove("file:///a.wit")
	if _, ok := ds.docs["file:///a.wit"]; ok {
		t.Error("remove failed")
	}
}
