package lsp

import (
	"context"
	"encoding/json"
	"testing"

	lsp "github.com/sourcegraph/go-lsp"
)

func TestDiagnostics(t *testing.T) {
	if diags := diagnostics("file:///ok.sh", "echo hi"); len(diags) != 0 {
		t.Errorf("valid input produced diagnostics: %v", diags)
	}

	diags := diagnostics("file:///bad.sh", "if true; then")
	if len(diags) == 0 {
		t.Fatal("invalid input produced no diagnostics")
	}
	for _, d := range diags {
		if d.Severity != lsp.Error || d.Source != "parse" {
			t.Errorf("diagnostic = %+v, want severity Error and source parse", d)
		}
		if d.Message == "" {
			t.Error("diagnostic has empty message")
		}
	}
}

func TestHover(t *testing.T) {
	s := newServer()
	s.content["file:///x.sh"] = "echo hello"

	raw, _ := json.Marshal(lsp.TextDocumentPositionParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: "file:///x.sh"},
	})
	result, err := s.hover(context.Background(), nil, raw)
	if err != nil {
		t.Fatal(err)
	}
	hover := result.(lsp.Hover)
	if len(hover.Contents) != 1 || hover.Contents[0].Value != "print hello" {
		t.Errorf("hover = %+v, want conversion of the document", hover)
	}

	// Unknown documents hover to nothing.
	raw, _ = json.Marshal(lsp.TextDocumentPositionParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: "file:///unknown.sh"},
	})
	result, err = s.hover(context.Background(), nil, raw)
	if err != nil {
		t.Fatal(err)
	}
	if hover := result.(lsp.Hover); len(hover.Contents) != 0 {
		t.Errorf("hover for unknown document = %+v, want empty", hover)
	}
}

func TestLspPositionFromIdx(t *testing.T) {
	s := "ab\ncd"
	tests := []struct {
		idx  int
		want lsp.Position
	}{
		{0, lsp.Position{Line: 0, Character: 0}},
		{1, lsp.Position{Line: 0, Character: 1}},
		{3, lsp.Position{Line: 1, Character: 0}},
		{5, lsp.Position{Line: 1, Character: 2}},
	}
	for _, test := range tests {
		if got := lspPositionFromIdx(s, test.idx); got != test.want {
			t.Errorf("lspPositionFromIdx(%q, %v) = %v, want %v",
				s, test.idx, got, test.want)
		}
	}
}
