package lsp

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestFormatEdits(t *testing.T) {
	input := "prefix   =   \"--t\"\nbase {\nsm = \"4px\"\n}\n"

	edits, err := formatEdits(input)
	if err != nil {
		t.Fatalf("formatEdits() error = %v", err)
	}
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}

	wantRange := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 4, Character: 0},
	}
	if edits[0].Range != wantRange {
		t.Errorf("range = %+v, want %+v", edits[0].Range, wantRange)
	}

	want := "prefix = \"--t\"\nbase {\n  sm = \"4px\"\n}\n"
	if edits[0].NewText != want {
		t.Errorf("NewText = %q, want %q", edits[0].NewText, want)
	}
}

func TestFormatEdits_AlreadyFormatted(t *testing.T) {
	edits, err := formatEdits(testDoc)
	if err != nil {
		t.Fatalf("formatEdits() error = %v", err)
	}
	if edits == nil || len(edits) != 0 {
		t.Errorf("expected empty edit list, got %+v", edits)
	}
}

func TestFormatEdits_TrailingNewline(t *testing.T) {
	edits, err := formatEdits("prefix=\"--t\"\n")
	if err != nil {
		t.Fatalf("formatEdits() error = %v", err)
	}
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	if end := edits[0].Range.End; end.Line != 1 || end.Character != 0 {
		t.Errorf("end = %+v, want line 1 char 0", end)
	}
}

func TestFormatEdits_InvalidHCL(t *testing.T) {
	// Formatting must keep working while the user is typing.
	if _, err := formatEdits(`palette { red = "#ff0000"`); err != nil {
		t.Errorf("formatEdits() on incomplete HCL should not error, got: %v", err)
	}
}
