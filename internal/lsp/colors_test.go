package lsp

import (
	"math"
	"testing"

	"github.com/jsvensson/themevars/internal/color"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func colorsClose(a, b protocol.Color) bool {
	const eps = 0.002
	return math.Abs(float64(a.Red-b.Red)) < eps &&
		math.Abs(float64(a.Green-b.Green)) < eps &&
		math.Abs(float64(a.Blue-b.Blue)) < eps &&
		math.Abs(float64(a.Alpha-b.Alpha)) < eps
}

func TestColorToLSP(t *testing.T) {
	tests := []struct {
		input  string
		want   protocol.Color
		wantOK bool
	}{
		{"#ff0000", protocol.Color{Red: 1, Alpha: 1}, true},
		{"#3366ff", protocol.Color{Red: 0.2, Green: 0.4, Blue: 1, Alpha: 1}, true},
		{"#00000080", protocol.Color{Alpha: 0.5}, true},
		{"rgb(0 255 0 / 50%)", protocol.Color{Green: 1, Alpha: 0.5}, true},
		{"hsl(0, 100%, 50%)", protocol.Color{Red: 1, Alpha: 1}, true},
		{"white", protocol.Color{Red: 1, Green: 1, Blue: 1, Alpha: 1}, true},
		{"oklch(0.7 0.1 200)", protocol.Color{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := color.Parse(tt.input)
			if !ok {
				t.Fatalf("color.Parse(%q) failed", tt.input)
			}
			got, ok := colorToLSP(c)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !colorsClose(got, tt.want) {
				t.Errorf("colorToLSP(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDocumentColors(t *testing.T) {
	result := analyzeTestDoc(t)

	infos := documentColors(result)

	want := []protocol.ColorInformation{
		{Range: lspRange(3, 8, 17), Color: protocol.Color{Red: 1, Alpha: 1}},
		{Range: lspRange(5, 12, 21), Color: protocol.Color{Red: 0.2, Green: 0.4, Blue: 1, Alpha: 1}},
		{Range: lspRange(20, 14, 25), Color: protocol.Color{Red: 1, Alpha: 1}},
		{Range: lspRange(21, 14, 33), Color: protocol.Color{Red: 0.2, Green: 0.4, Blue: 1, Alpha: 1}},
		{Range: lspRange(27, 14, 38), Color: protocol.Color{Red: 0.6, Alpha: 1}},
	}
	if len(infos) != len(want) {
		t.Fatalf("got %d colors, want %d: %+v", len(infos), len(want), infos)
	}
	for i := range want {
		if infos[i].Range != want[i].Range {
			t.Errorf("color %d range = %+v, want %+v", i, infos[i].Range, want[i].Range)
		}
		if !colorsClose(infos[i].Color, want[i].Color) {
			t.Errorf("color %d = %+v, want %+v", i, infos[i].Color, want[i].Color)
		}
	}
}

func TestDocumentColors_NilResult(t *testing.T) {
	infos := documentColors(nil)
	if infos == nil || len(infos) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", infos)
	}
}

func TestColorPresentation(t *testing.T) {
	tests := []struct {
		name     string
		r        protocol.Range
		color    protocol.Color
		wantText string
	}{
		{
			name:     "literal is replaced",
			r:        lspRange(3, 8, 17),
			color:    protocol.Color{Red: 0, Green: 0.5, Blue: 1, Alpha: 1},
			wantText: `"#0080ff"`,
		},
		{
			name:     "alpha is appended",
			r:        lspRange(3, 8, 17),
			color:    protocol.Color{Red: 1, Alpha: 0.5},
			wantText: `"#ff000080"`,
		},
		{
			name:  "palette reference is left alone",
			r:     lspRange(20, 14, 25),
			color: protocol.Color{Red: 1, Alpha: 1},
		},
		{
			name:  "function call is left alone",
			r:     lspRange(27, 14, 38),
			color: protocol.Color{Red: 1, Alpha: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := colorPresentation(testDoc, &protocol.ColorPresentationParams{
				Color: tt.color,
				Range: tt.r,
			})
			if tt.wantText == "" {
				if len(got) != 0 {
					t.Errorf("expected no presentations, got %+v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 presentation, got %d", len(got))
			}
			if got[0].TextEdit == nil || got[0].TextEdit.NewText != tt.wantText {
				t.Errorf("edit = %+v, want %s", got[0].TextEdit, tt.wantText)
			}
			if got[0].TextEdit.Range != tt.r {
				t.Errorf("edit range = %+v, want %+v", got[0].TextEdit.Range, tt.r)
			}
		})
	}
}
