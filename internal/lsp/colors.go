package lsp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsvensson/themevars/internal/color"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// colorToLSP converts a parsed CSS color to a protocol.Color (float32 0.0-1.0).
// Only colors go-colorful can represent (rgb and hsl) are converted.
func colorToLSP(c color.Color) (protocol.Color, bool) {
	cf, err := c.Colorful()
	if err != nil {
		return protocol.Color{}, false
	}

	alpha := 1.0
	if c.Alpha != "" {
		a, err := strconv.ParseFloat(strings.TrimSuffix(c.Alpha, "%"), 64)
		if err != nil {
			return protocol.Color{}, false
		}
		if strings.HasSuffix(c.Alpha, "%") {
			a /= 100
		}
		alpha = a
	}

	return protocol.Color{
		Red:   float32(cf.R),
		Green: float32(cf.G),
		Blue:  float32(cf.B),
		Alpha: float32(alpha),
	}, true
}

// documentColors converts the analysis result's color values into LSP ColorInformation items.
func documentColors(result *AnalysisResult) []protocol.ColorInformation {
	if result == nil {
		return []protocol.ColorInformation{}
	}

	infos := make([]protocol.ColorInformation, 0, len(result.Values))
	for _, v := range result.Values {
		if v.Color == nil {
			continue
		}
		c, ok := colorToLSP(*v.Color)
		if !ok {
			continue
		}
		infos = append(infos, protocol.ColorInformation{
			Range: v.Range,
			Color: c,
		})
	}
	return infos
}

// colorPresentation produces color presentation options for a given color and range.
// Quoted literals are replaced with the picked color as hex; palette references
// and function calls are left alone.
func colorPresentation(content string, params *protocol.ColorPresentationParams) []protocol.ColorPresentation {
	r := uint8(params.Color.Red*255 + 0.5)
	g := uint8(params.Color.Green*255 + 0.5)
	b := uint8(params.Color.Blue*255 + 0.5)
	hexStr := fmt.Sprintf("#%02x%02x%02x", r, g, b)
	if params.Color.Alpha < 1 {
		hexStr += fmt.Sprintf("%02x", uint8(params.Color.Alpha*255+0.5))
	}

	text := extractText(content, params.Range)
	if !strings.HasPrefix(text, "\"") {
		return []protocol.ColorPresentation{}
	}

	return []protocol.ColorPresentation{
		{
			Label: hexStr,
			TextEdit: &protocol.TextEdit{
				Range:   params.Range,
				NewText: "\"" + hexStr + "\"",
			},
		},
	}
}

// textDocumentDocumentColor handles textDocument/documentColor requests.
func (s *Server) textDocumentDocumentColor(_ *glsp.Context, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	doc, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return []protocol.ColorInformation{}, nil
	}
	return documentColors(doc.Result), nil
}

// textDocumentColorPresentation handles textDocument/colorPresentation requests.
func (s *Server) textDocumentColorPresentation(_ *glsp.Context, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	doc, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return []protocol.ColorPresentation{}, nil
	}
	return colorPresentation(doc.Content, params), nil
}
