package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const paletteNamespace = "palette."

// inPath reports whether b can be part of a dotted reference such as
// palette.brand-dark.
func inPath(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}
	return b == '_' || b == '-' || b == '.'
}

// paletteRefAtCursor returns the palette path under the cursor, truncated
// after the segment the cursor is on: on "blues" in palette.blues.light it
// yields "palette.blues". A lone "palette" word is not a reference.
func paletteRefAtCursor(line string, character uint32) string {
	col := int(character)
	if col >= len(line) {
		return ""
	}

	lo, hi := col, col
	for lo > 0 && inPath(line[lo-1]) {
		lo--
	}
	for hi < len(line) && inPath(line[hi]) {
		hi++
	}

	ref := line[lo:hi]
	if !strings.HasPrefix(ref, paletteNamespace) {
		return ""
	}
	if dot := strings.IndexByte(ref[col-lo:], '.'); dot >= 0 {
		ref = ref[:col-lo+dot]
	}
	return ref
}

// definition resolves the palette entry under pos to where it is declared.
func definition(result *AnalysisResult, content string, uri string, pos protocol.Position) *protocol.Location {
	if result == nil {
		return nil
	}

	line, ok := lineAt(content, pos.Line)
	if !ok {
		return nil
	}
	rng, ok := result.Symbols[paletteRefAtCursor(line, pos.Character)]
	if !ok {
		return nil
	}
	return &protocol.Location{URI: protocol.DocumentUri(uri), Range: rng}
}

// lineAt returns line n of content without its newline.
func lineAt(content string, n uint32) (string, bool) {
	for ; n > 0; n-- {
		i := strings.IndexByte(content, '\n')
		if i < 0 {
			return "", false
		}
		content = content[i+1:]
	}
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[:i]
	}
	return content, true
}

func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	uri := string(params.TextDocument.URI)
	doc, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}
	return definition(doc.Result, doc.Content, uri, params.Position), nil
}
