package lsp

import (
	"fmt"
	"strings"

	"github.com/jsvensson/themevars/internal/preset"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// posInRange returns true if pos is within the range [r.Start, r.End).
// The end position is exclusive.
func posInRange(pos protocol.Position, r protocol.Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// extractText extracts the source text at a given LSP range from document content.
func extractText(content string, r protocol.Range) string {
	lines := strings.Split(content, "\n")

	startLine := int(r.Start.Line)
	endLine := int(r.End.Line)

	if startLine >= len(lines) {
		return ""
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	if startLine == endLine {
		line := lines[startLine]
		startChar := min(int(r.Start.Character), len(line))
		endChar := min(int(r.End.Character), len(line))
		return line[startChar:endChar]
	}

	var parts []string
	for i := startLine; i <= endLine; i++ {
		line := lines[i]
		switch i {
		case startLine:
			parts = append(parts, line[min(int(r.Start.Character), len(line)):])
		case endLine:
			parts = append(parts, line[:min(int(r.End.Character), len(line))])
		default:
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n")
}

// hover produces a Hover response for the given cursor position. Values in
// the base tree and in themes show the variables they bind and the value
// every theme assigns; palette entries show the resolved value.
// Returns nil if no value is found at the position.
func hover(result *AnalysisResult, content string, pos protocol.Position) *protocol.Hover {
	if result == nil {
		return nil
	}

	for i := range result.Values {
		v := &result.Values[i]
		if !posInRange(pos, v.Range) {
			continue
		}

		var sb strings.Builder
		if v.IsRef {
			fmt.Fprintf(&sb, "**%s**\n\n", extractText(content, v.Range))
		}
		if v.Color != nil {
			fmt.Fprintf(&sb, "`%s`\n\n", v.Color.String())
		}
		for _, b := range v.Bindings {
			writeBinding(&sb, b, themeOrder(result))
		}

		md := strings.TrimRight(sb.String(), "\n")
		if md == "" {
			md = fmt.Sprintf("`%s`", v.Node.String())
		}

		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: md,
			},
			Range: &v.Range,
		}
	}

	return nil
}

// themeOrder lists the themes a binding can have values for, the default
// theme first.
func themeOrder(result *AnalysisResult) []string {
	var themes []preset.Theme
	if result.Config != nil {
		themes = result.Config.Themes
	}
	themes = preset.EnsureDefault(themes)

	names := make([]string, 0, len(themes))
	for _, t := range themes {
		names = append(names, t.Name)
	}
	return names
}

func writeBinding(sb *strings.Builder, b *preset.Binding, themes []string) {
	fmt.Fprintf(sb, "`%s`\n\n", b.Name)
	sb.WriteString("| theme | value |\n|---|---|\n")
	for _, name := range themes {
		v, ok := b.Value(name)
		if !ok {
			fmt.Fprintf(sb, "| %s | _unset_ |\n", name)
			continue
		}
		fmt.Fprintf(sb, "| %s | `%s` |\n", name, v)
	}
	sb.WriteString("\n")
}

// textDocumentHover handles textDocument/hover requests.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := string(params.TextDocument.URI)

	doc, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	return hover(doc.Result, doc.Content, params.Position), nil
}
