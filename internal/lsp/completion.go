package lsp

import (
	"strings"

	"github.com/jsvensson/themevars/internal/generator"
	"github.com/jsvensson/themevars/internal/tree"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// topLevelSnippets are the valid top-level attributes and blocks.
var topLevelSnippets = []struct {
	label   string
	snippet string
}{
	{"prefix", "prefix = \"$0\""},
	{"export", "export {\n  enabled = ${1:true}\n  path    = \"${2:.themevars/used.json}\"\n}"},
	{"selectors", "selectors {\n  $0\n}"},
	{"palette", "palette {\n  $0\n}"},
	{"base", "base {\n  $0\n}"},
	{"theme", "theme \"${1:dark}\" {\n  $0\n}"},
}

var exportAttributes = []string{"enabled", "path"}

// complete produces completion items given an analysis result, document content,
// and cursor position. This is the core logic, decoupled from the LSP protocol
// handler for testability.
func complete(result *AnalysisResult, content string, pos protocol.Position) []protocol.CompletionItem {
	lines := strings.Split(content, "\n")
	if int(pos.Line) >= len(lines) {
		return nil
	}

	line := lines[pos.Line]
	charPos := min(int(pos.Character), len(line))
	textBeforeCursor := line[:charPos]

	if items := tryPaletteCompletion(result, textBeforeCursor); items != nil {
		return items
	}

	if isValuePosition(textBeforeCursor) {
		return valueCompletions()
	}

	stack := blockStack(lines, int(pos.Line))
	switch {
	case len(stack) == 0:
		return topLevelCompletions()
	case len(stack) == 1 && stack[0] == "export":
		return attributeCompletions(exportAttributes, findDefinedAttributes(lines, int(pos.Line)))
	case len(stack) == 1 && (stack[0] == "base" || stack[0] == "theme"):
		return attributeCompletions(generator.BasicCategories(), findDefinedAttributes(lines, int(pos.Line)))
	}

	return nil
}

// tryPaletteCompletion checks if the text before the cursor ends with a palette
// path prefix (e.g., "palette." or "palette.blues.") and returns completion
// items for the entries at that position in the palette tree.
func tryPaletteCompletion(result *AnalysisResult, textBeforeCursor string) []protocol.CompletionItem {
	if result == nil || result.Palette == nil {
		return nil
	}

	idx := strings.LastIndex(textBeforeCursor, "palette.")
	if idx == -1 {
		return nil
	}

	// "palette.blues.li" walks to "blues"; the client filters "li".
	pathStr := textBeforeCursor[idx+len("palette."):]
	var segments []string
	if i := strings.LastIndex(pathStr, "."); i >= 0 {
		segments = strings.Split(pathStr[:i], ".")
	}

	node := result.Palette
	for _, seg := range segments {
		child, ok := node.Get(seg)
		if !ok || child.IsLeaf() {
			return nil
		}
		node = child
	}

	return nodeChildrenToCompletionItems(node)
}

// nodeChildrenToCompletionItems converts a mapping's entries into completion items.
func nodeChildrenToCompletionItems(node *tree.Node) []protocol.CompletionItem {
	items := []protocol.CompletionItem{}

	for _, name := range node.Keys() {
		child, _ := node.Get(name)
		item := protocol.CompletionItem{Label: name}

		switch child.Kind {
		case tree.Scalar:
			item.Kind = completionKindPtr(protocol.CompletionItemKindColor)
			item.Detail = strPtr(child.Value)
		case tree.Sequence:
			item.Kind = completionKindPtr(protocol.CompletionItemKindValue)
			item.Detail = strPtr(strings.Join(child.Items, ", "))
		default:
			item.Kind = completionKindPtr(protocol.CompletionItemKindModule)
			item.Detail = strPtr("group")
		}

		items = append(items, item)
	}

	return items
}

// isValuePosition returns true if the text before the cursor indicates we are
// at a value position (after an "=" sign with nothing meaningful following it).
func isValuePosition(textBeforeCursor string) bool {
	trimmed := strings.TrimSpace(textBeforeCursor)
	eqIdx := strings.LastIndex(trimmed, "=")
	if eqIdx == -1 {
		return false
	}
	return strings.TrimSpace(trimmed[eqIdx+1:]) == ""
}

// valueCompletions returns completion items for a value position, including
// function snippets and a palette reference trigger.
func valueCompletions() []protocol.CompletionItem {
	snippetFormat := protocol.InsertTextFormatSnippet

	brightenSnippet := "brighten(${1:color}, ${2:0.1})"
	darkenSnippet := "darken(${1:color}, ${2:0.1})"
	paletteSnippet := "palette."

	return []protocol.CompletionItem{
		{
			Label:            "brighten",
			Kind:             completionKindPtr(protocol.CompletionItemKindFunction),
			Detail:           strPtr("brighten(color, amount)"),
			InsertText:       &brightenSnippet,
			InsertTextFormat: &snippetFormat,
		},
		{
			Label:            "darken",
			Kind:             completionKindPtr(protocol.CompletionItemKindFunction),
			Detail:           strPtr("darken(color, amount)"),
			InsertText:       &darkenSnippet,
			InsertTextFormat: &snippetFormat,
		},
		{
			Label:      "palette",
			Kind:       completionKindPtr(protocol.CompletionItemKindVariable),
			Detail:     strPtr("palette reference"),
			InsertText: &paletteSnippet,
		},
	}
}

// blockStack scans from the top of the file down to the cursor line and
// returns the names of the blocks enclosing the cursor, outermost first.
func blockStack(lines []string, cursorLine int) []string {
	var stack []string

	for i := 0; i <= cursorLine && i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		opens := strings.Count(line, "{")
		closes := strings.Count(line, "}")

		if opens > 0 {
			if parts := strings.Fields(line); len(parts) > 0 {
				for range opens {
					stack = append(stack, parts[0])
				}
			}
		}
		for range closes {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return stack
}

// attributeCompletions offers names not yet defined in the current block.
func attributeCompletions(names []string, defined map[string]bool) []protocol.CompletionItem {
	kind := protocol.CompletionItemKindProperty

	var items []protocol.CompletionItem
	for _, name := range names {
		if !defined[name] {
			items = append(items, protocol.CompletionItem{
				Label: name,
				Kind:  &kind,
			})
		}
	}
	return items
}

// findDefinedAttributes scans the current block (from the nearest opening brace
// before cursorLine to cursorLine) and returns the names already defined there,
// either as attributes or as nested blocks.
func findDefinedAttributes(lines []string, cursorLine int) map[string]bool {
	defined := make(map[string]bool)

	startLine := 0
	depth := 0
	for i := cursorLine; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		depth += strings.Count(line, "}") - strings.Count(line, "{")
		if depth < 0 {
			startLine = i + 1
			break
		}
	}

	depth = 0
	for i := startLine; i <= cursorLine; i++ {
		line := strings.TrimSpace(lines[i])
		if depth == 0 {
			if eqIdx := strings.Index(line, "="); eqIdx > 0 {
				name := strings.TrimSpace(line[:eqIdx])
				if !strings.ContainsAny(name, " {") {
					defined[name] = true
				}
			} else if strings.HasSuffix(line, "{") {
				defined[strings.TrimSpace(strings.TrimSuffix(line, "{"))] = true
			}
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
	}

	return defined
}

// topLevelCompletions returns completion items for top-level attributes and blocks.
func topLevelCompletions() []protocol.CompletionItem {
	snippetFormat := protocol.InsertTextFormatSnippet
	kind := protocol.CompletionItemKindSnippet

	items := make([]protocol.CompletionItem, 0, len(topLevelSnippets))
	for _, s := range topLevelSnippets {
		snippet := s.snippet
		items = append(items, protocol.CompletionItem{
			Label:            s.label,
			Kind:             &kind,
			InsertText:       &snippet,
			InsertTextFormat: &snippetFormat,
		})
	}
	return items
}

// completionKindPtr returns a pointer to a CompletionItemKind.
func completionKindPtr(k protocol.CompletionItemKind) *protocol.CompletionItemKind {
	return &k
}

// textDocumentCompletion is the LSP handler for textDocument/completion requests.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	return complete(doc.Result, doc.Content, params.Position), nil
}
