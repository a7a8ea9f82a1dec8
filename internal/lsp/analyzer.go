package lsp

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/jsvensson/themevars/internal/color"
	"github.com/jsvensson/themevars/internal/config"
	"github.com/jsvensson/themevars/internal/preset"
	"github.com/jsvensson/themevars/internal/tree"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const diagSource = "themevars"

var (
	DiagError   = protocol.DiagnosticSeverityError
	DiagWarning = protocol.DiagnosticSeverityWarning
)

// AnalysisResult holds all information produced by analyzing a theme file.
type AnalysisResult struct {
	Diagnostics []protocol.Diagnostic
	Config      *config.Config
	Palette     *tree.Node
	Symbols     map[string]protocol.Range // "palette.red", "palette.blues.light" -> definition range
	Values      []ValueLocation
}

// ValueLocation records a value defined at a specific source position.
type ValueLocation struct {
	Range protocol.Range
	Scope string
	Path  []string
	Node  *tree.Node
	// Color is set when the value is a single CSS color.
	Color *color.Color
	IsRef bool // true if the value is written as a palette reference
	// Bindings holds one binding per variable the value feeds: one for a
	// scalar, one per element for a sequence. Empty for palette entries.
	Bindings []*preset.Binding
}

// hclPosToLSP converts an HCL position to an LSP position.
// HCL positions are 1-based; LSP positions are 0-based.
func hclPosToLSP(pos hcl.Pos) protocol.Position {
	return protocol.Position{
		Line:      uint32(pos.Line - 1),
		Character: uint32(pos.Column - 1),
	}
}

// hclRangeToLSP converts an HCL range to an LSP range.
func hclRangeToLSP(r hcl.Range) protocol.Range {
	return protocol.Range{
		Start: hclPosToLSP(r.Start),
		End:   hclPosToLSP(r.End),
	}
}

// Analyze parses HCL content from memory and produces diagnostics, a symbol
// table and the location of every value together with the variables it
// binds. It collects all errors rather than stopping at the first.
func Analyze(filename, content string) *AnalysisResult {
	result := &AnalysisResult{
		Symbols: make(map[string]protocol.Range),
	}

	cfg, diags := config.Parse([]byte(content), filename)
	for _, d := range diags {
		result.Diagnostics = append(result.Diagnostics, hclDiagToLSP(d))
	}
	if cfg == nil {
		// Cannot proceed with semantic analysis if syntax is broken
		return result
	}
	result.Config = cfg
	result.Palette = cfg.Palette

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = preset.DefaultPrefix
	}
	flat := preset.Flatten(cfg.Base, cfg.Themes, prefix)

	for _, leaf := range cfg.Leaves {
		loc := ValueLocation{
			Range: hclRangeToLSP(leaf.Range),
			Scope: leaf.Scope,
			Path:  leaf.Path,
			Node:  leaf.Node,
			IsRef: strings.HasPrefix(sourceText(content, leaf.Range), "palette."),
		}
		if leaf.Node.Kind == tree.Scalar {
			if c, ok := color.Parse(leaf.Node.Value); ok {
				loc.Color = &c
			}
		}

		if leaf.Scope == "palette" {
			result.Symbols["palette."+strings.Join(leaf.Path, ".")] = loc.Range
		} else {
			loc.Bindings = bindingsFor(flat.Registry, prefix, leaf)
			result.checkColor(leaf, loc)
		}

		result.Values = append(result.Values, loc)
	}

	result.checkSelectors(cfg, filename)
	return result
}

// bindingsFor looks up the bindings a leaf feeds.
func bindingsFor(reg *preset.Registry, prefix string, leaf config.Leaf) []*preset.Binding {
	var paths []preset.KeyPath
	if leaf.Node.Kind == tree.Sequence {
		for i := range leaf.Node.Items {
			paths = append(paths, preset.KeyPath{Segments: leaf.Path, Index: i, Indexed: true})
		}
	} else {
		paths = append(paths, preset.KeyPath{Segments: leaf.Path})
	}

	var out []*preset.Binding
	for _, p := range paths {
		if b, ok := reg.Get(preset.VariableName(prefix, p)); ok {
			out = append(out, b)
		}
	}
	return out
}

// checkColor warns about values under colors that look like a color but do
// not parse; they are emitted as plain values.
func (r *AnalysisResult) checkColor(leaf config.Leaf, loc ValueLocation) {
	if len(leaf.Path) == 0 || leaf.Path[0] != preset.ColorCategory || leaf.Node.Kind != tree.Scalar {
		return
	}
	if loc.Color == nil && strings.HasPrefix(leaf.Node.Value, "#") {
		r.addWarning(leaf.Range, fmt.Sprintf("%s: %q is not a valid CSS color and will be emitted as a plain value",
			strings.Join(leaf.Path, "."), leaf.Node.Value))
	}
}

// checkSelectors warns about selector overrides for themes that do not exist.
func (r *AnalysisResult) checkSelectors(cfg *config.Config, filename string) {
	for name := range cfg.Selectors {
		if name == preset.DefaultTheme {
			continue
		}
		if _, ok := cfg.Theme(name); ok {
			continue
		}
		r.addWarning(hcl.Range{
			Filename: filename,
			Start:    hcl.Pos{Line: 1, Column: 1},
			End:      hcl.Pos{Line: 1, Column: 1},
		}, fmt.Sprintf("selector override for unknown theme %q", name))
	}
}

// hclDiagToLSP converts an HCL diagnostic to an LSP diagnostic.
func hclDiagToLSP(d *hcl.Diagnostic) protocol.Diagnostic {
	sev := DiagError
	if d.Severity == hcl.DiagWarning {
		sev = DiagWarning
	}

	diag := protocol.Diagnostic{
		Severity: &sev,
		Message:  d.Summary,
		Source:   strPtr(diagSource),
	}

	if d.Detail != "" {
		diag.Message = d.Summary + ": " + d.Detail
	}

	if d.Subject != nil {
		diag.Range = hclRangeToLSP(*d.Subject)
	}

	return diag
}

// addWarning adds a warning-level diagnostic at the given range.
func (r *AnalysisResult) addWarning(rng hcl.Range, msg string) {
	r.Diagnostics = append(r.Diagnostics, protocol.Diagnostic{
		Range:    hclRangeToLSP(rng),
		Severity: &DiagWarning,
		Source:   strPtr(diagSource),
		Message:  msg,
	})
}

// sourceText returns the bytes of content covered by rng.
func sourceText(content string, rng hcl.Range) string {
	start, end := rng.Start.Byte, rng.End.Byte
	if start < 0 || end > len(content) || start > end {
		return ""
	}
	return content[start:end]
}

func strPtr(s string) *string {
	return &s
}
