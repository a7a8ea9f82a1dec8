package config

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/themevars/internal/preset"
	"github.com/jsvensson/themevars/internal/tree"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// bodyBlock wraps a block whose contents are walked manually.
type bodyBlock struct {
	Entries hcl.Body `hcl:",remain"`
}

// rawConfig captures the palette block first (no EvalContext needed).
type rawConfig struct {
	Palette *bodyBlock `hcl:"palette,block"`
	Remain  hcl.Body   `hcl:",remain"`
}

type themeBlock struct {
	Name    string   `hcl:"name,label"`
	Entries hcl.Body `hcl:",remain"`
}

// resolvedConfig decodes everything that may reference the palette. It has
// no remain field so unknown blocks and attributes are reported.
type resolvedConfig struct {
	Prefix    string       `hcl:"prefix,optional"`
	Export    *Export      `hcl:"export,block"`
	Selectors *bodyBlock   `hcl:"selectors,block"`
	Palette   *bodyBlock   `hcl:"palette,block"`
	Base      *bodyBlock   `hcl:"base,block"`
	Themes    []themeBlock `hcl:"theme,block"`
}

// Parse decodes HCL source. It keeps going after errors so the returned
// diagnostics cover the whole file; the config is nil only when the source
// does not parse at all.
func Parse(src []byte, filename string) (*Config, hcl.Diagnostics) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, diags
	}

	cfg := newConfig()

	// First pass: the palette holds literals and may only call functions.
	// Decode problems here are reported again by the second pass.
	var raw rawConfig
	gohcl.DecodeBody(file.Body, nil, &raw)
	if raw.Palette != nil {
		if body, ok := raw.Palette.Entries.(*hclsyntax.Body); ok {
			d := &decoder{ctx: buildEvalContext(nil), leaves: &cfg.Leaves, scope: "palette"}
			cfg.Palette, diags = d.appendBody(diags, body, nil)
		}
	}

	// Second pass: everything else sees the palette.
	ctx := buildEvalContext(cfg.Palette)
	var resolved resolvedConfig
	diags = append(diags, gohcl.DecodeBody(file.Body, ctx, &resolved)...)

	cfg.Prefix = resolved.Prefix
	if err := validatePrefix(cfg.Prefix); err != nil {
		body := file.Body.(*hclsyntax.Body)
		rng := body.SrcRange
		if attr, ok := body.Attributes["prefix"]; ok {
			rng = attr.SrcRange
		}
		diags = append(diags, errorDiag(rng, "Invalid prefix", err.Error()))
		cfg.Prefix = ""
	}
	if resolved.Export != nil {
		cfg.Export = *resolved.Export
	}
	if resolved.Selectors != nil {
		diags = append(diags, decodeSelectors(resolved.Selectors.Entries, ctx, cfg.Selectors)...)
	}
	if resolved.Base != nil {
		if body, ok := resolved.Base.Entries.(*hclsyntax.Body); ok {
			d := &decoder{ctx: ctx, leaves: &cfg.Leaves, scope: "base"}
			cfg.Base, diags = d.appendBody(diags, body, nil)
		}
	}

	seen := make(map[string]bool)
	for _, tb := range resolved.Themes {
		body, ok := tb.Entries.(*hclsyntax.Body)
		if !ok {
			continue
		}
		rng := body.SrcRange
		if err := validateThemeName(tb.Name); err != nil {
			diags = append(diags, errorDiag(rng, "Invalid theme name", err.Error()))
			continue
		}
		if seen[tb.Name] {
			diags = append(diags, errorDiag(rng, "Duplicate theme", fmt.Sprintf("theme %q is already defined", tb.Name)))
			continue
		}
		seen[tb.Name] = true

		d := &decoder{ctx: ctx, leaves: &cfg.Leaves, scope: tb.Name}
		var node *tree.Node
		node, diags = d.appendBody(diags, body, nil)
		cfg.Themes = append(cfg.Themes, preset.Theme{Name: tb.Name, Tree: node})
	}

	return cfg, diags
}

func decodeSelectors(body hcl.Body, ctx *hcl.EvalContext, dest map[string]string) hcl.Diagnostics {
	attrs, diags := body.JustAttributes()
	for name, attr := range attrs {
		val, d := attr.Expr.Value(ctx)
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}
		if val.IsNull() || val.Type() != cty.String {
			diags = append(diags, errorDiag(attr.Range, "Invalid selector", fmt.Sprintf("selectors.%s must be a string", name)))
			continue
		}
		dest[name] = val.AsString()
	}
	return diags
}

// decoder walks a block body into a tree.
type decoder struct {
	ctx    *hcl.EvalContext
	leaves *[]Leaf
	scope  string
}

// bodyItem is an attribute or a nested block, used to restore source order.
type bodyItem struct {
	offset int
	attr   *hclsyntax.Attribute
	block  *hclsyntax.Block
}

func sortedItems(body *hclsyntax.Body) []bodyItem {
	items := make([]bodyItem, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, bodyItem{offset: attr.SrcRange.Start.Byte, attr: attr})
	}
	for _, block := range body.Blocks {
		items = append(items, bodyItem{offset: block.TypeRange.Start.Byte, block: block})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].offset < items[j].offset })
	return items
}

// appendBody decodes body into a mapping, appending any problems to diags.
// Attributes and blocks keep their source order.
func (d *decoder) appendBody(diags hcl.Diagnostics, body *hclsyntax.Body, path []string) (*tree.Node, hcl.Diagnostics) {
	node := tree.NewMapping()

	for _, item := range sortedItems(body) {
		if item.block != nil {
			b := item.block
			if len(b.Labels) > 0 {
				diags = append(diags, errorDiag(b.LabelRanges[0], "Unexpected label", fmt.Sprintf("block %q takes no labels", b.Type)))
				continue
			}
			if _, dup := node.Get(b.Type); dup {
				diags = append(diags, errorDiag(b.TypeRange, "Duplicate key", fmt.Sprintf("%q is already defined", b.Type)))
				continue
			}
			var child *tree.Node
			child, diags = d.appendBody(diags, b.Body, extend(path, b.Type))
			node.Set(b.Type, child)
			continue
		}

		attr := item.attr
		if _, dup := node.Get(attr.Name); dup {
			diags = append(diags, errorDiag(attr.NameRange, "Duplicate key", fmt.Sprintf("%q is already defined", attr.Name)))
			continue
		}
		val, vd := attr.Expr.Value(d.ctx)
		diags = append(diags, vd...)
		if vd.HasErrors() {
			continue
		}
		child, err := valueToNode(val)
		if err != nil {
			diags = append(diags, errorDiag(attr.Expr.Range(), "Invalid value", fmt.Sprintf("%s: %s", attr.Name, err)))
			continue
		}
		node.Set(attr.Name, child)
		d.record(extend(path, attr.Name), child, attr.Expr.Range())
	}

	return node, diags
}

// record stores the leaves of node, which was defined at rng.
func (d *decoder) record(path []string, node *tree.Node, rng hcl.Range) {
	if node.IsLeaf() {
		*d.leaves = append(*d.leaves, Leaf{Scope: d.scope, Path: path, Node: node, Range: rng})
		return
	}
	for _, key := range node.Keys() {
		child, _ := node.Get(key)
		d.record(extend(path, key), child, rng)
	}
}

// valueToNode converts an evaluated attribute to a tree node. Strings and
// other primitives become scalars, tuples and lists become sequences, and
// objects and maps become mappings with keys in lexical order.
func valueToNode(val cty.Value) (*tree.Node, error) {
	if val.IsNull() {
		return nil, fmt.Errorf("value is null")
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := val.Type()
	switch {
	case ty.IsPrimitiveType():
		s, err := primitiveString(val)
		if err != nil {
			return nil, err
		}
		return tree.NewScalar(s), nil

	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		items := make([]string, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.IsNull() || !elem.Type().IsPrimitiveType() {
				return nil, fmt.Errorf("sequences may only hold strings, numbers and bools")
			}
			s, err := primitiveString(elem)
			if err != nil {
				return nil, err
			}
			items = append(items, s)
		}
		return tree.NewSequence(items...), nil

	case ty.IsObjectType() || ty.IsMapType():
		node := tree.NewMapping()
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			child, err := valueToNode(elem)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key.AsString(), err)
			}
			node.Set(key.AsString(), child)
		}
		return node, nil
	}

	return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
}

func primitiveString(val cty.Value) (string, error) {
	s, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("converting %s to string: %w", val.Type().FriendlyName(), err)
	}
	return s.AsString(), nil
}

func extend(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}

func errorDiag(rng hcl.Range, summary, detail string) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng.Ptr(),
	}
}
