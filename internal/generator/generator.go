// Package generator renders utility tokens to CSS. Presets register rules,
// variants, layers, preflights and post-processors; the generator matches
// tokens against them and assembles layered CSS output.
package generator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jsvensson/themevars/internal/tree"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("themevars.generator")

// Generator turns tokens into CSS using a fixed set of presets.
type Generator struct {
	presets []*Preset
	theme   *tree.Node
	layers  map[string]int

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// nestedKey marks the context of generations started by a preflight.
type nestedKey struct{}

type cacheEntry struct {
	utility Utility
	ok      bool
}

// New builds a generator. Each preset's ExtendTheme runs in order over theme,
// so later presets see the theme as rewritten by earlier ones.
func New(theme *tree.Node, presets ...*Preset) *Generator {
	if theme == nil {
		theme = tree.NewMapping()
	}

	g := &Generator{
		presets: presets,
		layers:  map[string]int{DefaultLayer: 0},
		cache:   make(map[string]cacheEntry),
	}

	for _, p := range presets {
		if p.ExtendTheme != nil {
			theme = p.ExtendTheme(theme)
		}
		for name, order := range p.Layers {
			g.layers[name] = order
		}
	}
	g.theme = theme

	return g
}

// Theme returns the theme after all presets extended it.
func (g *Generator) Theme() *tree.Node {
	return g.theme
}

// LayerOrder returns the sort order of a layer. Unknown layers sort with the
// default layer.
func (g *Generator) LayerOrder(name string) int {
	if order, ok := g.layers[name]; ok {
		return order
	}
	return g.layers[DefaultLayer]
}

// Generate renders tokens to CSS. Every top-level generation first runs each
// preset's Prepare hook; generations started from inside a preflight do not.
// With opts.Preflights set, preflight CSS is included in the result.
func (g *Generator) Generate(ctx context.Context, tokens []string, opts Options) (*Result, error) {
	if ctx.Value(nestedKey{}) == nil {
		for _, p := range g.presets {
			if p.Prepare != nil {
				p.Prepare()
			}
		}
	}

	result := &Result{}
	seen := make(map[string]bool, len(tokens))

	for _, token := range tokens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		token = strings.TrimSpace(token)
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true

		u, ok := g.match(token)
		if !ok {
			log.Debugf("no rule matched %q", token)
			result.Unmatched = append(result.Unmatched, token)
			continue
		}

		for _, p := range g.presets {
			for _, post := range p.Postprocess {
				post(&u)
			}
		}

		result.Matched = append(result.Matched, token)
		result.Blocks = append(result.Blocks, Block(u))
	}

	preflights := make(map[string][]string)
	if opts.Preflights {
		pc := &PreflightContext{Generator: g, Theme: g.theme}
		ctx := context.WithValue(ctx, nestedKey{}, true)
		for _, p := range g.presets {
			for _, pf := range p.Preflights {
				css, err := pf.GetCSS(ctx, pc)
				if err != nil {
					return nil, fmt.Errorf("preflight for preset %s: %w", p.Name, err)
				}
				if strings.TrimSpace(css) == "" {
					continue
				}
				layer := pf.Layer
				if layer == "" {
					layer = DefaultLayer
				}
				preflights[layer] = append(preflights[layer], strings.TrimSpace(css))
			}
		}
	}

	result.Layers = g.assemble(result.Blocks, preflights)

	var sb strings.Builder
	for _, l := range result.Layers {
		fmt.Fprintf(&sb, "/* layer: %s */\n", l.Name)
		sb.WriteString(l.CSS)
	}
	result.CSS = sb.String()

	return result, nil
}

// assemble groups preflight CSS and blocks per layer and orders the layers.
func (g *Generator) assemble(blocks []Block, preflights map[string][]string) []LayerOutput {
	byLayer := make(map[string][]Block)
	names := make(map[string]bool)
	for _, b := range blocks {
		byLayer[b.Layer] = append(byLayer[b.Layer], b)
		names[b.Layer] = true
	}
	for name := range preflights {
		names[name] = true
	}

	ordered := make([]string, 0, len(names))
	for name := range names {
		ordered = append(ordered, name)
	}
	sort.Slice(ordered, func(i, j int) bool {
		oi, oj := g.LayerOrder(ordered[i]), g.LayerOrder(ordered[j])
		if oi != oj {
			return oi < oj
		}
		return ordered[i] < ordered[j]
	})

	layers := make([]LayerOutput, 0, len(ordered))
	for _, name := range ordered {
		var sb strings.Builder
		for _, css := range preflights[name] {
			sb.WriteString(css)
			sb.WriteString("\n")
		}
		for _, b := range byLayer[name] {
			sb.WriteString(FormatBlock(b.Parent, b.Selector, b.Entries))
			sb.WriteString("\n")
		}
		layers = append(layers, LayerOutput{
			Name:  name,
			Order: g.LayerOrder(name),
			CSS:   sb.String(),
		})
	}
	return layers
}

// match resolves a token to a utility, consulting the cache first. The
// returned utility is a private copy the caller may modify.
func (g *Generator) match(token string) (Utility, bool) {
	g.mu.Lock()
	cached, hit := g.cache[token]
	g.mu.Unlock()
	if hit {
		if !cached.ok {
			return Utility{}, false
		}
		return cached.utility.clone(), true
	}

	u, ok, volatile := g.resolve(token)
	if !volatile {
		g.mu.Lock()
		g.cache[token] = cacheEntry{utility: u.clone(), ok: ok}
		g.mu.Unlock()
	}
	return u, ok
}

func (g *Generator) resolve(token string) (Utility, bool, bool) {
	body := token
	var matches []VariantMatch
	applied := make(map[string]bool)

	for {
		progressed := false
		for pi, p := range g.presets {
			for vi, v := range p.Variants {
				key := fmt.Sprintf("%d/%d", pi, vi)
				if applied[key] {
					continue
				}
				vm, ok := v.Match(body)
				if !ok {
					continue
				}
				applied[key] = true
				matches = append(matches, vm)
				body = vm.Body
				progressed = true
				break
			}
			if progressed {
				break
			}
		}
		if !progressed {
			break
		}
	}

	rc := &RuleContext{Token: token, Theme: g.theme}
	for _, p := range g.presets {
		for _, rule := range p.Rules {
			m := rule.Pattern.FindStringSubmatch(body)
			if m == nil {
				continue
			}
			entries := rule.Resolve(m, rc)
			if len(entries) == 0 {
				continue
			}

			u := Utility{
				Token:    token,
				Layer:    rule.Layer,
				Selector: "." + EscapeSelector(token),
				Entries:  entries,
			}
			if u.Layer == "" {
				u.Layer = DefaultLayer
			}
			for _, vm := range matches {
				if vm.Selector != nil {
					u.Selector = vm.Selector(u.Selector)
				}
				if vm.Parent != "" {
					u.Parent = vm.Parent
				}
			}
			return u, true, rule.Volatile
		}
	}

	return Utility{}, false, false
}

func (u Utility) clone() Utility {
	u.Entries = append([]Entry(nil), u.Entries...)
	return u
}

// FormatBlock serializes declarations as "selector{prop:value;}", wrapped in
// "parent{...}" when parent is set.
func FormatBlock(parent, selector string, entries []Entry) string {
	var sb strings.Builder
	if parent != "" {
		sb.WriteString(parent)
		sb.WriteString("{")
	}
	sb.WriteString(selector)
	sb.WriteString("{")
	for _, e := range entries {
		sb.WriteString(e.Property)
		sb.WriteString(":")
		sb.WriteString(e.Value)
		sb.WriteString(";")
	}
	sb.WriteString("}")
	if parent != "" {
		sb.WriteString("}")
	}
	return sb.String()
}

// EscapeSelector escapes a token for use as a CSS class name.
func EscapeSelector(token string) string {
	var sb strings.Builder
	for i, r := range token {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-', r >= 0x80:
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				fmt.Fprintf(&sb, "\\3%c ", r)
			} else {
				sb.WriteRune(r)
			}
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
