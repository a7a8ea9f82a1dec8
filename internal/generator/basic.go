package generator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jsvensson/themevars/internal/tree"
)

// themeRule binds a utility prefix to a theme category and CSS property.
type themeRule struct {
	prefix   string
	category string
	property string
}

var basicRules = []themeRule{
	{"text", "colors", "color"},
	{"bg", "colors", "background-color"},
	{"border", "colors", "border-color"},
	{"font", "fontFamily", "font-family"},
	{"p", "spacing", "padding"},
	{"m", "spacing", "margin"},
	{"rounded", "borderRadius", "border-radius"},
	{"shadow", "boxShadow", "box-shadow"},
}

var defaultBreakpoints = map[string]string{
	"sm": "640px",
	"md": "768px",
	"lg": "1024px",
	"xl": "1280px",
}

// BasicPreset returns a small utility set that reads values from the theme:
// text-*, bg-*, border-*, font-*, p-*, m-*, rounded-* and shadow-*, plus
// hover:, focus: and breakpoint variants.
func BasicPreset() *Preset {
	p := &Preset{Name: "basic"}

	for _, r := range basicRules {
		p.Rules = append(p.Rules, Rule{
			Pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(r.prefix) + `-(.+)$`),
			Resolve: func(match []string, rc *RuleContext) []Entry {
				category, ok := rc.Theme.Get(r.category)
				if !ok {
					return nil
				}
				v, ok := LookupValue(category, strings.Split(match[1], "-"))
				if !ok {
					return nil
				}
				return []Entry{{Property: r.property, Value: v}}
			},
		})
	}

	for _, pseudo := range []string{"hover", "focus"} {
		prefix := pseudo + ":"
		p.Variants = append(p.Variants, Variant{
			Name: pseudo,
			Match: func(token string) (VariantMatch, bool) {
				if !strings.HasPrefix(token, prefix) {
					return VariantMatch{}, false
				}
				return VariantMatch{
					Body: strings.TrimPrefix(token, prefix),
					Selector: func(s string) string {
						return s + ":" + pseudo
					},
				}, true
			},
		})
	}

	p.Variants = append(p.Variants, Variant{
		Name:  "breakpoints",
		Match: matchBreakpoint,
	})

	return p
}

// BasicCategories returns the theme categories BasicPreset reads, in rule
// order without duplicates.
func BasicCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range basicRules {
		if !seen[r.category] {
			seen[r.category] = true
			out = append(out, r.category)
		}
	}
	return out
}

func matchBreakpoint(token string) (VariantMatch, bool) {
	name, rest, found := strings.Cut(token, ":")
	if !found {
		return VariantMatch{}, false
	}
	width, ok := defaultBreakpoints[name]
	if !ok {
		return VariantMatch{}, false
	}
	return VariantMatch{
		Body:   rest,
		Parent: "@media (min-width: " + width + ")",
	}, true
}

// LookupValue resolves dash-separated parts against a theme subtree. Keys may
// themselves contain dashes, so the longest matching key wins at each level.
// A trailing number indexes into a sequence, a sequence without an index
// renders as a comma-separated list, and a mapping resolves to its DEFAULT
// key.
func LookupValue(node *tree.Node, parts []string) (string, bool) {
	if len(parts) == 0 {
		switch node.Kind {
		case tree.Scalar:
			return node.Value, true
		case tree.Sequence:
			return strings.Join(node.Items, ", "), true
		default:
			if def, ok := node.Get("DEFAULT"); ok && def.IsLeaf() {
				return LookupValue(def, nil)
			}
			return "", false
		}
	}

	if node.Kind == tree.Sequence && len(parts) == 1 {
		idx, err := strconv.Atoi(parts[0])
		if err != nil || idx < 0 || idx >= len(node.Items) {
			return "", false
		}
		return node.Items[idx], true
	}

	if node.Kind != tree.Mapping {
		return "", false
	}

	for i := len(parts); i > 0; i-- {
		child, ok := node.Get(strings.Join(parts[:i], "-"))
		if !ok {
			continue
		}
		if v, ok := LookupValue(child, parts[i:]); ok {
			return v, true
		}
	}
	return "", false
}
