package generator

import (
	"context"
	"regexp"

	"github.com/jsvensson/themevars/internal/tree"
)

// DefaultLayer is the layer utilities land in when a rule names none.
const DefaultLayer = "default"

// Entry is a single CSS declaration.
type Entry struct {
	Property string
	Value    string
}

// Utility is one rendered rule: a selector, an optional wrapping at-rule and
// its declarations. Post-processors receive it by pointer and may rewrite the
// entries in place.
type Utility struct {
	Token    string
	Layer    string
	Parent   string
	Selector string
	Entries  []Entry
}

// RuleContext is passed to rule handlers.
type RuleContext struct {
	Token string
	Theme *tree.Node
}

// Rule maps tokens matching Pattern to declarations.
type Rule struct {
	Pattern *regexp.Regexp
	Layer   string
	// Resolve returns the declarations for the submatches of Pattern.
	// Returning no entries leaves the token unmatched.
	Resolve func(match []string, rc *RuleContext) []Entry
	// Volatile rules are never cached because their output depends on state
	// outside the token.
	Volatile bool
}

// VariantMatch describes how a variant rewrites a token.
type VariantMatch struct {
	// Body is the token left for rule matching.
	Body string
	// Selector rewrites the utility selector. Nil keeps it.
	Selector func(selector string) string
	// Parent wraps the utility in an at-rule, e.g. "@media (min-width: 640px)".
	Parent string
}

// Variant strips a prefix (or otherwise recognizes a token) and scopes the
// resulting utility.
type Variant struct {
	Name  string
	Match func(token string) (VariantMatch, bool)
}

// PreflightContext is passed to preflight handlers.
type PreflightContext struct {
	Generator *Generator
	Theme     *tree.Node
}

// Preflight contributes CSS to a layer independent of the requested tokens.
type Preflight struct {
	Layer  string
	GetCSS func(ctx context.Context, pc *PreflightContext) (string, error)
}

// Preset bundles everything a plugin registers with the generator.
type Preset struct {
	Name     string
	Rules    []Rule
	Variants []Variant
	// Layers maps layer names to their sort order. Lower orders come first.
	Layers      map[string]int
	Preflights  []Preflight
	Postprocess []func(u *Utility)
	// ExtendTheme receives the theme assembled so far and returns the theme
	// later presets and rules see. It runs once, when the generator is built.
	ExtendTheme func(theme *tree.Node) *tree.Node
	// Prepare runs at the start of every top-level generation, whether or not
	// it includes preflights. Generations a preflight starts skip it.
	Prepare func()
}

// Options controls a single generation.
type Options struct {
	// Preflights includes preflight CSS in the result.
	Preflights bool
}

// Block is a rendered utility in output order.
type Block struct {
	Token    string
	Layer    string
	Parent   string
	Selector string
	Entries  []Entry
}

// LayerOutput is the CSS of one layer.
type LayerOutput struct {
	Name  string
	Order int
	CSS   string
}

// Result is the outcome of a generation.
type Result struct {
	CSS       string
	Layers    []LayerOutput
	Blocks    []Block
	Matched   []string
	Unmatched []string
}
