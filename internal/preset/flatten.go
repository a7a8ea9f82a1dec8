package preset

import (
	"fmt"

	"github.com/jsvensson/themevars/internal/color"
	"github.com/jsvensson/themevars/internal/tree"
)

// DefaultTheme is the theme that falls back to the base tree and binds to the
// root scope.
const DefaultTheme = "light"

// Theme is a named theme tree.
type Theme struct {
	Name string
	Tree *tree.Node
}

// FlattenResult is the output of Flatten.
type FlattenResult struct {
	// Theme is the merged theme with every leaf replaced by a reference.
	Theme *tree.Node
	// Registry holds one binding per leaf.
	Registry *Registry
	// BackgroundImages holds the references rewritten from url() leaves.
	BackgroundImages map[string]bool
	// Themes lists the theme names in binding order, default theme included.
	Themes []string
}

// EnsureDefault returns themes with an empty default theme prepended when
// none of them is named DefaultTheme.
func EnsureDefault(themes []Theme) []Theme {
	for _, t := range themes {
		if t.Name == DefaultTheme {
			return themes
		}
	}
	return append([]Theme{{Name: DefaultTheme, Tree: tree.NewMapping()}}, themes...)
}

type flattener struct {
	prefix string
	base   *tree.Node
	themes []Theme
	result *FlattenResult
}

// Flatten merges base and every theme, then walks the merged tree depth first
// and binds each leaf to a variable. Neither base nor the theme trees are
// modified.
func Flatten(base *tree.Node, themes []Theme, prefix string) *FlattenResult {
	if base == nil {
		base = tree.NewMapping()
	}
	themes = EnsureDefault(themes)

	trees := []*tree.Node{base}
	names := make([]string, 0, len(themes))
	for _, t := range themes {
		trees = append(trees, t.Tree)
		names = append(names, t.Name)
	}

	f := &flattener{
		prefix: prefix,
		base:   base,
		themes: themes,
		result: &FlattenResult{
			Registry:         NewRegistry(),
			BackgroundImages: make(map[string]bool),
			Themes:           names,
		},
	}
	f.result.Theme = f.walk(tree.Merge(trees...), KeyPath{})
	return f.result
}

func (f *flattener) walk(node *tree.Node, path KeyPath) *tree.Node {
	switch node.Kind {
	case tree.Sequence:
		items := make([]string, len(node.Items))
		for i, item := range node.Items {
			items[i] = f.bind(item, path.element(i))
		}
		return tree.NewSequence(items...)
	case tree.Scalar:
		return tree.NewScalar(f.bind(node.Value, path))
	}

	out := tree.NewMapping()
	for _, key := range node.Keys() {
		child, _ := node.Get(key)
		out.Set(key, f.walk(child, path.child(key)))
	}
	return out
}

// bind registers every theme's value for the leaf at path and returns the
// reference that replaces the leaf.
func (f *flattener) bind(value string, path KeyPath) string {
	name := VariableName(f.prefix, path)
	cls := Classify(value, path)
	b := f.result.Registry.ensure(name, path)

	for _, t := range f.themes {
		v, ok := f.resolve(t, path)
		if !ok {
			continue
		}
		if cls.Kind == Color {
			if c, ok := color.Parse(v); ok {
				v = c.Joined()
			}
		}
		b.set(t.Name, v)
	}

	switch cls.Kind {
	case Color:
		return fmt.Sprintf("%s(%s, %s)", cls.Color.Type, Reference(name), cls.Color.AlphaOr("1"))
	case BackgroundImage:
		ref := Reference(name)
		f.result.BackgroundImages[ref] = true
		return ref
	default:
		return Reference(name)
	}
}

// resolve looks up path in the theme's own tree. Only the default theme
// falls back to the base tree.
func (f *flattener) resolve(t Theme, path KeyPath) (string, bool) {
	if t.Tree != nil {
		if v, ok := t.Tree.Leaf(path.Segments, path.LeafIndex()); ok {
			return v, true
		}
	}
	if t.Name == DefaultTheme {
		return f.base.Leaf(path.Segments, path.LeafIndex())
	}
	return "", false
}
