package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/jsvensson/themevars/internal/color"
	"github.com/jsvensson/themevars/internal/tree"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// buildEvalContext creates an HCL evaluation context with palette variables
// and brighten/darken functions. A nil palette exposes only the functions.
func buildEvalContext(palette *tree.Node) *hcl.EvalContext {
	ctx := &hcl.EvalContext{
		Functions: map[string]function.Function{
			"brighten": makeLightnessFunc("Brightens a color by the given amount (0.0 to 1.0)", color.Brighten),
			"darken":   makeLightnessFunc("Darkens a color by the given amount (0.0 to 1.0)", color.Darken),
		},
	}
	if palette != nil {
		ctx.Variables = map[string]cty.Value{
			"palette": nodeToCty(palette),
		}
	}
	return ctx
}

// nodeToCty converts a tree to a cty value. Scalars become strings,
// sequences tuples of strings and mappings objects.
func nodeToCty(node *tree.Node) cty.Value {
	switch node.Kind {
	case tree.Scalar:
		return cty.StringVal(node.Value)
	case tree.Sequence:
		if len(node.Items) == 0 {
			return cty.EmptyTupleVal
		}
		vals := make([]cty.Value, len(node.Items))
		for i, item := range node.Items {
			vals[i] = cty.StringVal(item)
		}
		return cty.TupleVal(vals)
	}

	keys := node.Keys()
	if len(keys) == 0 {
		return cty.EmptyObjectVal
	}
	vals := make(map[string]cty.Value, len(keys))
	for _, k := range keys {
		child, _ := node.Get(k)
		vals[k] = nodeToCty(child)
	}
	return cty.ObjectVal(vals)
}

// makeLightnessFunc wraps a color adjustment as an HCL function.
// Usage: brighten("#hex", 0.1) or darken(palette.color, 0.1)
func makeLightnessFunc(description string, adjust func(string, float64) (string, error)) function.Function {
	return function.New(&function.Spec{
		Description: description,
		Params: []function.Parameter{
			{
				Name: "color",
				Type: cty.String,
			},
			{
				Name: "amount",
				Type: cty.Number,
			},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			amount, _ := args[1].AsBigFloat().Float64()

			out, err := adjust(args[0].AsString(), amount)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(out), nil
		},
	})
}
