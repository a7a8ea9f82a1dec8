package config

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jsvensson/themevars/internal/preset"
	"github.com/jsvensson/themevars/internal/tree"
	"github.com/pelletier/go-toml/v2"
)

// tomlConfig mirrors the HCL layout. Themes are tables under [themes.<name>].
type tomlConfig struct {
	Prefix    string                    `toml:"prefix"`
	Export    Export                    `toml:"export"`
	Selectors map[string]string         `toml:"selectors"`
	Base      map[string]any            `toml:"base"`
	Themes    map[string]map[string]any `toml:"themes"`
}

// ParseTOML decodes a TOML configuration. TOML tables carry no key order, so
// keys are sorted and the default theme comes first, followed by the other
// themes by name.
func ParseTOML(src []byte) (*Config, error) {
	var raw tomlConfig
	if err := toml.Unmarshal(src, &raw); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}

	if err := validatePrefix(raw.Prefix); err != nil {
		return nil, err
	}

	cfg := newConfig()
	cfg.Prefix = raw.Prefix
	cfg.Export = raw.Export
	for k, v := range raw.Selectors {
		cfg.Selectors[k] = v
	}

	base, err := mapToNode(raw.Base)
	if err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	cfg.Base = base

	names := make([]string, 0, len(raw.Themes))
	for name := range raw.Themes {
		if err := validateThemeName(name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if (names[i] == preset.DefaultTheme) != (names[j] == preset.DefaultTheme) {
			return names[i] == preset.DefaultTheme
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		node, err := mapToNode(raw.Themes[name])
		if err != nil {
			return nil, fmt.Errorf("themes.%s: %w", name, err)
		}
		cfg.Themes = append(cfg.Themes, preset.Theme{Name: name, Tree: node})
	}

	return cfg, nil
}

func mapToNode(m map[string]any) (*tree.Node, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	node := tree.NewMapping()
	for _, k := range keys {
		child, err := anyToNode(m[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		node.Set(k, child)
	}
	return node, nil
}

func anyToNode(v any) (*tree.Node, error) {
	switch v := v.(type) {
	case map[string]any:
		return mapToNode(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, elem := range v {
			s, ok := scalarString(elem)
			if !ok {
				return nil, fmt.Errorf("arrays may only hold strings, numbers and bools, got %T", elem)
			}
			items = append(items, s)
		}
		return tree.NewSequence(items...), nil
	}

	s, ok := scalarString(v)
	if !ok {
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
	return tree.NewScalar(s), nil
}

func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}
