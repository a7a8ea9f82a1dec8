// Package themevars generates CSS custom properties from a set of named
// themes and the utility CSS that references them.
package themevars

import (
	"context"
	"fmt"
	"strings"

	"github.com/jsvensson/themevars/internal/config"
	"github.com/jsvensson/themevars/internal/generator"
	"github.com/jsvensson/themevars/internal/preset"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("themevars")

// Project is a loaded configuration wired to a generator.
type Project struct {
	Config *config.Config

	preset    *preset.ThemePreset
	generator *generator.Generator
}

// Variable is one generated custom property and the value each theme binds.
type Variable struct {
	Name     string
	Category string
	Path     string
	// Values is keyed by theme name. Themes without a value are absent.
	Values map[string]string
}

// Load reads a config file and returns a Project ready to generate CSS.
func Load(path string) (*Project, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return New(cfg), nil
}

// New wires cfg to a generator carrying the basic utility rules and the
// theme preset.
func New(cfg *config.Config) *Project {
	p := preset.New(cfg.PresetOptions())
	return &Project{
		Config:    cfg,
		preset:    p,
		generator: generator.New(cfg.Base, generator.BasicPreset(), p.Preset()),
	}
}

// Generate renders tokens to CSS, theme variables first. When the config
// enables the used-variable export, Generate returns after the report has
// been written.
func (p *Project) Generate(ctx context.Context, tokens []string) (string, error) {
	res, err := p.generator.Generate(ctx, tokens, generator.Options{Preflights: true})
	if err != nil {
		return "", fmt.Errorf("generating CSS: %w", err)
	}
	p.preset.Wait()

	if len(res.Unmatched) > 0 {
		log.Debugf("%d tokens did not match a rule", len(res.Unmatched))
	}
	return res.CSS, nil
}

// Themes returns the theme names in binding order, the default theme first.
func (p *Project) Themes() []string {
	return p.preset.Result().Themes
}

// Variables returns every custom property the config defines, in the order
// the theme leaves are walked.
func (p *Project) Variables() []Variable {
	bindings := p.preset.Result().Registry.Bindings()
	out := make([]Variable, 0, len(bindings))
	for _, b := range bindings {
		v := Variable{
			Name:     b.Name,
			Category: b.Path.Category(),
			Path:     b.Path.String(),
			Values:   make(map[string]string, len(b.PerTheme)),
		}
		for theme, d := range b.PerTheme {
			v.Values[theme] = d.Value
		}
		out = append(out, v)
	}
	return out
}

// ExtractTokens splits markup or source text into candidate utility tokens.
// Anything between whitespace, quotes, backticks and angle brackets counts;
// the generator ignores what it cannot match.
func ExtractTokens(src string) []string {
	fields := strings.FieldsFunc(src, func(r rune) bool {
		switch r {
		case '"', '\'', '`', '<', '>', '{', '}', '=', ';':
			return true
		}
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}
