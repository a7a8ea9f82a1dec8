// Package config loads theme configuration files. HCL files may declare a
// palette and reference it from the base tree and the named themes; TOML
// files carry the same settings as plain tables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/jsvensson/themevars/internal/preset"
	"github.com/jsvensson/themevars/internal/tree"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("themevars.config")

// themeNameRE restricts theme names to what can appear in a class selector
// and a synthetic theme token.
var themeNameRE = regexp.MustCompile(`^[\w-]+$`)

// Config is a fully-resolved theme configuration.
type Config struct {
	Prefix    string
	Export    Export
	Selectors map[string]string
	Palette   *tree.Node
	Base      *tree.Node
	Themes    []preset.Theme

	// Leaves records where each base and theme value was defined. Only HCL
	// sources carry positions.
	Leaves []Leaf
}

// Export controls the used-variable side file.
type Export struct {
	Enabled bool   `hcl:"enabled,optional" toml:"enabled"`
	Path    string `hcl:"path,optional" toml:"path"`
}

// Leaf is a value defined in the source, with its position.
type Leaf struct {
	// Scope is "palette", "base" or the theme name.
	Scope string
	Path  []string
	Node  *tree.Node
	Range hcl.Range
}

func newConfig() *Config {
	return &Config{
		Selectors: make(map[string]string),
		Palette:   tree.NewMapping(),
		Base:      tree.NewMapping(),
	}
}

// Load reads a configuration file. Files ending in .toml are read as TOML,
// everything else as HCL.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		cfg, err = ParseTOML(src)
		if err != nil {
			return nil, err
		}
	} else {
		var diags hcl.Diagnostics
		cfg, diags = Parse(src, path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
		}
	}

	log.Debugf("loaded %d themes from %s", len(cfg.Themes), path)
	return cfg, nil
}

// Theme returns the theme named name.
func (c *Config) Theme(name string) (preset.Theme, bool) {
	for _, t := range c.Themes {
		if t.Name == name {
			return t, true
		}
	}
	return preset.Theme{}, false
}

// PresetOptions returns the theme preset options described by the config.
func (c *Config) PresetOptions() preset.Options {
	return preset.Options{
		Themes:     c.Themes,
		Prefix:     c.Prefix,
		Selectors:  c.Selectors,
		ExportUsed: c.Export.Enabled,
		ExportPath: c.Export.Path,
	}
}

// validatePrefix accepts an empty prefix, which selects the default.
func validatePrefix(prefix string) error {
	if prefix != "" && !strings.HasPrefix(prefix, "--") {
		return fmt.Errorf("invalid prefix %q: custom properties must start with \"--\"", prefix)
	}
	return nil
}

func validateThemeName(name string) error {
	if !themeNameRE.MatchString(name) {
		return fmt.Errorf("invalid theme name %q: use letters, digits, '_' and '-'", name)
	}
	return nil
}
