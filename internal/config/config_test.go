package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleHCL = `
prefix = "--t"

export {
  enabled = true
  path    = "out/used.json"
}

selectors {
  dark = "@media (prefers-color-scheme: dark)"
}

palette {
  red = "#ff0000"
  blues {
    light = "#3366ff"
  }
}

base {
  spacing {
    sm = "4px"
    md = 8
  }
  fontFamily {
    sans = ["Inter", "sans-serif"]
  }
}

theme "light" {
  colors {
    primary = palette.red
    accent  = palette.blues.light
  }
}

theme "dark" {
  colors {
    primary = darken(palette.red, 0.2)
    accent  = brighten("#000000", 0.5)
  }
}
`

const sampleTOML = `
prefix = "--t"

[export]
enabled = true
path = "used.toml"

[selectors]
ocean = ".sea"

[base.spacing]
sm = "4px"
md = 8

[base.fontFamily]
sans = ["Inter", "sans-serif"]

[themes.ocean.colors]
primary = "#0000ff"

[themes.light.colors]
primary = "#ff0000"
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func themeStrings(cfg *Config) map[string]string {
	out := make(map[string]string, len(cfg.Themes))
	for _, th := range cfg.Themes {
		out[th.Name] = th.Tree.String()
	}
	return out
}

func themeNames(cfg *Config) []string {
	var names []string
	for _, th := range cfg.Themes {
		names = append(names, th.Name)
	}
	return names
}

func TestLoadHCL(t *testing.T) {
	cfg, err := Load(writeTemp(t, "theme.hcl", sampleHCL))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Prefix != "--t" {
		t.Errorf("Prefix = %q, want %q", cfg.Prefix, "--t")
	}
	if diff := cmp.Diff(Export{Enabled: true, Path: "out/used.json"}, cfg.Export); diff != "" {
		t.Errorf("Export mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"dark": "@media (prefers-color-scheme: dark)"}, cfg.Selectors); diff != "" {
		t.Errorf("Selectors mismatch (-want +got):\n%s", diff)
	}

	wantBase := `{spacing: {sm: "4px", md: "8"}, fontFamily: {sans: ["Inter", "sans-serif"]}}`
	if got := cfg.Base.String(); got != wantBase {
		t.Errorf("Base = %s, want %s", got, wantBase)
	}

	if diff := cmp.Diff([]string{"light", "dark"}, themeNames(cfg)); diff != "" {
		t.Errorf("theme order mismatch (-want +got):\n%s", diff)
	}
	wantThemes := map[string]string{
		"light": `{colors: {primary: "#ff0000", accent: "#3366ff"}}`,
		"dark":  `{colors: {primary: "#990000", accent: "#808080"}}`,
	}
	if diff := cmp.Diff(wantThemes, themeStrings(cfg)); diff != "" {
		t.Errorf("themes mismatch (-want +got):\n%s", diff)
	}

	wantPalette := `{red: "#ff0000", blues: {light: "#3366ff"}}`
	if got := cfg.Palette.String(); got != wantPalette {
		t.Errorf("Palette = %s, want %s", got, wantPalette)
	}
}

func TestLoadTOML(t *testing.T) {
	cfg, err := Load(writeTemp(t, "theme.toml", sampleTOML))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Prefix != "--t" {
		t.Errorf("Prefix = %q, want %q", cfg.Prefix, "--t")
	}
	if diff := cmp.Diff(Export{Enabled: true, Path: "used.toml"}, cfg.Export); diff != "" {
		t.Errorf("Export mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"ocean": ".sea"}, cfg.Selectors); diff != "" {
		t.Errorf("Selectors mismatch (-want +got):\n%s", diff)
	}

	wantBase := `{fontFamily: {sans: ["Inter", "sans-serif"]}, spacing: {md: "8", sm: "4px"}}`
	if got := cfg.Base.String(); got != wantBase {
		t.Errorf("Base = %s, want %s", got, wantBase)
	}
	if diff := cmp.Diff([]string{"light", "ocean"}, themeNames(cfg)); diff != "" {
		t.Errorf("theme order mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Leaves) != 0 {
		t.Errorf("TOML configs carry no leaf positions, got %d", len(cfg.Leaves))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("error = %v, want reading config file", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "duplicate theme",
			src:  "theme \"dark\" {}\ntheme \"dark\" {}\n",
			want: "Duplicate theme",
		},
		{
			name: "invalid theme name",
			src:  "theme \"a b\" {}\n",
			want: "Invalid theme name",
		},
		{
			name: "unknown block",
			src:  "meta {\n  name = \"x\"\n}\n",
			want: "Unsupported block type",
		},
		{
			name: "unknown palette reference",
			src:  "palette {\n  red = \"#ff0000\"\n}\nbase {\n  c = palette.blue\n}\n",
			want: "Unsupported attribute",
		},
		{
			name: "labeled nested block",
			src:  "base {\n  colors \"x\" {\n    a = \"1\"\n  }\n}\n",
			want: "Unexpected label",
		},
		{
			name: "nested sequence",
			src:  "base {\n  x = [[\"a\"]]\n}\n",
			want: "Invalid value",
		},
		{
			name: "null value",
			src:  "base {\n  x = null\n}\n",
			want: "Invalid value",
		},
		{
			name: "non-string selector",
			src:  "selectors {\n  dark = 1\n}\n",
			want: "Invalid selector",
		},
		{
			name: "block redefines attribute",
			src:  "base {\n  colors = \"x\"\n  colors {\n    a = \"1\"\n  }\n}\n",
			want: "Duplicate key",
		},
		{
			name: "prefix without dashes",
			src:  "prefix = \"theme\"\n",
			want: "Invalid prefix",
		},
		{
			name: "prefix with one dash",
			src:  "prefix = \"-theme\"\n",
			want: "Invalid prefix",
		},
		{
			name: "bad color function argument",
			src:  "base {\n  x = darken(\"url(a.png)\", 0.1)\n}\n",
			want: "invalid color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := Parse([]byte(tt.src), "theme.hcl")
			if !diags.HasErrors() {
				t.Fatal("expected errors")
			}
			if !strings.Contains(diags.Error(), tt.want) {
				t.Errorf("diagnostics = %s, want %q", diags.Error(), tt.want)
			}
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	cfg, diags := Parse([]byte("base {\n"), "theme.hcl")
	if !diags.HasErrors() {
		t.Fatal("expected syntax error")
	}
	if cfg != nil {
		t.Error("config must be nil when the source does not parse")
	}
}

func TestParseCollectsAllErrors(t *testing.T) {
	src := `
base {
  a = palette.missing
  b = null
}

theme "x y" {}
`
	cfg, diags := Parse([]byte(src), "theme.hcl")
	if cfg == nil {
		t.Fatal("expected partial config")
	}
	if n := len(diags.Errs()); n < 3 {
		t.Errorf("got %d errors, want at least 3: %s", n, diags.Error())
	}
}

func TestParseKeepsSourceOrder(t *testing.T) {
	src := `
base {
  z = "1"
  m {
    x = "2"
  }
  a = "3"
  obj = { b = "2", a = "1" }
}
`
	cfg, diags := Parse([]byte(src), "theme.hcl")
	if diags.HasErrors() {
		t.Fatalf("Parse() error: %s", diags.Error())
	}
	want := `{z: "1", m: {x: "2"}, a: "3", obj: {a: "1", b: "2"}}`
	if got := cfg.Base.String(); got != want {
		t.Errorf("Base = %s, want %s", got, want)
	}
}

func TestParseLeaves(t *testing.T) {
	cfg, diags := Parse([]byte(sampleHCL), "theme.hcl")
	if diags.HasErrors() {
		t.Fatalf("Parse() error: %s", diags.Error())
	}

	type leaf struct {
		Scope string
		Path  string
		Line  int
	}
	var got []leaf
	for _, l := range cfg.Leaves {
		got = append(got, leaf{l.Scope, strings.Join(l.Path, "."), l.Range.Start.Line})
	}

	want := []leaf{
		{"palette", "red", 14},
		{"palette", "blues.light", 16},
		{"base", "spacing.sm", 22},
		{"base", "spacing.md", 23},
		{"base", "fontFamily.sans", 26},
		{"light", "colors.primary", 32},
		{"light", "colors.accent", 33},
		{"dark", "colors.primary", 39},
		{"dark", "colors.accent", 40},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("leaves mismatch (-want +got):\n%s", diff)
	}
}

func TestPresetOptions(t *testing.T) {
	cfg, diags := Parse([]byte(sampleHCL), "theme.hcl")
	if diags.HasErrors() {
		t.Fatalf("Parse() error: %s", diags.Error())
	}

	opts := cfg.PresetOptions()
	if opts.Prefix != "--t" || !opts.ExportUsed || opts.ExportPath != "out/used.json" {
		t.Errorf("PresetOptions() = %+v", opts)
	}
	if len(opts.Themes) != 2 {
		t.Errorf("len(Themes) = %d, want 2", len(opts.Themes))
	}

	if _, ok := cfg.Theme("dark"); !ok {
		t.Error("Theme(dark) not found")
	}
	if _, ok := cfg.Theme("ocean"); ok {
		t.Error("Theme(ocean) should not exist")
	}
}

func TestParseTOMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "prefix = \n"},
		{"bad theme name", "[themes.\"a b\".colors]\nprimary = \"#fff\"\n"},
		{"nested array", "[base]\nx = [[\"a\"]]\n"},
		{"inline table in array", "[base]\nx = [{ a = 1 }]\n"},
		{"prefix without dashes", "prefix = \"theme\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTOML([]byte(tt.src)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
