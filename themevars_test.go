package themevars

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jsvensson/themevars/internal/export"
)

const testConfig = `
base {
  spacing {
    sm = "4px"
  }
}

theme "light" {
  colors {
    primary = "#ff0000"
  }
}

theme "dark" {
  colors {
    primary = "#00ff00"
  }
}
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "themevars.hcl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerate(t *testing.T) {
	p, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	css, err := p.Generate(context.Background(), []string{"text-primary"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	want := "/* layer: theme */\n" +
		":root{--un-preset-theme-colors-primary:255, 0, 0;}\n" +
		".dark{--un-preset-theme-colors-primary:0, 255, 0;}\n" +
		"/* layer: default */\n" +
		".text-primary{color:rgb(var(--un-preset-theme-colors-primary), 1);}\n"
	if css != want {
		t.Errorf("Generate() =\n%s\nwant:\n%s", css, want)
	}
}

func TestGenerate_RepeatedRunsAreIndependent(t *testing.T) {
	p, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	ctx := context.Background()

	first, err := p.Generate(ctx, []string{"text-primary"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Generate(ctx, []string{"p-sm"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(second, "colors-primary") {
		t.Errorf("second run leaked variables from the first:\n%s", second)
	}
	third, err := p.Generate(ctx, []string{"text-primary"})
	if err != nil {
		t.Fatal(err)
	}
	if first != third {
		t.Errorf("identical runs differ:\n%s\nvs\n%s", first, third)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	p, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Generate(ctx, []string{"text-primary"}); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}

func TestGenerate_Export(t *testing.T) {
	out := filepath.ToSlash(filepath.Join(t.TempDir(), "used.json"))
	cfg := testConfig + `
export {
  enabled = true
  path    = "` + out + `"
}
`
	p, err := Load(writeConfig(t, cfg))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, err := p.Generate(context.Background(), []string{"text-primary"}); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	records, err := export.Read(out)
	if err != nil {
		t.Fatalf("export.Read() error: %v", err)
	}
	want := []export.Record{{
		Category:     "colors",
		Name:         "primary",
		VariableName: "--un-preset-theme-colors-primary",
		DefaultValue: "255, 0, 0",
	}}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.hcl")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := Load(writeConfig(t, `theme "light" {`)); err == nil {
		t.Error("expected an error for invalid HCL")
	}
}

func TestVariables(t *testing.T) {
	p, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := []Variable{
		{
			Name:     "--un-preset-theme-spacing-sm",
			Category: "spacing",
			Path:     "spacing.sm",
			Values:   map[string]string{"light": "4px"},
		},
		{
			Name:     "--un-preset-theme-colors-primary",
			Category: "colors",
			Path:     "colors.primary",
			Values:   map[string]string{"light": "255, 0, 0", "dark": "0, 255, 0"},
		},
	}
	if diff := cmp.Diff(want, p.Variables()); diff != "" {
		t.Errorf("Variables() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"light", "dark"}, p.Themes()); diff != "" {
		t.Errorf("Themes() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractTokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "html attribute",
			src:  `<div class="text-primary p-sm">hi</div>`,
			want: []string{"div", "class", "text-primary", "p-sm", "hi", "/div"},
		},
		{
			name: "duplicates dropped",
			src:  "text-primary\ntext-primary  md:p-sm",
			want: []string{"text-primary", "md:p-sm"},
		},
		{
			name: "empty",
			src:  "  \n\t",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ExtractTokens(tt.src)); diff != "" {
				t.Errorf("ExtractTokens() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
