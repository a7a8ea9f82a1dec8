package format

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "palette with nested blocks",
			input:    `palette{red="#ff0000"blues{light="#3366ff"}}`,
			expected: `palette { red = "#ff0000" blues { light = "#3366ff" } }`,
		},
		{
			name: "already formatted stays same",
			input: `theme "dark" {
  colors {
    primary = palette.red
  }
}
`,
			expected: `theme "dark" {
  colors {
    primary = palette.red
  }
}
`,
		},
		{
			name:     "extra whitespace normalized",
			input:    `prefix   =   "--t"`,
			expected: `prefix = "--t"`,
		},
		{
			name:     "empty content",
			input:    "",
			expected: "",
		},
		{
			name: "attributes aligned",
			input: `base {
  spacing {
    sm = "4px"
    md_large = "8px"
  }
}
`,
			expected: `base {
  spacing {
    sm       = "4px"
    md_large = "8px"
  }
}
`,
		},
		{
			name:     "multiple blank lines collapsed to one",
			input:    "prefix = \"--t\"\n\n\n\npalette { red = \"#ff0000\" }",
			expected: "prefix = \"--t\"\n\npalette { red = \"#ff0000\" }",
		},
		{
			name:     "single blank line preserved",
			input:    "prefix = \"--t\"\n\npalette { red = \"#ff0000\" }",
			expected: "prefix = \"--t\"\n\npalette { red = \"#ff0000\" }",
		},
		{
			name:     "blank line after opening brace removed",
			input:    "palette {\n\n  red = \"#ff0000\"\n}",
			expected: "palette {\n  red = \"#ff0000\"\n}",
		},
		{
			name:     "blank line before closing brace removed",
			input:    "palette {\n  red = \"#ff0000\"\n\n}",
			expected: "palette {\n  red = \"#ff0000\"\n}",
		},
		{
			name:     "nested block blank lines removed",
			input:    "theme \"dark\" {\n\n  colors {\n\n    primary = \"#00ff00\"\n\n  }\n\n}",
			expected: "theme \"dark\" {\n  colors {\n    primary = \"#00ff00\"\n  }\n}",
		},
		{
			name: "comments preserved",
			input: `theme "light" {
  # brand colors
  colors {
    primary = palette.red # main
  }
}
`,
			expected: `theme "light" {
  # brand colors
  colors {
    primary = palette.red # main
  }
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Format(tt.input)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			result = strings.TrimSuffix(result, "\n")
			expected := strings.TrimSuffix(tt.expected, "\n")

			if result != expected {
				t.Errorf("Format() = %q, want %q", result, expected)
			}
		})
	}
}

func TestFormatInvalidHCL(t *testing.T) {
	input := `theme "dark" { colors = "x"`
	if _, err := Format(input); err != nil {
		t.Errorf("Format() on incomplete HCL should not error, got: %v", err)
	}
}

func TestFile(t *testing.T) {
	const messy = "palette {\n\n  red   = \"#ff0000\"\n}\n"
	const clean = "palette {\n  red = \"#ff0000\"\n}\n"

	t.Run("check leaves file untouched", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "theme.hcl")
		if err := os.WriteFile(path, []byte(messy), 0644); err != nil {
			t.Fatal(err)
		}

		changed, err := File(path, true)
		if err != nil {
			t.Fatalf("File() error: %v", err)
		}
		if !changed {
			t.Error("expected file to need formatting")
		}
		data, _ := os.ReadFile(path)
		if string(data) != messy {
			t.Errorf("check mode modified the file: %q", data)
		}
	})

	t.Run("write", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "theme.hcl")
		if err := os.WriteFile(path, []byte(messy), 0644); err != nil {
			t.Fatal(err)
		}

		changed, err := File(path, false)
		if err != nil {
			t.Fatalf("File() error: %v", err)
		}
		if !changed {
			t.Error("expected file to be rewritten")
		}
		data, _ := os.ReadFile(path)
		if string(data) != clean {
			t.Errorf("file = %q, want %q", data, clean)
		}

		changed, err = File(path, false)
		if err != nil {
			t.Fatalf("File() second run error: %v", err)
		}
		if changed {
			t.Error("formatted file reported as changed")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := File(filepath.Join(t.TempDir(), "nope.hcl"), true); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
