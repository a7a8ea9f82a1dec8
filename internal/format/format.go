// Package format rewrites HCL theme files in canonical style.
package format

import (
	"fmt"
	"os"
	"regexp"

	"github.com/hashicorp/hcl/v2/hclwrite"
)

var multipleBlankLines = regexp.MustCompile(`\n{3,}`)
var blankLineAfterOpenBrace = regexp.MustCompile(`\{\n\s*\n`)
var blankLineBeforeCloseBrace = regexp.MustCompile(`\n\s*\n(\s*\})`)

// Format takes HCL source content and returns it formatted according to
// HCL canonical style rules, with runs of blank lines collapsed and blank
// lines just inside braces removed.
//
// The formatter works even on partial/invalid HCL, making it suitable
// for use while the user is still typing.
func Format(content string) (string, error) {
	formatted := hclwrite.Format([]byte(content))
	collapsed := multipleBlankLines.ReplaceAllString(string(formatted), "\n\n")
	collapsed = blankLineAfterOpenBrace.ReplaceAllString(collapsed, "{\n")
	collapsed = blankLineBeforeCloseBrace.ReplaceAllString(collapsed, "\n${1}")
	return collapsed, nil
}

// File formats the file at path. It reports whether the formatted content
// differs from what is on disk and, unless check is set, writes it back.
func File(path string, check bool) (bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	formatted, err := Format(string(src))
	if err != nil {
		return false, fmt.Errorf("formatting %s: %w", path, err)
	}
	if formatted == string(src) {
		return false, nil
	}
	if check {
		return true, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return true, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
		return true, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
