package preset

import "strings"

// RootSelector is the selector the default theme binds to.
const RootSelector = ":root"

// SelectorResolver maps theme names to the selector receiving their
// declarations.
type SelectorResolver struct {
	Overrides map[string]string
}

// Resolve returns the override for theme if one is configured, RootSelector
// for the default theme, and ".<theme>" otherwise.
func (r SelectorResolver) Resolve(theme string) string {
	if sel, ok := r.Overrides[theme]; ok && sel != "" {
		return sel
	}
	if theme == DefaultTheme {
		return RootSelector
	}
	return "." + theme
}

// isAtRule reports whether a resolved selector is an at-rule such as
// "@media (prefers-color-scheme: dark)" rather than a selector.
func isAtRule(selector string) bool {
	return strings.HasPrefix(strings.TrimSpace(selector), "@")
}
