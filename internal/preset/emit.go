package preset

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jsvensson/themevars/internal/generator"
)

// Marker prefixes the synthetic tokens the emitter generates, one per theme:
// "preset-theme:<theme>:<nonce>".
const Marker = "preset-theme"

var markerRE = regexp.MustCompile(`^` + regexp.QuoteMeta(Marker) + `:([\w-]+):`)

// themeFromToken extracts the theme name from a synthetic token.
func themeFromToken(token string) (string, bool) {
	m := markerRE.FindStringSubmatch(token)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Generator is the generation call the emitter needs from its host.
type Generator interface {
	Generate(ctx context.Context, tokens []string, opts generator.Options) (*generator.Result, error)
}

// Emitter produces the selector-scoped variable blocks for every theme.
type Emitter struct {
	Themes []string
	// Nonce returns a unique suffix per call so the host never answers a
	// synthetic token from its cache. Defaults to a random UUID.
	Nonce func() string
}

// Tokens returns one synthetic token per theme.
func (e *Emitter) Tokens() []string {
	nonce := e.Nonce
	if nonce == nil {
		nonce = uuid.NewString
	}
	tokens := make([]string, 0, len(e.Themes))
	for _, name := range e.Themes {
		tokens = append(tokens, fmt.Sprintf("%s:%s:%s", Marker, name, nonce()))
	}
	return tokens
}

// Emit asks gen to render the synthetic tokens without preflights and
// serializes the resulting blocks. Blocks wrapped in an at-rule bind to the
// root scope inside it.
func (e *Emitter) Emit(ctx context.Context, gen Generator) (string, error) {
	res, err := gen.Generate(ctx, e.Tokens(), generator.Options{Preflights: false})
	if err != nil {
		return "", fmt.Errorf("generating theme blocks: %w", err)
	}

	var lines []string
	for _, b := range res.Blocks {
		if _, ok := themeFromToken(b.Token); !ok {
			continue
		}
		selector := b.Selector
		if isAtRule(b.Parent) {
			selector = RootSelector
		}
		lines = append(lines, generator.FormatBlock(b.Parent, selector, b.Entries))
	}
	return strings.Join(lines, "\n"), nil
}
