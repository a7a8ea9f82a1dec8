package preset

import (
	"regexp"
	"strings"

	"github.com/jsvensson/themevars/internal/color"
)

// ColorCategory is the top-level theme key whose leaves are classified as
// colors or background images.
const ColorCategory = "colors"

// Kind is the classification of a theme leaf.
type Kind int

const (
	Plain Kind = iota
	Color
	BackgroundImage
)

func (k Kind) String() string {
	switch k {
	case Color:
		return "color"
	case BackgroundImage:
		return "background-image"
	default:
		return "plain"
	}
}

// Classification is the result of Classify. Color is set for Color leaves.
type Classification struct {
	Kind  Kind
	Color color.Color
}

var urlRE = regexp.MustCompile(`^url\(.+\)$`)

// Classify decides how a leaf value is bound. Only leaves under the colors
// category can be colors or background images; anything else is plain, and
// so is a colors leaf that is neither a parseable color nor a url().
func Classify(value string, path KeyPath) Classification {
	if path.Category() != ColorCategory {
		return Classification{Kind: Plain}
	}
	if c, ok := color.Parse(value); ok {
		return Classification{Kind: Color, Color: c}
	}
	if urlRE.MatchString(strings.TrimSpace(value)) {
		return Classification{Kind: BackgroundImage}
	}
	return Classification{Kind: Plain}
}
