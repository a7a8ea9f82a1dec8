package color

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Brighten raises the HSL lightness of a CSS color by amount (0.0 to 1.0)
// and returns the result as a hex string.
func Brighten(s string, amount float64) (string, error) {
	return adjustLightness(s, amount)
}

// Darken lowers the HSL lightness of a CSS color by amount (0.0 to 1.0)
// and returns the result as a hex string.
func Darken(s string, amount float64) (string, error) {
	return adjustLightness(s, -amount)
}

func adjustLightness(s string, delta float64) (string, error) {
	parsed, ok := Parse(s)
	if !ok {
		return "", fmt.Errorf("invalid color %q", s)
	}
	c, err := parsed.Colorful()
	if err != nil {
		return "", fmt.Errorf("adjusting %q: %w", s, err)
	}

	h, sat, l := c.Hsl()
	l = math.Max(0, math.Min(1, l+delta))
	return colorful.Hsl(h, sat, l).Clamped().Hex(), nil
}
