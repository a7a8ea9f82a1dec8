package color

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is a parsed CSS color. Components keep their CSS spelling
// ("255", "50%", "120deg") so they can be substituted back into a color
// function unchanged. Alpha is empty when the source had no alpha channel.
type Color struct {
	Type       string
	Components []string
	Alpha      string
}

var (
	functionRE  = regexp.MustCompile(`^([a-z]+)\((.*)\)$`)
	componentRE = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)(e[-+]?\d+)?(%|deg|grad|rad|turn)?$`)
	hexRE       = regexp.MustCompile(`^#([0-9a-f]{3,4}|[0-9a-f]{6}|[0-9a-f]{8})$`)
)

// functionTypes maps CSS color function names to the type tag they parse to.
var functionTypes = map[string]string{
	"rgb":   "rgb",
	"rgba":  "rgb",
	"hsl":   "hsl",
	"hsla":  "hsl",
	"hwb":   "hwb",
	"lab":   "lab",
	"lch":   "lch",
	"oklab": "oklab",
	"oklch": "oklch",
}

// Parse parses a CSS color: hex notation, a named color, "transparent", or
// one of the rgb/hsl/hwb/lab/lch/oklab/oklch functions in comma or space
// syntax. The second return value is false when s is not a color.
func Parse(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Color{}, false
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}

	if s == "transparent" {
		return Color{Type: "rgb", Components: []string{"0", "0", "0"}, Alpha: "0"}, true
	}

	if named, ok := colornames.Map[s]; ok {
		return Color{Type: "rgb", Components: rgbComponents(named.R, named.G, named.B)}, true
	}

	m := functionRE.FindStringSubmatch(s)
	if m == nil {
		return Color{}, false
	}
	typ, ok := functionTypes[m[1]]
	if !ok {
		return Color{}, false
	}
	components, alpha, ok := splitComponents(m[2])
	if !ok {
		return Color{}, false
	}
	return Color{Type: typ, Components: components, Alpha: alpha}, true
}

// splitComponents splits a color function body into three components and an
// optional alpha. Both "255, 0, 0, 0.5" and "255 0 0 / 50%" are accepted.
func splitComponents(body string) ([]string, string, bool) {
	var parts []string
	alpha := ""

	if strings.Contains(body, ",") {
		for _, p := range strings.Split(body, ",") {
			parts = append(parts, strings.TrimSpace(p))
		}
		if len(parts) == 4 {
			alpha = parts[3]
			parts = parts[:3]
		}
	} else {
		main := body
		if before, after, found := strings.Cut(body, "/"); found {
			main = before
			alpha = strings.TrimSpace(after)
		}
		parts = strings.Fields(main)
	}

	if len(parts) != 3 {
		return nil, "", false
	}
	for _, p := range parts {
		if !componentRE.MatchString(p) {
			return nil, "", false
		}
	}
	if alpha != "" && !componentRE.MatchString(alpha) {
		return nil, "", false
	}
	return parts, alpha, true
}

func parseHex(s string) (Color, bool) {
	if !hexRE.MatchString(s) {
		return Color{}, false
	}
	digits := s[1:]

	alpha := ""
	switch len(digits) {
	case 4:
		alpha = formatAlpha(digits[3:] + digits[3:])
		digits = digits[:3]
	case 8:
		alpha = formatAlpha(digits[6:])
		digits = digits[:6]
	}

	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return Color{}, false
	}
	r, g, b := c.RGB255()
	return Color{Type: "rgb", Components: rgbComponents(r, g, b), Alpha: alpha}, true
}

func formatAlpha(hexByte string) string {
	v, err := strconv.ParseUint(hexByte, 16, 8)
	if err != nil {
		return ""
	}
	a := math.Round(float64(v)/255*100) / 100
	return strconv.FormatFloat(a, 'f', -1, 64)
}

func rgbComponents(r, g, b uint8) []string {
	return []string{
		strconv.Itoa(int(r)),
		strconv.Itoa(int(g)),
		strconv.Itoa(int(b)),
	}
}

// Joined returns the components separated by ", ", the form bound to a
// custom property so a color function can wrap it.
func (c Color) Joined() string {
	return strings.Join(c.Components, ", ")
}

// AlphaOr returns the alpha channel, or def when the color has none.
func (c Color) AlphaOr(def string) string {
	if c.Alpha == "" {
		return def
	}
	return c.Alpha
}

// String renders the color in functional notation, e.g. "rgb(255, 0, 0)".
func (c Color) String() string {
	if c.Alpha == "" {
		return fmt.Sprintf("%s(%s)", c.Type, c.Joined())
	}
	return fmt.Sprintf("%s(%s, %s)", c.Type, c.Joined(), c.Alpha)
}

// Colorful converts rgb and hsl colors to a go-colorful value. Other color
// spaces are reported as unsupported.
func (c Color) Colorful() (colorful.Color, error) {
	switch c.Type {
	case "rgb":
		var ch [3]float64
		for i, comp := range c.Components {
			v, err := componentValue(comp, 255)
			if err != nil {
				return colorful.Color{}, err
			}
			ch[i] = clamp01(v / 255)
		}
		return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, nil
	case "hsl":
		h, err := componentValue(c.Components[0], 360)
		if err != nil {
			return colorful.Color{}, err
		}
		s, err := componentValue(c.Components[1], 1)
		if err != nil {
			return colorful.Color{}, err
		}
		l, err := componentValue(c.Components[2], 1)
		if err != nil {
			return colorful.Color{}, err
		}
		return colorful.Hsl(h, clamp01(s), clamp01(l)).Clamped(), nil
	default:
		return colorful.Color{}, fmt.Errorf("unsupported color type %q", c.Type)
	}
}

// componentValue converts a component to a number. Percentages are scaled to
// full, unit suffixes other than % are dropped.
func componentValue(comp string, full float64) (float64, error) {
	if strings.HasSuffix(comp, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(comp, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid component %q: %w", comp, err)
		}
		return v / 100 * full, nil
	}
	comp = strings.TrimRight(comp, "degrantu")
	v, err := strconv.ParseFloat(comp, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid component %q: %w", comp, err)
	}
	return v, nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
