package theme

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrNotColor is returned by ParseColor for values it does not recognize.
var ErrNotColor = errors.New("not a color")

// RGBColor holds 8-bit color components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor holds hue in degrees and saturation/lightness in percent.
type HSLColor struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// ColorInfo is a parsed color in the forms tooling usually wants.
type ColorInfo struct {
	Hex       string   `json:"hex"`
	RGB       RGBColor `json:"rgb"`
	HSL       HSLColor `json:"hsl"`
	Alpha     float64  `json:"alpha"`
	Luminance float64  `json:"luminance"`

	c colorful.Color
}

var namedColors = map[string]string{
	"black": "#000000",
	"white": "#ffffff",
	"red":   "#ff0000",
	"green": "#008000",
	"blue":  "#0000ff",
	"gray":  "#808080",
	"grey":  "#808080",
}

// ParseColor parses hex (#rgb, #rrggbb, #rrggbbaa), rgb()/rgba(),
// hsl()/hsla(), "transparent" and a few named colors.
func ParseColor(value string) (*ColorInfo, error) {
	v := strings.ToLower(strings.TrimSpace(value))

	if v == "transparent" {
		return newColorInfo(colorful.Color{}, 0), nil
	}
	if hex, ok := namedColors[v]; ok {
		v = hex
	}

	switch {
	case strings.HasPrefix(v, "#"):
		return parseHex(v)
	case strings.HasPrefix(v, "rgb(") || strings.HasPrefix(v, "rgba("):
		return parseRGB(v)
	case strings.HasPrefix(v, "hsl(") || strings.HasPrefix(v, "hsla("):
		return parseHSL(v)
	}
	return nil, fmt.Errorf("%w: %q", ErrNotColor, value)
}

func parseHex(v string) (*ColorInfo, error) {
	alpha := 1.0
	if len(v) == 9 {
		a, err := strconv.ParseUint(v[7:], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNotColor, v)
		}
		alpha = float64(a) / 255
		v = v[:7]
	}

	c, err := colorful.Hex(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotColor, v)
	}
	return newColorInfo(c, alpha), nil
}

func parseRGB(v string) (*ColorInfo, error) {
	args, alpha, err := functionArgs(v)
	if err != nil || len(args) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrNotColor, v)
	}

	var channels [3]float64
	for i, arg := range args {
		if strings.HasSuffix(arg, "%") {
			pct, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrNotColor, v)
			}
			channels[i] = pct / 100
			continue
		}
		n, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNotColor, v)
		}
		channels[i] = n / 255
	}

	c := colorful.Color{R: channels[0], G: channels[1], B: channels[2]}.Clamped()
	return newColorInfo(c, alpha), nil
}

func parseHSL(v string) (*ColorInfo, error) {
	args, alpha, err := functionArgs(v)
	if err != nil || len(args) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrNotColor, v)
	}

	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotColor, v)
	}
	s, err1 := strconv.ParseFloat(strings.TrimSuffix(args[1], "%"), 64)
	l, err2 := strconv.ParseFloat(strings.TrimSuffix(args[2], "%"), 64)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotColor, v)
	}

	c := colorful.Hsl(math.Mod(h, 360), s/100, l/100).Clamped()
	return newColorInfo(c, alpha), nil
}

// functionArgs splits "fn(a, b, c / d)" or "fn(a b c d)" into the three
// channel arguments and the alpha value (1 when absent).
func functionArgs(v string) ([]string, float64, error) {
	open := strings.IndexByte(v, '(')
	if open < 0 || !strings.HasSuffix(v, ")") {
		return nil, 0, ErrNotColor
	}
	body := v[open+1 : len(v)-1]
	body = strings.NewReplacer(",", " ", "/", " ").Replace(body)

	args := strings.Fields(body)
	alpha := 1.0
	if len(args) == 4 {
		a, err := parseAlpha(args[3])
		if err != nil {
			return nil, 0, err
		}
		alpha = a
		args = args[:3]
	}
	return args, alpha, nil
}

func parseAlpha(s string) (float64, error) {
	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return pct / 100, err
	}
	return strconv.ParseFloat(s, 64)
}

func newColorInfo(c colorful.Color, alpha float64) *ColorInfo {
	r, g, b := c.RGB255()
	h, s, l := c.Hsl()
	return &ColorInfo{
		Hex:       c.Hex(),
		RGB:       RGBColor{R: r, G: g, B: b},
		HSL:       HSLColor{H: int(math.Round(h)) % 360, S: int(math.Round(s * 100)), L: int(math.Round(l * 100))},
		Alpha:     round(alpha, 3),
		Luminance: round(relativeLuminance(c), 4),
		c:         c,
	}
}

// relativeLuminance is the WCAG 2.x relative luminance of c.
func relativeLuminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
