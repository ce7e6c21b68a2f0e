package theme

// WCAG 2.x contrast thresholds.
const (
	minContrastAA      = 4.5
	minContrastAALarge = 3.0
	minContrastAAA     = 7.0
	minContrastAAALg   = 4.5
)

// ContrastResult reports the contrast ratio between two colors and which WCAG
// levels it satisfies.
type ContrastResult struct {
	Foreground string  `json:"foreground"`
	Background string  `json:"background"`
	Ratio      float64 `json:"ratio"`
	AA         bool    `json:"aa"`
	AALarge    bool    `json:"aa_large"`
	AAA        bool    `json:"aaa"`
	AAALarge   bool    `json:"aaa_large"`
}

// Contrast computes the WCAG contrast ratio of fg over bg. Alpha is ignored.
func Contrast(fg, bg *ColorInfo) ContrastResult {
	l1 := relativeLuminance(fg.c)
	l2 := relativeLuminance(bg.c)
	if l2 > l1 {
		l1, l2 = l2, l1
	}
	// Thresholds apply to the exact ratio; only the reported value is rounded.
	ratio := (l1 + 0.05) / (l2 + 0.05)

	return ContrastResult{
		Foreground: fg.Hex,
		Background: bg.Hex,
		Ratio:      round(ratio, 2),
		AA:         ratio >= minContrastAA,
		AALarge:    ratio >= minContrastAALarge,
		AAA:        ratio >= minContrastAAA,
		AAALarge:   ratio >= minContrastAAALg,
	}
}

// ResolveColor parses value as a color literal or, failing that, as the name
// of a token in tokens (":root" scope unless scope finds it first).
func ResolveColor(tokens []Token, value, scope string) (*ColorInfo, error) {
	if c, err := ParseColor(value); err == nil {
		return c, nil
	}
	if t, ok := Lookup(tokens, value, scope); ok && t.Color != nil {
		return t.Color, nil
	}
	return ParseColor(value)
}
