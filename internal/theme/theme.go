// Package theme extracts design tokens from the design system stylesheet.
//
// Tokens are CSS custom properties ("--button-primary-bg: #1a1a1a;"). Color
// values are parsed with go-colorful so tools can report hex, RGB and HSL
// forms and compute WCAG contrast between two tokens.
package theme

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// RootScope is the selector tokens fall back to when resolving var() references.
const RootScope = ":root"

// maxVarDepth bounds var() resolution so reference cycles terminate.
const maxVarDepth = 8

var (
	commentPattern  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	blockPattern    = regexp.MustCompile(`([^{}]*)\{([^{}]*)\}`)
	propertyPattern = regexp.MustCompile(`--([A-Za-z0-9_-]+)\s*:\s*([^;]+?)\s*(?:;|$)`)
	varPattern      = regexp.MustCompile(`^var\(\s*--([A-Za-z0-9_-]+)\s*(?:,\s*(.+))?\)$`)
)

// Token is one custom property declaration.
type Token struct {
	// Name is the property name without the leading "--".
	Name string `json:"name"`

	// Value is the declared value as written.
	Value string `json:"value"`

	// Scope is the selector of the enclosing rule, e.g. ":root" or ".dark".
	Scope string `json:"scope"`

	// Resolved is Value with var() references substituted. Empty when the
	// value has no references or they cannot be resolved.
	Resolved string `json:"resolved,omitempty"`

	// Color is set when the (resolved) value is a color.
	Color *ColorInfo `json:"color,omitempty"`
}

// Parse returns every custom property declared in css, in document order.
// Rules nested in at-rules are flattened: a declaration's scope is the
// innermost selector that encloses it.
func Parse(css string) []Token {
	css = commentPattern.ReplaceAllString(css, "")

	var tokens []Token
	for _, block := range blockPattern.FindAllStringSubmatch(css, -1) {
		scope := normalizeScope(block[1])
		for _, decl := range propertyPattern.FindAllStringSubmatch(block[2], -1) {
			tokens = append(tokens, Token{
				Name:  decl[1],
				Value: strings.TrimSpace(decl[2]),
				Scope: scope,
			})
		}
	}

	resolve(tokens)
	return tokens
}

// Filter returns the tokens whose name starts with prefix. A leading "--" in
// prefix is ignored.
func Filter(tokens []Token, prefix string) []Token {
	prefix = strings.TrimPrefix(prefix, "--")
	return lo.Filter(tokens, func(t Token, _ int) bool {
		return strings.HasPrefix(t.Name, prefix)
	})
}

// Lookup finds a token by name, preferring scope and falling back to RootScope.
func Lookup(tokens []Token, name, scope string) (Token, bool) {
	name = strings.TrimPrefix(name, "--")
	if t, ok := lo.Find(tokens, func(t Token) bool { return t.Name == name && t.Scope == scope }); ok {
		return t, true
	}
	return lo.Find(tokens, func(t Token) bool { return t.Name == name && t.Scope == RootScope })
}

func resolve(tokens []Token) {
	for i := range tokens {
		value := tokens[i].Value
		if strings.Contains(value, "var(") {
			if resolved, ok := resolveValue(tokens, value, tokens[i].Scope, 0); ok {
				tokens[i].Resolved = resolved
				value = resolved
			}
		}
		if c, err := ParseColor(value); err == nil {
			tokens[i].Color = c
		}
	}
}

func resolveValue(tokens []Token, value, scope string, depth int) (string, bool) {
	if depth > maxVarDepth {
		return "", false
	}

	m := varPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return value, !strings.Contains(value, "var(")
	}

	if t, ok := Lookup(tokens, m[1], scope); ok {
		return resolveValue(tokens, t.Value, scope, depth+1)
	}
	if m[2] != "" {
		return resolveValue(tokens, m[2], scope, depth+1)
	}
	return "", false
}

// normalizeScope collapses whitespace in a rule selector. Top-level
// statements such as `@import "tailwindcss";` that precede the rule are
// dropped.
func normalizeScope(selector string) string {
	if i := strings.LastIndex(selector, ";"); i >= 0 {
		selector = selector[i+1:]
	}
	return strings.Join(strings.Fields(selector), " ")
}
