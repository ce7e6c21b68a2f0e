package server

import (
	"fmt"
	"path"
	"strings"

	"github.com/ironsheep/eg-mcp/internal/registry"
)

// packageSourceRoot is stripped from registry paths to form import paths.
const packageSourceRoot = "packages/react/src/"

var fenceLanguages = map[string]string{
	".tsx":  "tsx",
	".ts":   "ts",
	".jsx":  "jsx",
	".js":   "js",
	".css":  "css",
	".md":   "markdown",
	".json": "json",
}

// formatComponent renders the get_component document.
func formatComponent(e registry.Entry, src string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", e.Name)
	fmt.Fprintf(&b, "**Category:** %s\n", e.Category)
	fmt.Fprintf(&b, "**Path:** `%s`\n\n", e.Path)
	fmt.Fprintf(&b, "%s\n\n", e.Description)
	b.WriteString("## Source\n\n")
	writeCodeBlock(&b, fenceLanguage(e.Path), src)
	return b.String()
}

// formatExamples renders the get_component_examples document: the examples
// as an ordered list in registry order.
func formatExamples(e registry.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s examples\n\n", e.Name)
	if len(e.Examples) == 0 {
		fmt.Fprintf(&b, "%s has no registered examples.\n", e.Name)
		return b.String()
	}
	for i, ex := range e.Examples {
		fmt.Fprintf(&b, "%d. %s\n", i+1, inlineCode(ex))
	}
	return b.String()
}

// formatInstall renders the install_component guide.
func formatInstall(e registry.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Installing %s\n\n", e.Name)
	fmt.Fprintf(&b, "%s is an EG design system component in the `%s` category.\n\n", e.Name, e.Category)

	b.WriteString("## 1. Add the source\n\n")
	fmt.Fprintf(&b, "Copy `%s` into your project, keeping its path relative to `src/`, or depend on the design system package directly.\n\n", e.Path)

	b.WriteString("## 2. Import it\n\n")
	writeCodeBlock(&b, "tsx", fmt.Sprintf("import %s from './%s'\n", importBinding(e), importPath(e.Path)))
	b.WriteString("\n")

	b.WriteString("## 3. Apply the theme\n\n")
	fmt.Fprintf(&b, "Components read their colors from CSS custom properties. Include the theme stylesheet (`%s`, also available as the `%s` resource) once at your application root.\n\n", ThemePath, ThemeURI)

	if len(e.Examples) > 0 {
		b.WriteString("## 4. Use it\n\n")
		writeCodeBlock(&b, "tsx", strings.Join(e.Examples, "\n")+"\n")
	}
	return b.String()
}

// importPath turns a registry path into a module specifier relative to the
// package source root: extension and a trailing /index are dropped.
func importPath(p string) string {
	p = strings.TrimPrefix(p, packageSourceRoot)
	p = strings.TrimSuffix(p, path.Ext(p))
	return strings.TrimSuffix(p, "/index")
}

// importBinding is the default import for single-file components and a named
// import for directory components, matching how the package exports them.
func importBinding(e registry.Entry) string {
	if path.Base(strings.TrimSuffix(e.Path, path.Ext(e.Path))) == "index" {
		return "{ " + e.Name + " }"
	}
	return e.Name
}

func fenceLanguage(p string) string {
	return fenceLanguages[strings.ToLower(path.Ext(p))]
}

// writeCodeBlock writes a fenced block long enough not to be closed by any
// backtick run inside code.
func writeCodeBlock(b *strings.Builder, lang, code string) {
	fence := strings.Repeat("`", max(3, longestRun(code, '`')+1))
	fmt.Fprintf(b, "%s%s\n%s", fence, lang, code)
	if !strings.HasSuffix(code, "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "%s\n", fence)
}

// inlineCode wraps s in a backtick span that survives backticks inside s.
func inlineCode(s string) string {
	fence := strings.Repeat("`", longestRun(s, '`')+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return longest
}
