package server

import (
	"strings"
	"testing"

	"github.com/ironsheep/eg-mcp/internal/registry"
)

func TestImportPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"packages/react/src/components/elements/Button.tsx", "components/elements/Button"},
		{"packages/react/src/components/HoverCard/index.tsx", "components/HoverCard"},
		{"lib/Thing.ts", "lib/Thing"},
	}
	for _, tt := range tests {
		if got := importPath(tt.path); got != tt.want {
			t.Errorf("importPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestImportBinding(t *testing.T) {
	file := registry.Entry{Name: "Button", Path: "packages/react/src/components/elements/Button.tsx"}
	dir := registry.Entry{Name: "ChainSelect", Path: "packages/react/src/components/ChainSelect/index.tsx"}

	if got := importBinding(file); got != "Button" {
		t.Errorf("file component: got %q", got)
	}
	if got := importBinding(dir); got != "{ ChainSelect }" {
		t.Errorf("directory component: got %q", got)
	}
}

func TestInlineCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<Button />", "`<Button />`"},
		{"a `b` c", "``a `b` c``"},
		{"`edge`", "`` `edge` ``"},
	}
	for _, tt := range tests {
		if got := inlineCode(tt.in); got != tt.want {
			t.Errorf("inlineCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteCodeBlock(t *testing.T) {
	var b strings.Builder
	writeCodeBlock(&b, "tsx", "const x = 1")
	if got, want := b.String(), "```tsx\nconst x = 1\n```\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	b.Reset()
	writeCodeBlock(&b, "md", "```js\nx\n```\n")
	if !strings.HasPrefix(b.String(), "````md\n") || !strings.HasSuffix(b.String(), "\n````\n") {
		t.Errorf("embedded fence not escaped: %q", b.String())
	}
}

func TestFormatExamples_None(t *testing.T) {
	got := formatExamples(registry.Entry{Name: "Skeleton"})
	if !strings.Contains(got, "Skeleton has no registered examples.") {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestFenceLanguage(t *testing.T) {
	if got := fenceLanguage("a/B.TSX"); got != "tsx" {
		t.Errorf("got %q", got)
	}
	if got := fenceLanguage("a/b.svg"); got != "" {
		t.Errorf("unknown extension: got %q", got)
	}
}
