package registry

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Component categories. The set is closed: New rejects anything else.
const (
	CategoryElements   = "elements"
	CategoryMotion     = "motion"
	CategoryComponents = "components"
)

// Categories lists every valid category in display order.
var Categories = []string{CategoryElements, CategoryMotion, CategoryComponents}

// ErrNotFound is returned by Get when no entry has the requested name.
var ErrNotFound = errors.New("component not found")

// maxSuggestions bounds the "did you mean" list attached to a NotFound error.
const maxSuggestions = 3

//go:embed components.hcl
var componentsHCL []byte

// Entry describes one registered UI component.
type Entry struct {
	// Name is the unique component identifier, e.g. "Button".
	Name string `json:"name"`

	// Path is the component source file relative to the content root.
	Path string `json:"path"`

	// Category is one of Categories.
	Category string `json:"category"`

	// Description is a one line human summary.
	Description string `json:"description"`

	// Examples are usage snippets in display order.
	Examples []string `json:"examples"`
}

// Registry is an immutable, ordered set of component entries.
//
// A Registry is safe for concurrent use: it exposes read accessors only and
// returns copies of its internal slices.
type Registry struct {
	entries []Entry
	byName  map[string]int
}

type hclRegistryFile struct {
	Components []*hclComponent `hcl:"component,block"`
}

type hclComponent struct {
	Name        string   `hcl:"name,label"`
	Path        string   `hcl:"path"`
	Category    string   `hcl:"category"`
	Description string   `hcl:"description"`
	Examples    []string `hcl:"examples,optional"`
}

// Load decodes the embedded component table and returns the registry built
// from it.
func Load() (*Registry, error) {
	return Decode("components.hcl", componentsHCL)
}

// Decode parses an HCL component table. filename is only used in diagnostics.
func Decode(filename string, src []byte) (*Registry, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse component table %s: %w", filename, diags)
	}

	var parsed hclRegistryFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode component table %s: %w", filename, diags)
	}

	entries := lo.Map(parsed.Components, func(c *hclComponent, _ int) Entry {
		return Entry{
			Name:        c.Name,
			Path:        c.Path,
			Category:    c.Category,
			Description: c.Description,
			Examples:    c.Examples,
		}
	})
	return New(entries)
}

// New validates entries and returns a registry holding a private copy of them.
func New(entries []Entry) (*Registry, error) {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("entry %d: empty name", i)
		}
		if _, dup := r.byName[e.Name]; dup {
			return nil, fmt.Errorf("entry %d: duplicate name %q", i, e.Name)
		}
		if e.Path == "" {
			return nil, fmt.Errorf("entry %q: empty path", e.Name)
		}
		if !lo.Contains(Categories, e.Category) {
			return nil, fmt.Errorf("entry %q: unknown category %q (want one of %s)",
				e.Name, e.Category, strings.Join(Categories, ", "))
		}

		e.Examples = slices.Clone(e.Examples)
		r.byName[e.Name] = len(r.entries)
		r.entries = append(r.entries, e)
	}

	return r, nil
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Get returns the entry with exactly the given name.
//
// The returned error wraps ErrNotFound and, when close names exist, lists them.
func (r *Registry) Get(name string) (Entry, error) {
	i, ok := r.byName[name]
	if !ok {
		if s := r.Suggest(name); len(s) > 0 {
			return Entry{}, fmt.Errorf("%w: %s (did you mean: %s?)", ErrNotFound, name, strings.Join(s, ", "))
		}
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return cloneEntry(r.entries[i]), nil
}

// List returns entries in registry order, restricted to one category when
// category is set.
func (r *Registry) List(category mo.Option[string]) []Entry {
	entries := r.entries
	if c, ok := category.Get(); ok {
		entries = lo.Filter(entries, func(e Entry, _ int) bool {
			return e.Category == c
		})
	}
	return lo.Map(entries, func(e Entry, _ int) Entry {
		return cloneEntry(e)
	})
}

// Names returns every component name in registry order.
func (r *Registry) Names() []string {
	return lo.Map(r.entries, func(e Entry, _ int) string {
		return e.Name
	})
}

// Paths returns every registered source path in registry order.
func (r *Registry) Paths() []string {
	return lo.Map(r.entries, func(e Entry, _ int) string {
		return e.Path
	})
}

// Suggest returns up to three registered names that fuzzily match name,
// closest first. An exact match is never suggested.
func (r *Registry) Suggest(name string) []string {
	if name == "" {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(name, r.Names())
	sort.Stable(ranks)

	suggestions := make([]string, 0, maxSuggestions)
	for _, rank := range ranks {
		if rank.Target == name {
			continue
		}
		suggestions = append(suggestions, rank.Target)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions
}

func cloneEntry(e Entry) Entry {
	e.Examples = slices.Clone(e.Examples)
	return e
}
