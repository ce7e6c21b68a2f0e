// Package registry holds the EG design system component table.
//
// The table is an HCL document embedded in the binary (components.hcl). It is
// decoded once at startup by Load and exposed only through read accessors, so
// a *Registry can be shared freely between goroutines.
//
// # Lookups
//
//   - Get: exact, case-sensitive name lookup; unknown names wrap ErrNotFound
//     and carry fuzzy suggestions.
//   - List: every entry in table order, optionally restricted to a category.
//   - Search: case-insensitive substring search over name, description and
//     category, scored 10/5/3 and stably sorted by score.
//
// # Table format
//
//	component "Button" {
//	  path        = "packages/react/src/components/elements/Button.tsx"
//	  category    = "elements"
//	  description = "Skewed action button"
//	  examples    = ["<Button>Default</Button>"]
//	}
package registry
