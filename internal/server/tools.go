package server

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// toolHandler executes one tool against its raw JSON arguments.
type toolHandler func(s *Server, args json.RawMessage) (*ToolResult, error)

type tool struct {
	def     Tool
	handler toolHandler
}

// toolTable maps tool names to handlers and remembers definition order for
// tools/list.
type toolTable struct {
	order  []string
	byName map[string]tool
}

func newToolTable(tools ...tool) *toolTable {
	t := &toolTable{byName: make(map[string]tool, len(tools))}
	for _, tl := range tools {
		if _, dup := t.byName[tl.def.Name]; dup {
			panic("duplicate tool " + tl.def.Name)
		}
		t.order = append(t.order, tl.def.Name)
		t.byName[tl.def.Name] = tl
	}
	return t
}

func (t *toolTable) lookup(name string) (tool, bool) {
	tl, ok := t.byName[name]
	return tl, ok
}

func (t *toolTable) definitions() []Tool {
	defs := make([]Tool, 0, len(t.order))
	for _, name := range t.order {
		defs = append(defs, t.byName[name].def)
	}
	return defs
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return defaultTools().definitions()
}

func defaultTools() *toolTable {
	return newToolTable(
		// Registry
		tool{
			def: newTool("list_components",
				"List all available EG design system components, optionally restricted to one category.",
				&listComponentsArgs{}),
			handler: (*Server).handleListComponents,
		},
		tool{
			def: newTool("get_component",
				"Get the full source code and metadata for a specific component.",
				&componentNameArgs{}),
			handler: (*Server).handleGetComponent,
		},
		tool{
			def: newTool("get_component_examples",
				"Get usage examples for a specific component.",
				&componentNameArgs{}),
			handler: (*Server).handleGetComponentExamples,
		},
		tool{
			def: newTool("search_components",
				"Search components by name, description and category. Results are ranked by relevance.",
				&searchComponentsArgs{}),
			handler: (*Server).handleSearchComponents,
		},
		tool{
			def: newTool("install_component",
				"Get instructions for adding a component to a project.",
				&componentNameArgs{}),
			handler: (*Server).handleInstallComponent,
		},

		// Theme
		tool{
			def: newTool("get_theme_tokens",
				"List the theme's CSS custom properties with parsed color values.",
				&themeTokensArgs{}),
			handler: (*Server).handleGetThemeTokens,
		},
		tool{
			def: newTool("check_contrast",
				"Compute the WCAG contrast ratio between two colors. Each color may be a CSS color or a theme token name.",
				&checkContrastArgs{}),
			handler: (*Server).handleCheckContrast,
		},

		// Icons
		tool{
			def: newTool("get_chain_icon",
				"Render a chain logo as a PNG image, the way the ChainIcon component displays it.",
				&chainIconArgs{}),
			handler: (*Server).handleGetChainIcon,
		},
		tool{
			def: newTool("get_token_icon",
				"Render a token logo as a PNG image, the way the TokenIcon component displays it.",
				&tokenIconArgs{}),
			handler: (*Server).handleGetTokenIcon,
		},
	)
}

var schemaReflector = &jsonschema.Reflector{
	DoNotReference: true,
	ExpandedStruct: true,
}

// newTool builds a definition whose input schema is reflected from args.
// Fields without omitempty are required.
func newTool(name, description string, args interface{}) Tool {
	return Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema(args),
	}
}

func inputSchema(args interface{}) map[string]interface{} {
	schema := schemaReflector.Reflect(args)

	raw, err := json.Marshal(schema)
	if err != nil {
		panic("reflect schema: " + err.Error())
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		panic("reflect schema: " + err.Error())
	}

	delete(m, "$schema")
	delete(m, "$id")
	if _, ok := m["properties"]; !ok {
		m["properties"] = map[string]interface{}{}
	}
	return m
}
