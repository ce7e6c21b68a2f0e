// Package server implements the MCP (Model Context Protocol) server for the EG
// design system.
//
// It exposes the component registry, component sources, documentation, theme
// tokens and chain/token icons to MCP clients such as editors and coding
// assistants.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - resources/list: Enumerate available resources
//   - resources/read: Read a resource by URI
//   - ping: Health check
//
// Requests are handled one at a time, in arrival order.
//
// # Available Tools
//
// Registry:
//   - list_components: Components with category, description and path
//   - get_component: Full source of one component
//   - get_component_examples: Usage examples of one component
//   - search_components: Ranked search (name 10, description 5, category 3)
//   - install_component: Steps for adding a component to a project
//
// Theme:
//   - get_theme_tokens: CSS custom properties with parsed colors
//   - check_contrast: WCAG contrast between two colors or tokens
//
// Icons:
//   - get_chain_icon: Chain logo as PNG
//   - get_token_icon: Token logo as PNG
//
// # Resources
//
//   - eg://design-system: README.md (text/markdown)
//   - eg://theme: the theme stylesheet (text/css)
//   - eg://registry: the component table (application/json)
//
// # Error Handling
//
// Tool failures are returned as ordinary results with "isError": true and a
// text part starting with "Error:". Resource failures are returned as a
// text/plain content part. Neither ends the session. JSON-RPC errors are
// reserved for protocol problems:
//   - -32700: the line is not JSON
//   - -32601: unknown method
//   - -32602: params do not decode
//
// # Usage
//
//	reg, err := registry.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(reg, source.NewOsReader("."))
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
