package server

import (
	"encoding/json"
	"fmt"

	"github.com/samber/mo"
)

// Fixed content paths, relative to the content root.
const (
	DocsPath  = "README.md"
	ThemePath = "packages/react/src/index.css"
)

// Resource URIs.
const (
	DesignSystemURI = "eg://design-system"
	ThemeURI        = "eg://theme"
	RegistryURI     = "eg://registry"
)

// Resource represents an MCP resource listing entry.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

// ResourceContent is one part of a resources/read result.
type ResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// ResourceReadParams represents the parameters for a resources/read request.
type ResourceReadParams struct {
	URI string `json:"uri"`
}

type resource struct {
	def  Resource
	read func(s *Server) (string, error)
}

var resources = []resource{
	{
		def: Resource{
			URI:         DesignSystemURI,
			Name:        "EG Design System",
			Description: "Design system documentation",
			MimeType:    "text/markdown",
		},
		read: func(s *Server) (string, error) { return s.reader.Read(DocsPath) },
	},
	{
		def: Resource{
			URI:         ThemeURI,
			Name:        "EG Theme",
			Description: "Theme stylesheet with the design tokens as CSS custom properties",
			MimeType:    "text/css",
		},
		read: func(s *Server) (string, error) { return s.reader.Read(ThemePath) },
	},
	{
		def: Resource{
			URI:         RegistryURI,
			Name:        "EG Component Registry",
			Description: "Every registered component with its path, category, description and examples",
			MimeType:    "application/json",
		},
		read: (*Server).registryDump,
	},
}

// GetResourceDefinitions returns all available resources
func GetResourceDefinitions() []Resource {
	defs := make([]Resource, len(resources))
	for i, r := range resources {
		defs[i] = r.def
	}
	return defs
}

func lookupResource(uri string) (resource, bool) {
	for _, r := range resources {
		if r.def.URI == uri {
			return r, true
		}
	}
	return resource{}, false
}

func (s *Server) registryDump() (string, error) {
	return mustMarshalJSON(s.registry.List(mo.None[string]())), nil
}

func (s *Server) handleResourcesList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"resources": GetResourceDefinitions(),
		},
	}
}

// handleResourcesRead returns the content of one resource. Unknown URIs and
// read failures are reported as a text/plain content part, not as a
// JSON-RPC error.
func (s *Server) handleResourcesRead(req *MCPRequest) *MCPResponse {
	var params ResourceReadParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"contents": []ResourceContent{s.readResource(params.URI)},
		},
	}
}

func (s *Server) readResource(uri string) ResourceContent {
	log := s.log.WithField("uri", uri)

	r, ok := lookupResource(uri)
	if !ok {
		err := fmt.Errorf("%w: unknown resource: %s", ErrUnknownOperation, uri)
		log.WithField("kind", errorKind(err)).Warn("Resource read failed")
		return errorContent(uri, err)
	}

	text, err := r.read(s)
	if err != nil {
		log.WithError(err).WithField("kind", errorKind(err)).Info("Resource read failed")
		return errorContent(uri, err)
	}
	return ResourceContent{URI: uri, MimeType: r.def.MimeType, Text: text}
}

func errorContent(uri string, err error) ResourceContent {
	return ResourceContent{URI: uri, MimeType: "text/plain", Text: "Error: " + err.Error()}
}
