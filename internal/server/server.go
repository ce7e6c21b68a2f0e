package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ironsheep/eg-mcp/internal/icons"
	"github.com/ironsheep/eg-mcp/internal/logging"
	"github.com/ironsheep/eg-mcp/internal/registry"
	"github.com/ironsheep/eg-mcp/internal/source"
	"github.com/sirupsen/logrus"
)

// ServerName is reported to clients during initialize.
const ServerName = "eg-mcp-server"

// ProtocolVersion is the MCP revision this server speaks.
const ProtocolVersion = "2024-11-05"

// DefaultAssetsDir is where icon assets are looked up when WithIcons is not used.
const DefaultAssetsDir = "assets"

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Server handles MCP protocol communication
type Server struct {
	registry *registry.Registry
	reader   *source.Reader
	icons    *icons.Renderer
	log      logrus.FieldLogger
	version  string
	tools    *toolTable
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for diagnostics. The default discards output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) { s.log = l }
}

// WithVersion sets the version reported in serverInfo.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithIcons sets the icon renderer used by the icon tools.
func WithIcons(r *icons.Renderer) Option {
	return func(s *Server) { s.icons = r }
}

// New creates a server answering from reg and reading files through reader.
func New(reg *registry.Registry, reader *source.Reader, opts ...Option) *Server {
	s := &Server{
		registry: reg,
		reader:   reader,
		log:      logging.Discard(),
		version:  "0.0.1",
		tools:    defaultTools(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.icons == nil {
		s.icons = icons.NewRenderer(icons.NewCache(reader), DefaultAssetsDir)
	}
	return s
}

// Run reads newline-delimited requests from in and writes responses to out,
// one request at a time. It returns nil when in is exhausted, or ctx.Err()
// if ctx is cancelled first.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		// Increase buffer size for large requests
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 1024*1024)

		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				scanErr <- nil
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("scanner error: %w", err)
				}
				return ctx.Err()
			}

			resp := s.handleLine(line)
			if resp == nil {
				continue
			}
			if err := encoder.Encode(resp); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
		}
	}
}

// handleLine decodes one protocol line. Blank lines are ignored; lines that
// are not JSON get a parse error response with a null id.
func (s *Server) handleLine(line []byte) *MCPResponse {
	if len(strings.TrimSpace(string(line))) == 0 {
		return nil
	}

	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.WithError(err).Warn("Failed to parse request")
		return s.errorResponse(nil, codeParseError, "Parse error", err.Error())
	}
	return s.handleRequest(&req)
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.log.WithField("method", req.Method).Debug("Request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "resources/list":
		return s.handleResourcesList(req)
	case "resources/read":
		return s.handleResourcesRead(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	}

	if strings.HasPrefix(req.Method, "notifications/") {
		// Notifications (e.g. notifications/initialized) never get a response.
		return nil
	}
	return s.errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), "")
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]interface{}{
				"tools":     map[string]interface{}{},
				"resources": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    ServerName,
				"version": s.version,
			},
		},
	}
}

// handleToolsList returns every tool definition in table order.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": s.tools.definitions(),
		},
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	resp := &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
		},
	}
	if data != "" {
		resp.Error.Data = data
	}
	return resp
}
