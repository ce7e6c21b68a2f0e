package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/eg-mcp/internal/icons"
	"github.com/ironsheep/eg-mcp/internal/registry"
	"github.com/ironsheep/eg-mcp/internal/source"
	"github.com/ironsheep/eg-mcp/internal/theme"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

var (
	// ErrUnknownOperation is returned for tool names and resource URIs the
	// server does not serve.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvalidArguments is returned when tool arguments do not decode or a
	// required argument is missing.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "get_component").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// Content is one typed part of a tool result.
type Content struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// ToolResult is the result of a tools/call request.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

func textResult(text string) *ToolResult {
	return &ToolResult{Content: []Content{{Type: "text", Text: text}}}
}

func jsonResult(v interface{}) *ToolResult {
	return textResult(mustMarshalJSON(v))
}

// errorResult converts a handler failure into an error payload.
func errorResult(err error) *ToolResult {
	return &ToolResult{
		Content: []Content{{Type: "text", Text: "Error: " + err.Error()}},
		IsError: true,
	}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "..."}]
//	}
//
// Tool failures (unknown tool, unknown component, unreadable file, bad
// arguments) are reported in-band with "isError": true. Only malformed
// params produce a JSON-RPC error.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  s.executeTool(params.Name, params.Arguments),
	}
}

// executeTool dispatches to the handler registered for name and normalizes
// failures into error results.
func (s *Server) executeTool(name string, args json.RawMessage) *ToolResult {
	log := s.log.WithField("tool", name)

	t, ok := s.tools.lookup(name)
	if !ok {
		err := fmt.Errorf("%w: unknown tool: %s", ErrUnknownOperation, name)
		log.WithField("kind", errorKind(err)).Warn("Tool call failed")
		return errorResult(err)
	}

	result, err := t.handler(s, args)
	if err != nil {
		log.WithError(err).WithField("kind", errorKind(err)).Info("Tool call failed")
		return errorResult(err)
	}
	log.Debug("Tool call succeeded")
	return result
}

// errorKind names the taxonomy bucket of err for logs.
func errorKind(err error) string {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnknownOperation):
		return "unknown_operation"
	case errors.Is(err, source.ErrReadFailure):
		return "read_failure"
	case errors.Is(err, ErrInvalidArguments):
		return "invalid_arguments"
	default:
		return "internal"
	}
}

// decodeArgs unmarshals tool arguments. Absent arguments decode as {}.
func decodeArgs(raw json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

func requireArg(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidArguments, name)
	}
	return nil
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// === Registry Handlers ===

type listComponentsArgs struct {
	Category string `json:"category,omitempty" jsonschema:"enum=elements,enum=motion,enum=components" jsonschema_description:"Only list components in this category"`
}

type componentNameArgs struct {
	Name string `json:"name" jsonschema_description:"The name of the component, e.g. Button"`
}

type searchComponentsArgs struct {
	Query string `json:"query" jsonschema_description:"Case-insensitive text matched against name, description and category"`
}

// componentSummary is the list_components row.
type componentSummary struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Path        string `json:"path"`
}

// searchHit is the search_components row.
type searchHit struct {
	componentSummary
	Score   int      `json:"score"`
	Matches []string `json:"matches"`
}

func summarize(e registry.Entry) componentSummary {
	return componentSummary{
		Name:        e.Name,
		Category:    e.Category,
		Description: e.Description,
		Path:        e.Path,
	}
}

func (s *Server) handleListComponents(args json.RawMessage) (*ToolResult, error) {
	var a listComponentsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	entries := s.registry.List(mo.EmptyableToOption(a.Category))
	return jsonResult(lo.Map(entries, func(e registry.Entry, _ int) componentSummary {
		return summarize(e)
	})), nil
}

func (s *Server) handleGetComponent(args json.RawMessage) (*ToolResult, error) {
	entry, err := s.lookupComponent(args)
	if err != nil {
		return nil, err
	}

	src, err := s.reader.Read(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("source of %s: %w", entry.Name, err)
	}
	return textResult(formatComponent(entry, src)), nil
}

func (s *Server) handleGetComponentExamples(args json.RawMessage) (*ToolResult, error) {
	entry, err := s.lookupComponent(args)
	if err != nil {
		return nil, err
	}
	return textResult(formatExamples(entry)), nil
}

func (s *Server) handleSearchComponents(args json.RawMessage) (*ToolResult, error) {
	var a searchComponentsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	matches := s.registry.Search(a.Query)
	if len(matches) == 0 {
		return textResult(fmt.Sprintf("No components found matching %q", a.Query)), nil
	}
	return jsonResult(lo.Map(matches, func(m registry.Match, _ int) searchHit {
		return searchHit{componentSummary: summarize(m.Entry), Score: m.Score, Matches: m.Fields}
	})), nil
}

func (s *Server) handleInstallComponent(args json.RawMessage) (*ToolResult, error) {
	entry, err := s.lookupComponent(args)
	if err != nil {
		return nil, err
	}
	return textResult(formatInstall(entry)), nil
}

func (s *Server) lookupComponent(args json.RawMessage) (registry.Entry, error) {
	var a componentNameArgs
	if err := decodeArgs(args, &a); err != nil {
		return registry.Entry{}, err
	}
	if err := requireArg("name", a.Name); err != nil {
		return registry.Entry{}, err
	}
	return s.registry.Get(a.Name)
}

// === Theme Handlers ===

type themeTokensArgs struct {
	Prefix string `json:"prefix,omitempty" jsonschema_description:"Only return tokens whose name starts with this prefix, e.g. button-"`
	Scope  string `json:"scope,omitempty" jsonschema_description:"Only return tokens declared under this selector, e.g. :root or .dark"`
}

type checkContrastArgs struct {
	Foreground string `json:"foreground" jsonschema_description:"Text color: a CSS color or a theme token name"`
	Background string `json:"background" jsonschema_description:"Background color: a CSS color or a theme token name"`
	Scope      string `json:"scope,omitempty" jsonschema_description:"Selector used to resolve token names. Default :root"`
}

func (s *Server) themeTokens() ([]theme.Token, error) {
	css, err := s.reader.Read(ThemePath)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	return theme.Parse(css), nil
}

func (s *Server) handleGetThemeTokens(args json.RawMessage) (*ToolResult, error) {
	var a themeTokensArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	tokens, err := s.themeTokens()
	if err != nil {
		return nil, err
	}
	tokens = theme.Filter(tokens, a.Prefix)
	if a.Scope != "" {
		tokens = lo.Filter(tokens, func(t theme.Token, _ int) bool {
			return t.Scope == a.Scope
		})
	}
	if tokens == nil {
		tokens = []theme.Token{}
	}
	return jsonResult(tokens), nil
}

func (s *Server) handleCheckContrast(args json.RawMessage) (*ToolResult, error) {
	var a checkContrastArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireArg("foreground", a.Foreground); err != nil {
		return nil, err
	}
	if err := requireArg("background", a.Background); err != nil {
		return nil, err
	}
	scope := a.Scope
	if scope == "" {
		scope = theme.RootScope
	}

	// Literal colors work without a stylesheet; token names need one.
	tokens, themeErr := s.themeTokens()

	fg, err := theme.ResolveColor(tokens, a.Foreground, scope)
	if err != nil {
		return nil, contrastError("foreground", err, themeErr)
	}
	bg, err := theme.ResolveColor(tokens, a.Background, scope)
	if err != nil {
		return nil, contrastError("background", err, themeErr)
	}
	return jsonResult(theme.Contrast(fg, bg)), nil
}

func contrastError(which string, err, themeErr error) error {
	if themeErr != nil {
		return fmt.Errorf("%s: %w (%w)", which, err, themeErr)
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidArguments, which, err)
}

// === Icon Handlers ===

type chainIconArgs struct {
	ChainID   *int `json:"chain_id" jsonschema_description:"EVM chain id, e.g. 1 for Ethereum"`
	Size      int  `json:"size,omitempty" jsonschema:"minimum=8,maximum=512,default=24" jsonschema_description:"Edge length in pixels"`
	Grayscale bool `json:"grayscale,omitempty" jsonschema_description:"Render desaturated, as for an unselected chain"`
}

type tokenIconArgs struct {
	ChainID   *int   `json:"chain_id" jsonschema_description:"EVM chain id the token lives on"`
	Address   string `json:"address" jsonschema:"pattern=^0x[0-9a-fA-F]{40}$" jsonschema_description:"Token contract address, 0x followed by 40 hex digits"`
	Size      int    `json:"size,omitempty" jsonschema:"minimum=8,maximum=512,default=24" jsonschema_description:"Edge length in pixels"`
	Grayscale bool   `json:"grayscale,omitempty" jsonschema_description:"Render desaturated"`
}

func requireChainID(id *int) (int, error) {
	if id == nil {
		return 0, fmt.Errorf("%w: chain_id is required", ErrInvalidArguments)
	}
	if *id <= 0 {
		return 0, fmt.Errorf("%w: chain_id must be positive", ErrInvalidArguments)
	}
	return *id, nil
}

func (s *Server) handleGetChainIcon(args json.RawMessage) (*ToolResult, error) {
	var a chainIconArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	chainID, err := requireChainID(a.ChainID)
	if err != nil {
		return nil, err
	}

	res, err := s.icons.Chain(chainID, icons.Options{Size: a.Size, Grayscale: a.Grayscale})
	if err != nil {
		return nil, err
	}
	return iconResult(res), nil
}

func (s *Server) handleGetTokenIcon(args json.RawMessage) (*ToolResult, error) {
	var a tokenIconArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	chainID, err := requireChainID(a.ChainID)
	if err != nil {
		return nil, err
	}
	if err := requireArg("address", a.Address); err != nil {
		return nil, err
	}
	if !icons.ValidAddress(a.Address) {
		return nil, fmt.Errorf("%w: address must be 0x followed by 40 hex digits: %q", ErrInvalidArguments, a.Address)
	}

	res, err := s.icons.Token(chainID, a.Address, icons.Options{Size: a.Size, Grayscale: a.Grayscale})
	if err != nil {
		return nil, err
	}
	return iconResult(res), nil
}

func iconResult(res *icons.Result) *ToolResult {
	return &ToolResult{
		Content: []Content{
			{Type: "image", Data: res.ImageBase64, MimeType: res.MimeType},
			{Type: "text", Text: mustMarshalJSON(res)},
		},
	}
}
