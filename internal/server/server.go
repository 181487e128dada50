package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slog"

	"github.com/ironsheep/regionpng/internal/config"
	"github.com/ironsheep/regionpng/internal/imaging"
)

// Name and Version are reported to clients during initialize.
const (
	Name    = "regionpng-mcp"
	Version = "0.1.0"
)

// protocolVersion is the MCP revision the server speaks.
const protocolVersion = "2024-11-05"

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// maxRequestSize bounds one request line.
const maxRequestSize = 1 << 20

// MCPRequest is an incoming JSON-RPC request. A request without an ID is a
// notification and gets no response.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse is an outgoing JSON-RPC response carrying either Result or
// Error.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError is the error member of a response.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification is an outgoing message without an ID.
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type methodFunc func(s *Server, req *MCPRequest) *MCPResponse

var methods = map[string]methodFunc{
	"initialize": (*Server).handleInitialize,
	"tools/list": (*Server).handleToolsList,
	"tools/call": (*Server).handleToolsCall,
	"ping": func(_ *Server, req *MCPRequest) *MCPResponse {
		return reply(req.ID, map[string]interface{}{})
	},
}

// Server exposes the partitioning tools over MCP.
type Server struct {
	cache  *imaging.ImageCache
	cfg    config.Config
	logger *slog.Logger
}

// New creates a new MCP server. cfg supplies the defaults for partitioning
// tools; a nil logger uses slog.Default.
func New(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cache:  imaging.NewImageCache(),
		cfg:    cfg,
		logger: logger,
	}
}

// Run serves stdin and stdout until stdin is closed.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve handles one JSON-RPC message per line of r and writes each response
// as one line to w. It returns when r is exhausted or a response cannot be
// written.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	in := bufio.NewScanner(r)
	in.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
	out := json.NewEncoder(w)

	for in.Scan() {
		resp := s.serveLine(in.Bytes())
		if resp == nil {
			continue
		}
		if err := out.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
	if err := in.Err(); err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	return nil
}

// serveLine decodes and dispatches a single message. Blank lines and
// notifications yield nil.
func (s *Server) serveLine(line []byte) *MCPResponse {
	if len(strings.TrimSpace(string(line))) == 0 {
		return nil
	}

	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn("unparsable request", "err", err)
		return failure(nil, codeParseError, "Parse error", err.Error())
	}
	s.logger.Debug("request", "method", req.Method, "id", req.ID)
	return s.handleRequest(&req)
}

// handleRequest routes req to its method handler. Client notifications need
// no response.
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	if strings.HasPrefix(req.Method, "notifications/") {
		return nil
	}
	m, ok := methods[req.Method]
	if !ok {
		return failure(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
	return m(s, req)
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return reply(req.ID, map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    Name,
			"version": Version,
		},
	})
}

func reply(id, result interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func failure(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}
