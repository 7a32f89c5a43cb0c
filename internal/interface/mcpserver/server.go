// Package mcpserver exposes the skin guide as an MCP tool server over streamable HTTP.
package mcpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yanqian/skinguide/internal/domain/auth"
	"github.com/yanqian/skinguide/internal/domain/catalog"
	"github.com/yanqian/skinguide/internal/domain/personalization"
	"github.com/yanqian/skinguide/internal/domain/skinlog"
	apperrors "github.com/yanqian/skinguide/pkg/errors"
	"github.com/yanqian/skinguide/pkg/metrics"
)

// Config describes how the MCP server announces and mounts itself.
type Config struct {
	Name         string
	Version      string
	EndpointPath string
	Stateless    bool
	PublicHost   string
}

// Server owns the MCP tool registry and its HTTP transport.
type Server struct {
	cfg             Config
	catalog         catalog.Service
	skinLogs        skinlog.Service
	personalization personalization.Service
	recorder        *metrics.Recorder
	logger          *slog.Logger

	mcp       *server.MCPServer
	transport *server.StreamableHTTPServer
	handlers  map[string]server.ToolHandlerFunc
}

// NewServer registers every tool and the widget resource.
func NewServer(
	cfg Config,
	catalogSvc catalog.Service,
	skinLogSvc skinlog.Service,
	personalizationSvc personalization.Service,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) *Server {
	if cfg.Name == "" {
		cfg.Name = "kbeauty-skin-guide"
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	s := &Server{
		cfg:             cfg,
		catalog:         catalogSvc,
		skinLogs:        skinLogSvc,
		personalization: personalizationSvc,
		recorder:        recorder,
		logger:          logger.With("component", "mcp.server"),
		handlers:        make(map[string]server.ToolHandlerFunc),
	}
	s.mcp = server.NewMCPServer(cfg.Name, cfg.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)
	s.registerTools()
	s.registerWidget()
	s.transport = server.NewStreamableHTTPServer(s.mcp,
		server.WithEndpointPath(cfg.EndpointPath),
		server.WithStateLess(cfg.Stateless),
		server.WithHTTPContextFunc(identityFromRequest),
	)
	return s
}

// Handler serves the MCP endpoint.
func (s *Server) Handler() http.Handler {
	return s.transport
}

// EndpointPath is where Handler expects to be mounted.
func (s *Server) EndpointPath() string {
	return s.cfg.EndpointPath
}

// CallTool invokes a registered tool in process, bypassing the transport.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	handler, ok := s.handlers[name]
	if !ok {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "unknown tool "+name, nil)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return handler(ctx, req)
}

// ToolNames lists the registered tools.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResourceMetadataURL is the protected resource document clients are sent to for sign-in.
func (s *Server) ResourceMetadataURL() string {
	host := strings.TrimSuffix(s.cfg.PublicHost, "/")
	if host == "" {
		host = "localhost:8080"
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return host + "/.well-known/oauth-protected-resource"
}

// toolFunc returns the structured payload and a one-line summary.
type toolFunc func(ctx context.Context, req mcp.CallToolRequest) (any, string, error)

// authedToolFunc additionally receives the verified caller.
type authedToolFunc func(ctx context.Context, userID string, req mcp.CallToolRequest) (any, string, error)

func (s *Server) handle(name string, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		payload, summary, err := fn(ctx, req)
		outcome := metrics.OutcomeOK
		var result *mcp.CallToolResult
		switch {
		case err == nil:
			result = mcp.NewToolResultStructured(payload, summary)
		case apperrors.IsCode(err, apperrors.CodeAuthRequired):
			outcome = metrics.OutcomeAuthRequired
			result = s.authRequiredResult()
		default:
			outcome = metrics.OutcomeError
			s.logger.Error("tool call failed", "tool", name, "error", err)
			result = mcp.NewToolResultError("Error: " + errorMessage(err))
		}
		s.recorder.ObserveToolCall(name, outcome, time.Since(start))
		return result, nil
	}
}

// identityFromRequest carries the identity verified by the HTTP layer into tool handlers.
func identityFromRequest(ctx context.Context, r *http.Request) context.Context {
	if identity, ok := auth.IdentityFrom(r.Context()); ok {
		return auth.WithIdentity(ctx, identity)
	}
	return ctx
}

// withUser resolves the caller identity; absence is reported as auth_required.
func withUser(fn authedToolFunc) toolFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (any, string, error) {
		identity, ok := auth.IdentityFrom(ctx)
		if !ok {
			return nil, "", apperrors.Wrap(apperrors.CodeAuthRequired, "sign in required", nil)
		}
		return fn(ctx, identity.UserID(), req)
	}
}

// AuthRequired is the structured body of a sign-in prompt.
type AuthRequired struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ResourceMetadata string `json:"resource_metadata"`
	WWWAuthenticate  string `json:"www_authenticate"`
}

const signInPrompt = "Please sign in to access your skin diary."

func (s *Server) authRequiredResult() *mcp.CallToolResult {
	metadata := s.ResourceMetadataURL()
	body := AuthRequired{
		Error:            "insufficient_scope",
		ErrorDescription: "Sign in required to continue",
		ResourceMetadata: metadata,
		WWWAuthenticate:  `Bearer resource_metadata="` + metadata + `", error="insufficient_scope", error_description="Sign in required to continue"`,
	}
	result := mcp.NewToolResultStructured(body, signInPrompt)
	result.IsError = true
	return result
}

// errorMessage keeps wrapped internals out of client-visible text.
func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "unexpected error"
}
