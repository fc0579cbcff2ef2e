// Package server exposes the Maccy clipboard history as MCP tools over
// stdio. It is the single dispatch point of the process: every tool call
// gets a request-scoped correlation id, every error from the taxonomy is
// converted into an error-flagged result, and store handles are closed on
// every exit path.
package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mattjh/maccy-mcp/pkg/config"
	"github.com/mattjh/maccy-mcp/pkg/history"
	"github.com/mattjh/maccy-mcp/pkg/logging"
	"github.com/mattjh/maccy-mcp/pkg/normalize"
)

const (
	serverName = "maccy-mcp"

	// Version is the server version reported during MCP initialization.
	Version = "0.2.0"
)

// Server wires the history store, normalizer and transport together.
type Server struct {
	cfg        config.Config
	log        *logging.Logger
	strictness normalize.Strictness
	mcp        *mcpserver.MCPServer
}

// New builds the server and registers its tools.
func New(cfg config.Config, log *logging.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		log:        log,
		strictness: cfg.Strictness(),
	}
	s.mcp = mcpserver.NewMCPServer(serverName, Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	s.registerTools()
	return s
}

// ServeStdio runs the server on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.log.Infof("serving MCP over stdio, session=%s strictness=%s", s.log.SessionID(), s.strictness)
	return mcpserver.ServeStdio(s.mcp)
}

// handler is the shape of the typed tool handlers before dispatch wrapping.
type handler func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// dispatch adapts a handler into the transport's shape. It attaches the
// request id, logs start/finish, converts taxonomy errors to error-flagged
// results, and verifies the assembled result survives serialization before
// handing it to the wire.
func (s *Server) dispatch(name string, h handler) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, reqID := withRequestID(ctx)
		start := time.Now()
		s.log.Infof("[%s] tool=%s start", reqID, name)

		res, err := h(ctx, req)
		if err == nil && res != nil {
			if _, mErr := json.Marshal(res); mErr != nil {
				err = &SerializationError{Err: mErr}
			}
		}
		if err != nil {
			s.log.Errorf("[%s] tool=%s failed after %s: %v", reqID, name, time.Since(start), err)
			return mcp.NewToolResultError(userMessage(err)), nil
		}

		s.log.Infof("[%s] tool=%s done in %s", reqID, name, time.Since(start))
		return res, nil
	}
}

// openStore opens a fresh handle on the history database for one request.
// The caller must defer Close.
func (s *Server) openStore() (*history.Store, error) {
	path := s.cfg.DatabasePath
	if path == "" {
		p, err := history.DefaultPath()
		if err != nil {
			return nil, &IOError{Op: "locate history database", Err: err}
		}
		path = p
	}
	st, err := history.Open(path, time.Duration(s.cfg.BusyTimeoutMS)*time.Millisecond)
	if err != nil {
		return nil, &IOError{Op: "open history database", Err: err}
	}
	return st, nil
}

// clampLimit resolves a requested limit against the configured bounds.
func (s *Server) clampLimit(requested int) int {
	if requested <= 0 {
		return s.cfg.DefaultLimit
	}
	if requested > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return requested
}

func (s *Server) formatOptions(includeImages bool) formatOptions {
	return formatOptions{
		includeImages: includeImages,
		displayWidth:  s.cfg.ImageDisplayWidth,
		strictness:    s.strictness,
	}
}
