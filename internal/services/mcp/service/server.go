// Package service serves the lectern MCP tools over a transport
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"lectern/internal/core/version"
	"lectern/internal/modkit"
	"lectern/internal/platform/logger"
	"lectern/internal/services/mcp/domain"
)

// Name is reported to MCP clients during initialization
const Name = "lectern"

// Server wraps the MCP server and the tools registered on it
type Server struct {
	mcpServer *mcp.Server
	tools     []string
	log       logger.Logger
}

// Option configures a Server
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock calendar_day uses for an empty date
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New builds a server exposing every adapter present in deps
func New(deps modkit.Deps, opts ...Option) *Server {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}

	info := version.Info("lectern-mcp")
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: Name, Version: info.Version}, nil),
		log:       deps.Log,
	}

	// nil adapters are skipped so a typed nil never reaches a handler
	if deps.Scripture != nil {
		s.add("scripture_search", func(m *mcp.Server) {
			mcp.AddTool(m, domain.ScriptureSearchTool(), domain.ScriptureSearchHandler(deps.Scripture))
		})
		s.add("scripture_chapter", func(m *mcp.Server) {
			mcp.AddTool(m, domain.ScriptureChapterTool(), domain.ScriptureChapterHandler(deps.Scripture))
		})
	}
	if deps.Calendar != nil {
		s.add("calendar_day", func(m *mcp.Server) {
			mcp.AddTool(m, domain.CalendarDayTool(), domain.CalendarDayHandler(deps.Calendar, o.now))
		})
	}
	if deps.Synaxarium != nil {
		s.add("synaxarium_day", func(m *mcp.Server) {
			mcp.AddTool(m, domain.SynaxariumDayTool(), domain.SynaxariumDayHandler(deps.Synaxarium))
		})
	}
	if deps.Documents != nil {
		s.add("document_read", func(m *mcp.Server) {
			mcp.AddTool(m, domain.DocumentReadTool(), domain.DocumentReadHandler(deps.Documents))
		})
		s.add("document_search", func(m *mcp.Server) {
			mcp.AddTool(m, domain.DocumentSearchTool(), domain.DocumentSearchHandler(deps.Documents))
		})
	}
	return s
}

func (s *Server) add(name string, register func(*mcp.Server)) {
	register(s.mcpServer)
	s.tools = append(s.tools, name)
}

// Tools lists the registered tool names in registration order
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

// Serve runs the server on stdio until the client disconnects or ctx ends
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("mcp server is not configured")
	}
	s.log.Info().Strs("tools", s.tools).Msg("mcp serving")
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve mcp: %w", err)
	}
	return nil
}
