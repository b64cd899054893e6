// Package server hosts the tool registry on an MCP server over stdio, SSE or
// streamable HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/volc-mcp/internal/common"
	"github.com/bobmcallan/volc-mcp/internal/config"
	"github.com/bobmcallan/volc-mcp/internal/tools"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Server owns the MCP server and, for HTTP transports, the HTTP server.
type Server struct {
	cfg      *config.Config
	registry *tools.Registry
	logger   *common.Logger
	mcp      *mcpserver.MCPServer
	router   *http.ServeMux
	server   *http.Server
	sse      *mcpserver.SSEServer
}

// New creates the MCP server and registers every tool in registry.
func New(cfg *config.Config, registry *tools.Registry, logger *common.Logger) *Server {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	s := &Server{
		cfg:      cfg,
		registry: registry,
		logger:   logger,
	}

	s.mcp = mcpserver.NewMCPServer(
		cfg.Server.Name,
		common.Info().Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
		mcpserver.WithLogging(),
	)
	n := registry.AddTo(s.mcp)
	logger.Info().Int("tools", n).Msg("tools registered")

	if cfg.Server.Transport != config.TransportStdio {
		s.router = s.setupRoutes()
		s.server = &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      s.withMiddleware(s.router),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 300 * time.Second, // long-running upstream calls
			IdleTimeout:  120 * time.Second,
		}
	}

	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// Handler returns the HTTP handler for testing. It is nil for stdio.
func (s *Server) Handler() http.Handler {
	if s.server == nil {
		return nil
	}
	return s.server.Handler
}

// Serve runs the configured transport until ctx is cancelled or the
// transport ends.
func (s *Server) Serve(ctx context.Context) error {
	if s.server == nil {
		return s.ServeStdio(ctx, os.Stdin, os.Stdout)
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeStdio serves JSON-RPC over in and out. Logs must never go to out.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := mcpserver.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(&logWriter{logger: s.logger}, "", 0))

	s.logger.Info().Str("transport", config.TransportStdio).Msg("serving")
	err := stdio.Listen(ctx, in, out)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		s.logger.Info().Str("transport", config.TransportStdio).Msg("stdio transport closed")
		return nil
	}
	return fmt.Errorf("stdio transport failed: %w", err)
}

// ServeListener serves HTTP on ln and shuts down gracefully when ctx ends.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	if s.server == nil {
		return fmt.Errorf("transport %s does not serve HTTP", s.cfg.Server.Transport)
	}

	s.logger.Info().
		Str("transport", s.cfg.Server.Transport).
		Str("address", ln.Addr().String()).
		Str("url", fmt.Sprintf("http://%s%s", ln.Addr().String(), s.endpointPath())).
		Msg("serving")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info().Msg("shutting down HTTP server")

	if s.sse != nil {
		if err := s.sse.Shutdown(ctx); err != nil {
			s.logger.Warn().Str("error", err.Error()).Msg("sse shutdown failed")
		}
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

func (s *Server) endpointPath() string {
	if s.cfg.Server.Transport == config.TransportSSE {
		return "/sse"
	}
	return "/mcp"
}

// logWriter routes the stdio transport's error log into the structured logger.
type logWriter struct {
	logger *common.Logger
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.logger.Warn().Str("transport", config.TransportStdio).Msg(strings.TrimSpace(string(p)))
	return len(p), nil
}
