package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bobmcallan/volc-mcp/internal/common"
	"github.com/bobmcallan/volc-mcp/internal/config"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP transport
	switch s.cfg.Server.Transport {
	case config.TransportSSE:
		s.sse = mcpserver.NewSSEServer(s.mcp)
		mux.Handle("/sse", streamHandler(s.sse))
		mux.Handle("/message", s.sse)
	default:
		mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(s.mcp, mcpserver.WithStateLess(true)))
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// streamHandler lifts the server WriteTimeout for long-lived event streams.
// The deadline is set per connection when the request starts.
func streamHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
			http.Error(w, "Failed to open stream", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   common.Info().Version,
		"transport": s.cfg.Server.Transport,
		"tools":     s.registry.Len(),
	})
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error":   "Not Found",
		"message": "The requested endpoint does not exist",
	})
}

// writeJSON writes a JSON response with the specified status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}
