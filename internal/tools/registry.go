package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/volc-mcp/internal/common"
	"github.com/bobmcallan/volc-mcp/internal/volc"
)

// ErrToolNotFound is returned when invoking a name that was never registered.
var ErrToolNotFound = errors.New("tool not found")

// Registry maps tool names to tools. It is built once at startup and is
// read-only afterwards.
type Registry struct {
	tools  map[string]Tool
	names  []string
	logger *common.Logger
}

// NewRegistry registers every tool. Duplicate or empty names are an error.
func NewRegistry(logger *common.Logger, tools ...Tool) (*Registry, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	r := &Registry{tools: make(map[string]Tool, len(tools)), logger: logger}
	for _, t := range tools {
		if err := r.add(t); err != nil {
			return nil, err
		}
	}
	sort.Strings(r.names)
	return r, nil
}

func (r *Registry) add(t Tool) error {
	name := t.Name()
	if name == "" {
		return fmt.Errorf("cannot register a tool with an empty name")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q registered twice", name)
	}
	r.tools[name] = t
	r.names = append(r.names, name)
	return nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return t, nil
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// Invoke dispatches one call by name.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return t.Invoke(ctx, args)
}

// AddTo exposes every registered tool on s and returns the count.
func (r *Registry) AddTo(s *server.MCPServer) int {
	for _, name := range r.names {
		s.AddTool(r.tools[name].Definition(), r.Handler(name))
	}
	return len(r.names)
}

// Handler returns the MCP handler for name. Tool failures are reported as
// error results so the host sees the message; the handler itself only
// returns an error when the result cannot be encoded.
func (r *Registry) Handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := r.logger.WithCorrelationId(uuid.New().String())
		start := time.Now()

		result, err := r.Invoke(ctx, name, request.GetArguments())
		duration := time.Since(start)
		status := outcome(err)
		observeToolCall(name, status, duration)

		if err != nil {
			logger.Warn().
				Str("tool", name).
				Str("status", status).
				Int64("duration_ms", duration.Milliseconds()).
				Str("error", err.Error()).
				Msg("tool call failed")
			return errorResult(err.Error()), nil
		}

		logger.Info().
			Str("tool", name).
			Int64("duration_ms", duration.Milliseconds()).
			Msg("tool call")

		out, err := json.Marshal(result)
		if err != nil {
			return errorResult(fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(out))},
		}, nil
	}
}

// outcome labels a call result for logs and metrics.
func outcome(err error) string {
	var validation *ValidationError
	var execution *volc.ExecutionError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrToolNotFound):
		return "not_found"
	case errors.As(err, &validation):
		return "invalid_arguments"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.As(err, &execution):
		return "execution_error"
	}
	return "error"
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
