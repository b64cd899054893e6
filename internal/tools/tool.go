package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/volc-mcp/internal/volc"
)

// Tool is a named capability with a declared input schema. Invoke returns
// the upstream result mapping unchanged.
type Tool interface {
	Name() string
	Definition() mcp.Tool
	Invoke(ctx context.Context, args map[string]any) (map[string]any, error)
}

// Caller sends one upstream request. *volc.Client satisfies it.
type Caller interface {
	Do(ctx context.Context, call volc.Call) (*volc.Response, error)
}

// allowedMethods is the whitelist of HTTP methods for API tools.
var allowedMethods = map[string]bool{
	http.MethodGet: true, http.MethodPost: true, http.MethodPut: true,
	http.MethodPatch: true, http.MethodDelete: true,
}

// Spec is one row of an adapter's capability table.
type Spec struct {
	Name        string
	Description string
	Action      string // OpenAPI action; empty for path-routed APIs
	Version     string // overrides the endpoint version
	Method      string // defaults to GET
	Path        string // may contain {param} placeholders
	Form        bool
	Params      []Param

	ReadOnly    bool
	Destructive bool

	// AllowEmptyResult accepts a response without a Result object, as
	// returned by state-changing actions. Otherwise a missing result is an
	// execution error.
	AllowEmptyResult bool
}

func (s Spec) method() string {
	if s.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(s.Method)
}

// location resolves where p is sent for this spec.
func (s Spec) location(p Param) Location {
	if p.In != InDefault {
		return p.In
	}
	if m := s.method(); m == http.MethodGet || m == http.MethodDelete {
		return InQuery
	}
	return InBody
}

// Check reports structural problems with a spec row.
func (s Spec) Check() error {
	if s.Name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if s.Action == "" && s.Path == "" {
		return fmt.Errorf("tool %q has neither action nor path", s.Name)
	}
	if !allowedMethods[s.method()] {
		return fmt.Errorf("tool %q has unsupported method %q", s.Name, s.Method)
	}
	if strings.Contains(s.Path, "..") {
		return fmt.Errorf("tool %q has invalid path %q (contains ..)", s.Name, s.Path)
	}
	seen := make(map[string]bool, len(s.Params))
	for _, p := range s.Params {
		if p.Name == "" {
			return fmt.Errorf("tool %q has a parameter with empty name", s.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool %q declares parameter %q twice", s.Name, p.Name)
		}
		seen[p.Name] = true
		if s.location(p) == InPath {
			if !strings.Contains(s.Path, "{"+p.Name+"}") {
				return fmt.Errorf("tool %q path %q has no placeholder for %q", s.Name, s.Path, p.Name)
			}
			if !p.Required && p.Default == nil {
				return fmt.Errorf("tool %q path parameter %q must be required or have a default", s.Name, p.Name)
			}
		}
	}
	return nil
}

// Definition builds the MCP tool schema for the spec.
func (s Spec) Definition() mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(s.Description)}
	for _, p := range s.Params {
		opts = append(opts, p.option())
	}
	if s.ReadOnly {
		opts = append(opts, mcp.WithReadOnlyHintAnnotation(true))
	}
	if s.Destructive {
		opts = append(opts, mcp.WithDestructiveHintAnnotation(true))
	}
	return mcp.NewTool(s.Name, opts...)
}

// APITool invokes one upstream action through a Caller.
type APITool struct {
	spec   Spec
	caller Caller
}

// NewAPITool binds spec to caller.
func NewAPITool(spec Spec, caller Caller) (*APITool, error) {
	if err := spec.Check(); err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, fmt.Errorf("tool %q has no client", spec.Name)
	}
	return &APITool{spec: spec, caller: caller}, nil
}

// Bind creates tools for every spec, all sharing one caller.
func Bind(specs []Spec, caller Caller) ([]Tool, error) {
	out := make([]Tool, 0, len(specs))
	for _, s := range specs {
		t, err := NewAPITool(s, caller)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (t *APITool) Name() string { return t.spec.Name }
func (t *APITool) Definition() mcp.Tool { return t.spec.Definition() }

// Invoke validates args, sends exactly one request, and returns the
// upstream result mapping.
func (t *APITool) Invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	values, err := Validate(t.spec.Name, t.spec.Params, args)
	if err != nil {
		return nil, err
	}

	call := volc.Call{
		Action:  t.spec.Action,
		Version: t.spec.Version,
		Method:  t.spec.method(),
		Path:    t.spec.Path,
		Form:    t.spec.Form,
	}

	for _, p := range t.spec.Params {
		v, ok := values[p.Name]
		if !ok {
			continue
		}
		switch t.spec.location(p) {
		case InPath:
			call.Path = strings.ReplaceAll(call.Path, "{"+p.Name+"}", url.PathEscape(fmt.Sprint(v)))
		case InQuery:
			if call.Query == nil {
				call.Query = map[string]any{}
			}
			call.Query[p.Name] = v
		default:
			if call.Body == nil {
				call.Body = map[string]any{}
			}
			call.Body[p.Name] = v
		}
	}

	resp, err := t.caller.Do(ctx, call)
	if err != nil {
		return nil, err
	}
	if resp.Result == nil {
		if !t.spec.AllowEmptyResult {
			return nil, &volc.ExecutionError{Action: call.Name(), Message: "no result in response", Err: volc.ErrEmptyResponse}
		}
		return map[string]any{"RequestId": resp.Metadata.RequestID}, nil
	}
	return resp.Result, nil
}

// FuncHandler computes a local tool result.
type FuncHandler func(ctx context.Context, args map[string]any) (map[string]any, error)

// Func is a tool answered locally without an upstream call.
type Func struct {
	name        string
	description string
	params      []Param
	fn          FuncHandler
}

// NewFunc creates a local tool.
func NewFunc(name, description string, params []Param, fn FuncHandler) *Func {
	return &Func{name: name, description: description, params: params, fn: fn}
}

func (f *Func) Name() string { return f.name }

func (f *Func) Definition() mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(f.description), mcp.WithReadOnlyHintAnnotation(true)}
	for _, p := range f.params {
		opts = append(opts, p.option())
	}
	return mcp.NewTool(f.name, opts...)
}

func (f *Func) Invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	values, err := Validate(f.name, f.params, args)
	if err != nil {
		return nil, err
	}
	return f.fn(ctx, values)
}
