package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// ParamType is the JSON type of a tool argument.
type ParamType string

const (
	String  ParamType = "string"
	Number  ParamType = "number"
	Integer ParamType = "integer"
	Boolean ParamType = "boolean"
	Array   ParamType = "array"
	Object  ParamType = "object"
)

// Location says where an argument goes in the outbound request.
type Location string

const (
	InDefault Location = ""      // query for GET and DELETE, body otherwise
	InQuery   Location = "query" // flattened into the query string
	InBody    Location = "body"  // JSON (or form) body
	InPath    Location = "path"  // substituted into {name} in the path
)

// Param declares one tool input. Declarations drive both the schema the
// host sees and the validation applied before any request is built.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
	Default     any
	Items       ParamType // element type for arrays, defaults to string
	In          Location
}

// option maps a Param to the matching mcp-go tool option.
func (p Param) option() mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}
	if len(p.Enum) > 0 && p.Type == String {
		opts = append(opts, mcp.Enum(p.Enum...))
	}

	switch p.Type {
	case Number, Integer:
		if d, ok := toFloat(p.Default); ok {
			opts = append(opts, mcp.DefaultNumber(d))
		}
		return mcp.WithNumber(p.Name, opts...)
	case Boolean:
		if d, ok := p.Default.(bool); ok {
			opts = append(opts, mcp.DefaultBool(d))
		}
		return mcp.WithBoolean(p.Name, opts...)
	case Array:
		items := map[string]any{"type": string(itemType(p))}
		if len(p.Enum) > 0 {
			items["enum"] = p.Enum
		}
		opts = append([]mcp.PropertyOption{mcp.Items(items)}, opts...)
		return mcp.WithArray(p.Name, opts...)
	case Object:
		return mcp.WithObject(p.Name, opts...)
	default:
		if d, ok := p.Default.(string); ok {
			opts = append(opts, mcp.DefaultString(d))
		}
		return mcp.WithString(p.Name, opts...)
	}
}

func itemType(p Param) ParamType {
	if p.Items == "" {
		return String
	}
	return p.Items
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Pagination returns the usual PageNumber/PageSize pair with the OpenAPI
// defaults of 1 and 100.
func Pagination() []Param {
	return []Param{
		{Name: "PageNumber", Type: Integer, Description: "Page number, starting at 1.", Default: 1},
		{Name: "PageSize", Type: Integer, Description: "Entries per page.", Default: 100},
	}
}
