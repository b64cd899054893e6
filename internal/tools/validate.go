package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
)

// ValidationError reports an argument that does not match its declaration.
// No request is sent when validation fails.
type ValidationError struct {
	Tool   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
	}
	return fmt.Sprintf("invalid argument %q for %s: %s", e.Field, e.Tool, e.Reason)
}

// Validate checks args against params and returns the arguments to send.
// Defaults fill absent optional fields. Unset values (nil, "", empty lists
// and maps) and undeclared names are dropped, so the result only carries
// what the caller actually supplied plus declared defaults.
func Validate(tool string, params []Param, args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for _, p := range params {
		v, ok := args[p.Name]
		if !ok || isUnset(v) {
			switch {
			case p.Default != nil:
				out[p.Name] = p.Default
			case p.Required:
				return nil, &ValidationError{Tool: tool, Field: p.Name, Reason: "is required"}
			}
			continue
		}

		normalized, err := checkType(p, v)
		if err != nil {
			return nil, &ValidationError{Tool: tool, Field: p.Name, Reason: err.Error()}
		}
		if err := checkEnum(p, normalized); err != nil {
			return nil, &ValidationError{Tool: tool, Field: p.Name, Reason: err.Error()}
		}
		out[p.Name] = normalized
	}
	return out, nil
}

func isUnset(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func checkType(p Param, v any) (any, error) {
	switch p.Type {
	case Number:
		f, ok := asNumber(v)
		if !ok {
			return nil, fmt.Errorf("expected a number, got %s", typeName(v))
		}
		return f, nil
	case Integer:
		f, ok := asNumber(v)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("expected an integer, got %s", describe(v))
		}
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, fmt.Errorf("integer %s out of range", describe(v))
		}
		return int64(f), nil
	case Boolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("expected a boolean, got %s", typeName(v))
	case Array:
		items, ok := asList(v)
		if !ok {
			return nil, fmt.Errorf("expected an array, got %s", typeName(v))
		}
		elem := Param{Name: p.Name, Type: itemType(p)}
		out := make([]any, 0, len(items))
		for i, item := range items {
			n, err := checkType(elem, item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i+1, err)
			}
			out = append(out, n)
		}
		return out, nil
	case Object:
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
		return nil, fmt.Errorf("expected an object, got %s", typeName(v))
	default:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("expected a string, got %s", typeName(v))
	}
}

func checkEnum(p Param, v any) error {
	if len(p.Enum) == 0 {
		return nil
	}
	check := func(s string) error {
		if !slices.Contains(p.Enum, s) {
			return fmt.Errorf("must be one of %s", strings.Join(p.Enum, ", "))
		}
		return nil
	}
	switch t := v.(type) {
	case string:
		return check(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				if err := check(s); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return toFloat(v)
}

func asList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

func describe(v any) string {
	if f, ok := asNumber(v); ok {
		return fmt.Sprintf("%v", f)
	}
	return typeName(v)
}
