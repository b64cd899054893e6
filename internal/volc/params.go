package volc

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
)

// NormalizeQuery flattens tool arguments into OpenAPI query parameters.
// Numbers and booleans become strings, lists become 1-based Name.N entries
// and nested objects become Name.Key entries. Nil and empty values are dropped.
func NormalizeQuery(params map[string]any) url.Values {
	out := url.Values{}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		flatten(k, params[k], out)
	}
	return out
}

func flatten(name string, v any, out url.Values) {
	if v == nil {
		return
	}
	if s, ok := scalarString(v); ok {
		if s != "" {
			out.Add(name, s)
		}
		return
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			flatten(fmt.Sprintf("%s.%d", name, i+1), rv.Index(i).Interface(), out)
		}
	case reflect.Map:
		entries := make(map[string]any, rv.Len())
		keys := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			entries[k] = iter.Value().Interface()
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flatten(name+"."+k, entries[k], out)
		}
	case reflect.Pointer:
		if !rv.IsNil() {
			flatten(name, rv.Elem().Interface(), out)
		}
	default:
		out.Add(name, fmt.Sprint(v))
	}
}

// scalarString formats the scalar types tool arguments decode into.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case uint32:
		return strconv.FormatUint(uint64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case json.Number:
		return t.String(), true
	}
	return "", false
}
