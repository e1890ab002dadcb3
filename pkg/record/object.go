package record

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Object is a JSON object in its decoded form. Fragments, skeletons and assembled
// records are all Objects until decoded into a Record.
type Object = map[string]any

// Clone returns a deep copy of o. Nested objects and arrays are copied; scalars are shared.
// Typed maps, slices and structs are converted to their generic JSON form first.
func Clone(o Object) Object {
	if o == nil {
		return nil
	}
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		if v == nil {
			return nil
		}
		switch reflect.TypeOf(v).Kind() {
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
			generic, err := toValue(v)
			if err != nil {
				return v
			}
			return cloneValue(generic)
		}
		return v
	}
}

// Lookup returns the value at a dot separated path, e.g. "identification.title.value".
// Returns false if any part of the path is missing or not an object.
func Lookup(o Object, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	return accessPath(o, strings.Split(path, "."))
}

// accessPath traverses nested objects using the remaining path parts.
func accessPath(value any, parts []string) (any, bool) {
	if len(parts) == 0 {
		return value, true
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	next, ok := m[parts[0]]
	if !ok {
		return nil, false
	}
	return accessPath(next, parts[1:])
}

// LookupString is Lookup for string leaves. Missing or non-string values give "".
func LookupString(o Object, path string) string {
	v, _ := Lookup(o, path)
	s, _ := v.(string)
	return s
}

// nest wraps value in objects keyed by each path part, outermost first.
// nest("identification.title", v) == {"identification": {"title": v}}
func nest(path string, value any) Object {
	parts := strings.Split(path, ".")
	out := Object{parts[len(parts)-1]: value}
	for i := len(parts) - 2; i >= 0; i-- {
		out = Object{parts[i]: out}
	}
	return out
}

// ToObject converts any JSON serialisable value into an Object.
func ToObject(v any) (Object, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	var o Object
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return o, nil
}

// toValue converts v into its generic JSON form (object, array or scalar).
func toValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return out, nil
}
