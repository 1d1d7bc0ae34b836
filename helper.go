// File: lixenwraith/layercfg/helper.go
package layercfg

import (
	"encoding/json"
	"fmt"
	"strings"
)

// normalizeTree converts parser output into the tree types used throughout the
// package: map[string]any, []any and scalars. YAML mappings with non-string keys
// get stringified keys, TOML arrays of tables become []any and JSON numbers are
// narrowed to int64 or float64.
func normalizeTree(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = normalizeTree(child)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = normalizeTree(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = normalizeTree(child)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = normalizeTree(child)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case int:
		return int64(t)
	default:
		return v
	}
}

// cloneTree copies mappings and sequences so callers can mutate what they get
// back without touching a shared (possibly cached) tree. Scalars and foreign
// values such as middleware handles are returned as-is.
func cloneTree(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = cloneTree(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = cloneTree(child)
		}
		return out
	default:
		return v
	}
}

// flattenMap converts a nested map[string]any to a flat map[string]any with dot-notation paths.
func flattenMap(nested map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		newPath := key
		if prefix != "" {
			newPath = prefix + "." + key
		}

		// Check if the value is a map that can be further flattened
		if nestedMap, isMap := value.(map[string]any); isMap && len(nestedMap) > 0 {
			for subPath, subValue := range flattenMap(nestedMap, newPath) {
				flat[subPath] = subValue
			}
		} else {
			flat[newPath] = value
		}
	}

	return flat
}

// setNestedValue sets a value in a nested map using a dot-notation path.
// It creates intermediate maps if they don't exist.
// If a segment exists but is not a map, it will be overwritten by a new map.
func setNestedValue(nested map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := nested

	for i := 0; i < len(segments)-1; i++ {
		segment := segments[i]

		if nextMap, isMap := current[segment].(map[string]any); isMap {
			current = nextMap
			continue
		}
		newMap := make(map[string]any)
		current[segment] = newMap
		current = newMap
	}

	current[segments[len(segments)-1]] = value
}

// setIn returns a copy of tree with value stored at path. Only the mappings
// along path are copied; siblings are shared with the original tree.
// A non-mapping met on the way is replaced by a new mapping.
func setIn(tree any, path []string, value any) any {
	if len(path) == 0 {
		return value
	}

	src, _ := tree.(map[string]any)
	out := make(map[string]any, len(src)+1)
	for k, v := range src {
		out[k] = v
	}
	out[path[0]] = setIn(src[path[0]], path[1:], value)
	return out
}

// isPrefix reports whether prefix is a leading subsequence of path.
func isPrefix(prefix, path []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if prefix[i] != path[i] {
			return false
		}
	}
	return true
}

// isValidKeySegment checks if a single path segment is a valid bare key:
// ASCII letters, digits, underscores and dashes.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isUnderscore := r == '_'
		isDash := r == '-'

		if !(isLetter || isDigit || isUnderscore || isDash) {
			return false
		}
	}
	return true
}
