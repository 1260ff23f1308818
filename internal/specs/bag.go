// Package specs resolves spring specification display fields out of the
// loosely-shaped parameter bags the rest of the system carries around. The
// bag's shape has drifted over time (snake_case, camelCase, Title Case,
// nested containers, free-text prompts), so every consumer goes through
// Resolve instead of reaching into the bag directly.
package specs

import (
	"fmt"
	"strconv"
	"strings"
)

// Bag is a decoded parameter dictionary of unknown shape. Values are the
// usual JSON decode types: string, float64, bool, nil, nested
// map[string]interface{}, or slices.
type Bag map[string]interface{}

// flattenLimit bounds recursion over hostile inputs (self-referencing or
// absurdly deep maps).
const flattenLimit = 32

// Flatten collapses nested maps into a single level, joining key segments
// with "_". {"a": {"b": 1}} becomes {"a_b": 1}. Non-map values are kept
// as-is; slices are treated as leaves.
func (b Bag) Flatten() map[string]interface{} {
	out := make(map[string]interface{})
	flattenInto(out, b, "", flattenLimit)
	return out
}

func flattenInto(out map[string]interface{}, m map[string]interface{}, prefix string, depth int) {
	if depth <= 0 {
		return
	}
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}
		if sub, ok := asMap(v); ok {
			flattenInto(out, sub, key, depth-1)
			continue
		}
		out[key] = v
	}
}

// asMap unwraps the two map shapes a value may arrive in.
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case Bag:
		return t, true
	default:
		return nil, false
	}
}

// accept converts a raw bag value to a trimmed display string. The second
// return is false for empty values and the historical sentinels "None" and
// "null", which the upstream producer emits for absent fields.
func accept(v interface{}) (string, bool) {
	if v == nil {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = strings.TrimSpace(fmt.Sprintf("%v", t))
	}
	if s == "" || s == "None" || s == "null" {
		return "", false
	}
	return s, true
}

// lookup returns the accepted value at a single key, or "" when absent or
// sentinel.
func lookup(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := accept(v); ok {
			return s
		}
	}
	return ""
}

// lookupPath walks nested maps along the key path. Any non-map intermediate
// or missing key yields "".
func lookupPath(b Bag, path []string) string {
	current := map[string]interface{}(b)
	for i, key := range path {
		v, ok := current[key]
		if !ok {
			return ""
		}
		if i == len(path)-1 {
			if s, ok := accept(v); ok {
				return s
			}
			return ""
		}
		current, ok = asMap(v)
		if !ok {
			return ""
		}
	}
	return ""
}

// firstContainer returns the first key from keys that holds a non-empty
// nested map, along with the key that matched.
func firstContainer(m map[string]interface{}, keys []string) (map[string]interface{}, string) {
	for _, key := range keys {
		if sub, ok := asMap(m[key]); ok && len(sub) > 0 {
			return sub, key
		}
	}
	return nil, ""
}
