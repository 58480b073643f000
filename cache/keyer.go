package cache

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// opSeparator joins the operation name and the canonical argument
// rendering. Operation names must not contain it, which keeps per-
// operation invalidation a plain prefix match.
const opSeparator = ":"

// Key derives the deterministic cache key for an operation call.
// Format: <operation>:<canonical JSON of args>
//
// Argument insertion order never affects the key; any value difference
// always does.
func Key(operation string, args map[string]any) (string, error) {
	if operation == "" {
		return "", fmt.Errorf("cache: operation name is empty")
	}
	if strings.Contains(operation, opSeparator) {
		return "", fmt.Errorf("cache: operation name %q contains %q", operation, opSeparator)
	}

	canonical, err := canonicalize(args)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize arguments: %w", err)
	}

	return operation + opSeparator + string(canonical), nil
}

// operationOf recovers the operation name from a key.
func operationOf(key string) string {
	if i := strings.Index(key, opSeparator); i >= 0 {
		return key[:i]
	}
	return key
}

// canonicalize produces a deterministic JSON representation of v.
// Maps are rendered with keys in sorted order.
func canonicalize(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}
