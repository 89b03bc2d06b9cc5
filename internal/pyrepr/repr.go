// Package pyrepr formats Go values the way the daemon's DEBUG and OK lines
// present them: as Python's own repr/str would, since the client is a
// package manager built for a Python-shaped protocol. There is no
// third-party library for this in the example corpus or the wider Go
// ecosystem — it is inherent to emulating one language's literal syntax from
// another, so this package is deliberately stdlib-only (strconv, strings).
package pyrepr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// None is the textual form of Python's None, used for unspecified optional
// arguments.
const None = "None"

// Str renders s as a single-quoted Python string literal.
func Str(s string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "'", `\'`) + "'"
}

// OptionalPath renders a path-typed argument: None if unset, else a quoted
// string.
func OptionalPath(path string, set bool) string {
	if !set {
		return None
	}
	return Str(path)
}

// JSONObject renders a decoded JSON object the way Python's repr would
// print the equivalent dict, or None if settings is nil. Keys are sorted for
// deterministic output.
func JSONObject(settings map[string]any) string {
	if settings == nil {
		return None
	}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, Str(k)+": "+Value(settings[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Value renders an arbitrary decoded-JSON value (string, float64, bool, nil,
// []any, map[string]any) as its Python literal equivalent.
func Value(v any) string {
	switch x := v.(type) {
	case nil:
		return None
	case bool:
		if x {
			return "True"
		}
		return "False"
	case string:
		return Str(x)
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = Value(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		return JSONObject(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// StringList renders a list of strings as Python's repr would: a bracketed,
// single-quoted, comma-separated list — the same form the worker stub gives
// a list return value such as get_requires_for_build_wheel's requirement
// strings on the OK line. The daemon itself does not call it; OK values
// arrive already formatted from the worker.
func StringList(items []string) string {
	parts := make([]string, len(items))
	for i, s := range items {
		parts[i] = Str(s)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// KeywordArgs renders "k1=v1, k2=v2, ..." for the DEBUG Calling line, given
// names in prompt order and their already-formatted values.
func KeywordArgs(names []string, formatted []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + formatted[i]
	}
	return strings.Join(parts, ", ")
}
