package config

import (
	"strconv"
	"strings"
)

// Options is a loosely-typed option bag decoded from JSON configs or built by
// CLI flag parsing. Accessors are forgiving: wrong or missing types fall back
// to the provided default rather than erroring, because option handling must
// never fail an ingest run.
type Options map[string]any

// Bool returns the named option as a bool.
func (o Options) Bool(key string, def bool) bool {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return def
		}
		return b
	default:
		return def
	}
}

// Int returns the named option as an int. JSON numbers decode as float64, so
// both forms are accepted.
func (o Options) Int(key string, def int) int {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return def
		}
		return n
	default:
		return def
	}
}

// String returns the named option as a string.
func (o Options) String(key, def string) string {
	v, ok := o[key]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

// Rune returns the first rune of the named string option. Empty or missing
// values return the default; this is how delimiter options are read.
func (o Options) Rune(key string, def rune) rune {
	s := o.String(key, "")
	if s == "" {
		return def
	}
	return []rune(s)[0]
}

// StringSlice returns the named option as a []string, accepting both native
// slices and JSON-decoded []any.
func (o Options) StringSlice(key string) []string {
	v, ok := o[key]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Any returns the raw option value, or nil when absent.
func (o Options) Any(key string) any {
	return o[key]
}
