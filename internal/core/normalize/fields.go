package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/minutas/internal/textutil"
)

// Fields is an untrusted JSON object fragment. Every accessor tolerates missing keys
// and wrong types and takes a list of aliases (snake_case first, then camelCase).
type Fields map[string]any

// AsFields returns v as Fields, or nil when it is not an object.
func AsFields(v any) Fields {
	switch m := v.(type) {
	case Fields:
		return m
	case map[string]any:
		return Fields(m)
	}
	return nil
}

// Str returns the first alias holding a non-empty value, whitespace-cleaned.
// Numbers and booleans are formatted; objects and lists count as absent.
func (f Fields) Str(keys ...string) string {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch x := v.(type) {
		case string:
			s = x
		case json.Number:
			s = x.String()
		case float64:
			s = strconv.FormatFloat(x, 'f', -1, 64)
		case int:
			s = strconv.Itoa(x)
		case int64:
			s = strconv.FormatInt(x, 10)
		case bool:
			s = strconv.FormatBool(x)
		default:
			continue
		}
		if s = textutil.CleanSpaces(s); s != "" {
			return s
		}
	}
	return ""
}

// Float returns the first alias that parses as a number. Thousands separators are
// dropped from strings. Anything unparseable is 0.
func (f Fields) Float(keys ...string) float64 {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case float64:
			return x
		case int:
			return float64(x)
		case int64:
			return float64(x)
		case json.Number:
			if n, err := x.Float64(); err == nil {
				return n
			}
			return 0
		case string:
			s := strings.ReplaceAll(strings.TrimSpace(x), ",", "")
			if s == "" {
				continue
			}
			if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
				return n
			}
			return 0
		}
		return 0
	}
	return 0
}

// Int truncates Float.
func (f Fields) Int(keys ...string) int {
	return int(f.Float(keys...))
}

// Code returns a catalog code: an integer value or an all-digit string. Anything else is nil.
func (f Fields) Code(keys ...string) *int {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || v == nil {
			continue
		}
		return toCode(v)
	}
	return nil
}

func toCode(v any) *int {
	var n int
	switch x := v.(type) {
	case int:
		n = x
	case int64:
		n = int(x)
	case float64:
		n = int(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return nil
		}
		n = int(i)
	case string:
		s := strings.TrimSpace(x)
		if s == "" || textutil.OnlyDigits(s) != s {
			return nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		n = i
	default:
		return nil
	}
	return &n
}

// Map returns the first alias holding an object, or an empty Fields.
func (f Fields) Map(keys ...string) Fields {
	for _, k := range keys {
		if m := AsFields(f[k]); m != nil {
			return m
		}
	}
	return Fields{}
}

// List returns the objects of the first alias holding a list; non-object items are skipped.
func (f Fields) List(keys ...string) []Fields {
	for _, k := range keys {
		items, ok := f[k].([]any)
		if !ok {
			continue
		}
		out := make([]Fields, 0, len(items))
		for _, it := range items {
			if m := AsFields(it); m != nil {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// Unwrap descends through nested {"payload": {...}} envelopes.
func Unwrap(f Fields) Fields {
	for {
		inner := AsFields(f["payload"])
		if inner == nil {
			return f
		}
		f = inner
	}
}
