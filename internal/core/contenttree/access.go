// Package contenttree reads loosely shaped upstream JSON trees
//
// Payloads are decoded into map[string]any / []any and read through ordered alias
// accessors: every field has a priority list of names and the first usable one wins.
// Nothing here performs I/O or mutates its input.
package contenttree

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Str returns the first alias holding a non-empty string or a finite number, trimmed
func Str(obj map[string]any, aliases ...string) string {
	for _, a := range aliases {
		if s, ok := scalarString(obj[a]); ok {
			return s
		}
	}
	return ""
}

// Num returns the first alias coercible to a finite number
func Num(obj map[string]any, aliases ...string) (float64, bool) {
	for _, a := range aliases {
		if f, ok := number(obj[a]); ok {
			return f, true
		}
	}
	return 0, false
}

// Int is Num truncated toward zero
func Int(obj map[string]any, aliases ...string) (int, bool) {
	f, ok := Num(obj, aliases...)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Obj returns the first dotted path that resolves to an object, e.g. "data.calendar"
func Obj(obj map[string]any, paths ...string) (map[string]any, bool) {
	for _, p := range paths {
		if m, ok := Path(obj, p).(map[string]any); ok {
			return m, true
		}
	}
	return nil, false
}

// Path walks a dotted path through nested objects; an empty path is obj itself
func Path(obj map[string]any, path string) any {
	if obj == nil {
		return nil
	}
	if path == "" {
		return obj
	}
	var cur any = obj
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[seg]
		if !ok {
			return nil
		}
	}
	return cur
}

// Seq reads v as a sequence
// an array is returned as is; an object with an array under one of fields yields that array;
// any other object yields its values in key order; everything else is nil
func Seq(v any, fields ...string) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		for _, f := range fields {
			if arr, ok := t[f].([]any); ok {
				return arr
			}
		}
		if len(t) == 0 {
			return nil
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			out = append(out, t[k])
		}
		return out
	}
	return nil
}

// keyLess orders numeric keys numerically and before any other key
func keyLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	}
	return a < b
}

// Objects keeps only the object elements of seq
func Objects(seq []any) []map[string]any {
	out := make([]map[string]any, 0, len(seq))
	for _, v := range seq {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Decode unmarshals raw JSON into the generic tree form
func Decode(raw []byte) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Scalar renders a string or finite number, trimmed; anything else is ""
func Scalar(v any) string {
	s, _ := scalarString(v)
	return s
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		if f, ok := number(t); ok {
			return formatNumber(f), true
		}
	case float64, float32, int, int32, int64:
		if f, ok := number(t); ok {
			return formatNumber(f), true
		}
	}
	return "", false
}

func number(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		p, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatNumber(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
