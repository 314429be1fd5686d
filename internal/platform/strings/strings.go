// Package strings holds small string and slice helpers for config and routing
package strings

import std "strings"

// IfEmpty returns def when in is empty
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s when it has non whitespace content, otherwise panics naming what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a route prefix like "documents/" to "/documents"
// panics when nothing but slashes remain
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// SplitCSV splits a comma separated list, trimming entries and dropping blanks
func SplitCSV(s string) []string {
	var out []string
	for _, p := range std.Split(s, ",") {
		if p = std.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
