// Package time holds the date helpers shared by handlers, adapters and the warmer
package time

import "time"

// DateLayout is the calendar date form used on the wire and in cache keys
const DateLayout = time.DateOnly

// Ptr returns t in UTC, or nil when t is zero so JSON omits it
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

// Date formats the UTC calendar day of t
func Date(t time.Time) string { return t.UTC().Format(DateLayout) }

// ParseDate reads a YYYY-MM-DD day as midnight UTC
func ParseDate(s string) (time.Time, error) { return time.Parse(DateLayout, s) }
