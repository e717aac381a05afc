// Package filter implements the case-insensitive substring filter applied
// to every record collection.
package filter

import "strings"

// Fielder exposes named fields as text.
type Fielder interface {
	Field(name string) (string, bool)
}

// Apply returns the records whose fields contain query, ignoring case.
//
// An empty query returns records unchanged (the same slice). Otherwise a
// record is kept when at least one of fields is present and its lower-cased
// value contains the lower-cased query. Result order follows input order.
func Apply[T Fielder](records []T, query string, fields []string) []T {
	if query == "" {
		return records
	}
	q := strings.ToLower(query)

	out := make([]T, 0, len(records))
	for _, rec := range records {
		if Match(rec, q, fields) {
			out = append(out, rec)
		}
	}
	return out
}

// Match reports whether any field of rec contains lowerQuery.
// lowerQuery must already be lower-cased.
func Match(rec Fielder, lowerQuery string, fields []string) bool {
	for _, name := range fields {
		v, ok := rec.Field(name)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(v), lowerQuery) {
			return true
		}
	}
	return false
}
