// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email lowercases and trims an email address so lookups and the unique
// index agree on a single canonical form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role lowercases and trims a role string.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tags splits a comma-separated tag string into a trimmed list with empty
// entries dropped. A blank input yields an empty (non-nil) slice so the
// stored field is always an array.
func Tags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
