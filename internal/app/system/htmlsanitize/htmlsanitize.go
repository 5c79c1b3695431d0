// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips markup from free-text input before it is
// persisted. The API returns user-supplied text (titles, descriptions,
// comments) back to browsers, so anything tag-shaped is removed on ingress.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripTags removes all HTML elements and attributes from s, unescapes the
// entities bluemonday introduces, and trims surrounding whitespace. Plain
// text passes through unchanged.
func StripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
