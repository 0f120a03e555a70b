// Package htmlsanitize strips dangerous markup from user-supplied text.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps common formatting tags but removes scripts, event handlers,
// and other active content. Use for rich-text fields (notes, descriptions).
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// Text strips all markup. Use for fields that must be plain text (names,
// labels, titles, message bodies).
func Text(s string) string {
	return strict.Sanitize(s)
}
