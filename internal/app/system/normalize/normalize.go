// Package normalize canonicalizes user-entered identity fields before they
// are stored or compared.
package normalize

import "strings"

// Email lowercases and trims an email address. Lookup equality is on the
// normalized form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses interior whitespace runs to single spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
