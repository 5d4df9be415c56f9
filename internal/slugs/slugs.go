// Package slugs provides filename slugification for notes created by vaultlint.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// ComponentSlug converts a string to a URL-safe slug appropriate for file/path components.
//
// A trailing ".md" is stripped before slugging so "My Note.md" and "My Note"
// produce the same slug.
func ComponentSlug(s string) string {
	s = strings.TrimSuffix(s, ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}
