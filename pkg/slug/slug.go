// Package slug normalizes display names into URL-safe identifiers for the
// storefront catalog.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Catalog names carry Turkish diacritics and ampersand-joined collection
// names ("Clay & Kiln"); both must fold to plain ASCII words so the slug
// survives URL routing and index lookups.
var ascii = strings.NewReplacer(
	"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u",
	"&", " and ",
)

// Make converts a display name into a lowercase hyphenated slug.
//
//	Make("Clay & Kiln Speckled Mug") == "clay-and-kiln-speckled-mug"
//	Make("Güneş Gözlüğü") == "gunes-gozlugu"
func Make(name string) string {
	s := ascii.Replace(strings.ToLower(strings.TrimSpace(name)))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
