package model

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes characters and drops the combining marks, so
// "É Mato" becomes "E Mato".
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparators = regexp.MustCompile(`[\s-]+`)
)

// Slug derives a filesystem-safe name from a track title: lowercase,
// diacritics stripped, everything outside [a-z0-9 space -] removed, and
// whitespace/hyphen runs collapsed to a single hyphen.
//
// Example:
//
//	Slug("É Mato") // "e-mato"
func Slug(title string) string {
	s := strings.ToLower(title)
	if stripped, _, err := transform.String(stripDiacritics, s); err == nil {
		s = stripped
	}
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
