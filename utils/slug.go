package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const SlugMaxLength = 64

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns free text into a lowercase dash separated slug.
// Diacritics are stripped after NFD decomposition, so "Café Latté" becomes "cafe-latte".
// Never fails: text that cannot be decomposed is used as-is, empty input yields "".
func Slugify(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, text)
	if err != nil {
		s = text
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugSeparator.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > SlugMaxLength {
		// only ascii is left at this point, byte truncation is safe
		s = strings.TrimRight(s[:SlugMaxLength], "-")
	}
	return s
}
