package app

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify turns free text into a canonical URL-safe identifier:
// diacritics stripped, lower-cased, any run of non [a-z0-9] collapsed to
// a single hyphen, leading/trailing hyphens trimmed. Blank input yields
// "" and the caller decides whether that is an error. Idempotent.
func Slugify(text string) string {
	s, _, err := transform.String(deaccent, text)
	if err != nil {
		s = text
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
