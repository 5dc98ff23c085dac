package blueprint

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugTransform strips diacritics: decompose, drop combining marks,
// recompose. Accented label text then slugs to stable ASCII ids.
var slugTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts display text into an identifier: lowercase ASCII with
// underscores, diacritics removed. Returns "" when nothing survives.
func Slugify(text string) string {
	folded, _, err := transform.String(slugTransform, text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}
