package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify folds a display name into a stable lowercase slug. Inputs that
// differ only by case, accents, or punctuation spacing produce the same slug.
func Slugify(text string) string {
	folded := Fold(text)
	if folded == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastDash := true
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(b.String(), "-")
}

// Fold lowercases text and strips diacritics. Used by Slugify and by the
// accent-insensitive vocabulary matchers.
func Fold(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	stripped, _, err := transform.String(diacriticStripper, trimmed)
	if err != nil {
		stripped = trimmed
	}
	return strings.ToLower(stripped)
}
