package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	folder     = cases.Fold()
	diacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// CanonicalName reduces a store name to a form suitable for comparison:
// case-folded, diacritics stripped, punctuation removed, whitespace
// collapsed. Receipt shop names and user-created stores rarely agree on
// quoting or capitalization ('ООО "Лента"' vs 'Лента'), so matching happens
// on canonical names only.
func CanonicalName(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}

	if stripped, _, err := transform.String(diacritics, s); err == nil {
		s = stripped
	}
	s = folder.String(s)

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// SameName reports whether two store names refer to the same store after
// canonicalization. Empty names never match anything.
func SameName(a, b string) bool {
	ca := CanonicalName(a)
	return ca != "" && ca == CanonicalName(b)
}
