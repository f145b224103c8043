// Package textutil holds the small string helpers shared by the extraction stages:
// whitespace cleanup, diacritic folding and comparison keys.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSpaces    = regexp.MustCompile(`\s+`)
	reNonDigits = regexp.MustCompile(`\D+`)
)

// CleanSpaces collapses any whitespace run to a single space and trims the ends.
func CleanSpaces(s string) string {
	return reSpaces.ReplaceAllString(strings.TrimSpace(s), " ")
}

// OnlyDigits drops every non-digit rune.
func OnlyDigits(s string) string {
	return reNonDigits.ReplaceAllString(s, "")
}

// StripDiacritics removes combining marks (á -> a, Ñ -> N).
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Key is the comparison form of a catalog or enum label: no diacritics,
// upper case, single spaces.
func Key(s string) string {
	return CleanSpaces(strings.ToUpper(StripDiacritics(s)))
}

// Upper is CleanSpaces plus upper-casing, keeping diacritics.
func Upper(s string) string {
	return strings.ToUpper(CleanSpaces(s))
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
// Any non-letter starts a new word, so "peruano-alemana" -> "Peruano-Alemana".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// Capitalize upper-cases the first rune and lower-cases the remainder.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(strings.ToLower(s))
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
