package repository

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/minutas/constants"
	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/textutil"
)

var reNonWord = regexp.MustCompile(`[^A-Z0-9\s]+`)

var descriptionStopwords = map[string]struct{}{
	"DE": {}, "DEL": {}, "LA": {}, "LAS": {}, "EL": {}, "LOS": {}, "Y": {},
	"E": {}, "EN": {}, "A": {}, "AL": {}, "POR": {}, "PARA": {},
}

// industrySeparators split "F: CONSTRUCCION" style values.
var industrySeparators = []string{":", "-", "—"}

// Tokens returns the distinct significant words of a description:
// "Comerciante / Vendedor" -> [COMERCIANTE VENDEDOR].
func Tokens(desc string) []string {
	s := reNonWord.ReplaceAllString(textutil.Key(desc), " ")
	var out []string
	seen := map[string]struct{}{}
	for _, t := range strings.Fields(s) {
		if len(t) < 3 {
			continue
		}
		if _, stop := descriptionStopwords[t]; stop {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// MatchDescription finds an exact description, else the shortest one containing every
// token of text, else the "OTROS (ESPECIFICAR)" bucket. Nil when none of those exist.
func MatchDescription(entries []entity.CatalogEntry, text string) *entity.CatalogEntry {
	key := textutil.Key(text)
	if key == "" {
		return nil
	}
	for i := range entries {
		if textutil.Key(entries[i].Name) == key {
			return &entries[i]
		}
	}

	if tokens := Tokens(text); len(tokens) > 0 {
		best := -1
		for i := range entries {
			name := textutil.Key(entries[i].Name)
			if !containsAll(name, tokens) {
				continue
			}
			if best < 0 || utf8.RuneCountInString(name) < utf8.RuneCountInString(textutil.Key(entries[best].Name)) {
				best = i
			}
		}
		if best >= 0 {
			return &entries[best]
		}
	}

	for i := range entries {
		if textutil.Key(entries[i].Name) == constants.OtherOccupation {
			return &entries[i]
		}
	}
	return nil
}

func containsAll(s string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(s, t) {
			return false
		}
	}
	return true
}

// MatchIndustry resolves a section letter ("A"), "X: ACTIVITY", "X - ACTIVITY" or an
// activity name, falling back to the first activity containing the text.
func MatchIndustry(entries []entity.CatalogEntry, text string) *entity.CatalogEntry {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}

	if isSectionCode(s) {
		if e := byCode(entries, s); e != nil {
			return e
		}
	}

	for _, sep := range industrySeparators {
		left, right, ok := strings.Cut(s, sep)
		if !ok {
			continue
		}
		left, right = strings.TrimSpace(left), strings.TrimSpace(right)
		if isSectionCode(left) {
			if e := byCode(entries, left); e != nil {
				return e
			}
		}
		if e := byActivity(entries, right); e != nil {
			return e
		}
	}

	if e := byActivity(entries, s); e != nil {
		return e
	}

	key := textutil.Key(s)
	for i := range entries {
		if strings.Contains(textutil.Key(entries[i].Name), key) {
			return &entries[i]
		}
	}
	return nil
}

// isSectionCode reports a value of at most three runes starting with a letter.
func isSectionCode(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return s != "" && utf8.RuneCountInString(s) <= 3 && unicode.IsLetter(r)
}

// byCode matches the first letter of v against entry codes.
func byCode(entries []entity.CatalogEntry, v string) *entity.CatalogEntry {
	r, _ := utf8.DecodeRuneInString(v)
	code := strings.ToUpper(string(r))
	for i := range entries {
		if strings.EqualFold(entries[i].Code, code) {
			return &entries[i]
		}
	}
	return nil
}

func byActivity(entries []entity.CatalogEntry, v string) *entity.CatalogEntry {
	key := textutil.Key(v)
	if key == "" {
		return nil
	}
	for i := range entries {
		if textutil.Key(entries[i].Name) == key {
			return &entries[i]
		}
	}
	return nil
}
