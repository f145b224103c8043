// Package text prepares raw deed text for the extraction stages.
package text

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reNoiseLines = regexp.MustCompile(`(?im)(KARDEX:.*?$|ESCRITURA:.*?$|MINUTA\s+\d+.*?$|PAG\.\s*\d+.*?$|P[ÁA]GINA\s+\d+(?:\s+DE\s+\d+)?.*?$|CRM\s*/.*?$|JTA\s*/.*?$)`)
	reBullets    = regexp.MustCompile(`[•●◦▪]+`)
	reSeparators = regexp.MustCompile(`={3,}|_{3,}|-{4,}`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reBlankLines = regexp.MustCompile(`\n[ \n]*\n`)
)

const (
	minKeptChars = 50
	minKeptRatio = 0.05
)

// Condition strips registry headers, page markers, bullets and separator rules from deed text.
// If the result would be shorter than max(50 chars, 5% of the input) the input is returned unchanged.
// Tabs survive on purpose: the preparser reads them as signature-table artifacts.
func Condition(s string) string {
	if s == "" {
		return s
	}
	t := reCRLF.ReplaceAllString(s, "\n")
	t = reNoiseLines.ReplaceAllString(t, "")
	t = reBullets.ReplaceAllString(t, " ")
	t = reSeparators.ReplaceAllString(t, " ")
	t = reMultiSpace.ReplaceAllString(t, " ")
	t = reBlankLines.ReplaceAllString(t, "\n")
	lines := strings.Split(t, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	t = strings.TrimSpace(strings.Join(lines, "\n"))

	floor := max(minKeptChars, int(minKeptRatio*float64(utf8.RuneCountInString(s))))
	if utf8.RuneCountInString(t) < floor {
		return s
	}
	return t
}

// Hash is the hex SHA-256 of the text, carried as raw_text_hash.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
