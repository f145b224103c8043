package normalize

import (
	"regexp"

	"github.com/agext/levenshtein"

	"github.com/joseph-ayodele/minutas/internal/textutil"
)

// Scorer rates how alike two enum labels are, from 0 (nothing in common) to 1 (identical).
// Inputs are already folded by EnumKey.
type Scorer interface {
	Score(a, b string) float64
}

// LevenshteinScorer scores 1 - edit distance / longer length.
type LevenshteinScorer struct{}

func (LevenshteinScorer) Score(a, b string) float64 {
	return levenshtein.Similarity(a, b, nil)
}

// MatchConfig holds the minimum score a fuzzy match needs per enum.
type MatchConfig struct {
	Medium float64
	Form   float64
	Timing float64
}

// DefaultMatchConfig returns the thresholds the golden samples are pinned to.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{Medium: 0.72, Form: 0.80, Timing: 0.80}
}

var reEnumNoise = regexp.MustCompile(`[^A-Z0-9/ \-]`)

// EnumKey folds a label for fuzzy comparison: no diacritics, upper case, single spaces,
// and nothing but letters, digits, slashes, spaces and dashes.
func EnumKey(s string) string {
	return textutil.CleanSpaces(reEnumNoise.ReplaceAllString(textutil.Key(s), ""))
}

// BestMatch returns the option scoring highest against value, or "" when the best score is
// under minScore. Ties keep the earlier option.
func BestMatch(s Scorer, value string, options []string, minScore float64) string {
	v := EnumKey(value)
	if v == "" {
		return ""
	}
	best, bestScore := "", 0.0
	for _, opt := range options {
		if score := s.Score(v, EnumKey(opt)); score > bestScore {
			best, bestScore = opt, score
		}
	}
	if bestScore < minScore {
		return ""
	}
	return best
}
