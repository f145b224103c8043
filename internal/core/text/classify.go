package text

import (
	"strings"
)

var powerOfAttorneyMarkers = []string{"acto notarial", "poder", "escritura pública", "escritura publica"}

// PowerOfAttorneyScore is a naive keyword heuristic for "this deed grants a power":
// each marker present adds a third, capped at 1.
func PowerOfAttorneyScore(txt string) float64 {
	lower := strings.ToLower(txt)
	hits := 0
	for _, k := range powerOfAttorneyMarkers {
		if strings.Contains(lower, k) {
			hits++
		}
	}
	return min(1.0, float64(hits)/3)
}
