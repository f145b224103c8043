package llm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reNumericDate = regexp.MustCompile(`\b([0-3]?\d)[/.\-]([01]?\d)[/.\-]((?:19|20)\d{2})\b`)
	reLongDate    = regexp.MustCompile(`(?i)\b([0-3]?\d)\s+de\s+([a-záéíóú]+)\s+(?:de|del)\s+((?:19|20)\d{2})\b`)
	reMonthFirst  = regexp.MustCompile(`(?i)\b([a-záéíóú]+)\s+([0-3]?\d),\s*((?:19|20)\d{2})\b`)
	reISODate     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

var months = map[string]int{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4, "mayo": 5, "junio": 6, "julio": 7,
	"agosto": 8, "septiembre": 9, "setiembre": 9, "octubre": 10, "noviembre": 11, "diciembre": 12,
}

// ToISODate finds a date in free text and returns it as YYYY-MM-DD with a confidence
// that reflects the pattern used. It returns "", 0 when no date is recognized.
func ToISODate(text string) (string, float64) {
	if strings.TrimSpace(text) == "" {
		return "", 0
	}
	if reISODate.MatchString(strings.TrimSpace(text)) {
		return strings.TrimSpace(text), 0.9
	}
	if m := reNumericDate.FindStringSubmatch(text); m != nil {
		if iso, ok := isoDate(m[3], m[2], m[1]); ok {
			return iso, 0.9
		}
	}
	if m := reLongDate.FindStringSubmatch(text); m != nil {
		if mon, ok := months[strings.ToLower(m[2])]; ok {
			if iso, ok := isoDate(m[3], strconv.Itoa(mon), m[1]); ok {
				return iso, 0.85
			}
		}
	}
	if m := reMonthFirst.FindStringSubmatch(text); m != nil {
		if mon, ok := months[strings.ToLower(m[1])]; ok {
			if iso, ok := isoDate(m[3], strconv.Itoa(mon), m[2]); ok {
				return iso, 0.75
			}
		}
	}
	return "", 0
}

// IsISODate reports whether s is exactly YYYY-MM-DD.
func IsISODate(s string) bool {
	return reISODate.MatchString(s)
}

func isoDate(year, month, day string) (string, bool) {
	y, err1 := strconv.Atoi(year)
	mo, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil || mo < 1 || mo > 12 || d < 1 || d > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, mo, d), true
}
