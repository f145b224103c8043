package preparse

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reGrantHinge = regexp.MustCompile(`(?i)\b(?:que\s+)?otorga(?:n|rá|ra|r)?(?:\s*:\s*|\s+|$)`)
	reFavorHinge = regexp.MustCompile(`(?i)\b(?:en\s+)?a\s+favor\s+de\b\s*:?\s*`)

	// clause headers, signature blocks and place/date lines that end the beneficiary zone
	reBeneficiaryStop = regexp.MustCompile(`(?i)` + strings.Join([]string{
		`EL PODER SE OTORGA DE ACUERDO CON LOS SIGUIENTES T[ÉE]RMINOS Y CONDICIONES`,
		`T[ÉE]RMINOS Y CONDICIONES`,
		`PARA QUE EN (?:NUESTRO|SU|MI) NOMBRE`,
		`\b(?:PRIMERA|SEGUNDA|TERCERA)\s*\.-`,
		`\bFACULTADES\b`,
		`\bLIMA,\s*\d{1,2}\s+DE\b`,
		`LUGAR Y FECHA`,
		`\bFIRMA[SN]?\b`,
	}, "|"))
)

// Zone is a slice of the source text with its byte offset.
type Zone struct {
	Text   string
	Offset int
}

// Segments holds the grantor and beneficiary zones of a deed.
type Segments struct {
	Grantor     Zone
	Beneficiary Zone
}

// FindSegments splits text around the grant hinge ("otorga", "otorgan", ...) and
// the favor hinge ("a favor de"). Without a usable favor hinge the whole text is the grantor zone.
func FindSegments(text string) Segments {
	grant := reGrantHinge.FindStringIndex(text)
	favor := reFavorHinge.FindStringIndex(text)

	var seg Segments
	switch {
	case grant != nil && favor != nil && favor[0] > grant[1]:
		seg.Grantor = trimZone(text, grant[1], favor[0])
		seg.Beneficiary = trimZone(text, favor[1], len(text))
	case favor != nil:
		seg.Grantor = trimZone(text, 0, favor[0])
		seg.Beneficiary = trimZone(text, favor[1], len(text))
	default:
		seg.Grantor = trimZone(text, 0, len(text))
	}

	if loc := reBeneficiaryStop.FindStringIndex(seg.Beneficiary.Text); loc != nil {
		seg.Beneficiary = trimZone(seg.Beneficiary.Text, 0, loc[0]).shift(seg.Beneficiary.Offset)
	}
	return seg
}

func trimZone(text string, start, end int) Zone {
	s := text[start:end]
	lead := len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
	s = strings.TrimFunc(s, unicode.IsSpace)
	return Zone{Text: s, Offset: start + lead}
}

func (z Zone) shift(by int) Zone {
	z.Offset += by
	return z
}
