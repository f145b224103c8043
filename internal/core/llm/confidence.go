package llm

import (
	"fmt"
	"regexp"

	"github.com/joseph-ayodele/minutas/constants"
	"github.com/joseph-ayodele/minutas/internal/entity"
)

var (
	reEightDigits  = regexp.MustCompile(`^\d{8}$`)
	reElevenDigits = regexp.MustCompile(`^\d{11}$`)
)

// PostValidate adjusts field confidences from document-number and date formats.
// Scores only move through max/min clamps.
func PostValidate(ext *entity.Extraction) {
	conf := &ext.Confidence
	for _, role := range entity.Roles {
		for i, p := range *ext.Parties.List(role) {
			base := fmt.Sprintf("generales_ley.%s[%d]", role.Key(), i)
			if n := p.DocumentNumber; n != "" {
				key := base + ".numero_documento"
				if reEightDigits.MatchString(n) || reElevenDigits.MatchString(n) {
					conf.Raise(key, 0.7, 0.9)
				} else {
					conf.Cap(key, 0.6, 0.4)
				}
			}
			for j, d := range p.AdditionalDocs {
				if d.Number == "" {
					continue
				}
				key := fmt.Sprintf("%s.docs_adicionales[%d].numero", base, j)
				if additionalNumberOK(d) {
					conf.Raise(key, 0.6, 0.85)
				} else {
					conf.Cap(key, 0.6, 0.4)
				}
			}
		}
	}
	if IsISODate(ext.DeedDate) {
		conf.Raise("fecha_minuta", 0.7, 0.9)
	}
}

func additionalNumberOK(d entity.AdditionalDocument) bool {
	switch {
	case constants.IsNationalIDType(d.Type):
		return reEightDigits.MatchString(d.Number)
	case constants.IsTaxIDType(d.Type):
		return reElevenDigits.MatchString(d.Number)
	case constants.IsPassportType(d.Type):
		return true
	}
	return false
}
