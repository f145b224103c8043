package llm

import (
	"slices"
	"strings"

	"github.com/joseph-ayodele/minutas/constants"
	"github.com/joseph-ayodele/minutas/internal/entity"
)

// PromotePrimaryDocument makes the national ID the primary document when one is listed.
// An incomplete primary is filled from the national-ID item, or else from the first usable
// item; a passport primary is swapped with a listed national ID. Applying it twice is the
// same as applying it once.
func PromotePrimaryDocument(p *entity.PersonCandidate) {
	if p.DocumentType == "" || p.DocumentNumber == "" {
		if i := nationalIDIndex(p.AdditionalDocs); i >= 0 {
			d := p.AdditionalDocs[i]
			p.AdditionalDocs = slices.Delete(p.AdditionalDocs, i, i+1)
			p.DocumentType, p.DocumentNumber = d.Type, d.Number
		} else if i := slices.IndexFunc(p.AdditionalDocs, usable); i >= 0 {
			d := p.AdditionalDocs[i]
			p.AdditionalDocs = slices.Delete(p.AdditionalDocs, i, i+1)
			if p.DocumentType == "" {
				p.DocumentType = d.Type
			}
			if p.DocumentNumber == "" {
				p.DocumentNumber = d.Number
			}
		}
	}

	if constants.IsPassportType(p.DocumentType) {
		if i := nationalIDIndex(p.AdditionalDocs); i >= 0 {
			d := p.AdditionalDocs[i]
			p.AdditionalDocs = slices.Delete(p.AdditionalDocs, i, i+1)
			p.AdditionalDocs = append(p.AdditionalDocs, entity.AdditionalDocument{Type: p.DocumentType, Number: p.DocumentNumber})
			p.DocumentType, p.DocumentNumber = d.Type, d.Number
		}
	}
}

func usable(d entity.AdditionalDocument) bool {
	return strings.TrimSpace(d.Type) != "" && strings.TrimSpace(d.Number) != ""
}

func nationalIDIndex(docs []entity.AdditionalDocument) int {
	return slices.IndexFunc(docs, func(d entity.AdditionalDocument) bool {
		return usable(d) && constants.IsNationalIDType(d.Type)
	})
}
