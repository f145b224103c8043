package merge

import (
	"github.com/joseph-ayodele/minutas/internal/core/preparse"
	"github.com/joseph-ayodele/minutas/internal/entity"
)

var fallbackRules = preparse.FallbackRules()

// ApplyFallbacks re-runs the fallback rule table over the longest evidence snippet of every
// person that still misses a name, document, address, civil status or occupation.
// Rules only fill empty fields, so a second call changes nothing.
func ApplyFallbacks(ext *entity.Extraction) {
	for _, role := range entity.Roles {
		list := *ext.Parties.List(role)
		for i := range list {
			FallbackPerson(&list[i])
		}
	}
}

// FallbackPerson applies the fallback rules to one person and returns the rules that fired.
func FallbackPerson(p *entity.PersonCandidate) []string {
	if !needsFallback(p) {
		return nil
	}
	snippet := p.LongestEvidence()
	if snippet == "" {
		return nil
	}
	if p.AdditionalDocs == nil {
		p.AdditionalDocs = []entity.AdditionalDocument{}
	}
	return fallbackRules.Apply(snippet, p)
}

func needsFallback(p *entity.PersonCandidate) bool {
	return p.GivenNames == "" || p.PaternalSurname == "" ||
		p.DocumentNumber == "" ||
		p.Domicile.Address == "" ||
		p.CivilStatus == "" ||
		p.Occupation == ""
}
