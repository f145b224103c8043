// Package merge reconciles model-extracted persons with deterministic candidates and
// fills remaining gaps from evidence snippets.
package merge

import (
	"fmt"
	"maps"
	"strings"

	"github.com/joseph-ayodele/minutas/internal/common"
	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/textutil"
)

// Strategy decides which model entry is merged with which candidate.
type Strategy string

const (
	// Positional pairs entries by index. Both lists are assumed to follow the text order.
	Positional Strategy = "positional"
	// ByIdentity pairs by document number, then normalized full name, then by position
	// among the entries left unpaired.
	ByIdentity Strategy = "identity"
)

// ParseStrategy maps a config value to a Strategy. Empty means Positional.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Positional:
		return Positional, nil
	case ByIdentity:
		return ByIdentity, nil
	}
	return "", common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown merge strategy %q", s), common.ErrInvalidInput)
}

// Parties merges candidates into ext in place, role by role.
func Parties(ext *entity.Extraction, cands entity.Parties, s Strategy) {
	for _, role := range entity.Roles {
		list := ext.Parties.List(role)
		*list = Merge(*list, *cands.List(role), s)
	}
}

// Merge combines one role's lists. An empty model list adopts the candidates as they are;
// otherwise every field comes from the model entry when non-empty, else from its candidate.
func Merge(model, cands []entity.PersonCandidate, s Strategy) []entity.PersonCandidate {
	if len(model) == 0 {
		out := make([]entity.PersonCandidate, len(cands))
		copy(out, cands)
		return out
	}
	var pairs [][2]int
	if s == ByIdentity {
		pairs = pairByIdentity(model, cands)
	} else {
		pairs = pairByPosition(len(model), len(cands))
	}

	out := make([]entity.PersonCandidate, 0, len(pairs))
	for _, pr := range pairs {
		switch {
		case pr[0] >= 0 && pr[1] >= 0:
			out = append(out, Person(model[pr[0]], cands[pr[1]]))
		case pr[0] >= 0:
			out = append(out, model[pr[0]])
		default:
			out = append(out, cands[pr[1]])
		}
	}
	return out
}

// Person merges one model entry with one candidate, model first.
func Person(m, c entity.PersonCandidate) entity.PersonCandidate {
	out := m
	out.GivenNames = textutil.FirstNonEmpty(m.GivenNames, c.GivenNames)
	out.PaternalSurname = textutil.FirstNonEmpty(m.PaternalSurname, c.PaternalSurname)
	out.MaternalSurname = textutil.FirstNonEmpty(m.MaternalSurname, c.MaternalSurname)
	out.Nationality = textutil.FirstNonEmpty(m.Nationality, c.Nationality)
	out.DocumentType = textutil.FirstNonEmpty(m.DocumentType, c.DocumentType)
	out.DocumentNumber = textutil.FirstNonEmpty(m.DocumentNumber, c.DocumentNumber)
	out.Occupation = textutil.FirstNonEmpty(m.Occupation, c.Occupation)
	out.CivilStatus = textutil.FirstNonEmpty(m.CivilStatus, c.CivilStatus)
	out.Role = textutil.FirstNonEmpty(m.Role, c.Role)
	out.Domicile = entity.Domicile{
		Address:      textutil.FirstNonEmpty(m.Domicile.Address, c.Domicile.Address),
		LocationCode: textutil.FirstNonEmpty(m.Domicile.LocationCode, c.Domicile.LocationCode),
		District:     textutil.FirstNonEmpty(m.Domicile.District, c.Domicile.District),
		Province:     textutil.FirstNonEmpty(m.Domicile.Province, c.Domicile.Province),
		Department:   textutil.FirstNonEmpty(m.Domicile.Department, c.Domicile.Department),
	}

	out.AdditionalDocs = append([]entity.AdditionalDocument{}, m.AdditionalDocs...)
	for _, d := range c.AdditionalDocs {
		if !sameDocListed(out.AdditionalDocs, d) && !sameAsPrimary(out, d) {
			out.AdditionalDocs = append(out.AdditionalDocs, d)
		}
	}

	out.Evidence = make(map[string]entity.Evidence, len(m.Evidence)+len(c.Evidence))
	maps.Copy(out.Evidence, c.Evidence)
	maps.Copy(out.Evidence, m.Evidence)
	return out
}

func pairByPosition(nModel, nCands int) [][2]int {
	n := max(nModel, nCands)
	pairs := make([][2]int, n)
	for i := range n {
		pairs[i] = [2]int{-1, -1}
		if i < nModel {
			pairs[i][0] = i
		}
		if i < nCands {
			pairs[i][1] = i
		}
	}
	return pairs
}

// pairByIdentity returns model entries in order, each with its matched candidate or -1,
// followed by the candidates nobody claimed.
func pairByIdentity(model, cands []entity.PersonCandidate) [][2]int {
	match := make([]int, len(model))
	for i := range match {
		match[i] = -1
	}
	taken := make([]bool, len(cands))

	claim := func(key func(entity.PersonCandidate) string) {
		for i, m := range model {
			if match[i] >= 0 {
				continue
			}
			k := key(m)
			if k == "" {
				continue
			}
			for j, c := range cands {
				if !taken[j] && key(c) == k {
					match[i], taken[j] = j, true
					break
				}
			}
		}
	}
	claim(documentKey)
	claim(nameKey)

	next := 0
	for i := range model {
		if match[i] >= 0 {
			continue
		}
		for next < len(cands) && taken[next] {
			next++
		}
		if next < len(cands) {
			match[i], taken[next] = next, true
		}
	}

	pairs := make([][2]int, 0, len(model)+len(cands))
	for i, j := range match {
		pairs = append(pairs, [2]int{i, j})
	}
	for j, t := range taken {
		if !t {
			pairs = append(pairs, [2]int{-1, j})
		}
	}
	return pairs
}

func documentKey(p entity.PersonCandidate) string {
	return strings.ToUpper(strings.TrimSpace(textutil.FirstNonEmpty(textutil.OnlyDigits(p.DocumentNumber), p.DocumentNumber)))
}

func nameKey(p entity.PersonCandidate) string {
	return textutil.Key(strings.Join([]string{p.GivenNames, p.PaternalSurname, p.MaternalSurname}, " "))
}

func sameDocListed(docs []entity.AdditionalDocument, d entity.AdditionalDocument) bool {
	for _, x := range docs {
		if textutil.Key(x.Type) == textutil.Key(d.Type) && strings.EqualFold(x.Number, d.Number) {
			return true
		}
	}
	return false
}

func sameAsPrimary(p entity.PersonCandidate, d entity.AdditionalDocument) bool {
	return d.Number != "" && strings.EqualFold(p.DocumentNumber, d.Number)
}
