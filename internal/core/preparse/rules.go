package preparse

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/textutil"
)

// Patterns shared by the preparser and the evidence fallback.
var (
	ReNationalID     = regexp.MustCompile(`(?i)\b(D\.?N\.?I\.?|Documento\s+Nacional\s+de\s+Identidad|DNI)\s*(?:N[º°\.]|#|No\.?|Nro\.?|Nº|N°)?\s*([0-9]{8})\b`)
	ReTaxID          = regexp.MustCompile(`(?i)\bRUC\s*(?:N[º°\.]|#|No\.?|Nro\.?|Nº|N°)?\s*([0-9]{11})\b`)
	RePassport       = regexp.MustCompile(`(?i)\bpasaporte\b([^;,\n]{0,40})`)
	ReDomicile       = regexp.MustCompile(`(?i)(?:con\s+domicilio\s+en|domiciliad[oa]\s+en|domicilio\s*:)\s+([^;:\n]+)`)
	ReSharedDomicile = regexp.MustCompile(`(?i)\b(?:amb[oa]s|tod[oa]s)\b[^;]*?\bcon\s+domicilio\s+en\s+([^;:\n]+)`)
	ReCivilStatus    = regexp.MustCompile(`(?i)\b(solter[oa]|casad[oa]|divorciad[oa]|viud[oa])\b`)
	ReNationality    = regexp.MustCompile(`(?i)de\s+nacionalidad\s+([a-záéíóúñü\-]+)`)
	ReProfession     = regexp.MustCompile(`(?i)(?:de\s+profesi[oó]n|de\s+ocupaci[oó]n)\s+([A-Za-zÁÉÍÓÚÑñü\s]+?)(?:[,;]|$)`)
	ReUpperName      = regexp.MustCompile(`[A-ZÁÉÍÓÚÑÜ][A-ZÁÉÍÓÚÑÜ'’\-\s]{2,}`)
	ReCommaName      = regexp.MustCompile(`^\s*([A-ZÁÉÍÓÚÑ ]{2,})\s*,\s*([A-ZÁÉÍÓÚÑ ]{2,})(?:[^a-záéíóúñ]|$)`)

	rePassportNumber = regexp.MustCompile(`\b[A-Za-z0-9]{6,}\b`)
	reCommaSpacing   = regexp.MustCompile(`\s*,\s*`)
	reHasDigit       = regexp.MustCompile(`[0-9]`)
	reLocationPart   = map[string]*regexp.Regexp{
		"distrito":     regexp.MustCompile(`distrito\s+de\s+([a-záéíóúñü\s]+)`),
		"provincia":    regexp.MustCompile(`provincia\s+de\s+([a-záéíóúñü\s]+)`),
		"departamento": regexp.MustCompile(`departamento\s+de\s+([a-záéíóúñü\s]+)`),
	}
)

// first words that disqualify an uppercase run as a person name
var adminWords = map[string]struct{}{
	"DEPARTAMENTO": {}, "PROVINCIA": {}, "DISTRITO": {}, "URB.": {}, "URBANIZACIÓN": {}, "URBANIZACION": {},
	"EL": {}, "LA": {}, "LOS": {}, "LAS": {}, "DE": {}, "DEL": {}, "Y": {},
	"SEÑOR": {}, "SEÑORES": {}, "NOTARIO": {}, "ESCRITURA": {}, "PODER": {}, "MINUTA": {}, "KARDEX": {},
}

// leading words dropped from a name run
var honorifics = map[string]struct{}{"DON": {}, "DOÑA": {}, "SR.": {}, "SRA.": {}, "SR": {}, "SRA": {}}

// Rule is one deterministic extraction step. Extract receives each pattern match in turn
// and reports whether it consumed it; Apply stops at the first consumed match unless
// Multi is set, in which case every match is offered.
// Extract must never overwrite a non-empty field.
type Rule struct {
	Name     string
	Field    string
	Priority int
	Multi    bool
	Pattern  *regexp.Regexp
	Extract  func(m []string, p *entity.PersonCandidate) bool
}

// Apply runs the rule over text and reports whether it filled anything.
func (r Rule) Apply(text string, p *entity.PersonCandidate) bool {
	filled := false
	for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
		if r.Extract(m, p) {
			if !r.Multi {
				return true
			}
			filled = true
		}
	}
	return filled
}

// Rules is an ordered rule table.
type Rules []Rule

// Sorted returns a copy ordered by ascending priority, keeping table order on ties.
func (rs Rules) Sorted() Rules {
	out := slices.Clone(rs)
	slices.SortStableFunc(out, func(a, b Rule) int { return a.Priority - b.Priority })
	return out
}

// Apply runs every rule in order and returns the names of the rules that fired.
func (rs Rules) Apply(text string, p *entity.PersonCandidate) []string {
	var fired []string
	for _, r := range rs {
		if r.Apply(text, p) {
			fired = append(fired, r.Name)
		}
	}
	return fired
}

// ByName finds a rule in the table.
func (rs Rules) ByName(name string) (Rule, bool) {
	for _, r := range rs {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// NationalIDRule fills the primary document from a DNI mention.
func NationalIDRule() Rule {
	return Rule{
		Name: "document.national_id", Field: "numero_documento", Priority: 10, Pattern: ReNationalID,
		Extract: func(m []string, p *entity.PersonCandidate) bool {
			if p.DocumentNumber != "" {
				return false
			}
			if p.DocumentType == "" {
				p.DocumentType = "DNI"
			}
			p.DocumentNumber = m[2]
			return true
		},
	}
}

// UpperNameRule takes the first name-like uppercase run and splits it by token count.
func UpperNameRule() Rule {
	return Rule{
		Name: "name.upper_run", Field: "nombres", Priority: 20, Pattern: ReUpperName,
		Extract: func(m []string, p *entity.PersonCandidate) bool {
			if p.HasName() {
				return false
			}
			name, ok := cleanNameRun(m[0])
			if !ok {
				return false
			}
			p.GivenNames, p.PaternalSurname, p.MaternalSurname = SplitFullName(name)
			return true
		},
	}
}

// CommaNameRule reads "SURNAMES, GIVEN NAMES" at the start of a snippet.
func CommaNameRule() Rule {
	return Rule{
		Name: "name.comma", Field: "nombres", Priority: 20, Pattern: ReCommaName,
		Extract: func(m []string, p *entity.PersonCandidate) bool {
			if p.HasName() {
				return false
			}
			given, paternal, maternal := splitCommaName(m[1], m[2])
			if given == "" {
				return false
			}
			p.GivenNames, p.PaternalSurname, p.MaternalSurname = given, paternal, maternal
			return true
		},
	}
}

// NationalityRule fills nacionalidad.
func NationalityRule() Rule {
	return Rule{
		Name: "nationality", Field: "nacionalidad", Priority: 30, Pattern: ReNationality,
		Extract: func(m []string, p *entity.PersonCandidate) bool {
			if p.Nationality != "" {
				return false
			}
			p.Nationality = strings.ToUpper(m[1])
			return true
		},
	}
}

// CivilStatusRule fills estado_civil.
func CivilStatusRule() Rule {
	return Rule{
		Name: "civil_status", Field: "estado_civil", Priority: 40, Pattern: ReCivilStatus,
		Extract: func(m []string, p *entity.PersonCandidate) bool {
			if p.CivilStatus != "" {
				return false
			}
			p.CivilStatus = strings.ToUpper(m[1])
			return true
		},
	}
}

// OccupationRule fills profesion_ocupacion.
func OccupationRule() Rule {
	return Rule{
		Name: "occupation", Field: "profesion_ocupacion", Priority: 50, Pattern: ReProfession,
		Extract: func(m []string, p *entity.PersonCandidate) bool {
			v := textutil.CleanSpaces(m[1])
			if p.Occupation != "" || v == "" {
				return false
			}
			p.Occupation = textutil.Capitalize(v)
			return true
		},
	}
}

// DomicileRule fills the address and any "distrito/provincia/departamento de X" parts in it.
func DomicileRule() Rule {
	return Rule{
		Name: "domicile", Field: "domicilio.direccion", Priority: 60, Pattern: ReDomicile,
		Extract: func(m []string, p *entity.PersonCandidate) bool {
			addr := NormalizeAddress(m[1])
			if p.Domicile.Address != "" || addr == "" {
				return false
			}
			p.Domicile.Address = addr
			fillLocationFromAddress(addr, &p.Domicile)
			return true
		},
	}
}

// PassportRule appends every passport mentioned to the additional documents.
// The number is the first 6+ character token after "pasaporte" that contains a digit.
func PassportRule() Rule {
	return Rule{
		Name: "document.passport", Field: "docs_adicionales", Priority: 70, Multi: true, Pattern: RePassport,
		Extract: func(m []string, p *entity.PersonCandidate) bool {
			for _, tok := range rePassportNumber.FindAllString(m[1], -1) {
				if !reHasDigit.MatchString(tok) {
					continue
				}
				num := strings.ToUpper(tok)
				if p.DocumentNumber == num || hasDocNumber(p, num) {
					return false
				}
				p.AdditionalDocs = append(p.AdditionalDocs, entity.AdditionalDocument{Type: "PASAPORTE", Number: num})
				return true
			}
			return false
		},
	}
}

// TaxIDRule appends every RUC mentioned to the additional documents.
func TaxIDRule() Rule {
	return Rule{
		Name: "document.tax_id", Field: "docs_adicionales", Priority: 80, Multi: true, Pattern: ReTaxID,
		Extract: func(m []string, p *entity.PersonCandidate) bool {
			num := m[1]
			if p.DocumentNumber == num || hasDocNumber(p, num) {
				return false
			}
			p.AdditionalDocs = append(p.AdditionalDocs, entity.AdditionalDocument{Type: "RUC", Number: num})
			return true
		},
	}
}

// DefaultRules is the preparser rule table, sorted by priority.
func DefaultRules() Rules {
	return Rules{
		NationalIDRule(), UpperNameRule(), NationalityRule(), CivilStatusRule(),
		OccupationRule(), DomicileRule(), PassportRule(), TaxIDRule(),
	}.Sorted()
}

// FallbackRules is the table re-applied to evidence snippets: comma-style names,
// documents, address, civil status and occupation.
func FallbackRules() Rules {
	return Rules{
		NationalIDRule(), CommaNameRule(), CivilStatusRule(),
		OccupationRule(), DomicileRule(), PassportRule(), TaxIDRule(),
	}.Sorted()
}

// SplitFullName splits "GIVEN... PATERNAL MATERNAL" by token count and title-cases each part.
func SplitFullName(full string) (given, paternal, maternal string) {
	parts := strings.Fields(full)
	switch {
	case len(parts) >= 3:
		given = strings.Join(parts[:len(parts)-2], " ")
		paternal, maternal = parts[len(parts)-2], parts[len(parts)-1]
	case len(parts) == 2:
		given, paternal = parts[0], parts[1]
	case len(parts) == 1:
		given = parts[0]
	}
	return textutil.TitleCase(given), textutil.TitleCase(paternal), textutil.TitleCase(maternal)
}

// NormalizeAddress tidies comma spacing: "Jr. El Golf 756 , La Molina" -> "Jr. El Golf 756, La Molina".
func NormalizeAddress(s string) string {
	s = reCommaSpacing.ReplaceAllString(s, ", ")
	s = textutil.CleanSpaces(s)
	return strings.Trim(s, " ,")
}

// LooksLikeName reports whether an uppercase run can be a person name.
func LooksLikeName(s string) bool {
	_, ok := cleanNameRun(s)
	return ok
}

func cleanNameRun(s string) (string, bool) {
	parts := strings.Fields(strings.Trim(s, " -'’\t\n"))
	for len(parts) > 0 {
		if _, ok := honorifics[parts[0]]; !ok {
			break
		}
		parts = parts[1:]
	}
	if len(parts) < 2 {
		return "", false
	}
	if _, bad := adminWords[strings.Trim(parts[0], ".,;:")]; bad {
		return "", false
	}
	return strings.Join(parts, " "), true
}

func splitCommaName(surnames, names string) (given, paternal, maternal string) {
	sur := strings.Fields(surnames)
	given = titleKeepShort(strings.Join(strings.Fields(names), " "))
	switch {
	case len(sur) >= 2:
		paternal, maternal = sur[0], strings.Join(sur[1:], " ")
	case len(sur) == 1:
		paternal = sur[0]
	}
	return given, titleKeepShort(paternal), titleKeepShort(maternal)
}

// titleKeepShort capitalizes words longer than two runes and lower-cases particles ("DE" -> "de").
func titleKeepShort(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if utf8.RuneCountInString(w) > 2 {
			words[i] = textutil.Capitalize(w)
		} else {
			words[i] = strings.ToLower(w)
		}
	}
	return strings.Join(words, " ")
}

func fillLocationFromAddress(addr string, d *entity.Domicile) {
	low := strings.ToLower(addr)
	targets := map[string]*string{"distrito": &d.District, "provincia": &d.Province, "departamento": &d.Department}
	for key, dst := range targets {
		if *dst != "" {
			continue
		}
		if m := reLocationPart[key].FindStringSubmatch(low); m != nil {
			*dst = textutil.TitleCase(strings.TrimSpace(m[1]))
		}
	}
}

func hasDocNumber(p *entity.PersonCandidate, num string) bool {
	for _, d := range p.AdditionalDocs {
		if strings.EqualFold(d.Number, num) {
			return true
		}
	}
	return false
}
