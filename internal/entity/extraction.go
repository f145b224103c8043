package entity

// Role tags a person record with the side of the deed it belongs to.
type Role string

const (
	RoleGrantor      Role = "otorgante"
	RoleBeneficiary  Role = "beneficiario"
	RoleUndetermined Role = "indeterminado"
)

// Roles lists every role in output order.
var Roles = []Role{RoleGrantor, RoleBeneficiary, RoleUndetermined}

// Evidence is a source-text excerpt with its [start, end) character offsets.
type Evidence struct {
	Text string `json:"evidence_text"`
	Span [2]int `json:"char_span"`
}

// AdditionalDocument is any identity document besides the primary one.
type AdditionalDocument struct {
	Type    string `json:"tipo"`
	Number  string `json:"numero"`
	Remarks string `json:"observaciones"`
}

// Domicile is the flat address shape used before canonicalization.
type Domicile struct {
	Address      string `json:"direccion"`
	LocationCode string `json:"ubigeo"`
	District     string `json:"distrito"`
	Province     string `json:"provincia"`
	Department   string `json:"departamento"`
}

// IsEmpty reports whether no domicile field is set.
func (d Domicile) IsEmpty() bool {
	return d == Domicile{}
}

// PersonCandidate is one role-tagged person, as produced by the model or the preparser.
type PersonCandidate struct {
	GivenNames      string               `json:"nombres"`
	PaternalSurname string               `json:"apellido_paterno"`
	MaternalSurname string               `json:"apellido_materno"`
	Nationality     string               `json:"nacionalidad"`
	DocumentType    string               `json:"tipo_documento"`
	DocumentNumber  string               `json:"numero_documento"`
	AdditionalDocs  []AdditionalDocument `json:"docs_adicionales"`
	Occupation      string               `json:"profesion_ocupacion"`
	CivilStatus     string               `json:"estado_civil"`
	Domicile        Domicile             `json:"domicilio"`
	Role            string               `json:"role"`
	Evidence        map[string]Evidence  `json:"evidence"`
}

// HasName reports whether any name part is set.
func (p *PersonCandidate) HasName() bool {
	return p.GivenNames != "" || p.PaternalSurname != "" || p.MaternalSurname != ""
}

// HasAdditionalDoc reports whether a document with the same type and number is already listed.
func (p *PersonCandidate) HasAdditionalDoc(docType, number string) bool {
	for _, d := range p.AdditionalDocs {
		if d.Type == docType && d.Number == number {
			return true
		}
	}
	return false
}

// LongestEvidence returns the longest evidence snippet, or "" when there is none.
// Ties go to the lexically smallest key so the choice is stable.
func (p *PersonCandidate) LongestEvidence() string {
	best, bestKey := "", ""
	for k, ev := range p.Evidence {
		if len(ev.Text) > len(best) || (len(ev.Text) == len(best) && len(ev.Text) > 0 && k < bestKey) {
			best, bestKey = ev.Text, k
		}
	}
	return best
}

// Parties groups person lists by role.
type Parties struct {
	Grantors      []PersonCandidate `json:"otorgantes"`
	Beneficiaries []PersonCandidate `json:"beneficiarios"`
	Undetermined  []PersonCandidate `json:"indeterminados"`
}

// List returns a pointer to the slice holding role's persons.
func (p *Parties) List(role Role) *[]PersonCandidate {
	switch role {
	case RoleBeneficiary:
		return &p.Beneficiaries
	case RoleUndetermined:
		return &p.Undetermined
	default:
		return &p.Grantors
	}
}

// Key returns the list name used in confidence paths ("otorgantes", ...).
func (r Role) Key() string {
	return string(r) + "s"
}

// Confidence holds per-field scores in [0,1]. Scores only move through Raise and Cap.
type Confidence struct {
	Fields            map[string]float64 `json:"campos"`
	ActClassification float64            `json:"clasificacion_acto"`
}

// Raise sets key to max(current or def, floor).
func (c *Confidence) Raise(key string, def, floor float64) {
	if c.Fields == nil {
		c.Fields = make(map[string]float64)
	}
	cur, ok := c.Fields[key]
	if !ok {
		cur = def
	}
	c.Fields[key] = max(cur, floor)
}

// Cap sets key to min(current or def, ceiling).
func (c *Confidence) Cap(key string, def, ceiling float64) {
	if c.Fields == nil {
		c.Fields = make(map[string]float64)
	}
	cur, ok := c.Fields[key]
	if !ok {
		cur = def
	}
	c.Fields[key] = min(cur, ceiling)
}

// Extraction is the sanitized intermediate shape of one deed.
type Extraction struct {
	Act         string     `json:"acto"`
	Parties     Parties    `json:"generales_ley"`
	DeedDate    string     `json:"fecha_minuta"`
	Confidence  Confidence `json:"confidence"`
	RawTextHash string     `json:"raw_text_hash"`
}

// NewExtraction returns an extraction with empty, non-nil collections.
func NewExtraction() Extraction {
	return Extraction{
		Parties: Parties{
			Grantors:      []PersonCandidate{},
			Beneficiaries: []PersonCandidate{},
			Undetermined:  []PersonCandidate{},
		},
		Confidence: Confidence{Fields: map[string]float64{}},
	}
}
