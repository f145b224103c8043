package constants

// Person types (tipo_persona).
const (
	PersonNatural   = "NATURAL"
	PersonJuridical = "JURIDICA"
)

// Canonical participant roles (rol).
const (
	RoleGrantor     = "OTORGANTE"
	RoleBeneficiary = "BENEFICIARIO"
)

// OtherOccupation is the catalog bucket for occupations without a match.
const OtherOccupation = "OTROS (ESPECIFICAR)"

// HomeCountry is inferred for domiciles inside a Peruvian department.
const HomeCountry = "PERU"

// civil status labels folded to the catalog's masculine form
var civilStatusFold = map[string]string{
	"SOLTERA":    "SOLTERO",
	"CASADA":     "CASADO",
	"DIVORCIADA": "DIVORCIADO",
	"VIUDA":      "VIUDO",
	"SEPARADA":   "SEPARADO",
}

// FoldCivilStatus maps feminine civil status forms to the catalog form.
// Input is expected upper-cased.
func FoldCivilStatus(s string) string {
	if f, ok := civilStatusFold[s]; ok {
		return f
	}
	return s
}

// CanonicalizePersonType folds free text to NATURAL or JURIDICA. Blank input is NATURAL.
// Input is expected upper-cased without diacritics.
func CanonicalizePersonType(s string) string {
	switch s {
	case "JURIDICA", "PERSONA JURIDICA", "J", "EMPRESA", "SOCIEDAD":
		return PersonJuridical
	case "", "NATURAL", "PERSONA NATURAL", "N":
		return PersonNatural
	}
	return s
}
