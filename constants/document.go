package constants

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/minutas/internal/textutil"
)

// DocumentType is the canonical identity document type token.
type DocumentType string

const (
	DocNationalID DocumentType = "DNI"
	DocTaxID      DocumentType = "RUC"
	DocForeignID  DocumentType = "C.E."
	DocPassport   DocumentType = "PAS"
)

var reNonLetters = regexp.MustCompile(`[^A-Z]`)

var documentSynonyms = map[string]DocumentType{
	"DNI":                          DocNationalID,
	"DOCUMENTONACIONALDEIDENTIDAD": DocNationalID,
	"LE":                           DocNationalID,
	"RUC":                          DocTaxID,
	"CE":                           DocForeignID,
	"CARNETDEEXTRANJERIA":          DocForeignID,
	"CARNEDEEXTRANJERIA":           DocForeignID,
	"PAS":                          DocPassport,
	"PASAPORTE":                    DocPassport,
	"PASS":                         DocPassport,
	"PASSPORT":                     DocPassport,
}

// DocumentToken folds diacritics, upper-cases and drops everything but letters:
// "D.N.I." -> "DNI", "c.e." -> "CE".
func DocumentToken(input string) string {
	return reNonLetters.ReplaceAllString(strings.ToUpper(textutil.StripDiacritics(input)), "")
}

// CanonicalizeDocumentType maps a free-text document type to a known type.
func CanonicalizeDocumentType(input string) (DocumentType, bool) {
	tok := DocumentToken(input)
	if tok == "" {
		return "", false
	}
	if dt, ok := documentSynonyms[tok]; ok {
		return dt, true
	}
	return "", false
}

// NumericOnly reports whether numbers of this type are digits only.
func (d DocumentType) NumericOnly() bool {
	return d == DocNationalID || d == DocTaxID || d == DocForeignID
}

// IsNationalIDType reports whether free text names the national ID.
func IsNationalIDType(input string) bool {
	dt, _ := CanonicalizeDocumentType(input)
	return dt == DocNationalID || strings.HasPrefix(DocumentToken(input), "DNI")
}

// IsPassportType reports whether free text names a passport.
func IsPassportType(input string) bool {
	dt, _ := CanonicalizeDocumentType(input)
	return dt == DocPassport || strings.HasPrefix(DocumentToken(input), "PASAPORTE")
}

// IsTaxIDType reports whether free text names the tax registration number.
func IsTaxIDType(input string) bool {
	dt, _ := CanonicalizeDocumentType(input)
	return dt == DocTaxID || strings.HasPrefix(DocumentToken(input), "RUC")
}
