package constants

// PeruDepartments are the first-level administrative divisions, upper-cased without diacritics.
var PeruDepartments = map[string]struct{}{
	"AMAZONAS": {}, "ANCASH": {}, "APURIMAC": {}, "AREQUIPA": {}, "AYACUCHO": {},
	"CAJAMARCA": {}, "CALLAO": {}, "CUSCO": {}, "HUANCAVELICA": {}, "HUANUCO": {},
	"ICA": {}, "JUNIN": {}, "LA LIBERTAD": {}, "LAMBAYEQUE": {}, "LIMA": {},
	"LORETO": {}, "MADRE DE DIOS": {}, "MOQUEGUA": {}, "PASCO": {}, "PIURA": {},
	"PUNO": {}, "SAN MARTIN": {}, "TACNA": {}, "TUMBES": {}, "UCAYALI": {},
}

// CapitalProvinces imply the home country even without a department.
var CapitalProvinces = map[string]struct{}{"LIMA": {}, "CALLAO": {}}

// IsPeruDepartment reports whether key (see textutil.Key) is a department.
func IsPeruDepartment(key string) bool {
	_, ok := PeruDepartments[key]
	return ok
}

// RegistryZonePhrases map context phrases to the registry zone they name.
// Keys are upper-cased without diacritics.
var RegistryZonePhrases = []struct {
	Phrase string
	Zone   string
}{
	{"LIMA-SUNARP", "LIMA"},
	{"PROPIEDAD INMUEBLE DE LIMA", "LIMA"},
}
