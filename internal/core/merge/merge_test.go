package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/minutas/internal/entity"
)

func person(given, paternal, doc string) entity.PersonCandidate {
	return entity.PersonCandidate{GivenNames: given, PaternalSurname: paternal, DocumentNumber: doc}
}

func TestMergeAdoptsCandidatesWhenModelEmpty(t *testing.T) {
	cands := []entity.PersonCandidate{person("Ana", "Torres", "11111111")}
	got := Merge(nil, cands, Positional)
	assert.Equal(t, cands, got)
}

func TestMergePositionalFieldPriority(t *testing.T) {
	model := []entity.PersonCandidate{{
		GivenNames:     "Oliver",
		DocumentNumber: "",
		Domicile:       entity.Domicile{District: "La Molina"},
		Evidence:       map[string]entity.Evidence{"nombres": {Text: "model", Span: [2]int{0, 5}}},
	}}
	cands := []entity.PersonCandidate{
		{
			GivenNames:      "Oliver Thomas",
			PaternalSurname: "Stark",
			DocumentType:    "DNI",
			DocumentNumber:  "10322575",
			Domicile:        entity.Domicile{Address: "Jr. El Golf 756", District: "Molina"},
			AdditionalDocs:  []entity.AdditionalDocument{{Type: "PASAPORTE", Number: "C4FNKZ6ZF"}},
			Evidence: map[string]entity.Evidence{
				"nombres":        {Text: "cand", Span: [2]int{1, 2}},
				"preparse.chunk": {Text: "chunk", Span: [2]int{3, 8}},
			},
		},
		person("Ana", "Torres", "11111111"),
	}

	got := Merge(model, cands, Positional)
	require.Len(t, got, 2)
	m := got[0]
	assert.Equal(t, "Oliver", m.GivenNames, "model wins when non-empty")
	assert.Equal(t, "Stark", m.PaternalSurname)
	assert.Equal(t, "10322575", m.DocumentNumber)
	assert.Equal(t, "Jr. El Golf 756", m.Domicile.Address)
	assert.Equal(t, "La Molina", m.Domicile.District)
	assert.Equal(t, []entity.AdditionalDocument{{Type: "PASAPORTE", Number: "C4FNKZ6ZF"}}, m.AdditionalDocs)
	assert.Equal(t, "model", m.Evidence["nombres"].Text)
	assert.Equal(t, "chunk", m.Evidence["preparse.chunk"].Text)
	assert.Equal(t, "Ana", got[1].GivenNames, "extra candidates are kept")
}

func TestMergeDoesNotDuplicateDocuments(t *testing.T) {
	m := entity.PersonCandidate{
		DocumentNumber: "10322575",
		AdditionalDocs: []entity.AdditionalDocument{{Type: "Pasaporte", Number: "c4fnkz6zf"}},
	}
	c := entity.PersonCandidate{AdditionalDocs: []entity.AdditionalDocument{
		{Type: "PASAPORTE", Number: "C4FNKZ6ZF"},
		{Type: "DNI", Number: "10322575"},
		{Type: "RUC", Number: "10103225751"},
	}}
	got := Person(m, c)
	assert.Equal(t, []entity.AdditionalDocument{
		{Type: "Pasaporte", Number: "c4fnkz6zf"},
		{Type: "RUC", Number: "10103225751"},
	}, got.AdditionalDocs)
}

func TestMergeByIdentity(t *testing.T) {
	model := []entity.PersonCandidate{
		person("Ana", "Torres", ""),
		person("Juan", "Perez", "12.345.678"),
		person("Nadie", "Conocido", ""),
	}
	cands := []entity.PersonCandidate{
		{GivenNames: "JUAN", PaternalSurname: "PEREZ", DocumentNumber: "12345678", Occupation: "Abogado"},
		{GivenNames: "ANA", PaternalSurname: "TORRES", DocumentNumber: "11111111"},
		person("Rosa", "Diaz", "22222222"),
		person("Luis", "Rojas", "33333333"),
	}

	got := Merge(model, cands, ByIdentity)
	require.Len(t, got, 4)
	assert.Equal(t, "11111111", got[0].DocumentNumber, "paired by name")
	assert.Equal(t, "Abogado", got[1].Occupation, "paired by document digits")
	assert.Equal(t, "22222222", got[2].DocumentNumber, "leftovers pair by position")
	assert.Equal(t, "Luis", got[3].GivenNames)

	positional := Merge(model, cands, Positional)
	assert.Equal(t, "12.345.678", positional[1].DocumentNumber)
	assert.Empty(t, positional[1].Occupation, "positional pairs Juan with Ana's candidate")
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, Positional, s)
	s, err = ParseStrategy("Identity")
	require.NoError(t, err)
	assert.Equal(t, ByIdentity, s)
	_, err = ParseStrategy("fuzzy")
	assert.Error(t, err)
}

func TestPartiesMergesEveryRole(t *testing.T) {
	ext := entity.NewExtraction()
	ext.Parties.Grantors = []entity.PersonCandidate{person("Juan", "", "")}
	cands := entity.Parties{
		Grantors:      []entity.PersonCandidate{person("Juan", "Perez", "12345678")},
		Beneficiaries: []entity.PersonCandidate{person("Ana", "Torres", "11111111")},
	}
	Parties(&ext, cands, Positional)
	assert.Equal(t, "Perez", ext.Parties.Grantors[0].PaternalSurname)
	require.Len(t, ext.Parties.Beneficiaries, 1)
	assert.Empty(t, ext.Parties.Undetermined)
}

func TestFallbackFillsOnlyEmptyFields(t *testing.T) {
	p := entity.PersonCandidate{
		GivenNames: "Juan Carlos",
		Evidence: map[string]entity.Evidence{
			"short": {Text: "DNI 99999999"},
			"long": {Text: "QUISPE MAMANI, JUAN CARLOS, de estado civil soltero, identificado con DNI 12345678, " +
				"pasaporte N° AB12345, RUC 10123456789, con domicilio en Av. Arequipa 123 , Lima"},
		},
	}
	fired := FallbackPerson(&p)
	assert.Contains(t, fired, "document.national_id")
	assert.NotContains(t, fired, "name.comma", "names are present")
	assert.Equal(t, "Juan Carlos", p.GivenNames)
	assert.Empty(t, p.PaternalSurname)
	assert.Equal(t, "12345678", p.DocumentNumber)
	assert.Equal(t, "SOLTERO", p.CivilStatus)
	assert.Equal(t, "Av. Arequipa 123, Lima", p.Domicile.Address)
	assert.Equal(t, []entity.AdditionalDocument{
		{Type: "PASAPORTE", Number: "AB12345"},
		{Type: "RUC", Number: "10123456789"},
	}, p.AdditionalDocs)
}

func TestFallbackIsIdempotent(t *testing.T) {
	ext := entity.NewExtraction()
	ext.Parties.Beneficiaries = []entity.PersonCandidate{{
		Evidence: map[string]entity.Evidence{"x": {Text: "ROJAS DE LA CRUZ, MARIA, pasaporte A123456, pasaporte B765432, RUC 20123456789"}},
	}}
	ApplyFallbacks(&ext)
	first := ext.Parties.Beneficiaries[0]
	first.AdditionalDocs = append([]entity.AdditionalDocument(nil), first.AdditionalDocs...)

	assert.Equal(t, "Maria", first.GivenNames)
	assert.Equal(t, "Rojas", first.PaternalSurname)
	assert.Equal(t, "de la Cruz", first.MaternalSurname)
	assert.Len(t, first.AdditionalDocs, 3)

	ApplyFallbacks(&ext)
	assert.Equal(t, first, ext.Parties.Beneficiaries[0])
}

func TestFallbackWithoutEvidence(t *testing.T) {
	p := entity.PersonCandidate{}
	assert.Nil(t, FallbackPerson(&p))
	assert.Nil(t, p.AdditionalDocs)
}
