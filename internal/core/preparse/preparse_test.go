package preparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/minutas/internal/entity"
)

const oliverChunk = "OLIVER THOMAS ALEXANDER STARK PREUSS, de nacionalidad peruano-alemana, identificado con DNI # 10322575 y pasaporte alemán # C4FNKZ6ZF, con domicilio en Jr. El Golf 756 , La Molina"

func TestParseGrantorScenario(t *testing.T) {
	text := "SEÑOR NOTARIO: sírvase extender una escritura de PODER que otorga " + oliverChunk +
		"; a favor de MARIA ELENA QUISPE MAMANI, identificada con DNI 45678912, con domicilio en Av. Arequipa 123, Lima. " +
		"TÉRMINOS Y CONDICIONES: el apoderado podrá cobrar."

	got := New(nil).Parse(text)
	require.Len(t, got.Grantors, 1)
	require.Len(t, got.Beneficiaries, 1)

	g := got.Grantors[0]
	assert.Equal(t, "Oliver Thomas Alexander", g.GivenNames)
	assert.Equal(t, "Stark", g.PaternalSurname)
	assert.Equal(t, "Preuss", g.MaternalSurname)
	assert.Equal(t, "DNI", g.DocumentType)
	assert.Equal(t, "10322575", g.DocumentNumber)
	assert.Equal(t, []entity.AdditionalDocument{{Type: "PASAPORTE", Number: "C4FNKZ6ZF"}}, g.AdditionalDocs)
	assert.Equal(t, "Jr. El Golf 756, La Molina", g.Domicile.Address)
	assert.Equal(t, "PERUANO-ALEMANA", g.Nationality)
	assert.Equal(t, string(entity.RoleGrantor), g.Role)

	b := got.Beneficiaries[0]
	assert.Equal(t, "Maria Elena", b.GivenNames)
	assert.Equal(t, "45678912", b.DocumentNumber)
	assert.Equal(t, string(entity.RoleBeneficiary), b.Role)
}

func TestParseEvidenceSpansAreRuneOffsets(t *testing.T) {
	text := "Señor Notario: PODER que otorga " + oliverChunk + "; a favor de ANA TORRES DÍAZ, con DNI 11111111"
	got := New(nil).Parse(text)
	require.Len(t, got.Grantors, 1)
	require.Len(t, got.Beneficiaries, 1)

	runes := []rune(text)
	for _, p := range append(got.Grantors, got.Beneficiaries...) {
		ev, ok := p.Evidence[EvidenceKey]
		require.True(t, ok)
		assert.Equal(t, ev.Text, string(runes[ev.Span[0]:ev.Span[1]]))
	}
}

func TestParseAdmissionGate(t *testing.T) {
	text := "que otorga JUAN PEREZ GOMEZ, de estado civil soltero, con domicilio en Lima; a favor de ANA TORRES DIAZ, con DNI 11111111"
	got := New(nil).Parse(text)
	assert.Empty(t, got.Grantors, "no candidate without a national ID")
	require.Len(t, got.Beneficiaries, 1)
	assert.Equal(t, "11111111", got.Beneficiaries[0].DocumentNumber)
}

func TestParseBeneficiaryNoise(t *testing.T) {
	tests := []struct {
		name string
		zone string
		want int
	}{
		{"tab separated signature block", "ANA TORRES DIAZ\tDNI 11111111", 0},
		{"two ids in one chunk", "ANA TORRES DIAZ DNI 11111111 CARLOS RUIZ PAZ DNI 22222222", 0},
		{"two people joined by y", "ANA TORRES DIAZ, con DNI 11111111 y CARLOS RUIZ PAZ, con DNI 22222222", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "que otorga JUAN PEREZ GOMEZ, con DNI 12345678; a favor de " + tt.zone
			got := New(nil).Parse(text)
			assert.Len(t, got.Beneficiaries, tt.want)
			assert.Len(t, got.Grantors, 1)
		})
	}
}

func TestParseSharedDomicile(t *testing.T) {
	text := "que otorgan JUAN PEREZ GOMEZ, con DNI 12345678 y ROSA DIAZ LUNA, con DNI 87654321, ambos con domicilio en Calle Los Pinos 45 , Surco; a favor de ANA TORRES DIAZ, con DNI 11111111"
	got := New(nil).Parse(text)
	require.Len(t, got.Grantors, 2)
	for _, g := range got.Grantors {
		assert.Equal(t, "Calle Los Pinos 45, Surco", g.Domicile.Address)
	}
}

func TestParseEmpty(t *testing.T) {
	got := New(nil).Parse("   ")
	assert.Empty(t, got.Grantors)
	assert.Empty(t, got.Beneficiaries)
}

func TestFindSegments(t *testing.T) {
	t.Run("both hinges", func(t *testing.T) {
		text := "PODER que otorga JUAN PEREZ GOMEZ a favor de ANA TORRES DIAZ"
		seg := FindSegments(text)
		assert.Equal(t, "JUAN PEREZ GOMEZ", seg.Grantor.Text)
		assert.Equal(t, "ANA TORRES DIAZ", seg.Beneficiary.Text)
		assert.Equal(t, seg.Grantor.Text, text[seg.Grantor.Offset:seg.Grantor.Offset+len(seg.Grantor.Text)])
		assert.Equal(t, seg.Beneficiary.Text, text[seg.Beneficiary.Offset:seg.Beneficiary.Offset+len(seg.Beneficiary.Text)])
	})

	t.Run("no favor hinge", func(t *testing.T) {
		seg := FindSegments("JUAN PEREZ GOMEZ con DNI 12345678")
		assert.Equal(t, "JUAN PEREZ GOMEZ con DNI 12345678", seg.Grantor.Text)
		assert.Empty(t, seg.Beneficiary.Text)
	})

	t.Run("earliest stop marker wins", func(t *testing.T) {
		text := "que otorga JUAN PEREZ GOMEZ a favor de ANA TORRES DIAZ, con DNI 11111111. FACULTADES: cobrar. PRIMERA .- objeto"
		seg := FindSegments(text)
		assert.Equal(t, "ANA TORRES DIAZ, con DNI 11111111.", seg.Beneficiary.Text)
	})

	t.Run("place and date line", func(t *testing.T) {
		seg := FindSegments("que otorga X a favor de ANA TORRES DIAZ DNI 11111111\nLima, 12 de marzo de 2024")
		assert.Equal(t, "ANA TORRES DIAZ DNI 11111111", seg.Beneficiary.Text)
	})
}

func TestSplitChunksKeepsTrailingDetails(t *testing.T) {
	chunks := SplitChunks(oliverChunk)
	require.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].IDs)
	assert.Equal(t, oliverChunk, chunks[0].Text)
}

func TestSplitChunksPreambleDoesNotSwallowID(t *testing.T) {
	chunks := SplitChunks("los señores abajo firmantes; JUAN PEREZ GOMEZ, con DNI 12345678")
	require.Len(t, chunks, 2)
	assert.Zero(t, chunks[0].IDs)
	assert.Equal(t, 1, chunks[1].IDs)
}

func TestRulesInIsolation(t *testing.T) {
	t.Run("national id does not overwrite", func(t *testing.T) {
		p := entity.PersonCandidate{DocumentNumber: "99999999"}
		assert.False(t, NationalIDRule().Apply("DNI N° 12345678", &p))
		assert.Equal(t, "99999999", p.DocumentNumber)

		p = entity.PersonCandidate{}
		assert.True(t, NationalIDRule().Apply("Documento Nacional de Identidad 12345678", &p))
		assert.Equal(t, "DNI", p.DocumentType)
		assert.Equal(t, "12345678", p.DocumentNumber)
	})

	t.Run("upper run skips administrative words", func(t *testing.T) {
		p := entity.PersonCandidate{}
		assert.True(t, UpperNameRule().Apply("DEPARTAMENTO DE LIMA, DON JUAN PEREZ GOMEZ", &p))
		assert.Equal(t, "Juan", p.GivenNames)
		assert.Equal(t, "Perez", p.PaternalSurname)
		assert.Equal(t, "Gomez", p.MaternalSurname)
	})

	t.Run("comma name", func(t *testing.T) {
		p := entity.PersonCandidate{}
		assert.True(t, CommaNameRule().Apply("QUISPE MAMANI, JUAN CARLOS, identificado con DNI 12345678", &p))
		assert.Equal(t, "Juan Carlos", p.GivenNames)
		assert.Equal(t, "Quispe", p.PaternalSurname)
		assert.Equal(t, "Mamani", p.MaternalSurname)
	})

	t.Run("passport needs a digit", func(t *testing.T) {
		p := entity.PersonCandidate{}
		assert.False(t, PassportRule().Apply("pasaporte alemana vigente", &p))
		assert.Empty(t, p.AdditionalDocs)
		assert.True(t, PassportRule().Apply("pasaporte N° ab12345", &p))
		assert.Equal(t, "AB12345", p.AdditionalDocs[0].Number)
		assert.False(t, PassportRule().Apply("pasaporte AB12345", &p), "duplicates are ignored")
	})

	t.Run("tax id", func(t *testing.T) {
		p := entity.PersonCandidate{}
		assert.True(t, TaxIDRule().Apply("con RUC 20123456789", &p))
		assert.Equal(t, []entity.AdditionalDocument{{Type: "RUC", Number: "20123456789"}}, p.AdditionalDocs)
	})

	t.Run("civil status and occupation", func(t *testing.T) {
		p := entity.PersonCandidate{}
		assert.True(t, CivilStatusRule().Apply("de estado civil casada", &p))
		assert.Equal(t, "CASADA", p.CivilStatus)
		assert.True(t, OccupationRule().Apply("de profesión ingeniero civil, con DNI", &p))
		assert.Equal(t, "Ingeniero civil", p.Occupation)
	})

	t.Run("domicile fills location parts", func(t *testing.T) {
		p := entity.PersonCandidate{}
		assert.True(t, DomicileRule().Apply("con domicilio en Av. Los Olivos 100, distrito de san isidro, provincia de lima", &p))
		assert.Equal(t, "San Isidro", p.Domicile.District)
		assert.Equal(t, "Lima", p.Domicile.Province)
		assert.Empty(t, p.Domicile.Department)
	})
}

func TestRulesSorted(t *testing.T) {
	rs := DefaultRules()
	for i := 1; i < len(rs); i++ {
		assert.LessOrEqual(t, rs[i-1].Priority, rs[i].Priority)
	}
	_, ok := rs.ByName("document.passport")
	assert.True(t, ok)
	_, ok = FallbackRules().ByName("nationality")
	assert.False(t, ok)
}
