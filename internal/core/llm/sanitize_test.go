package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/minutas/internal/entity"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func hasIssue(issues []Issue, path string, kind IssueKind) bool {
	for _, i := range issues {
		if i.Path == path && i.Kind == kind {
			return true
		}
	}
	return false
}

func TestSanitizeNonObject(t *testing.T) {
	for _, raw := range []any{nil, "texto", 42.0, []any{1.0}} {
		ext, issues := Sanitize(raw, "h")
		assert.Equal(t, DefaultAct, ext.Act)
		assert.Equal(t, "h", ext.RawTextHash)
		assert.NotNil(t, ext.Parties.Grantors)
		assert.Empty(t, ext.Parties.Grantors)
		assert.True(t, hasIssue(issues, "$", IssueNotObject))
	}
}

func TestSanitizeFullDocument(t *testing.T) {
	raw := decode(t, `{
		"payload": {
			"acto": "COMPRA VENTA",
			"generales_ley": {
				"otorgante": {
					"nombres": "Oliver Thomas Alexander",
					"apellido_paterno": "Stark",
					"numero_documento": 10322575,
					"tipo_documento": "PASAPORTE",
					"docs_adicionales": [{"tipo": "DNI", "numero": "10322575"}, "basura"],
					"domicilio": {"direccion": "Jr. El Golf 756", "ubigeo": {"departamento": "Lima", "provincia": "Lima", "distrito": "La Molina"}},
					"evidence": {
						"nombres": {"evidence_text": "OLIVER THOMAS", "char_span": [10, 23]},
						"bad_span": {"evidence_text": "x", "char_span": [1.5, 3]},
						"short_span": {"evidence_text": "x", "char_span": [1]},
						"no_text": {"evidence_text": 5, "char_span": [1, 2]}
					}
				},
				"beneficiarios": [{"nombres": "Ana", "numero_documento": "11111111"}, 7]
			},
			"fecha_minuta": "Lima, 12 de marzo de 2024",
			"confidence": {"campos": {"nombres": "0.8", "fecha_minuta": "alta", "x": 3}, "clasificacion_acto": 0.5}
		}
	}`)

	ext, issues := Sanitize(raw, "hash-1")
	assert.Equal(t, "COMPRA VENTA", ext.Act)
	assert.Equal(t, "2024-03-12", ext.DeedDate)
	assert.Equal(t, "hash-1", ext.RawTextHash)

	require.Len(t, ext.Parties.Grantors, 1)
	g := ext.Parties.Grantors[0]
	assert.Equal(t, "Oliver Thomas Alexander", g.GivenNames)
	assert.Equal(t, string(entity.RoleGrantor), g.Role)
	// the numeric document number is a mismatch, so the DNI item is promoted
	assert.Equal(t, "DNI", g.DocumentType)
	assert.Equal(t, "10322575", g.DocumentNumber)
	assert.Empty(t, g.AdditionalDocs)
	assert.Equal(t, "La Molina", g.Domicile.District)
	assert.Equal(t, "Lima", g.Domicile.Department)

	require.Len(t, g.Evidence, 1)
	assert.Equal(t, [2]int{10, 23}, g.Evidence["nombres"].Span)

	require.Len(t, ext.Parties.Beneficiaries, 1)
	assert.Empty(t, ext.Parties.Undetermined)

	assert.InDelta(t, 0.8, ext.Confidence.Fields["nombres"], 1e-9)
	assert.Zero(t, ext.Confidence.Fields["fecha_minuta"])
	assert.InDelta(t, 1.0, ext.Confidence.Fields["x"], 1e-9, "scores are clamped to [0,1]")
	assert.InDelta(t, 0.5, ext.Confidence.ActClassification, 1e-9)

	base := "generales_ley.otorgante[0]"
	assert.True(t, hasIssue(issues, base+".numero_documento", IssueTypeMismatch))
	assert.True(t, hasIssue(issues, base+".docs_adicionales[1]", IssueNotObject))
	assert.True(t, hasIssue(issues, base+".evidence.bad_span.char_span", IssueInvalidSpan))
	assert.True(t, hasIssue(issues, base+".evidence.short_span.char_span", IssueInvalidSpan))
	assert.True(t, hasIssue(issues, base+".evidence.no_text.evidence_text", IssueTypeMismatch))
	assert.True(t, hasIssue(issues, "generales_ley.beneficiarios[1]", IssueNotObject))
	assert.True(t, hasIssue(issues, "confidence.campos.fecha_minuta", IssueNotNumeric))
}

func TestSanitizeMissingSections(t *testing.T) {
	ext, issues := Sanitize(map[string]any{"raw_text_hash": "model-hash", "fecha_minuta": 2024.0}, "h")
	assert.Equal(t, "model-hash", ext.RawTextHash)
	assert.Empty(t, ext.DeedDate)
	assert.True(t, hasIssue(issues, "generales_ley", IssueMissing))
	assert.True(t, hasIssue(issues, "fecha_minuta", IssueTypeMismatch))
}

func TestSanitizeKeepsUnparsedDate(t *testing.T) {
	ext, _ := Sanitize(map[string]any{"fecha_minuta": "sin fecha", "generales_ley": map[string]any{}}, "")
	assert.Equal(t, "sin fecha", ext.DeedDate)
}

func TestSanitizeAcceptsJSONNumber(t *testing.T) {
	span := []any{json.Number("3"), json.Number("9")}
	raw := map[string]any{"generales_ley": map[string]any{"otorgantes": []any{
		map[string]any{"evidence": map[string]any{"dni": map[string]any{"evidence_text": "DNI 1", "char_span": span}}},
	}}}
	ext, issues := Sanitize(raw, "")
	assert.Empty(t, issues)
	assert.Equal(t, [2]int{3, 9}, ext.Parties.Grantors[0].Evidence["dni"].Span)
}

func TestPromotePrimaryDocument(t *testing.T) {
	tests := []struct {
		name     string
		in       entity.PersonCandidate
		wantType string
		wantNum  string
		wantAdd  []entity.AdditionalDocument
	}{
		{
			name:     "empty primary takes the national id",
			in:       entity.PersonCandidate{AdditionalDocs: []entity.AdditionalDocument{{Type: "PASAPORTE", Number: "X1"}, {Type: "DNI", Number: "12345678"}}},
			wantType: "DNI",
			wantNum:  "12345678",
			wantAdd:  []entity.AdditionalDocument{{Type: "PASAPORTE", Number: "X1"}},
		},
		{
			name:     "empty primary takes the first usable item",
			in:       entity.PersonCandidate{DocumentNumber: "555", AdditionalDocs: []entity.AdditionalDocument{{Type: "", Number: "1"}, {Type: "C.E.", Number: "999"}}},
			wantType: "C.E.",
			wantNum:  "555",
			wantAdd:  []entity.AdditionalDocument{{Type: "", Number: "1"}},
		},
		{
			name:     "passport primary swaps with national id",
			in:       entity.PersonCandidate{DocumentType: "Pasaporte", DocumentNumber: "C4FNKZ6ZF", AdditionalDocs: []entity.AdditionalDocument{{Type: "D.N.I.", Number: "10322575"}}},
			wantType: "D.N.I.",
			wantNum:  "10322575",
			wantAdd:  []entity.AdditionalDocument{{Type: "Pasaporte", Number: "C4FNKZ6ZF"}},
		},
		{
			name:     "complete national id is left alone",
			in:       entity.PersonCandidate{DocumentType: "DNI", DocumentNumber: "1", AdditionalDocs: []entity.AdditionalDocument{{Type: "DNI", Number: "2"}}},
			wantType: "DNI",
			wantNum:  "1",
			wantAdd:  []entity.AdditionalDocument{{Type: "DNI", Number: "2"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.AdditionalDocs = append([]entity.AdditionalDocument(nil), tt.in.AdditionalDocs...)
			PromotePrimaryDocument(&p)
			assert.Equal(t, tt.wantType, p.DocumentType)
			assert.Equal(t, tt.wantNum, p.DocumentNumber)
			assert.Equal(t, tt.wantAdd, p.AdditionalDocs)

			once := p
			once.AdditionalDocs = append([]entity.AdditionalDocument(nil), p.AdditionalDocs...)
			PromotePrimaryDocument(&p)
			assert.Equal(t, once, p, "promotion is idempotent")
		})
	}
}

func TestToISODate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"05/03/2024", "2024-03-05"},
		{"Lima, 1 de setiembre de 2023", "2023-09-01"},
		{"marzo 7, 2022", "2022-03-07"},
		{"2021-12-31", "2021-12-31"},
		{"31/13/2024", ""},
		{"sin fecha", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got, _ := ToISODate(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPostValidate(t *testing.T) {
	ext := entity.NewExtraction()
	ext.DeedDate = "2024-03-12"
	ext.Parties.Grantors = []entity.PersonCandidate{{
		DocumentNumber: "12345678",
		AdditionalDocs: []entity.AdditionalDocument{
			{Type: "RUC", Number: "20123456789"},
			{Type: "DNI", Number: "123"},
			{Type: "PASAPORTE", Number: "ANYTHING"},
		},
	}}
	ext.Parties.Beneficiaries = []entity.PersonCandidate{{DocumentNumber: "ABC"}}
	ext.Confidence.Fields["generales_ley.beneficiarios[0].numero_documento"] = 0.95

	PostValidate(&ext)
	f := ext.Confidence.Fields
	assert.InDelta(t, 0.9, f["generales_ley.otorgantes[0].numero_documento"], 1e-9)
	assert.InDelta(t, 0.85, f["generales_ley.otorgantes[0].docs_adicionales[0].numero"], 1e-9)
	assert.InDelta(t, 0.4, f["generales_ley.otorgantes[0].docs_adicionales[1].numero"], 1e-9)
	assert.InDelta(t, 0.85, f["generales_ley.otorgantes[0].docs_adicionales[2].numero"], 1e-9)
	assert.InDelta(t, 0.4, f["generales_ley.beneficiarios[0].numero_documento"], 1e-9)
	assert.InDelta(t, 0.9, f["fecha_minuta"], 1e-9)

	before := map[string]float64{}
	for k, v := range f {
		before[k] = v
	}
	PostValidate(&ext)
	assert.Equal(t, before, ext.Confidence.Fields)
}

func TestSchemaValidator(t *testing.T) {
	v, err := NewSchemaValidator()
	require.NoError(t, err)
	require.NoError(t, v.ValidatePayload(entity.EmptyPayload()))

	p := entity.EmptyPayload()
	p.Values.Transfers = []entity.Transfer{{Currency: "SOLES"}, {Currency: "SOLES"}}
	assert.Error(t, v.ValidatePayload(p), "at most one transfer")

	assert.Error(t, v.Validate([]byte(`{"acto": {}}`)))
	assert.Error(t, v.Validate([]byte(`not json`)))
}
