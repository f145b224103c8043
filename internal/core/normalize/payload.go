package normalize

import (
	"context"

	"github.com/joseph-ayodele/minutas/constants"
	"github.com/joseph-ayodele/minutas/internal/entity"
)

// Input is everything the payload normalizer reads.
type Input struct {
	// Raw is the unwrapped model output; only acto, participantes, valores and bienes are read.
	Raw Fields
	// Parties are the reconciled persons.
	Parties entity.Parties
	// Service is the document/service-type label, e.g. "COMPRA VENTA".
	Service string
	// DeedDate is the reconciled deed date used when acto carries none.
	DeedDate string
	// Text is the conditioned deed text.
	Text string
}

// Payload builds the canonical payload: act, participants, payments and assets, upper-cased.
func (n *Normalizer) Payload(ctx context.Context, in Input) entity.Payload {
	raw := Unwrap(in.Raw)
	if raw == nil {
		raw = Fields{}
	}
	out := entity.EmptyPayload()
	out.Act = Act(raw.Map("acto"), in.Service, in.DeedDate)

	participants := raw.Map("participantes")
	for _, f := range PartyFields(in.Parties.Grantors, participants.List("otorgantes"), constants.RoleGrantor) {
		out.Participants.Grantors = append(out.Participants.Grantors, n.Participant(ctx, f))
	}
	for _, f := range PartyFields(in.Parties.Beneficiaries, participants.List("beneficiarios"), constants.RoleBeneficiary) {
		out.Participants.Beneficiaries = append(out.Participants.Beneficiaries, n.Participant(ctx, f))
	}

	out.Values = n.Values(ctx, raw.Map("valores"), out.Act.ServiceName)

	for _, b := range raw.List("bienes") {
		out.Assets = append(out.Assets, n.Asset(ctx, b, in.Text))
	}

	Uppercase(&out)
	return out
}

// PartyFields pairs reconciled persons with the model's participant entries by position.
// Person values win when set; the entry supplies everything a person does not carry
// (person type, corporate name, industry, shares, email). The role is always set.
func PartyFields(persons []entity.PersonCandidate, entries []Fields, role string) []Fields {
	out := make([]Fields, 0, max(len(persons), len(entries)))
	for i := range max(len(persons), len(entries)) {
		f := Fields{}
		if i < len(entries) {
			for k, v := range entries[i] {
				f[k] = v
			}
		}
		if i < len(persons) {
			overlayPerson(f, persons[i])
		}
		f["rol"] = role
		out = append(out, f)
	}
	return out
}

func overlayPerson(f Fields, p entity.PersonCandidate) {
	set := func(key, v string) {
		if v != "" {
			f[key] = v
		}
	}
	set("nombres", p.GivenNames)
	set("apellido_paterno", p.PaternalSurname)
	set("apellido_materno", p.MaternalSurname)
	set("ocupacion", p.Occupation)
	set("estado_civil", p.CivilStatus)
	if f.Str("pais") == "" {
		set("nacionalidad", p.Nationality)
	}

	if p.DocumentType != "" || p.DocumentNumber != "" {
		f["documento"] = map[string]any{
			"tipo_documento":   p.DocumentType,
			"numero_documento": p.DocumentNumber,
		}
	}
	if !p.Domicile.IsEmpty() {
		f["domicilio"] = map[string]any{
			"direccion": p.Domicile.Address,
			"co_ubigeo": p.Domicile.LocationCode,
			"ubigeo": map[string]any{
				"departamento": p.Domicile.Department,
				"provincia":    p.Domicile.Province,
				"distrito":     p.Domicile.District,
			},
		}
	}
}
