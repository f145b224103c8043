package normalize

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/minutas/constants"
	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/textutil"
)

// Participant canonicalizes one party record.
func (n *Normalizer) Participant(ctx context.Context, in Fields) entity.Participant {
	p := entity.Participant{
		PersonType:           constants.CanonicalizePersonType(textutil.Key(in.Str("tipo_persona", "tipoPersona"))),
		GivenNames:           in.Str("nombres"),
		PaternalSurname:      in.Str("apellido_paterno", "apellidoPaterno"),
		MaternalSurname:      in.Str("apellido_materno", "apellidoMaterno"),
		CorporateName:        in.Str("razon_social", "razonSocial"),
		Country:              in.Str("pais", "nacionalidad"),
		CountryCode:          in.Code("co_pais"),
		Document:             n.Document(ctx, in.Map("documento")),
		Occupation:           in.Str("ocupacion", "profesion_ocupacion", "profesionOcupacion"),
		OccupationOther:      in.Str("otros_ocupaciones", "otrosOcupaciones"),
		OccupationCode:       in.Code("co_ocupacion"),
		CivilStatus:          in.Str("estado_civil", "estadoCivil"),
		CivilStatusCode:      in.Code("co_estado_civil", "co_estadoCivil"),
		Domicile:             Domicile(in.Map("domicilio")),
		Gender:               in.Str("genero"),
		Role:                 in.Str("rol"),
		Relationship:         in.Str("relacion"),
		Email:                in.Str("correo", "email"),
		ParticipationPct:     in.Float("porcentaje_participacion", "porcentajeParticipacion"),
		SharesParticipations: in.Int("numeroAcciones_participaciones", "numeroAccionesParticipaciones"),
		SharesSubscribed:     in.Int("acciones_suscritas", "accionesSuscritas"),
		ContributedAmount:    in.Float("monto_aportado", "montoAportado"),
	}
	p.GivenNames = GivenNamesWithoutSurnames(p.GivenNames, p.PaternalSurname, p.MaternalSurname)

	if p.Country == "" {
		p.Country = InferCountry(p.Domicile.Location)
	}
	if p.CountryCode == nil {
		p.CountryCode = codeOf(n.findByName(ctx, "country", n.catalogs.Countries, p.Country))
	}
	n.resolveOccupation(ctx, &p)
	n.resolveCivilStatus(ctx, &p)
	n.resolveIndustry(ctx, &p, in)
	return p
}

// GivenNamesWithoutSurnames drops surname words that leaked into the given names
// ("JUAN PEREZ" with paternal "Perez" -> "Juan"). Without separate surnames, or when
// nothing would remain, the given names are returned as they came.
func GivenNamesWithoutSurnames(given, paternal, maternal string) string {
	if given == "" || (paternal == "" && maternal == "") {
		return given
	}
	words := strings.Fields(nameKey(given))
	for _, surname := range []string{paternal, maternal} {
		words = removeRun(words, strings.Fields(nameKey(surname)))
	}
	if len(words) == 0 {
		return given
	}
	return textutil.TitleCase(strings.Join(words, " "))
}

// nameKey upper-cases and keeps letters, digits, spaces, dashes and slashes.
func nameKey(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '/' {
			return r
		}
		return -1
	}, strings.ToUpper(s))
	return textutil.CleanSpaces(s)
}

// removeRun deletes every occurrence of the word sequence run from words.
func removeRun(words, run []string) []string {
	if len(run) == 0 {
		return words
	}
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if i+len(run) <= len(words) && equalWords(words[i:i+len(run)], run) {
			i += len(run)
			continue
		}
		out = append(out, words[i])
		i++
	}
	return out
}

func equalWords(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// InferCountry returns the home country when the location sits inside a home department,
// or in a capital province with no department given. Otherwise "".
func InferCountry(loc entity.Location) string {
	dep := textutil.Key(loc.Department)
	if constants.IsPeruDepartment(dep) {
		return constants.HomeCountry
	}
	if dep == "" {
		if _, ok := constants.CapitalProvinces[textutil.Key(loc.Province)]; ok {
			return constants.HomeCountry
		}
	}
	return ""
}

// resolveOccupation maps free text to the occupation catalog. When the catalog falls back to
// its "other" bucket the original text is kept in OccupationOther.
func (n *Normalizer) resolveOccupation(ctx context.Context, p *entity.Participant) {
	c := n.catalogs.Occupations
	if c == nil || p.Occupation == "" || p.OccupationCode != nil {
		return
	}
	original := p.Occupation
	row := n.lookup(ctx, "occupation", original, func() (*entity.CatalogEntry, error) {
		return c.FindByDescription(ctx, original)
	})
	if row == nil {
		return
	}
	p.OccupationCode = codeOf(row)
	if textutil.Key(row.Name) == constants.OtherOccupation {
		if p.OccupationOther == "" {
			p.OccupationOther = original
		}
		p.Occupation = constants.OtherOccupation
		return
	}
	p.Occupation = textutil.CleanSpaces(row.Name)
}

// resolveCivilStatus looks the folded form up first ("SOLTERA" -> "SOLTERO"), then the raw one.
// A hit stores the folded form.
func (n *Normalizer) resolveCivilStatus(ctx context.Context, p *entity.Participant) {
	folded := constants.FoldCivilStatus(textutil.Upper(p.CivilStatus))
	if folded == "" || p.CivilStatusCode != nil {
		return
	}
	row := n.findByName(ctx, "civil_status", n.catalogs.CivilStatus, folded)
	if row == nil && folded != p.CivilStatus {
		row = n.findByName(ctx, "civil_status", n.catalogs.CivilStatus, p.CivilStatus)
	}
	if row != nil {
		p.CivilStatusCode = codeOf(row)
		p.CivilStatus = folded
	}
}

// resolveIndustry fills ciiu/co_ciiu for incorporated beneficiaries only; everyone else has none.
func (n *Normalizer) resolveIndustry(ctx context.Context, p *entity.Participant, in Fields) {
	if textutil.Key(p.Role) != constants.RoleBeneficiary || p.PersonType != constants.PersonJuridical {
		p.Industry, p.IndustryCode = "", nil
		return
	}
	p.Industry = in.Str("ciiu")
	p.IndustryCode = in.Code("co_ciiu", "coCiiu")

	c := n.catalogs.Industries
	if p.Industry == "" && p.IndustryCode != nil && c != nil {
		code := *p.IndustryCode
		row := n.lookup(ctx, "industry", in.Str("co_ciiu", "coCiiu"), func() (*entity.CatalogEntry, error) {
			return c.FindByCode(ctx, strconv.Itoa(code))
		})
		if row == nil {
			// An unknown code stays visible as an empty industry instead of the default activity.
			n.logger.WarnContext(ctx, "participant.industry_code_unknown", "co_ciiu", code)
			p.Industry, p.IndustryCode = "", nil
			return
		}
		p.Industry, p.IndustryCode = textutil.CleanSpaces(row.Name), codeOf(row)
	}
	if p.Industry == "" {
		p.Industry = constants.DefaultIndustryActivity
	}
	if c == nil {
		return
	}
	text := p.Industry
	if row := n.lookup(ctx, "industry", text, func() (*entity.CatalogEntry, error) {
		return c.BestMatch(ctx, text)
	}); row != nil {
		p.Industry, p.IndustryCode = textutil.CleanSpaces(row.Name), codeOf(row)
	}
}
