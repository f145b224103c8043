// Package llm turns untrusted language-model output into the intermediate extraction shape
// and checks the final canonical payload against its JSON schema.
package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/minutas/internal/entity"
)

// DefaultAct is used when the model output names no act.
const DefaultAct = "PODER"

var personStringFields = []string{
	"nombres", "apellido_paterno", "apellido_materno", "nacionalidad", "tipo_documento",
	"numero_documento", "profesion_ocupacion", "estado_civil", "role",
}

// roleKeys lists the accepted keys per role, plural first.
var roleKeys = map[entity.Role][]string{
	entity.RoleGrantor:      {"otorgantes", "otorgante"},
	entity.RoleBeneficiary:  {"beneficiarios", "beneficiario"},
	entity.RoleUndetermined: {"indeterminados", "indeterminado"},
}

type parser struct {
	issues []Issue
}

func (ps *parser) note(path string, kind IssueKind) {
	ps.issues = append(ps.issues, Issue{Path: path, Kind: kind})
}

// Sanitize coerces an arbitrary decoded JSON value into an Extraction. It never fails:
// every coerced or dropped fragment is reported as an Issue instead.
// textHash fills raw_text_hash when the model did not echo one.
func Sanitize(raw any, textHash string) (entity.Extraction, []Issue) {
	ps := &parser{}
	ext := entity.NewExtraction()
	ext.Act = DefaultAct
	ext.RawTextHash = textHash

	root, ok := raw.(map[string]any)
	if !ok {
		ps.note("$", IssueNotObject)
		return ext, ps.issues
	}
	if inner, ok := root["payload"].(map[string]any); ok {
		root = inner
	}

	if v, ok := root["acto"]; ok {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			ext.Act = strings.TrimSpace(s)
		} else if !ok {
			ps.note("acto", IssueTypeMismatch)
		}
	}

	gl := ps.object(root, "generales_ley")
	for _, role := range entity.Roles {
		*ext.Parties.List(role) = ps.personList(gl, role)
	}

	date, ok := root["fecha_minuta"].(string)
	if !ok {
		if _, present := root["fecha_minuta"]; present {
			ps.note("fecha_minuta", IssueTypeMismatch)
		}
		date, _ = gl["fecha_minuta"].(string)
	}
	if iso, _ := ToISODate(date); iso != "" {
		ext.DeedDate = iso
	} else {
		ext.DeedDate = strings.TrimSpace(date)
	}

	if cv, present := root["confidence"]; present {
		conf, ok := cv.(map[string]any)
		if !ok {
			ps.note("confidence", IssueNotObject)
		}
		if fields, ok := conf["campos"].(map[string]any); ok {
			for k, v := range fields {
				ext.Confidence.Fields[k] = ps.score(v, "confidence.campos."+k)
			}
		} else if _, present := conf["campos"]; present {
			ps.note("confidence.campos", IssueNotObject)
		}
		if v, present := conf["clasificacion_acto"]; present {
			ext.Confidence.ActClassification = ps.score(v, "confidence.clasificacion_acto")
		}
	}

	if h, ok := root["raw_text_hash"].(string); ok && h != "" {
		ext.RawTextHash = h
	}

	for _, role := range entity.Roles {
		list := *ext.Parties.List(role)
		for i := range list {
			PromotePrimaryDocument(&list[i])
		}
	}
	return ext, ps.issues
}

func (ps *parser) object(m map[string]any, key string) map[string]any {
	v, present := m[key]
	if !present {
		ps.note(key, IssueMissing)
		return map[string]any{}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		ps.note(key, IssueNotObject)
		return map[string]any{}
	}
	return obj
}

func (ps *parser) personList(gl map[string]any, role entity.Role) []entity.PersonCandidate {
	out := []entity.PersonCandidate{}
	var (
		v    any
		path string
	)
	for _, k := range roleKeys[role] {
		if val, ok := gl[k]; ok {
			v, path = val, "generales_ley."+k
			break
		}
	}
	switch t := v.(type) {
	case nil:
	case []any:
		for i, item := range t {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			obj, ok := item.(map[string]any)
			if !ok {
				ps.note(itemPath, IssueNotObject)
				continue
			}
			out = append(out, ps.person(obj, itemPath, role))
		}
	case map[string]any:
		out = append(out, ps.person(t, path+"[0]", role))
	default:
		ps.note(path, IssueTypeMismatch)
	}
	return out
}

func (ps *parser) person(obj map[string]any, path string, role entity.Role) entity.PersonCandidate {
	s := make(map[string]string, len(personStringFields))
	for _, k := range personStringFields {
		s[k] = ps.str(obj, k, path)
	}
	p := entity.PersonCandidate{
		GivenNames:      s["nombres"],
		PaternalSurname: s["apellido_paterno"],
		MaternalSurname: s["apellido_materno"],
		Nationality:     s["nacionalidad"],
		DocumentType:    s["tipo_documento"],
		DocumentNumber:  s["numero_documento"],
		Occupation:      s["profesion_ocupacion"],
		CivilStatus:     s["estado_civil"],
		Role:            s["role"],
		AdditionalDocs:  ps.additionalDocs(obj["docs_adicionales"], path+".docs_adicionales"),
		Evidence:        ps.evidence(obj["evidence"], path+".evidence"),
	}
	if p.Role == "" {
		p.Role = string(role)
	}

	if dv, present := obj["domicilio"]; present && dv != nil {
		dom, ok := dv.(map[string]any)
		if !ok {
			ps.note(path+".domicilio", IssueNotObject)
		} else {
			dpath := path + ".domicilio"
			p.Domicile = entity.Domicile{
				Address:    ps.str(dom, "direccion", dpath),
				District:   ps.str(dom, "distrito", dpath),
				Province:   ps.str(dom, "provincia", dpath),
				Department: ps.str(dom, "departamento", dpath),
			}
			switch u := dom["ubigeo"].(type) {
			case string:
				p.Domicile.LocationCode = strings.TrimSpace(u)
			case map[string]any:
				upath := dpath + ".ubigeo"
				if p.Domicile.District == "" {
					p.Domicile.District = ps.str(u, "distrito", upath)
				}
				if p.Domicile.Province == "" {
					p.Domicile.Province = ps.str(u, "provincia", upath)
				}
				if p.Domicile.Department == "" {
					p.Domicile.Department = ps.str(u, "departamento", upath)
				}
			case nil:
			default:
				ps.note(dpath+".ubigeo", IssueTypeMismatch)
			}
		}
	}
	return p
}

func (ps *parser) additionalDocs(v any, path string) []entity.AdditionalDocument {
	out := []entity.AdditionalDocument{}
	var items []any
	switch t := v.(type) {
	case nil:
		return out
	case []any:
		items = t
	case map[string]any:
		items = []any{t}
	default:
		ps.note(path, IssueTypeMismatch)
		return out
	}
	for i, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		obj, ok := item.(map[string]any)
		if !ok {
			ps.note(itemPath, IssueNotObject)
			continue
		}
		out = append(out, entity.AdditionalDocument{
			Type:    ps.str(obj, "tipo", itemPath),
			Number:  ps.str(obj, "numero", itemPath),
			Remarks: ps.str(obj, "observaciones", itemPath),
		})
	}
	return out
}

func (ps *parser) evidence(v any, path string) map[string]entity.Evidence {
	out := map[string]entity.Evidence{}
	if v == nil {
		return out
	}
	m, ok := v.(map[string]any)
	if !ok {
		ps.note(path, IssueNotObject)
		return out
	}
	for k, raw := range m {
		item, ok := raw.(map[string]any)
		if !ok {
			ps.note(path+"."+k, IssueNotObject)
			continue
		}
		txt, ok := item["evidence_text"].(string)
		if !ok {
			ps.note(path+"."+k+".evidence_text", IssueTypeMismatch)
			continue
		}
		span, ok := spanOf(item["char_span"])
		if !ok {
			ps.note(path+"."+k+".char_span", IssueInvalidSpan)
			continue
		}
		out[k] = entity.Evidence{Text: txt, Span: span}
	}
	return out
}

// str reads a string field; nil and absent are empty, anything else is a mismatch.
func (ps *parser) str(m map[string]any, key, path string) string {
	switch t := m[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		ps.note(path+"."+key, IssueTypeMismatch)
		return ""
	}
}

func (ps *parser) score(v any, path string) float64 {
	f, ok := toFloat(v)
	if !ok {
		ps.note(path, IssueNotNumeric)
		return 0
	}
	return min(max(f, 0), 1)
}

func spanOf(v any) ([2]int, bool) {
	list, ok := v.([]any)
	if !ok || len(list) != 2 {
		return [2]int{}, false
	}
	var span [2]int
	for i, x := range list {
		n, ok := toInt(x)
		if !ok {
			return [2]int{}, false
		}
		span[i] = n
	}
	return span, true
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && !math.IsNaN(f)
	default:
		return 0, false
	}
}
