package normalize

import (
	"context"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/minutas/constants"
	"github.com/joseph-ayodele/minutas/internal/core/llm"
	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/textutil"
)

var reAssetDistrict = regexp.MustCompile(`,\s*([A-Z ]{3,}?)\s*,\s*CON UN AREA`)

// Asset canonicalizes one asset record using the deed text for context-sensitive inference.
// A record with no type, class, registry entry, zone or location comes back fully empty:
// nothing is inferred without some signal in the record itself.
func (n *Normalizer) Asset(ctx context.Context, in Fields, text string) entity.Asset {
	typeRaw := in.Str("tipo_bien", "tipo")
	classRaw := in.Str("clase_bien", "clase")
	a := entity.Asset{
		Location:          Location(in.Map("ubigeo")),
		RegistryEntry:     in.Str("partida_registral", "partidaRegistral"),
		RegistryZone:      in.Str("zona_registral", "zonaRegistral"),
		RegistryZoneCode:  in.Code("co_zona_registral"),
		AcquisitionDate:   in.Str("fecha_adquisicion", "fechaAdquisicion"),
		DeedDate:          in.Str("fecha_minuta", "fechaMinuta"),
		MovableOption:     in.Str("opcion_bien_mueble", "opcionBienMueble"),
		PlateSerialEngine: in.Str("numero_psm", "placaSerieMotor"),
	}
	if typeRaw == "" && classRaw == "" && a.RegistryEntry == "" && a.RegistryZone == "" && !a.Location.Any() {
		return entity.Asset{}
	}

	ctxKey := textutil.Key(text)
	if typeRaw != "" {
		t, _ := constants.CanonicalizeAssetType(textutil.Key(typeRaw))
		a.Type = string(t)
	}
	switch {
	case classRaw != "":
		a.Class = classRaw
	case a.Type != "" && a.Location.Any():
		a.Class = string(constants.CanonicalizeAssetClass(textutil.Key(typeRaw), ctxKey))
	}

	if a.Type == string(constants.AssetRealEstate) || a.RegistryEntry != "" || strings.Contains(ctxKey, "SUNARP") {
		if a.RegistryZone == "" {
			a.RegistryZone = InferRegistryZone(text)
		}
		if a.RegistryZoneCode == nil {
			a.RegistryZoneCode = codeOf(n.findByName(ctx, "registry_zone", n.catalogs.RegistryZones, a.RegistryZone))
		}
	}
	if a.Type == string(constants.AssetRealEstate) && a.Location.District == "" {
		a.Location.District = InferAssetDistrict(text)
	}
	return a
}

// InferRegistryZone recognizes the few phrases that name a registry zone outright.
// It never guesses from anything else.
func InferRegistryZone(text string) string {
	key := textutil.Key(text)
	for _, p := range constants.RegistryZonePhrases {
		if strings.Contains(key, p.Phrase) {
			return p.Zone
		}
	}
	return ""
}

// InferAssetDistrict reads the district from a property description of the form
// "..., <DISTRICT>, con un área ...". Districts named elsewhere in the deed are ignored.
func InferAssetDistrict(text string) string {
	m := reAssetDistrict.FindStringSubmatch(textutil.Key(text))
	if m == nil {
		return ""
	}
	if d := textutil.CleanSpaces(m[1]); len(d) >= 3 {
		return d
	}
	return ""
}

// Act builds the deed descriptor. The date falls back to fallbackDate and is kept only
// when it can be read as a calendar date, in ISO form.
func Act(in Fields, service, fallbackDate string) entity.Act {
	date := textutil.FirstNonEmpty(in.Str("fecha_minuta", "fechaMinuta"), fallbackDate)
	iso, _ := llm.ToISODate(date)
	return entity.Act{
		ServiceName: textutil.FirstNonEmpty(in.Str("nombre_servicio", "nombreServicio"), textutil.CleanSpaces(service)),
		DeedDate:    iso,
	}
}
